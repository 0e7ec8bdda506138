package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/perov/internal/ir"
)

// ErrCorruptEntry is returned when a cached composition no longer matches
// the content hash recorded with it.
var ErrCorruptEntry = errors.New("store: cached composition fails its content hash")

// cacheKey scopes a normalized formula by the parse configuration that
// produced its composition.
func cacheKey(vocabulary, normalized string) string {
	return ir.FormulaKey(vocabulary + "\x00" + normalized)
}

// LookupComposition returns the composition cached for a normalized formula
// under the parse configuration identified by fingerprint
// (formula.Processor.Fingerprint). The second result is false on a miss.
// Symbols come back in the order they were stored.
func (s *Store) LookupComposition(ctx context.Context, fingerprint, normalized string) (ir.Composition, bool, error) {
	var pairs, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT pairs, hash FROM compositions WHERE key = ?
	`, cacheKey(ir.VocabularyKey(fingerprint), normalized)).Scan(&pairs, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Composition{}, false, nil
	}
	if err != nil {
		return ir.Composition{}, false, fmt.Errorf("lookup composition: %w", err)
	}

	c, err := unmarshalPairs(pairs)
	if err != nil {
		return ir.Composition{}, false, fmt.Errorf("lookup composition: %w", err)
	}
	got, err := ir.CompositionHash(c)
	if err != nil {
		return ir.Composition{}, false, fmt.Errorf("lookup composition: %w", err)
	}
	if got != hash {
		return ir.Composition{}, false, fmt.Errorf("%w: %s", ErrCorruptEntry, normalized)
	}
	return c, true, nil
}

// StoreComposition caches c for a normalized formula under fingerprint.
// The first stored composition for a key wins; processing is deterministic
// for a given fingerprint, so later writes carry the same value.
func (s *Store) StoreComposition(ctx context.Context, fingerprint, normalized string, c ir.Composition) error {
	pairs, err := marshalPairs(c)
	if err != nil {
		return fmt.Errorf("store composition: %w", err)
	}
	hash, err := ir.CompositionHash(c)
	if err != nil {
		return fmt.Errorf("store composition: %w", err)
	}

	vocabulary := ir.VocabularyKey(fingerprint)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compositions (key, vocabulary, normalized, pairs, hash, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM compositions))
		ON CONFLICT(key) DO NOTHING
	`, cacheKey(vocabulary, normalized), vocabulary, normalized, pairs, hash)
	if err != nil {
		return fmt.Errorf("store composition: %w", err)
	}
	return nil
}

// CachedFormulas returns the normalized formulas cached under fingerprint,
// in insertion order.
func (s *Store) CachedFormulas(ctx context.Context, fingerprint string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT normalized FROM compositions
		WHERE vocabulary = ?
		ORDER BY seq ASC, key COLLATE BINARY ASC
	`, ir.VocabularyKey(fingerprint))
	if err != nil {
		return nil, fmt.Errorf("query compositions: %w", err)
	}
	defer rows.Close()

	formulas := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan composition: %w", err)
		}
		formulas = append(formulas, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compositions: %w", err)
	}
	return formulas, nil
}
