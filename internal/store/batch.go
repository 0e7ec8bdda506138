package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/perov/internal/ir"
	"github.com/roach88/perov/internal/table"
)

var _ table.Cache = (*Store)(nil)

// ErrBatchNotFound is returned by ReadBatch for an unknown id.
var ErrBatchNotFound = errors.New("store: batch not found")

// Batch is one recorded table build.
type Batch struct {
	ID         string           `json:"id"`
	Seq        int64            `json:"seq"`
	Formulas   []string         `json:"formulas"`
	Rows       []ir.Composition `json:"rows"`
	Columns    []string         `json:"columns"`
	NewColumns []string         `json:"new_columns"`
}

// NewBatch pairs the input formulas of a build with its result.
func NewBatch(id string, formulas []string, res *table.Result) (Batch, error) {
	if len(formulas) != len(res.Rows) {
		return Batch{}, fmt.Errorf("new batch: %d formulas for %d rows", len(formulas), len(res.Rows))
	}
	return Batch{
		ID:         id,
		Formulas:   formulas,
		Rows:       res.Rows,
		Columns:    res.Columns,
		NewColumns: res.NewColumns,
	}, nil
}

// RecordBatch builds a Batch with an id from gen, writes it, and returns it
// with Seq assigned.
func (s *Store) RecordBatch(ctx context.Context, gen BatchIDGenerator, formulas []string, res *table.Result) (Batch, error) {
	b, err := NewBatch(gen.Generate(), formulas, res)
	if err != nil {
		return Batch{}, err
	}
	seq, err := s.WriteBatch(ctx, b)
	if err != nil {
		return Batch{}, err
	}
	b.Seq = seq
	return b, nil
}

// WriteBatch inserts a batch and its rows in one transaction and returns the
// assigned seq. b.Seq is ignored. Writing an id that already exists fails.
func (s *Store) WriteBatch(ctx context.Context, b Batch) (int64, error) {
	if b.ID == "" {
		return 0, fmt.Errorf("write batch: empty id")
	}
	if len(b.Formulas) != len(b.Rows) {
		return 0, fmt.Errorf("write batch: %d formulas for %d rows", len(b.Formulas), len(b.Rows))
	}

	columns, err := marshalColumns(b.Columns)
	if err != nil {
		return 0, fmt.Errorf("write batch: %w", err)
	}
	newColumns, err := marshalColumns(b.NewColumns)
	if err != nil {
		return 0, fmt.Errorf("write batch: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM batches`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write batch: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, seq, columns, new_columns, row_count)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, seq, columns, newColumns, len(b.Rows))
	if err != nil {
		return 0, fmt.Errorf("write batch: %w", err)
	}

	for i, row := range b.Rows {
		comp, err := marshalPairs(row)
		if err != nil {
			return 0, fmt.Errorf("write batch: row %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO batch_rows (batch_id, row_index, formula, pairs)
			VALUES (?, ?, ?, ?)
		`, b.ID, i, b.Formulas[i], comp)
		if err != nil {
			return 0, fmt.Errorf("write batch: row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write batch: commit: %w", err)
	}
	return seq, nil
}

// ReadBatch returns the batch with the given id, rows in input order and
// each row's symbols in first-encounter order.
// Returns an error wrapping ErrBatchNotFound if no such batch exists.
func (s *Store) ReadBatch(ctx context.Context, id string) (Batch, error) {
	b := Batch{ID: id}
	var columns, newColumns string
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, columns, new_columns FROM batches WHERE id = ?
	`, id).Scan(&b.Seq, &columns, &newColumns)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	if err != nil {
		return Batch{}, fmt.Errorf("read batch: %w", err)
	}

	if b.Columns, err = unmarshalColumns(columns); err != nil {
		return Batch{}, fmt.Errorf("read batch: %w", err)
	}
	if b.NewColumns, err = unmarshalColumns(newColumns); err != nil {
		return Batch{}, fmt.Errorf("read batch: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT formula, pairs FROM batch_rows
		WHERE batch_id = ?
		ORDER BY row_index ASC
	`, id)
	if err != nil {
		return Batch{}, fmt.Errorf("read batch rows: %w", err)
	}
	defer rows.Close()

	b.Formulas = []string{}
	b.Rows = []ir.Composition{}
	for rows.Next() {
		var formula, text string
		if err := rows.Scan(&formula, &text); err != nil {
			return Batch{}, fmt.Errorf("scan batch row: %w", err)
		}
		c, err := unmarshalPairs(text)
		if err != nil {
			return Batch{}, fmt.Errorf("read batch rows: %w", err)
		}
		b.Formulas = append(b.Formulas, formula)
		b.Rows = append(b.Rows, c)
	}
	if err := rows.Err(); err != nil {
		return Batch{}, fmt.Errorf("iterate batch rows: %w", err)
	}
	return b, nil
}

// BatchIDs returns all batch ids in recording order.
func (s *Store) BatchIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM batches
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return ids, nil
}

// KnownColumns returns the union of columns over all recorded batches,
// sorted canonically. perov table uses it as the baseline existing set when
// a database is given.
func (s *Store) KnownColumns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT columns FROM batches ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query batch columns: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan batch columns: %w", err)
		}
		cols, err := unmarshalColumns(text)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			seen[c] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch columns: %w", err)
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	ir.SortKeys(out)
	return out, nil
}
