package table

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/perov/internal/formula"
	"github.com/roach88/perov/internal/ir"
)

// DefaultFormulaColumn is the frame column holding formula text.
const DefaultFormulaColumn = "Formula"

// Cache stores compositions keyed by normalized formula text, scoped by the
// fingerprint of the processor that parsed them. Implemented by store.Store.
type Cache interface {
	LookupComposition(ctx context.Context, fingerprint, normalized string) (ir.Composition, bool, error)
	StoreComposition(ctx context.Context, fingerprint, normalized string, c ir.Composition) error
}

// Builder turns batches of formulas into feature tables.
// A Builder is safe for concurrent use if its Cache is.
type Builder struct {
	processor     *formula.Processor
	formulaColumn string
	workers       int
	cache         Cache
	fingerprint   string // processor fingerprint, scopes cache entries
	logger        *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers sets how many rows are processed concurrently.
// Values below 2 process rows sequentially.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		b.workers = n
	}
}

// WithCache consults c before parsing each formula and records new results in it.
// Cache failures are logged and never fail a build.
func WithCache(c Cache) BuilderOption {
	return func(b *Builder) {
		b.cache = c
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithFormulaColumn sets the frame column read by BuildFrame.
func WithFormulaColumn(name string) BuilderOption {
	return func(b *Builder) {
		b.formulaColumn = name
	}
}

// NewBuilder creates a Builder around the given processor.
func NewBuilder(p *formula.Processor, opts ...BuilderOption) *Builder {
	b := &Builder{
		processor:     p,
		fingerprint:   p.Fingerprint(),
		formulaColumn: DefaultFormulaColumn,
		workers:       1,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is the outcome of one build.
type Result struct {
	// Rows holds one composition per input formula, in input order.
	Rows []ir.Composition `json:"rows"`

	// Columns is the sorted union of all symbols across Rows.
	Columns []string `json:"columns"`

	// NewColumns is Columns minus the caller's existing columns, sorted.
	NewColumns []string `json:"new_columns"`
}

// Build processes every formula and computes the column delta against existing.
// Malformed formulas never fail a build; they yield short or empty rows.
// The only error is ctx cancellation.
func (b *Builder) Build(ctx context.Context, formulas []string, existing []string) (*Result, error) {
	b.logger.Debug("building feature table", "rows", len(formulas), "workers", b.workers)

	rows, err := b.processRows(ctx, formulas)
	if err != nil {
		return nil, err
	}

	columns, added := Delta(rows, existing)
	b.logger.Info("feature table built",
		"rows", len(rows),
		"columns", len(columns),
		"new_columns", len(added),
	)

	return &Result{Rows: rows, Columns: columns, NewColumns: added}, nil
}

func (b *Builder) processRows(ctx context.Context, formulas []string) ([]ir.Composition, error) {
	rows := make([]ir.Composition, len(formulas))

	if b.workers < 2 {
		for i, text := range formulas {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows[i] = b.processRow(ctx, text)
		}
		return rows, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each worker writes only its own slot.
				rows[i] = b.processRow(ctx, formulas[i])
			}
		}()
	}

dispatch:
	for i := range formulas {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (b *Builder) processRow(ctx context.Context, text string) ir.Composition {
	if b.cache == nil {
		return b.processor.Process(text)
	}

	key := formula.Normalize(text)
	if c, ok, err := b.cache.LookupComposition(ctx, b.fingerprint, key); err != nil {
		b.logger.Warn("composition cache lookup failed", "formula", key, "error", err)
	} else if ok {
		return c
	}

	c := b.processor.Process(text)
	if err := b.cache.StoreComposition(ctx, b.fingerprint, key, c); err != nil {
		b.logger.Warn("composition cache store failed", "formula", key, "error", err)
	}
	return c
}

// Delta returns the sorted union of symbols across rows and the subset of it
// not present in existing. existing is read only.
func Delta(rows []ir.Composition, existing []string) (columns, added []string) {
	known := make(map[string]struct{}, len(existing))
	for _, col := range existing {
		known[col] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, sym := range row.Keys() {
			seen[sym] = struct{}{}
		}
	}

	columns = make([]string, 0, len(seen))
	added = make([]string, 0, len(seen))
	for sym := range seen {
		columns = append(columns, sym)
		if _, ok := known[sym]; !ok {
			added = append(added, sym)
		}
	}
	ir.SortKeys(columns)
	ir.SortKeys(added)
	return columns, added
}
