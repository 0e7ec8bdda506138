package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/config"
	"github.com/roach88/perov/internal/formula"
	"github.com/roach88/perov/internal/ir"
	"github.com/roach88/perov/internal/store"
	"github.com/roach88/perov/internal/table"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store, used as the builder's
// composition cache and as the batch log. Assertion failures are reported in
// Result.Errors; the returned error is for setup and execution failures.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg := config.Default()
	if scenario.Config != "" {
		loaded, err := config.Load(scenario.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	processor, err := cfg.Processor()
	if err != nil {
		return nil, fmt.Errorf("failed to build processor: %w", err)
	}
	sites, err := cfg.SiteTable()
	if err != nil {
		return nil, fmt.Errorf("failed to build site table: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	opts := append(cfg.BuilderOptions(),
		table.WithCache(st),
		table.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)
	builder := table.NewBuilder(processor, opts...)

	res, err := builder.Build(ctx, scenario.Formulas, scenario.Existing)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	batchID := scenario.BatchID
	if batchID == "" {
		batchID = DefaultBatchID
	}
	batch, err := st.RecordBatch(ctx, store.NewFixedGenerator(batchID), scenario.Formulas, res)
	if err != nil {
		return nil, fmt.Errorf("failed to record batch: %w", err)
	}

	result := NewResult()
	result.BatchID = batch.ID
	result.Columns = append(result.Columns, batch.Columns...)
	result.NewColumns = append(result.NewColumns, batch.NewColumns...)
	for i, text := range scenario.Formulas {
		result.Rows = append(result.Rows, traceRow(processor, sites, text, res.Rows[i]))
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(result, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// traceRow pairs the built row with the parse details of its formula.
func traceRow(p *formula.Processor, sites *chem.SiteTable, text string, row ir.Composition) RowTrace {
	a := p.Analyze(text)
	return RowTrace{
		Formula:     text,
		Normalized:  a.Normalized,
		Composition: row,
		Remainder:   a.Remainder(),
		Mixing:      table.Mixing(row, sites),
	}
}
