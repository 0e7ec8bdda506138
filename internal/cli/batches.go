package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/perov/internal/store"
	"github.com/roach88/perov/internal/table"
)

// BatchesOptions holds flags for the batches command.
type BatchesOptions struct {
	*RootOptions
	Database string
}

// BatchSummary is one line of the batch log.
type BatchSummary struct {
	ID         string   `json:"id"`
	Seq        int64    `json:"seq"`
	Rows       int      `json:"rows"`
	NewColumns []string `json:"new_columns"`
}

// BatchList is the payload of the batches command without an id.
type BatchList struct {
	Batches []BatchSummary `json:"batches"`
}

func (l BatchList) String() string {
	if len(l.Batches) == 0 {
		return "No batches recorded."
	}
	rows := make([][]string, len(l.Batches))
	for i, b := range l.Batches {
		rows[i] = []string{
			strconv.FormatInt(b.Seq, 10),
			b.ID,
			strconv.Itoa(b.Rows),
			strings.Join(b.NewColumns, ", "),
		}
	}
	return renderTable([]string{"Seq", "ID", "Rows", "New columns"}, rows)
}

// NewBatchesCommand creates the batches command.
func NewBatchesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batches [id]",
		Short: "List or show batches recorded by perov table",
		Long: `Read the batch log written by "perov table --db".

Without an id, lists every batch in recording order with its row count
and the columns it added. With an id, prints that batch as a table.

Exit codes:
  0 - Success
  1 - Database read failure
  2 - Command error (database not openable, unknown batch id)

Examples:
  perov batches --db perov.db
  perov batches 01920c4e-7b1a-7000-8000-000000000000 --db perov.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowBatch(opts, args[0], cmd)
			}
			return runListBatches(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runListBatches(opts *BatchesOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger(cmd)
	ctx := cmd.Context()

	st, err := openStore(opts.Database, logger)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer closeStore(st, logger)

	ids, err := st.BatchIDs(ctx)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeStore, "failed to list batches", err)
	}

	list := BatchList{Batches: make([]BatchSummary, len(ids))}
	for i, id := range ids {
		b, err := st.ReadBatch(ctx, id)
		if err != nil {
			return out.Fail(ExitFailure, ErrCodeStore, "failed to read batch", err)
		}
		list.Batches[i] = BatchSummary{ID: b.ID, Seq: b.Seq, Rows: len(b.Rows), NewColumns: b.NewColumns}
	}
	return out.Success(list)
}

func runShowBatch(opts *BatchesOptions, id string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	sites, err := cfg.SiteTable()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	st, err := openStore(opts.Database, logger)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer closeStore(st, logger)

	b, err := st.ReadBatch(cmd.Context(), id)
	if errors.Is(err, store.ErrBatchNotFound) {
		return out.Fail(ExitCommandError, ErrCodeNotFound, "no such batch", err)
	}
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeStore, "failed to read batch", err)
	}

	result := TableResult{
		BatchID:    b.ID,
		Columns:    b.Columns,
		NewColumns: b.NewColumns,
		Rows:       make([]TableRow, len(b.Rows)),
	}
	for i, row := range b.Rows {
		result.Rows[i] = TableRow{Formula: b.Formulas[i], Composition: row, Mixing: table.Mixing(row, sites)}
	}
	return out.Success(result)
}
