package cli

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/perov/internal/chart"
	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/ir"
	"github.com/roach88/perov/internal/store"
	"github.com/roach88/perov/internal/table"
)

// TableOptions holds flags for the table command.
type TableOptions struct {
	*RootOptions
	Existing []string // columns the caller's table already has
	Database string   // SQLite cache + batch log
	Chart    string   // occupancy chart output path
	Vectors  string   // descriptor matrix CSV output path
	CSV      bool     // input is a CSV table with a header row
	Output   string   // extended CSV output path, --csv only

	// idGen overrides batch id generation in tests.
	idGen store.BatchIDGenerator
}

// TableRow is one built row.
type TableRow struct {
	Formula     string         `json:"formula"`
	Composition ir.Composition `json:"composition"`
	Mixing      string         `json:"mixing"`
}

// TableResult is the payload of the table command.
type TableResult struct {
	BatchID    string     `json:"batch_id,omitempty"`
	Columns    []string   `json:"columns"`
	NewColumns []string   `json:"new_columns"`
	Rows       []TableRow `json:"rows"`
}

func (r TableResult) String() string {
	headers := append([]string{"Formula"}, r.Columns...)
	headers = append(headers, "Mixing")

	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := []string{row.Formula}
		for _, col := range r.Columns {
			if v, ok := row.Composition.Get(col); ok {
				cells = append(cells, v.String())
			} else {
				cells = append(cells, "")
			}
		}
		rows[i] = append(cells, row.Mixing)
	}

	var sb strings.Builder
	sb.WriteString(renderTable(headers, rows))
	writeNewColumns(&sb, r.NewColumns)
	if r.BatchID != "" {
		fmt.Fprintf(&sb, "\nBatch: %s", r.BatchID)
	}
	return sb.String()
}

// FrameResult is the payload of the table command with --csv. Rows carry
// only the cells that are set.
type FrameResult struct {
	Columns    []string            `json:"columns"`
	NewColumns []string            `json:"new_columns"`
	Rows       []map[string]string `json:"rows"`
	Output     string              `json:"output,omitempty"`
}

func newFrameResult(f *table.Frame, added []string, output string) FrameResult {
	r := FrameResult{
		Columns:    f.Columns,
		NewColumns: added,
		Rows:       make([]map[string]string, len(f.Rows)),
		Output:     output,
	}
	for i, rec := range f.Rows {
		cells := make(map[string]string, len(rec))
		for _, col := range f.Columns {
			if v, ok := rec[col]; ok && v != nil {
				cells[col] = table.CellString(v)
			}
		}
		r.Rows[i] = cells
	}
	return r
}

func (r FrameResult) String() string {
	rows := make([][]string, len(r.Rows))
	for i, cells := range r.Rows {
		rows[i] = make([]string, len(r.Columns))
		for j, col := range r.Columns {
			rows[i][j] = cells[col]
		}
	}

	var sb strings.Builder
	sb.WriteString(renderTable(r.Columns, rows))
	writeNewColumns(&sb, r.NewColumns)
	if r.Output != "" {
		fmt.Fprintf(&sb, "\nWritten: %s", r.Output)
	}
	return sb.String()
}

func writeNewColumns(sb *strings.Builder, cols []string) {
	fmt.Fprintf(sb, "\n\nNew columns: %s", strings.Join(cols, ", "))
	if len(cols) == 0 {
		sb.WriteString("(none)")
	}
}

// NewTableCommand creates the table command.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TableOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "table [file|-]",
		Short: "Build a feature table from a list of formulas",
		Long: `Build a feature table with one column per element or molecule.

Reads one formula per line from a file, or from stdin when the argument
is "-" or missing. Blank lines and lines starting with '#' are skipped.
Reports the columns not already present in --existing.

With --db, compositions are cached in a SQLite database and the build is
recorded there as a batch with a UUIDv7 id. Columns recorded by earlier
batches count as existing, so each batch reports only columns the
database has not seen. Use "perov batches" to read the log back.

With --csv, the input is a CSV table with a header row. Formulas are read
from the column named by formula_column in the config ("Formula" by
default). The header is the existing column set; new element columns and
a Mixing column are appended, and --out writes the extended table as CSV.
--csv does not combine with --existing, --chart or --vectors, and does
not record a batch.

Exit codes:
  0 - Table built
  1 - Processing failure (symbolic coefficients in --vectors, store write)
  2 - Command error (unreadable input, bad config, database not openable,
      CSV without the formula column)

Examples:
  perov table formulas.txt
  perov table formulas.txt --existing Formula,PBE_bg_eV --db perov.db
  cat formulas.txt | perov table --chart occupancy.png --vectors features.csv
  perov table dataset.csv --csv --config perov.yaml --out features.csv`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return runTable(opts, input, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Existing, "existing", nil, "columns already present (comma separated)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for caching and batch log")
	cmd.Flags().StringVar(&opts.Chart, "chart", "", "write a column occupancy chart (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&opts.Vectors, "vectors", "", "write the site descriptor matrix as CSV")
	cmd.Flags().BoolVar(&opts.CSV, "csv", false, "read a CSV table with a header row instead of a formula list")
	cmd.Flags().StringVar(&opts.Output, "out", "", "write the extended CSV table (requires --csv)")

	return cmd
}

// tableSession is the setup shared by both input modes.
type tableSession struct {
	sites   *chem.SiteTable
	builder *table.Builder
	store   *store.Store // nil without --db
}

// openSession loads the config and opens the database. Errors are already
// reported through out.
func (o *TableOptions) openSession(out *OutputFormatter, logger *slog.Logger) (*tableSession, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	processor, err := cfg.Processor()
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	sites, err := cfg.SiteTable()
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	s := &tableSession{sites: sites}
	builderOpts := append(cfg.BuilderOptions(), table.WithLogger(logger))
	if o.Database != "" {
		s.store, err = openStore(o.Database, logger)
		if err != nil {
			return nil, out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		builderOpts = append(builderOpts, table.WithCache(s.store))
	}
	s.builder = table.NewBuilder(processor, builderOpts...)
	return s, nil
}

func (s *tableSession) close(logger *slog.Logger) {
	if s.store != nil {
		closeStore(s.store, logger)
	}
}

func runTable(opts *TableOptions, input string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger(cmd)

	if opts.CSV {
		if len(opts.Existing) > 0 || opts.Chart != "" || opts.Vectors != "" {
			return out.Fail(ExitCommandError, ErrCodeInput, "--csv does not combine with --existing, --chart or --vectors", nil)
		}
		return runTableCSV(opts, input, cmd, out, logger)
	}
	if opts.Output != "" {
		return out.Fail(ExitCommandError, ErrCodeInput, "--out requires --csv", nil)
	}

	ctx := cmd.Context()

	formulas, err := readFormulaInput(input, cmd.InOrStdin())
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeInput, "failed to read formulas", err)
	}

	session, err := opts.openSession(out, logger)
	if err != nil {
		return err
	}
	defer session.close(logger)

	existing := opts.Existing
	if session.store != nil {
		known, err := session.store.KnownColumns(ctx)
		if err != nil {
			return out.Fail(ExitFailure, ErrCodeStore, "failed to read recorded columns", err)
		}
		logger.Debug("recorded columns", "count", len(known))
		existing = mergeColumns(existing, known)
	}

	res, err := session.builder.Build(ctx, formulas, existing)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeInput, "build interrupted", err)
	}

	result := TableResult{
		Columns:    res.Columns,
		NewColumns: res.NewColumns,
		Rows:       make([]TableRow, len(res.Rows)),
	}
	for i, row := range res.Rows {
		result.Rows[i] = TableRow{Formula: formulas[i], Composition: row, Mixing: table.Mixing(row, session.sites)}
	}

	if session.store != nil {
		gen := opts.idGen
		if gen == nil {
			gen = store.UUIDv7Generator{}
		}
		batch, err := session.store.RecordBatch(ctx, gen, formulas, res)
		if err != nil {
			return out.Fail(ExitFailure, ErrCodeStore, "failed to record batch", err)
		}
		result.BatchID = batch.ID
		logger.Info("batch recorded", "id", batch.ID, "seq", batch.Seq)
	}

	if opts.Chart != "" {
		if err := chart.SaveOccupancy(opts.Chart, res); err != nil {
			return out.Fail(ExitFailure, ErrCodeChart, "failed to render chart", err)
		}
		logger.Debug("chart written", "path", opts.Chart)
	}

	if opts.Vectors != "" {
		if err := writeVectors(opts.Vectors, formulas, res, session.sites); err != nil {
			code := ErrCodeInput
			if errors.Is(err, table.ErrSymbolicCoefficient) {
				code = ErrCodeSymbolic
			}
			return out.Fail(ExitFailure, code, "failed to write vectors", err)
		}
		logger.Debug("vectors written", "path", opts.Vectors)
	}

	return out.Success(result)
}

func runTableCSV(opts *TableOptions, input string, cmd *cobra.Command, out *OutputFormatter, logger *slog.Logger) error {
	frame, err := readFrameInput(input, cmd.InOrStdin())
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeInput, "failed to read table", err)
	}

	session, err := opts.openSession(out, logger)
	if err != nil {
		return err
	}
	defer session.close(logger)

	extended, added, err := session.builder.BuildFrame(cmd.Context(), frame)
	if err != nil {
		var schemaErr *table.SchemaError
		if errors.As(err, &schemaErr) {
			return out.Fail(ExitCommandError, ErrCodeSchema, "invalid table", err)
		}
		return out.Fail(ExitFailure, ErrCodeInput, "build interrupted", err)
	}
	extended = table.WithMixing(extended, session.sites)

	if opts.Output != "" {
		if err := writeFrame(opts.Output, extended); err != nil {
			return out.Fail(ExitFailure, ErrCodeInput, "failed to write table", err)
		}
		logger.Debug("table written", "path", opts.Output)
	}

	return out.Success(newFrameResult(extended, added, opts.Output))
}

// mergeColumns returns a followed by the members of b not in a.
func mergeColumns(a, b []string) []string {
	merged := slices.Clone(a)
	for _, col := range b {
		if !slices.Contains(merged, col) {
			merged = append(merged, col)
		}
	}
	return merged
}

// readFormulaInput reads formulas from path, or from stdin when path is "-".
func readFormulaInput(path string, stdin io.Reader) ([]string, error) {
	if path == "-" {
		return readFormulas(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readFormulas(f)
}

// readFrameInput reads a CSV table from path, or from stdin when path is "-".
func readFrameInput(path string, stdin io.Reader) (*table.Frame, error) {
	if path == "-" {
		return table.ReadCSV(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return table.ReadCSV(f)
}

func writeFrame(path string, frame *table.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := table.WriteCSV(f, frame); err != nil {
		return err
	}
	return f.Close()
}

// readFormulas returns one formula per line, skipping blank and '#' lines.
func readFormulas(r io.Reader) ([]string, error) {
	formulas := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		formulas = append(formulas, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return formulas, nil
}

// writeVectors writes the descriptor matrix with a Formula column first and
// one column per site member in slot order.
func writeVectors(path string, formulas []string, res *table.Result, sites *chem.SiteTable) error {
	order := sites.Order()
	m, err := table.Matrix(res.Rows, order)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"Formula"}, order...)); err != nil {
		return err
	}
	record := make([]string, len(order)+1)
	for i, text := range formulas {
		record[0] = text
		for j := range order {
			record[j+1] = strconv.FormatFloat(m.At(i, j), 'f', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
