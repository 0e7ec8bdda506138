package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/perov/internal/ir"
)

// CacheOptions holds flags for the cache command.
type CacheOptions struct {
	*RootOptions
	Database string
}

// CacheEntry is one cached composition.
type CacheEntry struct {
	Formula     string         `json:"formula"`
	Composition ir.Composition `json:"composition"`
}

// CacheResult is the payload of the cache command.
type CacheResult struct {
	Entries []CacheEntry `json:"entries"`
}

func (r CacheResult) String() string {
	if len(r.Entries) == 0 {
		return "No cached compositions for this configuration."
	}
	rows := make([][]string, len(r.Entries))
	for i, e := range r.Entries {
		rows[i] = []string{e.Formula, formatComposition(e.Composition)}
	}
	return renderTable([]string{"Formula", "Composition"}, rows)
}

// NewCacheCommand creates the cache command.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "List compositions cached by perov table",
		Long: `List the compositions cached in a database by "perov table --db".

Cache entries are scoped by the parse configuration, so only entries
written under the current --config (symbols, placeholders and grammar
options) are listed, oldest first. Each entry is checked against its
content hash on the way out.

Exit codes:
  0 - Success
  1 - Database read failure or corrupt entry
  2 - Command error (bad config, database not openable)

Examples:
  perov cache --db perov.db
  perov cache --db perov.db --config perov.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCache(opts *CacheOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger(cmd)
	ctx := cmd.Context()

	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	processor, err := cfg.Processor()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	fingerprint := processor.Fingerprint()

	st, err := openStore(opts.Database, logger)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer closeStore(st, logger)

	formulas, err := st.CachedFormulas(ctx, fingerprint)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeStore, "failed to list cache", err)
	}

	result := CacheResult{Entries: make([]CacheEntry, 0, len(formulas))}
	for _, f := range formulas {
		c, ok, err := st.LookupComposition(ctx, fingerprint, f)
		if err != nil {
			return out.Fail(ExitFailure, ErrCodeStore, "failed to read cache", err)
		}
		if ok {
			result.Entries = append(result.Entries, CacheEntry{Formula: f, Composition: c})
		}
	}
	return out.Success(result)
}
