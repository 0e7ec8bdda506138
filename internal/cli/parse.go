package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/perov/internal/ir"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Strict bool // fail when any formula has an unparsed tail
}

// ParsedFormula is one processed formula.
type ParsedFormula struct {
	Formula     string         `json:"formula"`
	Normalized  string         `json:"normalized"`
	Composition ir.Composition `json:"composition"`
	Remainder   string         `json:"remainder,omitempty"`
}

// ParseResult is the payload of the parse command.
type ParseResult struct {
	Formulas []ParsedFormula `json:"formulas"`
}

func (r ParseResult) String() string {
	rows := make([][]string, len(r.Formulas))
	for i, f := range r.Formulas {
		rows[i] = []string{f.Formula, formatComposition(f.Composition), f.Remainder}
		if f.Remainder != "" {
			rows[i][2] = warnStyle.Render(f.Remainder)
		}
	}
	return renderTable([]string{"Formula", "Composition", "Unparsed"}, rows)
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <formula>...",
		Short: "Parse formulas into compositions",
		Long: `Parse each formula into a per-element stoichiometry.

Numeric coefficients are multiplied through nested groups and repeated
elements are summed. Placeholder coefficients (x, 1-x, ...) stay symbolic.
Text the grammar cannot match is reported as unparsed.

Examples:
  perov parse MAPbI3 "CsPb(Br0.5I0.5)3"
  perov parse "K1-xRbxPbI3" --format json
  perov parse "CsPbI3)" --strict`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 if any formula is not fully parsed")

	return cmd
}

func runParse(opts *ParseOptions, formulas []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	processor, err := cfg.Processor()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	result := ParseResult{Formulas: make([]ParsedFormula, len(formulas))}
	incomplete := 0
	for i, text := range formulas {
		a := processor.Analyze(text)
		result.Formulas[i] = ParsedFormula{
			Formula:     text,
			Normalized:  a.Normalized,
			Composition: a.Composition,
			Remainder:   a.Remainder(),
		}
		if !a.Complete() {
			incomplete++
		}
	}

	if err := out.Success(result); err != nil {
		return err
	}
	if opts.Strict && incomplete > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d formulas not fully parsed", incomplete, len(formulas)))
	}
	return nil
}

// formatComposition renders "MA:1 Pb:1 I:3" in first-encounter order.
func formatComposition(c ir.Composition) string {
	parts := make([]string, 0, c.Len())
	for _, p := range c.Pairs() {
		parts = append(parts, p.Symbol+":"+p.Coefficient.String())
	}
	return strings.Join(parts, " ")
}
