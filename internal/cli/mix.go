package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/formula"
	"github.com/roach88/perov/internal/table"
)

// SiteCounts is the number of distinct occupants per site.
type SiteCounts struct {
	A int `json:"a"`
	B int `json:"b"`
	X int `json:"x"`
}

// MixedFormula is the site analysis of one formula.
type MixedFormula struct {
	Formula     string     `json:"formula"`
	Counts      SiteCounts `json:"counts"`
	Mixing      string     `json:"mixing"`
	Vector      []float64  `json:"vector,omitempty"`
	VectorError string     `json:"vector_error,omitempty"`
}

// MixResult is the payload of the mix command.
type MixResult struct {
	Order    []string       `json:"order"`
	Formulas []MixedFormula `json:"formulas"`
}

func (r MixResult) String() string {
	rows := make([][]string, len(r.Formulas))
	for i, f := range r.Formulas {
		vec := f.VectorError
		if vec == "" {
			vec = formatVector(f.Vector)
		} else {
			vec = warnStyle.Render(vec)
		}
		rows[i] = []string{
			f.Formula,
			strconv.Itoa(f.Counts.A),
			strconv.Itoa(f.Counts.B),
			strconv.Itoa(f.Counts.X),
			f.Mixing,
			vec,
		}
	}
	header := "Vector (" + strings.Join(r.Order, " ") + ")"
	return renderTable([]string{"Formula", "A", "B", "X", "Mixing", header}, rows)
}

// NewMixCommand creates the mix command.
func NewMixCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mix <formula>...",
		Short: "Classify site mixing and print descriptor vectors",
		Long: `Count the occupants of the A, B and X sites of each formula, label
its mixing ("Pure", "A-site", "A & B-site", ...), and project it onto the
fixed site-member order.

Formulas with symbolic coefficients have no numeric vector; the symbol
responsible is reported instead.

Examples:
  perov mix MAPbI3 "(MA)0.5(FA)0.5PbI3"
  perov mix "K1-xRbxPbI3" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMix(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runMix(opts *RootOptions, formulas []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	processor, err := cfg.Processor()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	sites, err := cfg.SiteTable()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	result := MixResult{Order: sites.Order(), Formulas: make([]MixedFormula, len(formulas))}
	for i, text := range formulas {
		result.Formulas[i] = mixFormula(processor, text, sites, result.Order)
	}
	return out.Success(result)
}

func mixFormula(p *formula.Processor, text string, sites *chem.SiteTable, order []string) MixedFormula {
	c := p.Process(text)
	counts := table.SiteCounts(c, sites)
	m := MixedFormula{
		Formula: text,
		Counts:  SiteCounts{A: counts[0], B: counts[1], X: counts[2]},
		Mixing:  table.MixingLabel(counts),
	}
	vec, err := table.Vector(c, order)
	if err != nil {
		m.VectorError = err.Error()
	} else {
		m.Vector = vec
	}
	return m
}

func formatVector(vec []float64) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}
