package config

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue/token"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/formula"
	"github.com/roach88/perov/internal/table"
)

// Sites lists the members of each perovskite site, in slot order.
type Sites struct {
	A []string `yaml:"a" toml:"a" json:"a,omitempty"`
	B []string `yaml:"b" toml:"b" json:"b,omitempty"`
	X []string `yaml:"x" toml:"x" json:"x,omitempty"`
}

// Config is the user-facing configuration of the formula pipeline.
type Config struct {
	// Molecules are multi-letter tokens recognized in addition to elements.
	// A nil list means the defaults; an explicit empty list disables them.
	Molecules     []string `yaml:"molecules" toml:"molecules" json:"molecules,omitempty"`
	Placeholders  string   `yaml:"placeholders" toml:"placeholders" json:"placeholders,omitempty"`
	Sites         Sites    `yaml:"sites" toml:"sites" json:"sites,omitempty"`
	FormulaColumn string   `yaml:"formula_column" toml:"formula_column" json:"formula_column,omitempty"`
	Workers       int      `yaml:"workers" toml:"workers" json:"workers,omitempty"`

	// ParenthesizedCoefficients accepts "K(1-x)" as K with coefficient 1-x.
	ParenthesizedCoefficients bool `yaml:"parenthesized_coefficients" toml:"parenthesized_coefficients" json:"parenthesized_coefficients,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Molecules:    slices.Clone(chem.DefaultMolecules),
		Placeholders: formula.DefaultPlaceholders,
		Sites: Sites{
			A: slices.Clone(chem.DefaultASite),
			B: slices.Clone(chem.DefaultBSite),
			X: slices.Clone(chem.DefaultXSite),
		},
		FormulaColumn: table.DefaultFormulaColumn,
		Workers:       1,
	}
}

// withDefaults fills every unset field from Default.
func (c Config) withDefaults() Config {
	d := Default()
	if c.Molecules == nil {
		c.Molecules = d.Molecules
	}
	if c.Placeholders == "" {
		c.Placeholders = d.Placeholders
	}
	if c.Sites.A == nil && c.Sites.B == nil && c.Sites.X == nil {
		c.Sites = d.Sites
	}
	if c.FormulaColumn == "" {
		c.FormulaColumn = d.FormulaColumn
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	return c
}

// Error reports an invalid configuration field.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks that the configuration can build a symbol table, a
// parser and a site table, and that every site member is a known symbol.
func (c Config) Validate() error {
	symbols, err := chem.NewSymbolTable(c.Molecules...)
	if err != nil {
		return &Error{Field: "molecules", Message: err.Error()}
	}

	if _, err := formula.NewParser(symbols, c.Placeholders, c.parserOptions()...); err != nil {
		return &Error{Field: "placeholders", Message: err.Error()}
	}

	if _, err := chem.NewSiteTable(c.Sites.A, c.Sites.B, c.Sites.X); err != nil {
		return &Error{Field: "sites", Message: err.Error()}
	}
	for _, site := range []struct {
		name    string
		members []string
	}{{"sites.a", c.Sites.A}, {"sites.b", c.Sites.B}, {"sites.x", c.Sites.X}} {
		for _, sym := range site.members {
			if !symbols.Contains(sym) {
				return &Error{Field: site.name, Message: fmt.Sprintf("unknown symbol %q", sym)}
			}
		}
	}

	if c.FormulaColumn == "" {
		return &Error{Field: "formula_column", Message: "must not be empty"}
	}
	if c.Workers < 1 {
		return &Error{Field: "workers", Message: fmt.Sprintf("must be at least 1, got %d", c.Workers)}
	}
	return nil
}

// SymbolTable builds the symbol table named by the configuration.
func (c Config) SymbolTable() (*chem.SymbolTable, error) {
	return chem.NewSymbolTable(c.Molecules...)
}

// SiteTable builds the site table named by the configuration.
func (c Config) SiteTable() (*chem.SiteTable, error) {
	return chem.NewSiteTable(c.Sites.A, c.Sites.B, c.Sites.X)
}

// Processor builds a formula processor from the configuration.
func (c Config) Processor() (*formula.Processor, error) {
	symbols, err := c.SymbolTable()
	if err != nil {
		return nil, err
	}
	return formula.NewProcessor(symbols, c.Placeholders, c.parserOptions()...)
}

func (c Config) parserOptions() []formula.ParserOption {
	if c.ParenthesizedCoefficients {
		return []formula.ParserOption{formula.WithParenthesizedCoefficients()}
	}
	return nil
}

// BuilderOptions returns the table builder options the configuration implies.
func (c Config) BuilderOptions() []table.BuilderOption {
	return []table.BuilderOption{
		table.WithWorkers(c.Workers),
		table.WithFormulaColumn(c.FormulaColumn),
	}
}
