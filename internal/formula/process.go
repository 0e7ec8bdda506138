package formula

import (
	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/ir"
)

// Processor runs the full text-to-composition pipeline.
type Processor struct {
	parser *Parser
}

// NewProcessor creates a processor for the given vocabulary and placeholder alphabet.
func NewProcessor(symbols *chem.SymbolTable, placeholders string, opts ...ParserOption) (*Processor, error) {
	parser, err := NewParser(symbols, placeholders, opts...)
	if err != nil {
		return nil, err
	}
	return &Processor{parser: parser}, nil
}

var defaultProcessor = func() *Processor {
	p, err := NewProcessor(chem.DefaultSymbolTable(), DefaultPlaceholders)
	if err != nil {
		panic(err) // defaults are valid literals
	}
	return p
}()

// DefaultProcessor returns the processor for the periodic table plus MA/FA
// with placeholders x, y, z.
func DefaultProcessor() *Processor {
	return defaultProcessor
}

// Process converts formula text to a composition using the default processor.
func Process(text string) ir.Composition {
	return defaultProcessor.Process(text)
}

// Fingerprint identifies the parse configuration. See Parser.Fingerprint.
func (p *Processor) Fingerprint() string {
	return p.parser.Fingerprint()
}

// Process converts formula text to a composition.
func (p *Processor) Process(text string) ir.Composition {
	return p.Analyze(text).Composition
}

// Analysis records every stage of processing one formula.
type Analysis struct {
	Input       string
	Normalized  string
	Tree        ir.Group
	Consumed    int
	Pairs       []ir.Pair
	Composition ir.Composition
}

// Complete reports whether the whole normalized text matched the grammar.
func (a Analysis) Complete() bool {
	return a.Consumed == len(a.Normalized)
}

// Remainder returns the unparsed tail of the normalized text.
func (a Analysis) Remainder() string {
	return a.Normalized[a.Consumed:]
}

// Analyze runs the pipeline and keeps the intermediate results.
func (p *Processor) Analyze(text string) Analysis {
	normalized := Normalize(text)
	tree, consumed := p.parser.Parse(normalized)
	pairs := Flatten(Propagate(tree, ir.One))
	return Analysis{
		Input:       text,
		Normalized:  normalized,
		Tree:        tree,
		Consumed:    consumed,
		Pairs:       pairs,
		Composition: Aggregate(pairs),
	}
}
