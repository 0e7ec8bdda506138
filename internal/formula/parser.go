package formula

import (
	"strings"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/ir"
)

// Parser is a recursive-descent parser over formula text.
// It holds only immutable configuration and may be shared across goroutines.
type Parser struct {
	symbols      *chem.SymbolTable
	placeholders placeholderSet
	parenCoeffs  bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParenthesizedCoefficients also accepts a coefficient wrapped in
// parentheses, so "K(1-x)" reads as K with coefficient 1-x. Without it the
// grammar has exactly four coefficient alternatives and "K(1-x)" stops after K.
func WithParenthesizedCoefficients() ParserOption {
	return func(p *Parser) {
		p.parenCoeffs = true
	}
}

// NewParser creates a parser for the given token vocabulary and placeholder alphabet.
func NewParser(symbols *chem.SymbolTable, placeholders string, opts ...ParserOption) (*Parser, error) {
	set, err := newPlaceholderSet(placeholders)
	if err != nil {
		return nil, err
	}
	p := &Parser{symbols: symbols, placeholders: set}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Fingerprint identifies everything that changes how text parses: the token
// vocabulary, the placeholder alphabet and the grammar options. Two parsers
// with equal fingerprints produce equal trees for every input.
func (p *Parser) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(p.symbols.Symbols(), ","))
	sb.WriteString(";")
	sb.WriteString(p.placeholders.String())
	if p.parenCoeffs {
		sb.WriteString(";paren")
	}
	return sb.String()
}

// Parse parses text into a composition tree rooted at a Group with coefficient 1.
// consumed is the number of bytes that matched the grammar; anything after it
// was ignored. Parse never fails; malformed input yields a short or empty tree.
func (p *Parser) Parse(text string) (tree ir.Group, consumed int) {
	c := &cursor{p: p, text: text}
	children := c.formula()
	return ir.Group{Children: children, Coefficient: ir.One}, c.pos
}

// cursor is the mutable state of one parse.
type cursor struct {
	p    *Parser
	text string
	pos  int
}

// formula consumes (formula_element coefficient)+ greedily.
// An empty result means zero repetitions matched.
func (c *cursor) formula() []ir.Node {
	var nodes []ir.Node
	for {
		n, ok := c.term()
		if !ok {
			return nodes
		}
		nodes = append(nodes, n)
	}
}

// term consumes one formula_element and its coefficient.
func (c *cursor) term() (ir.Node, bool) {
	if sym, ok := c.p.symbols.Match(c.text, c.pos); ok {
		c.pos += len(sym)
		return ir.Leaf{Symbol: sym, Coefficient: c.coefficient()}, true
	}

	if !c.accept('(') {
		return nil, false
	}
	start := c.pos - 1
	children := c.formula()
	if len(children) == 0 {
		c.pos = start
		return nil, false
	}
	c.accept(')') // missing ')' is tolerated
	return ir.Group{Children: children, Coefficient: c.coefficient()}, true
}

func (c *cursor) coefficient() ir.Coefficient {
	coeff, end := c.p.matchCoefficient(c.text, c.pos)
	c.pos = end
	return coeff
}

func (c *cursor) accept(b byte) bool {
	if c.pos < len(c.text) && c.text[c.pos] == b {
		c.pos++
		return true
	}
	return false
}
