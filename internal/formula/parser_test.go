package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/ir"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser(chem.DefaultSymbolTable(), DefaultPlaceholders)
	require.NoError(t, err)
	return p
}

func TestParseNestedTree(t *testing.T) {
	p := newTestParser(t)

	tree, consumed := p.Parse("Cs2(Ag(Bi)2)3")

	expected := ir.Group{
		Coefficient: ir.One,
		Children: []ir.Node{
			ir.Leaf{Symbol: "Cs", Coefficient: ir.Numeric(2)},
			ir.Group{
				Coefficient: ir.Numeric(3),
				Children: []ir.Node{
					ir.Leaf{Symbol: "Ag", Coefficient: ir.One},
					ir.Group{
						Coefficient: ir.Numeric(2),
						Children:    []ir.Node{ir.Leaf{Symbol: "Bi", Coefficient: ir.One}},
					},
				},
			},
		},
	}
	assert.Equal(t, expected, tree)
	assert.Equal(t, len("Cs2(Ag(Bi)2)3"), consumed)
}

func TestParseCoefficientAlternatives(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name  string
		text  string
		coeff ir.Coefficient
	}{
		{"implicit", "Pb", ir.One},
		{"integer", "I3", ir.Numeric(3)},
		{"multi digit", "I12", ir.Numeric(12)},
		{"decimal", "Sn0.25", ir.Numeric(0.25)},
		{"leading dot", "Sn.5", ir.Numeric(0.5)},
		{"placeholder", "Rbx", ir.Symbolic("x")},
		{"composite placeholder", "K1-x", ir.Symbolic("1-x")},
		{"composite beats decimal", "K2-y", ir.Symbolic("2-y")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, consumed := p.Parse(tt.text)
			require.Len(t, tree.Children, 1)
			leaf, ok := tree.Children[0].(ir.Leaf)
			require.True(t, ok)
			assert.Equal(t, tt.coeff, leaf.Coefficient)
			assert.Equal(t, len(tt.text), consumed)
		})
	}
}

func TestParseParenthesizedCoefficients(t *testing.T) {
	p, err := NewParser(chem.DefaultSymbolTable(), DefaultPlaceholders, WithParenthesizedCoefficients())
	require.NoError(t, err)

	tests := []struct {
		name  string
		text  string
		coeff ir.Coefficient
	}{
		{"composite", "K(1-x)", ir.Symbolic("1-x")},
		{"decimal", "Cs(0.5)", ir.Numeric(0.5)},
		{"placeholder", "MA(z)", ir.Symbolic("z")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, consumed := p.Parse(tt.text)
			require.Len(t, tree.Children, 1)
			leaf, ok := tree.Children[0].(ir.Leaf)
			require.True(t, ok)
			assert.Equal(t, tt.coeff, leaf.Coefficient)
			assert.Equal(t, len(tt.text), consumed)
		})
	}
}

func TestParseClosedCoefficientGrammar(t *testing.T) {
	p := newTestParser(t)

	tree, consumed := p.Parse("Cs(2)PbI3")
	assert.Equal(t, []ir.Node{ir.Leaf{Symbol: "Cs", Coefficient: ir.One}}, tree.Children)
	assert.Equal(t, 2, consumed)
}

func TestParseLenient(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name     string
		text     string
		leaves   int
		consumed int
	}{
		{"empty", "", 0, 0},
		{"only digits", "123", 0, 0},
		{"empty parens", "()", 0, 0},
		{"lowercase start", "mapbi3", 0, 0},
		{"trailing garbage", "MAPbI3 junk", 3, 6},
		{"unknown symbol stops", "MAPbQ3", 2, 4},
		{"dangling dot", "Cs2.I", 1, 3},
		{"zero digit composite is decimal", "K0-x", 1, 2},
		{"unclosed coefficient paren", "K(1-x", 1, 1},
		{"empty group after element", "Cs()", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, consumed := p.Parse(tt.text)
			assert.Len(t, Flatten(tree), tt.leaves)
			assert.Equal(t, tt.consumed, consumed)
		})
	}
}

func TestParseMissingCloseParen(t *testing.T) {
	p := newTestParser(t)

	tree, consumed := p.Parse("Cs(PbI3")
	assert.Equal(t, len("Cs(PbI3"), consumed)
	require.Len(t, tree.Children, 2)

	group, ok := tree.Children[1].(ir.Group)
	require.True(t, ok)
	assert.Equal(t, ir.One, group.Coefficient)
	assert.Len(t, group.Children, 2)
}

func TestParseCustomPlaceholders(t *testing.T) {
	p, err := NewParser(chem.DefaultSymbolTable(), "t")
	require.NoError(t, err)

	tree, _ := p.Parse("CsPbtI3")
	assert.Equal(t, []ir.Pair{
		{Symbol: "Cs", Coefficient: ir.One},
		{Symbol: "Pb", Coefficient: ir.Symbolic("t")},
		{Symbol: "I", Coefficient: ir.Numeric(3)},
	}, Flatten(tree))

	// x is no longer a placeholder, so parsing stops in front of it.
	tree, consumed := p.Parse("CsPbxI3")
	assert.Len(t, Flatten(tree), 2)
	assert.Equal(t, 4, consumed)
}

func TestNewParserRejectsBadPlaceholders(t *testing.T) {
	for _, bad := range []string{"X", "1", "x-"} {
		_, err := NewParser(chem.DefaultSymbolTable(), bad)
		assert.ErrorIs(t, err, ErrInvalidPlaceholder, "alphabet %q", bad)
	}
}

func TestMatchDecimal(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"3", 1},
		{"12.5x", 4},
		{".5", 2},
		{"3.", 1},
		{".", 0},
		{"x", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, matchDecimal(tt.text, 0))
		})
	}
}
