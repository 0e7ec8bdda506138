package formula

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/ir"
)

func TestProcess(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    map[string]ir.Coefficient
	}{
		{
			name:    "molecule cation",
			formula: "MAGeBr3",
			want:    map[string]ir.Coefficient{"MA": ir.Numeric(1), "Ge": ir.Numeric(1), "Br": ir.Numeric(3)},
		},
		{
			name:    "symbolic solid solution",
			formula: "K1-xRbxPbI3",
			want: map[string]ir.Coefficient{
				"K":  ir.Symbolic("1-x"),
				"Rb": ir.Symbolic("x"),
				"Pb": ir.Numeric(1),
				"I":  ir.Numeric(3),
			},
		},
		{
			name:    "fractional groups",
			formula: "(MA)0.5(FA)0.5PbI3",
			want: map[string]ir.Coefficient{
				"MA": ir.Numeric(0.5),
				"FA": ir.Numeric(0.5),
				"Pb": ir.Numeric(1),
				"I":  ir.Numeric(3),
			},
		},
		{
			name:    "symbolic groups",
			formula: "(MA)x(FA)1-xPbI3",
			want: map[string]ir.Coefficient{
				"MA": ir.Symbolic("(x)(1)"),
				"FA": ir.Symbolic("(1-x)(1)"),
				"Pb": ir.Numeric(1),
				"I":  ir.Numeric(3),
			},
		},
		{
			name:    "symbolic group over explicit one",
			formula: "(Rb1)xPbI3",
			want: map[string]ir.Coefficient{
				"Rb": ir.Symbolic("(x)(1)"),
				"Pb": ir.Numeric(1),
				"I":  ir.Numeric(3),
			},
		},
		{
			name:    "parenthesized coefficient is not part of the grammar",
			formula: "K(1-x)RbxPbI3",
			want:    map[string]ir.Coefficient{"K": ir.Numeric(1)},
		},
		{
			name:    "nested multiplier",
			formula: "Cs2(Ag(Bi)2)3",
			want:    map[string]ir.Coefficient{"Cs": ir.Numeric(2), "Ag": ir.Numeric(3), "Bi": ir.Numeric(6)},
		},
		{
			name:    "group times symbolic leaf",
			formula: "(MAx)2PbI3",
			want: map[string]ir.Coefficient{
				"MA": ir.Symbolic("(2)(x)"),
				"Pb": ir.Numeric(1),
				"I":  ir.Numeric(3),
			},
		},
		{
			name:    "repeated numeric merge",
			formula: "CsPbI2I",
			want:    map[string]ir.Coefficient{"Cs": ir.Numeric(1), "Pb": ir.Numeric(1), "I": ir.Numeric(3)},
		},
		{
			name:    "repeated mixed merge",
			formula: "CsPbI2Ix",
			want:    map[string]ir.Coefficient{"Cs": ir.Numeric(1), "Pb": ir.Numeric(1), "I": ir.Symbolic("2+x")},
		},
		{
			name:    "repeated across groups",
			formula: "Cs(PbBr)2Br",
			want:    map[string]ir.Coefficient{"Cs": ir.Numeric(1), "Pb": ir.Numeric(2), "Br": ir.Numeric(3)},
		},
		{
			name:    "halide mix",
			formula: "CsPb(Br0.5I0.5)3",
			want:    map[string]ir.Coefficient{"Cs": ir.Numeric(1), "Pb": ir.Numeric(1), "Br": ir.Numeric(1.5), "I": ir.Numeric(1.5)},
		},
		{
			name:    "unicode subscript",
			formula: "MAPbI₃",
			want:    map[string]ir.Coefficient{"MA": ir.Numeric(1), "Pb": ir.Numeric(1), "I": ir.Numeric(3)},
		},
		{
			name:    "unicode minus",
			formula: "Cs1−xMAxPbBr3",
			want: map[string]ir.Coefficient{
				"Cs": ir.Symbolic("1-x"),
				"MA": ir.Symbolic("x"),
				"Pb": ir.Numeric(1),
				"Br": ir.Numeric(3),
			},
		},
		{
			name:    "garbage",
			formula: "??",
			want:    map[string]ir.Coefficient{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Process(tt.formula).Map())
		})
	}
}

func TestProcessFirstEncounterOrder(t *testing.T) {
	comp := Process("Cs(PbBr)2Br")
	assert.Equal(t, []string{"Cs", "Pb", "Br"}, comp.Keys())
}

func TestAnalyze(t *testing.T) {
	a := DefaultProcessor().Analyze("  MAPbI3 (wet) ")

	assert.Equal(t, "MAPbI3 (wet)", a.Normalized)
	assert.Equal(t, 6, a.Consumed)
	assert.False(t, a.Complete())
	assert.Equal(t, " (wet)", a.Remainder())
	assert.Len(t, a.Pairs, 3)
	assert.Equal(t, 3, a.Composition.Len())

	full := DefaultProcessor().Analyze("MAPbI3")
	assert.True(t, full.Complete())
	assert.Empty(t, full.Remainder())
}

func TestProcessorCustomMolecules(t *testing.T) {
	symbols, err := chem.NewSymbolTable("MA", "FA", "GA")
	require.NoError(t, err)
	p, err := NewProcessor(symbols, DefaultPlaceholders)
	require.NoError(t, err)

	assert.Equal(t, map[string]ir.Coefficient{
		"GA": ir.Numeric(1),
		"Pb": ir.Numeric(1),
		"I":  ir.Numeric(3),
	}, p.Process("GAPbI3").Map())

	// Without GA in the vocabulary, "GaA" is gallium followed by an unknown A.
	assert.Equal(t, map[string]ir.Coefficient{
		"Ga": ir.Numeric(1),
	}, Process("GaA").Map(), "A is not a symbol, parsing stops")
}

func TestProcessorParenthesizedCoefficients(t *testing.T) {
	p, err := NewProcessor(chem.DefaultSymbolTable(), DefaultPlaceholders, WithParenthesizedCoefficients())
	require.NoError(t, err)

	a := p.Analyze("K(1-x)RbxPbI3")
	assert.True(t, a.Complete())
	assert.Equal(t, map[string]ir.Coefficient{
		"K":  ir.Symbolic("1-x"),
		"Rb": ir.Symbolic("x"),
		"Pb": ir.Numeric(1),
		"I":  ir.Numeric(3),
	}, a.Composition.Map())

	closed := DefaultProcessor().Analyze("K(1-x)RbxPbI3")
	assert.Equal(t, "(1-x)RbxPbI3", closed.Remainder())
}

func TestProcessorFingerprint(t *testing.T) {
	base := DefaultProcessor().Fingerprint()
	assert.Contains(t, base, ";xyz")

	same, err := NewProcessor(chem.DefaultSymbolTable(), "zyx")
	require.NoError(t, err)
	assert.Equal(t, base, same.Fingerprint(), "alphabet order does not matter")

	symbols, err := chem.NewSymbolTable("MA", "FA", "GA")
	require.NoError(t, err)
	withGA, err := NewProcessor(symbols, DefaultPlaceholders)
	require.NoError(t, err)
	assert.NotEqual(t, base, withGA.Fingerprint())

	fewer, err := NewProcessor(chem.DefaultSymbolTable(), "x")
	require.NoError(t, err)
	assert.NotEqual(t, base, fewer.Fingerprint())

	paren, err := NewProcessor(chem.DefaultSymbolTable(), DefaultPlaceholders, WithParenthesizedCoefficients())
	require.NoError(t, err)
	assert.NotEqual(t, base, paren.Fingerprint())
}

func TestProcessConcurrent(t *testing.T) {
	p := DefaultProcessor()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, ir.Numeric(3), mustGet(t, p.Process("MAPbI₃"), "I"))
		}()
	}
	wg.Wait()
}

func mustGet(t *testing.T, c ir.Composition, sym string) ir.Coefficient {
	t.Helper()
	v, ok := c.Get(sym)
	require.True(t, ok, "missing %s", sym)
	return v
}
