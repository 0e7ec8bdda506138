package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/formula"
	"github.com/roach88/perov/internal/ir"
)

func TestMixingLabel(t *testing.T) {
	tests := []struct {
		counts [3]int
		want   string
	}{
		{[3]int{1, 1, 1}, "Pure"},
		{[3]int{2, 1, 1}, "A-site"},
		{[3]int{1, 3, 1}, "B-site"},
		{[3]int{1, 1, 2}, "X-site"},
		{[3]int{2, 2, 1}, "A & B-site"},
		{[3]int{2, 1, 2}, "A & X-site"},
		{[3]int{3, 2, 2}, "A & B & X-site"},
		{[3]int{0, 1, 1}, "A-site"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, MixingLabel(tt.counts))
		})
	}
}

func TestSiteCounts(t *testing.T) {
	sites := chem.DefaultSiteTable()

	tests := []struct {
		formula string
		want    [3]int
	}{
		{"MAPbI3", [3]int{1, 1, 1}},
		{"K1-xRbxPbI3", [3]int{2, 1, 1}},
		{"(MA)0.5(FA)0.5Pb0.5Sn0.5I3", [3]int{2, 2, 1}},
		{"CsPb(Br0.5I0.5)3", [3]int{1, 1, 2}},
		{"CsPbI3Bi", [3]int{1, 1, 1}},
		{"Cs0Rb1PbI3", [3]int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			assert.Equal(t, tt.want, SiteCounts(formula.Process(tt.formula), sites))
		})
	}
}

func TestMixing(t *testing.T) {
	sites := chem.DefaultSiteTable()
	assert.Equal(t, "Pure", Mixing(formula.Process("MAGeBr3"), sites))
	assert.Equal(t, "A & B-site", Mixing(formula.Process("(MA)0.5(FA)0.5Pb0.5Sn0.5I3"), sites))
}

func TestVector(t *testing.T) {
	order := chem.DefaultSiteTable().Order()

	vec, err := Vector(formula.Process("KRb(MA)6Pb8I24"), order)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 6, 0, 0, 0, 0, 0, 0, 8, 0, 0, 24}, vec)

	vec, err = Vector(formula.Process("RbGeBr2.625Cl0.375"), order)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0.375, 2.625, 0}, vec)
}

func TestVectorSymbolic(t *testing.T) {
	_, err := Vector(formula.Process("K1-xRbxPbI3"), chem.DefaultSiteTable().Order())
	require.ErrorIs(t, err, ErrSymbolicCoefficient)
	assert.Contains(t, err.Error(), "K=1-x")
}

func TestWithMixing(t *testing.T) {
	in := &Frame{
		Columns: []string{"Formula", "Cs", "Rb", "Pb", "I", "Br"},
		Rows: []Record{
			{"Formula": "CsPbI3", "Cs": ir.Numeric(1), "Pb": ir.Numeric(1), "I": ir.Numeric(3)},
			{"Formula": "CsRbPbI3", "Cs": 1.0, "Rb": ir.Symbolic("x"), "Pb": 1, "I": 3},
			{"Formula": "CsPbBr3", "Cs": 1.0, "Rb": 0.0, "Pb": 1.0, "Br": 3.0, "I": nil},
		},
	}

	out := WithMixing(in, chem.DefaultSiteTable())

	assert.Equal(t, []string{"Formula", "Cs", "Rb", "Pb", "I", "Br", "Mixing"}, out.Columns)
	assert.Equal(t, "Pure", out.Rows[0][MixingColumn])
	assert.Equal(t, "A-site", out.Rows[1][MixingColumn])
	assert.Equal(t, "Pure", out.Rows[2][MixingColumn])
	assert.False(t, in.HasColumn(MixingColumn))
}

func TestWithMixingTextCells(t *testing.T) {
	in := &Frame{
		Columns: []string{"Formula", "Cs", "Rb", "Pb", "I"},
		Rows: []Record{
			{"Formula": "CsPbI3", "Cs": "1", "Rb": "", "Pb": "1", "I": "3"},
			{"Formula": "CsPbI3", "Cs": "1", "Rb": "0", "Pb": "1", "I": "3"},
			{"Formula": "Cs1-xRbxPbI3", "Cs": "1-x", "Rb": "x", "Pb": "1", "I": "3"},
		},
	}

	out := WithMixing(in, chem.DefaultSiteTable())

	assert.Equal(t, "Pure", out.Rows[0][MixingColumn])
	assert.Equal(t, "Pure", out.Rows[1][MixingColumn])
	assert.Equal(t, "A-site", out.Rows[2][MixingColumn])
}
