package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementsComplete(t *testing.T) {
	assert.Len(t, Elements, 118)
	assert.Contains(t, Elements, "Og")
	assert.Contains(t, Elements, "Lr")
}

func TestMatchLongestFirst(t *testing.T) {
	st := DefaultSymbolTable()

	tests := []struct {
		name string
		text string
		pos  int
		want string
		ok   bool
	}{
		{"two letter beats prefix", "Br3", 0, "Br", true},
		{"single letter", "I3", 0, "I", true},
		{"molecule", "MAPbI3", 0, "MA", true},
		{"formamidinium beats fluorine", "FAPbI3", 0, "FA", true},
		{"mid string", "MAPbI3", 2, "Pb", true},
		{"one letter when two letter unknown", "Bx", 0, "B", true},
		{"lowercase start", "x", 0, "", false},
		{"digit", "3", 0, "", false},
		{"paren", "(MA)", 0, "", false},
		{"end of string", "Pb", 2, "", false},
		{"unknown capital", "Q", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := st.Match(tt.text, tt.pos)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoleculeExtension(t *testing.T) {
	st, err := NewSymbolTable("MA", "FA", "GA", "PEA")
	require.NoError(t, err)

	got, ok := st.Match("PEA2PbI4", 0)
	require.True(t, ok)
	assert.Equal(t, "PEA", got)

	assert.True(t, st.Contains("GA"))
	assert.True(t, st.Contains("Ga"))
	assert.False(t, st.Contains("PE"))
}

func TestNewSymbolTableRejectsInvalid(t *testing.T) {
	for _, bad := range []string{"", "M1", "F-A", "Mé"} {
		_, err := NewSymbolTable(bad)
		assert.ErrorIs(t, err, ErrInvalidSymbol, "symbol %q", bad)
	}
}

func TestSymbolsLongestFirst(t *testing.T) {
	st, err := NewSymbolTable("MA", "MA")
	require.NoError(t, err)

	syms := st.Symbols()
	assert.Len(t, syms, 119, "duplicates are ignored")
	assert.Len(t, syms[0], 2)
	assert.Len(t, syms[len(syms)-1], 1)
}
