package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositionZeroValue(t *testing.T) {
	var c Composition
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("Pb"))
	assert.Empty(t, c.Keys())

	c.Set("Pb", Numeric(1))
	assert.Equal(t, 1, c.Len())
}

func TestCompositionAddMerges(t *testing.T) {
	var c Composition
	c.Add("I", Numeric(1))
	c.Add("Pb", Numeric(1))
	c.Add("I", Numeric(2))
	c.Add("Pb", Symbolic("x"))

	assert.Equal(t, []string{"I", "Pb"}, c.Keys())
	assert.Equal(t, map[string]Coefficient{
		"I":  Numeric(3),
		"Pb": Symbolic("1+x"),
	}, c.Map())
}

func TestCompositionKeyOrders(t *testing.T) {
	c := CompositionOf(
		Pair{"MA", Numeric(1)},
		Pair{"Ge", Numeric(1)},
		Pair{"Br", Numeric(3)},
	)

	assert.Equal(t, []string{"MA", "Ge", "Br"}, c.Keys())
	assert.Equal(t, []string{"Br", "Ge", "MA"}, c.SortedKeys())
	assert.Equal(t, []Pair{
		{"MA", Numeric(1)},
		{"Ge", Numeric(1)},
		{"Br", Numeric(3)},
	}, c.Pairs())
}

func TestCompositionKeysAreCopies(t *testing.T) {
	c := CompositionOf(Pair{"Cs", Numeric(1)})
	keys := c.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"Cs"}, c.Keys())
}

func TestCompositionJSONRoundTrip(t *testing.T) {
	c := CompositionOf(
		Pair{"K", Symbolic("1-x")},
		Pair{"Rb", Symbolic("x")},
		Pair{"I", Numeric(3)},
	)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"I":3,"K":"1-x","Rb":"x"}`, string(data))

	var decoded Composition
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c.Map(), decoded.Map())
	assert.Equal(t, []string{"I", "K", "Rb"}, decoded.Keys())
}

func TestCompositionUnmarshalRejectsBadValue(t *testing.T) {
	var c Composition
	err := json.Unmarshal([]byte(`{"Pb":[1]}`), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Pb"`)
}
