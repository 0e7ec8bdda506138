package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perov/internal/ir"
)

func TestScenariosGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Formulas:    []string{"CsPbI3"},
		Assertions: []Assertion{
			{Type: AssertComposition, Row: 0, Expect: map[string]interface{}{"Cs": 1, "Pb": 1, "I": 3}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, DefaultBatchID, result.BatchID)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Pure", result.Rows[0].Mixing)
	assert.Equal(t, []string{"Cs", "I", "Pb"}, result.NewColumns)
}

func TestRun_FailingAssertions(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Every assertion is wrong",
		Formulas:    []string{"MAPbI3"},
		Assertions: []Assertion{
			{Type: AssertComposition, Row: 0, Expect: map[string]interface{}{"MA": 1, "Pb": 1, "I": 2}},
			{Type: AssertNewColumns, Columns: []string{"I"}},
			{Type: AssertMixing, Row: 0, Label: "A-site"},
			{Type: AssertRemainder, Row: 0, Text: "x"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], `"I":3`)
	assert.Contains(t, result.Errors[2], "Expected: A-site")
}

func TestRun_SymbolicMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "symbolic",
		Description: "A number never equals a placeholder",
		Formulas:    []string{"CsxPbI3"},
		Assertions: []Assertion{
			{Type: AssertComposition, Row: 0, Expect: map[string]interface{}{"Cs": 1, "Pb": 1, "I": 3}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	v, ok := result.Rows[0].Composition.Get("Cs")
	require.True(t, ok)
	assert.Equal(t, ir.Symbolic("x"), v)
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: -3\n"), 0o644))

	_, err := Run(&Scenario{Name: "bad", Config: path, Formulas: []string{}})
	assert.Error(t, err)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "name: a\ndescription: b\nformula: [X]\n", "failed to parse YAML"},
		{"missing name", "description: b\nformulas: []\nassertions: [{type: new_columns, columns: []}]\n", "name is required"},
		{"missing formulas", "name: a\ndescription: b\nassertions: [{type: new_columns, columns: []}]\n", "formulas list is required"},
		{"no assertions", "name: a\ndescription: b\nformulas: [CsPbI3]\n", "assertions list is required"},
		{"row out of range", "name: a\ndescription: b\nformulas: [CsPbI3]\nassertions: [{type: mixing, row: 1, label: Pure}]\n", "out of range"},
		{"unknown type", "name: a\ndescription: b\nformulas: [CsPbI3]\nassertions: [{type: trace_order}]\n", "unknown assertion type"},
		{"missing config", "name: a\ndescription: b\nconfig: nope.yaml\nformulas: []\nassertions: [{type: new_columns, columns: []}]\n", "config file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_ResolvesConfigPath(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "custom_config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "configs", "ea.yaml"), scenario.Config)
}

func TestMarshalSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "mixed_sites.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := MarshalSnapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAssertionError_Message(t *testing.T) {
	err := &AssertionError{Type: AssertMixing, Row: 2, Expected: "Pure", Actual: "A-site"}
	assert.Equal(t, "assertion failed: mixing (row 2)\n  Expected: Pure\n  Actual: A-site", err.Error())

	err = &AssertionError{Type: AssertNewColumns, Row: -1, Expected: "[I]", Actual: "[]"}
	assert.Equal(t, "assertion failed: new_columns\n  Expected: [I]\n  Actual: []", err.Error())
}
