package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/perov/internal/ir"
)

// Snapshot captures the deterministic part of a scenario execution.
type Snapshot struct {
	ScenarioName string
	BatchID      string
	Rows         []RowTrace
	Columns      []string
	NewColumns   []string
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON.
// ir.MarshalCanonical only handles ir types and primitives.
func (s *Snapshot) toCanonicalMap() map[string]any {
	rows := make([]any, len(s.Rows))
	for i, row := range s.Rows {
		m := map[string]any{
			"formula":     row.Formula,
			"composition": row.Composition,
			"mixing":      row.Mixing,
		}
		if row.Remainder != "" {
			m["remainder"] = row.Remainder
		}
		rows[i] = m
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"batch_id":      s.BatchID,
		"rows":          rows,
		"columns":       s.Columns,
		"new_columns":   s.NewColumns,
	}
}

// MarshalSnapshot renders the result of a scenario as canonical JSON.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: name,
		BatchID:      result.BatchID,
		Rows:         result.Rows,
		Columns:      result.Columns,
		NewColumns:   result.NewColumns,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Assertion failures and golden
// mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
