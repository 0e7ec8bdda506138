package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a table build and the assertions it must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is an optional configuration file, relative to the scenario file.
	Config string `yaml:"config,omitempty"`

	// BatchID is the fixed id of the recorded batch.
	// If empty, defaults to DefaultBatchID.
	BatchID string `yaml:"batch_id,omitempty"`

	// Existing lists the columns the caller's table already has.
	Existing []string `yaml:"existing,omitempty"`

	// Formulas are the input rows, in order.
	Formulas []string `yaml:"formulas"`

	// Assertions validate the built table.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of the built table.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Row indexes Formulas (composition, mixing, remainder).
	Row int `yaml:"row,omitempty"`

	// Expect is the exact expected composition (composition).
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Columns is the expected column delta (new_columns).
	Columns []string `yaml:"columns,omitempty"`

	// Label is the expected mixing label (mixing).
	Label string `yaml:"label,omitempty"`

	// Text is the expected unparsed tail (remainder).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertComposition = "composition"
	AssertNewColumns  = "new_columns"
	AssertMixing      = "mixing"
	AssertRemainder   = "remainder"
)

// DefaultBatchID is the batch id used when a scenario does not set one.
const DefaultBatchID = "test-batch-default"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Config path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(filepath.Dir(path), scenario.Config)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Formulas == nil {
		return fmt.Errorf("formulas list is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Config != "" {
		if _, err := os.Stat(s.Config); os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", s.Config)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Formulas)); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, rows int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertComposition, AssertMixing, AssertRemainder:
		if a.Row < 0 || a.Row >= rows {
			return fmt.Errorf("assertions[%d]: row %d out of range [0,%d)", index, a.Row, rows)
		}
		if a.Type == AssertComposition && a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for composition (use {} for empty)", index)
		}
		if a.Type == AssertMixing && a.Label == "" {
			return fmt.Errorf("assertions[%d]: label is required for mixing", index)
		}
	case AssertNewColumns:
		if a.Columns == nil {
			return fmt.Errorf("assertions[%d]: columns is required for new_columns (use [] for none)", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
