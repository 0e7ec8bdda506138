package harness

import "github.com/roach88/perov/internal/ir"

// RowTrace is the outcome of processing one input formula.
type RowTrace struct {
	Formula     string         `json:"formula"`
	Normalized  string         `json:"normalized"`
	Composition ir.Composition `json:"composition"`
	Remainder   string         `json:"remainder,omitempty"`
	Mixing      string         `json:"mixing"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions match.
	Pass bool `json:"pass"`

	// BatchID is the id the build was recorded under.
	BatchID string `json:"batch_id"`

	// Rows holds one trace per input formula, in order.
	Rows []RowTrace `json:"rows"`

	// Columns and NewColumns are the build's column union and delta.
	Columns    []string `json:"columns"`
	NewColumns []string `json:"new_columns"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Rows:       []RowTrace{},
		Columns:    []string{},
		NewColumns: []string{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
