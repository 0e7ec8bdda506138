package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/perov/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Row      int    // -1 when not row-specific
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s", e.Type)
	if e.Row >= 0 {
		fmt.Fprintf(&buf, " (row %d)", e.Row)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

func evaluateAssertion(r *Result, a Assertion) error {
	switch a.Type {
	case AssertComposition:
		return assertComposition(r, a)
	case AssertNewColumns:
		return assertNewColumns(r, a)
	case AssertMixing:
		return assertMixing(r, a)
	case AssertRemainder:
		return assertRemainder(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func rowAt(r *Result, a Assertion) (RowTrace, error) {
	if a.Row < 0 || a.Row >= len(r.Rows) {
		return RowTrace{}, fmt.Errorf("row %d out of range [0,%d)", a.Row, len(r.Rows))
	}
	return r.Rows[a.Row], nil
}

// assertComposition requires an exact match: same symbols, equal coefficients.
func assertComposition(r *Result, a Assertion) error {
	row, err := rowAt(r, a)
	if err != nil {
		return err
	}

	want, err := expectedComposition(a.Expect)
	if err != nil {
		return err
	}

	if !equalCompositions(want, row.Composition) {
		return &AssertionError{
			Type:     AssertComposition,
			Row:      a.Row,
			Expected: renderComposition(want),
			Actual:   renderComposition(row.Composition),
		}
	}
	return nil
}

func assertNewColumns(r *Result, a Assertion) error {
	if !slices.Equal(a.Columns, r.NewColumns) {
		return &AssertionError{
			Type:     AssertNewColumns,
			Row:      -1,
			Expected: fmt.Sprintf("%v", a.Columns),
			Actual:   fmt.Sprintf("%v", r.NewColumns),
		}
	}
	return nil
}

func assertMixing(r *Result, a Assertion) error {
	row, err := rowAt(r, a)
	if err != nil {
		return err
	}
	if row.Mixing != a.Label {
		return &AssertionError{Type: AssertMixing, Row: a.Row, Expected: a.Label, Actual: row.Mixing}
	}
	return nil
}

func assertRemainder(r *Result, a Assertion) error {
	row, err := rowAt(r, a)
	if err != nil {
		return err
	}
	if row.Remainder != a.Text {
		return &AssertionError{
			Type:     AssertRemainder,
			Row:      a.Row,
			Expected: fmt.Sprintf("%q", a.Text),
			Actual:   fmt.Sprintf("%q", row.Remainder),
		}
	}
	return nil
}

// expectedComposition converts YAML scalars to coefficients:
// numbers become Numeric and strings Symbolic.
func expectedComposition(expect map[string]interface{}) (ir.Composition, error) {
	var c ir.Composition
	for sym, v := range expect {
		switch val := v.(type) {
		case int:
			c.Set(sym, ir.Numeric(float64(val)))
		case float64:
			c.Set(sym, ir.Numeric(val))
		case string:
			c.Set(sym, ir.Symbolic(val))
		default:
			return ir.Composition{}, fmt.Errorf("expect[%s]: unsupported value %v (%T)", sym, v, v)
		}
	}
	return c, nil
}

func equalCompositions(a, b ir.Composition) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, sym := range a.Keys() {
		av, _ := a.Get(sym)
		bv, ok := b.Get(sym)
		if !ok || av != bv {
			return false
		}
	}
	return true
}

func renderComposition(c ir.Composition) string {
	data, err := ir.MarshalCanonical(c)
	if err != nil {
		return fmt.Sprintf("<unrenderable: %v>", err)
	}
	return string(data)
}
