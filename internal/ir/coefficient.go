package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Coefficient is a sealed interface for stoichiometric quantities.
// Only Numeric and Symbolic implement it.
type Coefficient interface {
	coefficient() // Sealed - only these types implement it

	// String returns the textual form used when composing symbolic expressions.
	String() string
}

// Numeric is a plain real-valued coefficient.
type Numeric float64

func (Numeric) coefficient() {}

// String formats the value as the shortest decimal that round-trips.
// Integral values print without a fractional part ("3", not "3.0").
func (n Numeric) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Symbolic is an unresolved placeholder or composed expression ("x", "1-x", "(2)(x)").
// It is never coerced to a number.
type Symbolic string

func (Symbolic) coefficient() {}

func (s Symbolic) String() string {
	return string(s)
}

// One is the implicit coefficient for tokens written without one.
const One = Numeric(1)

// Multiply combines an ambient multiplier with a coefficient.
//
//   - Numeric x Numeric yields Numeric(product).
//   - An ambient multiplier of exactly Numeric(1) returns coeff unchanged.
//   - Otherwise the result is Symbolic("(<multiplier>)(<coefficient>)"),
//     including a symbolic multiplier over a coefficient of 1.
func Multiply(multiplier, coeff Coefficient) Coefficient {
	m, mNum := multiplier.(Numeric)
	c, cNum := coeff.(Numeric)
	switch {
	case mNum && cNum:
		return m * c
	case mNum && m == One:
		return coeff
	}
	return Symbolic("(" + multiplier.String() + ")(" + coeff.String() + ")")
}

// Merge combines two occurrences of the same element within one formula.
// Numeric+Numeric sums; any other pairing concatenates as "<existing>+<next>".
func Merge(existing, next Coefficient) Coefficient {
	a, aNum := existing.(Numeric)
	b, bNum := next.(Numeric)
	if aNum && bNum {
		return a + b
	}
	return Symbolic(existing.String() + "+" + next.String())
}

// IsZero reports whether c is Numeric(0). Symbolic values are never zero.
func IsZero(c Coefficient) bool {
	n, ok := c.(Numeric)
	return ok && n == 0
}

// Float returns the numeric value of c, or false if c is symbolic.
func Float(c Coefficient) (float64, bool) {
	n, ok := c.(Numeric)
	if !ok {
		return 0, false
	}
	return float64(n), true
}

// MarshalJSON encodes Numeric as a JSON number.
// NaN and Inf have no JSON form and are rejected.
func (n Numeric) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("coefficient %v has no JSON representation", f)
	}
	return []byte(n.String()), nil
}

// MarshalJSON encodes Symbolic as a JSON string.
func (s Symbolic) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalCoefficient decodes a JSON number or string into a Coefficient.
func UnmarshalCoefficient(data []byte) (Coefficient, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Symbolic(s), nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("coefficient must be a number or string: %w", err)
	}
	return Numeric(f), nil
}
