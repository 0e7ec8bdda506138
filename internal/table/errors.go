package table

import (
	"errors"
	"fmt"
)

// SchemaErrorCode categorizes frame validation failures.
type SchemaErrorCode string

const (
	// ErrCodeMissingColumn indicates the formula column is not declared.
	ErrCodeMissingColumn SchemaErrorCode = "MISSING_COLUMN"

	// ErrCodeNotText indicates a formula cell that is absent or not a string.
	ErrCodeNotText SchemaErrorCode = "NOT_TEXT"

	// ErrCodeRaggedRow indicates a row carrying a column the frame does not declare.
	ErrCodeRaggedRow SchemaErrorCode = "RAGGED_ROW"
)

// SchemaError reports a frame that does not have the shape BuildFrame expects.
type SchemaError struct {
	Code    SchemaErrorCode
	Column  string
	Row     int // -1 when the error is not row-specific
	Message string
}

func (e *SchemaError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: %s (column=%s, row=%d)", e.Code, e.Message, e.Column, e.Row)
	}
	return fmt.Sprintf("%s: %s (column=%s)", e.Code, e.Message, e.Column)
}

// IsSchemaError reports whether err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// ErrSymbolicCoefficient indicates a numeric projection hit an unresolved
// symbolic coefficient.
var ErrSymbolicCoefficient = errors.New("table: symbolic coefficient has no numeric value")
