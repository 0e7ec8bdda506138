package table

import (
	"context"
	"maps"
	"slices"
)

// Record is one row of a frame, keyed by column name.
// Absent keys are unset cells.
type Record map[string]any

// Frame is a minimal column-declared table owned by the caller.
type Frame struct {
	Columns []string
	Rows    []Record
}

// Clone returns a deep copy of the frame's structure. Cell values are shared.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		Columns: slices.Clone(f.Columns),
		Rows:    make([]Record, len(f.Rows)),
	}
	for i, r := range f.Rows {
		out.Rows[i] = maps.Clone(r)
		if out.Rows[i] == nil {
			out.Rows[i] = Record{}
		}
	}
	return out
}

// HasColumn reports whether name is declared.
func (f *Frame) HasColumn(name string) bool {
	return slices.Contains(f.Columns, name)
}

// ValidateFrame checks that f declares column, that every row holds a string
// in it, and that no row carries undeclared columns.
func ValidateFrame(f *Frame, column string) error {
	if !f.HasColumn(column) {
		return &SchemaError{
			Code:    ErrCodeMissingColumn,
			Column:  column,
			Row:     -1,
			Message: "formula column not declared",
		}
	}

	declared := make(map[string]struct{}, len(f.Columns))
	for _, c := range f.Columns {
		declared[c] = struct{}{}
	}

	for i, r := range f.Rows {
		if _, ok := r[column].(string); !ok {
			return &SchemaError{
				Code:    ErrCodeNotText,
				Column:  column,
				Row:     i,
				Message: "formula cell must be a string",
			}
		}
		for k := range r {
			if _, ok := declared[k]; !ok {
				return &SchemaError{
					Code:    ErrCodeRaggedRow,
					Column:  k,
					Row:     i,
					Message: "row has undeclared column",
				}
			}
		}
	}
	return nil
}

// BuildFrame validates f, builds compositions from its formula column, and
// returns a new frame with the new columns appended plus the column delta.
//
// New cells hold ir.Coefficient values and are set only where the row's
// composition has the symbol; filling the rest is left to the caller.
// Columns that already exist in f are neither reported nor overwritten.
func (b *Builder) BuildFrame(ctx context.Context, f *Frame) (*Frame, []string, error) {
	if err := ValidateFrame(f, b.formulaColumn); err != nil {
		return nil, nil, err
	}

	formulas := make([]string, len(f.Rows))
	for i, r := range f.Rows {
		formulas[i] = r[b.formulaColumn].(string)
	}

	res, err := b.Build(ctx, formulas, f.Columns)
	if err != nil {
		return nil, nil, err
	}

	return Extend(f, res), slices.Clone(res.NewColumns), nil
}

// Extend returns a copy of f with res.NewColumns appended and populated from
// res.Rows. res must have been built from f's rows in order.
func Extend(f *Frame, res *Result) *Frame {
	out := f.Clone()
	out.Columns = append(out.Columns, res.NewColumns...)
	for i, row := range res.Rows {
		if i >= len(out.Rows) {
			break
		}
		for _, col := range res.NewColumns {
			if v, ok := row.Get(col); ok {
				out.Rows[i][col] = v
			}
		}
	}
	return out
}
