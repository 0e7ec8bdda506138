package table

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/perov/internal/ir"
)

// ErrEmptyMatrix indicates a descriptor matrix with no rows or no columns.
var ErrEmptyMatrix = errors.New("table: descriptor matrix needs at least one row and one column")

// Matrix stacks Vector(row, order) for every row into a len(rows) x len(order)
// dense matrix. The first symbolic row fails the whole matrix.
func Matrix(rows []ir.Composition, order []string) (*mat.Dense, error) {
	if len(rows) == 0 || len(order) == 0 {
		return nil, ErrEmptyMatrix
	}

	m := mat.NewDense(len(rows), len(order), nil)
	for i, row := range rows {
		vec, err := Vector(row, order)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		m.SetRow(i, vec)
	}
	return m, nil
}
