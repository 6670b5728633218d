// Package linear solves dense systems Ax = b, iteratively (Jacobi,
// Gauss-Seidel) or directly (Gaussian elimination, Gauss-Jordan).
//
// Inputs are never modified: every solver works on its own copies.
package linear

import (
	"github.com/njchilds90/gonumerics/numutil"
	"github.com/njchilds90/gonumerics/solver"
)

// Pivots below this magnitude mark the matrix as singular.
const pivotThreshold = 1e-10

// validate checks that a is square and b matches its dimension.
func validate(op string, a [][]float64, b []float64) error {
	if len(a) == 0 {
		return solver.Errorf(solver.DimensionMismatch, op, "matrix is empty")
	}
	for i, row := range a {
		if len(row) != len(a) {
			return solver.Errorf(solver.DimensionMismatch, op, "matrix is not square: row %d has %d entries, expected %d", i, len(row), len(a))
		}
	}
	if len(b) != len(a) {
		return solver.Errorf(solver.DimensionMismatch, op, "vector has %d entries, matrix has %d rows", len(b), len(a))
	}
	return nil
}

func initialGuess(op string, x0 []float64, n int) ([]float64, error) {
	if x0 == nil {
		return make([]float64, n), nil
	}
	if len(x0) != n {
		return nil, solver.Errorf(solver.DimensionMismatch, op, "initial guess has %d entries, expected %d", len(x0), n)
	}
	return numutil.CloneVector(x0), nil
}
