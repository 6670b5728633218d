package linear

import (
	"github.com/njchilds90/gonumerics/numutil"
	"github.com/njchilds90/gonumerics/solver"
)

// IterativeResult is the outcome of Jacobi or Gauss-Seidel. Each iteration
// record carries the iterate, the max-norm step and the max-norm residual.
// An iterate with a non-finite component ends the run unconverged with a
// step of +Inf.
type IterativeResult struct {
	Solution solver.Vector `json:"solution"`
	solver.Trace
	Residual           solver.Float `json:"residual"`
	DiagonallyDominant bool         `json:"diagonally_dominant"`
	// Diverged is set when an iterate overflowed; the run stops there.
	Diverged bool `json:"diverged,omitempty"`
}

// Jacobi solves Ax = b with simultaneous updates computed from the previous
// full iterate. A must be strictly diagonally dominant; otherwise no
// iteration is attempted. A nil x0 starts from the zero vector.
func Jacobi(a [][]float64, b, x0 []float64, tol solver.Tolerance) (*IterativeResult, error) {
	const op = "linear.Jacobi"
	if err := validate(op, a, b); err != nil {
		return nil, err
	}
	if err := tol.Validate(op); err != nil {
		return nil, err
	}
	if !numutil.IsDiagonallyDominant(a) {
		return nil, solver.Errorf(solver.ConvergenceNotGuaranteed, op, "matrix is not strictly diagonally dominant")
	}
	x, err := initialGuess(op, x0, len(a))
	if err != nil {
		return nil, err
	}
	a, b = numutil.CloneMatrix(a), numutil.CloneVector(b)

	n := len(a)
	res := &IterativeResult{DiagonallyDominant: true}
	next := make([]float64, n)
	for k := 0; k < tol.MaxIterations; k++ {
		for i := 0; i < n; i++ {
			s := b[i]
			for j := 0; j < n; j++ {
				if j != i {
					s -= a[i][j] * x[j]
				}
			}
			next[i] = s / a[i][i]
		}
		step := numutil.MaxNormDiff(next, x)
		copy(x, next)
		if res.advance(a, x, b, step, tol) {
			break
		}
	}
	res.finish(a, x, b)
	return res, nil
}

// GaussSeidel solves Ax = b sweeping in place, so each update already uses
// the values computed earlier in the same pass. Diagonal dominance is
// reported but not required; a zero diagonal entry is rejected.
func GaussSeidel(a [][]float64, b, x0 []float64, tol solver.Tolerance) (*IterativeResult, error) {
	const op = "linear.GaussSeidel"
	if err := validate(op, a, b); err != nil {
		return nil, err
	}
	if err := tol.Validate(op); err != nil {
		return nil, err
	}
	for i := range a {
		if a[i][i] == 0 {
			return nil, solver.Errorf(solver.SingularMatrix, op, "zero diagonal entry in row %d", i)
		}
	}
	x, err := initialGuess(op, x0, len(a))
	if err != nil {
		return nil, err
	}
	a, b = numutil.CloneMatrix(a), numutil.CloneVector(b)

	n := len(a)
	res := &IterativeResult{DiagonallyDominant: numutil.IsDiagonallyDominant(a)}
	prev := make([]float64, n)
	for k := 0; k < tol.MaxIterations; k++ {
		copy(prev, x)
		for i := 0; i < n; i++ {
			s := b[i]
			for j := 0; j < n; j++ {
				if j != i {
					s -= a[i][j] * x[j]
				}
			}
			x[i] = s / a[i][i]
		}
		if res.advance(a, x, b, numutil.MaxNormDiff(x, prev), tol) {
			break
		}
	}
	res.finish(a, x, b)
	return res, nil
}

// advance records one completed sweep and reports whether iteration stops.
func (r *IterativeResult) advance(a [][]float64, x, b []float64, step float64, tol solver.Tolerance) bool {
	r.Record(solver.Iteration{
		Vector:   numutil.CloneVector(x),
		Error:    solver.Float(step),
		Residual: solver.Float(numutil.ResidualNorm(a, x, b)),
	})
	if !numutil.AllFinite(x) {
		r.Diverged = true
		return true
	}
	if step < tol.Tolerance {
		r.Converged = true
		return true
	}
	return false
}

func (r *IterativeResult) finish(a [][]float64, x, b []float64) {
	r.Solution = x
	r.Residual = solver.Float(numutil.ResidualNorm(a, x, b))
}
