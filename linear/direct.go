package linear

import (
	"fmt"
	"math"

	"github.com/njchilds90/gonumerics/numutil"
	"github.com/njchilds90/gonumerics/solver"
)

// Pivoting selects the reordering applied before each elimination step.
type Pivoting int

const (
	// PartialPivoting swaps rows to bring the largest entry of the pivot
	// column onto the diagonal.
	PartialPivoting Pivoting = iota
	// TotalPivoting swaps rows and columns to bring the largest entry of
	// the remaining submatrix onto the diagonal.
	TotalPivoting
)

func (p Pivoting) String() string {
	if p == TotalPivoting {
		return "total"
	}
	return "partial"
}

// ParsePivoting accepts "partial" (or "") and "total".
func ParsePivoting(s string) (Pivoting, error) {
	switch s {
	case "", "partial":
		return PartialPivoting, nil
	case "total", "complete":
		return TotalPivoting, nil
	}
	return 0, solver.Errorf(solver.InvalidArgument, "linear.ParsePivoting", "unknown pivoting %q", s)
}

// Step is one recorded state of the augmented matrix [A|b].
type Step struct {
	Description string        `json:"description"`
	Matrix      solver.Matrix `json:"matrix"`
	// Columns maps matrix columns to unknowns; it differs from the
	// identity only under total pivoting.
	Columns []int `json:"columns"`
}

// DirectResult is the outcome of Gaussian elimination or Gauss-Jordan.
type DirectResult struct {
	Solution        solver.Vector `json:"solution"`
	Steps           []Step        `json:"steps"`
	Residual        solver.Float  `json:"residual"`
	Determinant     solver.Float  `json:"determinant"`
	ConditionNumber solver.Float  `json:"condition_number"`
	Pivoting        string        `json:"pivoting"`
}

type elimination struct {
	op    string
	aug   [][]float64
	cols  []int
	n     int
	sign  float64
	steps []Step
}

func newElimination(op string, a [][]float64, b []float64) *elimination {
	n := len(a)
	aug := make([][]float64, n)
	for i := range a {
		aug[i] = make([]float64, n+1)
		copy(aug[i], a[i])
		aug[i][n] = b[i]
	}
	cols := make([]int, n)
	for i := range cols {
		cols[i] = i
	}
	e := &elimination{op: op, aug: aug, cols: cols, n: n, sign: 1}
	e.record("initial augmented matrix")
	return e
}

func (e *elimination) record(format string, args ...any) {
	e.steps = append(e.steps, Step{
		Description: fmt.Sprintf(format, args...),
		Matrix:      numutil.CloneMatrix(e.aug),
		Columns:     numutil.CloneVectorInt(e.cols),
	})
}

// pivot brings the chosen pivot to position (k, k) and returns its value.
func (e *elimination) pivot(k int, p Pivoting) (float64, error) {
	row, col := k, k
	best := math.Abs(e.aug[k][k])
	switch p {
	case TotalPivoting:
		for i := k; i < e.n; i++ {
			for j := k; j < e.n; j++ {
				if v := math.Abs(e.aug[i][j]); v > best {
					best, row, col = v, i, j
				}
			}
		}
	default:
		for i := k + 1; i < e.n; i++ {
			if v := math.Abs(e.aug[i][k]); v > best {
				best, row = v, i
			}
		}
	}
	if best < pivotThreshold {
		return 0, solver.Errorf(solver.SingularMatrix, e.op, "pivot %g in column %d is below %g", best, k+1, pivotThreshold)
	}
	if row != k {
		e.aug[row], e.aug[k] = e.aug[k], e.aug[row]
		e.sign = -e.sign
		e.record("swap rows R%d <-> R%d", k+1, row+1)
	}
	if col != k {
		for i := range e.aug {
			e.aug[i][col], e.aug[i][k] = e.aug[i][k], e.aug[i][col]
		}
		e.cols[col], e.cols[k] = e.cols[k], e.cols[col]
		e.sign = -e.sign
		e.record("swap columns C%d <-> C%d", k+1, col+1)
	}
	return e.aug[k][k], nil
}

// eliminate zeroes column k in rows [from, to) except the pivot row.
func (e *elimination) eliminate(k, from, to int) {
	for i := from; i < to; i++ {
		if i == k || e.aug[i][k] == 0 {
			continue
		}
		factor := e.aug[i][k] / e.aug[k][k]
		for j := k; j <= e.n; j++ {
			e.aug[i][j] -= factor * e.aug[k][j]
		}
		e.aug[i][k] = 0
	}
}

// unpermute maps the solution of the reordered system back to the
// original unknowns.
func (e *elimination) unpermute(y []float64) []float64 {
	x := make([]float64, e.n)
	for k, c := range e.cols {
		x[c] = y[k]
	}
	return x
}

func (e *elimination) result(a [][]float64, b, x []float64, det float64, p Pivoting) *DirectResult {
	return &DirectResult{
		Solution:        x,
		Steps:           e.steps,
		Residual:        solver.Float(numutil.ResidualNorm(a, x, b)),
		Determinant:     solver.Float(det),
		ConditionNumber: solver.Float(numutil.ConditionNumber(a)),
		Pivoting:        p.String(),
	}
}

// GaussianElimination reduces [A|b] to upper-triangular form with the chosen
// pivoting, then back-substitutes. Every intermediate state is recorded.
func GaussianElimination(a [][]float64, b []float64, p Pivoting) (*DirectResult, error) {
	const op = "linear.GaussianElimination"
	if err := validate(op, a, b); err != nil {
		return nil, err
	}
	e := newElimination(op, a, b)
	det := 1.0
	for k := 0; k < e.n; k++ {
		pv, err := e.pivot(k, p)
		if err != nil {
			return nil, err
		}
		det *= pv
		if k < e.n-1 {
			e.eliminate(k, k+1, e.n)
			e.record("eliminate below pivot %d", k+1)
		}
	}

	y := make([]float64, e.n)
	for i := e.n - 1; i >= 0; i-- {
		s := e.aug[i][e.n]
		for j := i + 1; j < e.n; j++ {
			s -= e.aug[i][j] * y[j]
		}
		y[i] = s / e.aug[i][i]
	}
	return e.result(a, b, e.unpermute(y), e.sign*det, p), nil
}

// GaussJordan normalizes each pivot row and eliminates above and below the
// pivot, leaving [I|x].
func GaussJordan(a [][]float64, b []float64, p Pivoting) (*DirectResult, error) {
	const op = "linear.GaussJordan"
	if err := validate(op, a, b); err != nil {
		return nil, err
	}
	e := newElimination(op, a, b)
	det := 1.0
	for k := 0; k < e.n; k++ {
		pv, err := e.pivot(k, p)
		if err != nil {
			return nil, err
		}
		det *= pv
		for j := k; j <= e.n; j++ {
			e.aug[k][j] /= pv
		}
		e.record("normalize R%d by %g", k+1, pv)
		e.eliminate(k, 0, e.n)
		e.record("eliminate column %d above and below pivot", k+1)
	}

	y := make([]float64, e.n)
	for i := range y {
		y[i] = e.aug[i][e.n]
	}
	return e.result(a, b, e.unpermute(y), e.sign*det, p), nil
}
