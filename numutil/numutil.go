// Package numutil collects the helper computations shared by the engines:
// matrix conditioning, diagonal dominance, residuals and a numeric
// differentiation fallback.
package numutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CloneVector returns an independent copy of v.
func CloneVector(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// CloneVectorInt returns an independent copy of v.
func CloneVectorInt(v []int) []int {
	if v == nil {
		return nil
	}
	return append(make([]int, 0, len(v)), v...)
}

// CloneMatrix returns a deep copy of a.
func CloneMatrix(a [][]float64) [][]float64 {
	if a == nil {
		return nil
	}
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = CloneVector(row)
	}
	return out
}

// IsSquare reports whether a is a non-empty n×n matrix.
func IsSquare(a [][]float64) bool {
	if len(a) == 0 {
		return false
	}
	for _, row := range a {
		if len(row) != len(a) {
			return false
		}
	}
	return true
}

// IsDiagonallyDominant reports strict row-wise diagonal dominance:
// |a_ii| > Σ_{j≠i} |a_ij| for every row i.
func IsDiagonallyDominant(a [][]float64) bool {
	if !IsSquare(a) {
		return false
	}
	for i, row := range a {
		off := 0.0
		for j, v := range row {
			if j != i {
				off += math.Abs(v)
			}
		}
		if math.Abs(row[i]) <= off {
			return false
		}
	}
	return true
}

// Residual returns Ax - b.
func Residual(a [][]float64, x, b []float64) []float64 {
	r := make([]float64, len(b))
	for i, row := range a {
		r[i] = floats.Dot(row, x) - b[i]
	}
	return r
}

// ResidualNorm returns the max-norm of Ax - b.
func ResidualNorm(a [][]float64, x, b []float64) float64 {
	r := Residual(a, x, b)
	if len(r) == 0 {
		return 0
	}
	return floats.Norm(r, math.Inf(1))
}

// MaxNormDiff returns max_i |x_i - y_i|. It is +Inf as soon as either
// vector holds a non-finite component, so a diverging iteration never
// looks like a zero step.
func MaxNormDiff(x, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	if !AllFinite(x) || !AllFinite(y) {
		return math.Inf(1)
	}
	return floats.Distance(x, y, math.Inf(1))
}

// AllFinite reports whether every component of v is neither NaN nor ±Inf.
func AllFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// ConditionNumber returns the 2-norm condition number of a square matrix,
// or +Inf when the matrix is singular or not square.
func ConditionNumber(a [][]float64) float64 {
	if !IsSquare(a) {
		return math.Inf(1)
	}
	n := len(a)
	data := make([]float64, 0, n*n)
	for _, row := range a {
		data = append(data, row...)
	}
	return mat.Cond(mat.NewDense(n, n, data), 2)
}

// DefaultStep is the base step used by Derivative when h <= 0.
const DefaultStep = 1e-3

// Derivative approximates the order-th derivative of f at x with central
// differences. Orders 1 to 4 are supported; other orders return NaN.
// A non-positive h selects a step scaled to |x|.
func Derivative(f func(float64) float64, x float64, order int, h float64) float64 {
	if h <= 0 {
		h = DefaultStep * math.Max(1, math.Abs(x))
	}
	switch order {
	case 0:
		return f(x)
	case 1:
		return (f(x+h) - f(x-h)) / (2 * h)
	case 2:
		return (f(x+h) - 2*f(x) + f(x-h)) / (h * h)
	case 3:
		return (f(x+2*h) - 2*f(x+h) + 2*f(x-h) - f(x-2*h)) / (2 * h * h * h)
	case 4:
		return (f(x+2*h) - 4*f(x+h) + 6*f(x) - 4*f(x-h) + f(x-2*h)) / (h * h * h * h)
	}
	return math.NaN()
}
