package roots_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gonumerics/expr"
	"github.com/njchilds90/gonumerics/roots"
	"github.com/njchilds90/gonumerics/solver"
)

func tol(t float64, n int) solver.Tolerance {
	return solver.Tolerance{Tolerance: t, MaxIterations: n}
}

func mustParse(t *testing.T, src string) *expr.Function {
	t.Helper()
	f, err := expr.Parse(src, "x")
	require.NoError(t, err)
	return f
}

func derivative(t *testing.T, f *expr.Function, order int) solver.Func1 {
	t.Helper()
	d, err := f.Derivative(order)
	require.NoError(t, err)
	return d.Call
}

// ==============================================================================
// Bisection
// ==============================================================================

func TestBisection_SquareRootOfFour(t *testing.T) {
	f := mustParse(t, "x^2 - 4")
	res, err := roots.Bisection(f.Call, 1, 3, tol(1e-6, 100))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 2.0, float64(res.Root), 1e-6)
	assert.LessOrEqual(t, len(res.Iterations), 100)
}

func TestBisection_StoppingCriterion(t *testing.T) {
	cases := []struct {
		name string
		src  string
		a, b float64
	}{
		{"cubic", "x^3 - 2x - 5", 2, 3},
		{"exp", "exp(x) - 3", 0, 2},
		{"decreasing", "1 - x^3", 0, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := mustParse(t, tc.src)
			res, err := roots.Bisection(f.Call, tc.a, tc.b, tol(1e-8, 200))
			require.NoError(t, err)
			require.True(t, res.Converged)
			assert.True(t, math.Abs(f.Call(float64(res.Root))) < 1e-8 || float64(res.FinalError) < 1e-8)
			assert.Equal(t, 2+len(res.Iterations), res.FunctionEvaluations)
			for i, it := range res.Iterations {
				assert.Equal(t, i+1, it.Index)
			}
		})
	}
}

func TestBisection_InvalidBracket(t *testing.T) {
	f := mustParse(t, "x^2 + 1")
	_, err := roots.Bisection(f.Call, -1, 1, tol(1e-6, 50))
	require.ErrorIs(t, err, solver.ErrInvalidBracket)
}

func TestBisection_NotConvergedIsNotAnError(t *testing.T) {
	f := mustParse(t, "x^3 - 2x - 5")
	res, err := roots.Bisection(f.Call, 2, 3, tol(1e-12, 5))
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Len(t, res.Iterations, 5)
	assert.Equal(t, res.Iterations[4].Error, res.FinalError)
}

func TestBisection_InvalidTolerance(t *testing.T) {
	f := mustParse(t, "x - 1")
	_, err := roots.Bisection(f.Call, 0, 2, tol(0, 10))
	require.ErrorIs(t, err, solver.ErrInvalidTolerance)
	_, err = roots.Bisection(f.Call, 0, 2, tol(1e-6, 0))
	require.ErrorIs(t, err, solver.ErrInvalidTolerance)
}

// ==============================================================================
// False position
// ==============================================================================

func TestFalsePosition_Converges(t *testing.T) {
	f := mustParse(t, "x^2 - 4")
	res, err := roots.FalsePosition(f.Call, 1, 3, tol(1e-8, 200))
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.InDelta(t, 2.0, float64(res.Root), 1e-6)
	assert.Less(t, float64(res.FinalError), 1e-8)
	assert.Equal(t, 2+len(res.Iterations), res.FunctionEvaluations)
}

func TestFalsePosition_Degenerate(t *testing.T) {
	f := func(float64) float64 { return 1 }
	_, err := roots.FalsePosition(f, 0, 1, tol(1e-6, 10))
	require.ErrorIs(t, err, solver.ErrZeroDerivativeOrDegenerate)
}

func TestFalsePosition_InvalidBracket(t *testing.T) {
	f := mustParse(t, "x^2 - 4")
	_, err := roots.FalsePosition(f.Call, 3, 5, tol(1e-6, 10))
	require.ErrorIs(t, err, solver.ErrInvalidBracket)
}

// ==============================================================================
// Newton-Raphson
// ==============================================================================

func TestNewtonRaphson_KnownCubicRoot(t *testing.T) {
	f := mustParse(t, "x^3 - 2x - 5")
	res, err := roots.NewtonRaphson(f.Call, derivative(t, f, 1), 2.0, tol(1e-6, 50))
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.InDelta(t, 2.0945515, float64(res.Root), 1e-6)
	assert.Equal(t, 2*len(res.Iterations), res.FunctionEvaluations)
}

func TestNewtonRaphson_StationaryPoint(t *testing.T) {
	f := mustParse(t, "x^2 + 1")
	_, err := roots.NewtonRaphson(f.Call, derivative(t, f, 1), 0, tol(1e-6, 50))
	require.ErrorIs(t, err, solver.ErrStationaryPoint)
	assert.Equal(t, solver.StationaryPoint, solver.KindOf(err))
}

func TestNewtonRaphson_FlatButSmallResidual(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1e-9 }
	df := func(x float64) float64 { return 2 * x }
	res, err := roots.NewtonRaphson(f, df, 0, tol(1e-6, 10))
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Len(t, res.Iterations, 1)
	assert.InDelta(t, 1e-9, float64(res.FinalError), 1e-18)
}

func TestNewtonRaphson_Deterministic(t *testing.T) {
	f := mustParse(t, "cos(x) - x")
	df := derivative(t, f, 1)
	r1, err := roots.NewtonRaphson(f.Call, df, 1, tol(1e-10, 50))
	require.NoError(t, err)
	r2, err := roots.NewtonRaphson(f.Call, df, 1, tol(1e-10, 50))
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

// ==============================================================================
// Secant
// ==============================================================================

func TestSecant_Converges(t *testing.T) {
	f := mustParse(t, "x^2 - 4")
	res, err := roots.Secant(f.Call, 1, 3, tol(1e-10, 50))
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.InDelta(t, 2.0, float64(res.Root), 1e-8)
	assert.Equal(t, 2+len(res.Iterations), res.FunctionEvaluations)
}

func TestSecant_Degenerate(t *testing.T) {
	f := mustParse(t, "x^2")
	_, err := roots.Secant(f.Call, -1, 1, tol(1e-6, 10))
	require.ErrorIs(t, err, solver.ErrDegenerateSecant)
}

// ==============================================================================
// Modified Newton
// ==============================================================================

func TestModifiedNewton_DoubleRoot(t *testing.T) {
	f := mustParse(t, "(x - 1)^2")
	res, err := roots.ModifiedNewton(f.Call, derivative(t, f, 1), derivative(t, f, 2), 2, tol(1e-8, 50))
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.InDelta(t, 1.0, float64(res.Root), 1e-8)
	assert.Equal(t, 2, res.EstimatedMultiplicity)
	assert.Equal(t, 3*len(res.Iterations)+1, res.FunctionEvaluations)
}

func TestModifiedNewton_SimpleRoot(t *testing.T) {
	f := mustParse(t, "x^2 - 4")
	res, err := roots.ModifiedNewton(f.Call, derivative(t, f, 1), derivative(t, f, 2), 3, tol(1e-10, 50))
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.InDelta(t, 2.0, float64(res.Root), 1e-8)
	assert.Equal(t, 1, res.EstimatedMultiplicity)
}

func TestModifiedNewton_FlatButSmallResidual(t *testing.T) {
	f := func(float64) float64 { return 1e-9 }
	zero := func(float64) float64 { return 0 }
	res, err := roots.ModifiedNewton(f, zero, zero, 0, tol(1e-6, 10))
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.InDelta(t, 1e-9, float64(res.FinalError), 1e-18)
	assert.Equal(t, res.Iterations[0].Error, res.FinalError)
}

func TestModifiedNewton_Degenerate(t *testing.T) {
	f := func(float64) float64 { return 1 }
	zero := func(float64) float64 { return 0 }
	_, err := roots.ModifiedNewton(f, zero, zero, 0, tol(1e-6, 10))
	require.ErrorIs(t, err, solver.ErrZeroDerivativeOrDegenerate)
}
