package ode_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gonumerics/ode"
	"github.com/njchilds90/gonumerics/solver"
)

func growth(_, y float64) float64 { return y }

func TestRungeKutta4_ExponentialGrowth(t *testing.T) {
	res, err := ode.RungeKutta(growth, 0, 1, 1, 0.1, 4, ode.WithExact(math.Exp))
	require.NoError(t, err)
	assert.Equal(t, 10, res.Steps)
	assert.Len(t, res.Points, 11)
	assert.InDelta(t, math.E, float64(res.YFinal), 1e-4)
	assert.Equal(t, 40, res.FunctionEvaluations)
	assert.Equal(t, "O(h^5)", res.LocalOrder)
	assert.Equal(t, "O(h^4)", res.GlobalOrder)
	assert.Len(t, res.ExactErrors, 11)
	assert.Less(t, float64(res.MaxError), 1e-4)
}

func TestRungeKutta_UnsupportedOrder(t *testing.T) {
	for _, order := range []int{1, 3, 5} {
		_, err := ode.RungeKutta(growth, 0, 1, 1, 0.1, order)
		require.ErrorIs(t, err, solver.ErrUnsupportedOrder)
	}
}

func TestEuler_MatchesClosedForm(t *testing.T) {
	res, err := ode.Euler(growth, 0, 1, 1, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(1.1, 10), float64(res.YFinal), 1e-12)
	assert.Equal(t, 10, res.FunctionEvaluations)
	assert.Empty(t, res.LocalErrors)
}

func TestOrderOfAccuracy(t *testing.T) {
	errAt := func(h float64, run func(h float64) (*ode.Result, error)) float64 {
		res, err := run(h)
		require.NoError(t, err)
		return math.Abs(float64(res.YFinal) - math.E)
	}
	heun := func(h float64) (*ode.Result, error) { return ode.Heun(growth, 0, 1, 1, h) }
	rk2 := func(h float64) (*ode.Result, error) { return ode.RungeKutta(growth, 0, 1, 1, h, 2) }
	euler := func(h float64) (*ode.Result, error) { return ode.Euler(growth, 0, 1, 1, h) }

	// Halving h divides the global error by about 2^p.
	assert.InDelta(t, 2, errAt(0.1, euler)/errAt(0.05, euler), 0.2)
	assert.InDelta(t, 4, errAt(0.1, heun)/errAt(0.05, heun), 0.4)
	assert.InDelta(t, 4, errAt(0.1, rk2)/errAt(0.05, rk2), 0.4)
}

func TestHeun_LocalErrors(t *testing.T) {
	res, err := ode.Heun(func(_, _ float64) float64 { return 1 }, 0, 2, 0, 0.5)
	require.NoError(t, err)
	assert.Len(t, res.LocalErrors, 4)
	for _, e := range res.LocalErrors {
		assert.Zero(t, e)
	}
	assert.InDelta(t, 2, float64(res.YFinal), 1e-15)
	assert.Equal(t, 8, res.FunctionEvaluations)
}

func TestGrid_LastStepLandsOnFinalTime(t *testing.T) {
	res, err := ode.Euler(growth, 0, 1, 1, 0.3)
	require.NoError(t, err)
	require.Len(t, res.Points, 5)
	assert.Equal(t, 1.0, res.Points[4].T)
	assert.InDelta(t, 0.9, res.Points[3].T, 1e-15)
	assert.InDelta(t, 1.3*1.3*1.3*1.1, float64(res.YFinal), 1e-12)
}

func TestValidation(t *testing.T) {
	_, err := ode.Euler(growth, 0, 1, 1, 0)
	require.ErrorIs(t, err, solver.ErrInvalidStep)
	_, err = ode.Heun(growth, 0, 1, 1, -0.1)
	require.ErrorIs(t, err, solver.ErrInvalidStep)
	_, err = ode.RungeKutta(growth, 1, 1, 1, 0.1, 4)
	require.ErrorIs(t, err, solver.ErrInvalidTimeRange)
	_, err = ode.HeunAdaptive(growth, 2, 1, 1, 0.1, 1e-4, ode.DefaultAdaptive())
	require.ErrorIs(t, err, solver.ErrInvalidTimeRange)
	_, err = ode.HeunAdaptive(growth, 0, 1, 1, 0.1, 0, ode.DefaultAdaptive())
	require.ErrorIs(t, err, solver.ErrInvalidTolerance)
}

func TestGrid_StepBound(t *testing.T) {
	for _, h := range []float64{1e-300, 1e-10} {
		_, err := ode.Euler(growth, 0, 1, 1, h)
		require.ErrorIs(t, err, solver.ErrInvalidStep, "h=%g", h)
	}
	_, err := ode.RungeKutta(growth, 0, 1, 1, 0.01, 4, ode.WithMaxSteps(50))
	require.ErrorIs(t, err, solver.ErrInvalidStep)
	res, err := ode.RungeKutta(growth, 0, 1, 1, 0.01, 4, ode.WithMaxSteps(101))
	require.NoError(t, err)
	assert.Equal(t, 100, res.Steps)
}

func TestHeun_EulerComparison(t *testing.T) {
	res, err := ode.Heun(growth, 0, 1, 1, 0.1, ode.WithEulerComparison())
	require.NoError(t, err)
	c := res.Comparison
	require.NotNil(t, c)
	require.Len(t, c.EulerSolution, len(res.Points))
	require.Len(t, c.Differences, len(res.Points))
	assert.InDelta(t, math.Pow(1.1, 10), c.EulerSolution[10], 1e-12)
	assert.Zero(t, c.Differences[0])
	assert.InDelta(t, math.Pow(1.105, 10)-math.Pow(1.1, 10), float64(c.MaxDifference), 1e-12)
	assert.Positive(t, float64(c.AvgDifference))
	assert.Equal(t, 20, res.FunctionEvaluations)

	plain, err := ode.Heun(growth, 0, 1, 1, 0.1)
	require.NoError(t, err)
	assert.Nil(t, plain.Comparison)
}

func TestResult_NonFiniteEncodes(t *testing.T) {
	blowUp := func(_, y float64) float64 { return y * y }
	res, err := ode.Euler(blowUp, 0, 1, 1e200, 0.5)
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(res.YFinal), 1))
	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"y_final":"+Inf"`)
}

func TestHeunAdaptive_ReachesEnd(t *testing.T) {
	res, err := ode.HeunAdaptive(growth, 0, 1, 1, 0.1, 1e-5, ode.DefaultAdaptive(), ode.WithExact(math.Exp))
	require.NoError(t, err)
	assert.True(t, res.ReachedEnd)
	assert.Equal(t, 1.0, res.Points[len(res.Points)-1].T)
	assert.InDelta(t, math.E, float64(res.YFinal), 1e-2)
	assert.Len(t, res.LocalErrors, res.Steps)
	for _, e := range res.LocalErrors {
		assert.LessOrEqual(t, e, 1e-5)
	}
	assert.Equal(t, 2*(res.Steps+res.Rejected), res.FunctionEvaluations)
	for i := 1; i < len(res.Points); i++ {
		assert.Greater(t, res.Points[i].T, res.Points[i-1].T)
	}
}

func TestHeunAdaptive_RejectsLargeSteps(t *testing.T) {
	res, err := ode.HeunAdaptive(growth, 0, 1, 1, 0.1, 1e-7, ode.AdaptiveOptions{})
	require.NoError(t, err)
	assert.Positive(t, res.Rejected)
	assert.True(t, res.ReachedEnd)
}

func TestHeunAdaptive_MaxStepsBound(t *testing.T) {
	opts := ode.DefaultAdaptive()
	opts.MaxSteps = 3
	res, err := ode.HeunAdaptive(growth, 0, 1, 1, 0.1, 1, opts)
	require.NoError(t, err)
	assert.False(t, res.ReachedEnd)
	assert.LessOrEqual(t, res.Steps+res.Rejected, 3)
}
