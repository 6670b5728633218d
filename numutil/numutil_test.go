package numutil_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gonumerics/numutil"
)

func TestClone_Independent(t *testing.T) {
	a := [][]float64{{1, 2}, {3, 4}}
	c := numutil.CloneMatrix(a)
	c[0][0] = 99
	assert.Equal(t, 1.0, a[0][0])

	v := []float64{1, 2}
	cv := numutil.CloneVector(v)
	cv[1] = 0
	assert.Equal(t, 2.0, v[1])
	assert.Nil(t, numutil.CloneVector(nil))
}

func TestIsSquare(t *testing.T) {
	assert.True(t, numutil.IsSquare([][]float64{{1}}))
	assert.True(t, numutil.IsSquare([][]float64{{1, 2}, {3, 4}}))
	assert.False(t, numutil.IsSquare(nil))
	assert.False(t, numutil.IsSquare([][]float64{{1, 2}}))
	assert.False(t, numutil.IsSquare([][]float64{{1, 2}, {3}}))
}

func TestIsDiagonallyDominant(t *testing.T) {
	assert.True(t, numutil.IsDiagonallyDominant([][]float64{{4, 1}, {2, -5}}))
	// Equality is not strict dominance.
	assert.False(t, numutil.IsDiagonallyDominant([][]float64{{2, 2}, {1, 3}}))
	assert.False(t, numutil.IsDiagonallyDominant([][]float64{{1, 2}, {3, 4}}))
}

func TestResiduals(t *testing.T) {
	a := [][]float64{{2, 1}, {1, 3}}
	x := []float64{1, 1}
	b := []float64{3, 5}
	assert.Equal(t, []float64{0, -1}, numutil.Residual(a, x, b))
	assert.Equal(t, 1.0, numutil.ResidualNorm(a, x, b))
	assert.Equal(t, 0.5, numutil.MaxNormDiff([]float64{1, 2.5}, []float64{1.25, 2}))
	assert.Zero(t, numutil.MaxNormDiff(nil, nil))
}

func TestMaxNormDiff_NonFinite(t *testing.T) {
	inf := math.Inf(1)
	assert.True(t, math.IsInf(numutil.MaxNormDiff([]float64{inf, 1}, []float64{inf, 1}), 1))
	assert.True(t, math.IsInf(numutil.MaxNormDiff([]float64{0, math.NaN()}, []float64{0, 0}), 1))
	assert.True(t, math.IsInf(numutil.MaxNormDiff([]float64{0, 0}, []float64{-inf, 0}), 1))
	assert.True(t, numutil.AllFinite([]float64{1, -2, 0}))
	assert.False(t, numutil.AllFinite([]float64{1, math.NaN()}))
}

func TestConditionNumber(t *testing.T) {
	assert.InDelta(t, 1.0, numutil.ConditionNumber([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}), 1e-12)
	assert.InDelta(t, 4.0, numutil.ConditionNumber([][]float64{{4, 0}, {0, 1}}), 1e-12)
	assert.Greater(t, numutil.ConditionNumber([][]float64{{1, 2}, {2, 4}}), 1e12)
	assert.True(t, math.IsInf(numutil.ConditionNumber([][]float64{{1, 2}}), 1))
}

func TestDerivative(t *testing.T) {
	x := 0.5
	want := []float64{math.Sin(x), math.Cos(x), -math.Sin(x), -math.Cos(x), math.Sin(x)}
	tol := []float64{0, 1e-6, 1e-5, 1e-4, 5e-2}
	for order := 0; order <= 4; order++ {
		got := numutil.Derivative(math.Sin, x, order, 0)
		assert.InDelta(t, want[order], got, tol[order], "order %d", order)
	}
	require.True(t, math.IsNaN(numutil.Derivative(math.Sin, x, 5, 0)))
	assert.InDelta(t, 2*3.0, numutil.Derivative(func(v float64) float64 { return v * v }, 3, 1, 1e-2), 1e-9)
}
