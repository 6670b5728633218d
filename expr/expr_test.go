package expr_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gonumerics/expr"
	"github.com/njchilds90/gonumerics/solver"
)

var x = expr.S("x")

func TestNum_Printing(t *testing.T) {
	assert.Equal(t, "42", expr.N(42).String())
	assert.Equal(t, "1/3", expr.F(1, 3).String())
	assert.Equal(t, `\frac{2}{5}`, expr.F(2, 5).LaTeX())
	assert.Equal(t, `-\frac{2}{5}`, expr.F(-2, 5).LaTeX())
	assert.Equal(t, "1/10", expr.NFloat(0.1).String())
}

func TestSimplify_LikeTerms(t *testing.T) {
	assert.True(t, expr.AddOf(x, x).Equal(expr.MulOf(expr.N(2), x)))
	assert.True(t, expr.AddOf(x, expr.MulOf(expr.N(-1), x)).Equal(expr.N(0)))
	assert.True(t, expr.MulOf(expr.N(0), expr.SinOf(x)).Equal(expr.N(0)))
	assert.True(t, expr.PowOf(x, expr.N(1)).Equal(x))
	assert.True(t, expr.LnOf(expr.ExpOf(x)).Equal(x))
}

func TestDiff(t *testing.T) {
	assert.True(t, expr.DiffN(expr.PowOf(x, expr.N(4)), "x", 4).Equal(expr.N(24)))
	assert.True(t, expr.DiffN(x, "x", 0).Equal(x))

	d, err := expr.NewFunction(expr.Diff(expr.MulOf(x, expr.SinOf(x)), "x"), "x")
	require.NoError(t, err)
	assert.InDelta(t, math.Sin(1)+math.Cos(1), d.Call(1), 1e-12)
}

func TestParse_Normalization(t *testing.T) {
	tests := []struct {
		src  string
		at   float64
		want float64
	}{
		{"2x", 1.5, 3},
		{"x(x+1)", 2, 6},
		{"(x+1)(x-1)", 3, 8},
		{"x sin(x)", 1, math.Sin(1)},
		{"xsin(x)", 1, math.Sin(1)},
		{"x**2", 3, 9},
		{"√(x)", 16, 4},
		{"π x", 2, 2 * math.Pi},
		{"2pi", 0, 2 * math.Pi},
		{"2·x", 4, 8},
		{"3×x", 2, 6},
		{"x÷2", 5, 2.5},
		{"x − 1", 5, 4},
		{"log(x)", math.E, 1},
		{"arctan(x)", 1, math.Pi / 4},
		{"2^3^2", 0, 512},
		{"2e", 0, 2 * math.E},
		{"1.5e2 + x", 1, 151},
		{"e^x", 1, math.E},
		{"-x^2", 3, -9},
		{"x = 1", 4, 3},
		{"[x+1]*2", 1, 4},
		{"sinh(x) - sin(x)", 0.5, math.Sinh(0.5) - math.Sin(0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := expr.Parse(tt.src)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, f.Call(tt.at), 1e-9)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{"", "   ", "x +", "(x", "x)", "1/0", "foo(x)", "y", "2 3", "sin x", "x = 1 = 2", "x $ 2"} {
		t.Run(src, func(t *testing.T) {
			_, err := expr.Parse(src)
			require.Error(t, err)
			assert.ErrorIs(t, err, solver.ErrParse)
		})
	}
}

func TestParse_Variables(t *testing.T) {
	f, err := expr.Parse("t y - y", "t", "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"t", "y"}, f.Vars())
	assert.InDelta(t, 3.0, f.Call2(2, 3), 1e-12)
	assert.True(t, math.IsNaN(f.Eval(1)))
	assert.Equal(t, "t y - y", f.Source())
}

func TestFunction_Derivative(t *testing.T) {
	f, err := expr.Parse("x^3 - 2x - 5")
	require.NoError(t, err)
	d2, err := f.Derivative(2)
	require.NoError(t, err)
	assert.False(t, d2.IsNumeric())
	assert.InDelta(t, 12.0, d2.Call(2), 1e-12)

	_, err = f.Derivative(-1)
	assert.ErrorIs(t, err, solver.ErrInvalidArgument)
}

func TestFunction_AbsFallsBackToNumeric(t *testing.T) {
	f, err := expr.Parse("abs(x)")
	require.NoError(t, err)
	d, err := f.Derivative(1)
	require.NoError(t, err)
	assert.True(t, d.IsNumeric())
	assert.InDelta(t, 1.0, d.Call(2), 1e-9)
	assert.InDelta(t, -1.0, d.Call(-2), 1e-9)
}

func TestFunction_PartialDerivative(t *testing.T) {
	f, err := expr.Parse("x^2 y", "x", "y")
	require.NoError(t, err)
	dx, err := f.PartialDerivative("x", 1)
	require.NoError(t, err)
	dy, err := f.PartialDerivative("y", 1)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, dx.Eval(3, 5), 1e-12)
	assert.InDelta(t, 9.0, dy.Eval(3, 5), 1e-12)

	_, err = f.PartialDerivative("z", 1)
	assert.ErrorIs(t, err, solver.ErrInvalidArgument)
}

func TestJSON_RoundTrip(t *testing.T) {
	e, err := expr.ParseExpr("2 sin(x)^2 + pi x - 1/3")
	require.NoError(t, err)
	s, err := expr.ToJSON(e)
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &tree))
	back, err := expr.FromJSON(tree)
	require.NoError(t, err)
	assert.True(t, back.Equal(e), "%s != %s", back, e)

	_, err = expr.FromJSON(map[string]any{"type": "matrix"})
	assert.Error(t, err)
	_, err = expr.FromJSON(map[string]any{"type": "const", "name": "tau"})
	assert.Error(t, err)
}

func TestTaylorSeries(t *testing.T) {
	series := expr.TaylorSeries(expr.ExpOf(x), "x", expr.N(0), 3)
	f, err := expr.NewFunction(series, "x")
	require.NoError(t, err)
	assert.InDelta(t, 1+0.5+0.125+0.125/6, f.Call(0.5), 1e-12)

	rem := expr.LagrangeRemainder(expr.SinOf(x), "x", expr.N(0), 1, "xi")
	assert.Equal(t, []string{"x", "xi"}, expr.FreeSymbols(rem))
}

func TestExpand(t *testing.T) {
	e := expr.Expand(expr.PowOf(expr.AddOf(x, expr.N(1)), expr.N(2)))
	_, isSum := e.(*expr.Add)
	require.True(t, isSum, "got %s", e)
	f, err := expr.NewFunction(e, "x")
	require.NoError(t, err)
	assert.InDelta(t, 16.0, f.Call(3), 1e-12)
}
