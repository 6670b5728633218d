// Package quadrature implements composite Newton-Cotes rules and
// fixed-order Gauss-Legendre quadrature.
package quadrature

import (
	"math"

	"github.com/njchilds90/gonumerics/solver"
)

// Sample is one evaluation point of a rule with its weight in the sum.
type Sample struct {
	X      float64      `json:"x"`
	FX     solver.Float `json:"fx"`
	Weight float64      `json:"weight"`
}

// Result is the outcome of a quadrature rule.
type Result struct {
	Integral            solver.Float `json:"integral"`
	ErrorEstimate       solver.Float `json:"error_estimate"`
	H                   float64      `json:"h,omitempty"`
	Intervals           int          `json:"intervals,omitempty"`
	Points              int          `json:"points,omitempty"`
	Samples             []Sample     `json:"samples"`
	FunctionEvaluations int          `json:"function_evaluations"`
}

func validate(op string, a, b float64, n int) error {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) || !(a < b) {
		return solver.Errorf(solver.InvalidInterval, op, "lower bound %g must be below upper bound %g", a, b)
	}
	if n <= 0 {
		return solver.Errorf(solver.InvalidIntervalCount, op, "interval count must be positive, got %d", n)
	}
	return nil
}

// composite evaluates Σ w_i f(x_i) on the uniform grid x_i = a + i·h,
// scaled by scale, with per-node coefficients from coeff.
func composite(f solver.Func1, a, h float64, n int, scale float64, coeff func(i int) float64) *Result {
	res := &Result{H: h, Intervals: n, Samples: make([]Sample, 0, n+1)}
	sum := 0.0
	for i := 0; i <= n; i++ {
		x := a + float64(i)*h
		fx := f(x)
		w := coeff(i)
		sum += w * fx
		res.Samples = append(res.Samples, Sample{X: x, FX: solver.Float(fx), Weight: w * scale})
	}
	res.Integral = solver.Float(scale * sum)
	res.FunctionEvaluations = n + 1
	return res
}

// Trapezoidal applies the composite trapezoidal rule with n intervals.
// The error estimate is |(b-a)h²/12|.
func Trapezoidal(f solver.Func1, a, b float64, n int) (*Result, error) {
	const op = "quadrature.Trapezoidal"
	if err := validate(op, a, b, n); err != nil {
		return nil, err
	}
	h := (b - a) / float64(n)
	res := composite(f, a, h, n, h/2, func(i int) float64 {
		if i == 0 || i == n {
			return 1
		}
		return 2
	})
	res.ErrorEstimate = solver.Float(math.Abs((b - a) * h * h / 12))
	return res, nil
}

// Simpson13 applies the composite Simpson 1/3 rule; n must be even.
// The error estimate is |(b-a)h⁴/180|.
func Simpson13(f solver.Func1, a, b float64, n int) (*Result, error) {
	const op = "quadrature.Simpson13"
	if err := validate(op, a, b, n); err != nil {
		return nil, err
	}
	if n%2 != 0 {
		return nil, solver.Errorf(solver.InvalidIntervalCount, op, "interval count must be even, got %d", n)
	}
	h := (b - a) / float64(n)
	res := composite(f, a, h, n, h/3, func(i int) float64 {
		switch {
		case i == 0 || i == n:
			return 1
		case i%2 == 1:
			return 4
		}
		return 2
	})
	res.ErrorEstimate = solver.Float(math.Abs((b - a) * math.Pow(h, 4) / 180))
	return res, nil
}

// Simpson38 applies the composite Simpson 3/8 rule; n must be a multiple
// of 3. The error estimate is |(b-a)h⁴/80|.
func Simpson38(f solver.Func1, a, b float64, n int) (*Result, error) {
	const op = "quadrature.Simpson38"
	if err := validate(op, a, b, n); err != nil {
		return nil, err
	}
	if n%3 != 0 {
		return nil, solver.Errorf(solver.InvalidIntervalCount, op, "interval count must be a multiple of 3, got %d", n)
	}
	h := (b - a) / float64(n)
	res := composite(f, a, h, n, 3*h/8, func(i int) float64 {
		switch {
		case i == 0 || i == n:
			return 1
		case i%3 == 0:
			return 2
		}
		return 3
	})
	res.ErrorEstimate = solver.Float(math.Abs((b - a) * math.Pow(h, 4) / 80))
	return res, nil
}
