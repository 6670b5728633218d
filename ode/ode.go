// Package ode integrates scalar initial value problems y' = f(t, y) over
// [t0, tf] with explicit one-step methods.
package ode

import (
	"math"

	"github.com/njchilds90/gonumerics/solver"
)

// DefaultMaxSteps bounds the number of fixed steps an integration may
// take; finer grids are rejected before any allocation.
const DefaultMaxSteps = 1_000_000

// Point is one node of the computed solution.
type Point struct {
	T float64      `json:"t"`
	Y solver.Float `json:"y"`
}

// Result is the outcome of an integration.
type Result struct {
	Method      string        `json:"method"`
	Points      []Point       `json:"points"`
	YFinal      solver.Float  `json:"y_final"`
	LocalErrors solver.Vector `json:"local_errors,omitempty"`
	LocalOrder  string        `json:"local_truncation_order"`
	GlobalOrder string        `json:"global_truncation_order"`
	Steps       int           `json:"steps"`
	// Rejected and ReachedEnd are only meaningful for adaptive runs.
	Rejected            int           `json:"rejected_steps,omitempty"`
	ReachedEnd          bool          `json:"reached_end"`
	FunctionEvaluations int           `json:"function_evaluations"`
	ExactErrors         solver.Vector `json:"exact_errors,omitempty"`
	MaxError            solver.Float  `json:"max_error,omitempty"`
	Comparison          *Comparison   `json:"comparison,omitempty"`
}

// Comparison holds a plain Euler run on the same grid as the result and
// its pointwise distance to the result. Its function evaluations are not
// counted in Result.FunctionEvaluations.
type Comparison struct {
	EulerSolution    solver.Vector `json:"euler_solution"`
	Differences      solver.Vector `json:"differences"`
	MaxDifference    solver.Float  `json:"max_difference"`
	AvgDifference    solver.Float  `json:"avg_difference"`
	ImprovementRatio solver.Float  `json:"improvement_ratio"`
}

// Option customizes an integration.
type Option func(*options)

type options struct {
	exact        solver.Func1
	compareEuler bool
	maxSteps     int
}

func newOptions(opts []Option) options {
	o := options{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithExact compares every computed point against the known solution y(t)
// and fills ExactErrors and MaxError.
func WithExact(y solver.Func1) Option {
	return func(o *options) { o.exact = y }
}

// WithEulerComparison reruns plain Euler along the computed grid and fills
// Result.Comparison.
func WithEulerComparison() Option {
	return func(o *options) { o.compareEuler = true }
}

// WithMaxSteps replaces DefaultMaxSteps for fixed-step methods. Values
// below 1 keep the default.
func WithMaxSteps(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

func validate(op string, t0, tf, h float64) error {
	if !(h > 0) || math.IsInf(h, 0) {
		return solver.Errorf(solver.InvalidStep, op, "step must be positive, got %g", h)
	}
	if math.IsNaN(t0) || math.IsNaN(tf) || !(tf > t0) {
		return solver.Errorf(solver.InvalidTimeRange, op, "final time %g must exceed initial time %g", tf, t0)
	}
	return nil
}

// checkSteps rejects a grid of more than maxSteps steps, including the
// overflow cases where h is negligible against tf-t0.
func checkSteps(op string, t0, tf, h float64, maxSteps int) error {
	ratio := (tf - t0) / h
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio > float64(maxSteps) {
		return solver.Errorf(solver.InvalidStep, op, "step %g needs %.3g steps over [%g, %g], limit is %d", h, ratio, t0, tf, maxSteps)
	}
	return nil
}

// grid returns t0, t0+h, ... up to tf inclusive. When (tf-t0)/h is not
// integral the last step is shortened to land on tf.
func grid(t0, tf, h float64) []float64 {
	ratio := (tf - t0) / h
	n := int(math.Ceil(ratio - 1e-9*math.Max(1, ratio)))
	if n < 1 {
		n = 1
	}
	ts := make([]float64, n+1)
	for i := 0; i < n; i++ {
		ts[i] = t0 + float64(i)*h
	}
	ts[n] = tf
	return ts
}

// stepper advances y from t by h and returns the new value, the number of
// function evaluations spent and a local error estimate (NaN if none).
type stepper func(f solver.Func2, t, y, h float64) (next float64, evals int, localErr float64)

func integrate(op, method string, f solver.Func2, t0, tf, y0, h float64, step stepper, opts []Option) (*Result, error) {
	if err := validate(op, t0, tf, h); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	if err := checkSteps(op, t0, tf, h, o.maxSteps); err != nil {
		return nil, err
	}
	ts := grid(t0, tf, h)
	res := &Result{Method: method, Points: make([]Point, 0, len(ts)), ReachedEnd: true}
	res.Points = append(res.Points, Point{T: ts[0], Y: solver.Float(y0)})
	y := y0
	for i := 0; i+1 < len(ts); i++ {
		next, evals, le := step(f, ts[i], y, ts[i+1]-ts[i])
		res.FunctionEvaluations += evals
		if !math.IsNaN(le) {
			res.LocalErrors = append(res.LocalErrors, le)
		}
		y = next
		res.Points = append(res.Points, Point{T: ts[i+1], Y: solver.Float(y)})
	}
	res.Steps = len(ts) - 1
	res.finish(f, o)
	return res, nil
}

func (r *Result) finish(f solver.Func2, o options) {
	r.YFinal = r.Points[len(r.Points)-1].Y
	if o.exact != nil {
		r.ExactErrors = make(solver.Vector, len(r.Points))
		maxErr := 0.0
		for i, p := range r.Points {
			e := math.Abs(float64(p.Y) - o.exact(p.T))
			r.ExactErrors[i] = e
			maxErr = math.Max(maxErr, e)
		}
		r.MaxError = solver.Float(maxErr)
	}
	if o.compareEuler {
		r.Comparison = compareEuler(f, r.Points)
	}
}

// compareEuler integrates with Euler over the t values of pts, starting
// from the same initial value.
func compareEuler(f solver.Func2, pts []Point) *Comparison {
	n := len(pts)
	c := &Comparison{
		EulerSolution: make(solver.Vector, n),
		Differences:   make(solver.Vector, n),
	}
	c.EulerSolution[0] = float64(pts[0].Y)
	for i := 0; i+1 < n; i++ {
		c.EulerSolution[i+1], _, _ = eulerStep(f, pts[i].T, c.EulerSolution[i], pts[i+1].T-pts[i].T)
	}
	var maxDiff, sumDiff, sumAbs float64
	for i, p := range pts {
		d := math.Abs(float64(p.Y) - c.EulerSolution[i])
		c.Differences[i] = d
		maxDiff = math.Max(maxDiff, d)
		sumDiff += d
		sumAbs += math.Abs(c.EulerSolution[i])
	}
	avg := sumDiff / float64(n)
	c.MaxDifference = solver.Float(maxDiff)
	c.AvgDifference = solver.Float(avg)
	c.ImprovementRatio = solver.Float(avg / (sumAbs/float64(n) + 1e-10))
	return c
}

func eulerStep(f solver.Func2, t, y, h float64) (float64, int, float64) {
	return y + h*f(t, y), 1, math.NaN()
}

// heunStep returns the Heun value and |y_heun - y_euler| as local error.
func heunStep(f solver.Func2, t, y, h float64) (float64, int, float64) {
	k1 := h * f(t, y)
	pred := y + k1
	k2 := h * f(t+h, pred)
	next := y + (k1+k2)/2
	return next, 2, math.Abs(next - pred)
}

func midpointStep(f solver.Func2, t, y, h float64) (float64, int, float64) {
	k1 := f(t, y)
	k2 := f(t+h/2, y+h/2*k1)
	return y + h*k2, 2, math.NaN()
}

func rk4Step(f solver.Func2, t, y, h float64) (float64, int, float64) {
	k1 := f(t, y)
	k2 := f(t+h/2, y+h/2*k1)
	k3 := f(t+h/2, y+h/2*k2)
	k4 := f(t+h, y+h*k3)
	return y + h/6*(k1+2*k2+2*k3+k4), 4, math.NaN()
}

// Euler integrates with y[i+1] = y[i] + h·f(t[i], y[i]).
func Euler(f solver.Func2, t0, tf, y0, h float64, opts ...Option) (*Result, error) {
	res, err := integrate("ode.Euler", "euler", f, t0, tf, y0, h, eulerStep, opts)
	if err != nil {
		return nil, err
	}
	res.LocalOrder, res.GlobalOrder = "O(h^2)", "O(h)"
	return res, nil
}

// Heun is the modified Euler method: an Euler predictor followed by a
// trapezoidal corrector. LocalErrors holds |y_heun - y_euler| per step.
func Heun(f solver.Func2, t0, tf, y0, h float64, opts ...Option) (*Result, error) {
	res, err := integrate("ode.Heun", "heun", f, t0, tf, y0, h, heunStep, opts)
	if err != nil {
		return nil, err
	}
	res.LocalOrder, res.GlobalOrder = "O(h^3)", "O(h^2)"
	return res, nil
}

// RungeKutta integrates with the midpoint method (order 2) or the classical
// four-stage method (order 4).
func RungeKutta(f solver.Func2, t0, tf, y0, h float64, order int, opts ...Option) (*Result, error) {
	const op = "ode.RungeKutta"
	var (
		step          stepper
		local, global string
	)
	switch order {
	case 2:
		step, local, global = midpointStep, "O(h^3)", "O(h^2)"
	case 4:
		step, local, global = rk4Step, "O(h^5)", "O(h^4)"
	default:
		return nil, solver.Errorf(solver.UnsupportedOrder, op, "supported orders are 2 and 4, got %d", order)
	}
	res, err := integrate(op, "rk"+string(rune('0'+order)), f, t0, tf, y0, h, step, opts)
	if err != nil {
		return nil, err
	}
	res.LocalOrder, res.GlobalOrder = local, global
	return res, nil
}
