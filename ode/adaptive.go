package ode

import (
	"math"

	"github.com/njchilds90/gonumerics/solver"
)

// AdaptiveOptions tunes the step control of HeunAdaptive. The factors are
// empirical; zero fields take the defaults of DefaultAdaptive.
type AdaptiveOptions struct {
	Shrink    float64 `json:"shrink" yaml:"shrink"`         // factor applied after a rejected step
	Grow      float64 `json:"grow" yaml:"grow"`             // factor applied after a very accurate step
	GrowBelow float64 `json:"grow_below" yaml:"grow_below"` // grow when error < GrowBelow·tolerance
	MinStep   float64 `json:"min_step" yaml:"min_step"`
	MaxStep   float64 `json:"max_step" yaml:"max_step"` // 0 means (tf-t0)/10
	MaxSteps  int     `json:"max_steps" yaml:"max_steps"`
}

// DefaultAdaptive returns the standard step-control constants.
func DefaultAdaptive() AdaptiveOptions {
	return AdaptiveOptions{
		Shrink:    0.5,
		Grow:      1.5,
		GrowBelow: 0.1,
		MinStep:   1e-8,
		MaxSteps:  10000,
	}
}

func (a AdaptiveOptions) withDefaults(t0, tf float64) AdaptiveOptions {
	d := DefaultAdaptive()
	if a.Shrink <= 0 || a.Shrink >= 1 {
		a.Shrink = d.Shrink
	}
	if a.Grow <= 1 {
		a.Grow = d.Grow
	}
	if a.GrowBelow <= 0 {
		a.GrowBelow = d.GrowBelow
	}
	if a.MinStep <= 0 {
		a.MinStep = d.MinStep
	}
	if a.MaxStep <= 0 {
		a.MaxStep = (tf - t0) / 10
	}
	if a.MaxSteps <= 0 {
		a.MaxSteps = d.MaxSteps
	}
	return a
}

// HeunAdaptive runs Heun's method with step control: a step whose local
// error estimate exceeds tol is retried with the step scaled by Shrink;
// an accepted step with error below GrowBelow·tol scales the next step by
// Grow. Steps stay within [MinStep, MaxStep], at most MaxSteps attempts
// are made, and the last step is truncated to land exactly on tf.
// Exhausting MaxSteps is reported through ReachedEnd, not as an error.
func HeunAdaptive(f solver.Func2, t0, tf, y0, h0, tol float64, ao AdaptiveOptions, opts ...Option) (*Result, error) {
	const op = "ode.HeunAdaptive"
	if err := validate(op, t0, tf, h0); err != nil {
		return nil, err
	}
	if !(tol > 0) {
		return nil, solver.Errorf(solver.InvalidTolerance, op, "tolerance must be positive, got %g", tol)
	}
	ao = ao.withDefaults(t0, tf)

	res := &Result{
		Method:      "heun_adaptive",
		Points:      []Point{{T: t0, Y: solver.Float(y0)}},
		LocalOrder:  "O(h^3)",
		GlobalOrder: "O(h^2)",
	}
	t, y := t0, y0
	h := math.Min(math.Max(h0, ao.MinStep), ao.MaxStep)
	for attempts := 0; attempts < ao.MaxSteps && t < tf; attempts++ {
		last := t+h >= tf
		if last {
			h = tf - t
		}
		next, evals, le := heunStep(f, t, y, h)
		res.FunctionEvaluations += evals
		if le > tol && h > ao.MinStep {
			h = math.Max(h*ao.Shrink, ao.MinStep)
			res.Rejected++
			continue
		}
		if last {
			t = tf
		} else {
			t += h
		}
		y = next
		res.Points = append(res.Points, Point{T: t, Y: solver.Float(y)})
		res.LocalErrors = append(res.LocalErrors, le)
		res.Steps++
		if le < ao.GrowBelow*tol {
			h = math.Min(h*ao.Grow, ao.MaxStep)
		}
	}
	res.ReachedEnd = t >= tf
	res.finish(f, newOptions(opts))
	return res, nil
}
