package gonumerics

import (
	"github.com/njchilds90/gonumerics/expr"
	"github.com/njchilds90/gonumerics/linear"
	"github.com/njchilds90/gonumerics/ode"
	"github.com/njchilds90/gonumerics/quadrature"
	"github.com/njchilds90/gonumerics/roots"
	"github.com/njchilds90/gonumerics/solver"
	"github.com/njchilds90/gonumerics/taylor"
)

func (d *Dispatcher) registerBuiltins() {
	d.engines[MethodBisection] = d.bracketEngine(roots.Bisection)
	d.engines[MethodFalsePosition] = d.bracketEngine(roots.FalsePosition)
	d.engines[MethodNewtonRaphson] = EngineFunc(d.newtonRaphson)
	d.engines[MethodSecant] = EngineFunc(d.secant)
	d.engines[MethodModifiedNewton] = EngineFunc(d.modifiedNewton)

	d.engines[MethodJacobi] = d.iterativeEngine(linear.Jacobi)
	d.engines[MethodGaussSeidel] = d.iterativeEngine(linear.GaussSeidel)
	d.engines[MethodGaussianElimination] = directEngine(linear.GaussianElimination)
	d.engines[MethodGaussJordan] = directEngine(linear.GaussJordan)

	d.engines[MethodTrapezoidal] = d.compositeEngine(quadrature.Trapezoidal)
	d.engines[MethodSimpson13] = d.compositeEngine(quadrature.Simpson13)
	d.engines[MethodSimpson38] = d.compositeEngine(quadrature.Simpson38)
	d.engines[MethodGaussLegendre] = EngineFunc(d.gaussLegendre)

	d.engines[MethodEuler] = d.fixedStepEngine(ode.Euler, false)
	d.engines[MethodHeun] = d.fixedStepEngine(ode.Heun, true)
	d.engines[MethodHeunAdaptive] = EngineFunc(d.heunAdaptive)
	d.engines[MethodRungeKutta] = EngineFunc(d.rungeKutta)

	d.engines[MethodTaylorExpand] = EngineFunc(d.taylorExpand)
	d.engines[MethodTaylorApproximate] = EngineFunc(d.taylorApproximate)
}

// function parses the equation param as a function of the variable
// param (default x).
func (d *Dispatcher) function(p Params) (*expr.Function, error) {
	src, err := p.String("equation")
	if err != nil {
		return nil, err
	}
	v, err := p.StringOr("variable", "x")
	if err != nil {
		return nil, err
	}
	return d.parser.Parse(src, v)
}

// floats reads several required numbers in order.
func floats(p Params, keys ...string) ([]float64, error) {
	out := make([]float64, len(keys))
	for i, k := range keys {
		f, err := p.Float(k)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// ---- roots ----

type bracketMethod func(f solver.Func1, a, b float64, tol solver.Tolerance) (*roots.Result, error)

func (d *Dispatcher) bracketEngine(run bracketMethod) Engine {
	return EngineFunc(func(p Params) (any, error) {
		fn, err := d.function(p)
		if err != nil {
			return nil, err
		}
		ab, err := floats(p, "a", "b")
		if err != nil {
			return nil, err
		}
		tol, err := p.tolerance(d.validate, d.defaults)
		if err != nil {
			return nil, err
		}
		return run(fn.Call, ab[0], ab[1], tol)
	})
}

func (d *Dispatcher) newtonRaphson(p Params) (any, error) {
	fn, err := d.function(p)
	if err != nil {
		return nil, err
	}
	x0, err := p.Float("x0")
	if err != nil {
		return nil, err
	}
	tol, err := p.tolerance(d.validate, d.defaults)
	if err != nil {
		return nil, err
	}
	df, err := fn.Derivative(1)
	if err != nil {
		return nil, err
	}
	res, err := roots.NewtonRaphson(fn.Call, df.Call, x0, tol)
	if err != nil {
		return nil, err
	}
	res.FirstDerivative = df.String()
	return res, nil
}

func (d *Dispatcher) secant(p Params) (any, error) {
	fn, err := d.function(p)
	if err != nil {
		return nil, err
	}
	seeds, err := floats(p, "x0", "x1")
	if err != nil {
		return nil, err
	}
	tol, err := p.tolerance(d.validate, d.defaults)
	if err != nil {
		return nil, err
	}
	return roots.Secant(fn.Call, seeds[0], seeds[1], tol)
}

func (d *Dispatcher) modifiedNewton(p Params) (any, error) {
	fn, err := d.function(p)
	if err != nil {
		return nil, err
	}
	x0, err := p.Float("x0")
	if err != nil {
		return nil, err
	}
	tol, err := p.tolerance(d.validate, d.defaults)
	if err != nil {
		return nil, err
	}
	df, err := fn.Derivative(1)
	if err != nil {
		return nil, err
	}
	d2f, err := fn.Derivative(2)
	if err != nil {
		return nil, err
	}
	res, err := roots.ModifiedNewton(fn.Call, df.Call, d2f.Call, x0, tol)
	if err != nil {
		return nil, err
	}
	res.FirstDerivative, res.SecondDerivative = df.String(), d2f.String()
	return res, nil
}

// ---- linear ----

type iterativeMethod func(a [][]float64, b, x0 []float64, tol solver.Tolerance) (*linear.IterativeResult, error)

func (d *Dispatcher) iterativeEngine(run iterativeMethod) Engine {
	return EngineFunc(func(p Params) (any, error) {
		a, err := p.Matrix("matrix")
		if err != nil {
			return nil, err
		}
		b, err := p.Vector("vector")
		if err != nil {
			return nil, err
		}
		var x0 []float64
		if p.Has("initial_guess") {
			if x0, err = p.Vector("initial_guess"); err != nil {
				return nil, err
			}
		}
		tol, err := p.tolerance(d.validate, d.defaults)
		if err != nil {
			return nil, err
		}
		return run(a, b, x0, tol)
	})
}

type directMethod func(a [][]float64, b []float64, pv linear.Pivoting) (*linear.DirectResult, error)

func directEngine(run directMethod) Engine {
	return EngineFunc(func(p Params) (any, error) {
		a, err := p.Matrix("matrix")
		if err != nil {
			return nil, err
		}
		b, err := p.Vector("vector")
		if err != nil {
			return nil, err
		}
		name, err := p.StringOr("pivoting", "partial")
		if err != nil {
			return nil, err
		}
		pv, err := linear.ParsePivoting(name)
		if err != nil {
			return nil, err
		}
		return run(a, b, pv)
	})
}

// ---- quadrature ----

type compositeMethod func(f solver.Func1, a, b float64, n int) (*quadrature.Result, error)

func (d *Dispatcher) compositeEngine(run compositeMethod) Engine {
	return EngineFunc(func(p Params) (any, error) {
		fn, err := d.function(p)
		if err != nil {
			return nil, err
		}
		ab, err := floats(p, "a", "b")
		if err != nil {
			return nil, err
		}
		n, err := p.Int("n")
		if err != nil {
			return nil, err
		}
		return run(fn.Call, ab[0], ab[1], n)
	})
}

func (d *Dispatcher) gaussLegendre(p Params) (any, error) {
	fn, err := d.function(p)
	if err != nil {
		return nil, err
	}
	ab, err := floats(p, "a", "b")
	if err != nil {
		return nil, err
	}
	points, err := p.Int("points")
	if err != nil {
		return nil, err
	}
	return quadrature.GaussLegendre(fn.Call, ab[0], ab[1], points)
}

// ---- ode ----

type odeProblem struct {
	f             solver.Func2
	t0, tf, y0, h float64
	opts          []ode.Option
}

func (d *Dispatcher) odeProblem(p Params) (*odeProblem, error) {
	src, err := p.String("equation")
	if err != nil {
		return nil, err
	}
	fn, err := d.parser.Parse(src, "t", "y")
	if err != nil {
		return nil, err
	}
	v, err := floats(p, "t0", "tf", "y0", "h")
	if err != nil {
		return nil, err
	}
	prob := &odeProblem{f: fn.Call2, t0: v[0], tf: v[1], y0: v[2], h: v[3]}
	if p.Has("exact") {
		src, err := p.String("exact")
		if err != nil {
			return nil, err
		}
		exact, err := d.parser.Parse(src, "t")
		if err != nil {
			return nil, err
		}
		prob.opts = append(prob.opts, ode.WithExact(exact.Call))
	}
	return prob, nil
}

type fixedStepMethod func(f solver.Func2, t0, tf, y0, h float64, opts ...ode.Option) (*ode.Result, error)

// fixedStepEngine adapts run to Params. compare enables the compare_euler
// flag.
func (d *Dispatcher) fixedStepEngine(run fixedStepMethod, compare bool) Engine {
	return EngineFunc(func(p Params) (any, error) {
		prob, err := d.odeProblem(p)
		if err != nil {
			return nil, err
		}
		if err := prob.stepBound(p); err != nil {
			return nil, err
		}
		if compare {
			on, err := p.BoolOr("compare_euler", false)
			if err != nil {
				return nil, err
			}
			if on {
				prob.opts = append(prob.opts, ode.WithEulerComparison())
			}
		}
		return run(prob.f, prob.t0, prob.tf, prob.y0, prob.h, prob.opts...)
	})
}

func (prob *odeProblem) stepBound(p Params) error {
	n, err := p.IntOr("max_steps", ode.DefaultMaxSteps)
	if err != nil {
		return err
	}
	if n < 1 {
		return invalid("max_steps", "must be positive, got %d", n)
	}
	prob.opts = append(prob.opts, ode.WithMaxSteps(n))
	return nil
}

func (d *Dispatcher) rungeKutta(p Params) (any, error) {
	prob, err := d.odeProblem(p)
	if err != nil {
		return nil, err
	}
	order, err := p.IntOr("order", 4)
	if err != nil {
		return nil, err
	}
	if err := prob.stepBound(p); err != nil {
		return nil, err
	}
	return ode.RungeKutta(prob.f, prob.t0, prob.tf, prob.y0, prob.h, order, prob.opts...)
}

func (d *Dispatcher) heunAdaptive(p Params) (any, error) {
	prob, err := d.odeProblem(p)
	if err != nil {
		return nil, err
	}
	tol, err := p.Float("tolerance")
	if err != nil {
		return nil, err
	}
	ao := ode.DefaultAdaptive()
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"shrink", &ao.Shrink},
		{"grow", &ao.Grow},
		{"grow_below", &ao.GrowBelow},
		{"min_step", &ao.MinStep},
		{"max_step", &ao.MaxStep},
	} {
		if *f.dst, err = p.FloatOr(f.key, *f.dst); err != nil {
			return nil, err
		}
	}
	if ao.MaxSteps, err = p.IntOr("max_steps", ao.MaxSteps); err != nil {
		return nil, err
	}
	return ode.HeunAdaptive(prob.f, prob.t0, prob.tf, prob.y0, prob.h, tol, ao, prob.opts...)
}

// ---- taylor ----

func (d *Dispatcher) taylorArgs(p Params) (*expr.Function, string, float64, int, error) {
	fn, err := d.function(p)
	if err != nil {
		return nil, "", 0, 0, err
	}
	point, err := p.Float("point")
	if err != nil {
		return nil, "", 0, 0, err
	}
	degree, err := p.Int("degree")
	if err != nil {
		return nil, "", 0, 0, err
	}
	return fn, fn.Vars()[0], point, degree, nil
}

func (d *Dispatcher) taylorExpand(p Params) (any, error) {
	fn, v, point, degree, err := d.taylorArgs(p)
	if err != nil {
		return nil, err
	}
	return taylor.Expand(fn, v, point, degree)
}

func (d *Dispatcher) taylorApproximate(p Params) (any, error) {
	fn, v, point, degree, err := d.taylorArgs(p)
	if err != nil {
		return nil, err
	}
	x, err := p.Float("x")
	if err != nil {
		return nil, err
	}
	return taylor.Approximate(fn, v, point, degree, x)
}
