// Package roots implements bracketing and open root-finding methods.
//
// Every method returns a Result whose Trace lists one record per completed
// iteration. Running out of iterations is not an error: the result comes
// back with Converged == false and the last computed error.
//
// Function evaluations are counted as follows (derivative calls count as
// evaluations):
//
//	Bisection, FalsePosition  2 + iterations
//	NewtonRaphson             2 per iteration
//	Secant                    2 + iterations
//	ModifiedNewton            3 per iteration + 1 for the multiplicity check
package roots

import (
	"math"

	"github.com/njchilds90/gonumerics/solver"
)

// Denominators below this magnitude abort an update formula.
const degenerateThreshold = 1e-15

// multiplicityThreshold decides the multiplicity heuristic of ModifiedNewton.
const multiplicityThreshold = 1e-10

// Result is the outcome of a root-finding method.
type Result struct {
	Root solver.Float `json:"root"`
	solver.Trace
	// EstimatedMultiplicity is only set by ModifiedNewton.
	EstimatedMultiplicity int `json:"estimated_multiplicity,omitempty"`
	// Derivative expressions used by the derivative-based methods, set by
	// callers that work from a symbolic equation.
	FirstDerivative  string `json:"first_derivative,omitempty"`
	SecondDerivative string `json:"second_derivative,omitempty"`
}

func checkBracket(op string, fa, fb float64) error {
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return solver.Errorf(solver.InvalidBracket, op, "function is undefined at a bracket endpoint")
	}
	if fa*fb >= 0 {
		return solver.Errorf(solver.InvalidBracket, op, "f(a)=%g and f(b)=%g do not differ in sign", fa, fb)
	}
	return nil
}

// Bisection halves [a, b] until |f(c)| < tol or the half-width drops
// below tol. f(a)·f(b) must be negative.
func Bisection(f solver.Func1, a, b float64, tol solver.Tolerance) (*Result, error) {
	const op = "roots.Bisection"
	if err := tol.Validate(op); err != nil {
		return nil, err
	}
	if a > b {
		a, b = b, a
	}
	fa, fb := f(a), f(b)
	if err := checkBracket(op, fa, fb); err != nil {
		return nil, err
	}

	res := &Result{}
	res.FunctionEvaluations = 2
	var c float64
	for i := 0; i < tol.MaxIterations; i++ {
		c = (a + b) / 2
		fc := f(c)
		res.FunctionEvaluations++
		half := (b - a) / 2
		res.Record(solver.Iteration{
			Values: map[string]float64{"a": a, "b": b, "c": c, "f(a)": fa, "f(b)": fb, "f(c)": fc},
			Error:  solver.Float(half),
		})
		if math.Abs(fc) < tol.Tolerance || half < tol.Tolerance {
			res.Converged = true
			break
		}
		if math.Signbit(fc) == math.Signbit(fa) {
			a, fa = c, fc
		} else {
			b, fb = c, fc
		}
	}
	res.Root = solver.Float(c)
	return res, nil
}

// FalsePosition replaces the midpoint of bisection by the secant through
// the bracket endpoints and stops when |f(c)| < tol.
func FalsePosition(f solver.Func1, a, b float64, tol solver.Tolerance) (*Result, error) {
	const op = "roots.FalsePosition"
	if err := tol.Validate(op); err != nil {
		return nil, err
	}
	if a > b {
		a, b = b, a
	}
	fa, fb := f(a), f(b)
	if fa == fb {
		return nil, solver.Errorf(solver.ZeroDerivativeOrDegenerate, op, "f(a) equals f(b)")
	}
	if err := checkBracket(op, fa, fb); err != nil {
		return nil, err
	}

	res := &Result{}
	res.FunctionEvaluations = 2
	var c float64
	for i := 0; i < tol.MaxIterations; i++ {
		den := fb - fa
		if math.Abs(den) < degenerateThreshold {
			return nil, solver.Errorf(solver.ZeroDerivativeOrDegenerate, op, "f(b) - f(a) vanished at iteration %d", i+1)
		}
		c = (a*fb - b*fa) / den
		fc := f(c)
		res.FunctionEvaluations++
		res.Record(solver.Iteration{
			Values: map[string]float64{"a": a, "b": b, "c": c, "f(a)": fa, "f(b)": fb, "f(c)": fc},
			Error:  solver.Float(math.Abs(fc)),
		})
		if math.Abs(fc) < tol.Tolerance {
			res.Converged = true
			break
		}
		if math.Signbit(fc) == math.Signbit(fa) {
			a, fa = c, fc
		} else {
			b, fb = c, fc
		}
	}
	res.Root = solver.Float(c)
	return res, nil
}

// NewtonRaphson iterates x ← x - f(x)/f'(x) from x0.
func NewtonRaphson(f, df solver.Func1, x0 float64, tol solver.Tolerance) (*Result, error) {
	const op = "roots.NewtonRaphson"
	if err := tol.Validate(op); err != nil {
		return nil, err
	}
	res := &Result{}
	x := x0
	for i := 0; i < tol.MaxIterations; i++ {
		fx, dfx := f(x), df(x)
		res.FunctionEvaluations += 2
		if math.Abs(dfx) < degenerateThreshold {
			if math.Abs(fx) < tol.Tolerance {
				res.Record(solver.Iteration{
					Values: map[string]float64{"x": x, "f(x)": fx, "f'(x)": dfx, "x_new": x},
					Error:  solver.Float(math.Abs(fx)),
				})
				res.Converged = true
				break
			}
			return nil, solver.Errorf(solver.StationaryPoint, op, "f'(%g) = %g at iteration %d", x, dfx, i+1)
		}
		xNew := x - fx/dfx
		step := math.Abs(xNew - x)
		res.Record(solver.Iteration{
			Values: map[string]float64{"x": x, "f(x)": fx, "f'(x)": dfx, "x_new": xNew},
			Error:  solver.Float(step),
		})
		x = xNew
		if step < tol.Tolerance || math.Abs(fx) < tol.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Root = solver.Float(x)
	return res, nil
}

// Secant replaces the derivative of Newton's method by the slope through
// the last two iterates.
func Secant(f solver.Func1, x0, x1 float64, tol solver.Tolerance) (*Result, error) {
	const op = "roots.Secant"
	if err := tol.Validate(op); err != nil {
		return nil, err
	}
	res := &Result{}
	f0, f1 := f(x0), f(x1)
	res.FunctionEvaluations = 2
	for i := 0; i < tol.MaxIterations; i++ {
		den := f1 - f0
		if math.Abs(den) < degenerateThreshold {
			return nil, solver.Errorf(solver.DegenerateSecant, op, "f(x1) - f(x0) = %g at iteration %d", den, i+1)
		}
		x2 := x1 - f1*(x1-x0)/den
		f2 := f(x2)
		res.FunctionEvaluations++
		step := math.Abs(x2 - x1)
		res.Record(solver.Iteration{
			Values: map[string]float64{"x0": x0, "x1": x1, "x2": x2, "f(x0)": f0, "f(x1)": f1, "f(x2)": f2},
			Error:  solver.Float(step),
		})
		x0, f0 = x1, f1
		x1, f1 = x2, f2
		if step < tol.Tolerance || math.Abs(f2) < tol.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Root = solver.Float(x1)
	return res, nil
}

// ModifiedNewton restores quadratic convergence at multiple roots with
// x ← x - f·f' / (f'² - f·f''). The reported multiplicity is a coarse
// heuristic: 2 when |f'(root)| < 1e-10, otherwise 1.
func ModifiedNewton(f, df, d2f solver.Func1, x0 float64, tol solver.Tolerance) (*Result, error) {
	const op = "roots.ModifiedNewton"
	if err := tol.Validate(op); err != nil {
		return nil, err
	}
	res := &Result{}
	x := x0
	for i := 0; i < tol.MaxIterations; i++ {
		fx, dfx, d2fx := f(x), df(x), d2f(x)
		res.FunctionEvaluations += 3
		den := dfx*dfx - fx*d2fx
		values := map[string]float64{"x": x, "f(x)": fx, "f'(x)": dfx, "f''(x)": d2fx}
		if math.Abs(den) < degenerateThreshold {
			if math.Abs(fx) < tol.Tolerance {
				values["x_new"] = x
				res.Record(solver.Iteration{Values: values, Error: solver.Float(math.Abs(fx))})
				res.Converged = true
				break
			}
			return nil, solver.Errorf(solver.ZeroDerivativeOrDegenerate, op, "f'^2 - f·f'' = %g at iteration %d", den, i+1)
		}
		xNew := x - fx*dfx/den
		step := math.Abs(xNew - x)
		values["x_new"] = xNew
		res.Record(solver.Iteration{Values: values, Error: solver.Float(step)})
		x = xNew
		if step < tol.Tolerance || math.Abs(fx) < tol.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Root = solver.Float(x)
	res.EstimatedMultiplicity = 1
	res.FunctionEvaluations++
	if math.Abs(df(x)) < multiplicityThreshold {
		res.EstimatedMultiplicity = 2
	}
	return res, nil
}
