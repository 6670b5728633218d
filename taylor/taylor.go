// Package taylor builds truncated Taylor polynomials of parsed functions
// and measures how well they approximate the function.
package taylor

import (
	"math"

	"github.com/njchilds90/gonumerics/expr"
	"github.com/njchilds90/gonumerics/solver"
)

// MaxDegree bounds the expansion degree; symbolic derivatives grow
// quickly beyond it.
const MaxDegree = 30

// ErrorPoint names the unevaluated point ξ of the Lagrange remainder.
const ErrorPoint = "xi"

// Term is the n-th order contribution f⁽ⁿ⁾(a)/n! · (x-a)ⁿ.
type Term struct {
	Order       int     `json:"order"`
	Derivative  string  `json:"derivative"`
	Value       float64 `json:"value"`
	Coefficient float64 `json:"coefficient"`
}

// Expansion is a Taylor polynomial of degree Degree around Point.
type Expansion struct {
	Variable   string    `json:"variable"`
	Point      float64   `json:"point"`
	Degree     int       `json:"degree"`
	Polynomial expr.Expr `json:"-"`
	Remainder  expr.Expr `json:"-"`
	Terms      []Term    `json:"terms"`
	// Numeric reports that at least one derivative was approximated by
	// finite differences.
	Numeric bool `json:"numeric_derivatives,omitempty"`
}

// MarshalJSON renders the symbolic parts as strings next to the terms.
func (e *Expansion) MarshalJSON() ([]byte, error) {
	type plain Expansion
	return marshal(struct {
		*plain
		Polynomial      string `json:"polynomial"`
		PolynomialLaTeX string `json:"polynomial_latex"`
		Remainder       string `json:"remainder"`
	}{
		plain:           (*plain)(e),
		Polynomial:      e.Polynomial.String(),
		PolynomialLaTeX: e.Polynomial.LaTeX(),
		Remainder:       e.Remainder.String(),
	})
}

// Coefficients returns f⁽ⁿ⁾(a)/n! for n = 0..Degree.
func (e *Expansion) Coefficients() []float64 {
	c := make([]float64, len(e.Terms))
	for i, t := range e.Terms {
		c[i] = t.Coefficient
	}
	return c
}

// Eval evaluates the polynomial at x by Horner's rule in (x-a). At x == a
// the result is exactly f(a).
func (e *Expansion) Eval(x float64) float64 {
	dx := x - e.Point
	sum := 0.0
	for i := len(e.Terms) - 1; i >= 0; i-- {
		sum = sum*dx + e.Terms[i].Coefficient
	}
	return sum
}

// Expand computes the Taylor polynomial of fn in variable around point.
// An empty variable means the first variable of fn; fn must not depend
// on any other variable.
func Expand(fn *expr.Function, variable string, point float64, degree int) (*Expansion, error) {
	const op = "taylor.Expand"
	variable, err := checkArgs(op, fn, variable, point, degree)
	if err != nil {
		return nil, err
	}

	exp := &Expansion{Variable: variable, Point: point, Degree: degree, Terms: make([]Term, 0, degree+1)}
	factorial := 1.0
	for n := 0; n <= degree; n++ {
		if n > 0 {
			factorial *= float64(n)
		}
		d, err := fn.PartialDerivative(variable, n)
		if err != nil {
			return nil, err
		}
		v := d.Eval(point)
		if n == 0 {
			v = fn.Eval(point)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, solver.Errorf(solver.InvalidArgument, op, "derivative of order %d is not finite at %s = %g", n, variable, point)
		}
		exp.Numeric = exp.Numeric || d.IsNumeric()
		exp.Terms = append(exp.Terms, Term{
			Order:       n,
			Derivative:  d.String(),
			Value:       v,
			Coefficient: v / factorial,
		})
	}

	a := expr.NFloat(point)
	poly := expr.TaylorSeries(fn.Expr(), variable, a, degree)
	if expr.HasUnresolvedDerivative(poly) {
		poly = exp.numericPolynomial()
	}
	exp.Polynomial = poly.Simplify()
	exp.Remainder = expr.LagrangeRemainder(fn.Expr(), variable, a, degree, ErrorPoint)
	return exp, nil
}

// numericPolynomial builds Σ cₙ(x-a)ⁿ from the evaluated coefficients.
func (e *Expansion) numericPolynomial() expr.Expr {
	shift := expr.AddOf(expr.S(e.Variable), expr.NFloat(-e.Point))
	terms := make([]expr.Expr, 0, len(e.Terms))
	for _, t := range e.Terms {
		if t.Coefficient == 0 {
			continue
		}
		terms = append(terms, expr.MulOf(expr.NFloat(t.Coefficient), expr.PowOf(shift, expr.N(int64(t.Order)))))
	}
	return expr.AddOf(terms...)
}

// Approximation compares the polynomial with the function at X.
type Approximation struct {
	*Expansion
	X             float64      `json:"x"`
	Approximation solver.Float `json:"approximation"`
	TrueValue     solver.Float `json:"true_value"`
	AbsoluteError solver.Float `json:"absolute_error"`
	RelativeError solver.Float `json:"relative_error"`
}

// MarshalJSON keeps the expansion fields flat next to the comparison.
func (a *Approximation) MarshalJSON() ([]byte, error) {
	inner, err := a.Expansion.MarshalJSON()
	if err != nil {
		return nil, err
	}
	type plain struct {
		X             float64      `json:"x"`
		Approximation solver.Float `json:"approximation"`
		TrueValue     solver.Float `json:"true_value"`
		AbsoluteError solver.Float `json:"absolute_error"`
		RelativeError solver.Float `json:"relative_error"`
	}
	outer, err := marshal(plain{a.X, a.Approximation, a.TrueValue, a.AbsoluteError, a.RelativeError})
	if err != nil {
		return nil, err
	}
	return mergeObjects(inner, outer)
}

// Approximate expands fn around point and evaluates both the polynomial
// and fn at x. The relative error is +Inf when f(x) is 0 and the
// approximation is not, and 0 when both are 0. Values that overflow are
// reported as ±Inf or NaN, not as errors.
func Approximate(fn *expr.Function, variable string, point float64, degree int, x float64) (*Approximation, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, solver.Errorf(solver.InvalidArgument, "taylor.Approximate", "evaluation point must be finite, got %g", x)
	}
	exp, err := Expand(fn, variable, point, degree)
	if err != nil {
		return nil, err
	}
	approx := exp.Eval(x)
	truth := fn.Eval(x)
	abs := math.Abs(truth - approx)
	var rel float64
	switch {
	case truth != 0:
		rel = abs / math.Abs(truth)
	case approx != 0:
		rel = math.Inf(1)
	}
	return &Approximation{
		Expansion:     exp,
		X:             x,
		Approximation: solver.Float(approx),
		TrueValue:     solver.Float(truth),
		AbsoluteError: solver.Float(abs),
		RelativeError: solver.Float(rel),
	}, nil
}

func checkArgs(op string, fn *expr.Function, variable string, point float64, degree int) (string, error) {
	if fn == nil {
		return "", solver.Errorf(solver.InvalidArgument, op, "no function given")
	}
	vars := fn.Vars()
	if variable == "" {
		variable = vars[0]
	}
	if len(vars) != 1 || vars[0] != variable {
		return "", solver.Errorf(solver.InvalidArgument, op, "expansion needs a function of %s alone, got variables %v", variable, vars)
	}
	if degree < 0 || degree > MaxDegree {
		return "", solver.Errorf(solver.InvalidArgument, op, "degree must be in [0, %d], got %d", MaxDegree, degree)
	}
	if math.IsNaN(point) || math.IsInf(point, 0) {
		return "", solver.Errorf(solver.InvalidArgument, op, "expansion point must be finite, got %g", point)
	}
	return variable, nil
}
