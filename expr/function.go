package expr

import (
	"math"

	"github.com/njchilds90/gonumerics/numutil"
	"github.com/njchilds90/gonumerics/solver"
)

// Function is a parsed equation bound to an ordered list of variables.
// It is immutable and safe to share between goroutines.
type Function struct {
	src     string
	vars    []string
	index   map[string]int
	expr    Expr
	eval    evalFunc
	numeric bool // derivative approximated by finite differences
}

// Parser builds Functions from equation strings. The zero value is ready
// to use and holds no state between calls.
type Parser struct{}

// Parse implements the evaluator contract for the engines.
func (Parser) Parse(src string, vars ...string) (*Function, error) { return Parse(src, vars...) }

// Parse builds a Function of vars from src. With no vars the function is
// of the single variable x.
func Parse(src string, vars ...string) (*Function, error) {
	if len(vars) == 0 {
		vars = []string{"x"}
	}
	e, err := ParseExpr(src, vars...)
	if err != nil {
		return nil, err
	}
	return newFunction(src, vars, e)
}

// NewFunction wraps an already built expression.
func NewFunction(e Expr, vars ...string) (*Function, error) {
	return newFunction(e.String(), vars, e)
}

func newFunction(src string, vars []string, e Expr) (*Function, error) {
	index := make(map[string]int, len(vars))
	for i, v := range vars {
		index[v] = i
	}
	eval, err := compile(e, index)
	if err != nil {
		return nil, solver.Errorf(solver.ParseError, "expr.Parse", "%v", err)
	}
	return &Function{
		src:   src,
		vars:  append([]string(nil), vars...),
		index: index,
		expr:  e,
		eval:  eval,
	}, nil
}

// Eval evaluates the function at positional arguments. A wrong argument
// count yields NaN.
func (f *Function) Eval(args ...float64) float64 {
	if len(args) != len(f.vars) {
		return math.NaN()
	}
	return f.eval(args)
}

// Call evaluates a function of one variable.
func (f *Function) Call(x float64) float64 { return f.Eval(x) }

// Call2 evaluates a function of two variables, e.g. f(t, y).
func (f *Function) Call2(a, b float64) float64 { return f.Eval(a, b) }

func (f *Function) Expr() Expr       { return f.expr }
func (f *Function) Vars() []string   { return append([]string(nil), f.vars...) }
func (f *Function) Source() string   { return f.src }
func (f *Function) String() string   { return f.expr.String() }
func (f *Function) IsNumeric() bool  { return f.numeric }

// Derivative returns the order-th derivative with respect to the first
// variable.
func (f *Function) Derivative(order int) (*Function, error) {
	return f.PartialDerivative(f.vars[0], order)
}

// PartialDerivative differentiates symbolically with respect to name.
// When the result holds a function without a symbolic rule (abs, floor,
// ceil, sign) the derivative is approximated by central differences.
func (f *Function) PartialDerivative(name string, order int) (*Function, error) {
	const op = "expr.Derivative"
	i, ok := f.index[name]
	if !ok {
		return nil, solver.Errorf(solver.InvalidArgument, op, "%q is not a variable of %s", name, f.src)
	}
	if order < 0 {
		return nil, solver.Errorf(solver.InvalidArgument, op, "negative derivative order %d", order)
	}
	d := DiffN(f.expr, name, order)
	if !HasUnresolvedDerivative(d) && !f.numeric {
		return newFunction(d.String(), f.vars, d)
	}
	base := f.eval
	return &Function{
		src:   d.String(),
		vars:  f.vars,
		index: f.index,
		expr:  d,
		eval: func(args []float64) float64 {
			at := make([]float64, len(args))
			copy(at, args)
			return numutil.Derivative(func(x float64) float64 {
				at[i] = x
				return base(at)
			}, args[i], order, 0)
		},
		numeric: true,
	}, nil
}
