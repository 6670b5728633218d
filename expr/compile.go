package expr

import (
	"fmt"
	"math"
)

type evalFunc func(args []float64) float64

// compile turns e into a closure over positional arguments. index maps
// each variable name to its argument position.
func compile(e Expr, index map[string]int) (evalFunc, error) {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func([]float64) float64 { return c }, nil
	case *Const:
		c := v.value
		return func([]float64) float64 { return c }, nil
	case *Sym:
		i, ok := index[v.name]
		if !ok {
			return nil, fmt.Errorf("unbound variable %q", v.name)
		}
		return func(args []float64) float64 { return args[i] }, nil
	case *Add:
		parts, err := compileAll(v.terms, index)
		if err != nil {
			return nil, err
		}
		return func(args []float64) float64 {
			s := 0.0
			for _, p := range parts {
				s += p(args)
			}
			return s
		}, nil
	case *Mul:
		parts, err := compileAll(v.factors, index)
		if err != nil {
			return nil, err
		}
		return func(args []float64) float64 {
			p := 1.0
			for _, f := range parts {
				p *= f(args)
			}
			return p
		}, nil
	case *Pow:
		return compilePow(v, index)
	case *Func:
		fn, ok := unary[v.name]
		if !ok {
			return nil, fmt.Errorf("cannot evaluate %s", v.name)
		}
		arg, err := compile(v.arg, index)
		if err != nil {
			return nil, err
		}
		return func(args []float64) float64 { return fn(arg(args)) }, nil
	}
	return nil, fmt.Errorf("cannot evaluate %T", e)
}

func compileAll(es []Expr, index map[string]int) ([]evalFunc, error) {
	out := make([]evalFunc, len(es))
	for i, e := range es {
		f, err := compile(e, index)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func compilePow(p *Pow, index map[string]int) (evalFunc, error) {
	base, err := compile(p.base, index)
	if err != nil {
		return nil, err
	}
	if n, ok := p.exp.(*Num); ok {
		switch {
		case n.Equal(N(2)):
			return func(args []float64) float64 { b := base(args); return b * b }, nil
		case n.Equal(N(-1)):
			return func(args []float64) float64 { return 1 / base(args) }, nil
		case n.Equal(F(1, 2)):
			return func(args []float64) float64 { return math.Sqrt(base(args)) }, nil
		}
		c := n.Float64()
		return func(args []float64) float64 { return math.Pow(base(args), c) }, nil
	}
	exp, err := compile(p.exp, index)
	if err != nil {
		return nil, err
	}
	return func(args []float64) float64 { return math.Pow(base(args), exp(args)) }, nil
}
