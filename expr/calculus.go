package expr

import (
	"sort"
	"strings"
)

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(e Expr, varName string, value Expr) Expr {
	return e.Sub(varName, value).Simplify()
}

func Diff(e Expr, varName string) Expr {
	return e.Diff(varName).Simplify()
}

// DiffN returns the n-th derivative of e with respect to varName.
// DiffN(e, v, 0) is e itself.
func DiffN(e Expr, varName string, n int) Expr {
	result := e
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// Expand distributes products over sums and expands small integer powers.
func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			a, ok := f.(*Add)
			if !ok {
				continue
			}
			rest := make([]Expr, 0, len(expanded)-1)
			rest = append(rest, expanded[:i]...)
			rest = append(rest, expanded[i+1:]...)
			terms := make([]Expr, len(a.terms))
			for k, t := range a.terms {
				terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
			}
			return expandExpr(AddOf(terms...))
		}
		return MulOf(expanded...)
	case *Add:
		out := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			out[i] = expandExpr(t)
		}
		return AddOf(out...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
			k := n.val.Num().Int64()
			if _, baseIsAdd := v.base.(*Add); baseIsAdd && k >= 2 && k <= 10 {
				base := expandExpr(v.base)
				result := Expr(N(1))
				for i := int64(0); i < k; i++ {
					result = expandExpr(MulOf(result, base))
				}
				return result
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	}
	return e
}

// FreeSymbols returns the sorted names of all variables in e.
func FreeSymbols(e Expr) []string {
	set := map[string]struct{}{}
	collectSymbols(e, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// HasUnresolvedDerivative reports whether e contains a D[name] node left
// behind by differentiating a function without a symbolic rule.
func HasUnresolvedDerivative(e Expr) bool {
	switch v := e.(type) {
	case *Func:
		return strings.HasPrefix(v.name, derivativePrefix) || HasUnresolvedDerivative(v.arg)
	case *Add:
		for _, t := range v.terms {
			if HasUnresolvedDerivative(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if HasUnresolvedDerivative(f) {
				return true
			}
		}
	case *Pow:
		return HasUnresolvedDerivative(v.base) || HasUnresolvedDerivative(v.exp)
	}
	return false
}

// ============================================================
// Taylor series
// ============================================================

// TaylorSeries builds Σ_{k=0}^{order} e^(k)(a)/k! · (v-a)^k. Zero
// coefficients are dropped.
func TaylorSeries(e Expr, varName string, a Expr, order int) Expr {
	terms := []Expr{}
	current := e
	factorial := N(1)
	shift := AddOf(S(varName), MulOf(N(-1), a))
	for k := 0; k <= order; k++ {
		if k > 0 {
			factorial = numMul(factorial, N(int64(k)))
		}
		coeff := MulOf(current.Sub(varName, a), numRecip(factorial))
		if !isNumEqual(coeff, 0) {
			terms = append(terms, MulOf(coeff, PowOf(shift, N(int64(k)))))
		}
		current = Diff(current, varName)
	}
	return AddOf(terms...)
}

// LagrangeRemainder returns e^(order+1)(xi)/(order+1)! · (v-a)^(order+1)
// with xi left as a free symbol.
func LagrangeRemainder(e Expr, varName string, a Expr, order int, xi string) Expr {
	factorial := N(1)
	for k := 2; k <= order+1; k++ {
		factorial = numMul(factorial, N(int64(k)))
	}
	deriv := DiffN(e, varName, order+1).Sub(varName, S(xi))
	shift := AddOf(S(varName), MulOf(N(-1), a))
	return MulOf(deriv, numRecip(factorial), PowOf(shift, N(int64(order+1))))
}
