// Package expr is the expression evaluator used by the numerical engines.
//
// It parses user-typed equations into a small symbolic tree, differentiates
// that tree to any order, and compiles it into plain float64 closures:
//   - Exact rational literals (math/big.Rat)
//   - Deterministic simplification and stable output
//   - Symbolic derivatives with a numeric fallback
package expr

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	toJSON() map[string]any
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

// Largest denominator printed as a fraction; anything finer prints as a decimal.
var maxPrintedDenom = big.NewInt(1_000_000)

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic("expr: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts f through its shortest decimal form, so 0.1 becomes 1/10.
// It panics on NaN or Inf; use numFromFloat when f may be non-finite.
func NFloat(f float64) *Num {
	n, ok := numFromFloat(f)
	if !ok {
		panic(fmt.Sprintf("expr: non-finite number %v", f))
	}
	return n
}

func numFromFloat(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		r = new(big.Rat).SetFloat64(f)
	}
	return &Num{val: r}, true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) IsNegOne() bool        { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == -1 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if n.val.Denom().Cmp(maxPrintedDenom) <= 0 {
		return n.val.RatString()
	}
	return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() || n.val.Denom().Cmp(maxPrintedDenom) > 0 {
		return n.String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]any {
	return map[string]any{"type": "num", "value": n.val.RatString()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("expr: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Const: named irrational constant (pi, e)
// ============================================================

type Const struct {
	name  string
	value float64
}

var (
	Pi = &Const{name: "pi", value: math.Pi}
	E  = &Const{name: "e", value: math.E}
)

var constants = map[string]*Const{"pi": Pi, "e": E}

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return numFromFloat(c.value) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) Value() float64        { return c.value }

func (c *Const) LaTeX() string {
	if c.name == "pi" {
		return "\\pi"
	}
	return c.name
}

func (c *Const) toJSON() map[string]any {
	return map[string]any{"type": "const", "name": c.name}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym               { return &Sym{name: name} }
func (s *Sym) Simplify() Expr          { return s }
func (s *Sym) String() string          { return s.name }
func (s *Sym) LaTeX() string           { return s.name }
func (s *Sym) Eval() (*Num, bool)      { return nil, false }
func (s *Sym) Equal(other Expr) bool   { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) Name() string            { return s.name }
func (s *Sym) toJSON() map[string]any  { return map[string]any{"type": "sym", "name": s.name} }

func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}
