package expr

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"unicode"

	"github.com/njchilds90/gonumerics/solver"
)

// ============================================================
// Normalization
// ============================================================

var replacer = strings.NewReplacer(
	"**", "^",
	"√(", "sqrt(",
	"π", "pi",
	"−", "-",
	"·", "*",
	"×", "*",
	"÷", "/",
)

var aliases = map[string]string{"log": "ln", "arcsin": "asin", "arccos": "acos", "arctan": "atan"}

// Normalize rewrites notational variants into the plain ASCII grammar
// the parser accepts. Implicit multiplication is inserted by the parser.
func Normalize(src string) string {
	return strings.TrimSpace(replacer.Replace(src))
}

// ============================================================
// Tokens
// ============================================================

type tokenKind int

const (
	tokNum tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			for i < len(rs) && (unicode.IsDigit(rs[i]) || rs[i] == '.') {
				i++
			}
			// Scientific notation only when digits follow the exponent marker,
			// so "2e" still reads as 2*e.
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					for j < len(rs) && unicode.IsDigit(rs[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		case strings.ContainsRune("+-*/^,", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(' || r == '[':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')' || r == ']':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at %d", r, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

// ============================================================
// Parser
// ============================================================

type parser struct {
	toks []token
	pos  int
	vars map[string]bool
}

// ParseExpr parses src into an expression over the given variables.
// Identifiers that are not variables, constants or functions are split
// into known names when possible ("xy" -> x*y); otherwise parsing fails.
func ParseExpr(src string, vars ...string) (Expr, error) {
	const op = "expr.Parse"
	norm := Normalize(src)
	if norm == "" {
		return nil, solver.Errorf(solver.ParseError, op, "empty equation")
	}
	if i := strings.IndexRune(norm, '='); i >= 0 {
		// "lhs = rhs" is treated as lhs - rhs.
		if strings.Count(norm, "=") > 1 {
			return nil, solver.Errorf(solver.ParseError, op, "more than one '=' in %q", src)
		}
		norm = "(" + norm[:i] + ")-(" + norm[i+1:] + ")"
	}
	toks, err := tokenize(norm)
	if err != nil {
		return nil, solver.Errorf(solver.ParseError, op, "%v", err)
	}
	p := &parser{vars: map[string]bool{}}
	for _, v := range vars {
		p.vars[v] = true
	}
	if p.toks, err = p.splitIdents(toks); err != nil {
		return nil, solver.Errorf(solver.ParseError, op, "%v", err)
	}
	p.toks = insertImplicitMul(p.toks)

	e, err := p.parseSum()
	if err != nil {
		return nil, solver.Errorf(solver.ParseError, op, "%v", err)
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, solver.Errorf(solver.ParseError, op, "unexpected %q at %d", t.text, t.pos)
	}
	return e, nil
}

func isFunctionName(name string) bool {
	if _, ok := aliases[name]; ok {
		return true
	}
	_, ok := unary[name]
	return ok || name == "sqrt"
}

func (p *parser) known(name string) bool {
	_, isConst := constants[name]
	return p.vars[name] || isConst || isFunctionName(name)
}

// splitIdents resolves every identifier token to a single known name,
// breaking glued names like "xy" or "xsin" apart.
func (p *parser) splitIdents(toks []token) ([]token, error) {
	names := make([]string, 0, len(p.vars)+len(constants)+len(unary)+len(aliases)+1)
	for v := range p.vars {
		names = append(names, v)
	}
	for c := range constants {
		names = append(names, c)
	}
	for f := range unary {
		names = append(names, f)
	}
	for a := range aliases {
		names = append(names, a)
	}
	names = append(names, "sqrt")
	// Longest first so "sinh" wins over "sin"; ties broken alphabetically.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	out := make([]token, 0, len(toks))
	for _, t := range toks {
		if t.kind != tokIdent || p.known(t.text) {
			out = append(out, t)
			continue
		}
		rest, pos := t.text, t.pos
		for rest != "" {
			matched := ""
			for _, n := range names {
				if strings.HasPrefix(rest, n) {
					matched = n
					break
				}
			}
			if matched == "" {
				return nil, fmt.Errorf("unknown symbol %q", t.text)
			}
			out = append(out, token{kind: tokIdent, text: matched, pos: pos})
			rest = rest[len(matched):]
			pos += len(matched)
		}
	}
	return out, nil
}

// insertImplicitMul adds '*' between adjacent operands: 2x, x(x+1),
// (x+1)(x-1), x sin(x), 2pi.
func insertImplicitMul(toks []token) []token {
	out := make([]token, 0, len(toks)*2)
	for i, t := range toks {
		if i > 0 {
			prev := toks[i-1]
			prevOperand := prev.kind == tokNum || prev.kind == tokRParen ||
				(prev.kind == tokIdent && !isFunctionName(prev.text))
			nextOperand := t.kind == tokNum || t.kind == tokIdent || t.kind == tokLParen
			if prevOperand && nextOperand && !(prev.kind == tokNum && t.kind == tokNum) {
				out = append(out, token{kind: tokOp, text: "*", pos: t.pos})
			}
		}
		out = append(out, t)
	}
	return out
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(s string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == s
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = MulOf(N(-1), right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			if n, ok := right.(*Num); ok && n.IsZero() {
				return nil, fmt.Errorf("division by zero")
			}
			right = PowOf(right, N(-1))
		}
		left = MulOf(left, right)
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.isOp("-") {
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), e), nil
	}
	if p.isOp("+") {
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

// parsePower is right-associative: 2^3^2 = 2^(3^2).
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("invalid number %q at %d", t.text, t.pos)
		}
		return &Num{val: r}, nil
	case tokIdent:
		if isFunctionName(t.text) {
			return p.parseCall(t)
		}
		if p.vars[t.text] {
			return S(t.text), nil
		}
		if c, ok := constants[t.text]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("unknown symbol %q at %d", t.text, t.pos)
	case tokLParen:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, fmt.Errorf("missing ')' for '(' at %d", t.pos)
		}
		return e, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of input")
	}
	return nil, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
}

func (p *parser) parseCall(name token) (Expr, error) {
	if p.peek().kind != tokLParen {
		return nil, fmt.Errorf("function %s at %d needs parenthesised arguments", name.text, name.pos)
	}
	p.next()
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.next().kind != tokRParen {
		return nil, fmt.Errorf("missing ')' after argument of %s", name.text)
	}
	fn := name.text
	if alias, ok := aliases[fn]; ok {
		fn = alias
	}
	return FuncOf(fn, arg), nil
}
