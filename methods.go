package gonumerics

import (
	"encoding/json"
	"sort"

	"github.com/njchilds90/gonumerics/solver"
)

// Method selects one engine variant.
type Method int

const (
	MethodUnknown Method = iota
	MethodBisection
	MethodFalsePosition
	MethodNewtonRaphson
	MethodSecant
	MethodModifiedNewton
	MethodJacobi
	MethodGaussSeidel
	MethodGaussianElimination
	MethodGaussJordan
	MethodTrapezoidal
	MethodSimpson13
	MethodSimpson38
	MethodGaussLegendre
	MethodEuler
	MethodHeun
	MethodHeunAdaptive
	MethodRungeKutta
	MethodTaylorExpand
	MethodTaylorApproximate
)

var methodNames = map[Method]string{
	MethodBisection:           "bisection",
	MethodFalsePosition:       "false_position",
	MethodNewtonRaphson:       "newton_raphson",
	MethodSecant:              "secant",
	MethodModifiedNewton:      "modified_newton",
	MethodJacobi:              "jacobi",
	MethodGaussSeidel:         "gauss_seidel",
	MethodGaussianElimination: "gaussian_elimination",
	MethodGaussJordan:         "gauss_jordan",
	MethodTrapezoidal:         "trapezoidal",
	MethodSimpson13:           "simpson_1_3",
	MethodSimpson38:           "simpson_3_8",
	MethodGaussLegendre:       "gauss_legendre",
	MethodEuler:               "euler",
	MethodHeun:                "heun",
	MethodHeunAdaptive:        "heun_adaptive",
	MethodRungeKutta:          "runge_kutta",
	MethodTaylorExpand:        "taylor_expand",
	MethodTaylorApproximate:   "taylor_approximate",
}

var methodsByName = func() map[string]Method {
	m := make(map[string]Method, len(methodNames))
	for k, v := range methodNames {
		m[v] = k
	}
	return m
}()

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMethod maps a method tag to its Method.
func ParseMethod(s string) (Method, error) {
	if m, ok := methodsByName[s]; ok {
		return m, nil
	}
	return MethodUnknown, solver.Errorf(solver.UnknownMethod, "gonumerics.ParseMethod", "unknown method %q", s)
}

// Methods lists every known method in declaration order.
func Methods() []Method {
	out := make([]Method, 0, len(methodNames))
	for m := range methodNames {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type paramSpec struct {
	typ      string
	required bool
	desc     string
}

type methodInfo struct {
	description string
	params      map[string]paramSpec
}

func req(typ, desc string) paramSpec { return paramSpec{typ: typ, required: true, desc: desc} }
func opt(typ, desc string) paramSpec { return paramSpec{typ: typ, desc: desc} }

func withTolerance(p map[string]paramSpec) map[string]paramSpec {
	p["tolerance"] = opt("number", "stopping tolerance, > 0")
	p["max_iterations"] = opt("integer", "iteration bound, >= 1")
	return p
}

var (
	equationParam = req("string", "equation, e.g. \"x^3 - 2x - 5\"")
	variableParam = opt("string", "variable name, default x")
)

var methodInfos = map[Method]methodInfo{
	MethodBisection: {"Root of f on a sign-changing bracket [a, b] by halving", withTolerance(map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "a": req("number", "bracket start"), "b": req("number", "bracket end"),
	})},
	MethodFalsePosition: {"Root of f on a sign-changing bracket [a, b] by secant interpolation", withTolerance(map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "a": req("number", "bracket start"), "b": req("number", "bracket end"),
	})},
	MethodNewtonRaphson: {"Root of f from x0 using f'", withTolerance(map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "x0": req("number", "initial guess"),
	})},
	MethodSecant: {"Root of f from two seeds without derivatives", withTolerance(map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "x0": req("number", "first seed"), "x1": req("number", "second seed"),
	})},
	MethodModifiedNewton: {"Root of f of any multiplicity using f' and f''", withTolerance(map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "x0": req("number", "initial guess"),
	})},
	MethodJacobi: {"Solve Ax=b by Jacobi iteration; A must be strictly diagonally dominant", withTolerance(map[string]paramSpec{
		"matrix": req("array", "square matrix A, rows of numbers"), "vector": req("array", "right-hand side b"), "initial_guess": opt("array", "x0, default zeros"),
	})},
	MethodGaussSeidel: {"Solve Ax=b by Gauss-Seidel iteration", withTolerance(map[string]paramSpec{
		"matrix": req("array", "square matrix A, rows of numbers"), "vector": req("array", "right-hand side b"), "initial_guess": opt("array", "x0, default zeros"),
	})},
	MethodGaussianElimination: {"Solve Ax=b by elimination and back substitution", map[string]paramSpec{
		"matrix": req("array", "square matrix A"), "vector": req("array", "right-hand side b"), "pivoting": opt("string", "partial (default) or total"),
	}},
	MethodGaussJordan: {"Solve Ax=b by reduction to [I|x]", map[string]paramSpec{
		"matrix": req("array", "square matrix A"), "vector": req("array", "right-hand side b"), "pivoting": opt("string", "partial (default) or total"),
	}},
	MethodTrapezoidal: {"Composite trapezoidal rule on [a, b]", map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "a": req("number", "lower bound"), "b": req("number", "upper bound"), "n": req("integer", "interval count"),
	}},
	MethodSimpson13: {"Composite Simpson 1/3 rule; n even", map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "a": req("number", "lower bound"), "b": req("number", "upper bound"), "n": req("integer", "even interval count"),
	}},
	MethodSimpson38: {"Composite Simpson 3/8 rule; n a multiple of 3", map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "a": req("number", "lower bound"), "b": req("number", "upper bound"), "n": req("integer", "interval count, multiple of 3"),
	}},
	MethodGaussLegendre: {"Gauss-Legendre quadrature with 2 to 5 points", map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "a": req("number", "lower bound"), "b": req("number", "upper bound"), "points": req("integer", "2..5"),
	}},
	MethodEuler:        {"Explicit Euler for y' = f(t, y)", odeParams(map[string]paramSpec{"max_steps": stepBoundParam})},
	MethodHeun:         {"Heun (modified Euler) for y' = f(t, y) with local error estimates", odeParams(map[string]paramSpec{"max_steps": stepBoundParam, "compare_euler": opt("boolean", "also run Euler on the same grid and report the differences")})},
	MethodHeunAdaptive: {"Heun with adaptive step control", odeParams(map[string]paramSpec{"tolerance": req("number", "local error tolerance"), "shrink": opt("number", "step factor after rejection, default 0.5"), "grow": opt("number", "step factor after accurate step, default 1.5"), "grow_below": opt("number", "grow when error < grow_below*tolerance, default 0.1"), "min_step": opt("number", "default 1e-8"), "max_step": opt("number", "default (tf-t0)/10"), "max_steps": opt("integer", "attempt bound, default 10000")})},
	MethodRungeKutta:   {"Runge-Kutta of order 2 (midpoint) or 4 (classical)", odeParams(map[string]paramSpec{"order": opt("integer", "2 or 4, default 4"), "max_steps": stepBoundParam})},
	MethodTaylorExpand: {"Taylor polynomial of f around a point", map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "point": req("number", "expansion point"), "degree": req("integer", "polynomial degree"),
	}},
	MethodTaylorApproximate: {"Taylor polynomial evaluated at x with absolute and relative error", map[string]paramSpec{
		"equation": equationParam, "variable": variableParam, "point": req("number", "expansion point"), "degree": req("integer", "polynomial degree"), "x": req("number", "evaluation point"),
	}},
}

var stepBoundParam = opt("integer", "largest accepted (tf-t0)/h, default 1000000")

func odeParams(extra map[string]paramSpec) map[string]paramSpec {
	p := map[string]paramSpec{
		"equation": req("string", "right-hand side f(t, y)"),
		"t0":       req("number", "initial time"),
		"tf":       req("number", "final time"),
		"y0":       req("number", "initial value"),
		"h":        req("number", "step size (initial step when adaptive)"),
		"exact":    opt("string", "known solution y(t) to compare against"),
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

// MethodSpec returns the JSON schema of every method for client
// registration.
func MethodSpec() string {
	methods := make([]map[string]any, 0, len(methodInfos))
	for _, m := range Methods() {
		info := methodInfos[m]
		properties := map[string]any{}
		required := []string{}
		for name, p := range info.params {
			properties[name] = map[string]any{"type": p.typ, "description": p.desc}
			if p.required {
				required = append(required, name)
			}
		}
		sort.Strings(required)
		methods = append(methods, map[string]any{
			"name":        m.String(),
			"description": info.description,
			"inputSchema": map[string]any{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		})
	}
	b, _ := json.MarshalIndent(map[string]any{"methods": methods}, "", "  ")
	return string(b)
}
