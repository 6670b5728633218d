// Package gonumerics dispatches numerical-analysis requests to the root
// finding, linear system, quadrature, ODE and Taylor engines.
//
// A request names a method and carries JSON-style parameters:
//
//	d := gonumerics.NewDispatcher()
//	resp := d.Solve(gonumerics.Request{
//		Method: "newton_raphson",
//		Params: gonumerics.Params{"equation": "x^3 - 2x - 5", "x0": 2.0},
//	})
//
// Every response encodes to a flat JSON object that always carries
// "success". Failures carry "error": {"kind", "message"} and no payload.
// Infinite and NaN numbers in a payload encode as the strings "+Inf",
// "-Inf" and "NaN".
package gonumerics

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/njchilds90/gonumerics/expr"
	"github.com/njchilds90/gonumerics/solver"
)

// Parser turns an equation string into an evaluable function of vars.
type Parser interface {
	Parse(src string, vars ...string) (*expr.Function, error)
}

// Engine solves one method. The returned payload must encode to a JSON
// object; non-finite numbers in it should use solver.Float or its
// container types.
type Engine interface {
	Solve(p Params) (any, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(p Params) (any, error)

// Solve implements Engine.
func (f EngineFunc) Solve(p Params) (any, error) { return f(p) }

// Request is a single solve call.
type Request struct {
	Method string `json:"method"`
	Params Params `json:"params"`
}

// Response is the outcome of a solve call.
type Response struct {
	Method  string
	Success bool
	Result  any
	Err     *solver.Error
}

type errorBody struct {
	Kind    solver.Kind `json:"kind"`
	Message string      `json:"message"`
}

// MarshalJSON flattens the result fields next to success.
func (r Response) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool      `json:"success"`
			Method  string    `json:"method,omitempty"`
			Error   errorBody `json:"error"`
		}{false, r.Method, r.errorBody()})
	}
	fields := map[string]json.RawMessage{}
	if r.Result != nil {
		raw, err := json.Marshal(r.Result)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
	}
	fields["success"] = json.RawMessage("true")
	if r.Method != "" {
		m, _ := json.Marshal(r.Method)
		fields["method"] = m
	}
	return json.Marshal(fields)
}

func (r Response) errorBody() errorBody {
	if r.Err == nil {
		return errorBody{Kind: solver.KindUnknown, Message: "unknown failure"}
	}
	msg := r.Err.Message
	if r.Err.Op != "" {
		msg = r.Err.Op + ": " + msg
	}
	return errorBody{Kind: r.Err.Kind, Message: msg}
}

// Dispatcher routes requests to engines. It holds no state that changes
// between calls and is safe for concurrent use.
type Dispatcher struct {
	parser   Parser
	logger   *slog.Logger
	validate *validator.Validate
	defaults solver.Tolerance
	engines  map[Method]Engine
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithParser replaces the equation parser.
func WithParser(p Parser) Option { return func(d *Dispatcher) { d.parser = p } }

// WithLogger sets the logger used for per-solve debug records.
func WithLogger(l *slog.Logger) Option { return func(d *Dispatcher) { d.logger = l } }

// WithDefaults sets the stopping policy used when a request omits
// tolerance or max_iterations.
func WithDefaults(t solver.Tolerance) Option { return func(d *Dispatcher) { d.defaults = t } }

// WithEngine registers or replaces the engine of m.
func WithEngine(m Method, e Engine) Option { return func(d *Dispatcher) { d.engines[m] = e } }

// NewDispatcher builds a dispatcher with every built-in engine.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		parser:   expr.Parser{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		defaults: solver.DefaultTol(),
		engines:  map[Method]Engine{},
	}
	d.registerBuiltins()
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Solve runs one request. It never panics on bad input; every failure is
// reported in the response.
func (d *Dispatcher) Solve(req Request) Response {
	start := time.Now()
	resp := d.solve(req)
	attrs := []any{
		slog.String("method", req.Method),
		slog.Bool("success", resp.Success),
		slog.Duration("duration", time.Since(start)),
	}
	if resp.Err != nil {
		attrs = append(attrs, slog.String("error_kind", resp.Err.Kind.String()))
	}
	d.logger.Debug("solve", attrs...)
	return resp
}

func (d *Dispatcher) solve(req Request) Response {
	m, err := ParseMethod(req.Method)
	if err != nil {
		return failure(req.Method, err)
	}
	eng, ok := d.engines[m]
	if !ok {
		return failure(req.Method, solver.Errorf(solver.UnknownMethod, "gonumerics.Solve", "no engine registered for %s", m))
	}
	params := req.Params
	if params == nil {
		params = Params{}
	}
	res, err := eng.Solve(params)
	if err != nil {
		return failure(m.String(), err)
	}
	return Response{Method: m.String(), Success: true, Result: res}
}

func failure(method string, err error) Response {
	var se *solver.Error
	if !errors.As(err, &se) {
		se = solver.Wrap(solver.KindUnknown, "", err)
	}
	return Response{Method: method, Err: se}
}
