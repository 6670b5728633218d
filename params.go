package gonumerics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/njchilds90/gonumerics/solver"
)

// Params are the decoded JSON parameters of a request. Numbers arrive as
// float64, arrays as []any.
type Params map[string]any

func missing(key string) error {
	return solver.Errorf(solver.InvalidArgument, "gonumerics.Params", "missing param: %s", key)
}

func invalid(key, format string, args ...any) error {
	return solver.Errorf(solver.InvalidArgument, "gonumerics.Params", "param %s %s", key, fmt.Sprintf(format, args...))
}

// Has reports whether key is present and not null.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns a required string parameter.
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(key, "must be a string")
	}
	return s, nil
}

// StringOr returns an optional string parameter.
func (p Params) StringOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.String(key)
}

// Float returns a required finite number.
func (p Params) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, missing(key)
	}
	return toFloat(key, v)
}

// FloatOr returns an optional finite number.
func (p Params) FloatOr(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key)
}

// BoolOr returns an optional boolean parameter.
func (p Params) BoolOr(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	b, ok := p[key].(bool)
	if !ok {
		return false, invalid(key, "must be a boolean")
	}
	return b, nil
}

// Int returns a required integral number.
func (p Params) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, invalid(key, "must be an integer, got %g", f)
	}
	return int(f), nil
}

// IntOr returns an optional integral number.
func (p Params) IntOr(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Int(key)
}

// Vector returns a required array of numbers.
func (p Params) Vector(key string) ([]float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, missing(key)
	}
	return toVector(key, v)
}

// Matrix returns a required array of number rows. Row lengths are not
// checked here; the linear engines report DimensionMismatch themselves.
func (p Params) Matrix(key string) ([][]float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, missing(key)
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, invalid(key, "must be an array of rows")
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		row, err := toVector(fmt.Sprintf("%s[%d]", key, i), r)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

func toFloat(key string, v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, invalid(key, "must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(key, "must be finite")
	}
	return f, nil
}

func toVector(key string, v any) ([]float64, error) {
	switch raw := v.(type) {
	case []float64:
		return append([]float64(nil), raw...), nil
	case []any:
		out := make([]float64, len(raw))
		for i, x := range raw {
			f, err := toFloat(fmt.Sprintf("%s[%d]", key, i), x)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, invalid(key, "must be an array of numbers")
}

// tolerance reads tolerance and max_iterations over def and validates
// the result.
func (p Params) tolerance(v *validator.Validate, def solver.Tolerance) (solver.Tolerance, error) {
	tol := def
	var err error
	if tol.Tolerance, err = p.FloatOr("tolerance", def.Tolerance); err != nil {
		return tol, err
	}
	if tol.MaxIterations, err = p.IntOr("max_iterations", def.MaxIterations); err != nil {
		return tol, err
	}
	if err := v.Struct(tol); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return tol, solver.Errorf(solver.InvalidTolerance, "gonumerics.Params", "%s must satisfy %s=%s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return tol, solver.Wrap(solver.InvalidTolerance, "gonumerics.Params", err)
	}
	return tol, nil
}
