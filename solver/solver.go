// Package solver holds the contract shared by every numerical engine:
// the stopping policy, the per-iteration trace and the error taxonomy.
package solver

import "math"

// Default stopping policy.
const (
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// Tolerance governs the stopping policy of every iterative method.
type Tolerance struct {
	Tolerance     float64 `json:"tolerance" yaml:"tolerance" validate:"gt=0"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations" validate:"gte=1"`
}

// DefaultTol returns the default stopping policy.
func DefaultTol() Tolerance {
	return Tolerance{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

// Validate reports an InvalidToleranceError for a non-positive or
// non-finite tolerance or a zero iteration bound.
func (t Tolerance) Validate(op string) error {
	if !(t.Tolerance > 0) || math.IsInf(t.Tolerance, 0) {
		return Errorf(InvalidTolerance, op, "tolerance must be a positive finite number, got %g", t.Tolerance)
	}
	if t.MaxIterations < 1 {
		return Errorf(InvalidTolerance, op, "max_iterations must be >= 1, got %d", t.MaxIterations)
	}
	return nil
}

// Iteration is one completed step of an iterative method. Values holds
// the scalar state snapshot (bracket, midpoint, function values ...),
// Vector the current iterate of vector-valued methods.
type Iteration struct {
	Index    int                `json:"iteration"`
	Values   Values `json:"values,omitempty"`
	Vector   Vector `json:"x,omitempty"`
	Error    Float  `json:"error"`
	Residual Float  `json:"residual,omitempty"`
}

// Trace is the outcome common to every iterative method.
type Trace struct {
	Converged           bool        `json:"converged"`
	FinalError          Float       `json:"final_error"`
	Iterations          []Iteration `json:"iterations"`
	FunctionEvaluations int         `json:"function_evaluations"`
}

// Record appends a completed iteration. Index is assigned here so that
// it always equals the 1-based position in the trace.
func (t *Trace) Record(it Iteration) {
	it.Index = len(t.Iterations) + 1
	t.Iterations = append(t.Iterations, it)
	t.FinalError = it.Error
}

// Func1 is a scalar function of one variable.
type Func1 func(x float64) float64

// Func2 is the right-hand side f(t, y) of a first-order ODE.
type Func2 func(t, y float64) float64
