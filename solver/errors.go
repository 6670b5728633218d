package solver

import (
	"errors"
	"fmt"
)

// Kind classifies a failed solve. Every kind is a local precondition
// failure; none of them is retried by the engines.
type Kind int

const (
	KindUnknown Kind = iota
	ParseError
	InvalidBracket
	ZeroDerivativeOrDegenerate
	StationaryPoint
	DegenerateSecant
	DimensionMismatch
	ConvergenceNotGuaranteed
	SingularMatrix
	InvalidInterval
	InvalidIntervalCount
	UnsupportedPointCount
	UnsupportedOrder
	InvalidStep
	InvalidTimeRange
	InvalidTolerance
	InvalidArgument
	UnknownMethod
)

var kindNames = map[Kind]string{
	KindUnknown:                "UnknownError",
	ParseError:                 "ParseError",
	InvalidBracket:             "InvalidBracketError",
	ZeroDerivativeOrDegenerate: "ZeroDerivativeOrDegenerateError",
	StationaryPoint:            "StationaryPointError",
	DegenerateSecant:           "DegenerateSecantError",
	DimensionMismatch:          "DimensionMismatchError",
	ConvergenceNotGuaranteed:   "ConvergenceNotGuaranteedError",
	SingularMatrix:             "SingularMatrixError",
	InvalidInterval:            "InvalidIntervalError",
	InvalidIntervalCount:       "InvalidIntervalCountError",
	UnsupportedPointCount:      "UnsupportedPointCountError",
	UnsupportedOrder:           "UnsupportedOrderError",
	InvalidStep:                "InvalidStepError",
	InvalidTimeRange:           "InvalidTimeRangeError",
	InvalidTolerance:           "InvalidToleranceError",
	InvalidArgument:            "InvalidArgumentError",
	UnknownMethod:              "UnknownMethodError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets kinds appear by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Error is the failure branch of every solve.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "roots.Bisection"
	Message string
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += " (caused by: " + e.Err.Error() + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work
// with errors.Is regardless of Op and Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new *Error.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: err.Error(), Err: err}
}

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Sentinels for errors.Is.
var (
	ErrParse                      = &Error{Kind: ParseError}
	ErrInvalidBracket             = &Error{Kind: InvalidBracket}
	ErrZeroDerivativeOrDegenerate = &Error{Kind: ZeroDerivativeOrDegenerate}
	ErrStationaryPoint            = &Error{Kind: StationaryPoint}
	ErrDegenerateSecant           = &Error{Kind: DegenerateSecant}
	ErrDimensionMismatch          = &Error{Kind: DimensionMismatch}
	ErrConvergenceNotGuaranteed   = &Error{Kind: ConvergenceNotGuaranteed}
	ErrSingularMatrix             = &Error{Kind: SingularMatrix}
	ErrInvalidInterval            = &Error{Kind: InvalidInterval}
	ErrInvalidIntervalCount       = &Error{Kind: InvalidIntervalCount}
	ErrUnsupportedPointCount      = &Error{Kind: UnsupportedPointCount}
	ErrUnsupportedOrder           = &Error{Kind: UnsupportedOrder}
	ErrInvalidStep                = &Error{Kind: InvalidStep}
	ErrInvalidTimeRange           = &Error{Kind: InvalidTimeRange}
	ErrInvalidTolerance           = &Error{Kind: InvalidTolerance}
	ErrInvalidArgument            = &Error{Kind: InvalidArgument}
	ErrUnknownMethod              = &Error{Kind: UnknownMethod}
)
