package galaxy

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter indicates a parameter outside its generation domain
	// or a non-finite value.
	ErrInvalidParameter = errors.New("galaxy: invalid parameter")
	// ErrUnknownParameter indicates a parameter key that does not exist.
	ErrUnknownParameter = errors.New("galaxy: unknown parameter")
	// ErrAllocation indicates the particle buffer could not be allocated.
	ErrAllocation = errors.New("galaxy: cannot allocate particle buffer")
	// ErrNilSource indicates Generate was called without a random source.
	ErrNilSource = errors.New("galaxy: nil random source")
)

// ParamError describes a rejected parameter value. It unwraps to
// ErrInvalidParameter.
type ParamError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ParamError) Error() string {
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		return fmt.Sprintf("galaxy: %s must be finite, got %v", e.Field, e.Value)
	}
	return fmt.Sprintf("galaxy: %s=%g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }
