package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity reports a buffer or table size that cannot be allocated.
	ErrInvalidCapacity = errors.New("core: capacity must be > 0")
	// ErrShapeMismatch reports input/output blocks whose channel count or
	// per-channel length disagrees with the processor configuration.
	ErrShapeMismatch = errors.New("core: block shape mismatch")
	// ErrUnknownParam reports a parameter tag outside the processor's tag set.
	ErrUnknownParam = errors.New("core: unknown parameter")
)

// InvalidValueError reports a parameter value that violates a stated bound.
// The processor keeps its previous value when this error is returned.
type InvalidValueError struct {
	Param fmt.Stringer
	Value float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %g", paramName(e.Param), e.Value)
}

// ParamName names a construction setting, such as the sample rate, that is
// not part of a processor's parameter tag set.
type ParamName string

func (n ParamName) String() string { return string(n) }

// InvalidValue returns an *InvalidValueError for param and value.
func InvalidValue(param fmt.Stringer, value float64) error {
	return &InvalidValueError{Param: param, Value: value}
}

func paramName(p fmt.Stringer) string {
	if p == nil {
		return "<nil>"
	}
	return p.String()
}
