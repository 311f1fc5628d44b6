package detector

import (
	"errors"
	"fmt"
)

// ErrUnsupportedModel is returned when no model is given.
var ErrUnsupportedModel = errors.New("unsupported model")

// ErrDisposed is returned when a disposed detector is used.
var ErrDisposed = errors.New("detector disposed")

// CreationError is returned when the engine does not produce a detector.
type CreationError struct {
	Model string
	Err   error
}

func (e *CreationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("create detector: %v", e.Err)
	}
	return fmt.Sprintf("create %s detector: %v", e.Model, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// EstimationErrorKind tells where an estimation call failed.
type EstimationErrorKind int

const (
	// MethodMissing means the detector has no estimatePoses method.
	MethodMissing EstimationErrorKind = iota + 1
	// InvocationFailed means the call was made and the engine failed it.
	InvocationFailed
	// DecodeFailed means the engine answered with poses of the wrong shape.
	DecodeFailed
)

func (k EstimationErrorKind) String() string {
	switch k {
	case MethodMissing:
		return "method missing"
	case InvocationFailed:
		return "invocation failed"
	case DecodeFailed:
		return "decode failed"
	}
	return fmt.Sprintf("EstimationErrorKind(%d)", int(k))
}

// EstimationError is returned by Handle.Estimate.
type EstimationError struct {
	Kind EstimationErrorKind
	Err  error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("estimate poses: %s: %v", e.Kind, e.Err)
}

func (e *EstimationError) Unwrap() error { return e.Err }

// QueryError is returned by AdjacentPairs.
type QueryError struct {
	Model string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("adjacent pairs for %q: %v", e.Model, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
