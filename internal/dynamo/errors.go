package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration steps.
var (
	// ErrInvalidArgument indicates a precondition violation: non-positive dt,
	// negative diffusion or a malformed state.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrDimensionMismatch indicates mismatched state, drift or Jacobian dimensions.
	ErrDimensionMismatch = fmt.Errorf("%w: dimension mismatch between state and system", ErrInvalidArgument)

	// ErrNumericInstability indicates a step produced NaN or Inf.
	ErrNumericInstability = errors.New("dynamo: numeric instability (NaN or Inf in state)")
)

// StepError wraps an error with the integration context it occurred in.
type StepError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
