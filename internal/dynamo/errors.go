package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration that cannot produce a valid simulation.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrPlacement indicates non-overlapping initial positions could not be found.
	ErrPlacement = errors.New("dynamo: could not place bodies without overlap")

	// ErrInvalidState indicates a body position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepLimit indicates maxSteps was not a positive number.
	ErrStepLimit = errors.New("dynamo: step limit must be positive")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
