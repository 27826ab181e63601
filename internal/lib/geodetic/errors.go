package geodetic

import (
	"errors"
	"fmt"
)

var (
	// ErrConvergenceFailure is returned when a Vincenty iteration exceeds its cap
	ErrConvergenceFailure = errors.New("vincenty iteration did not converge")

	// ErrMixedCoordinateSystems is returned when two coordinates carry different systems
	ErrMixedCoordinateSystems = errors.New("coordinates use different coordinate systems")

	// ErrInvalidCoordinate is returned for NaN, infinite or out of range input
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// ConvergenceError records which problem failed to converge and after how many iterations
type ConvergenceError struct {
	Problem    string
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s problem: %v after %d iterations", e.Problem, ErrConvergenceFailure, e.Iterations)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergenceFailure
}
