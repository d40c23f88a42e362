package ising

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for lattice simulation.
var (
	// ErrInvalidTemperature indicates a temperature that is not strictly
	// positive and finite.
	ErrInvalidTemperature = errors.New("ising: temperature must be positive and finite")

	// ErrInvalidSize indicates a lattice side length below one.
	ErrInvalidSize = errors.New("ising: lattice size must be at least 1")

	// ErrInvalidSpin indicates a lattice cell outside {-1, +1}.
	ErrInvalidSpin = errors.New("ising: lattice holds a spin outside {-1, +1}")

	// ErrNoSamples indicates observables were requested without measurements.
	ErrNoSamples = errors.New("ising: no measurement samples")

	// ErrPhase indicates a chain operation requested out of order.
	ErrPhase = errors.New("ising: operation not allowed in current phase")

	// ErrUnknownMode indicates an unrecognised energy evaluation mode.
	ErrUnknownMode = errors.New("ising: unknown energy mode")
)

// ChainError wraps an error with the temperature and step it occurred at.
type ChainError struct {
	Temperature float64
	Step        int
	Wrapped     error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("T=%.4f step %d: %v", e.Temperature, e.Step, e.Wrapped)
}

func (e *ChainError) Unwrap() error {
	return e.Wrapped
}

// ValidateTemperature returns ErrInvalidTemperature unless 0 < t < +Inf.
func ValidateTemperature(t float64) error {
	if !(t > 0) || math.IsInf(t, 1) {
		return fmt.Errorf("%w, got %g", ErrInvalidTemperature, t)
	}
	return nil
}
