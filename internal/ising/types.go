package ising

import "github.com/san-kum/ising/internal/lattice"

// Sample is the chain state right after one Metropolis update.
type Sample struct {
	Step          int
	Energy        float64
	Magnetisation float64
	Accepted      bool
	// I and J are the proposed site, flipped only when Accepted.
	I, J int
}

// Metric accumulates samples over a run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Reset()
}

// Observer sees the lattice after every update. The lattice must not be
// retained or mutated.
type Observer interface {
	OnStep(l *lattice.Lattice, s Sample)
}

// EnergyMode selects how the acceptance test obtains the energy change.
type EnergyMode string

const (
	// LocalDelta examines only the flipped site's four neighbours.
	LocalDelta EnergyMode = "local"
	// GlobalEnergy recomputes the whole-lattice energy before and after.
	GlobalEnergy EnergyMode = "global"
)

// ParseEnergyMode maps a config string to a mode. The empty string selects
// LocalDelta.
func ParseEnergyMode(s string) (EnergyMode, error) {
	switch EnergyMode(s) {
	case "", LocalDelta:
		return LocalDelta, nil
	case GlobalEnergy:
		return GlobalEnergy, nil
	}
	return "", ErrUnknownMode
}
