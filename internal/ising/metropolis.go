package ising

import (
	"fmt"
	"math"

	"github.com/san-kum/ising/internal/lattice"
)

// ProposeFlip picks a site with two independent uniform draws over [0, N)
// and returns a copy of l with that spin negated.
func ProposeFlip(l *lattice.Lattice, rng Rand) (*lattice.Lattice, int, int) {
	n := l.Size()
	i := rng.IntN(n)
	j := rng.IntN(n)
	candidate := l.Clone()
	candidate.Flip(i, j)
	return candidate, i, j
}

// AcceptanceProbability is the Boltzmann factor exp((before-after)/T).
// Downhill and neutral moves saturate at 1 instead of overflowing; any value
// of 1 already beats every draw in [0, 1).
func AcceptanceProbability(before, after, temperature float64) float64 {
	x := (before - after) / temperature
	if x >= 0 {
		return 1
	}
	return math.Exp(x)
}

// Step performs one copy-on-flip Metropolis update using whole-lattice
// energies. It returns the candidate when accepted and l itself otherwise.
func Step(l *lattice.Lattice, temperature float64, rng Rand) *lattice.Lattice {
	candidate, _, _ := ProposeFlip(l, rng)
	p := AcceptanceProbability(TotalEnergy(l), TotalEnergy(candidate), temperature)
	if p > rng.Float64() {
		return candidate
	}
	return l
}

// Sampler is an in-place Metropolis chain. It tracks energy and
// magnetisation incrementally so measuring after every step is O(1).
type Sampler struct {
	lat  *lattice.Lattice
	temp float64
	rng  Rand
	mode EnergyMode

	energy   float64
	mag      float64
	steps    int
	accepted int

	scratch *lattice.Lattice
}

func NewSampler(l *lattice.Lattice, temperature float64, rng Rand, mode EnergyMode) (*Sampler, error) {
	if l == nil || l.Size() < 1 {
		return nil, ErrInvalidSize
	}
	if !l.Valid() {
		return nil, ErrInvalidSpin
	}
	if err := ValidateTemperature(temperature); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = LocalDelta
	}
	if mode != LocalDelta && mode != GlobalEnergy {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	s := &Sampler{lat: l, temp: temperature, rng: rng, mode: mode}
	s.Reset(l)
	return s, nil
}

// Reset points the sampler at l and recomputes its observables.
func (s *Sampler) Reset(l *lattice.Lattice) {
	s.lat = l
	s.energy = TotalEnergy(l)
	s.mag = Magnetisation(l)
	s.steps = 0
	s.accepted = 0
	if s.mode == GlobalEnergy {
		s.scratch = l.Clone()
	}
}

// Step proposes one flip and applies it if the Metropolis test passes.
func (s *Sampler) Step() Sample {
	n := s.lat.Size()
	i := s.rng.IntN(n)
	j := s.rng.IntN(n)

	var before, after float64
	switch s.mode {
	case GlobalEnergy:
		s.scratch.CopyFrom(s.lat)
		s.scratch.Flip(i, j)
		before = TotalEnergy(s.lat)
		after = TotalEnergy(s.scratch)
	default:
		before = s.energy
		after = s.energy + FlipDelta(s.lat, i, j)
	}

	accepted := AcceptanceProbability(before, after, s.temp) > s.rng.Float64()
	if accepted {
		spin := s.lat.Flip(i, j)
		s.energy = after
		s.mag += 2 * float64(spin)
		s.accepted++
	}
	s.steps++

	return Sample{Step: s.steps, Energy: s.energy, Magnetisation: s.mag, Accepted: accepted, I: i, J: j}
}

func (s *Sampler) Lattice() *lattice.Lattice { return s.lat }
func (s *Sampler) Temperature() float64      { return s.temp }
func (s *Sampler) Mode() EnergyMode          { return s.mode }
func (s *Sampler) Energy() float64           { return s.energy }
func (s *Sampler) Magnetisation() float64    { return s.mag }
func (s *Sampler) Steps() int                { return s.steps }

// SetTemperature changes the bath temperature for subsequent steps.
func (s *Sampler) SetTemperature(t float64) error {
	if err := ValidateTemperature(t); err != nil {
		return err
	}
	s.temp = t
	return nil
}

// AcceptanceRate is the fraction of proposals accepted since the last Reset.
func (s *Sampler) AcceptanceRate() float64 {
	if s.steps == 0 {
		return 0
	}
	return float64(s.accepted) / float64(s.steps)
}
