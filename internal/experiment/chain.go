package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/metrics"
)

// cancelCheckInterval is how many steps run between context checks.
const cancelCheckInterval = 4096

// Phase is the lifecycle stage of a Chain.
type Phase int

const (
	PhaseInitialized Phase = iota
	PhaseThermalizing
	PhaseMeasuring
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialized:
		return "initialized"
	case PhaseThermalizing:
		return "thermalizing"
	case PhaseMeasuring:
		return "measuring"
	case PhaseFinalized:
		return "finalized"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Chain runs one lattice at one temperature through
// Initialized → Thermalizing → Measuring → Finalized.
type Chain struct {
	sampler   *ising.Sampler
	acc       *metrics.Accumulator
	metrics   []ising.Metric
	observers []ising.Observer
	phase     Phase
}

func NewChain(l *lattice.Lattice, temperature float64, rng ising.Rand, mode ising.EnergyMode) (*Chain, error) {
	s, err := ising.NewSampler(l, temperature, rng, mode)
	if err != nil {
		return nil, err
	}
	return &Chain{
		sampler: s,
		acc:     metrics.NewAccumulator(),
		phase:   PhaseInitialized,
	}, nil
}

// AddMetric registers an extra metric fed during measurement.
func (c *Chain) AddMetric(m ising.Metric)     { c.metrics = append(c.metrics, m) }
func (c *Chain) AddObserver(o ising.Observer) { c.observers = append(c.observers, o) }

func (c *Chain) Phase() Phase                      { return c.phase }
func (c *Chain) Sampler() *ising.Sampler           { return c.sampler }
func (c *Chain) Lattice() *lattice.Lattice         { return c.sampler.Lattice() }
func (c *Chain) Accumulator() *metrics.Accumulator { return c.acc }

// Thermalize runs steps updates and discards them. Zero steps is allowed.
func (c *Chain) Thermalize(ctx context.Context, steps int) error {
	if c.phase != PhaseInitialized {
		return c.phaseErr("thermalize")
	}
	c.phase = PhaseThermalizing
	for i := 0; i < steps; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return c.wrap(err)
			}
		}
		c.sampler.Step()
	}
	return nil
}

// Measure runs steps updates and measures the current lattice after each
// one, whether or not the flip was accepted.
func (c *Chain) Measure(ctx context.Context, steps int) error {
	if c.phase != PhaseThermalizing {
		return c.phaseErr("measure")
	}
	if steps < 1 {
		return c.wrap(ising.ErrNoSamples)
	}
	c.phase = PhaseMeasuring
	c.acc.Reset()
	for _, m := range c.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return c.wrap(err)
			}
		}
		s := c.sampler.Step()
		c.acc.Observe(s)
		for _, m := range c.metrics {
			m.Observe(s)
		}
		for _, o := range c.observers {
			o.OnStep(c.sampler.Lattice(), s)
		}
	}

	c.phase = PhaseFinalized
	return nil
}

// Observables returns the per-site averages once measurement is finalized.
func (c *Chain) Observables() (metrics.Observables, error) {
	if c.phase != PhaseFinalized {
		return metrics.Observables{}, c.phaseErr("read observables")
	}
	return c.acc.Observables(c.sampler.Temperature(), c.sampler.Lattice().Sites())
}

func (c *Chain) phaseErr(op string) error {
	return c.wrap(fmt.Errorf("%w: cannot %s while %s", ising.ErrPhase, op, c.phase))
}

func (c *Chain) wrap(err error) error {
	return &ising.ChainError{Temperature: c.sampler.Temperature(), Step: c.sampler.Steps(), Wrapped: err}
}
