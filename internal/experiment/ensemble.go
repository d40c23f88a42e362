package experiment

import (
	"context"
	"math"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/metrics"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Ensemble runs independent replica chains at a single temperature. Each
// replica owns its lattice and RNG stream, so replicas share no state.
type Ensemble struct {
	size           int
	replicas       int
	seed           int64
	mode           ising.EnergyMode
	init           InitFunc
	thermalization int
	measurement    int
}

func NewEnsemble(cfg SweepConfig, init InitFunc) *Ensemble {
	replicas := cfg.Replicas
	if replicas < 1 {
		replicas = 1
	}
	return &Ensemble{
		size:           cfg.Size,
		replicas:       replicas,
		seed:           cfg.Seed,
		mode:           cfg.Mode,
		init:           init,
		thermalization: cfg.Thermalization,
		measurement:    cfg.Measurement,
	}
}

// Stream returns the RNG stream id of a replica at a temperature index.
func (e *Ensemble) Stream(index, replica int) uint64 {
	return uint64(index*e.replicas + replica)
}

// Run thermalizes and measures every replica at temperature t. A single
// replica runs on the calling goroutine.
func (e *Ensemble) Run(ctx context.Context, index int, t float64) ([]metrics.Observables, error) {
	results := make([]metrics.Observables, e.replicas)
	if e.replicas == 1 {
		obs, err := e.runReplica(ctx, index, 0, t)
		if err != nil {
			return nil, err
		}
		results[0] = obs
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for r := 0; r < e.replicas; r++ {
		g.Go(func() error {
			obs, err := e.runReplica(gctx, index, r, t)
			if err != nil {
				return err
			}
			results[r] = obs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) runReplica(ctx context.Context, index, replica int, t float64) (metrics.Observables, error) {
	rng := ising.NewRand(e.seed, e.Stream(index, replica))
	chain, err := NewChain(e.init(e.size, rng), t, rng, e.mode)
	if err != nil {
		return metrics.Observables{}, err
	}
	if err := chain.Thermalize(ctx, e.thermalization); err != nil {
		return metrics.Observables{}, err
	}
	if err := chain.Measure(ctx, e.measurement); err != nil {
		return metrics.Observables{}, err
	}
	return chain.Observables()
}

// Combine averages replica observables and attaches standard errors of the
// mean. One replica yields zero errors.
func Combine(obs []metrics.Observables) Point {
	if len(obs) == 0 {
		return Point{}
	}
	if len(obs) == 1 {
		return Point{Observables: obs[0], StdErr: metrics.Observables{Temperature: obs[0].Temperature}, Replicas: 1}
	}

	field := func(get func(metrics.Observables) float64) (float64, float64) {
		xs := make([]float64, len(obs))
		for i, o := range obs {
			xs[i] = get(o)
		}
		mean, std := stat.MeanStdDev(xs, nil)
		return mean, std / math.Sqrt(float64(len(xs)))
	}

	var p Point
	p.Replicas = len(obs)
	p.Temperature = obs[0].Temperature
	p.StdErr.Temperature = obs[0].Temperature
	p.Energy, p.StdErr.Energy = field(func(o metrics.Observables) float64 { return o.Energy })
	p.Magnetisation, p.StdErr.Magnetisation = field(func(o metrics.Observables) float64 { return o.Magnetisation })
	p.AbsMagnetisation, p.StdErr.AbsMagnetisation = field(func(o metrics.Observables) float64 { return o.AbsMagnetisation })
	p.SpecificHeat, p.StdErr.SpecificHeat = field(func(o metrics.Observables) float64 { return o.SpecificHeat })
	p.Susceptibility, p.StdErr.Susceptibility = field(func(o metrics.Observables) float64 { return o.Susceptibility })
	p.AcceptanceRate, p.StdErr.AcceptanceRate = field(func(o metrics.Observables) float64 { return o.AcceptanceRate })
	for _, o := range obs {
		p.Samples += o.Samples
	}
	return p
}
