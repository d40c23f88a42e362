package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/metrics"
)

const (
	DefaultRunTemperature = 0.1
	DefaultRunSteps       = 10000
)

// RunConfig describes a single long chain kept on one lattice, recorded
// step by step for animation.
type RunConfig struct {
	Size        int
	Temperature float64
	Steps       int
	Seed        int64
	Mode        ising.EnergyMode
	Init        string
	FrameEvery  int
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Size:        DefaultSize,
		Temperature: DefaultRunTemperature,
		Steps:       DefaultRunSteps,
		Mode:        ising.LocalDelta,
		Init:        "random",
		FrameEvery:  1,
	}
}

func (c RunConfig) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("%w, got %d", ising.ErrInvalidSize, c.Size)
	}
	if err := ising.ValidateTemperature(c.Temperature); err != nil {
		return err
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: steps must be positive, got %d", ising.ErrNoSamples, c.Steps)
	}
	return nil
}

// FrameSink receives lattice snapshots. Step 0 is the initial lattice.
type FrameSink interface {
	AddFrame(step int, l *lattice.Lattice) error
}

type RunResult struct {
	Initial     *lattice.Lattice
	Final       *lattice.Lattice
	Series      *metrics.Series
	Observables metrics.Observables
	Frames      int
	Elapsed     time.Duration
}

type SingleRun struct {
	cfg      RunConfig
	registry *Registry
	sinks    []FrameSink
}

func NewSingleRun(cfg RunConfig) *SingleRun {
	return &SingleRun{cfg: cfg, registry: NewRegistry()}
}

func (r *SingleRun) AddSink(s FrameSink) { r.sinks = append(r.sinks, s) }

func (r *SingleRun) Run(ctx context.Context) (*RunResult, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	init, err := r.registry.GetInit(r.cfg.Init)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rng := ising.NewRand(r.cfg.Seed, 0)
	l := init(r.cfg.Size, rng)

	chain, err := NewChain(l, r.cfg.Temperature, rng, r.cfg.Mode)
	if err != nil {
		return nil, err
	}

	series := metrics.NewSeries(r.cfg.Steps)
	chain.AddMetric(series)

	fo := &frameObserver{sinks: r.sinks, every: r.cfg.FrameEvery}
	if err := fo.emit(0, l); err != nil {
		return nil, err
	}
	chain.AddObserver(fo)

	result := &RunResult{Initial: l.Clone(), Series: series}

	if err := chain.Thermalize(ctx, 0); err != nil {
		return nil, err
	}
	if err := chain.Measure(ctx, r.cfg.Steps); err != nil {
		return nil, err
	}
	if fo.err != nil {
		return nil, fo.err
	}

	result.Observables, err = chain.Observables()
	if err != nil {
		return nil, err
	}
	result.Final = chain.Lattice().Clone()
	result.Frames = fo.frames
	result.Elapsed = time.Since(start)
	return result, nil
}

// frameObserver forwards every n-th lattice to the sinks and keeps the
// first sink error.
type frameObserver struct {
	sinks  []FrameSink
	every  int
	frames int
	err    error
}

func (f *frameObserver) OnStep(l *lattice.Lattice, s ising.Sample) {
	if f.err != nil || len(f.sinks) == 0 {
		return
	}
	if f.every > 1 && s.Step%f.every != 0 {
		return
	}
	f.err = f.emit(s.Step, l)
}

func (f *frameObserver) emit(step int, l *lattice.Lattice) error {
	if len(f.sinks) == 0 {
		return nil
	}
	for _, sink := range f.sinks {
		if err := sink.AddFrame(step, l); err != nil {
			return fmt.Errorf("frame %d: %w", step, err)
		}
	}
	f.frames++
	return nil
}
