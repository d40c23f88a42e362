package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/metrics"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultSize           = 16
	DefaultTMin           = 1.0
	DefaultTMax           = 4.0
	DefaultPoints         = 150
	DefaultThermalization = 5000
	DefaultMeasurement    = 400000
)

type SweepConfig struct {
	Size           int
	Temperatures   []float64
	Thermalization int
	Measurement    int
	Replicas       int
	Seed           int64
	Mode           ising.EnergyMode
	Init           string
}

// DefaultSweepConfig reproduces the reference experiment: a 16×16 lattice
// at 150 temperatures between 1 and 4, 5000 thermalization and 400000
// measurement steps each.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Size:           DefaultSize,
		Temperatures:   Linspace(DefaultTMin, DefaultTMax, DefaultPoints),
		Thermalization: DefaultThermalization,
		Measurement:    DefaultMeasurement,
		Replicas:       1,
		Mode:           ising.LocalDelta,
		Init:           "random",
	}
}

func (c SweepConfig) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("%w, got %d", ising.ErrInvalidSize, c.Size)
	}
	if len(c.Temperatures) == 0 {
		return fmt.Errorf("sweep needs at least one temperature")
	}
	for _, t := range c.Temperatures {
		if err := ising.ValidateTemperature(t); err != nil {
			return err
		}
	}
	if c.Thermalization < 0 {
		return fmt.Errorf("thermalization steps must be non-negative, got %d", c.Thermalization)
	}
	if c.Measurement < 1 {
		return fmt.Errorf("%w: measurement steps must be positive, got %d", ising.ErrNoSamples, c.Measurement)
	}
	if c.Replicas < 1 {
		return fmt.Errorf("replicas must be positive, got %d", c.Replicas)
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Point is the sweep record at one temperature: the replica mean and its
// standard error.
type Point struct {
	metrics.Observables
	StdErr   metrics.Observables `json:"stderr"`
	Replicas int                 `json:"replicas"`
}

type SweepResult struct {
	Points     []Point
	CurieIndex int
	Curie      float64
	Elapsed    time.Duration
}

func (r *SweepResult) column(get func(Point) float64) []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = get(p)
	}
	return out
}

func (r *SweepResult) Temperatures() []float64 {
	return r.column(func(p Point) float64 { return p.Temperature })
}
func (r *SweepResult) Energies() []float64 {
	return r.column(func(p Point) float64 { return p.Energy })
}
func (r *SweepResult) Magnetisations() []float64 {
	return r.column(func(p Point) float64 { return p.Magnetisation })
}
func (r *SweepResult) SpecificHeats() []float64 {
	return r.column(func(p Point) float64 { return p.SpecificHeat })
}
func (r *SweepResult) Susceptibilities() []float64 {
	return r.column(func(p Point) float64 { return p.Susceptibility })
}

// SweepObserver is notified after each temperature completes.
type SweepObserver interface {
	OnTemperature(index, total int, p Point)
}

// Sweep drives a chain (or replica ensemble) through every temperature in
// order. Each temperature starts from a freshly drawn lattice.
type Sweep struct {
	cfg       SweepConfig
	registry  *Registry
	observers []SweepObserver
}

func NewSweep(cfg SweepConfig) *Sweep {
	return &Sweep{cfg: cfg, registry: NewRegistry()}
}

func (s *Sweep) AddObserver(o SweepObserver) { s.observers = append(s.observers, o) }

func (s *Sweep) Config() SweepConfig { return s.cfg }

func (s *Sweep) Run(ctx context.Context) (*SweepResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	init, err := s.registry.GetInit(s.cfg.Init)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ens := NewEnsemble(s.cfg, init)
	total := len(s.cfg.Temperatures)
	result := &SweepResult{Points: make([]Point, 0, total)}

	for i, t := range s.cfg.Temperatures {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		obs, err := ens.Run(ctx, i, t)
		if err != nil {
			return result, fmt.Errorf("temperature %d/%d: %w", i+1, total, err)
		}
		p := Combine(obs)
		result.Points = append(result.Points, p)

		for _, o := range s.observers {
			o.OnTemperature(i, total, p)
		}
	}

	result.Curie, result.CurieIndex, err = CurieTemperature(result.Temperatures(), result.SpecificHeats())
	if err != nil {
		return result, err
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// CurieTemperature returns the temperature at the specific-heat peak. Ties
// resolve to the first maximum.
func CurieTemperature(temps, heat []float64) (float64, int, error) {
	if len(temps) == 0 || len(temps) != len(heat) {
		return 0, -1, fmt.Errorf("curie estimate needs matching non-empty series (got %d temperatures, %d values)", len(temps), len(heat))
	}
	idx := floats.MaxIdx(heat)
	return temps[idx], idx, nil
}
