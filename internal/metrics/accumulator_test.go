package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
)

func TestAccumulatorKnownValues(t *testing.T) {
	a := NewAccumulator()
	a.Observe(ising.Sample{Energy: -4, Magnetisation: 2, Accepted: true})
	a.Observe(ising.Sample{Energy: -8, Magnetisation: -2})

	obs, err := a.Observables(2, 4)
	if err != nil {
		t.Fatalf("observables failed: %v", err)
	}

	tests := []struct {
		name      string
		got, want float64
	}{
		{"energy", obs.Energy, -1.5},
		{"magnetisation", obs.Magnetisation, 0},
		{"abs magnetisation", obs.AbsMagnetisation, 0.5},
		{"specific heat", obs.SpecificHeat, 0.25},
		{"susceptibility", obs.Susceptibility, 0.5},
		{"acceptance", obs.AcceptanceRate, 0.5},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if obs.Samples != 2 {
		t.Errorf("samples = %d, want 2", obs.Samples)
	}
}

func TestAccumulatorConstantSeriesHasZeroFluctuation(t *testing.T) {
	a := NewAccumulator()
	for i := 0; i < 1000; i++ {
		a.Observe(ising.Sample{Energy: -512, Magnetisation: 256})
	}
	obs, err := a.Observables(0.37, 256)
	if err != nil {
		t.Fatal(err)
	}
	if obs.SpecificHeat != 0 || obs.Susceptibility != 0 {
		t.Errorf("expected zero fluctuations, got C=%v X=%v", obs.SpecificHeat, obs.Susceptibility)
	}
}

func TestAccumulatorNonNegativeOnChain(t *testing.T) {
	for _, temp := range []float64{0.5, 1.5, 2.27, 3.5} {
		rng := ising.NewRand(21, 0)
		s, err := ising.NewSampler(lattice.Random(6, rng), temp, rng, ising.LocalDelta)
		if err != nil {
			t.Fatal(err)
		}
		a := NewAccumulator()
		for i := 0; i < 5000; i++ {
			a.Observe(s.Step())
		}
		obs, err := a.Observables(temp, 36)
		if err != nil {
			t.Fatal(err)
		}
		if obs.SpecificHeat < 0 || obs.Susceptibility < 0 {
			t.Errorf("T=%v: negative fluctuation C=%v X=%v", temp, obs.SpecificHeat, obs.Susceptibility)
		}
		if obs.Energy < -2 || obs.Energy > 2 {
			t.Errorf("T=%v: energy per site %v out of range", temp, obs.Energy)
		}
	}
}

func TestAccumulatorErrors(t *testing.T) {
	a := NewAccumulator()
	if _, err := a.Observables(1, 4); !errors.Is(err, ising.ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	a.Observe(ising.Sample{Energy: 1})
	if _, err := a.Observables(0, 4); !errors.Is(err, ising.ErrInvalidTemperature) {
		t.Errorf("expected ErrInvalidTemperature, got %v", err)
	}
	if _, err := a.Observables(1, 0); !errors.Is(err, ising.ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestAccumulatorReset(t *testing.T) {
	a := NewAccumulator()
	a.Observe(ising.Sample{Energy: -4, Magnetisation: 4})
	a.Reset()
	if a.Count() != 0 {
		t.Error("expected zero count after reset")
	}
	e, m, e2, m2 := a.Sums()
	if e != 0 || m != 0 || e2 != 0 || m2 != 0 {
		t.Error("expected zero sums after reset")
	}
}

func TestSeries(t *testing.T) {
	s := NewSeries(4)
	s.Observe(ising.Sample{Step: 1, Energy: -8, Magnetisation: 4, Accepted: true})
	s.Observe(ising.Sample{Step: 2, Energy: -8, Magnetisation: 4})
	if s.Len() != 2 || s.Accepted != 1 {
		t.Errorf("unexpected series state: len=%d accepted=%d", s.Len(), s.Accepted)
	}
	per := PerSite(s.Energy, 4)
	if per[0] != -2 {
		t.Errorf("PerSite = %v", per)
	}
	s.Reset()
	if s.Len() != 0 || s.Accepted != 0 {
		t.Error("series not reset")
	}
}
