package analysis

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func whiteNoise(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, 0))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	return x
}

func ar1(n int, phi float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, 1))
	x := make([]float64, n)
	for i := 1; i < n; i++ {
		x[i] = phi*x[i-1] + rng.NormFloat64()
	}
	return x
}

func TestAutocorrelationWhiteNoise(t *testing.T) {
	rho, err := Autocorrelation(whiteNoise(4096, 3), 20)
	if err != nil {
		t.Fatalf("autocorrelation failed: %v", err)
	}
	if len(rho) != 21 {
		t.Fatalf("expected 21 lags, got %d", len(rho))
	}
	if math.Abs(rho[0]-1) > 1e-12 {
		t.Errorf("rho[0] = %g, want 1", rho[0])
	}
	for k := 1; k < len(rho); k++ {
		if math.Abs(rho[k]) > 0.1 {
			t.Errorf("rho[%d] = %g, expected near zero", k, rho[k])
		}
	}
}

func TestAutocorrelationMatchesDirectSum(t *testing.T) {
	x := []float64{1, 3, 2, 5, 4, 4, 1, 0}
	rho, err := Autocorrelation(x, 3)
	if err != nil {
		t.Fatal(err)
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	direct := func(k int) float64 {
		s := 0.0
		for i := 0; i+k < len(x); i++ {
			s += (x[i] - mean) * (x[i+k] - mean)
		}
		return s
	}
	for k := 0; k <= 3; k++ {
		want := direct(k) / direct(0)
		if math.Abs(rho[k]-want) > 1e-9 {
			t.Errorf("rho[%d] = %g, want %g", k, rho[k], want)
		}
	}
}

func TestAutocorrelationErrors(t *testing.T) {
	if _, err := Autocorrelation([]float64{1}, 0); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}
	if _, err := Autocorrelation([]float64{2, 2, 2, 2}, 0); !errors.Is(err, ErrConstantSeries) {
		t.Errorf("expected ErrConstantSeries, got %v", err)
	}
}

func TestIntegratedTimeAR1(t *testing.T) {
	const phi = 0.9
	rho, err := Autocorrelation(ar1(200000, phi, 11), 1000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rho[1]-phi) > 0.05 {
		t.Errorf("rho[1] = %g, want about %g", rho[1], phi)
	}

	tau, window := IntegratedTime(rho, DefaultWindow)
	want := (1 + phi) / (1 - phi)
	if tau < 0.7*want || tau > 1.3*want {
		t.Errorf("tau = %g, want about %g", tau, want)
	}
	if window < 1 || float64(window) < DefaultWindow*tau-2*DefaultWindow {
		t.Errorf("window %d too small for tau %g", window, tau)
	}
}

func TestIntegratedTimeUncorrelated(t *testing.T) {
	tau, window := IntegratedTime([]float64{1, 0, 0, 0, 0, 0, 0, 0}, 5)
	if tau != 1 || window != 5 {
		t.Errorf("got tau=%g window=%d, want 1 and 5", tau, window)
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(ar1(20000, 0.8, 5), 0)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if s.N != 20000 {
		t.Errorf("expected n=20000, got %d", s.N)
	}
	if s.StdErr <= s.NaiveErr {
		t.Errorf("correlated series should have larger corrected error: %g <= %g", s.StdErr, s.NaiveErr)
	}

	c, err := Summarize([]float64{-32, -32, -32}, 0)
	if err != nil {
		t.Fatalf("constant series failed: %v", err)
	}
	if c.Mean != -32 || c.Variance != 0 || c.Tau != 1 || c.StdErr != 0 {
		t.Errorf("unexpected constant summary %+v", c)
	}
}

func TestDiscard(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	if got := Discard(x, 0.5); len(got) != 2 || got[0] != 3 {
		t.Errorf("Discard(0.5) = %v", got)
	}
	if got := Discard(x, 0); len(got) != 4 {
		t.Errorf("Discard(0) = %v", got)
	}
	if got := Discard(x, 1); len(got) != 0 {
		t.Errorf("Discard(1) = %v", got)
	}
}
