package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the Sokal window constant c in M ≥ c·τ(M).
const DefaultWindow = 5.0

var (
	ErrShortSeries    = errors.New("analysis: series needs at least two samples")
	ErrConstantSeries = errors.New("analysis: series has zero variance")
)

// Autocorrelation returns ρ(0..maxLag) of x. The series is mean-subtracted
// and zero-padded to avoid circular wrap. maxLag <= 0 or beyond the series
// is clamped to len(x)-1.
func Autocorrelation(x []float64, maxLag int) ([]float64, error) {
	n := len(x)
	if n < 2 {
		return nil, ErrShortSeries
	}
	if maxLag <= 0 || maxLag >= n {
		maxLag = n - 1
	}

	mean := stat.Mean(x, nil)
	padded := make([]float64, nextPow2(2*n))
	for i, v := range x {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	for i, c := range spectrum {
		a := cmplx.Abs(c)
		spectrum[i] = complex(a*a, 0)
	}
	acf := fft.IFFT(spectrum)

	c0 := real(acf[0])
	if c0 <= 0 || math.IsNaN(c0) {
		return nil, ErrConstantSeries
	}
	rho := make([]float64, maxLag+1)
	for k := range rho {
		rho[k] = real(acf[k]) / c0
	}
	return rho, nil
}

// IntegratedTime computes τ = 1 + 2·Σρ(k), summing until the window M
// satisfies M ≥ c·τ(M). It returns τ and the window used.
func IntegratedTime(rho []float64, c float64) (float64, int) {
	if c <= 0 {
		c = DefaultWindow
	}
	tau := 1.0
	for m := 1; m < len(rho); m++ {
		tau += 2 * rho[m]
		if float64(m) >= c*tau {
			return math.Max(tau, 1), m
		}
	}
	return math.Max(tau, 1), len(rho) - 1
}

type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Tau      float64 `json:"tau"`
	Window   int     `json:"window"`
	// NaiveErr treats every sample as independent; StdErr corrects for τ.
	NaiveErr float64 `json:"naive_err"`
	StdErr   float64 `json:"std_err"`
}

// Summarize estimates the mean of a correlated series and its error.
// A constant series has τ=1 and zero error.
func Summarize(x []float64, maxLag int) (Summary, error) {
	if len(x) < 2 {
		return Summary{}, ErrShortSeries
	}
	mean, variance := stat.MeanVariance(x, nil)
	s := Summary{N: len(x), Mean: mean, Variance: variance, Tau: 1}

	rho, err := Autocorrelation(x, maxLag)
	switch {
	case errors.Is(err, ErrConstantSeries):
		return s, nil
	case err != nil:
		return Summary{}, err
	}

	s.Tau, s.Window = IntegratedTime(rho, DefaultWindow)
	n := float64(len(x))
	s.NaiveErr = math.Sqrt(variance / n)
	s.StdErr = math.Sqrt(variance * s.Tau / n)
	return s, nil
}

// Discard drops the leading fraction of a series, typically the part
// before the chain reached equilibrium.
func Discard(x []float64, fraction float64) []float64 {
	if fraction <= 0 {
		return x
	}
	if fraction >= 1 {
		return x[:0]
	}
	return x[int(fraction*float64(len(x))):]
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
