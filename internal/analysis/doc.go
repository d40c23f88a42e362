// Package analysis provides time-series tools for Markov chain output.
//
// Metropolis samples are correlated, so the naive standard error of a
// chain average underestimates the real uncertainty:
//
//   - [Autocorrelation]: normalised autocorrelation function via FFT
//   - [IntegratedTime]: integrated autocorrelation time with automatic windowing
//   - [Summarize]: mean, variance and the correlation-corrected error
//
// # Effective sample size
//
// A chain of n steps carries roughly n/τ independent samples:
//
//	s, err := analysis.Summarize(series.Magnetisation, 0)
//	if err == nil {
//	    fmt.Printf("M = %.3f ± %.3f (τ=%.1f)\n", s.Mean, s.StdErr, s.Tau)
//	}
package analysis
