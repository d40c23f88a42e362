package ising

import "math/rand/v2"

// Rand is the random source consumed by the Metropolis kernel. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a deterministic PCG generator. Distinct stream values give
// independent sequences for the same seed.
func NewRand(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}
