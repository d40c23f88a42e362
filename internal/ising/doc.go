// Package ising provides the 2D Ising model primitives used by the lab.
//
// The package defines the energy model and the single-spin-flip Metropolis
// kernel on a periodic square lattice (J = k_B = 1):
//
//   - [TotalEnergy]: -Σ s_i s_j over nearest-neighbour bonds
//   - [Magnetisation]: Σ s_i
//   - [FlipDelta]: energy change of flipping one site
//   - [Step]: copy-on-flip Metropolis update from global energies
//   - [Sampler]: in-place Metropolis chain with incremental observables
//
// # Example
//
//	rng := ising.NewRand(42, 0)
//	l := lattice.Random(16, rng)
//	s, _ := ising.NewSampler(l, 2.27, rng, ising.LocalDelta)
//	for i := 0; i < 1000; i++ {
//	    s.Step()
//	}
//
// # Determinism
//
// Every update draws two site indices and then one uniform value from the
// supplied [Rand], whether or not the flip is accepted. A [Sampler] and
// repeated [Step] calls fed the same seed therefore visit the same states.
//
// # Thread Safety
//
// Sampler instances are NOT thread-safe. Run independent chains with their
// own lattice and RNG stream.
package ising
