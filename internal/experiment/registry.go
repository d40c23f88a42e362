package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
)

// InitFunc builds the starting lattice of a chain.
type InitFunc func(n int, rng ising.Rand) *lattice.Lattice

type Registry struct {
	inits map[string]InitFunc
}

func NewRegistry() *Registry {
	r := &Registry{inits: make(map[string]InitFunc)}

	r.inits["random"] = func(n int, rng ising.Rand) *lattice.Lattice { return lattice.Random(n, rng) }
	r.inits["up"] = func(n int, _ ising.Rand) *lattice.Lattice { return lattice.Uniform(n, lattice.Up) }
	r.inits["down"] = func(n int, _ ising.Rand) *lattice.Lattice { return lattice.Uniform(n, lattice.Down) }
	r.inits["checkerboard"] = func(n int, _ ising.Rand) *lattice.Lattice { return lattice.Checkerboard(n) }

	return r
}

// GetInit returns the named initial condition. The empty name selects random.
func (r *Registry) GetInit(name string) (InitFunc, error) {
	if name == "" {
		name = "random"
	}
	fn, ok := r.inits[name]
	if !ok {
		return nil, fmt.Errorf("unknown initial lattice: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListInits() []string {
	names := make([]string, 0, len(r.inits))
	for name := range r.inits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
