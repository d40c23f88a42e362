package ising

import "github.com/san-kum/ising/internal/lattice"

// TotalEnergy sums s·(up+down+left+right) over every site with periodic
// boundaries, negates it and halves it so each bond is counted once.
func TotalEnergy(l *lattice.Lattice) float64 {
	n := l.Size()
	spins := l.Spins()
	sum := 0
	for i := 0; i < n; i++ {
		up := ((i-1)%n + n) % n
		down := (i + 1) % n
		for j := 0; j < n; j++ {
			left := ((j-1)%n + n) % n
			right := (j + 1) % n
			s := int(spins[i*n+j])
			sum += s * int(spins[up*n+j]+spins[down*n+j]+spins[i*n+left]+spins[i*n+right])
		}
	}
	return -float64(sum) / 2
}

// Magnetisation returns the sum of all spins.
func Magnetisation(l *lattice.Lattice) float64 {
	m := 0
	for _, s := range l.Spins() {
		m += int(s)
	}
	return float64(m)
}

// FlipDelta returns E(after) - E(before) for flipping the spin at (i, j).
// A 1×1 lattice is its own neighbour, so flipping it never changes the energy.
func FlipDelta(l *lattice.Lattice, i, j int) float64 {
	if l.Size() == 1 {
		return 0
	}
	return float64(2 * int(l.At(i, j)) * neighbourSum(l, i, j))
}

func neighbourSum(l *lattice.Lattice, i, j int) int {
	return int(l.At(i-1, j)) + int(l.At(i+1, j)) + int(l.At(i, j-1)) + int(l.At(i, j+1))
}
