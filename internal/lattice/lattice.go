package lattice

import (
	"fmt"
	"strings"
)

const (
	Up   int8 = 1
	Down int8 = -1
)

// Source is the slice of a random generator needed to draw spins.
type Source interface {
	IntN(n int) int
}

// Lattice is an N×N grid of ±1 spins stored row-major with toroidal wrapping.
type Lattice struct {
	n     int
	spins []int8
}

// New allocates an N×N lattice with every spin up.
func New(n int) *Lattice {
	return Uniform(n, Up)
}

func Uniform(n int, s int8) *Lattice {
	if n <= 0 {
		n = 1
	}
	if s != Down {
		s = Up
	}
	l := &Lattice{n: n, spins: make([]int8, n*n)}
	for i := range l.spins {
		l.spins[i] = s
	}
	return l
}

// Random draws every spin independently and uniformly from {-1, +1}.
func Random(n int, src Source) *Lattice {
	l := New(n)
	for i := range l.spins {
		l.spins[i] = int8(src.IntN(2)*2 - 1)
	}
	return l
}

// Checkerboard returns the antiferromagnetic ground state pattern.
func Checkerboard(n int) *Lattice {
	l := New(n)
	for i := 0; i < l.n; i++ {
		for j := 0; j < l.n; j++ {
			if (i+j)%2 == 1 {
				l.spins[i*l.n+j] = Down
			}
		}
	}
	return l
}

// Parse builds a lattice from rows of '+' and '-' characters.
func Parse(rows ...string) (*Lattice, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("lattice: no rows")
	}
	l := New(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("lattice: row %d has %d columns, want %d", i, len(row), n)
		}
		for j, c := range row {
			switch c {
			case '+':
				l.spins[i*n+j] = Up
			case '-':
				l.spins[i*n+j] = Down
			default:
				return nil, fmt.Errorf("lattice: invalid spin %q at (%d,%d)", c, i, j)
			}
		}
	}
	return l, nil
}

// Size returns N.
func (l *Lattice) Size() int { return l.n }

// Sites returns N².
func (l *Lattice) Sites() int { return len(l.spins) }

// Spins exposes the backing slice so callers can read values directly.
func (l *Lattice) Spins() []int8 { return l.spins }

// Wrap applies toroidal wrapping to the provided coordinates.
func (l *Lattice) Wrap(i, j int) (int, int) {
	i = (i%l.n + l.n) % l.n
	j = (j%l.n + l.n) % l.n
	return i, j
}

// At returns the spin at (i, j) after periodic wrapping.
func (l *Lattice) At(i, j int) int8 {
	i, j = l.Wrap(i, j)
	return l.spins[i*l.n+j]
}

func (l *Lattice) Set(i, j int, s int8) {
	i, j = l.Wrap(i, j)
	l.spins[i*l.n+j] = s
}

// Flip negates the spin at (i, j) and returns its new value.
func (l *Lattice) Flip(i, j int) int8 {
	i, j = l.Wrap(i, j)
	idx := i*l.n + j
	l.spins[idx] = -l.spins[idx]
	return l.spins[idx]
}

func (l *Lattice) Clone() *Lattice {
	c := &Lattice{n: l.n, spins: make([]int8, len(l.spins))}
	copy(c.spins, l.spins)
	return c
}

// CopyFrom overwrites l with src. Both lattices must have the same size.
func (l *Lattice) CopyFrom(src *Lattice) {
	if src.n != l.n {
		l.n = src.n
		l.spins = make([]int8, len(src.spins))
	}
	copy(l.spins, src.spins)
}

// Diff counts the sites where l and o disagree. Lattices of different size
// differ everywhere.
func (l *Lattice) Diff(o *Lattice) int {
	if o == nil || o.n != l.n {
		return len(l.spins)
	}
	d := 0
	for i := range l.spins {
		if l.spins[i] != o.spins[i] {
			d++
		}
	}
	return d
}

func (l *Lattice) Equal(o *Lattice) bool { return l.Diff(o) == 0 }

// Valid reports whether every site holds exactly -1 or +1.
func (l *Lattice) Valid() bool {
	for _, s := range l.spins {
		if s != Up && s != Down {
			return false
		}
	}
	return true
}

func (l *Lattice) String() string {
	var sb strings.Builder
	for i := 0; i < l.n; i++ {
		for j := 0; j < l.n; j++ {
			if l.spins[i*l.n+j] == Up {
				sb.WriteByte('+')
			} else {
				sb.WriteByte('-')
			}
		}
		if i < l.n-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
