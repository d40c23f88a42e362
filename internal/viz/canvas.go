package viz

import (
	"strings"

	"github.com/san-kum/ising/internal/lattice"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas packs a 2x4 block of sub-pixels into every terminal cell, so a
// 64×64 lattice fits in 32 columns and 16 rows.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// NewLatticeCanvas sizes a canvas to hold one dot per site of an n×n lattice.
func NewLatticeCanvas(n int) *Canvas {
	return NewCanvas((n+1)/2, (n+3)/4)
}

// Set lights a sub-pixel. The canvas size in sub-pixels is
// (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLattice lights one dot for every up spin. Row i of the lattice is
// sub-pixel row i.
func (c *Canvas) DrawLattice(l *lattice.Lattice) {
	c.Clear()
	n := l.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if l.At(i, j) == lattice.Up {
				c.Set(j, i)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
