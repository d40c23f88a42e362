// Package render turns lattices and sweep results into images.
package render

import (
	"image"
	"image/color"

	"github.com/san-kum/ising/internal/lattice"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	indexDown uint8 = iota
	indexUp
	indexAccent
	indexStrip
)

const labelHeight = 16

// Palette maps spin down to black and spin up to white, matching the
// usual greyscale rendering of Ising configurations.
var Palette = color.Palette{
	color.Black,
	color.White,
	color.RGBA{R: 0xff, G: 0x44, B: 0x44, A: 0xff},
	color.RGBA{R: 0x22, G: 0x22, B: 0x33, A: 0xff},
}

// FrameSize returns the pixel size of frames produced for an n×n lattice.
func FrameSize(n, scale int, labelled bool) (int, int) {
	if scale < 1 {
		scale = 1
	}
	w, h := n*scale, n*scale
	if labelled {
		h += labelHeight
	}
	return w, h
}

// Frame draws every spin as a scale×scale block. A non-empty label is
// written into a strip below the lattice.
func Frame(l *lattice.Lattice, scale int, label string) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	n := l.Size()
	w, h := FrameSize(n, scale, label != "")
	img := image.NewPaletted(image.Rect(0, 0, w, h), Palette)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			idx := indexDown
			if l.At(i, j) == lattice.Up {
				idx = indexUp
			}
			fill(img, j*scale, i*scale, scale, scale, idx)
		}
	}

	if label != "" {
		top := n * scale
		fill(img, 0, top, w, labelHeight, indexStrip)
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(Palette[indexUp]),
			Face: basicfont.Face7x13,
			Dot:  fixed.Point26_6{X: fixed.I(2), Y: fixed.I(top + 12)},
		}
		d.DrawString(label)
	}
	return img
}

// Highlight marks a single site with the accent colour.
func Highlight(img *image.Paletted, i, j, scale int) {
	fill(img, j*scale, i*scale, scale, scale, indexAccent)
}

func fill(img *image.Paletted, x0, y0, w, h int, idx uint8) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.SetColorIndex(x, y, idx)
		}
	}
}
