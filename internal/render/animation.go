package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/icza/mjpeg"
	"github.com/san-kum/ising/internal/lattice"
)

const (
	FormatNone  = "none"
	FormatGIF   = "gif"
	FormatMJPEG = "mjpeg"
	FormatPNG   = "png"
)

var ErrUnknownFormat = errors.New("render: unknown animation format")

// Animation collects lattice frames. It satisfies experiment.FrameSink.
type Animation interface {
	AddFrame(step int, l *lattice.Lattice) error
	Close() error
	Path() string
}

type Options struct {
	Scale       int
	FPS         int
	Temperature float64
	// Label adds a "T=… step …" strip under every frame.
	Label bool
}

func (o Options) withDefaults() Options {
	if o.Scale < 1 {
		o.Scale = 1
	}
	if o.FPS < 1 {
		o.FPS = 30
	}
	return o
}

func (o Options) label(step int, t float64) string {
	if !o.Label {
		return ""
	}
	return fmt.Sprintf("T=%.2f step %d", t, step)
}

// Mark annotates a single frame. Temperature replaces Options.Temperature
// in the label, and when Flipped is set site (I, J) is drawn in the accent
// colour.
type Mark struct {
	Temperature float64
	Flipped     bool
	I, J        int
}

// FileName returns the conventional artifact name for a format.
func FileName(format string) string {
	switch format {
	case FormatGIF:
		return "lattice.gif"
	case FormatMJPEG:
		return "lattice.avi"
	case FormatPNG:
		return "frames"
	}
	return ""
}

// NewAnimation opens a writer for format at path. Frames must come from
// lattices of size n.
func NewAnimation(format, path string, n int, opts Options) (Animation, error) {
	opts = opts.withDefaults()
	switch format {
	case FormatGIF:
		return NewGIFWriter(path, opts), nil
	case FormatMJPEG:
		return NewMJPEGWriter(path, n, opts)
	case FormatPNG:
		return NewPNGWriter(path, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// GIFWriter buffers paletted frames and encodes them on Close.
type GIFWriter struct {
	path string
	opts Options
	anim gif.GIF
}

func NewGIFWriter(path string, opts Options) *GIFWriter {
	return &GIFWriter{path: path, opts: opts.withDefaults(), anim: gif.GIF{LoopCount: 0}}
}

func (g *GIFWriter) AddFrame(step int, l *lattice.Lattice) error {
	return g.AddMarkedFrame(step, l, Mark{Temperature: g.opts.Temperature})
}

// AddMarkedFrame appends a frame labelled and highlighted according to mk.
func (g *GIFWriter) AddMarkedFrame(step int, l *lattice.Lattice, mk Mark) error {
	delay := 100 / g.opts.FPS
	if delay < 1 {
		delay = 1
	}
	img := Frame(l, g.opts.Scale, g.opts.label(step, mk.Temperature))
	if mk.Flipped {
		i, j := l.Wrap(mk.I, mk.J)
		Highlight(img, i, j, g.opts.Scale)
	}
	g.anim.Image = append(g.anim.Image, img)
	g.anim.Delay = append(g.anim.Delay, delay)
	return nil
}

func (g *GIFWriter) Frames() int { return len(g.anim.Image) }

func (g *GIFWriter) Close() error {
	if len(g.anim.Image) == 0 {
		return nil
	}
	f, err := os.Create(g.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &g.anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (g *GIFWriter) Path() string { return g.path }

// MJPEGWriter streams JPEG frames into an AVI container.
type MJPEGWriter struct {
	path   string
	opts   Options
	writer mjpeg.AviWriter
	buf    bytes.Buffer
}

func NewMJPEGWriter(path string, n int, opts Options) (*MJPEGWriter, error) {
	opts = opts.withDefaults()
	w, h := FrameSize(n, opts.Scale, opts.Label)
	aw, err := mjpeg.New(path, int32(w), int32(h), int32(opts.FPS))
	if err != nil {
		return nil, err
	}
	return &MJPEGWriter{path: path, opts: opts, writer: aw}, nil
}

func (m *MJPEGWriter) AddFrame(step int, l *lattice.Lattice) error {
	m.buf.Reset()
	img := Frame(l, m.opts.Scale, m.opts.label(step, m.opts.Temperature))
	if err := jpeg.Encode(&m.buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return err
	}
	return m.writer.AddFrame(m.buf.Bytes())
}

func (m *MJPEGWriter) Close() error { return m.writer.Close() }

func (m *MJPEGWriter) Path() string { return m.path }

// PNGWriter writes one numbered PNG per frame into a directory.
type PNGWriter struct {
	dir  string
	opts Options
}

func NewPNGWriter(dir string, opts Options) (*PNGWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGWriter{dir: dir, opts: opts.withDefaults()}, nil
}

func (p *PNGWriter) AddFrame(step int, l *lattice.Lattice) error {
	f, err := os.Create(filepath.Join(p.dir, fmt.Sprintf("frame_%06d.png", step)))
	if err != nil {
		return err
	}
	if err := png.Encode(f, Frame(l, p.opts.Scale, p.opts.label(step, p.opts.Temperature))); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *PNGWriter) Close() error { return nil }

func (p *PNGWriter) Path() string { return p.dir }
