package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/render"
)

const (
	historyCapacity = 600
	// blockLimit is the largest lattice drawn with two-character blocks;
	// bigger ones fall back to the Braille canvas.
	blockLimit   = 40
	maxPerTick   = 1 << 20
	tickInterval = time.Second / 30
)

type TickMsg time.Time

type WatchConfig struct {
	Size         int
	Temperature  float64
	Seed         int64
	Mode         ising.EnergyMode
	Init         string
	StepsPerTick int
	GIFPath      string
	GIFScale     int
}

// Model runs one Metropolis chain and redraws it on every tick.
type Model struct {
	cfg      WatchConfig
	init     experiment.InitFunc
	rng      ising.Rand
	sampler  *ising.Sampler
	canvas   *Canvas
	perTick  int
	running  bool
	showHelp bool

	energyHistory []float64
	magHistory    []float64

	recorder *render.GIFWriter
	status   string
}

func NewModel(cfg WatchConfig) (*Model, error) {
	if cfg.StepsPerTick < 1 {
		cfg.StepsPerTick = cfg.Size * cfg.Size
	}
	if cfg.GIFPath == "" {
		cfg.GIFPath = "ising.gif"
	}
	if cfg.GIFScale < 1 {
		cfg.GIFScale = 8
	}
	init, err := experiment.NewRegistry().GetInit(cfg.Init)
	if err != nil {
		return nil, err
	}
	rng := ising.NewRand(cfg.Seed, 0)
	sampler, err := ising.NewSampler(init(cfg.Size, rng), cfg.Temperature, rng, cfg.Mode)
	if err != nil {
		return nil, err
	}

	return &Model{
		cfg:           cfg,
		init:          init,
		rng:           rng,
		sampler:       sampler,
		canvas:        NewLatticeCanvas(cfg.Size),
		perTick:       cfg.StepsPerTick,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		magHistory:    make([]float64, 0, historyCapacity),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			m.adjustTemperature(1.05)
		case "down", "j":
			m.adjustTemperature(0.95)
		case "+", "=":
			if m.perTick < maxPerTick {
				m.perTick *= 2
			}
		case "-", "_":
			if m.perTick > 1 {
				m.perTick /= 2
			}
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.recorder = render.NewGIFWriter(m.cfg.GIFPath, render.Options{
					Scale: m.cfg.GIFScale,
					FPS:   30,
					Label: true,
				})
				m.status = "recording"
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.perTick)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs n Metropolis steps and records the per-site observables.
// Recorded frames carry the current temperature and the last flipped site.
func (m *Model) advance(n int) {
	var s ising.Sample
	mark := render.Mark{Temperature: m.sampler.Temperature()}
	for i := 0; i < n; i++ {
		s = m.sampler.Step()
		if s.Accepted {
			mark.Flipped, mark.I, mark.J = true, s.I, s.J
		}
	}
	sites := float64(m.sampler.Lattice().Sites())
	m.energyHistory = appendCapped(m.energyHistory, s.Energy/sites)
	m.magHistory = appendCapped(m.magHistory, s.Magnetisation/sites)

	if m.recorder != nil {
		if err := m.recorder.AddMarkedFrame(m.sampler.Steps(), m.sampler.Lattice(), mark); err != nil {
			m.status = "record failed: " + err.Error()
			m.recorder = nil
		}
	}
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) adjustTemperature(factor float64) {
	if err := m.sampler.SetTemperature(m.sampler.Temperature() * factor); err != nil {
		m.status = err.Error()
	}
}

// reset draws a fresh initial lattice and clears the history. The
// temperature is kept.
func (m *Model) reset() {
	m.sampler.Reset(m.init(m.cfg.Size, m.rng))
	m.energyHistory = m.energyHistory[:0]
	m.magHistory = m.magHistory[:0]
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	frames := m.recorder.Frames()
	if err := m.recorder.Close(); err != nil {
		m.status = "save failed: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", frames, m.recorder.Path())
	}
	m.recorder = nil
}

func (m *Model) Sampler() *ising.Sampler { return m.sampler }
func (m *Model) StepsPerTick() int       { return m.perTick }
func (m *Model) Running() bool           { return m.running }
func (m *Model) Recording() bool         { return m.recorder != nil }
func (m *Model) Status() string          { return m.status }

// latticeView draws small lattices as coloured blocks and larger ones on
// the Braille canvas.
func (m *Model) latticeView() string {
	l := m.sampler.Lattice()
	if l.Size() > blockLimit {
		m.canvas.DrawLattice(l)
		return lipgloss.NewStyle().Foreground(CurrentTheme.Up).Render(m.canvas.String())
	}

	up := lipgloss.NewStyle().Background(CurrentTheme.Up).Render("  ")
	down := lipgloss.NewStyle().Background(CurrentTheme.Down).Render("  ")
	var b strings.Builder
	n := l.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if l.At(i, j) == lattice.Up {
				b.WriteString(up)
			} else {
				b.WriteString(down)
			}
		}
		if i < n-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) View() string {
	st := CurrentTheme.Styles()
	var s strings.Builder
	s.WriteString(st.Title.Render(fmt.Sprintf("ISING %d×%d", m.cfg.Size, m.cfg.Size)) + "\n")

	switch {
	case m.recorder != nil:
		s.WriteString(st.Recording.Render("● REC") + "\n\n")
	case m.running:
		s.WriteString(st.Running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.Paused.Render("PAUSED") + "\n\n")
	}

	t := m.sampler.Temperature()
	sites := float64(m.sampler.Lattice().Sites())
	s.WriteString(st.Label.Render("T") + st.Temperature(t, fmt.Sprintf("%.4f", t)) + "\n")
	s.WriteString(st.Metric("steps", fmt.Sprintf("%d (+%d)", m.sampler.Steps(), m.perTick)) + "\n")
	s.WriteString(st.Metric("E/site", fmt.Sprintf("%+.4f", m.sampler.Energy()/sites)) + "\n")
	s.WriteString(st.Metric("M/site", fmt.Sprintf("%+.4f", m.sampler.Magnetisation()/sites)) + "\n")
	s.WriteString(st.Metric("accept", fmt.Sprintf("%.3f", m.sampler.AcceptanceRate())) + "\n")
	s.WriteString(st.Metric("energy", string(m.sampler.Mode())) + "\n")
	s.WriteString(st.Subtle.Render(fmt.Sprintf("Tc(∞) = %.4f", OnsagerTc)) + "\n")

	if len(m.magHistory) > 1 {
		s.WriteString("\n" + asciigraph.Plot(m.magHistory, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("M/site")) + "\n")
		s.WriteString("\n" + asciigraph.Plot(m.energyHistory, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("E/site")) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + st.Subtle.Render(m.status) + "\n")
	}
	s.WriteString(st.KeyHint.Render("\nSP:Pause R:Reset Q:Quit\n↑↓:Temp +-:Speed G:Record T:Theme ?:Help"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, st.Panel.Render(m.latticeView()), st.Panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

const helpText = `
  Space    - Pause/Resume chain
  R        - Redraw initial lattice
  Q        - Quit
  Up/K     - Raise temperature (+5%)
  Down/J   - Lower temperature (-5%)
  +/-      - Double/halve steps per frame
  G        - Toggle GIF recording
  T        - Cycle themes
  ?        - Toggle this help
`
