package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OnsagerTc is the exact critical temperature of the infinite square
// lattice, 2/ln(1+√2).
var OnsagerTc = 2 / math.Log(1+math.Sqrt2)

// Styles is the lipgloss style set derived from a Theme.
type Styles struct {
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	KeyHint   lipgloss.Style
	Panel     lipgloss.Style
	Curie     lipgloss.Style
	Ordered   lipgloss.Style
	Disorder  lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Subtle:    lipgloss.NewStyle().Foreground(t.Muted),
		Running:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Muted),
		Recording: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")),
		Label:     lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		Value:     lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		KeyHint:   lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Curie:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Ordered:  lipgloss.NewStyle().Bold(true).Foreground(t.Up),
		Disorder: lipgloss.NewStyle().Bold(true).Foreground(t.Down),
	}
}

// Metric renders a label/value pair on one line.
func (s Styles) Metric(label, value string) string {
	return s.Label.Render(label) + s.Value.Render(value)
}

// Temperature colours t by which side of OnsagerTc it lies on.
func (s Styles) Temperature(t float64, text string) string {
	if t < OnsagerTc {
		return s.Ordered.Render(text)
	}
	return s.Disorder.Render(text)
}

// ProgressBar renders a bar of the given width for a completion fraction
// in [0, 1].
func (s Styles) ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	return s.Title.Render(strings.Repeat("█", filled)) + s.Subtle.Render(strings.Repeat("░", width-filled))
}
