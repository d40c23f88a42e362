package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the two spin states and the surrounding panel.
type Theme struct {
	Name   string
	Up     lipgloss.Color
	Down   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeMono = Theme{
		Name:   "mono",
		Up:     lipgloss.Color("#ffffff"),
		Down:   lipgloss.Color("#1a1a1a"),
		Accent: lipgloss.Color("#00ccff"),
		Text:   lipgloss.Color("#eeeeee"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeThermal = Theme{
		Name:   "thermal",
		Up:     lipgloss.Color("#ff6b6b"),
		Down:   lipgloss.Color("#0077be"),
		Accent: lipgloss.Color("#feca57"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Up:     lipgloss.Color("#00ff00"),
		Down:   lipgloss.Color("#001100"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
	}
)

var themes = []Theme{ThemeMono, ThemeThermal, ThemeRetro}

var CurrentTheme = ThemeMono

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// SetTheme switches the active theme. Unknown names are ignored.
func SetTheme(name string) bool {
	for _, t := range themes {
		if t.Name == name {
			CurrentTheme = t
			return true
		}
	}
	return false
}

// NextTheme cycles to the theme after the current one.
func NextTheme() Theme {
	for i, t := range themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = themes[(i+1)%len(themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = themes[0]
	return CurrentTheme
}
