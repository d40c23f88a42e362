package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/ising/internal/experiment"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

const temperatureAxis = "Temperature (J/k_B)"

// Plot is one observable-versus-temperature scatter chart.
type Plot struct {
	Name   string
	Title  string
	YLabel string
	Values func(*experiment.SweepResult) []float64
	// MarkCurie annotates the Curie estimate on this chart.
	MarkCurie bool
}

// Plots lists the four standard sweep charts. Magnetisation is plotted as
// the absolute value of the mean M, since its sign is arbitrary below the
// transition.
var Plots = []Plot{
	{
		Name:   "energy",
		Title:  "Energy per Site vs. Temperature",
		YLabel: "Energy per Site (J)",
		Values: (*experiment.SweepResult).Energies,
	},
	{
		Name:   "magnetisation",
		Title:  "Magnetisation per Site vs. Temperature",
		YLabel: "Magnetisation per Site (mu)",
		Values: absMeanMagnetisations,
	},
	{
		Name:      "specific_heat",
		Title:     "Specific Heat Capacity per Site vs. Temperature",
		YLabel:    "Specific Heat per Site (J/k_B^2)",
		Values:    (*experiment.SweepResult).SpecificHeats,
		MarkCurie: true,
	},
	{
		Name:   "susceptibility",
		Title:  "Magnetic Susceptibility per Site vs. Temperature",
		YLabel: "Susceptibility per Site (mu/k_B)",
		Values: (*experiment.SweepResult).Susceptibilities,
	},
}

func absMeanMagnetisations(res *experiment.SweepResult) []float64 {
	m := res.Magnetisations()
	for i, v := range m {
		m[i] = math.Abs(v)
	}
	return m
}

func GetPlot(name string) (Plot, error) {
	for _, p := range Plots {
		if p.Name == name {
			return p, nil
		}
	}
	return Plot{}, fmt.Errorf("unknown plot: %s", name)
}

// Chart builds the go-chart definition for p over res.
func (p Plot) Chart(res *experiment.SweepResult) chart.Chart {
	temps := res.Temperatures()
	values := p.Values(res)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    p.Title,
			XValues: temps,
			YValues: values,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    drawing.Color{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
			},
		},
	}
	if p.MarkCurie && res.CurieIndex >= 0 && res.CurieIndex < len(values) {
		series = append(series, chart.AnnotationSeries{
			Annotations: []chart.Value2{{
				XValue: res.Curie,
				YValue: values[res.CurieIndex],
				Label:  fmt.Sprintf("Tc = %.3f", res.Curie),
			}},
		})
	}

	yAxis := chart.YAxis{
		Name:  p.YLabel,
		Style: chart.Style{FontSize: 10.0},
	}
	// go-chart rejects a zero-height range.
	if len(values) > 0 && floats.Min(values) == floats.Max(values) {
		yAxis.Range = &chart.ContinuousRange{Min: values[0] - 1, Max: values[0] + 1}
	}

	return chart.Chart{
		Title:  p.Title,
		Width:  800,
		Height: 500,
		XAxis: chart.XAxis{
			Name:  temperatureAxis,
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		YAxis:  yAxis,
		Series: series,
	}
}

// Render writes p as a PNG.
func (p Plot) Render(w io.Writer, res *experiment.SweepResult) error {
	if len(res.Points) < 2 {
		return fmt.Errorf("%s chart needs at least two temperatures, got %d", p.Name, len(res.Points))
	}
	graph := p.Chart(res)
	return graph.Render(chart.PNG, w)
}

// WriteCharts renders every standard plot into dir and returns the file
// names written.
func WriteCharts(dir string, res *experiment.SweepResult) ([]string, error) {
	names := make([]string, 0, len(Plots))
	for _, p := range Plots {
		name, err := WriteChart(dir, p, res)
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// WriteChart renders p into dir as <name>.png and returns the file name.
func WriteChart(dir string, p Plot, res *experiment.SweepResult) (string, error) {
	name := p.Name + ".png"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if err := p.Render(f, res); err != nil {
		f.Close()
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return name, f.Close()
}
