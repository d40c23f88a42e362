package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ising/internal/analysis"
	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/metrics"
	"github.com/san-kum/ising/internal/render"
	"github.com/san-kum/ising/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tSIZE\tTEMPERATURE\tSTEPS\tSEED\tRESULT")

	for _, run := range runs {
		temps := fmt.Sprintf("%.3f", run.Temperature)
		runSteps := run.Steps
		result := fmt.Sprintf("|M|=%.4f", run.Metrics["abs_magnetisation"])
		if run.Kind == storage.KindSweep {
			temps = fmt.Sprintf("%.3f..%.3f (%d)", run.TMin, run.TMax, run.Points)
			runSteps = run.Thermalization + run.Measurement
			result = fmt.Sprintf("Tc=%.4f", run.Curie)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Size,
			temps,
			runSteps,
			run.Seed,
			result,
		)
	}

	return w.Flush()
}

// loadSweep rebuilds a sweep result from stored observables.
func loadSweep(st *storage.Store, runID string) (*experiment.SweepResult, error) {
	pts, err := st.LoadObservables(runID)
	if err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}
	res := &experiment.SweepResult{Points: pts}
	res.Curie, res.CurieIndex, err = experiment.CurieTemperature(res.Temperatures(), res.SpecificHeats())
	if err != nil {
		return nil, err
	}
	return res, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("size: %dx%d\n\n", meta.Size, meta.Size)

	if meta.Kind == storage.KindRun {
		series, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		if series.Len() == 0 {
			return fmt.Errorf("no data to plot")
		}
		sites := meta.Size * meta.Size
		plots := []struct {
			caption string
			data    []float64
		}{
			{fmt.Sprintf("energy per site vs step (T=%.3f)", meta.Temperature), metrics.PerSite(series.Energy, sites)},
			{fmt.Sprintf("magnetisation per site vs step (T=%.3f)", meta.Temperature), metrics.PerSite(series.Magnetisation, sites)},
		}
		for _, p := range plots {
			fmt.Println(asciigraph.Plot(p.data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(p.caption)))
			fmt.Println()
		}
		return nil
	}

	res, err := loadSweep(st, runID)
	if err != nil {
		return err
	}
	temps := res.Temperatures()
	for _, p := range render.Plots {
		caption := fmt.Sprintf("%s (T %.2f..%.2f)", p.Title, temps[0], temps[len(temps)-1])
		graph := asciigraph.Plot(p.Values(res),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	fmt.Printf("Curie Temperature = %.4f J/k_B\n", res.Curie)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if meta.Kind != storage.KindSweep {
		return fmt.Errorf("%s is a %s, charts need a sweep", runID, meta.Kind)
	}
	res, err := loadSweep(st, runID)
	if err != nil {
		return err
	}

	dir := outPath
	if dir == "" {
		dir = st.Dir(runID)
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	var names []string
	if plotName != "" {
		p, err := render.GetPlot(plotName)
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(plotNames(), ", "))
		}
		name, err := render.WriteChart(dir, p, res)
		if err != nil {
			return err
		}
		names = append(names, name)
	} else if names, err = render.WriteCharts(dir, res); err != nil {
		return err
	}
	for _, name := range names {
		fmt.Printf("wrote %s/%s\n", dir, name)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := outPath
	if path == "" {
		path = runID + ".csv"
	}

	st := storage.New(dataDir)
	if err := st.ExportCSV(runID, path); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	data, err := st.Export(runID)
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if meta.Kind == storage.KindSweep {
		return analyzeSweep(st, meta)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if series.Len() < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("autocorrelation analysis: %s\n", meta.ID)
	fmt.Printf("T=%.4f, %d steps, discarding first %.0f%%\n\n", meta.Temperature, series.Len(), discard*100)

	sites := meta.Size * meta.Size
	columns := []struct {
		name string
		data []float64
	}{
		{"energy/site", metrics.PerSite(series.Energy, sites)},
		{"magnetisation/site", metrics.PerSite(series.Magnetisation, sites)},
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OBSERVABLE\tMEAN\tVARIANCE\tTAU\tWINDOW\tNAIVE_ERR\tERR\tN_EFF")
	var magRho []float64
	for _, c := range columns {
		x := analysis.Discard(c.data, discard)
		s, err := analysis.Summarize(x, maxLag)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.3e\t%.1f\t%d\t%.2e\t%.2e\t%.0f\n",
			c.name, s.Mean, s.Variance, s.Tau, s.Window, s.NaiveErr, s.StdErr, float64(s.N)/s.Tau)
		if c.name == "magnetisation/site" {
			magRho, _ = analysis.Autocorrelation(x, maxLag)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(magRho) > 1 {
		n := len(magRho)
		if n > 200 {
			n = 200
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(magRho[:n], asciigraph.Height(8), asciigraph.Width(80), asciigraph.Caption("magnetisation autocorrelation vs lag")))
	}
	return nil
}

func analyzeSweep(st *storage.Store, meta *storage.RunMetadata) error {
	res, err := loadSweep(st, meta.ID)
	if err != nil {
		return err
	}

	fmt.Printf("sweep analysis: %s\n", meta.ID)
	fmt.Printf("Curie Temperature = %.4f J/k_B\n\n", res.Curie)

	order := make([]int, len(res.Points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return res.Points[order[a]].SpecificHeat > res.Points[order[b]].SpecificHeat
	})
	if len(order) > 5 {
		order = order[:5]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tT\tC\tC_ERR\tX\t|M|")
	for rank, i := range order {
		p := res.Points[i]
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			rank+1, p.Temperature, p.SpecificHeat, p.StdErr.SpecificHeat, p.Susceptibility, p.AbsMagnetisation)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSIZE\tSWEEP\tSTEPS\tREPLICAS\tRUN T\tRUN STEPS\tANIMATION")
	for _, name := range sortedPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.2f..%.2f (%d)\t%d+%d\t%d\t%.3f\t%d\t%s\n",
			name, p.Size,
			p.Sweep.TMin, p.Sweep.TMax, p.Sweep.Points,
			p.Sweep.Thermalization, p.Sweep.Measurement, p.Sweep.Replicas,
			p.Run.Temperature, p.Run.Steps, p.Output.Animation)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
