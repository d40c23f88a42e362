package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ising/internal/automation"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/storage"
	"github.com/san-kum/ising/internal/sysinfo"
	"github.com/san-kum/ising/internal/viz"
	"github.com/spf13/cobra"
)

func runSweep(cmd *cobra.Command, args []string) error {
	if err := applyTheme(); err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reporter := viz.NewReporter(os.Stdout)
	reporter.Plain = plain
	reporter.Every = reportEvery

	fmt.Printf("sweeping %d temperatures on a %dx%d lattice (seed %d)...\n",
		cfg.Sweep.Points, cfg.Size, cfg.Size, cfg.Seed)

	st := storage.New(dataDir)
	job, err := automation.RunSweep(ctx, st, cfg, reporter)
	if err != nil {
		return err
	}

	fmt.Println()
	reporter.Summary(job.Result)
	fmt.Printf("run id: %s\n", job.RunID)
	for _, a := range job.Artifacts {
		fmt.Printf("  %s\n", st.Path(job.RunID, a))
	}
	return nil
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d steps at T=%.4f on a %dx%d lattice (seed %d)...\n",
		cfg.Run.Steps, cfg.Run.Temperature, cfg.Size, cfg.Size, cfg.Seed)

	st := storage.New(dataDir)
	job, err := automation.RunSingle(ctx, st, cfg)
	if err != nil {
		return err
	}

	result := job.Result
	obs := result.Observables
	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", job.RunID)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Println("\nobservables:")
	fmt.Printf("  energy: %.6f\n", obs.Energy)
	fmt.Printf("  magnetisation: %.6f\n", obs.Magnetisation)
	fmt.Printf("  abs_magnetisation: %.6f\n", obs.AbsMagnetisation)
	fmt.Printf("  specific_heat: %.6f\n", obs.SpecificHeat)
	fmt.Printf("  susceptibility: %.6f\n", obs.Susceptibility)
	fmt.Printf("  acceptance_rate: %.6f\n", obs.AcceptanceRate)
	fmt.Printf("\nfinal lattice:\n%s\n", result.Final)
	for _, a := range job.Artifacts {
		fmt.Printf("animation: %s\n", st.Path(job.RunID, a))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	if err := applyTheme(); err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	runner := &automation.Runner{
		Store: storage.New(dataDir),
		Out:   os.Stdout,
		Observer: func(automation.Step) experiment.SweepObserver {
			r := viz.NewReporter(os.Stdout)
			r.Plain = plain
			r.Every = reportEvery
			return r
		},
	}
	outcomes, err := runner.RunScenario(ctx, sc)

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tKIND\tSIZE\tRESULT\tTIME\tRUN ID")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%v\t%s\n",
			o.Step, o.Kind, o.Size, o.Result, o.Elapsed.Round(time.Millisecond), o.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := applyTheme(); err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	mode, err := ising.ParseEnergyMode(cfg.Energy)
	if err != nil {
		return err
	}
	t := temperature
	if !cmd.Flags().Changed("temp") && (preset != "" || configFile != "") {
		t = cfg.Run.Temperature
	}

	model, err := viz.NewModel(viz.WatchConfig{
		Size:         cfg.Size,
		Temperature:  t,
		Seed:         cfg.Seed,
		Mode:         mode,
		Init:         cfg.Init,
		StepsPerTick: perFrame,
		GIFPath:      gifPath,
		GIFScale:     cfg.Output.Scale,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*viz.Model); ok && m.Status() != "" {
		fmt.Println(m.Status())
	}
	return nil
}

// benchKernels times both energy modes at a temperature near the
// transition, where roughly half the proposals are accepted.
func benchKernels(cmd *cobra.Command, args []string) error {
	const benchTemperature = 2.269
	const chunk = 1024

	fmt.Printf("host: %s\n\n", sysinfo.Collect())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tENERGY\tSTEPS\tTIME\tSTEPS/SEC\tACCEPT")

	for _, n := range benchSizes {
		for _, mode := range []ising.EnergyMode{ising.LocalDelta, ising.GlobalEnergy} {
			rng := ising.NewRand(42, 0)
			sampler, err := ising.NewSampler(lattice.Random(n, rng), benchTemperature, rng, mode)
			if err != nil {
				return err
			}

			start := time.Now()
			var elapsed time.Duration
			for elapsed < benchDuration {
				for i := 0; i < chunk; i++ {
					sampler.Step()
				}
				elapsed = time.Since(start)
			}

			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\t%.3f\n",
				n, mode, sampler.Steps(), elapsed.Round(time.Millisecond),
				float64(sampler.Steps())/elapsed.Seconds(), sampler.AcceptanceRate())
		}
	}

	return w.Flush()
}
