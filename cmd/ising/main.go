package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/render"
	"github.com/san-kum/ising/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	size       int
	seed       int64
	energyMode string
	initName   string

	tMin        float64
	tMax        float64
	points      int
	therm       int
	measure     int
	replicas    int
	noCharts    bool
	plain       bool
	reportEvery int

	temperature float64
	steps       int
	frameEvery  int
	animation   string
	scale       int
	fps         int
	label       bool

	perFrame int
	gifPath  string

	theme    string
	plotName string

	outPath string
	discard float64
	maxLag  int

	benchDuration time.Duration
	benchSizes    []int
)

// main registers the ising commands and exits with status 1 when a command
// fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ising",
		Short: "2D Ising model Metropolis lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ising", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep temperatures and estimate the Curie temperature",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addLatticeFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&tMin, "t-min", config.DefaultTMin, "lowest temperature")
	sweepCmd.Flags().Float64Var(&tMax, "t-max", config.DefaultTMax, "highest temperature")
	sweepCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of temperatures")
	sweepCmd.Flags().IntVar(&therm, "therm", config.DefaultThermalization, "thermalization steps per temperature")
	sweepCmd.Flags().IntVar(&measure, "measure", config.DefaultMeasurement, "measurement steps per temperature")
	sweepCmd.Flags().IntVar(&replicas, "replicas", 1, "independent chains per temperature")
	sweepCmd.Flags().BoolVar(&noCharts, "no-charts", false, "skip PNG charts")
	sweepCmd.Flags().BoolVar(&plain, "plain", false, "unstyled progress output")
	sweepCmd.Flags().IntVar(&reportEvery, "every", 1, "report every n-th temperature")
	addThemeFlag(sweepCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one chain at a fixed temperature and record it",
		Args:  cobra.NoArgs,
		RunE:  runSingle,
	}
	addLatticeFlags(runCmd)
	runCmd.Flags().Float64Var(&temperature, "temp", config.DefaultRunTemperature, "temperature")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultRunSteps, "metropolis steps")
	runCmd.Flags().IntVar(&frameEvery, "frame-every", 1, "record every n-th step")
	runCmd.Flags().StringVar(&animation, "animation", "gif", "animation format (gif, mjpeg, png, none)")
	runCmd.Flags().IntVar(&scale, "scale", config.DefaultScale, "pixels per site")
	runCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "animation frame rate")
	runCmd.Flags().BoolVar(&label, "label", false, "print temperature and step under each frame")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "watch a chain evolve in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	addLatticeFlags(watchCmd)
	watchCmd.Flags().Float64Var(&temperature, "temp", 2.269, "initial temperature")
	watchCmd.Flags().IntVar(&perFrame, "per-frame", 0, "steps per frame (default one sweep)")
	watchCmd.Flags().StringVar(&gifPath, "gif", "ising.gif", "recording output path")
	watchCmd.Flags().IntVar(&scale, "scale", config.DefaultScale, "recording pixels per site")
	addThemeFlag(watchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render sweep charts as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVar(&outPath, "out", "", "output directory (default: run directory)")
	chartCmd.Flags().StringVar(&plotName, "plot", "", "render only this chart ("+strings.Join(plotNames(), ", ")+")")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&outPath, "out", "", "output file (default: <run_id>.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "autocorrelation analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&discard, "discard", 0.1, "leading fraction treated as burn-in")
	analyzeCmd.Flags().IntVar(&maxLag, "max-lag", 0, "largest lag (default: series length)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark local and global energy kernels",
		Args:  cobra.NoArgs,
		RunE:  benchKernels,
	}
	benchCmd.Flags().DurationVar(&benchDuration, "duration", 500*time.Millisecond, "time per case")
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{8, 16, 32, 64}, "lattice sizes")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addLatticeFlags(configCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of sweeps and runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&plain, "plain", false, "unstyled progress output")
	scenarioCmd.Flags().IntVar(&reportEvery, "every", 1, "report every n-th temperature")
	addThemeFlag(scenarioCmd)

	rootCmd.AddCommand(sweepCmd, runCmd, scenarioCmd, watchCmd, listCmd, plotCmd, chartCmd, exportCmd, exportCSVCmd, exportJSONCmd, analyzeCmd, benchCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLatticeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&size, "size", config.DefaultSize, "lattice size N")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&energyMode, "energy", "local", "energy evaluation (local, global)")
	cmd.Flags().StringVar(&initName, "init", "random", "initial lattice ("+fmt.Sprint(experiment.NewRegistry().ListInits())+")")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, sortedPresets())
		}
	}
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	if changed("size") {
		cfg.Size = size
	}
	if changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if changed("energy") {
		cfg.Energy = energyMode
	}
	if changed("init") {
		cfg.Init = initName
	}
	if changed("t-min") {
		cfg.Sweep.TMin = tMin
	}
	if changed("t-max") {
		cfg.Sweep.TMax = tMax
	}
	if changed("points") {
		cfg.Sweep.Points = points
	}
	if changed("therm") {
		cfg.Sweep.Thermalization = therm
	}
	if changed("measure") {
		cfg.Sweep.Measurement = measure
	}
	if changed("replicas") {
		cfg.Sweep.Replicas = replicas
	}
	if changed("no-charts") {
		cfg.Output.Charts = !noCharts
	}
	if changed("temp") {
		cfg.Run.Temperature = temperature
	}
	if changed("steps") {
		cfg.Run.Steps = steps
	}
	if changed("frame-every") {
		cfg.Run.FrameEvery = frameEvery
	}
	if changed("animation") {
		cfg.Output.Animation = animation
	}
	if changed("scale") {
		cfg.Output.Scale = scale
	}
	if changed("fps") {
		cfg.Output.FPS = fps
	}
	if changed("label") {
		cfg.Output.Label = label
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addThemeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
}

// applyTheme selects the --theme colours. An empty name keeps the default.
func applyTheme() error {
	if theme == "" {
		return nil
	}
	if !viz.SetTheme(theme) {
		return fmt.Errorf("unknown theme: %s (available: %s)", theme, strings.Join(viz.ThemeNames(), ", "))
	}
	return nil
}

func plotNames() []string {
	names := make([]string, len(render.Plots))
	for i, p := range render.Plots {
		names[i] = p.Name
	}
	return names
}

func sortedPresets() []string {
	names := config.ListPresets()
	sort.Strings(names)
	return names
}
