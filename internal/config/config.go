package config

import (
	"fmt"
	"os"

	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/ising"
	"gopkg.in/yaml.v3"
)

// Simulation defaults come from the experiment package; only the output
// settings are owned here.
const (
	DefaultSize           = experiment.DefaultSize
	DefaultTMin           = experiment.DefaultTMin
	DefaultTMax           = experiment.DefaultTMax
	DefaultPoints         = experiment.DefaultPoints
	DefaultThermalization = experiment.DefaultThermalization
	DefaultMeasurement    = experiment.DefaultMeasurement
	DefaultRunTemperature = experiment.DefaultRunTemperature
	DefaultRunSteps       = experiment.DefaultRunSteps
	DefaultScale          = 8
	DefaultFPS            = 30
)

type Config struct {
	Size   int          `yaml:"size"`
	Seed   int64        `yaml:"seed"`
	Energy string       `yaml:"energy"`
	Init   string       `yaml:"init"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Run    RunConfig    `yaml:"run"`
	Output OutputConfig `yaml:"output"`
}

type SweepConfig struct {
	TMin           float64 `yaml:"t_min"`
	TMax           float64 `yaml:"t_max"`
	Points         int     `yaml:"points"`
	Thermalization int     `yaml:"thermalization"`
	Measurement    int     `yaml:"measurement"`
	Replicas       int     `yaml:"replicas"`
}

type RunConfig struct {
	Temperature float64 `yaml:"temperature"`
	Steps       int     `yaml:"steps"`
	FrameEvery  int     `yaml:"frame_every"`
}

type OutputConfig struct {
	Animation string `yaml:"animation"`
	Scale     int    `yaml:"scale"`
	FPS       int    `yaml:"fps"`
	Label     bool   `yaml:"label"`
	Charts    bool   `yaml:"charts"`
}

func DefaultConfig() *Config {
	return &Config{
		Size:   DefaultSize,
		Energy: "local",
		Init:   "random",
		Sweep: SweepConfig{
			TMin:           DefaultTMin,
			TMax:           DefaultTMax,
			Points:         DefaultPoints,
			Thermalization: DefaultThermalization,
			Measurement:    DefaultMeasurement,
			Replicas:       1,
		},
		Run: RunConfig{
			Temperature: DefaultRunTemperature,
			Steps:       DefaultRunSteps,
			FrameEvery:  1,
		},
		Output: OutputConfig{
			Animation: "gif",
			Scale:     DefaultScale,
			FPS:       DefaultFPS,
			Charts:    true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values shared by every command.
func (c *Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("size must be at least 1, got %d", c.Size)
	}
	switch c.Energy {
	case "", "local", "global":
	default:
		return fmt.Errorf("energy must be local or global, got %q", c.Energy)
	}
	switch c.Output.Animation {
	case "", "none", "gif", "mjpeg", "png":
	default:
		return fmt.Errorf("animation must be one of none, gif, mjpeg, png, got %q", c.Output.Animation)
	}
	return nil
}

func (c *Config) ValidateSweep() error {
	s := c.Sweep
	if !(s.TMin > 0) {
		return fmt.Errorf("t_min must be positive, got %g", s.TMin)
	}
	if s.TMax < s.TMin {
		return fmt.Errorf("t_max (%g) must not be below t_min (%g)", s.TMax, s.TMin)
	}
	if s.Points < 1 {
		return fmt.Errorf("points must be at least 1, got %d", s.Points)
	}
	if s.Thermalization < 0 {
		return fmt.Errorf("thermalization must be non-negative, got %d", s.Thermalization)
	}
	if s.Measurement < 1 {
		return fmt.Errorf("measurement must be at least 1, got %d", s.Measurement)
	}
	if s.Replicas < 1 {
		return fmt.Errorf("replicas must be at least 1, got %d", s.Replicas)
	}
	return nil
}

func (c *Config) ValidateRun() error {
	r := c.Run
	if !(r.Temperature > 0) {
		return fmt.Errorf("temperature must be positive, got %g", r.Temperature)
	}
	if r.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", r.Steps)
	}
	if r.FrameEvery < 1 {
		return fmt.Errorf("frame_every must be at least 1, got %d", r.FrameEvery)
	}
	return nil
}

// SweepConfig converts the sweep section into an experiment configuration.
func (c *Config) SweepConfig() (experiment.SweepConfig, error) {
	if err := c.ValidateSweep(); err != nil {
		return experiment.SweepConfig{}, err
	}
	mode, err := ising.ParseEnergyMode(c.Energy)
	if err != nil {
		return experiment.SweepConfig{}, err
	}
	return experiment.SweepConfig{
		Size:           c.Size,
		Temperatures:   experiment.Linspace(c.Sweep.TMin, c.Sweep.TMax, c.Sweep.Points),
		Thermalization: c.Sweep.Thermalization,
		Measurement:    c.Sweep.Measurement,
		Replicas:       c.Sweep.Replicas,
		Seed:           c.Seed,
		Mode:           mode,
		Init:           c.Init,
	}, nil
}

func (c *Config) RunConfig() (experiment.RunConfig, error) {
	if err := c.ValidateRun(); err != nil {
		return experiment.RunConfig{}, err
	}
	mode, err := ising.ParseEnergyMode(c.Energy)
	if err != nil {
		return experiment.RunConfig{}, err
	}
	return experiment.RunConfig{
		Size:        c.Size,
		Temperature: c.Run.Temperature,
		Steps:       c.Run.Steps,
		Seed:        c.Seed,
		Mode:        mode,
		Init:        c.Init,
		FrameEvery:  c.Run.FrameEvery,
	}, nil
}
