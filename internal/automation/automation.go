package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	KindSweep = "sweep"
	KindRun   = "run"
)

// Scenario is a scripted sequence of sweeps and runs. Every step starts
// from the scenario's preset and overrides only the keys it sets.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Preset      string `yaml:"preset"`
	Steps       []Step `yaml:"-"`
}

// Step is a single job in a scenario.
type Step struct {
	Name   string        `yaml:"name"`
	Kind   string        `yaml:"kind"`
	Config config.Config `yaml:",inline"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var raw struct {
		Scenario `yaml:",inline"`
		Steps    []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}

	base := config.DefaultConfig()
	if raw.Preset != "" {
		base = config.GetPreset(raw.Preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s", raw.Preset)
		}
	}

	sc := raw.Scenario
	sc.Steps = make([]Step, 0, len(raw.Steps))
	for i := range raw.Steps {
		step := Step{Config: *base}
		if err := raw.Steps[i].Decode(&step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Name == "" {
			step.Name = fmt.Sprintf("step%d", i+1)
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
		sc.Steps = append(sc.Steps, step)
	}
	return &sc, nil
}

func (s Step) Validate() error {
	if err := s.Config.Validate(); err != nil {
		return err
	}
	switch s.Kind {
	case KindSweep:
		return s.Config.ValidateSweep()
	case KindRun:
		return s.Config.ValidateRun()
	}
	return fmt.Errorf("kind must be %s or %s, got %q", KindSweep, KindRun, s.Kind)
}

// Outcome summarises one executed step.
type Outcome struct {
	Step    string
	Kind    string
	RunID   string
	Size    int
	Curie   float64
	Result  string
	Elapsed time.Duration
}

// Runner executes scenarios against a store.
type Runner struct {
	Store *storage.Store
	Out   io.Writer
	// Observer, when set, supplies a progress observer for each sweep step.
	Observer func(Step) experiment.SweepObserver
}

// RunScenario executes all steps in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) ([]Outcome, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	outcomes := make([]Outcome, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		fmt.Fprintf(out, "Running step %d/%d: %s (%s, %dx%d)\n", i+1, len(sc.Steps), step.Name, step.Kind, step.Config.Size, step.Config.Size)
		cfg := step.Config

		switch step.Kind {
		case KindSweep:
			var observers []experiment.SweepObserver
			if r.Observer != nil {
				if o := r.Observer(step); o != nil {
					observers = append(observers, o)
				}
			}
			job, err := RunSweep(ctx, r.Store, &cfg, observers...)
			if err != nil {
				return outcomes, fmt.Errorf("step %d: %w", i+1, err)
			}
			outcomes = append(outcomes, Outcome{
				Step:    step.Name,
				Kind:    step.Kind,
				RunID:   job.RunID,
				Size:    cfg.Size,
				Curie:   job.Result.Curie,
				Result:  fmt.Sprintf("Tc=%.4f", job.Result.Curie),
				Elapsed: job.Result.Elapsed,
			})
		case KindRun:
			job, err := RunSingle(ctx, r.Store, &cfg)
			if err != nil {
				return outcomes, fmt.Errorf("step %d: %w", i+1, err)
			}
			obs := job.Result.Observables
			outcomes = append(outcomes, Outcome{
				Step:    step.Name,
				Kind:    step.Kind,
				RunID:   job.RunID,
				Size:    cfg.Size,
				Result:  fmt.Sprintf("E=%.4f |M|=%.4f", obs.Energy, obs.AbsMagnetisation),
				Elapsed: job.Result.Elapsed,
			})
		}
	}

	return outcomes, nil
}
