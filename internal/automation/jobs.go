package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/render"
	"github.com/san-kum/ising/internal/storage"
)

// SweepJob is a finished and stored temperature sweep.
type SweepJob struct {
	RunID     string
	Config    experiment.SweepConfig
	Result    *experiment.SweepResult
	Artifacts []string
}

// RunSweep runs the sweep described by cfg, stores it and renders its
// charts when enabled.
func RunSweep(ctx context.Context, st *storage.Store, cfg *config.Config, observers ...experiment.SweepObserver) (*SweepJob, error) {
	sweepCfg, err := cfg.SweepConfig()
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		return nil, err
	}

	sweep := experiment.NewSweep(sweepCfg)
	for _, o := range observers {
		sweep.AddObserver(o)
	}
	result, err := sweep.Run(ctx)
	if err != nil {
		return nil, err
	}

	runID, err := st.Create(storage.KindSweep)
	if err != nil {
		return nil, err
	}
	job := &SweepJob{RunID: runID, Config: sweepCfg, Result: result}

	if cfg.Output.Charts && len(result.Points) > 1 {
		job.Artifacts, err = render.WriteCharts(st.Dir(runID), result)
		if err != nil {
			return nil, fmt.Errorf("charts: %w", err)
		}
	}
	if err := st.SaveSweep(runID, sweepCfg, result, job.Artifacts...); err != nil {
		return nil, err
	}
	return job, nil
}

// RunJob is a finished and stored single-temperature run.
type RunJob struct {
	RunID     string
	Config    experiment.RunConfig
	Result    *experiment.RunResult
	Artifacts []string
}

// RunSingle runs one chain at cfg.Run.Temperature, streaming frames into
// the configured animation, and stores the series.
func RunSingle(ctx context.Context, st *storage.Store, cfg *config.Config) (*RunJob, error) {
	runCfg, err := cfg.RunConfig()
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		return nil, err
	}
	runID, err := st.Create(storage.KindRun)
	if err != nil {
		return nil, err
	}

	run := experiment.NewSingleRun(runCfg)
	job := &RunJob{RunID: runID, Config: runCfg}

	var anim render.Animation
	if format := cfg.Output.Animation; format != "" && format != render.FormatNone {
		name := render.FileName(format)
		anim, err = render.NewAnimation(format, st.Path(runID, name), runCfg.Size, render.Options{
			Scale:       cfg.Output.Scale,
			FPS:         cfg.Output.FPS,
			Temperature: runCfg.Temperature,
			Label:       cfg.Output.Label,
		})
		if err != nil {
			return nil, err
		}
		run.AddSink(anim)
		job.Artifacts = append(job.Artifacts, name)
	}

	result, runErr := run.Run(ctx)
	if anim != nil {
		if err := anim.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("animation: %w", err)
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	job.Result = result

	if err := st.SaveRun(runID, runCfg, result, job.Artifacts...); err != nil {
		return nil, err
	}
	return job, nil
}
