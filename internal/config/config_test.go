package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/ising"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Size != 16 {
		t.Errorf("expected size 16, got %d", cfg.Size)
	}
	if cfg.Sweep.TMin != 1 || cfg.Sweep.TMax != 4 || cfg.Sweep.Points != 150 {
		t.Errorf("unexpected sweep range %+v", cfg.Sweep)
	}
	if cfg.Sweep.Thermalization != 5000 || cfg.Sweep.Measurement != 400000 {
		t.Errorf("unexpected step counts %+v", cfg.Sweep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if err := cfg.ValidateSweep(); err != nil {
		t.Errorf("default sweep invalid: %v", err)
	}
	if err := cfg.ValidateRun(); err != nil {
		t.Errorf("default run invalid: %v", err)
	}
}

func TestDefaultConfigMatchesExperimentDefaults(t *testing.T) {
	cfg := DefaultConfig()

	sc, err := cfg.SweepConfig()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(experiment.DefaultSweepConfig(), sc); diff != "" {
		t.Errorf("sweep defaults drifted (-experiment +config):\n%s", diff)
	}

	rc, err := cfg.RunConfig()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(experiment.DefaultRunConfig(), rc); diff != "" {
		t.Errorf("run defaults drifted (-experiment +config):\n%s", diff)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ising.yaml")
	cfg := GetPreset("critical")
	cfg.Seed = 1234

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("size: 32\nsweep:\n  points: 10\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Size != 32 || cfg.Sweep.Points != 10 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Sweep.Measurement != DefaultMeasurement {
		t.Errorf("default measurement lost: %d", cfg.Sweep.Measurement)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("energy: cluster\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown energy mode")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateSweep(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero t_min", func(c *Config) { c.Sweep.TMin = 0 }},
		{"inverted range", func(c *Config) { c.Sweep.TMax = 0.5 }},
		{"no points", func(c *Config) { c.Sweep.Points = 0 }},
		{"negative thermalization", func(c *Config) { c.Sweep.Thermalization = -1 }},
		{"no measurement", func(c *Config) { c.Sweep.Measurement = 0 }},
		{"no replicas", func(c *Config) { c.Sweep.Replicas = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.ValidateSweep(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Temperature = -0.5
	if err := cfg.ValidateRun(); err == nil {
		t.Error("expected error for negative temperature")
	}
	cfg = DefaultConfig()
	cfg.Run.FrameEvery = 0
	if err := cfg.ValidateRun(); err == nil {
		t.Error("expected error for zero frame interval")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("animation")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Run.Temperature != 0.1 {
		t.Errorf("expected temperature 0.1, got %f", cfg.Run.Temperature)
	}

	cfg.Run.Temperature = 9
	if Presets["animation"].Run.Temperature != 0.1 {
		t.Error("GetPreset returned shared state")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	if len(names) == 0 {
		t.Fatal("no presets")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if err := cfg.ValidateSweep(); err != nil {
			t.Errorf("%s sweep: %v", name, err)
		}
		if err := cfg.ValidateRun(); err != nil {
			t.Errorf("%s run: %v", name, err)
		}
	}
}

func TestSweepConfigConversion(t *testing.T) {
	cfg := GetPreset("quick")
	cfg.Seed = 3
	cfg.Energy = "global"

	sc, err := cfg.SweepConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Temperatures) != cfg.Sweep.Points {
		t.Errorf("expected %d temperatures, got %d", cfg.Sweep.Points, len(sc.Temperatures))
	}
	if sc.Temperatures[0] != cfg.Sweep.TMin {
		t.Errorf("first temperature %g, want %g", sc.Temperatures[0], cfg.Sweep.TMin)
	}
	if sc.Mode != ising.GlobalEnergy || sc.Seed != 3 || sc.Size != cfg.Size {
		t.Errorf("unexpected sweep config %+v", sc)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("converted config invalid: %v", err)
	}

	cfg.Sweep.Points = 0
	if _, err := cfg.SweepConfig(); err == nil {
		t.Error("expected error for empty sweep")
	}
}

func TestRunConfigConversion(t *testing.T) {
	cfg := GetPreset("animation")
	rc, err := cfg.RunConfig()
	if err != nil {
		t.Fatal(err)
	}
	if rc.Temperature != 0.1 || rc.FrameEvery != 10 || rc.Mode != ising.LocalDelta {
		t.Errorf("unexpected run config %+v", rc)
	}

	cfg.Energy = "cluster"
	if _, err := cfg.RunConfig(); err == nil {
		t.Error("expected error for unknown energy mode")
	}
}
