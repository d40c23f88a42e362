package config

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"quick": {
		Size:   8,
		Energy: "local",
		Init:   "random",
		Sweep: SweepConfig{
			TMin:           1.0,
			TMax:           4.0,
			Points:         30,
			Thermalization: 2000,
			Measurement:    50000,
			Replicas:       1,
		},
		Run:    RunConfig{Temperature: 2.0, Steps: 2000, FrameEvery: 1},
		Output: OutputConfig{Animation: "gif", Scale: DefaultScale, FPS: DefaultFPS, Charts: true},
	},
	"critical": {
		Size:   32,
		Energy: "local",
		Init:   "random",
		Sweep: SweepConfig{
			TMin:           2.0,
			TMax:           2.6,
			Points:         25,
			Thermalization: 50000,
			Measurement:    1000000,
			Replicas:       4,
		},
		Run:    RunConfig{Temperature: 2.269, Steps: 200000, FrameEvery: 1024},
		Output: OutputConfig{Animation: "mjpeg", Scale: 8, FPS: DefaultFPS, Charts: true},
	},
	"animation": {
		Size:   16,
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
		Run:    RunConfig{Temperature: 0.1, Steps: 10000, FrameEvery: 10},
		Output: OutputConfig{Animation: "gif", Scale: 16, FPS: DefaultFPS, Label: true},
	},
	"paramagnet": {
		Size:   64,
		Energy: "local",
		Init:   "up",
		Sweep: SweepConfig{
			TMin:           3.0,
			TMax:           5.0,
			Points:         20,
			Thermalization: 20000,
			Measurement:    200000,
			Replicas:       1,
		},
		Run:    RunConfig{Temperature: 4.0, Steps: 400000, FrameEvery: 2000},
		Output: OutputConfig{Animation: "png", Scale: 4, FPS: DefaultFPS},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
