package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/metrics"
	"github.com/san-kum/ising/internal/sysinfo"
	"gonum.org/v1/gonum/floats"
)

const (
	KindSweep = "sweep"
	KindRun   = "run"

	metadataFile    = "metadata.json"
	observablesFile = "observables.csv"
	seriesFile      = "series.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Kind           string             `json:"kind"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Size           int                `json:"size"`
	Energy         string             `json:"energy"`
	Init           string             `json:"init"`
	TMin           float64            `json:"t_min,omitempty"`
	TMax           float64            `json:"t_max,omitempty"`
	Points         int                `json:"points,omitempty"`
	Thermalization int                `json:"thermalization,omitempty"`
	Measurement    int                `json:"measurement,omitempty"`
	Replicas       int                `json:"replicas,omitempty"`
	Temperature    float64            `json:"temperature,omitempty"`
	Steps          int                `json:"steps,omitempty"`
	FrameEvery     int                `json:"frame_every,omitempty"`
	Curie          float64            `json:"curie,omitempty"`
	Elapsed        float64            `json:"elapsed_seconds"`
	Artifacts      []string           `json:"artifacts,omitempty"`
	Host           sysinfo.Host       `json:"host"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Create allocates a fresh run directory so artifacts such as animations
// can be written while the run is still going.
func (s *Store) Create(kind string) (string, error) {
	runID := fmt.Sprintf("%s_%s", kind, uuid.NewString()[:8])
	if err := os.MkdirAll(s.Dir(runID), 0755); err != nil {
		return "", err
	}
	return runID, nil
}

// Dir returns the directory holding a run's files.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func (s *Store) Path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func (s *Store) SaveSweep(runID string, cfg experiment.SweepConfig, res *experiment.SweepResult, artifacts ...string) error {
	meta := RunMetadata{
		ID:             runID,
		Kind:           KindSweep,
		Timestamp:      time.Now(),
		Seed:           cfg.Seed,
		Size:           cfg.Size,
		Energy:         string(cfg.Mode),
		Init:           cfg.Init,
		Points:         len(cfg.Temperatures),
		Thermalization: cfg.Thermalization,
		Measurement:    cfg.Measurement,
		Replicas:       cfg.Replicas,
		Curie:          res.Curie,
		Elapsed:        res.Elapsed.Seconds(),
		Artifacts:      artifacts,
		Host:           sysinfo.Collect(),
		Metrics: map[string]float64{
			"curie":               res.Curie,
			"peak_specific_heat":  peak(res.SpecificHeats()),
			"peak_susceptibility": peak(res.Susceptibilities()),
		},
	}
	if n := len(cfg.Temperatures); n > 0 {
		meta.TMin = cfg.Temperatures[0]
		meta.TMax = cfg.Temperatures[n-1]
	}
	if err := s.writeMetadata(runID, meta); err != nil {
		return err
	}

	header := []string{
		"temperature", "energy", "magnetisation", "abs_magnetisation",
		"specific_heat", "susceptibility", "acceptance_rate",
		"energy_err", "magnetisation_err", "abs_magnetisation_err",
		"specific_heat_err", "susceptibility_err", "acceptance_rate_err",
		"samples", "replicas",
	}
	rows := make([][]string, 0, len(res.Points))
	for _, p := range res.Points {
		rows = append(rows, []string{
			formatFloat(p.Temperature), formatFloat(p.Energy), formatFloat(p.Magnetisation),
			formatFloat(p.AbsMagnetisation), formatFloat(p.SpecificHeat), formatFloat(p.Susceptibility),
			formatFloat(p.AcceptanceRate),
			formatFloat(p.StdErr.Energy), formatFloat(p.StdErr.Magnetisation),
			formatFloat(p.StdErr.AbsMagnetisation), formatFloat(p.StdErr.SpecificHeat),
			formatFloat(p.StdErr.Susceptibility), formatFloat(p.StdErr.AcceptanceRate),
			strconv.Itoa(p.Samples), strconv.Itoa(p.Replicas),
		})
	}
	return s.writeCSV(runID, observablesFile, header, rows)
}

func (s *Store) SaveRun(runID string, cfg experiment.RunConfig, res *experiment.RunResult, artifacts ...string) error {
	obs := res.Observables
	meta := RunMetadata{
		ID:          runID,
		Kind:        KindRun,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		Size:        cfg.Size,
		Energy:      string(cfg.Mode),
		Init:        cfg.Init,
		Temperature: cfg.Temperature,
		Steps:       cfg.Steps,
		FrameEvery:  cfg.FrameEvery,
		Elapsed:     res.Elapsed.Seconds(),
		Artifacts:   artifacts,
		Host:        sysinfo.Collect(),
		Metrics: map[string]float64{
			"energy":            obs.Energy,
			"magnetisation":     obs.Magnetisation,
			"abs_magnetisation": obs.AbsMagnetisation,
			"specific_heat":     obs.SpecificHeat,
			"susceptibility":    obs.Susceptibility,
			"acceptance_rate":   obs.AcceptanceRate,
		},
	}
	if err := s.writeMetadata(runID, meta); err != nil {
		return err
	}

	series := res.Series
	rows := make([][]string, 0, series.Len())
	for i := range series.Steps {
		rows = append(rows, []string{
			strconv.Itoa(series.Steps[i]),
			formatFloat(series.Energy[i]),
			formatFloat(series.Magnetisation[i]),
		})
	}
	return s.writeCSV(runID, seriesFile, []string{"step", "energy", "magnetisation"}, rows)
}

func (s *Store) writeMetadata(runID string, meta RunMetadata) error {
	if err := os.MkdirAll(s.Dir(runID), 0755); err != nil {
		return err
	}
	f, err := os.Create(s.Path(runID, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) writeCSV(runID, name string, header []string, rows [][]string) error {
	f, err := os.Create(s.Path(runID, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.Path(runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// CSVPath returns the data file for a run, which depends on its kind.
func (s *Store) CSVPath(runID string) (string, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return "", err
	}
	if meta.Kind == KindRun {
		return s.Path(runID, seriesFile), nil
	}
	return s.Path(runID, observablesFile), nil
}

func (s *Store) LoadObservables(runID string) ([]experiment.Point, error) {
	records, err := s.readCSV(runID, observablesFile)
	if err != nil {
		return nil, err
	}

	points := make([]experiment.Point, 0, len(records))
	for i, rec := range records {
		if len(rec) < 15 {
			return nil, fmt.Errorf("%s line %d: expected 15 fields, got %d", observablesFile, i+2, len(rec))
		}
		v, err := parseFloats(rec[:13])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", observablesFile, i+2, err)
		}
		samples, err := strconv.Atoi(rec[13])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", observablesFile, i+2, err)
		}
		replicas, err := strconv.Atoi(rec[14])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", observablesFile, i+2, err)
		}
		points = append(points, experiment.Point{
			Observables: metrics.Observables{
				Temperature:      v[0],
				Energy:           v[1],
				Magnetisation:    v[2],
				AbsMagnetisation: v[3],
				SpecificHeat:     v[4],
				Susceptibility:   v[5],
				AcceptanceRate:   v[6],
				Samples:          samples,
			},
			StdErr: metrics.Observables{
				Temperature:      v[0],
				Energy:           v[7],
				Magnetisation:    v[8],
				AbsMagnetisation: v[9],
				SpecificHeat:     v[10],
				Susceptibility:   v[11],
				AcceptanceRate:   v[12],
			},
			Replicas: replicas,
		})
	}
	return points, nil
}

func (s *Store) LoadSeries(runID string) (*metrics.Series, error) {
	records, err := s.readCSV(runID, seriesFile)
	if err != nil {
		return nil, err
	}

	series := metrics.NewSeries(len(records))
	for i, rec := range records {
		if len(rec) < 3 {
			return nil, fmt.Errorf("%s line %d: expected 3 fields, got %d", seriesFile, i+2, len(rec))
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
		}
		v, err := parseFloats(rec[1:3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
		}
		series.Steps = append(series.Steps, step)
		series.Energy = append(series.Energy, v[0])
		series.Magnetisation = append(series.Magnetisation, v[1])
	}
	return series, nil
}

// readCSV returns the records of a run file without its header.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	f, err := os.Open(s.Path(runID, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func peak(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}
