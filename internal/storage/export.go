package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/metrics"
)

type ExportData struct {
	Metadata RunMetadata        `json:"metadata"`
	Points   []experiment.Point `json:"points,omitempty"`
	Series   *metrics.Series    `json:"series,omitempty"`
}

// Export gathers everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	data := &ExportData{Metadata: *meta}
	switch meta.Kind {
	case KindRun:
		data.Series, err = s.LoadSeries(runID)
	default:
		data.Points, err = s.LoadObservables(runID)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func ExportJSONStdout(data *ExportData) error {
	return WriteJSON(os.Stdout, data)
}

// ExportCSV copies the run's data file to path.
func (s *Store) ExportCSV(runID, path string) error {
	src, err := s.CSVPath(runID)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
