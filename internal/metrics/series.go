package metrics

import "github.com/san-kum/ising/internal/ising"

// Series records the energy and magnetisation after every step.
type Series struct {
	Steps         []int     `json:"steps"`
	Energy        []float64 `json:"energy"`
	Magnetisation []float64 `json:"magnetisation"`
	Accepted      int       `json:"accepted"`
}

func NewSeries(capacity int) *Series {
	if capacity < 0 {
		capacity = 0
	}
	return &Series{
		Steps:         make([]int, 0, capacity),
		Energy:        make([]float64, 0, capacity),
		Magnetisation: make([]float64, 0, capacity),
	}
}

func (s *Series) Name() string { return "series" }

func (s *Series) Observe(sample ising.Sample) {
	s.Steps = append(s.Steps, sample.Step)
	s.Energy = append(s.Energy, sample.Energy)
	s.Magnetisation = append(s.Magnetisation, sample.Magnetisation)
	if sample.Accepted {
		s.Accepted++
	}
}

func (s *Series) Reset() {
	s.Steps = s.Steps[:0]
	s.Energy = s.Energy[:0]
	s.Magnetisation = s.Magnetisation[:0]
	s.Accepted = 0
}

func (s *Series) Len() int { return len(s.Steps) }

// PerSite returns a copy of values divided by the number of sites.
func PerSite(values []float64, sites int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / float64(sites)
	}
	return out
}
