package experiment

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
)

type countingSink struct {
	steps []int
	fail  int
}

func (c *countingSink) AddFrame(step int, l *lattice.Lattice) error {
	if c.fail > 0 && len(c.steps) == c.fail {
		return errors.New("disk full")
	}
	c.steps = append(c.steps, step)
	return nil
}

var _ = Describe("SingleRun", func() {
	var cfg RunConfig

	BeforeEach(func() {
		cfg = DefaultRunConfig()
		cfg.Size = 8
		cfg.Steps = 200
		cfg.Seed = 5
	})

	It("keeps one lattice and records every step", func() {
		res, err := NewSingleRun(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Series.Len()).To(Equal(200))
		Expect(res.Final.Diff(res.Initial)).To(BeNumerically("<=", 200))
		Expect(res.Series.Energy[199]).To(Equal(ising.TotalEnergy(res.Final)))
		Expect(res.Series.Magnetisation[199]).To(Equal(ising.Magnetisation(res.Final)))
	})

	It("emits the initial frame and then every n-th step", func() {
		cfg.FrameEvery = 50
		sink := &countingSink{}
		run := NewSingleRun(cfg)
		run.AddSink(sink)

		res, err := run.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.steps).To(Equal([]int{0, 50, 100, 150, 200}))
		Expect(res.Frames).To(Equal(5))
	})

	It("surfaces sink failures", func() {
		sink := &countingSink{fail: 3}
		run := NewSingleRun(cfg)
		run.AddSink(sink)

		_, err := run.Run(context.Background())
		Expect(err).To(MatchError(ContainSubstring("disk full")))
	})

	It("keeps a cold aligned lattice ordered", func() {
		cfg.Size = 2
		cfg.Temperature = 0.01
		cfg.Init = "up"
		cfg.Steps = 5000
		res, err := NewSingleRun(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Observables.AbsMagnetisation).To(BeNumerically(">", 0.99))
	})

	It("validates its configuration", func() {
		cfg.Temperature = 0
		_, err := NewSingleRun(cfg).Run(context.Background())
		Expect(err).To(MatchError(ising.ErrInvalidTemperature))

		cfg = DefaultRunConfig()
		cfg.Steps = 0
		_, err = NewSingleRun(cfg).Run(context.Background())
		Expect(err).To(MatchError(ising.ErrNoSamples))
	})
})
