package experiment

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ising/internal/ising"
)

type recordingObserver struct {
	indices []int
	total   int
}

func (r *recordingObserver) OnTemperature(index, total int, p Point) {
	r.indices = append(r.indices, index)
	r.total = total
}

var _ = Describe("Sweep", func() {
	var cfg SweepConfig

	BeforeEach(func() {
		cfg = SweepConfig{
			Size:           4,
			Temperatures:   Linspace(1, 4, 4),
			Thermalization: 2000,
			Measurement:    5000,
			Replicas:       1,
			Seed:           7,
			Mode:           ising.LocalDelta,
			Init:           "random",
		}
	})

	It("records one point per temperature in order", func() {
		obs := &recordingObserver{}
		sweep := NewSweep(cfg)
		sweep.AddObserver(obs)

		res, err := sweep.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Points).To(HaveLen(4))
		Expect(res.Temperatures()).To(Equal([]float64{1, 2, 3, 4}))
		Expect(obs.indices).To(Equal([]int{0, 1, 2, 3}))
		Expect(obs.total).To(Equal(4))
	})

	It("produces non-negative fluctuation observables", func() {
		res, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		for _, p := range res.Points {
			Expect(p.SpecificHeat).To(BeNumerically(">=", 0))
			Expect(p.Susceptibility).To(BeNumerically(">=", 0))
			Expect(p.Energy).To(BeNumerically(">=", -2))
			Expect(p.Energy).To(BeNumerically("<=", 2))
		}
	})

	It("orders the lattice at low temperature", func() {
		res, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		energies := res.Energies()
		Expect(energies[0]).To(BeNumerically("<", energies[len(energies)-1]))
	})

	It("reports the specific-heat peak as the Curie temperature", func() {
		res, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		heat := res.SpecificHeats()
		for _, c := range heat {
			Expect(heat[res.CurieIndex]).To(BeNumerically(">=", c))
		}
		Expect(res.Curie).To(Equal(res.Points[res.CurieIndex].Temperature))
	})

	It("is reproducible for a fixed seed", func() {
		a, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		b, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Points).To(Equal(b.Points))
	})

	It("gives the same answer with global energy recomputation", func() {
		cfg.Measurement = 500
		cfg.Thermalization = 100
		local, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		cfg.Mode = ising.GlobalEnergy
		global, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(global.Points).To(Equal(local.Points))
	})

	It("attaches standard errors when running replicas", func() {
		cfg.Replicas = 3
		cfg.Measurement = 2000
		res, err := NewSweep(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		for _, p := range res.Points {
			Expect(p.Replicas).To(Equal(3))
			Expect(p.Samples).To(Equal(6000))
			Expect(p.StdErr.Energy).To(BeNumerically(">=", 0))
		}
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewSweep(cfg).Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	DescribeTable("rejects invalid configurations",
		func(mutate func(*SweepConfig)) {
			mutate(&cfg)
			_, err := NewSweep(cfg).Run(context.Background())
			Expect(err).To(HaveOccurred())
		},
		Entry("zero size", func(c *SweepConfig) { c.Size = 0 }),
		Entry("no temperatures", func(c *SweepConfig) { c.Temperatures = nil }),
		Entry("zero temperature", func(c *SweepConfig) { c.Temperatures = []float64{0, 1} }),
		Entry("negative temperature", func(c *SweepConfig) { c.Temperatures = []float64{-1} }),
		Entry("no measurement", func(c *SweepConfig) { c.Measurement = 0 }),
		Entry("negative thermalization", func(c *SweepConfig) { c.Thermalization = -1 }),
		Entry("no replicas", func(c *SweepConfig) { c.Replicas = 0 }),
		Entry("unknown init", func(c *SweepConfig) { c.Init = "spiral" }),
	)
})

var _ = Describe("Linspace", func() {
	It("matches the reference grid", func() {
		ts := Linspace(1, 4, 150)
		Expect(ts).To(HaveLen(150))
		Expect(ts[0]).To(Equal(1.0))
		Expect(ts[149]).To(BeNumerically("~", 4.0, 1e-12))
		Expect(ts[1] - ts[0]).To(BeNumerically("~", 3.0/149, 1e-12))
	})

	It("handles degenerate sizes", func() {
		Expect(Linspace(1, 4, 0)).To(BeEmpty())
		Expect(Linspace(2, 4, 1)).To(Equal([]float64{2}))
	})
})

var _ = Describe("CurieTemperature", func() {
	It("picks the first maximum", func() {
		t, idx, err := CurieTemperature([]float64{1, 2, 3, 4}, []float64{0.1, 0.9, 0.9, 0.2})
		Expect(err).NotTo(HaveOccurred())
		Expect(idx).To(Equal(1))
		Expect(t).To(Equal(2.0))
	})

	It("rejects mismatched input", func() {
		_, _, err := CurieTemperature([]float64{1, 2}, []float64{1})
		Expect(err).To(HaveOccurred())
		_, _, err = CurieTemperature(nil, nil)
		Expect(err).To(HaveOccurred())
	})
})
