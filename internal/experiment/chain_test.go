package experiment

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/metrics"
)

var _ = Describe("Chain", func() {
	var (
		ctx   context.Context
		chain *Chain
	)

	BeforeEach(func() {
		ctx = context.Background()
		rng := ising.NewRand(3, 0)
		var err error
		chain, err = NewChain(lattice.Random(4, rng), 2.0, rng, ising.LocalDelta)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts initialized", func() {
		Expect(chain.Phase()).To(Equal(PhaseInitialized))
	})

	It("walks through every phase in order", func() {
		Expect(chain.Thermalize(ctx, 100)).To(Succeed())
		Expect(chain.Phase()).To(Equal(PhaseThermalizing))

		Expect(chain.Measure(ctx, 500)).To(Succeed())
		Expect(chain.Phase()).To(Equal(PhaseFinalized))

		obs, err := chain.Observables()
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.Samples).To(Equal(500))
		Expect(obs.Temperature).To(Equal(2.0))
	})

	It("allows zero thermalization steps", func() {
		Expect(chain.Thermalize(ctx, 0)).To(Succeed())
		Expect(chain.Measure(ctx, 10)).To(Succeed())
	})

	It("refuses to measure before thermalizing", func() {
		err := chain.Measure(ctx, 10)
		Expect(err).To(MatchError(ising.ErrPhase))
		Expect(chain.Phase()).To(Equal(PhaseInitialized))
	})

	It("refuses to report observables before measuring", func() {
		Expect(chain.Thermalize(ctx, 10)).To(Succeed())
		_, err := chain.Observables()
		Expect(err).To(MatchError(ising.ErrPhase))
	})

	It("refuses to thermalize twice", func() {
		Expect(chain.Thermalize(ctx, 10)).To(Succeed())
		Expect(chain.Thermalize(ctx, 10)).To(MatchError(ising.ErrPhase))
	})

	It("rejects an empty measurement", func() {
		Expect(chain.Thermalize(ctx, 10)).To(Succeed())
		Expect(chain.Measure(ctx, 0)).To(MatchError(ising.ErrNoSamples))
	})

	It("stops on a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := chain.Thermalize(cctx, 10)
		Expect(err).To(MatchError(context.Canceled))

		var chainErr *ising.ChainError
		Expect(err).To(BeAssignableToTypeOf(chainErr))
	})

	It("measures the current lattice after rejected moves too", func() {
		rng := ising.NewRand(1, 0)
		cold, err := NewChain(lattice.New(2), 0.01, rng, ising.LocalDelta)
		Expect(err).NotTo(HaveOccurred())
		series := metrics.NewSeries(0)
		cold.AddMetric(series)

		Expect(cold.Thermalize(ctx, 0)).To(Succeed())
		Expect(cold.Measure(ctx, 1000)).To(Succeed())

		Expect(series.Len()).To(Equal(1000))
		Expect(series.Accepted).To(BeZero())
		for _, m := range series.Magnetisation {
			Expect(math.Abs(m)).To(Equal(4.0))
		}
		obs, err := cold.Observables()
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.Energy).To(Equal(-2.0))
		Expect(obs.Magnetisation).To(Equal(1.0))
		Expect(obs.SpecificHeat).To(BeZero())
	})

	It("rejects a non-positive temperature", func() {
		_, err := NewChain(lattice.New(2), 0, ising.NewRand(0, 0), ising.LocalDelta)
		Expect(err).To(MatchError(ising.ErrInvalidTemperature))
	})

	It("names its phases", func() {
		Expect(PhaseMeasuring.String()).To(Equal("measuring"))
		Expect(Phase(9).String()).To(Equal("phase(9)"))
	})
})
