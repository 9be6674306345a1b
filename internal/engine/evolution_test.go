package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantlab/schrod2d/internal/config"
	"github.com/quantlab/schrod2d/internal/engine"
)

func freeSpaceConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Nx = 64
	cfg.Ny = 64
	cfg.Length = 10.0
	cfg.Dt = 0.001
	cfg.Wavepacket.SigmaX = 1.0
	cfg.Wavepacket.SigmaY = 1.0
	cfg.Wavepacket.Kx = 2.0
	return cfg
}

func harmonicConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Nx = 64
	cfg.Ny = 64
	cfg.Length = 20.0
	cfg.Dt = 0.001
	cfg.Potential.Kind = "HarmonicOscillator"
	cfg.Potential.Parameters = []float64{1.0}
	cfg.Wavepacket.SigmaX = 1.0
	cfg.Wavepacket.SigmaY = 1.0
	return cfg
}

func advance(eng *engine.Engine, steps int) {
	for i := 0; i < steps; i++ {
		Expect(eng.Step()).To(Succeed())
	}
}

var _ = Describe("Free-space evolution", func() {
	It("conserves total probability", func() {
		eng, err := engine.New(freeSpaceConfig())
		Expect(err).NotTo(HaveOccurred())

		advance(eng, 100)
		Expect(eng.TotalProbability()).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("moves the centroid at the group velocity", func() {
		eng, err := engine.New(freeSpaceConfig())
		Expect(err).NotTo(HaveOccurred())

		// With hbar = m = 1 the packet drifts at v = kx, so after
		// t = 0.1 the centroid sits near x = 0.2.
		advance(eng, 100)
		cx, cy := eng.Centroid()
		Expect(cx).To(BeNumerically("~", 0.2, 0.05))
		Expect(cy).To(BeNumerically("~", 0.0, 1e-6))
	})

	It("spreads the packet over time", func() {
		eng, err := engine.New(freeSpaceConfig())
		Expect(err).NotTo(HaveOccurred())

		sx0, _ := eng.Spread()
		advance(eng, 500)
		sx1, _ := eng.Spread()
		Expect(sx1).To(BeNumerically(">", sx0))
	})
})

var _ = Describe("Harmonic oscillator evolution", func() {
	It("holds the ground state stationary", func() {
		// sigma = 1/sqrt(omega) = 1 is the exact ground state; its
		// density should only pick up a global phase.
		eng, err := engine.New(harmonicConfig())
		Expect(err).NotTo(HaveOccurred())

		before := eng.ProbabilityDensity()
		advance(eng, 200)
		after := eng.ProbabilityDensity()

		var maxDiff float64
		for i := range before {
			if d := math.Abs(after[i] - before[i]); d > maxDiff {
				maxDiff = d
			}
		}
		Expect(maxDiff).To(BeNumerically("<", 1e-3))
	})

	It("oscillates a displaced packet at the trap frequency", func() {
		cfg := harmonicConfig()
		cfg.Wavepacket.X0 = 0.5
		eng, err := engine.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		// A coherent state follows <x>(t) = x0 cos(omega t).
		advance(eng, 1000)
		t := eng.CurrentTime()
		cx, _ := eng.Centroid()
		Expect(cx).To(BeNumerically("~", 0.5*math.Cos(t), 0.02))
	})

	It("conserves total probability in the trap", func() {
		eng, err := engine.New(harmonicConfig())
		Expect(err).NotTo(HaveOccurred())

		advance(eng, 500)
		Expect(eng.TotalProbability()).To(BeNumerically("~", 1.0, 1e-6))
	})
})

var _ = Describe("Reset", func() {
	It("restores the initial state exactly", func() {
		cfg := freeSpaceConfig()
		eng, err := engine.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		fresh, err := engine.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		advance(eng, 50)
		eng.Reset()

		Expect(eng.CurrentTime()).To(BeZero())
		Expect(eng.TotalProbability()).To(BeNumerically("~", 1.0, 1e-10))

		got := eng.ProbabilityDensity()
		want := fresh.ProbabilityDensity()
		for i := range want {
			Expect(got[i]).To(BeNumerically("~", want[i], 1e-12))
		}
	})
})

var _ = Describe("Square barrier", func() {
	It("keeps probability on the incident side early on", func() {
		cfg := config.DefaultConfig()
		cfg.Nx = 128
		cfg.Ny = 128
		cfg.Dt = 0.0005
		cfg.Potential.Kind = "SquareBarrier"
		cfg.Potential.Parameters = []float64{20.0, 0.2, 0, 0}
		cfg.Wavepacket.X0 = -1.0
		cfg.Wavepacket.SigmaX = 0.2
		cfg.Wavepacket.SigmaY = 0.2
		cfg.Wavepacket.Kx = 5.0

		eng, err := engine.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		advance(eng, 100)
		Expect(eng.TotalProbability()).To(BeNumerically("~", 1.0, 1e-6))

		cx, _ := eng.Centroid()
		// The packet has started toward the barrier but most of it
		// has not crossed yet.
		Expect(cx).To(BeNumerically(">", -1.0))
		Expect(cx).To(BeNumerically("<", 0.5))
	})
})
