// Package metrics provides run-level diagnostics computed from the
// observable stream.
package metrics

import (
	"math"

	"github.com/quantlab/schrod2d/internal/engine"
)

// NormDrift tracks the worst deviation of total probability from one.
// A growing value usually means the time step is too large for the
// potential.
type NormDrift struct {
	name     string
	maxDrift float64
}

func NewNormDrift() *NormDrift {
	return &NormDrift{name: "norm_drift"}
}

func (n *NormDrift) Name() string { return n.name }

func (n *NormDrift) Observe(obs engine.Observation) {
	drift := math.Abs(obs.Norm - 1)
	n.maxDrift = math.Max(n.maxDrift, drift)
}

func (n *NormDrift) Value() float64 {
	return n.maxDrift
}

func (n *NormDrift) Reset() {
	n.maxDrift = 0
}

// Displacement measures how far the centroid has traveled from its
// first observed position.
type Displacement struct {
	name    string
	x0, y0  float64
	dist    float64
	samples int
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(obs engine.Observation) {
	if d.samples == 0 {
		d.x0, d.y0 = obs.X, obs.Y
	}
	d.samples++
	d.dist = math.Hypot(obs.X-d.x0, obs.Y-d.y0)
}

func (d *Displacement) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.dist
}

func (d *Displacement) Reset() {
	d.x0 = 0
	d.y0 = 0
	d.dist = 0
	d.samples = 0
}

// Spreading measures the growth of the mean packet width between the
// first and latest observation.
type Spreading struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewSpreading() *Spreading {
	return &Spreading{name: "spreading"}
}

func (s *Spreading) Name() string { return s.name }

func (s *Spreading) Observe(obs engine.Observation) {
	width := (obs.SpreadX + obs.SpreadY) / 2
	if s.samples == 0 {
		s.initial = width
	}
	s.samples++
	s.current = width
}

func (s *Spreading) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.current - s.initial
}

func (s *Spreading) Reset() {
	s.initial = 0
	s.current = 0
	s.samples = 0
}
