package metrics

import (
	"math"
	"testing"

	"github.com/quantlab/schrod2d/internal/engine"
)

func TestNormDrift(t *testing.T) {
	m := NewNormDrift()
	if m.Value() != 0 {
		t.Errorf("initial value = %g, want 0", m.Value())
	}

	m.Observe(engine.Observation{Norm: 1.0})
	m.Observe(engine.Observation{Norm: 0.999})
	m.Observe(engine.Observation{Norm: 1.0002})

	if got := m.Value(); math.Abs(got-0.001) > 1e-12 {
		t.Errorf("drift = %g, want 0.001", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("value after reset = %g, want 0", m.Value())
	}
}

func TestNormDriftKeepsMaximum(t *testing.T) {
	m := NewNormDrift()
	m.Observe(engine.Observation{Norm: 1.01})
	m.Observe(engine.Observation{Norm: 1.0})
	if got := m.Value(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("drift = %g, want 0.01 retained", got)
	}
}

func TestDisplacement(t *testing.T) {
	m := NewDisplacement()
	if m.Value() != 0 {
		t.Errorf("no-sample value = %g, want 0", m.Value())
	}

	m.Observe(engine.Observation{X: 1, Y: 1})
	if m.Value() != 0 {
		t.Errorf("single-sample value = %g, want 0", m.Value())
	}

	m.Observe(engine.Observation{X: 4, Y: 5})
	if got := m.Value(); math.Abs(got-5) > 1e-12 {
		t.Errorf("displacement = %g, want 5", got)
	}

	m.Reset()
	m.Observe(engine.Observation{X: 10, Y: 10})
	if m.Value() != 0 {
		t.Errorf("value after reset+observe = %g, want 0", m.Value())
	}
}

func TestSpreading(t *testing.T) {
	m := NewSpreading()
	if m.Value() != 0 {
		t.Errorf("no-sample value = %g, want 0", m.Value())
	}

	m.Observe(engine.Observation{SpreadX: 0.5, SpreadY: 0.5})
	m.Observe(engine.Observation{SpreadX: 0.8, SpreadY: 0.6})

	if got := m.Value(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("spreading = %g, want 0.2", got)
	}
}

func TestMetricsImplementInterface(t *testing.T) {
	var _ engine.Metric = NewNormDrift()
	var _ engine.Metric = NewDisplacement()
	var _ engine.Metric = NewSpreading()
}
