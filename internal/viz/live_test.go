package viz

import (
	"strings"
	"testing"

	"github.com/quantlab/schrod2d/internal/config"
	"github.com/quantlab/schrod2d/internal/engine"
	"github.com/quantlab/schrod2d/internal/potential"
)

func newModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Nx = 32
	cfg.Ny = 32
	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return NewModel(eng, cfg)
}

func TestRenderDensityShape(t *testing.T) {
	m := newModel(t)
	out := m.renderDensity()

	lines := strings.Split(out, "\n")
	if len(lines) != plotHeight {
		t.Fatalf("got %d lines, want %d", len(lines), plotHeight)
	}
	for i, line := range lines {
		if len(line) != plotWidth {
			t.Errorf("line %d has width %d, want %d", i, len(line), plotWidth)
		}
	}
}

func TestRenderDensityShowsPacket(t *testing.T) {
	m := newModel(t)
	out := m.renderDensity()

	// A centered Gaussian must light up at least one bright cell.
	if !strings.ContainsAny(out, "#%@") {
		t.Error("density render contains no bright cells")
	}
	if !strings.Contains(out, " ") {
		t.Error("density render has no empty background")
	}
}

func TestPotentialCycle(t *testing.T) {
	m := newModel(t)
	if m.eng.PotentialKind() != potential.FreeSpace {
		t.Fatalf("initial kind = %q", m.eng.PotentialKind())
	}

	m.potIdx = (m.potIdx + 1) % len(m.potCycle)
	m.eng.SetPotential(m.potCycle[m.potIdx])
	if m.eng.PotentialKind() != potential.FreeSpace {
		t.Errorf("second cycle entry should be free space, got %q", m.eng.PotentialKind())
	}

	m.potIdx = (m.potIdx + 1) % len(m.potCycle)
	m.eng.SetPotential(m.potCycle[m.potIdx])
	if m.eng.PotentialKind() != potential.SquareBarrier {
		t.Errorf("third cycle entry should be a barrier, got %q", m.eng.PotentialKind())
	}
}

func TestViewRenders(t *testing.T) {
	m := newModel(t)
	out := m.View()
	if !strings.Contains(out, "SCHROD2D") {
		t.Error("view missing header")
	}
	if !strings.Contains(out, "RUNNING") {
		t.Error("view missing status")
	}
	if !strings.Contains(out, "FreeSpace") {
		t.Error("view missing potential kind")
	}
}
