// Package viz renders a running simulation in the terminal: a shaded
// probability-density heatmap, scalar observables and a norm history
// chart, updating live.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/quantlab/schrod2d/internal/config"
	"github.com/quantlab/schrod2d/internal/engine"
	"github.com/quantlab/schrod2d/internal/potential"
)

const (
	plotWidth    = 64
	plotHeight   = 28
	historyCap   = 400
	stepsPerTick = 4
)

// shades orders characters from empty to full for density rendering.
const shades = " .:-=+*#%@"

type TickMsg time.Time

// Model is the bubbletea state for a live run.
type Model struct {
	eng     *engine.Engine
	cfg     *config.Config
	running bool
	err     error

	normHistory []float64

	potCycle []potential.Potential
	potIdx   int

	driftWarn bool
}

// NewModel wraps an engine for interactive display. The p key cycles
// through the standard potentials starting from the configured one.
func NewModel(eng *engine.Engine, cfg *config.Config) Model {
	cycle := []potential.Potential{
		potential.New(cfg.Potential.Kind, cfg.Potential.Parameters),
		potential.NewFreeSpace(),
		potential.NewSquareBarrier(20.0, 0.5, 0, 0),
		potential.NewHarmonicOscillator(1.0),
	}
	return Model{
		eng:         eng,
		cfg:         cfg,
		running:     true,
		normHistory: make([]float64, 0, historyCap),
		potCycle:    cycle,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Shutdown()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.eng.Reset()
			m.normHistory = m.normHistory[:0]
			m.driftWarn = false
			m.err = nil
		case "p":
			m.potIdx = (m.potIdx + 1) % len(m.potCycle)
			m.eng.SetPotential(m.potCycle[m.potIdx])
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < stepsPerTick; i++ {
				if err := m.eng.Step(); err != nil {
					m.err = err
					m.running = false
					break
				}
			}
			norm := m.eng.TotalProbability()
			m.normHistory = append(m.normHistory, norm)
			if len(m.normHistory) > historyCap {
				m.normHistory = m.normHistory[1:]
			}
			if norm < 0.99 || norm > 1.01 {
				m.driftWarn = true
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	canvas := canvasStyle.Render(m.renderDensity())

	var s strings.Builder
	s.WriteString(headerStyle.Render("SCHROD2D") + "\n")
	status := "RUNNING"
	if m.err != nil {
		status = "STOPPED"
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	obs := m.eng.Observe()
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f", obs.Time)) + "\n")
	normStr := fmt.Sprintf("%.6f", obs.Norm)
	if m.driftWarn {
		s.WriteString(labelStyle.Render("Norm") + warnStyle.Render(normStr+" !") + "\n")
	} else {
		s.WriteString(labelStyle.Render("Norm") + valueStyle.Render(normStr) + "\n")
	}
	s.WriteString(labelStyle.Render("Centroid") + valueStyle.Render(fmt.Sprintf("(%.2f, %.2f)", obs.X, obs.Y)) + "\n")
	s.WriteString(labelStyle.Render("Spread") + valueStyle.Render(fmt.Sprintf("(%.2f, %.2f)", obs.SpreadX, obs.SpreadY)) + "\n")
	s.WriteString(labelStyle.Render("Potential") + valueStyle.Render(string(m.eng.PotentialKind())) + "\n")
	s.WriteString(labelStyle.Render("Grid") + valueStyle.Render(fmt.Sprintf("%dx%d", m.eng.Nx(), m.eng.Ny())) + "\n")

	if len(m.normHistory) > 1 {
		chart := asciigraph.Plot(m.normHistory,
			asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Norm"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset P:Potential Q:Quit"))
	stats := statsStyle.Render(s.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats)
}

// renderDensity downsamples the density field to the plot size by
// block averaging and maps each block to a shade character.
func (m Model) renderDensity() string {
	density := m.eng.ProbabilityDensity()
	nx, ny := m.eng.Nx(), m.eng.Ny()

	var peak float64
	for _, v := range density {
		if v > peak {
			peak = v
		}
	}

	var sb strings.Builder
	for row := plotHeight - 1; row >= 0; row-- {
		for col := 0; col < plotWidth; col++ {
			i0 := col * nx / plotWidth
			i1 := (col + 1) * nx / plotWidth
			j0 := row * ny / plotHeight
			j1 := (row + 1) * ny / plotHeight
			if i1 <= i0 {
				i1 = i0 + 1
			}
			if j1 <= j0 {
				j1 = j0 + 1
			}

			var sum float64
			var count int
			for i := i0; i < i1 && i < nx; i++ {
				for j := j0; j < j1 && j < ny; j++ {
					sum += density[i*ny+j]
					count++
				}
			}
			var v float64
			if count > 0 && peak > 0 {
				v = sum / float64(count) / peak
			}
			idx := int(v * float64(len(shades)-1))
			if idx >= len(shades) {
				idx = len(shades) - 1
			}
			sb.WriteByte(shades[idx])
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Run drives the live view until the user quits.
func Run(eng *engine.Engine, cfg *config.Config) error {
	p := tea.NewProgram(NewModel(eng, cfg))
	_, err := p.Run()
	return err
}
