// Package engine advances a 2D wavefunction under the time-dependent
// Schroedinger equation with the split-step Fourier method. Each step
// applies a half potential phase in position space, the full kinetic
// phase in momentum space, then the second half potential phase:
//
//	psi(t+dt) = exp(-iV dt/2) F^-1 exp(-i k^2/2 dt) F exp(-iV dt/2) psi(t)
//
// Units are scaled so hbar = 1 and m = 1.
package engine

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/quantlab/schrod2d/internal/config"
	"github.com/quantlab/schrod2d/internal/grid"
	"github.com/quantlab/schrod2d/internal/parallel"
	"github.com/quantlab/schrod2d/internal/potential"
	"github.com/quantlab/schrod2d/internal/spectral"
)

// ErrShutdown is returned by Step after the engine has been shut down.
var ErrShutdown = errors.New("engine: stepped after shutdown")

// minRowChunk is the smallest row count a phase-application worker
// takes; each row already covers ny points.
const minRowChunk = 4

// Engine owns the wavefunction, the potential and the spectral plan
// for one simulation. It is not safe for concurrent use.
type Engine struct {
	nx, ny int
	lx, ly float64
	dt     float64
	t      float64

	wf     *grid.Wavefunction
	pot    potential.Potential
	packet config.Wavepacket
	plan   *spectral.Plan

	kx, ky []float64
	xs, ys []float64

	closed bool
}

// New builds an engine from a config. Degenerate numeric parameters
// are clamped; invalid grid dimensions are an error.
func New(cfg *config.Config) (*Engine, error) {
	if cfg.Nx <= 0 || cfg.Ny <= 0 {
		return nil, fmt.Errorf("engine: invalid grid %dx%d", cfg.Nx, cfg.Ny)
	}
	c := *cfg
	c.Clamp()

	plan, err := spectral.NewPlan(c.Nx, c.Ny)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		nx:     c.Nx,
		ny:     c.Ny,
		lx:     c.Length,
		ly:     c.Length,
		dt:     c.Dt,
		wf:     grid.New(c.Nx, c.Ny),
		pot:    potential.New(c.Potential.Kind, c.Potential.Parameters),
		packet: c.Wavepacket,
		plan:   plan,
		kx:     spectral.Wavenumbers(c.Nx, c.Length),
		ky:     spectral.Wavenumbers(c.Ny, c.Length),
		xs:     grid.Axis(c.Nx, c.Length),
		ys:     grid.Axis(c.Ny, c.Length),
	}
	e.initWavefunction()
	return e, nil
}

func (e *Engine) initWavefunction() {
	p := e.packet
	e.wf.InitGaussian(p.X0, p.Y0, p.SigmaX, p.SigmaY, p.Kx, p.Ky, e.lx, e.ly)
}

// Step advances the state by one time step.
func (e *Engine) Step() error {
	if e.closed {
		return ErrShutdown
	}
	e.applyPotentialHalfStep()
	e.applyKineticStep()
	e.applyPotentialHalfStep()
	e.t += e.dt
	return nil
}

// applyPotentialHalfStep multiplies each point by exp(-i V dt/2).
func (e *Engine) applyPotentialHalfStep() {
	data := e.wf.Data()
	halfDt := e.dt / 2

	parallel.For(e.nx, minRowChunk, func(start, end int) {
		for i := start; i < end; i++ {
			x := e.xs[i]
			row := data[i*e.ny : (i+1)*e.ny]
			for j := range row {
				phase := -e.pot.Evaluate(x, e.ys[j]) * halfDt
				row[j] *= cmplx.Exp(complex(0, phase))
			}
		}
	})
}

// applyKineticStep transforms to momentum space, multiplies each mode
// by exp(-i k^2/2 dt) and transforms back. The transforms are
// unnormalized, so the field is rescaled by 1/(nx*ny) at the end.
func (e *Engine) applyKineticStep() {
	data := e.wf.Data()

	e.plan.Forward(data)

	parallel.For(e.nx, minRowChunk, func(start, end int) {
		for i := start; i < end; i++ {
			kx2 := e.kx[i] * e.kx[i]
			row := data[i*e.ny : (i+1)*e.ny]
			for j := range row {
				k2 := kx2 + e.ky[j]*e.ky[j]
				phase := -0.5 * k2 * e.dt
				row[j] *= cmplx.Exp(complex(0, phase))
			}
		}
	})

	e.plan.Inverse(data)

	scale := complex(1/float64(e.nx*e.ny), 0)
	parallel.For(len(data), 4096, func(start, end int) {
		for i := start; i < end; i++ {
			data[i] *= scale
		}
	})
}

// Reset restores the initial wavepacket and rewinds time to zero.
func (e *Engine) Reset() {
	e.t = 0
	e.initWavefunction()
}

// Reconfigure applies a new config to a running engine. The grid and
// state are rebuilt only when the dimensions change; the spatial axes
// and momentum grids are always recomputed since they also depend on
// the domain length.
func (e *Engine) Reconfigure(cfg *config.Config) error {
	if cfg.Nx <= 0 || cfg.Ny <= 0 {
		return fmt.Errorf("engine: invalid grid %dx%d", cfg.Nx, cfg.Ny)
	}
	c := *cfg
	c.Clamp()

	if c.Nx != e.nx || c.Ny != e.ny {
		plan, err := spectral.NewPlan(c.Nx, c.Ny)
		if err != nil {
			return err
		}
		e.nx, e.ny = c.Nx, c.Ny
		e.plan = plan
		e.wf = grid.New(c.Nx, c.Ny)
	}

	e.lx, e.ly = c.Length, c.Length
	e.dt = c.Dt
	e.pot = potential.New(c.Potential.Kind, c.Potential.Parameters)
	e.packet = c.Wavepacket
	e.kx = spectral.Wavenumbers(e.nx, e.lx)
	e.ky = spectral.Wavenumbers(e.ny, e.ly)
	e.xs = grid.Axis(e.nx, e.lx)
	e.ys = grid.Axis(e.ny, e.ly)

	e.t = 0
	e.initWavefunction()
	return nil
}

// SetPotential swaps the potential landscape without touching the
// state or the clock.
func (e *Engine) SetPotential(p potential.Potential) {
	e.pot = p
}

// Shutdown marks the engine as finished. Further Step calls return
// ErrShutdown; queries keep working. Safe to call more than once.
func (e *Engine) Shutdown() {
	e.closed = true
}

// CurrentTime returns the simulated time.
func (e *Engine) CurrentTime() float64 { return e.t }

// Dt returns the time step.
func (e *Engine) Dt() float64 { return e.dt }

// Nx returns the grid width.
func (e *Engine) Nx() int { return e.nx }

// Ny returns the grid height.
func (e *Engine) Ny() int { return e.ny }

// Length returns the side length of the square domain.
func (e *Engine) Length() float64 { return e.lx }

// PotentialKind reports the active potential's kind.
func (e *Engine) PotentialKind() potential.Kind { return e.pot.Kind() }

// Potential returns the active potential.
func (e *Engine) Potential() potential.Potential { return e.pot }

// TotalProbability integrates |psi|^2 over the domain.
func (e *Engine) TotalProbability() float64 {
	return e.wf.TotalProbability(e.lx, e.ly)
}

// ProbabilityDensity returns |psi|^2 on the grid in row-major order.
func (e *Engine) ProbabilityDensity() []float64 {
	return e.wf.Density()
}

// Centroid returns the mean position (<x>, <y>).
func (e *Engine) Centroid() (float64, float64) {
	return e.wf.Centroid(e.lx, e.ly)
}

// Spread returns the position standard deviations along x and y.
func (e *Engine) Spread() (float64, float64) {
	return e.wf.Spread(e.lx, e.ly)
}

// Observe captures the current scalar observables.
func (e *Engine) Observe() Observation {
	cx, cy := e.Centroid()
	sx, sy := e.Spread()
	return Observation{
		Time:    e.t,
		Norm:    e.TotalProbability(),
		X:       cx,
		Y:       cy,
		SpreadX: sx,
		SpreadY: sy,
	}
}
