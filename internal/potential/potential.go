// Package potential defines the static potential landscapes the
// simulation evolves under. Potentials form a closed set selected by a
// Kind tag; evaluation is a single switch rather than an interface so
// the hot loop stays monomorphic.
package potential

// Kind names a potential shape.
type Kind string

const (
	FreeSpace          Kind = "FreeSpace"
	SquareBarrier      Kind = "SquareBarrier"
	HarmonicOscillator Kind = "HarmonicOscillator"
)

// Parameter floors. Degenerate values are corrected, not rejected, so a
// sloppy config still produces a runnable simulation.
const (
	MinWidth = 1e-3
	MinOmega = 1e-3
)

const (
	defaultHeight = 1.0
	defaultWidth  = 0.5
	defaultOmega  = 1.0
)

// Potential is an immutable potential landscape. The zero value is
// free space.
type Potential struct {
	kind Kind

	// square barrier
	height float64
	width  float64
	cx, cy float64

	// harmonic oscillator
	omega float64
}

// New builds a potential from a kind name and a flat parameter list, as
// read from configuration. Missing parameters take defaults,
// degenerate ones are clamped, and an unknown kind falls back to free
// space.
func New(kind string, params []float64) Potential {
	take := func(idx int, def float64) float64 {
		if idx < len(params) {
			return params[idx]
		}
		return def
	}

	switch Kind(kind) {
	case SquareBarrier:
		return NewSquareBarrier(
			take(0, defaultHeight),
			take(1, defaultWidth),
			take(2, 0),
			take(3, 0),
		)
	case HarmonicOscillator:
		return NewHarmonicOscillator(take(0, defaultOmega))
	case FreeSpace:
		return NewFreeSpace()
	default:
		return NewFreeSpace()
	}
}

// NewFreeSpace returns the zero potential.
func NewFreeSpace() Potential {
	return Potential{kind: FreeSpace}
}

// NewSquareBarrier returns a square barrier of the given height and
// side length centered at (cx, cy). A non-positive width is clamped to
// MinWidth; height may be negative, which makes a well.
func NewSquareBarrier(height, width, cx, cy float64) Potential {
	if width <= 0 {
		width = MinWidth
	}
	return Potential{
		kind:   SquareBarrier,
		height: height,
		width:  width,
		cx:     cx,
		cy:     cy,
	}
}

// NewHarmonicOscillator returns an isotropic harmonic trap centered on
// the origin. A non-positive frequency is clamped to MinOmega.
func NewHarmonicOscillator(omega float64) Potential {
	if omega <= 0 {
		omega = MinOmega
	}
	return Potential{kind: HarmonicOscillator, omega: omega}
}

// Kind reports which shape this potential is.
func (p Potential) Kind() Kind { return p.kind }

// Params returns the effective parameters after clamping, in the same
// order New accepts them.
func (p Potential) Params() []float64 {
	switch p.kind {
	case SquareBarrier:
		return []float64{p.height, p.width, p.cx, p.cy}
	case HarmonicOscillator:
		return []float64{p.omega}
	default:
		return nil
	}
}

// Evaluate returns V(x, y).
func (p Potential) Evaluate(x, y float64) float64 {
	switch p.kind {
	case SquareBarrier:
		h := p.width / 2
		if x >= p.cx-h && x <= p.cx+h && y >= p.cy-h && y <= p.cy+h {
			return p.height
		}
		return 0
	case HarmonicOscillator:
		return 0.5 * p.omega * p.omega * (x*x + y*y)
	default:
		return 0
	}
}
