// Package grid holds the discretized wavefunction and the spatial
// quantities derived from it. The field is stored as a flat row-major
// complex slice so the spectral transforms can walk rows contiguously.
package grid

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// minSigma is the floor applied to Gaussian widths. A zero or negative
// width would collapse the packet onto a single grid point.
const minSigma = 1e-6

// Wavefunction is a complex field sampled on an nx by ny grid.
// Point (i, j) lives at data[i*ny+j], with i indexing x and j indexing y.
type Wavefunction struct {
	nx, ny int
	data   []complex128
}

// New allocates a zeroed wavefunction on an nx by ny grid.
func New(nx, ny int) *Wavefunction {
	return &Wavefunction{
		nx:   nx,
		ny:   ny,
		data: make([]complex128, nx*ny),
	}
}

// Nx returns the number of grid points along x.
func (w *Wavefunction) Nx() int { return w.nx }

// Ny returns the number of grid points along y.
func (w *Wavefunction) Ny() int { return w.ny }

// Data exposes the backing slice in row-major order. Callers mutate it
// in place; the wavefunction retains ownership.
func (w *Wavefunction) Data() []complex128 { return w.data }

// At returns the field value at grid point (i, j).
// It panics if the indices fall outside the grid.
func (w *Wavefunction) At(i, j int) complex128 {
	w.check(i, j)
	return w.data[i*w.ny+j]
}

// Set stores v at grid point (i, j).
// It panics if the indices fall outside the grid.
func (w *Wavefunction) Set(i, j int, v complex128) {
	w.check(i, j)
	w.data[i*w.ny+j] = v
}

func (w *Wavefunction) check(i, j int) {
	if i < 0 || i >= w.nx || j < 0 || j >= w.ny {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range %dx%d", i, j, w.nx, w.ny))
	}
}

// Axis returns the n sample coordinates along a domain of the given
// length, centered on the origin: x[i] = -L/2 + i*L/n.
func Axis(n int, length float64) []float64 {
	if n == 1 {
		return []float64{0}
	}
	d := length / float64(n)
	dst := make([]float64, n)
	floats.Span(dst, -length/2, length/2-d)
	return dst
}

// InitGaussian fills the field with a normalized Gaussian wavepacket
// centered at (x0, y0) with widths (sigmaX, sigmaY) and mean momentum
// (kx, ky), on a domain of size lx by ly. Non-positive widths are
// clamped to a small positive floor.
func (w *Wavefunction) InitGaussian(x0, y0, sigmaX, sigmaY, kx, ky, lx, ly float64) {
	if sigmaX <= 0 {
		sigmaX = minSigma
	}
	if sigmaY <= 0 {
		sigmaY = minSigma
	}

	xs := Axis(w.nx, lx)
	ys := Axis(w.ny, ly)

	for i, x := range xs {
		gx := (x - x0) * (x - x0) / (2 * sigmaX * sigmaX)
		row := w.data[i*w.ny : (i+1)*w.ny]
		for j, y := range ys {
			gy := (y - y0) * (y - y0) / (2 * sigmaY * sigmaY)
			row[j] = cmplx.Exp(complex(-(gx + gy), kx*x+ky*y))
		}
	}

	w.Normalize(lx, ly)
}

// Normalize rescales the field so its total probability over the lx by
// ly domain is one. A zero field is left untouched.
func (w *Wavefunction) Normalize(lx, ly float64) {
	total := w.TotalProbability(lx, ly)
	if total <= 0 {
		return
	}
	s := complex(1/math.Sqrt(total), 0)
	for i := range w.data {
		w.data[i] *= s
	}
}

// TotalProbability integrates |psi|^2 over the lx by ly domain with the
// rectangle rule.
func (w *Wavefunction) TotalProbability(lx, ly float64) float64 {
	dx := lx / float64(w.nx)
	dy := ly / float64(w.ny)
	var sum float64
	for _, v := range w.data {
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}
	return sum * dx * dy
}

// Density returns |psi|^2 at every grid point in row-major order.
// The slice is freshly allocated on each call.
func (w *Wavefunction) Density() []float64 {
	out := make([]float64, len(w.data))
	for i, v := range w.data {
		re, im := real(v), imag(v)
		out[i] = re*re + im*im
	}
	return out
}

// Centroid returns the probability-weighted mean position (<x>, <y>)
// on the lx by ly domain.
func (w *Wavefunction) Centroid(lx, ly float64) (float64, float64) {
	xs := Axis(w.nx, lx)
	ys := Axis(w.ny, ly)

	var total, mx, my float64
	for i, x := range xs {
		row := w.data[i*w.ny : (i+1)*w.ny]
		for j, v := range row {
			re, im := real(v), imag(v)
			p := re*re + im*im
			total += p
			mx += p * x
			my += p * ys[j]
		}
	}
	if total <= 0 {
		return 0, 0
	}
	return mx / total, my / total
}

// Spread returns the standard deviation of position along each axis,
// sqrt(<x^2> - <x>^2) and the y analogue.
func (w *Wavefunction) Spread(lx, ly float64) (float64, float64) {
	xs := Axis(w.nx, lx)
	ys := Axis(w.ny, ly)

	var total, mx, my, mx2, my2 float64
	for i, x := range xs {
		row := w.data[i*w.ny : (i+1)*w.ny]
		for j, v := range row {
			re, im := real(v), imag(v)
			p := re*re + im*im
			y := ys[j]
			total += p
			mx += p * x
			my += p * y
			mx2 += p * x * x
			my2 += p * y * y
		}
	}
	if total <= 0 {
		return 0, 0
	}
	mx /= total
	my /= total
	vx := mx2/total - mx*mx
	vy := my2/total - my*my
	if vx < 0 {
		vx = 0
	}
	if vy < 0 {
		vy = 0
	}
	return math.Sqrt(vx), math.Sqrt(vy)
}
