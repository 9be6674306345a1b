// Package spectral provides the 2D Fourier transforms the propagator
// needs. A Plan caches grid dimensions and runs row and column passes
// in parallel; both directions are unnormalized, so one forward plus
// one inverse pass scales the field by nx*ny. Callers apply the
// normalization themselves.
package spectral

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/quantlab/schrod2d/internal/parallel"
)

// minChunk is the smallest number of rows or columns handed to a
// single worker; below it the pass runs serially.
const minChunk = 8

// Plan performs 2D transforms on a fixed nx by ny grid.
type Plan struct {
	nx, ny int
}

// NewPlan builds a plan for an nx by ny grid.
func NewPlan(nx, ny int) (*Plan, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("spectral: invalid grid %dx%d", nx, ny)
	}
	return &Plan{nx: nx, ny: ny}, nil
}

// Forward replaces data with its unnormalized 2D DFT. The slice must
// hold nx*ny values in row-major order.
func (p *Plan) Forward(data []complex128) {
	p.transform(data, false)
}

// Inverse replaces data with its unnormalized 2D inverse DFT. Dividing
// by nx*ny after a Forward/Inverse pair recovers the input.
func (p *Plan) Inverse(data []complex128) {
	p.transform(data, true)
}

func (p *Plan) transform(data []complex128, inverse bool) {
	nx, ny := p.nx, p.ny

	// Row pass over contiguous subslices.
	parallel.For(nx, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			row := data[i*ny : (i+1)*ny]
			copy(row, dft(row, inverse))
		}
	})

	// Column pass gathers each column through a scratch buffer.
	parallel.For(ny, minChunk, func(start, end int) {
		col := make([]complex128, nx)
		for j := start; j < end; j++ {
			for i := 0; i < nx; i++ {
				col[i] = data[i*ny+j]
			}
			out := dft(col, inverse)
			for i := 0; i < nx; i++ {
				data[i*ny+j] = out[i]
			}
		}
	})
}

// dft runs a 1D transform. The inverse uses the conjugation identity
// IDFT(x) = conj(DFT(conj(x))) to stay unnormalized.
func dft(in []complex128, inverse bool) []complex128 {
	if !inverse {
		return fft.FFT(in)
	}
	tmp := make([]complex128, len(in))
	for i, v := range in {
		tmp[i] = complex(real(v), -imag(v))
	}
	out := fft.FFT(tmp)
	for i, v := range out {
		out[i] = complex(real(v), -imag(v))
	}
	return out
}

// Wavenumbers returns the angular spatial frequencies matching the DFT
// bin layout for n samples over a domain of the given length: positive
// frequencies first, then the negative branch.
func Wavenumbers(n int, length float64) []float64 {
	ks := make([]float64, n)
	for m := range ks {
		if m <= n/2 {
			ks[m] = 2 * math.Pi * float64(m) / length
		} else {
			ks[m] = 2 * math.Pi * float64(m-n) / length
		}
	}
	return ks
}
