package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the positive-frequency half
// of the series' DFT, DC bin included.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	bins := fft.FFTReal(data)
	ps := make([]float64, len(bins)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest non-DC
// spectral bin, in cycles per unit time given the sample spacing dt.
// Series shorter than two samples have no meaningful spectrum and
// return zero.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 2 || dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(data)

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(len(data)) * dt)
}

// LinearFit returns the least-squares slope and intercept of y against
// x. Degenerate inputs (mismatched, empty, or all x equal) fit a flat
// line through the mean.
func LinearFit(x, y []float64) (slope, intercept float64) {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0, 0
	}

	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += x[i]
		sy += y[i]
	}
	mx := sx / float64(n)
	my := sy / float64(n)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		sxx += dx * dx
		sxy += dx * (y[i] - my)
	}
	if sxx == 0 {
		return 0, my
	}
	slope = sxy / sxx
	intercept = my - slope*mx
	return slope, intercept
}
