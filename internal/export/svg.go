package export

import (
	"fmt"
	"math"
	"strings"
)

// DensityToSVG renders a probability density field as an SVG heatmap.
// The field is row-major nx by ny with cell pixels per grid point,
// peak-normalized so the brightest point maps to the top of the color
// ramp. Cells below 1/512 of the peak are left as background.
func DensityToSVG(density []float64, nx, ny int, cell int) string {
	if nx <= 0 || ny <= 0 || len(density) != nx*ny {
		return ""
	}
	if cell <= 0 {
		cell = 4
	}

	var peak float64
	for _, v := range density {
		if v > peak {
			peak = v
		}
	}

	width := nx * cell
	height := ny * cell

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if peak > 0 {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				v := density[i*ny+j] / peak
				if v < 1.0/512 {
					continue
				}
				r, g, b := heat(v)
				// SVG y grows downward; flip so +y points up.
				px := i * cell
				py := (ny - 1 - j) * cell
				sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="#%02x%02x%02x"/>
`, px, py, cell, cell, r, g, b))
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CentroidTrailToSVG draws the centroid path of a run as a polyline in
// domain coordinates, with the domain square mapped to the viewport.
func CentroidTrailToSVG(xs, ys []float64, length float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) || length <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range xs {
		px := (xs[i]/length + 0.5) * float64(width)
		py := float64(height) - (ys[i]/length+0.5)*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// heat maps a normalized intensity to a dark-violet-to-yellow ramp.
func heat(v float64) (r, g, b int) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	switch {
	case v < 0.25:
		t := v / 0.25
		return lerp(68, 59, t), lerp(1, 82, t), lerp(84, 139, t)
	case v < 0.5:
		t := (v - 0.25) / 0.25
		return lerp(59, 33, t), lerp(82, 145, t), lerp(139, 140, t)
	case v < 0.75:
		t := (v - 0.5) / 0.25
		return lerp(33, 94, t), lerp(145, 201, t), lerp(140, 98, t)
	default:
		t := (v - 0.75) / 0.25
		return lerp(94, 253, t), lerp(201, 231, t), lerp(98, 37, t)
	}
}

func lerp(a, b int, t float64) int {
	return a + int(math.Round(t*float64(b-a)))
}
