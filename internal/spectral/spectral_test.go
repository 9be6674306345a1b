package spectral

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewPlanRejectsBadDims(t *testing.T) {
	cases := []struct{ nx, ny int }{
		{0, 4}, {4, 0}, {-1, 4}, {4, -4},
	}
	for _, tc := range cases {
		if _, err := NewPlan(tc.nx, tc.ny); err == nil {
			t.Errorf("NewPlan(%d,%d) accepted invalid grid", tc.nx, tc.ny)
		}
	}
}

func TestRoundTripRecoversInput(t *testing.T) {
	nx, ny := 16, 16
	plan, err := NewPlan(nx, ny)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]complex128, nx*ny)
	orig := make([]complex128, nx*ny)
	for i := range data {
		data[i] = complex(math.Sin(float64(i)*0.3), math.Cos(float64(i)*0.7))
		orig[i] = data[i]
	}

	plan.Forward(data)
	plan.Inverse(data)

	scale := complex(1/float64(nx*ny), 0)
	for i := range data {
		got := data[i] * scale
		if cmplx.Abs(got-orig[i]) > 1e-12 {
			t.Fatalf("data[%d] = %v after round trip, want %v", i, got, orig[i])
		}
	}
}

func TestForwardMatchesNaiveDFT(t *testing.T) {
	nx, ny := 4, 4
	plan, err := NewPlan(nx, ny)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]complex128, nx*ny)
	for i := range data {
		data[i] = complex(float64(i%5), float64(i%3)-1)
	}

	want := naiveDFT2(data, nx, ny)
	plan.Forward(data)

	for i := range data {
		if cmplx.Abs(data[i]-want[i]) > 1e-10 {
			t.Fatalf("bin %d = %v, want %v", i, data[i], want[i])
		}
	}
}

func naiveDFT2(in []complex128, nx, ny int) []complex128 {
	out := make([]complex128, nx*ny)
	for p := 0; p < nx; p++ {
		for q := 0; q < ny; q++ {
			var sum complex128
			for i := 0; i < nx; i++ {
				for j := 0; j < ny; j++ {
					phase := -2 * math.Pi * (float64(p*i)/float64(nx) + float64(q*j)/float64(ny))
					sum += in[i*ny+j] * cmplx.Exp(complex(0, phase))
				}
			}
			out[p*ny+q] = sum
		}
	}
	return out
}

func TestInverseIsUnnormalized(t *testing.T) {
	nx, ny := 8, 8
	plan, _ := NewPlan(nx, ny)

	// Constant field: forward puts nx*ny in the DC bin; an
	// unnormalized inverse then returns nx*ny times the input.
	data := make([]complex128, nx*ny)
	for i := range data {
		data[i] = 1
	}
	plan.Forward(data)
	plan.Inverse(data)

	want := complex(float64(nx*ny), 0)
	for i := range data {
		if cmplx.Abs(data[i]-want) > 1e-10 {
			t.Fatalf("data[%d] = %v, want %v", i, data[i], want)
		}
	}
}

func TestWavenumbersLayout(t *testing.T) {
	n := 8
	length := 10.0
	ks := Wavenumbers(n, length)
	unit := 2 * math.Pi / length

	if ks[0] != 0 {
		t.Errorf("k[0] = %g, want 0", ks[0])
	}
	if math.Abs(ks[1]-unit) > 1e-12 {
		t.Errorf("k[1] = %g, want %g", ks[1], unit)
	}
	// Nyquist bin stays on the positive branch.
	if math.Abs(ks[n/2]-unit*float64(n/2)) > 1e-12 {
		t.Errorf("k[%d] = %g, want %g", n/2, ks[n/2], unit*float64(n/2))
	}
	if math.Abs(ks[n/2+1]+unit*float64(n/2-1)) > 1e-12 {
		t.Errorf("k[%d] = %g, want %g", n/2+1, ks[n/2+1], -unit*float64(n/2-1))
	}
	if math.Abs(ks[n-1]+unit) > 1e-12 {
		t.Errorf("k[%d] = %g, want %g", n-1, ks[n-1], -unit)
	}
}

func TestWavenumbersOddLength(t *testing.T) {
	ks := Wavenumbers(5, 10.0)
	unit := 2 * math.Pi / 10.0
	want := []float64{0, unit, 2 * unit, -2 * unit, -unit}
	for i := range want {
		if math.Abs(ks[i]-want[i]) > 1e-12 {
			t.Errorf("k[%d] = %g, want %g", i, ks[i], want[i])
		}
	}
}

func BenchmarkForward(b *testing.B) {
	nx, ny := 128, 128
	plan, _ := NewPlan(nx, ny)
	data := make([]complex128, nx*ny)
	for i := range data {
		data[i] = complex(float64(i%7), float64(i%11))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		plan.Forward(data)
	}
}
