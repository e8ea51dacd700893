package engine

import (
	"math"
	"testing"
)

// An axis-aligned stripe pattern varies along exactly one axis, so a
// convolution that skipped that axis would return it unchanged. Interior
// cells of a 0/1 stripe field must land near the 0.5 local average.
func TestSepConvolveSmoothsBothAxes(t *testing.T) {
	w, h := 9, 9
	columns := make([]float64, w*h)
	rows := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			columns[y*w+x] = float64(x % 2)
			rows[y*w+x] = float64(y % 2)
		}
	}
	cases := []struct {
		name string
		src  []float64
	}{
		{"column stripes", columns},
		{"row stripes", rows},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := sepConvolve(tc.src, w, h, binomial5)
			center := out[4*w+4]
			if center == tc.src[4*w+4] {
				t.Fatalf("interior cell unchanged at %v", center)
			}
			if math.Abs(center-0.5) > 0.1 {
				t.Errorf("interior cell = %v, want near 0.5", center)
			}
		})
	}
}

// A constant plane is a fixed point: border truncation renormalizes, so
// no energy leaks at the edges.
func TestSepConvolvePreservesConstant(t *testing.T) {
	w, h := 8, 8
	src := make([]float64, w*h)
	for i := range src {
		src[i] = 2.0
	}
	out := sepConvolve(src, w, h, binomial5)
	for i, v := range out {
		if math.Abs(v-2.0) > 1e-12 {
			t.Fatalf("cell %d = %v, want 2", i, v)
		}
	}
}

// Separability: for an outer-product input f(x,y) = g(x)*g(y), the 2D
// result is the product of the two 1D convolutions.
func TestSepConvolveSeparable(t *testing.T) {
	w, h := 9, 9
	g := []float64{0, 1, 2, 3, 4, 3, 2, 1, 0}
	src := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src[y*w+x] = g[x] * g[y]
		}
	}

	// 1D reference with the same truncate-and-renormalize borders.
	conv1 := func(v []float64) []float64 {
		r := len(binomial5) / 2
		out := make([]float64, len(v))
		for i := range v {
			acc, wsum := 0.0, 0.0
			for j := -r; j <= r; j++ {
				if i+j < 0 || i+j >= len(v) {
					continue
				}
				acc += binomial5[j+r] * v[i+j]
				wsum += binomial5[j+r]
			}
			out[i] = acc / wsum
		}
		return out
	}
	gc := conv1(g)

	out := sepConvolve(src, w, h, binomial5)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := gc[x] * gc[y]
			if math.Abs(out[y*w+x]-want) > 1e-9 {
				t.Fatalf("cell (%d,%d) = %v, want %v", x, y, out[y*w+x], want)
			}
		}
	}
}
