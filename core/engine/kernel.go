// core/engine/kernel.go
package engine

import (
	"math"

	"psyfield-core/field"
)

// binomial5 is the fixed radius-2 low-pass kernel used by the contextual
// blur (a 5-tap Gaussian approximation). Part of the public contract.
var binomial5 = []float64{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

// gaussKernel builds a normalized 1D Gaussian with radius ceil(3*sigma).
// sigma <= 0 yields the identity kernel.
func gaussKernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	r := int(math.Ceil(3 * sigma))
	k := make([]float64, 2*r+1)
	sum := 0.0
	for i := -r; i <= r; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+r] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// sepConvolve applies the 1D kernel k along both axes of a row-major
// w x h plane. Borders truncate the kernel and renormalize, so no
// wraparound leaks across edges.
func sepConvolve(src []float64, w, h int, k []float64) []float64 {
	r := len(k) / 2
	tmp := make([]float64, len(src))
	out := make([]float64, len(src))

	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			acc, wsum := 0.0, 0.0
			for i := -r; i <= r; i++ {
				xx := x + i
				if xx < 0 || xx >= w {
					continue
				}
				acc += k[i+r] * src[row+xx]
				wsum += k[i+r]
			}
			tmp[row+x] = acc / wsum
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc, wsum := 0.0, 0.0
			for i := -r; i <= r; i++ {
				yy := y + i
				if yy < 0 || yy >= h {
					continue
				}
				acc += k[i+r] * tmp[yy*w+x]
				wsum += k[i+r]
			}
			out[y*w+x] = acc / wsum
		}
	}
	return out
}

// localMean3 returns the 3x3 neighborhood mean of every cell (center
// included, borders truncated).
func localMean3(f *field.Field) []complex128 {
	w, h := f.Width(), f.Height()
	out := make([]complex128, f.Len())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc complex128
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					xx, yy := x+dx, y+dy
					if xx < 0 || xx >= w || yy < 0 || yy >= h {
						continue
					}
					acc += f.At(xx, yy)
					n++
				}
			}
			out[f.Idx(x, y)] = acc / complex(float64(n), 0)
		}
	}
	return out
}

// focusMask builds a Gaussian attention mask centered at pixel
// (fx, fy) with the given spread. Centers outside the grid are allowed
// and simply attenuate the mask toward zero influence.
func focusMask(w, h int, fx, fy, sigmaPx float64) []float64 {
	out := make([]float64, w*h)
	inv := 1.0 / (2 * sigmaPx * sigmaPx)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) - fx
			dy := float64(y) - fy
			out[y*w+x] = math.Exp(-(dx*dx + dy*dy) * inv)
		}
	}
	return out
}
