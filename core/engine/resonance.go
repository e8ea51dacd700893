// core/engine/resonance.go
package engine

import (
	"math"
	"sort"

	"github.com/mjibson/go-dsp/fft"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// ModeStats summarizes the dominant spatial resonance modes of a field.
// Analysis only: no transform, no randomness.
type ModeStats struct {
	NumModes           int       `json:"num_modes"`
	TopMagnitudes      []float64 `json:"top_magnitudes"`
	PowerConcentration float64   `json:"power_concentration"`
	AvgFrequency       float64   `json:"avg_frequency"`
	TotalPower         float64   `json:"total_power"`
}

// ResonanceModes computes the 2D spectrum of the field and extracts the
// numModes strongest off-DC modes: their magnitudes, the fraction of
// total spectral power they carry, and their mean distance from the DC
// bin (average spatial frequency).
func ResonanceModes(f *field.Field, numModes int) (ModeStats, error) {
	if numModes < 1 {
		return ModeStats{}, abx.Invalidf("num_modes", "%d must be >= 1", numModes)
	}
	w, h := f.Width(), f.Height()

	rows := make([][]complex128, h)
	src := f.Data()
	for y := 0; y < h; y++ {
		rows[y] = src[y*w : (y+1)*w]
	}
	spec := fft.FFT2(rows)

	// Shifted magnitude spectrum with the DC bin at the center.
	cy, cx := h/2, w/2
	mag := make([]float64, w*h)
	total := 0.0
	for y := 0; y < h; y++ {
		sy := (y + cy) % h
		for x := 0; x < w; x++ {
			sx := (x + cx) % w
			m := math.Hypot(real(spec[y][x]), imag(spec[y][x]))
			mag[sy*w+sx] = m
			total += m * m
		}
	}

	// Mask out the DC block at the center before ranking modes.
	type mode struct {
		m    float64
		x, y int
	}
	var candidates []mode
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= cx-2 && x <= cx+2 && y >= cy-2 && y <= cy+2 {
				continue
			}
			candidates = append(candidates, mode{m: mag[y*w+x], x: x, y: y})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].m > candidates[j].m })
	if numModes > len(candidates) {
		numModes = len(candidates)
	}
	top := candidates[:numModes]

	topPower, distSum := 0.0, 0.0
	mags := make([]float64, numModes)
	for i, c := range top {
		mags[i] = c.m
		topPower += c.m * c.m
		distSum += math.Hypot(float64(c.x-cx), float64(c.y-cy))
	}

	return ModeStats{
		NumModes:           numModes,
		TopMagnitudes:      mags,
		PowerConcentration: topPower / (total + 1e-8),
		AvgFrequency:       distSum / float64(numModes),
		TotalPower:         total,
	}, nil
}
