// core/valence/valence.go
package valence

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// Valence weighting. Part of the public contract: tests pin expected
// scores against these names, so changing them is a versioned decision.
const (
	WeightCoherence = 0.4
	WeightSymmetry  = 0.3
	WeightRoughness = 0.2
	WeightRichness  = 0.1

	// The weighted combination spans [rawMin, rawMax]; it is affinely
	// mapped onto [-1, 1] and clamped for stability at the edges.
	rawMin = -WeightRoughness
	rawMax = WeightCoherence + WeightSymmetry + WeightRichness
)

// RichnessBins is the number of angular bins for the phase-entropy
// richness score.
const RichnessBins = 16

// ScoreSet is the five-scalar quality summary of a field. Produced fresh
// per call, never mutated after construction.
type ScoreSet struct {
	Valence   float64 `json:"valence"`   // [-1, 1]
	Coherence float64 `json:"coherence"` // [0, 1]
	Symmetry  float64 `json:"symmetry"`  // [0, 1]
	Roughness float64 `json:"roughness"` // [0, 1]
	Richness  float64 `json:"richness"`  // [0, 1]
}

// Compute reduces a field to its ScoreSet. Usable standalone on any
// externally supplied field of valid shape; fails rather than scoring a
// field containing NaN or Inf.
func Compute(f *field.Field) (ScoreSet, error) {
	if x, y, bad := f.FirstNonFinite(); bad {
		return ScoreSet{}, &abx.NumericInstabilityError{Engine: "valence", X: x, Y: y}
	}

	mags := f.Magnitudes()
	phases := f.Phases()

	s := ScoreSet{
		Coherence: coherence(phases),
		Symmetry:  symmetry(mags, f.Width(), f.Height()),
		Roughness: roughness(mags, f.Width(), f.Height()),
		Richness:  richness(phases),
	}
	raw := WeightCoherence*s.Coherence +
		WeightSymmetry*s.Symmetry -
		WeightRoughness*s.Roughness +
		WeightRichness*s.Richness
	s.Valence = normalizeValence(raw)
	return s, nil
}

// normalizeValence maps the raw weighted span onto [-1, 1] and clamps.
func normalizeValence(raw float64) float64 {
	v := (raw-rawMin)/(rawMax-rawMin)*2 - 1
	return clamp(v, -1, 1)
}

// coherence is the Kuramoto order parameter |mean(e^{i theta})|: 1 means
// perfect phase alignment.
func coherence(phases []float64) float64 {
	var sr, si float64
	for _, p := range phases {
		sr += math.Cos(p)
		si += math.Sin(p)
	}
	n := float64(len(phases))
	return clamp(math.Hypot(sr/n, si/n), 0, 1)
}

// symmetry measures mirror symmetry of the magnitude map across both
// axes: mean absolute difference between each cell and its horizontal and
// vertical mirror, normalized by the observed magnitude range and
// inverted so 1 means perfect symmetry.
func symmetry(mags []float64, w, h int) float64 {
	rng := floats.Max(mags) - floats.Min(mags)
	if rng == 0 {
		return 1 // flat field is trivially symmetric
	}
	var dh, dv float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := mags[y*w+x]
			dh += math.Abs(m - mags[y*w+(w-1-x)])
			dv += math.Abs(m - mags[(h-1-y)*w+x])
		}
	}
	n := float64(w * h)
	asym := 0.5 * (dh + dv) / (n * rng)
	return clamp(1-asym, 0, 1)
}

// roughness is the mean squared forward-difference gradient of magnitude,
// normalized by the squared magnitude range so the score stays bounded.
func roughness(mags []float64, w, h int) float64 {
	rng := floats.Max(mags) - floats.Min(mags)
	if rng == 0 {
		return 0
	}
	var sum float64
	var n int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x+1 < w {
				d := mags[i+1] - mags[i]
				sum += d * d
				n++
			}
			if y+1 < h {
				d := mags[i+w] - mags[i]
				sum += d * d
				n++
			}
		}
	}
	return clamp(sum/float64(n)/(rng*rng), 0, 1)
}

// richness is the normalized Shannon entropy of the phase distribution
// over RichnessBins angular bins: 0 for a single occupied bin, 1 for a
// uniform spread.
func richness(phases []float64) float64 {
	var hist [RichnessBins]float64
	for _, p := range phases {
		// Phase is in (-pi, pi]; bin index in [0, RichnessBins).
		b := int((p + math.Pi) / (2 * math.Pi) * RichnessBins)
		if b >= RichnessBins {
			b = RichnessBins - 1
		}
		if b < 0 {
			b = 0
		}
		hist[b]++
	}
	total := floats.Sum(hist[:])
	var ent float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := c / total
		ent -= p * math.Log(p)
	}
	return clamp(ent/math.Log(RichnessBins), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
