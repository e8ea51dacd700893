// core/valence/simplicity.go
package valence

import (
	"math"

	"psyfield-core/field"
)

// Simplicity scores geometric simplicity from phase and magnitude
// variance: uniform fields are simple, high-variance fields are complex.
type Simplicity struct {
	PhaseVariance       float64 `json:"phase_variance"`
	MagnitudeVariance   float64 `json:"magnitude_variance"`
	PhaseSimplicity     float64 `json:"phase_simplicity"`
	MagnitudeSimplicity float64 `json:"magnitude_simplicity"`
	Overall             float64 `json:"overall_simplicity"`
}

// magVarScale tempers the magnitude-variance contribution; relative
// variance well above the mean only gradually erodes simplicity.
const magVarScale = 10.0

// ComputeSimplicity derives the simplicity scores of a field.
func ComputeSimplicity(f *field.Field) Simplicity {
	phases := f.Phases()
	mags := f.Magnitudes()

	pv := variance(phases)
	mv := variance(mags)

	meanMag := mean(mags)
	normPhase := pv / (math.Pi * math.Pi)
	normMag := mv / (meanMag*meanMag + 1e-8)

	s := Simplicity{
		PhaseVariance:       pv,
		MagnitudeVariance:   mv,
		PhaseSimplicity:     1 - clamp(normPhase, 0, 1),
		MagnitudeSimplicity: 1 - clamp(normMag/magVarScale, 0, 1),
	}
	s.Overall = (s.PhaseSimplicity + s.MagnitudeSimplicity) / 2
	return s
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}
