// core/engine/blur.go
package engine

import (
	"context"
	"math"
	"math/cmplx"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// BlurParams configures the contextual shift (low-pass blur).
type BlurParams struct {
	Intensity float64 // blend toward the filtered field, [0, 1]
	Magnitude bool    // also blur magnitude, not just phase
}

// Blur low-passes phase (and optionally magnitude) with the fixed
// radius-2 binomial kernel, blending by Intensity: 0 is identity, 1 is
// maximal smoothing within the kernel radius.
//
// Phase is filtered through its cos/sin channels and blended on the unit
// circle, which avoids wrap-around artifacts at the -pi/pi seam.
type Blur struct {
	p BlurParams
}

// NewBlur validates params and returns the engine.
func NewBlur(p BlurParams) (*Blur, error) {
	if p.Intensity < 0 || p.Intensity > 1 {
		return nil, abx.Invalidf("intensity", "%v outside [0,1]", p.Intensity)
	}
	return &Blur{p: p}, nil
}

func (b *Blur) Name() string { return "blur" }

func (b *Blur) ParamMap() map[string]any {
	return map[string]any{"intensity": b.p.Intensity, "magnitude": b.p.Magnitude}
}

func (b *Blur) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	if b.p.Intensity == 0 {
		return f.Clone(), nil
	}
	w, h := f.Width(), f.Height()
	mags := f.Magnitudes()
	phases := f.Phases()

	cosCh := make([]float64, len(phases))
	sinCh := make([]float64, len(phases))
	for i, p := range phases {
		cosCh[i] = math.Cos(p)
		sinCh[i] = math.Sin(p)
	}
	cosB := sepConvolve(cosCh, w, h, binomial5)
	sinB := sepConvolve(sinCh, w, h, binomial5)

	newMags := mags
	if b.p.Magnitude {
		magB := sepConvolve(mags, w, h, binomial5)
		newMags = make([]float64, len(mags))
		for i := range mags {
			newMags[i] = (1-b.p.Intensity)*mags[i] + b.p.Intensity*magB[i]
		}
	}

	a := b.p.Intensity
	out := f.New()
	data := out.Data()
	for i := range data {
		orig := cmplx.Exp(complex(0, phases[i]))
		smooth := cmplx.Exp(complex(0, math.Atan2(sinB[i], cosB[i])))
		blended := complex(1-a, 0)*orig + complex(a, 0)*smooth
		data[i] = complex(newMags[i], 0) * cmplx.Exp(complex(0, cmplx.Phase(blended)))
	}
	return out, nil
}

func init() {
	Register("blur", func(params Params) (Engine, error) {
		p := BlurParams{Magnitude: true}
		var err error
		if p.Intensity, err = params.Float("intensity", 0); err != nil {
			return nil, err
		}
		if p.Magnitude, err = params.Bool("magnitude", p.Magnitude); err != nil {
			return nil, err
		}
		return NewBlur(p)
	})
}
