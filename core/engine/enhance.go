// core/engine/enhance.go
package engine

import (
	"context"
	"math"
	"math/cmplx"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// EnhanceParams configures Laplacian edge enhancement.
type EnhanceParams struct {
	Gain    float64 // edge boost strength, >= 0
	Opacity float64 // blend toward the enhanced field, [0, 1]
}

// Enhance boosts magnitude along edges detected with the discrete
// 4-neighbor Laplacian, then blends with the original by Opacity. Phase
// keeps the original value.
type Enhance struct {
	p EnhanceParams
}

// NewEnhance validates params and returns the engine.
func NewEnhance(p EnhanceParams) (*Enhance, error) {
	if p.Gain < 0 {
		return nil, abx.Invalidf("gain", "%v must be >= 0", p.Gain)
	}
	if p.Opacity < 0 || p.Opacity > 1 {
		return nil, abx.Invalidf("opacity", "%v outside [0,1]", p.Opacity)
	}
	return &Enhance{p: p}, nil
}

func (e *Enhance) Name() string { return "enhance" }

func (e *Enhance) ParamMap() map[string]any {
	return map[string]any{"gain": e.p.Gain, "opacity": e.p.Opacity}
}

func (e *Enhance) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	w, h := f.Width(), f.Height()
	mags := f.Magnitudes()

	// 4-neighbor Laplacian with nearest-edge clamping.
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return mags[y*w+x]
	}

	out := f.New()
	data := out.Data()
	src := f.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			lap := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*mags[i]
			enhMag := mags[i] + e.p.Gain*math.Abs(lap)
			enh := complex(enhMag, 0) * cmplx.Exp(complex(0, cmplx.Phase(src[i])))
			data[i] = complex(e.p.Opacity, 0)*enh + complex(1-e.p.Opacity, 0)*src[i]
		}
	}
	return out, nil
}

func init() {
	Register("enhance", func(params Params) (Engine, error) {
		p := EnhanceParams{Gain: 1.5, Opacity: 0.5}
		var err error
		if p.Gain, err = params.Float("gain", p.Gain); err != nil {
			return nil, err
		}
		if p.Opacity, err = params.Float("opacity", p.Opacity); err != nil {
			return nil, err
		}
		return NewEnhance(p)
	})
}
