// core/engine/absorb.go
package engine

import (
	"context"
	"math"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// AbsorbParams configures localized smoothing (focused absorption).
type AbsorbParams struct {
	FocusX     float64 // normalized focus x, [0, 1]
	FocusY     float64 // normalized focus y, [0, 1]
	Radius     float64 // Gaussian spread as a fraction of min(w,h), (0, 1]
	SmoothGain float64 // blend strength inside the mask, [0, 1]
}

// DefaultAbsorbParams returns a centered medium-spread absorption.
func DefaultAbsorbParams() AbsorbParams {
	return AbsorbParams{FocusX: 0.5, FocusY: 0.5, Radius: 0.3, SmoothGain: 0.5}
}

// Absorb blends cells toward their 3x3 neighborhood mean with weight
// smoothGain * mask(cell), where mask is a Gaussian centered on the
// focus. Unifies the field near the attentional focus, leaving the
// periphery untouched.
type Absorb struct {
	p AbsorbParams
}

// NewAbsorb validates params and returns the engine.
func NewAbsorb(p AbsorbParams) (*Absorb, error) {
	if p.FocusX < 0 || p.FocusX > 1 {
		return nil, abx.Invalidf("focus_x", "%v outside [0,1]", p.FocusX)
	}
	if p.FocusY < 0 || p.FocusY > 1 {
		return nil, abx.Invalidf("focus_y", "%v outside [0,1]", p.FocusY)
	}
	if p.Radius <= 0 || p.Radius > 1 {
		return nil, abx.Invalidf("radius", "%v outside (0,1]", p.Radius)
	}
	if p.SmoothGain < 0 || p.SmoothGain > 1 {
		return nil, abx.Invalidf("smooth_gain", "%v outside [0,1]", p.SmoothGain)
	}
	return &Absorb{p: p}, nil
}

func (a *Absorb) Name() string { return "absorb" }

func (a *Absorb) ParamMap() map[string]any {
	return map[string]any{
		"focus_x": a.p.FocusX, "focus_y": a.p.FocusY,
		"radius": a.p.Radius, "smooth_gain": a.p.SmoothGain,
	}
}

func (a *Absorb) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	w, h := f.Width(), f.Height()
	side := math.Min(float64(w), float64(h))
	mask := focusMask(w, h, a.p.FocusX*float64(w), a.p.FocusY*float64(h), a.p.Radius*side)
	mean := localMean3(f)

	out := f.New()
	data := out.Data()
	src := f.Data()
	for i := range data {
		wgt := a.p.SmoothGain * mask[i]
		data[i] = complex(1-wgt, 0)*src[i] + complex(wgt, 0)*mean[i]
	}
	return out, nil
}

func init() {
	Register("absorb", func(params Params) (Engine, error) {
		p := DefaultAbsorbParams()
		var err error
		if p.FocusX, err = params.Float("focus_x", p.FocusX); err != nil {
			return nil, err
		}
		if p.FocusY, err = params.Float("focus_y", p.FocusY); err != nil {
			return nil, err
		}
		if p.Radius, err = params.Float("radius", p.Radius); err != nil {
			return nil, err
		}
		if p.SmoothGain, err = params.Float("smooth_gain", p.SmoothGain); err != nil {
			return nil, err
		}
		return NewAbsorb(p)
	})
}
