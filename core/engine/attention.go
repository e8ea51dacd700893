// core/engine/attention.go
package engine

import (
	"context"
	"math"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// AttentionParams configures attentional gain.
//
// FocusX/FocusY outside [0,1] are permitted: the mask simply shifts
// off-grid, attenuating the effect toward zero influence.
type AttentionParams struct {
	FocusX float64 // normalized focus x
	FocusY float64 // normalized focus y
	Gain   float64 // magnitude multiplier at the focus, >= 0
}

// AttentionSigmaFrac fixes the Gaussian spread at this fraction of the
// smaller grid side.
const AttentionSigmaFrac = 0.25

// Attention multiplies magnitude by 1 + gain*mask(cell), phase untouched.
type Attention struct {
	p AttentionParams
}

// NewAttention validates params and returns the engine.
func NewAttention(p AttentionParams) (*Attention, error) {
	if p.Gain < 0 {
		return nil, abx.Invalidf("gain", "%v must be >= 0", p.Gain)
	}
	return &Attention{p: p}, nil
}

func (a *Attention) Name() string { return "attention" }

func (a *Attention) ParamMap() map[string]any {
	return map[string]any{"focus_x": a.p.FocusX, "focus_y": a.p.FocusY, "gain": a.p.Gain}
}

func (a *Attention) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	if a.p.Gain == 0 {
		return f.Clone(), nil
	}
	w, h := f.Width(), f.Height()
	sigma := AttentionSigmaFrac * math.Min(float64(w), float64(h))
	mask := focusMask(w, h, a.p.FocusX*float64(w), a.p.FocusY*float64(h), sigma)

	out := f.New()
	data := out.Data()
	src := f.Data()
	for i := range data {
		// Real scalar multiply scales magnitude, preserves phase.
		data[i] = src[i] * complex(1+a.p.Gain*mask[i], 0)
	}
	return out, nil
}

func init() {
	Register("attention", func(params Params) (Engine, error) {
		p := AttentionParams{FocusX: 0.5, FocusY: 0.5, Gain: 0.5}
		var err error
		if p.FocusX, err = params.Float("focus_x", p.FocusX); err != nil {
			return nil, err
		}
		if p.FocusY, err = params.Float("focus_y", p.FocusY); err != nil {
			return nil, err
		}
		if p.Gain, err = params.Float("gain", p.Gain); err != nil {
			return nil, err
		}
		return NewAttention(p)
	})
}
