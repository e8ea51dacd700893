// core/engine/reset.go
package engine

import (
	"context"
	"math"
	"math/cmplx"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// ResetParams configures the probabilistic phase reset.
type ResetParams struct {
	Intensity float64 // probability a cell's phase is randomized, [0, 1]
}

// PhaseReset replaces each cell's phase with a runtime-drawn uniform
// phase with probability Intensity, magnitude preserved.
//
// Draw discipline: cells are visited in row-major order and consume
// exactly one draw each. The draw both selects the cell (u < intensity)
// and, rescaled by 1/intensity, supplies the replacement phase, which
// stays uniform over (-pi, pi] conditional on selection. Intensity 0
// consumes zero draws and returns the input unchanged.
type PhaseReset struct {
	p ResetParams
}

// NewPhaseReset validates params and returns the engine.
func NewPhaseReset(p ResetParams) (*PhaseReset, error) {
	if p.Intensity < 0 || p.Intensity > 1 {
		return nil, abx.Invalidf("intensity", "%v outside [0,1]", p.Intensity)
	}
	return &PhaseReset{p: p}, nil
}

func (r *PhaseReset) Name() string { return "phase-reset" }

func (r *PhaseReset) ParamMap() map[string]any {
	return map[string]any{"intensity": r.p.Intensity}
}

func (r *PhaseReset) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	if r.p.Intensity == 0 {
		return f.Clone(), nil
	}
	out := f.Clone()
	data := out.Data()
	for i := range data {
		u := rt.NextUniform(0, 1)
		if u >= r.p.Intensity {
			continue
		}
		phase := math.Pi - 2*math.Pi*(u/r.p.Intensity) // uniform over (-pi, pi]
		mag := cmplx.Abs(data[i])
		data[i] = complex(mag, 0) * cmplx.Exp(complex(0, phase))
	}
	return out, nil
}

func init() {
	Register("phase-reset", func(params Params) (Engine, error) {
		var p ResetParams
		var err error
		if p.Intensity, err = params.Float("intensity", 0); err != nil {
			return nil, err
		}
		return NewPhaseReset(p)
	})
}
