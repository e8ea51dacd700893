// core/engine/drift.go
package engine

import (
	"context"
	"math"
	"math/cmplx"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// DriftParams configures radial breathing/drift.
type DriftParams struct {
	Amplitude    float64 // drift strength, >= 0
	Velocity     float64 // oscillation speed
	SpatialScale float64 // drift wavelength as a fraction of width, > 0
	T            float64 // time parameter
}

// Drift applies a radial sinusoidal phase displacement around the grid
// center, producing a breathing or drifting effect. Magnitude untouched,
// no randomness.
type Drift struct {
	p DriftParams
}

// NewDrift validates params and returns the engine.
func NewDrift(p DriftParams) (*Drift, error) {
	if p.Amplitude < 0 {
		return nil, abx.Invalidf("amplitude", "%v must be >= 0", p.Amplitude)
	}
	if p.SpatialScale <= 0 {
		return nil, abx.Invalidf("spatial_scale", "%v must be > 0", p.SpatialScale)
	}
	return &Drift{p: p}, nil
}

func (d *Drift) Name() string { return "drift" }

func (d *Drift) ParamMap() map[string]any {
	return map[string]any{
		"amplitude": d.p.Amplitude, "velocity": d.p.Velocity,
		"spatial_scale": d.p.SpatialScale, "t": d.p.T,
	}
}

func (d *Drift) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	w, h := f.Width(), f.Height()
	cx, cy := float64(w)/2, float64(h)/2

	out := f.New()
	data := out.Data()
	src := f.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			r := math.Sqrt(dx*dx + dy*dy)
			disp := d.p.Amplitude * math.Sin(2*math.Pi*r/(d.p.SpatialScale*float64(w))+d.p.Velocity*d.p.T)
			data[y*w+x] = src[y*w+x] * cmplx.Exp(complex(0, 2*math.Pi*disp))
		}
	}
	return out, nil
}

func init() {
	Register("drift", func(params Params) (Engine, error) {
		p := DriftParams{Amplitude: 0.05, Velocity: 1.0, SpatialScale: 2.0}
		var err error
		if p.Amplitude, err = params.Float("amplitude", p.Amplitude); err != nil {
			return nil, err
		}
		if p.Velocity, err = params.Float("velocity", p.Velocity); err != nil {
			return nil, err
		}
		if p.SpatialScale, err = params.Float("spatial_scale", p.SpatialScale); err != nil {
			return nil, err
		}
		if p.T, err = params.Float("t", 0); err != nil {
			return nil, err
		}
		return NewDrift(p)
	})
}
