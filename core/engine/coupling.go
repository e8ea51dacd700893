// core/engine/coupling.go
package engine

import (
	"context"
	"math"
	"math/cmplx"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// Coupling modes.
const (
	CouplingSymmetric  = "symmetric"
	CouplingAsymmetric = "asymmetric"
)

// MaxCouplingSteps bounds the integrator loop.
const MaxCouplingSteps = 1000

// CouplingParams configures the Kuramoto-style phase integrator.
//
// Each cell is an oscillator whose natural frequency depends on its row
// (depth) and magnitude (brightness). Oscillators couple to their
// 4-connected neighbors; border cells use the reduced neighborhood, with
// no wraparound, which deliberately changes boundary statistics.
type CouplingParams struct {
	Strength    float64 // coupling strength, >= 0
	Steps       int     // integration steps, [1, MaxCouplingSteps]
	Mode        string  // symmetric | asymmetric
	FreqBase    float64 // base natural frequency
	DepthScale  float64 // row-position contribution to frequency
	BrightScale float64 // normalized-magnitude contribution to frequency
	DT          float64 // integrator time step, > 0
}

// DefaultCouplingParams mirrors the canonical simulation profile.
func DefaultCouplingParams() CouplingParams {
	return CouplingParams{
		Strength:    0.5,
		Steps:       10,
		Mode:        CouplingSymmetric,
		FreqBase:    1.0,
		DepthScale:  0.5,
		BrightScale: 0.1,
		DT:          0.1,
	}
}

// Coupling advances every cell's phase by its natural frequency plus the
// coupled mean of sin(neighbor - own). Magnitude is untouched. The engine
// consumes no randomness: output is a pure function of input and params.
type Coupling struct {
	p CouplingParams
}

// NewCoupling validates params and returns the engine.
func NewCoupling(p CouplingParams) (*Coupling, error) {
	if p.Strength < 0 {
		return nil, abx.Invalidf("strength", "%v must be >= 0", p.Strength)
	}
	if p.Steps < 1 || p.Steps > MaxCouplingSteps {
		return nil, abx.Invalidf("steps", "%d outside [1,%d]", p.Steps, MaxCouplingSteps)
	}
	if p.Mode != CouplingSymmetric && p.Mode != CouplingAsymmetric {
		return nil, abx.Invalidf("mode", "%q is not %q or %q", p.Mode, CouplingSymmetric, CouplingAsymmetric)
	}
	if p.DT <= 0 {
		return nil, abx.Invalidf("dt", "%v must be > 0", p.DT)
	}
	return &Coupling{p: p}, nil
}

func (c *Coupling) Name() string { return "coupling" }

func (c *Coupling) ParamMap() map[string]any {
	return map[string]any{
		"strength": c.p.Strength, "steps": c.p.Steps, "mode": c.p.Mode,
		"freq_base": c.p.FreqBase, "depth_scale": c.p.DepthScale,
		"bright_scale": c.p.BrightScale, "dt": c.p.DT,
	}
}

var neighbor4 = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

func (c *Coupling) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	w, h := f.Width(), f.Height()
	mags := f.Magnitudes()
	cur := f.Phases()
	next := make([]float64, len(cur))

	maxMag := 0.0
	for _, m := range mags {
		if m > maxMag {
			maxMag = m
		}
	}

	// Natural frequencies are fixed for the whole run.
	omega := make([]float64, len(cur))
	for y := 0; y < h; y++ {
		depth := float64(y) / float64(h)
		for x := 0; x < w; x++ {
			i := y*w + x
			omega[i] = c.p.FreqBase +
				c.p.DepthScale*depth +
				c.p.BrightScale*mags[i]/(maxMag+1e-8)
		}
	}

	for step := 0; step < c.p.Steps; step++ {
		// Coarse-grained cancellation: once per integration step.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				var coupling float64
				if c.p.Mode == CouplingSymmetric {
					sum, n := 0.0, 0
					for _, d := range neighbor4 {
						xx, yy := x+d[0], y+d[1]
						if xx < 0 || xx >= w || yy < 0 || yy >= h {
							continue
						}
						sum += math.Sin(cur[yy*w+xx] - cur[i])
						n++
					}
					coupling = sum / float64(n)
				} else {
					sum, wsum := 0.0, 1e-8
					for _, d := range neighbor4 {
						xx, yy := x+d[0], y+d[1]
						if xx < 0 || xx >= w || yy < 0 || yy >= h {
							continue
						}
						j := yy*w + xx
						sum += mags[j] * math.Sin(cur[j]-cur[i])
						wsum += mags[j]
					}
					coupling = sum / wsum
				}
				next[i] = cur[i] + c.p.DT*(omega[i]+c.p.Strength*coupling)
			}
		}
		cur, next = next, cur
		if rt != nil {
			rt.Metrics.IncrementSteps(1)
		}
	}

	out := f.New()
	data := out.Data()
	for i, p := range cur {
		// Wrap back into (-pi, pi].
		p = math.Atan2(math.Sin(p), math.Cos(p))
		data[i] = complex(mags[i], 0) * cmplx.Exp(complex(0, p))
	}
	return out, nil
}

func init() {
	Register("coupling", func(params Params) (Engine, error) {
		p := DefaultCouplingParams()
		var err error
		if p.Strength, err = params.Float("strength", p.Strength); err != nil {
			return nil, err
		}
		if p.Steps, err = params.Int("steps", p.Steps); err != nil {
			return nil, err
		}
		if p.Mode, err = params.String("mode", p.Mode); err != nil {
			return nil, err
		}
		if p.FreqBase, err = params.Float("freq_base", p.FreqBase); err != nil {
			return nil, err
		}
		if p.DepthScale, err = params.Float("depth_scale", p.DepthScale); err != nil {
			return nil, err
		}
		if p.BrightScale, err = params.Float("bright_scale", p.BrightScale); err != nil {
			return nil, err
		}
		if p.DT, err = params.Float("dt", p.DT); err != nil {
			return nil, err
		}
		return NewCoupling(p)
	})
}
