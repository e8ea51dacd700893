// core/engine/normalize.go
package engine

import (
	"context"
	"math"
	"math/cmplx"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// NormalizeParams configures divisive normalization (lateral inhibition).
//
// Per cell: newMag = mag^P / (1 + V * surround^P), where surround is the
// mean magnitude over a square neighborhood of SurroundRadius, center
// excluded. Phase is unchanged. V = 0 degenerates to a pure power-law
// rescaling.
type NormalizeParams struct {
	P              float64 // activation exponent, [1, 3]
	V              float64 // surround weight, [0, 1]
	SurroundRadius int     // neighborhood radius in cells, >= 1
}

// DefaultNormalizeParams returns the calibrated defaults.
func DefaultNormalizeParams() NormalizeParams {
	return NormalizeParams{P: 1.0, V: 1.0, SurroundRadius: 3}
}

// Normalize implements contrast control: high local surround magnitude
// suppresses the center output.
type Normalize struct {
	p NormalizeParams
}

// NewNormalize validates params and returns the engine.
func NewNormalize(p NormalizeParams) (*Normalize, error) {
	if p.P < 1 || p.P > 3 {
		return nil, abx.Invalidf("P", "%v outside [1,3]", p.P)
	}
	if p.V < 0 || p.V > 1 {
		return nil, abx.Invalidf("V", "%v outside [0,1]", p.V)
	}
	if p.SurroundRadius < 1 {
		return nil, abx.Invalidf("surround_radius", "%d must be >= 1", p.SurroundRadius)
	}
	return &Normalize{p: p}, nil
}

func (n *Normalize) Name() string { return "normalize" }

func (n *Normalize) ParamMap() map[string]any {
	return map[string]any{"P": n.p.P, "V": n.p.V, "surround_radius": n.p.SurroundRadius}
}

func (n *Normalize) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	w, h := f.Width(), f.Height()
	mags := f.Magnitudes()
	r := n.p.SurroundRadius

	out := f.New()
	data := out.Data()
	src := f.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			sum, cnt := 0.0, 0
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if dx == 0 && dy == 0 {
						continue // surround excludes the center cell
					}
					xx, yy := x+dx, y+dy
					if xx < 0 || xx >= w || yy < 0 || yy >= h {
						continue
					}
					sum += mags[yy*w+xx]
					cnt++
				}
			}
			surround := sum / float64(cnt)
			newMag := math.Pow(mags[i], n.p.P) / (1 + n.p.V*math.Pow(surround, n.p.P))
			data[i] = complex(newMag, 0) * cmplx.Exp(complex(0, cmplx.Phase(src[i])))
		}
	}
	return out, nil
}

func init() {
	Register("normalize", func(params Params) (Engine, error) {
		p := DefaultNormalizeParams()
		var err error
		if p.P, err = params.Float("P", p.P); err != nil {
			return nil, err
		}
		if p.V, err = params.Float("V", p.V); err != nil {
			return nil, err
		}
		if p.SurroundRadius, err = params.Int("surround_radius", p.SurroundRadius); err != nil {
			return nil, err
		}
		return NewNormalize(p)
	})
}
