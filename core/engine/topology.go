// core/engine/topology.go
package engine

import (
	"context"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// TopologyParams configures topological smoothing.
type TopologyParams struct {
	Sigma float64 // Gaussian sigma in cells, >= 0 (0 = identity)
}

// Topology Gaussian-smooths the real and imaginary channels separately,
// regularizing the field topology. Smoothing the complex components
// preserves structure better than smoothing magnitude and phase.
type Topology struct {
	p TopologyParams
}

// NewTopology validates params and returns the engine.
func NewTopology(p TopologyParams) (*Topology, error) {
	if p.Sigma < 0 {
		return nil, abx.Invalidf("sigma", "%v must be >= 0", p.Sigma)
	}
	return &Topology{p: p}, nil
}

func (t *Topology) Name() string { return "topology" }

func (t *Topology) ParamMap() map[string]any {
	return map[string]any{"sigma": t.p.Sigma}
}

func (t *Topology) Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error) {
	if t.p.Sigma == 0 {
		return f.Clone(), nil
	}
	w, h := f.Width(), f.Height()
	src := f.Data()
	re := make([]float64, len(src))
	im := make([]float64, len(src))
	for i, c := range src {
		re[i] = real(c)
		im[i] = imag(c)
	}
	k := gaussKernel(t.p.Sigma)
	reS := sepConvolve(re, w, h, k)
	imS := sepConvolve(im, w, h, k)

	out := f.New()
	data := out.Data()
	for i := range data {
		data[i] = complex(reS[i], imS[i])
	}
	return out, nil
}

func init() {
	Register("topology", func(params Params) (Engine, error) {
		p := TopologyParams{Sigma: 1.5}
		var err error
		if p.Sigma, err = params.Float("sigma", p.Sigma); err != nil {
			return nil, err
		}
		return NewTopology(p)
	})
}
