// core/engine/receptor.go
package engine

import "psyfield-core/abx"

// ReceptorProfile models receptor densities for the neurotransmitter
// systems that bias field dynamics. 1.0 is the baseline density for
// every system.
type ReceptorProfile struct {
	HT2A     float64 `json:"ht2a_density"`
	GABA     float64 `json:"gaba_density"`
	Dopamine float64 `json:"dopamine_density"`
	Sigma1   float64 `json:"sigma1_density"`
}

// BaselineProfile returns all densities at 1.0.
func BaselineProfile() ReceptorProfile {
	return ReceptorProfile{HT2A: 1.0, GABA: 1.0, Dopamine: 1.0, Sigma1: 1.0}
}

// AgonistProfile simulates 5-HT2A agonism: elevated 2A activity, slightly
// reduced inhibition, mildly elevated dopamine and sigma-1.
func AgonistProfile() ReceptorProfile {
	return ReceptorProfile{HT2A: 3.0, GABA: 0.8, Dopamine: 1.2, Sigma1: 1.5}
}

// Validate rejects negative densities.
func (r ReceptorProfile) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"ht2a_density", r.HT2A}, {"gaba_density", r.GABA},
		{"dopamine_density", r.Dopamine}, {"sigma1_density", r.Sigma1},
	} {
		if d.v < 0 {
			return abx.Invalidf(d.name, "%v must be >= 0", d.v)
		}
	}
	return nil
}

// Receptor modulation heuristics. Deviations from baseline density scale
// the target parameter by these factors per unit of deviation.
const (
	ht2aSurroundRelief = 0.3 // 5-HT2A agonism relaxes divisive inhibition
	gabaSurroundBoost  = 0.2 // GABA strengthens divisive inhibition
	sigma1ExponentDrop = 0.1 // sigma-1 flattens the activation nonlinearity
	gabaCouplingDamp   = 0.3 // GABA damps oscillator coupling
	dopamineCouplingUp = 0.2 // dopamine raises oscillator coupling
)

// ModulateNormalization maps a receptor profile onto normalization
// parameters. Pure and side-effect-free: no randomness, no field access,
// and the inputs are never mutated. Results clamp into the engine-valid
// ranges so a modulated parameter set always constructs.
func ModulateNormalization(p NormalizeParams, r ReceptorProfile) NormalizeParams {
	v := p.V / (1 + ht2aSurroundRelief*(r.HT2A-1))
	v *= 1 + gabaSurroundBoost*(r.GABA-1)
	pw := p.P * (1 - sigma1ExponentDrop*(r.Sigma1-1))

	p.V = clamp(v, 0, 1)
	p.P = clamp(pw, 1, 3)
	return p
}

// ModulateCoupling maps a receptor profile onto coupling parameters, in
// the same heuristic style: inhibition damps coupling, dopamine raises it.
func ModulateCoupling(p CouplingParams, r ReceptorProfile) CouplingParams {
	s := p.Strength / (1 + gabaCouplingDamp*(r.GABA-1))
	s *= 1 + dopamineCouplingUp*(r.Dopamine-1)
	if s < 0 {
		s = 0
	}
	p.Strength = s
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
