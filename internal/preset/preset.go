// internal/preset/preset.go
package preset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"psyfield-core/engine"
	"psyfield-core/pipeline"
)

// Preset names a receptor profile plus a pipeline template. The base
// coupling and normalization stages are generated from the profile; Extra
// stages run afterwards verbatim.
type Preset struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Receptors   engine.ReceptorProfile `json:"receptors"`
	Extra       []pipeline.Step        `json:"extra,omitempty"`
}

// Validate rejects unusable presets before any run references them.
func (p Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset: missing name")
	}
	if err := p.Receptors.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	for i, st := range p.Extra {
		if _, err := engine.Build(st.Name, st.Params); err != nil {
			return fmt.Errorf("preset %q: extra stage %d: %w", p.Name, i, err)
		}
	}
	return nil
}

// Steps expands the preset into a runnable sequence: receptor-modulated
// coupling, the extra stages, then receptor-modulated normalization as
// the final contrast pass.
func (p Preset) Steps() []pipeline.Step {
	cp := engine.ModulateCoupling(engine.DefaultCouplingParams(), p.Receptors)
	np := engine.ModulateNormalization(engine.DefaultNormalizeParams(), p.Receptors)

	seq := []pipeline.Step{
		{Name: "coupling", Params: engine.Params{
			"strength": cp.Strength, "mode": cp.Mode,
		}},
	}
	seq = append(seq, p.Extra...)
	seq = append(seq, pipeline.Step{Name: "normalize", Params: engine.Params{
		"P": np.P, "V": np.V,
	}})
	return seq
}

// Builtins returns the presets compiled into the binary, sorted by name.
func Builtins() []Preset {
	ps := []Preset{
		{
			Name:        "baseline",
			Description: "ordinary waking dynamics, baseline receptor densities",
			Receptors:   engine.BaselineProfile(),
		},
		{
			Name:        "psychedelic-agonist",
			Description: "5-HT2A agonism: loosened inhibition, raised coupling, edge enhancement",
			Receptors:   engine.AgonistProfile(),
			Extra: []pipeline.Step{
				{Name: "enhance", Params: engine.Params{"gain": 0.6, "opacity": 0.5}},
				{Name: "drift", Params: engine.Params{"amplitude": 0.05, "t": 1.0}},
			},
		},
		{
			Name:        "meditative-absorption",
			Description: "focused absorption: mild GABA elevation, centered smoothing",
			Receptors:   engine.ReceptorProfile{HT2A: 0.9, GABA: 1.3, Dopamine: 0.9, Sigma1: 1.0},
			Extra: []pipeline.Step{
				{Name: "absorb", Params: engine.Params{"focus_x": 0.5, "focus_y": 0.5, "radius": 0.4, "smooth_gain": 0.6}},
				{Name: "blur", Params: engine.Params{"intensity": 0.3}},
			},
		},
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return ps
}

// Lookup resolves name among the builtins.
func Lookup(name string) (Preset, error) {
	for _, p := range Builtins() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q (builtin: %v)", name, Names())
}

// Names lists the builtin preset names.
func Names() []string {
	bs := Builtins()
	out := make([]string, len(bs))
	for i, p := range bs {
		out[i] = p.Name
	}
	return out
}

// Load decodes and validates a JSON preset list.
func Load(r io.Reader) ([]Preset, error) {
	var ps []Preset
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, fmt.Errorf("preset: decode: %w", err)
	}
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// LoadFile reads a JSON preset file.
func LoadFile(path string) ([]Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}
