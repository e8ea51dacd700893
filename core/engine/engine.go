// core/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"sort"

	"psyfield-core/abx"
	"psyfield-core/field"
)

// Engine is one field transform. Apply consumes the input field and
// returns a new owned field of the same shape; it never mutates its
// input. Engines that need randomness draw it exclusively from rt.
type Engine interface {
	Name() string
	Apply(ctx context.Context, rt *abx.Runtime, f *field.Field) (*field.Field, error)
	// ParamMap returns the validated parameter snapshot for provenance.
	ParamMap() map[string]any
}

// Factory builds a configured engine from loosely typed parameters
// (typically decoded JSON). Out-of-range values fail here, before any
// computation.
type Factory func(params Params) (Engine, error)

// Engine registry (name -> factory). Engines register in init() from
// their own files; the map is read-only after program startup.
var registry = map[string]Factory{}

// Register installs a factory. Last registration wins.
func Register(name string, f Factory) { registry[name] = f }

// Build looks up name and constructs the engine.
func Build(name string, params Params) (Engine, error) {
	f, ok := registry[name]
	if !ok {
		return nil, abx.Invalidf("engine", "unknown engine %q (registered: %v)", name, Names())
	}
	eng, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("engine %q: %w", name, err)
	}
	return eng, nil
}

// Names lists the registered engine names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
