// core/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"psyfield-core/abx"
	"psyfield-core/engine"
	"psyfield-core/field"
	"psyfield-core/valence"
)

// Step bounds for a whole run.
const (
	MinSteps = 1
	MaxSteps = 1000
)

// Step names one engine invocation with its parameters.
type Step struct {
	Name   string        `json:"name"`
	Params engine.Params `json:"params,omitempty"`
}

// Request describes one simulation run.
//
// Steps is the evolution step count injected into any coupling stage that
// does not set its own; it is validated against [MinSteps, MaxSteps]
// regardless. The zero value of NonDeterministic keeps the guaranteed
// deterministic mode.
type Request struct {
	Seed             int64  `json:"seed"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Steps            int    `json:"steps"`
	NonDeterministic bool   `json:"non_deterministic,omitempty"`
	Sequence         []Step `json:"sequence,omitempty"`
}

// Result bundles the final field, its scores, and the audit trail.
type Result struct {
	Field      *field.Field
	Scores     valence.ScoreSet
	Simplicity valence.Simplicity
	Provenance *abx.Provenance
	Metrics    *abx.Metrics
}

// StepEvent reports one completed pipeline stage to an observer.
type StepEvent struct {
	Index  int    `json:"index"`
	Engine string `json:"engine"`
	Digest string `json:"digest"`
}

// DefaultSequence is the canonical evolution profile: couple, then
// contrast-normalize.
func DefaultSequence() []Step {
	return []Step{
		{Name: "coupling", Params: engine.Params{"strength": 0.5}},
		{Name: "normalize", Params: engine.Params{"P": 1.0, "V": 1.0}},
	}
}

// Validate rejects out-of-range dimensions and step counts before any
// engine executes.
func Validate(req Request) error {
	if req.Width < field.MinDim || req.Width > field.MaxDim {
		return abx.Invalidf("width", "%d outside [%d,%d]", req.Width, field.MinDim, field.MaxDim)
	}
	if req.Height < field.MinDim || req.Height > field.MaxDim {
		return abx.Invalidf("height", "%d outside [%d,%d]", req.Height, field.MinDim, field.MaxDim)
	}
	if req.Steps < MinSteps || req.Steps > MaxSteps {
		return abx.Invalidf("steps", "%d outside [%d,%d]", req.Steps, MinSteps, MaxSteps)
	}
	return nil
}

// Run executes one simulation request: a runtime and an evolving field
// are threaded sequentially through the engine sequence, so randomness is
// consumed in a fixed global order. The initial field has unit magnitude
// and runtime-drawn random phase.
func Run(ctx context.Context, req Request) (*Result, error) {
	return RunObserved(ctx, req, nil)
}

// RunObserved is Run with a per-stage callback (nil to disable). The
// observer sees each stage after its output field is fully materialized.
func RunObserved(ctx context.Context, req Request, observe func(StepEvent)) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	seq := req.Sequence
	if len(seq) == 0 {
		seq = DefaultSequence()
	}

	// Stage 0: engines are built (and parameters validated) up front, so
	// a bad step rejects the whole request before any computation.
	engines := make([]engine.Engine, len(seq))
	for i, st := range seq {
		params := st.Params
		if st.Name == "coupling" {
			params = withDefaultSteps(params, req.Steps)
		}
		eng, err := engine.Build(st.Name, params)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		engines[i] = eng
	}

	rt := abx.New(req.Seed, !req.NonDeterministic)
	rt.Metrics.SetGridSize(req.Width, req.Height)

	f, err := field.RandomPhase(rt, req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	rt.Record("random-phase-init",
		map[string]any{"width": req.Width, "height": req.Height}, f.Digest())
	if observe != nil {
		observe(StepEvent{Index: -1, Engine: "random-phase-init", Digest: f.Digest()})
	}

	for i, eng := range engines {
		out, err := eng.Apply(ctx, rt, f)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, eng.Name(), err)
		}
		if !f.SameShape(out) {
			return nil, &abx.ShapeMismatchError{
				Engine: eng.Name(),
				WantW:  f.Width(), WantH: f.Height(),
				GotW: out.Width(), GotH: out.Height(),
			}
		}
		if x, y, bad := out.FirstNonFinite(); bad {
			return nil, &abx.NumericInstabilityError{Engine: eng.Name(), Step: i, X: x, Y: y}
		}
		f = out
		rt.Record(eng.Name(), eng.ParamMap(), f.Digest())
		if observe != nil {
			observe(StepEvent{Index: i, Engine: eng.Name(), Digest: f.Digest()})
		}
	}

	scores, err := valence.Compute(f)
	if err != nil {
		return nil, err
	}
	rt.Metrics.UpdateEntropy(scores.Richness)

	return &Result{
		Field:      f,
		Scores:     scores,
		Simplicity: valence.ComputeSimplicity(f),
		Provenance: rt.Provenance,
		Metrics:    rt.Metrics,
	}, nil
}

// withDefaultSteps copies params with "steps" defaulted to fallback.
func withDefaultSteps(p engine.Params, fallback int) engine.Params {
	out := engine.Params{"steps": fallback}
	for k, v := range p {
		out[k] = v
	}
	return out
}
