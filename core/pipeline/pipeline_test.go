package pipeline

import (
	"context"
	"errors"
	"testing"

	"psyfield-core/abx"
	"psyfield-core/engine"
)

func baseRequest() Request {
	return Request{
		Seed:   42,
		Width:  32,
		Height: 32,
		Steps:  10,
		Sequence: []Step{
			{Name: "coupling", Params: engine.Params{"strength": 0.5}},
			{Name: "normalize", Params: engine.Params{"P": 1.0, "V": 1.0}},
		},
	}
}

// The reproducibility contract: same request, same everything.
func TestRunReproducible(t *testing.T) {
	ctx := context.Background()
	req := baseRequest()

	r1, err := Run(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Run(ctx, req)
	if err != nil {
		t.Fatal(err)
	}

	if d1, d2 := r1.Field.Digest(), r2.Field.Digest(); d1 != d2 {
		t.Errorf("field digests diverged: %s vs %s", d1, d2)
	}
	if r1.Scores != r2.Scores {
		t.Errorf("scores diverged: %+v vs %+v", r1.Scores, r2.Scores)
	}
	if r1.Simplicity != r2.Simplicity {
		t.Errorf("simplicity diverged: %+v vs %+v", r1.Simplicity, r2.Simplicity)
	}
	if len(r1.Provenance.Records) != len(r2.Provenance.Records) {
		t.Fatalf("provenance lengths differ: %d vs %d",
			len(r1.Provenance.Records), len(r2.Provenance.Records))
	}
	for i := range r1.Provenance.Records {
		a, b := r1.Provenance.Records[i], r2.Provenance.Records[i]
		if a.Engine != b.Engine || a.Digest != b.Digest {
			t.Errorf("record %d diverged: %s/%s vs %s/%s",
				i, a.Engine, a.Digest, b.Engine, b.Digest)
		}
	}
}

func TestRunProvenanceTrail(t *testing.T) {
	res, err := Run(context.Background(), baseRequest())
	if err != nil {
		t.Fatal(err)
	}
	recs := res.Provenance.Records
	// Init plus one record per stage.
	want := []string{"random-phase-init", "coupling", "normalize"}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, name := range want {
		if recs[i].Engine != name {
			t.Errorf("record %d engine = %q, want %q", i, recs[i].Engine, name)
		}
		if recs[i].Digest == "" {
			t.Errorf("record %d has empty digest", i)
		}
	}
	if res.Provenance.Seed != 42 {
		t.Errorf("provenance seed = %d, want 42", res.Provenance.Seed)
	}
	// The final record matches the returned field.
	if recs[len(recs)-1].Digest != res.Field.Digest() {
		t.Error("last record digest does not match the result field")
	}
	// Request steps flowed into the coupling stage.
	if got := recs[1].Params["steps"]; got != 10 {
		t.Errorf("coupling steps = %v, want 10", got)
	}
	if res.Metrics.ComputeSteps != 10 {
		t.Errorf("metrics compute steps = %d, want 10", res.Metrics.ComputeSteps)
	}
}

func TestRunObservedEvents(t *testing.T) {
	var events []StepEvent
	res, err := RunObserved(context.Background(), baseRequest(), func(e StepEvent) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Index != -1 || events[0].Engine != "random-phase-init" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Index != 0 || events[1].Engine != "coupling" {
		t.Errorf("second event = %+v", events[1])
	}
	if events[2].Digest != res.Field.Digest() {
		t.Error("final event digest does not match the result field")
	}
}

func TestRunDefaultSequence(t *testing.T) {
	req := baseRequest()
	req.Sequence = nil
	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Provenance.Records) != 3 {
		t.Fatalf("got %d records, want init + 2 default stages", len(res.Provenance.Records))
	}
	if res.Provenance.Records[1].Engine != "coupling" ||
		res.Provenance.Records[2].Engine != "normalize" {
		t.Errorf("default sequence ran %q, %q",
			res.Provenance.Records[1].Engine, res.Provenance.Records[2].Engine)
	}
}

func TestValidateBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"width below min", func(r *Request) { r.Width = 7 }},
		{"width above max", func(r *Request) { r.Width = 513 }},
		{"height below min", func(r *Request) { r.Height = 7 }},
		{"steps zero", func(r *Request) { r.Steps = 0 }},
		{"steps above max", func(r *Request) { r.Steps = 1001 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)
			_, err := Run(context.Background(), req)
			var verr *abx.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}

	// Boundary values themselves pass.
	for _, req := range []Request{
		{Seed: 1, Width: 8, Height: 8, Steps: 1},
		{Seed: 1, Width: 8, Height: 8, Steps: 1000},
	} {
		if err := Validate(req); err != nil {
			t.Errorf("Validate(%+v) = %v", req, err)
		}
	}
}

func TestRunRejectsBadStage(t *testing.T) {
	req := baseRequest()
	req.Sequence = append(req.Sequence, Step{Name: "no-such-engine"})
	if _, err := Run(context.Background(), req); err == nil {
		t.Fatal("unknown stage accepted")
	}

	req = baseRequest()
	req.Sequence[1].Params = engine.Params{"P": 9.0}
	if _, err := Run(context.Background(), req); err == nil {
		t.Fatal("out-of-range stage params accepted")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := baseRequest()
	if _, err := Run(ctx, req); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// A longer mixed sequence exercises every registered engine end to end.
func TestRunFullSequence(t *testing.T) {
	req := Request{
		Seed: 7, Width: 32, Height: 32, Steps: 5,
		Sequence: []Step{
			{Name: "coupling", Params: engine.Params{"strength": 0.8}},
			{Name: "blur", Params: engine.Params{"intensity": 0.4}},
			{Name: "attention", Params: engine.Params{"focus_x": 0.5, "focus_y": 0.5, "gain": 0.6}},
			{Name: "absorb", Params: engine.Params{"focus_x": 0.5, "focus_y": 0.5, "radius": 0.4, "smooth_gain": 0.3}},
			{Name: "phase-reset", Params: engine.Params{"intensity": 0.2}},
			{Name: "topology", Params: engine.Params{"sigma": 1.0}},
			{Name: "drift", Params: engine.Params{"amplitude": 0.05, "t": 1.0}},
			{Name: "enhance", Params: engine.Params{"gain": 0.5, "opacity": 0.5}},
			{Name: "normalize", Params: engine.Params{"P": 1.2, "V": 0.6}},
		},
	}
	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Provenance.Records) != 10 {
		t.Errorf("got %d provenance records, want 10", len(res.Provenance.Records))
	}
	if res.Scores.Valence < -1 || res.Scores.Valence > 1 {
		t.Errorf("valence = %v outside [-1,1]", res.Scores.Valence)
	}
	if res.Metrics.GridSize != 32*32 {
		t.Errorf("metrics grid size = %d, want 1024", res.Metrics.GridSize)
	}
}
