package engine

import (
	"errors"
	"testing"

	"psyfield-core/abx"
)

func TestBuildKnownEngines(t *testing.T) {
	want := []string{
		"absorb", "attention", "blur", "coupling", "drift",
		"enhance", "normalize", "phase-reset", "topology",
	}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("registered engines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("registered engines = %v, want %v", got, want)
		}
	}
	for _, name := range want {
		eng, err := Build(name, nil)
		if err != nil {
			t.Fatalf("Build(%q) with defaults: %v", name, err)
		}
		if eng.Name() != name {
			t.Errorf("Build(%q).Name() = %q", name, eng.Name())
		}
		if eng.ParamMap() == nil {
			t.Errorf("Build(%q).ParamMap() = nil", name)
		}
	}
}

func TestBuildUnknownEngine(t *testing.T) {
	_, err := Build("transmogrify", nil)
	var verr *abx.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("unknown engine error = %v, want ValidationError", err)
	}
}

func TestBuildRejectsBadParams(t *testing.T) {
	cases := []struct {
		name   string
		engine string
		params Params
	}{
		{"coupling strength type", "coupling", Params{"strength": "high"}},
		{"coupling fractional steps", "coupling", Params{"steps": 2.5}},
		{"normalize P range", "normalize", Params{"P": 5.0}},
		{"phase-reset range", "phase-reset", Params{"intensity": 1.5}},
		{"blur bool type", "blur", Params{"magnitude": "yes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Build(tc.engine, tc.params); err == nil {
				t.Errorf("Build(%q, %v) accepted", tc.engine, tc.params)
			}
		})
	}
}

func TestParamsAccessors(t *testing.T) {
	p := Params{"f": 1.5, "i": float64(3), "frac": 3.5, "s": "abc", "b": true}

	if v, err := p.Float("f", 0); err != nil || v != 1.5 {
		t.Errorf("Float = %v, %v", v, err)
	}
	if v, err := p.Float("missing", 9); err != nil || v != 9 {
		t.Errorf("Float default = %v, %v", v, err)
	}
	if v, err := p.Int("i", 0); err != nil || v != 3 {
		t.Errorf("Int = %v, %v", v, err)
	}
	if _, err := p.Int("frac", 0); err == nil {
		t.Error("Int accepted fractional value")
	}
	if v, err := p.String("s", ""); err != nil || v != "abc" {
		t.Errorf("String = %v, %v", v, err)
	}
	if v, err := p.Bool("b", false); err != nil || !v {
		t.Errorf("Bool = %v, %v", v, err)
	}
	if _, err := p.Float("s", 0); err == nil {
		t.Error("Float accepted a string")
	}
}
