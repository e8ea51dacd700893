package abx

import "testing"

// Same seed, same draw order: byte-identical streams.
func TestRuntimeDeterminism(t *testing.T) {
	a := New(42, true)
	b := New(42, true)
	for i := 0; i < 100; i++ {
		va := a.NextUniform(-1, 1)
		vb := b.NextUniform(-1, 1)
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
	}
	if a.Draws() != 100 || b.Draws() != 100 {
		t.Errorf("draw counters wrong: %d, %d", a.Draws(), b.Draws())
	}
}

func TestRuntimeGridDraws(t *testing.T) {
	a := New(7, true)
	b := New(7, true)
	ga := a.NextUniformGrid(0, 1, 4, 3)
	if len(ga) != 12 {
		t.Fatalf("grid length = %d, want 12", len(ga))
	}
	// Grid draws come from the same stream as scalar draws, row-major.
	for i, v := range ga {
		if got := b.NextUniform(0, 1); got != v {
			t.Fatalf("grid draw %d = %v, scalar stream gives %v", i, v, got)
		}
	}
	for _, v := range ga {
		if v < 0 || v >= 1 {
			t.Errorf("draw %v outside [0,1)", v)
		}
	}
}

func TestRuntimeSeedRange(t *testing.T) {
	rt := New(99, true)
	for i := 0; i < 1000; i++ {
		v := rt.NextUniform(2.5, 3.5)
		if v < 2.5 || v >= 3.5 {
			t.Fatalf("draw %v outside [2.5,3.5)", v)
		}
	}
}

// Forks replay the identical stream from the start and extend metadata
// without touching the parent ledger.
func TestRuntimeFork(t *testing.T) {
	parent := New(1337, true)
	parent.Record("coupling", map[string]any{"strength": 0.5}, "abc")
	_ = parent.NextUniform(0, 1)

	fork := parent.Fork(map[string]any{"purpose": "replay"})
	fresh := New(1337, true)
	for i := 0; i < 10; i++ {
		if fork.NextUniform(0, 1) != fresh.NextUniform(0, 1) {
			t.Fatalf("fork stream diverged at draw %d", i)
		}
	}
	if fork.Provenance.Meta["purpose"] != "replay" {
		t.Error("fork metadata not applied")
	}
	if _, ok := parent.Provenance.Meta["purpose"]; ok {
		t.Error("fork metadata leaked into parent")
	}
	if len(fork.Provenance.Records) != 1 {
		t.Errorf("fork lost parent records: %d", len(fork.Provenance.Records))
	}
}

func TestVerifyDeterminism(t *testing.T) {
	rt := New(1, true)
	if err := rt.VerifyDeterminism("same", "same"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := rt.VerifyDeterminism("a", "b")
	if err == nil {
		t.Fatal("expected invariant error on digest mismatch")
	}
	if _, ok := err.(*InternalInvariantError); !ok {
		t.Errorf("error type = %T, want *InternalInvariantError", err)
	}
}

func TestNonDeterministicRuntimeRecordsSeed(t *testing.T) {
	rt := New(0, false)
	if rt.Provenance.Seed != rt.Seed {
		t.Errorf("provenance seed %d != runtime seed %d", rt.Provenance.Seed, rt.Seed)
	}
	if rt.Provenance.Meta["deterministic"] != false {
		t.Error("deterministic flag not recorded")
	}
}
