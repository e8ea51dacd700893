// core/abx/runtime.go
package abx

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// DefaultSeed is used when a caller asks for a deterministic runtime
// without supplying an explicit seed.
const DefaultSeed int64 = 1337

// Runtime owns the seeded pseudo-random stream and the provenance ledger
// for one simulation request. All randomness in the system flows through
// it; two runtimes with the same seed driven through the same ordered
// engine calls produce byte-identical outputs.
//
// A Runtime is not safe for concurrent use. Independent requests get
// independent Runtimes.
type Runtime struct {
	Seed          int64
	Deterministic bool
	Metrics       *Metrics
	Provenance    *Provenance

	rng   *rand.Rand
	draws uint64
}

// New creates a runtime. When deterministic is false the seed argument is
// ignored and the generator seeds itself from the OS entropy source; the
// chosen seed is still recorded in provenance so a run can be replayed.
func New(seed int64, deterministic bool) *Runtime {
	if !deterministic {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.BigEndian.Uint64(b[:]))
		}
	}
	rt := &Runtime{
		Seed:          seed,
		Deterministic: deterministic,
		Metrics:       &Metrics{},
		Provenance:    NewProvenance(seed),
		rng:           rand.New(rand.NewSource(seed)),
	}
	rt.Provenance.AddMeta("deterministic", deterministic)
	return rt
}

// NextUniform returns one draw uniformly distributed in [low, high).
func (rt *Runtime) NextUniform(low, high float64) float64 {
	rt.draws++
	return low + (high-low)*rt.rng.Float64()
}

// NextUniformGrid returns width*height draws in row-major order, each
// uniform in [low, high). Draw order is part of the determinism contract.
func (rt *Runtime) NextUniformGrid(low, high float64, width, height int) []float64 {
	out := make([]float64, width*height)
	for i := range out {
		out[i] = rt.NextUniform(low, high)
	}
	return out
}

// Draws reports how many values have been consumed from the stream.
func (rt *Runtime) Draws() uint64 { return rt.draws }

// Record appends one engine invocation to the provenance ledger.
func (rt *Runtime) Record(engine string, params map[string]any, digest string) {
	rt.Provenance.Add(Record{Engine: engine, Params: params, Digest: digest})
}

// Fork returns a new runtime with the same seed, fresh metrics, and the
// parent's provenance metadata extended with extraMeta. The fork replays
// the identical draw stream from the start.
func (rt *Runtime) Fork(extraMeta map[string]any) *Runtime {
	return &Runtime{
		Seed:          rt.Seed,
		Deterministic: rt.Deterministic,
		Metrics:       &Metrics{},
		Provenance:    rt.Provenance.CloneWithMeta(extraMeta),
		rng:           rand.New(rand.NewSource(rt.Seed)),
	}
}

// VerifyDeterminism compares two output digests and fails with an
// InternalInvariantError when they diverge in deterministic mode.
func (rt *Runtime) VerifyDeterminism(digestA, digestB string) error {
	if rt.Deterministic && digestA != digestB {
		return &InternalInvariantError{
			Reason: "digest mismatch in deterministic mode: " + digestA + " != " + digestB,
		}
	}
	return nil
}
