// core/abx/provenance.go
package abx

// Record is one entry in the provenance ledger: which engine ran, with
// which parameters, and the canonical digest of the field it produced.
//
// Records carry no timestamps, pointers, or other runtime-dependent
// values; byte-for-byte ledger stability across identical runs is
// required.
type Record struct {
	Engine string         `json:"engine"`
	Params map[string]any `json:"params,omitempty"`
	Digest string         `json:"digest,omitempty"`
}

// Provenance is the ordered, append-only record of a run. Engines may
// append via Runtime.Record; they never read it back. The caller inspects
// it after the pipeline completes.
type Provenance struct {
	Seed    int64          `json:"seed"`
	Meta    map[string]any `json:"meta,omitempty"`
	Records []Record       `json:"records"`
}

// NewProvenance starts an empty ledger for the given seed.
func NewProvenance(seed int64) *Provenance {
	return &Provenance{Seed: seed, Meta: map[string]any{}}
}

// Add appends one record in call order.
func (p *Provenance) Add(r Record) { p.Records = append(p.Records, r) }

// AddMeta attaches run-level metadata (not part of the record chain).
func (p *Provenance) AddMeta(key string, value any) {
	if p.Meta == nil {
		p.Meta = map[string]any{}
	}
	p.Meta[key] = value
}

// Chain returns the ordered engine names, for audit and tests.
func (p *Provenance) Chain() []string {
	out := make([]string, len(p.Records))
	for i, r := range p.Records {
		out[i] = r.Engine
	}
	return out
}

// CloneWithMeta copies the ledger and merges extra metadata on top of the
// existing keys. The record slice is copied; callers own the clone.
func (p *Provenance) CloneWithMeta(extra map[string]any) *Provenance {
	np := &Provenance{
		Seed:    p.Seed,
		Meta:    make(map[string]any, len(p.Meta)+len(extra)),
		Records: append([]Record(nil), p.Records...),
	}
	for k, v := range p.Meta {
		np.Meta[k] = v
	}
	for k, v := range extra {
		np.Meta[k] = v
	}
	return np
}
