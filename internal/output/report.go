// internal/output/report.go
package output

import (
	"psyfield-core/pipeline"

	"psyfield/internal/version"
)

// Report is the stable wire schema (v1) for a completed run. Both the
// CLI JSON output and the server response encode this shape.
type Report struct {
	RunID      string             `json:"run_id,omitempty"`
	Version    string             `json:"version"`
	Seed       int64              `json:"seed"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Scores     scoresV1           `json:"scores"`
	Simplicity simplicityV1       `json:"simplicity"`
	Metrics    metricsV1          `json:"metrics"`
	Provenance []provenanceItemV1 `json:"provenance"`
}

type scoresV1 struct {
	Valence   float64 `json:"valence"`
	Coherence float64 `json:"coherence"`
	Symmetry  float64 `json:"symmetry"`
	Roughness float64 `json:"roughness"`
	Richness  float64 `json:"richness"`
}

type simplicityV1 struct {
	Phase     float64 `json:"phase"`
	Magnitude float64 `json:"magnitude"`
	Overall   float64 `json:"overall"`
}

type metricsV1 struct {
	ComputeSteps int     `json:"compute_steps"`
	GridSize     int     `json:"grid_size"`
	EntropyProxy float64 `json:"entropy_proxy"`
}

type provenanceItemV1 struct {
	Engine string         `json:"engine"`
	Params map[string]any `json:"params,omitempty"`
	Digest string         `json:"digest"`
}

// NewReport converts a pipeline result to the wire schema.
func NewReport(req pipeline.Request, res *pipeline.Result) Report {
	items := make([]provenanceItemV1, 0, len(res.Provenance.Records))
	for _, r := range res.Provenance.Records {
		items = append(items, provenanceItemV1{Engine: r.Engine, Params: r.Params, Digest: r.Digest})
	}
	return Report{
		Version: version.Version,
		Seed:    res.Provenance.Seed,
		Width:   req.Width,
		Height:  req.Height,
		Scores: scoresV1{
			Valence:   res.Scores.Valence,
			Coherence: res.Scores.Coherence,
			Symmetry:  res.Scores.Symmetry,
			Roughness: res.Scores.Roughness,
			Richness:  res.Scores.Richness,
		},
		Simplicity: simplicityV1{
			Phase:     res.Simplicity.PhaseSimplicity,
			Magnitude: res.Simplicity.MagnitudeSimplicity,
			Overall:   res.Simplicity.Overall,
		},
		Metrics: metricsV1{
			ComputeSteps: res.Metrics.ComputeSteps,
			GridSize:     res.Metrics.GridSize,
			EntropyProxy: res.Metrics.EntropyProxy,
		},
		Provenance: items,
	}
}
