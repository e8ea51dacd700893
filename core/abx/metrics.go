// core/abx/metrics.go
package abx

// Metrics tracks computational counters during a run. Purely
// informational; nothing in the core branches on them.
type Metrics struct {
	ComputeSteps int                `json:"compute_steps"`
	GridSize     int                `json:"grid_size"`
	EntropyProxy float64            `json:"entropy_proxy"`
	Extras       map[string]float64 `json:"extras,omitempty"`
}

// IncrementSteps bumps the compute-step counter by n.
func (m *Metrics) IncrementSteps(n int) { m.ComputeSteps += n }

// SetGridSize records the cell count for a width x height grid.
func (m *Metrics) SetGridSize(width, height int) { m.GridSize = width * height }

// UpdateEntropy stores the latest entropy proxy value.
func (m *Metrics) UpdateEntropy(v float64) { m.EntropyProxy = v }

// AddExtra stores an ad-hoc named metric.
func (m *Metrics) AddExtra(key string, v float64) {
	if m.Extras == nil {
		m.Extras = map[string]float64{}
	}
	m.Extras[key] = v
}
