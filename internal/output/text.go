// internal/output/text.go
package output

import (
	"fmt"
	"io"
)

// WriteText prints a human-readable run summary: the score block, the
// simplicity block, then one provenance line per stage.
func WriteText(w io.Writer, rep Report) error {
	if _, err := fmt.Fprintf(w,
		"seed\t%d\ngrid\t%dx%d\n\nvalence\t%.4f\ncoherence\t%.4f\nsymmetry\t%.4f\nroughness\t%.4f\nrichness\t%.4f\n",
		rep.Seed, rep.Width, rep.Height,
		rep.Scores.Valence, rep.Scores.Coherence, rep.Scores.Symmetry,
		rep.Scores.Roughness, rep.Scores.Richness,
	); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w,
		"\nsimplicity\t%.4f (phase %.4f, magnitude %.4f)\ncompute-steps\t%d\n\n",
		rep.Simplicity.Overall, rep.Simplicity.Phase, rep.Simplicity.Magnitude,
		rep.Metrics.ComputeSteps,
	); err != nil {
		return err
	}
	for i, item := range rep.Provenance {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", i, item.Engine, shortDigest(item.Digest)); err != nil {
			return err
		}
	}
	return nil
}

// shortDigest truncates a hex digest for terminal display.
func shortDigest(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}
