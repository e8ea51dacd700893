// core/abx/errors.go
package abx

import "fmt"

// ValidationError rejects out-of-range dimensions, steps, or engine
// parameters before any computation runs.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// Invalidf builds a ValidationError for a named parameter.
func Invalidf(param, format string, args ...any) error {
	return &ValidationError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// ShapeMismatchError aborts a pipeline when field dimensions are
// inconsistent between chained engines.
type ShapeMismatchError struct {
	Engine       string
	WantW, WantH int
	GotW, GotH   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: field shape %dx%d does not match expected %dx%d",
		e.Engine, e.GotW, e.GotH, e.WantW, e.WantH)
}

// NumericInstabilityError aborts a pipeline when NaN or Inf appears in an
// intermediate field. The partially evolved field is never returned.
type NumericInstabilityError struct {
	Engine string
	Step   int // pipeline step index
	X, Y   int // first offending cell
}

func (e *NumericInstabilityError) Error() string {
	return fmt.Sprintf("%s (step %d): non-finite value at cell (%d,%d)", e.Engine, e.Step, e.X, e.Y)
}

// InternalInvariantError reports programmer errors such as draw-order
// corruption. Not user-recoverable.
type InternalInvariantError struct {
	Reason string
}

func (e *InternalInvariantError) Error() string {
	return "internal invariant violated: " + e.Reason
}
