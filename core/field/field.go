// core/field/field.go
package field

import (
	"math"
	"math/cmplx"

	"psyfield-core/abx"
)

// Grid dimension bounds. Dimensions are fixed for the lifetime of a Field;
// no engine may resize one.
const (
	MinDim = 8
	MaxDim = 512
)

// Field is a rectangular grid of complex values stored row-major in a flat
// slice. Magnitude is local activation intensity, phase is oscillatory
// timing in (-pi, pi].
//
// Fields are immutable by convention: every transform allocates and
// returns a new Field. Nothing in the core mutates a Field it did not
// allocate itself.
type Field struct {
	width  int
	height int
	data   []complex128
}

func checkDims(width, height int) error {
	if width < MinDim || width > MaxDim {
		return abx.Invalidf("width", "%d outside [%d,%d]", width, MinDim, MaxDim)
	}
	if height < MinDim || height > MaxDim {
		return abx.Invalidf("height", "%d outside [%d,%d]", height, MinDim, MaxDim)
	}
	return nil
}

// Zeros returns a field with every cell 0+0i.
func Zeros(width, height int) (*Field, error) {
	if err := checkDims(width, height); err != nil {
		return nil, err
	}
	return &Field{width: width, height: height, data: make([]complex128, width*height)}, nil
}

// RandomPhase returns a field of unit magnitude with phase drawn uniformly
// from (-pi, pi], one runtime draw per cell in row-major order. The draw
// order is part of the determinism contract.
func RandomPhase(rt *abx.Runtime, width, height int) (*Field, error) {
	f, err := Zeros(width, height)
	if err != nil {
		return nil, err
	}
	for i := range f.data {
		p := rt.NextUniform(-math.Pi, math.Pi)
		if p == -math.Pi {
			p = math.Pi
		}
		f.data[i] = cmplx.Exp(complex(0, p))
	}
	return f, nil
}

// FromData wraps externally supplied row-major complex data after
// validating its shape. The slice is copied; the caller keeps ownership
// of its own buffer.
func FromData(data []complex128, width, height int) (*Field, error) {
	if err := checkDims(width, height); err != nil {
		return nil, err
	}
	if len(data) != width*height {
		return nil, abx.Invalidf("data", "length %d does not match %dx%d grid", len(data), width, height)
	}
	return &Field{width: width, height: height, data: append([]complex128(nil), data...)}, nil
}

// New allocates an owned blank field of the same shape as f, for engines
// building their output.
func (f *Field) New() *Field {
	return &Field{width: f.width, height: f.height, data: make([]complex128, len(f.data))}
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	return &Field{width: f.width, height: f.height, data: append([]complex128(nil), f.data...)}
}

func (f *Field) Width() int  { return f.width }
func (f *Field) Height() int { return f.height }
func (f *Field) Len() int    { return len(f.data) }

// Idx converts (x, y) into the row-major index.
func (f *Field) Idx(x, y int) int { return y*f.width + x }

// At returns the cell at (x, y) without bounds checking.
func (f *Field) At(x, y int) complex128 { return f.data[y*f.width+x] }

// Set writes the cell at (x, y). Only the allocating engine may call it.
func (f *Field) Set(x, y int, v complex128) { f.data[y*f.width+x] = v }

// Data exposes the backing slice for engine inner loops. Read-only for
// any field the caller does not own.
func (f *Field) Data() []complex128 { return f.data }

// SameShape reports whether g has identical dimensions.
func (f *Field) SameShape(g *Field) bool {
	return g != nil && f.width == g.width && f.height == g.height
}

// Magnitudes returns |cell| for every cell, row-major.
func (f *Field) Magnitudes() []float64 {
	out := make([]float64, len(f.data))
	for i, c := range f.data {
		out[i] = cmplx.Abs(c)
	}
	return out
}

// Phases returns the phase angle of every cell, row-major, in (-pi, pi].
func (f *Field) Phases() []float64 {
	out := make([]float64, len(f.data))
	for i, c := range f.data {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// FirstNonFinite reports the coordinates of the first cell holding a NaN
// or Inf component, scanning row-major. ok is false when the field is
// entirely finite.
func (f *Field) FirstNonFinite() (x, y int, ok bool) {
	for i, c := range f.data {
		re, im := real(c), imag(c)
		if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
			return i % f.width, i / f.width, true
		}
	}
	return 0, 0, false
}
