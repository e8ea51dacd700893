// core/field/digest.go
package field

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Digest returns the canonical sha256 of the field, hex-encoded.
//
// The encoding is width, height (big-endian uint32) followed by the IEEE
// bits of each cell's real then imaginary part in row-major order. It is
// stable across architectures, so equal digests mean byte-identical
// fields.
func (f *Field) Digest() string {
	h := sha256.New()
	var b [16]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(f.width))
	binary.BigEndian.PutUint32(b[4:8], uint32(f.height))
	h.Write(b[:8])
	for _, c := range f.data {
		binary.BigEndian.PutUint64(b[0:8], math.Float64bits(real(c)))
		binary.BigEndian.PutUint64(b[8:16], math.Float64bits(imag(c)))
		h.Write(b[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Equal reports exact bitwise equality of shape and cells.
func (f *Field) Equal(g *Field) bool {
	if !f.SameShape(g) {
		return false
	}
	for i := range f.data {
		if f.data[i] != g.data[i] {
			return false
		}
	}
	return true
}

// ApproxEqual reports cell-wise equality within tol on both components.
func (f *Field) ApproxEqual(g *Field, tol float64) bool {
	if !f.SameShape(g) {
		return false
	}
	for i := range f.data {
		if math.Abs(real(f.data[i])-real(g.data[i])) > tol ||
			math.Abs(imag(f.data[i])-imag(g.data[i])) > tol {
			return false
		}
	}
	return true
}
