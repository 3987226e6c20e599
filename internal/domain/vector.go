package domain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const bytesPerFloat64 = 8

// EncodeVector serializes a vector as little-endian float64 values.
func EncodeVector(v []float64) []byte {
	buf := make([]byte, len(v)*bytesPerFloat64)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*bytesPerFloat64:], math.Float64bits(f))
	}
	return buf
}

// DecodeVector reverses EncodeVector.
func DecodeVector(b []byte) ([]float64, error) {
	if len(b)%bytesPerFloat64 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of %d", len(b), bytesPerFloat64)
	}
	v := make([]float64, len(b)/bytesPerFloat64)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*bytesPerFloat64:]))
	}
	return v, nil
}

// ValidateVector rejects empty vectors and non-finite components.
func ValidateVector(v []float64) error {
	if len(v) == 0 {
		return errors.New("empty vector")
	}
	for i, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite component at index %d", i)
		}
	}
	return nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is zero or lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// SameVector reports whether two vectors are identical component by component.
func SameVector(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
