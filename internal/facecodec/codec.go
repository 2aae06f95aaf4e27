// Package facecodec converts face encodings to and from the text form stored
// in the users.face_encoding column.
//
// The stored form is standard base64 over the little-endian IEEE-754 bytes of
// each float64 component. Decoding is lenient about '=' padding because older
// rows were written with broken padding; everything else that does not parse
// is reported as ErrInvalid so callers can skip or remove the row.
package facecodec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalid is returned for any stored text that cannot be turned back into
// an encoding.
var ErrInvalid = errors.New("invalid face encoding")

const bytesPerComponent = 8

// Encoding is a fixed-length face feature vector.
type Encoding []float64

// Dim returns the number of components.
func (e Encoding) Dim() int {
	return len(e)
}

// Codec encodes and decodes encodings. When Dim is positive, only vectors of
// exactly that length are accepted in either direction.
type Codec struct {
	Dim int
}

// New returns a codec enforcing the given dimension (0 = any length).
func New(dim int) Codec {
	if dim < 0 {
		dim = 0
	}
	return Codec{Dim: dim}
}

// Encode serializes the vector into padded standard base64.
func (c Codec) Encode(vec Encoding) (string, error) {
	if len(vec) == 0 {
		return "", errors.New("empty face encoding")
	}
	if c.Dim > 0 && len(vec) != c.Dim {
		return "", fmt.Errorf("face encoding has %d components, want %d", len(vec), c.Dim)
	}

	buf := make([]byte, len(vec)*bytesPerComponent)
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("face encoding component %d is not finite", i)
		}
		binary.LittleEndian.PutUint64(buf[i*bytesPerComponent:], math.Float64bits(v))
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decode parses stored text. It never panics; every structural problem is
// reported as ErrInvalid (wrapped with detail).
func (c Codec) Decode(text string) (Encoding, error) {
	raw := strings.TrimSpace(text)
	raw = strings.TrimRight(raw, "=")
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalid)
	}

	buf, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(buf) == 0 || len(buf)%bytesPerComponent != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole vector", ErrInvalid, len(buf))
	}

	n := len(buf) / bytesPerComponent
	if c.Dim > 0 && n != c.Dim {
		return nil, fmt.Errorf("%w: %d components, want %d", ErrInvalid, n, c.Dim)
	}

	vec := make(Encoding, n)
	for i := range vec {
		v := math.Float64frombits(binary.LittleEndian.Uint64(buf[i*bytesPerComponent:]))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: component %d is not finite", ErrInvalid, i)
		}
		vec[i] = v
	}
	return vec, nil
}

// DecodeNullable is Decode for a nullable column. A NULL value is invalid.
func (c Codec) DecodeNullable(text *string) (Encoding, error) {
	if text == nil {
		return nil, fmt.Errorf("%w: null", ErrInvalid)
	}
	return c.Decode(*text)
}

// FromFloat32 widens a float32 vector as returned by the face service.
func FromFloat32(v []float32) Encoding {
	out := make(Encoding, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
