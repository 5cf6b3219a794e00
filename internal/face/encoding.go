// Package face compares face encodings against the enrolled gallery.
//
// An encoding is the fixed-length descriptor produced by a face recognition model
// (128 values for dlib). Two encodings belong to the same person when their Euclidean
// distance is below a tolerance, 0.6 by default.
package face

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultTolerance is the largest distance still treated as the same person
const DefaultTolerance = 0.6

var (
	// ErrNoFace is returned by an Encoder when the image holds no detectable face.
	ErrNoFace = errors.New("no face detected in image")
	// ErrLengthMismatch is returned when two encodings have different dimensions.
	ErrLengthMismatch = errors.New("encoding length mismatch")
	// ErrEmptyEncoding is returned when parsing an empty stored encoding.
	ErrEmptyEncoding = errors.New("empty encoding")
)

// Encoding is a face descriptor vector.
type Encoding []float64

// Encoder turns an image into the encoding of the face it contains.
type Encoder interface {
	Encode(ctx context.Context, image []byte) (Encoding, error)
}

// String joins the values with commas, the storage format of FaceRecord.
func (e Encoding) String() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ParseEncoding reads a comma-joined encoding.
func ParseEncoding(s string) (Encoding, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyEncoding
	}
	parts := strings.Split(s, ",")
	e := make(Encoding, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		e[i] = v
	}
	return e, nil
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Encoding) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, ErrLengthMismatch
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
