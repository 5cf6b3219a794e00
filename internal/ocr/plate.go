// Package ocr reads licence plates from camera frames.
package ocr

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrNoText is returned by a TextDetector when the image contains no readable text.
var ErrNoText = errors.New("no text detected in image")

// TextDetector returns the full text found in an image.
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// Plate formats, tried in order. The first format with a hit wins.
var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z]{3}[0-9]{3}`),         // ABC123
	regexp.MustCompile(`[A-Z]{2}[0-9]{3}[A-Z]{2}`), // AB123CD
	regexp.MustCompile(`[A-Z]{3}[0-9]{2}[A-Z]`),    // ABC12D
	regexp.MustCompile(`[0-9]{3}[A-Z]{3}`),         // 123ABC
}

var whitespace = regexp.MustCompile(`\s+`)

// Clean upper-cases text and strips all whitespace.
func Clean(text string) string {
	return whitespace.ReplaceAllString(strings.ToUpper(text), "")
}

// ExtractPlate returns the first plate number found in text.
func ExtractPlate(text string) (string, bool) {
	cleaned := Clean(text)
	for _, p := range platePatterns {
		if m := p.FindString(cleaned); m != "" {
			return m, true
		}
	}
	return "", false
}

// Confidence scores a read: 0.9 when the plate appears verbatim in the cleaned text,
// 0.7 otherwise.
func Confidence(text, plate string) float64 {
	if strings.Contains(Clean(text), plate) {
		return 0.9
	}
	return 0.7
}
