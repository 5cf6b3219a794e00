package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidImage is returned when an image payload is not valid base64
var ErrInvalidImage = errors.New("invalid image data")

// DecodeBase64Image decodes an image sent as plain base64 or as a data URL
// ("data:image/jpeg;base64,...").
func DecodeBase64Image(data string) ([]byte, error) {
	if i := strings.Index(data, ","); i >= 0 {
		data = data[i+1:]
	}
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, ErrInvalidImage
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// Browsers sometimes drop the padding
		if b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "=")); err != nil {
			return nil, ErrInvalidImage
		}
	}
	if len(b) == 0 {
		return nil, ErrInvalidImage
	}
	return b, nil
}
