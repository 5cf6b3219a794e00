// Package storage keeps captured images (security frames, vehicle snapshots,
// maintenance photos) in object storage.
package storage

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
)

// Key prefixes, one per kind of image
const (
	PrefixSecurity      = "security_images"
	PrefixVehicleAccess = "vehicle_access"
	PrefixMaintenance   = "maintenance_requests"
)

// ObjectStorage stores blobs under a key.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// NewKey builds a unique object key such as security_images/2025/03/<uuid>.jpg
func NewKey(prefix string, data []byte, now time.Time) string {
	return path.Join(prefix, now.Format("2006/01"), uuid.NewString()+Extension(data))
}

// Extension guesses a file extension from the content.
func Extension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// Save stores data under a fresh key and returns it.
func Save(ctx context.Context, s ObjectStorage, prefix string, data []byte) (string, error) {
	key := NewKey(prefix, data, time.Now().UTC())
	if err := s.Put(ctx, key, http.DetectContentType(data), data); err != nil {
		return "", err
	}
	return key, nil
}
