// Package security runs the access-control decisions: face recognition against the
// enrolled gallery and plate authorization, each leaving an audit row.
package security

import (
	"context"
	"smart_condominium/internal/face"
	"smart_condominium/internal/ocr"
	"smart_condominium/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service holds the collaborators of the security endpoints
type Service struct {
	db        *gorm.DB
	encoder   face.Encoder
	detector  ocr.TextDetector
	store     storage.ObjectStorage
	tolerance float64
}

// NewService creates a Service. A non-positive tolerance means face.DefaultTolerance.
func NewService(db *gorm.DB, encoder face.Encoder, detector ocr.TextDetector, store storage.ObjectStorage, tolerance float64) *Service {
	if tolerance <= 0 {
		tolerance = face.DefaultTolerance
	}
	return &Service{db: db, encoder: encoder, detector: detector, store: store, tolerance: tolerance}
}

// saveImage stores a captured frame. Storage failures are logged and yield an empty
// key: the access decision is still recorded.
func (s *Service) saveImage(ctx context.Context, prefix string, image []byte) string {
	if s.store == nil || len(image) == 0 {
		return ""
	}
	key, err := storage.Save(ctx, s.store, prefix, image)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"prefix": prefix,
			"error":  err.Error(),
		}).Warn("Failed to store captured image")
		return ""
	}
	return key
}
