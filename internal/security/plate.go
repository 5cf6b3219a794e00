package security

import (
	"context"
	"errors"
	"fmt"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/ocr"
	"smart_condominium/internal/storage"

	"github.com/sirupsen/logrus"
)

// ErrDetectorUnavailable is returned when no OCR backend is configured
var ErrDetectorUnavailable = errors.New("plate recognition is not configured")

// ErrNoPlate is returned when text was read but no plate pattern matched.
// The attempt is still logged as UNKNOWN.
var ErrNoPlate = errors.New("no valid plate detected in image")

// PlateResult is the outcome of RecognizePlate
type PlateResult struct {
	PlateNumber  string
	Confidence   float64
	IsAuthorized bool
	Log          *domain.VehicleAccessLog
}

// IsPlateAuthorized reports whether plate is on the active, authorized list
func (s *Service) IsPlateAuthorized(ctx context.Context, plate string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.VehiclePlate{}).
		Where("plate_number = ? AND is_active = ? AND status = ?", plate, true, domain.PlateStatusAuthorized).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check plate authorization: %w", err)
	}
	return n > 0, nil
}

// RecognizePlate reads the plate in image, checks it against the authorization list and
// writes one VehicleAccessLog row. An image with no text returns ocr.ErrNoText and
// writes nothing; text without a plate writes a DENIED row for UNKNOWN and returns
// ErrNoPlate.
func (s *Service) RecognizePlate(ctx context.Context, image []byte, cameraID string) (*PlateResult, error) {
	if s.detector == nil {
		return nil, ErrDetectorUnavailable
	}
	text, err := s.detector.DetectText(ctx, image)
	if err != nil {
		return nil, err
	}

	plate, ok := ocr.ExtractPlate(text)
	if !ok {
		entry := &domain.VehicleAccessLog{
			PlateNumber:    domain.UnknownPlate,
			VehicleImage:   s.saveImage(ctx, storage.PrefixVehicleAccess, image),
			AccessType:     domain.AccessDenied,
			CameraLocation: cameraID,
			Notes:          "Texto detectado pero no es placa válida: " + text,
		}
		if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
			return nil, fmt.Errorf("save access log: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"camera_id": cameraID,
			"log_id":    entry.ID,
		}).Warn("Text detected but no plate matched")
		return nil, ErrNoPlate
	}

	authorized, err := s.IsPlateAuthorized(ctx, plate)
	if err != nil {
		return nil, err
	}
	confidence := ocr.Confidence(text, plate)
	accessType := domain.AccessDenied
	if authorized {
		accessType = domain.AccessGranted
	}
	entry := &domain.VehicleAccessLog{
		PlateNumber:     plate,
		VehicleImage:    s.saveImage(ctx, storage.PrefixVehicleAccess, image),
		ConfidenceScore: confidence,
		IsAuthorized:    authorized,
		AccessGranted:   authorized,
		AccessType:      accessType,
		CameraLocation:  cameraID,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("save access log: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"plate_number": plate,
		"access_type":  accessType,
		"confidence":   confidence,
		"camera_id":    cameraID,
		"log_id":       entry.ID,
	}).Info("Plate recognition attempt")

	return &PlateResult{PlateNumber: plate, Confidence: confidence, IsAuthorized: authorized, Log: entry}, nil
}
