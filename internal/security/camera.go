package security

import (
	"context"
	"errors"
	"fmt"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/face"
	"smart_condominium/internal/ocr"
	"smart_condominium/internal/storage"

	"github.com/sirupsen/logrus"
)

// CameraEvent classifies a frame from a building camera and records one security event.
// A recognised face wins over a plate read; a frame with neither is suspicious
// activity. Recognition failures degrade the classification instead of failing the call.
func (s *Service) CameraEvent(ctx context.Context, image []byte, cameraID string) (*domain.SecurityEvent, error) {
	user := s.cameraFace(ctx, image, cameraID)

	var plate string
	if user == nil {
		plate = s.cameraPlate(ctx, image, cameraID)
	}

	event := &domain.SecurityEvent{
		EventType:   domain.EventSuspiciousActivity,
		Description: "Actividad sospechosa detectada.",
		Image:       s.saveImage(ctx, storage.PrefixSecurity, image),
	}
	switch {
	case user != nil:
		event.EventType = domain.EventFaceRecognition
		event.Description = "Rostro reconocido: " + user.Username
		event.UserID = &user.ID
	case plate != "":
		event.EventType = domain.EventPlateRecognition
		event.Description = "Placa detectada: " + plate
	}
	if cameraID != "" {
		event.Description += " (cámara " + cameraID + ")"
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("save security event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_type": event.EventType,
		"event_id":   event.ID,
		"camera_id":  cameraID,
	}).Info("Camera security event")
	return event, nil
}

func (s *Service) cameraFace(ctx context.Context, image []byte, cameraID string) *domain.User {
	if s.encoder == nil {
		return nil
	}
	query, err := s.encoder.Encode(ctx, image)
	if err != nil {
		if !errors.Is(err, face.ErrNoFace) {
			logrus.WithFields(logrus.Fields{"camera_id": cameraID, "error": err.Error()}).Warn("Face encoding failed")
		}
		return nil
	}
	user, _, err := s.identify(ctx, query)
	if err != nil {
		logrus.WithFields(logrus.Fields{"camera_id": cameraID, "error": err.Error()}).Warn("Face identification failed")
		return nil
	}
	return user
}

func (s *Service) cameraPlate(ctx context.Context, image []byte, cameraID string) string {
	if s.detector == nil {
		return ""
	}
	text, err := s.detector.DetectText(ctx, image)
	if err != nil {
		if !errors.Is(err, ocr.ErrNoText) {
			logrus.WithFields(logrus.Fields{"camera_id": cameraID, "error": err.Error()}).Warn("Text detection failed")
		}
		return ""
	}
	plate, _ := ocr.ExtractPlate(text)
	return plate
}
