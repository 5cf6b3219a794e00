package security

import (
	"context"
	"errors"
	"fmt"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/face"
	"smart_condominium/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrEncoderUnavailable is returned when no face model is configured
var ErrEncoderUnavailable = errors.New("face recognition is not configured")

// FaceResult is the outcome of RecognizeFace
type FaceResult struct {
	User       *domain.User // nil when the face is unknown
	Distance   float64
	Confidence float64
	Event      *domain.SecurityEvent
}

// Recognized reports whether an enrolled user was matched
func (r *FaceResult) Recognized() bool {
	return r.User != nil
}

// RegisterFace encodes the face in image and stores it as the user's single FaceRecord,
// replacing any previous enrolment.
func (s *Service) RegisterFace(ctx context.Context, userID uint, image []byte) (*domain.FaceRecord, error) {
	if s.encoder == nil {
		return nil, ErrEncoderUnavailable
	}
	enc, err := s.encoder.Encode(ctx, image)
	if err != nil {
		return nil, err
	}
	var rec domain.FaceRecord
	err = s.db.WithContext(ctx).
		Where(domain.FaceRecord{UserID: userID}).
		Assign(domain.FaceRecord{FaceEncoding: enc.String()}).
		FirstOrCreate(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("save face record: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"face_record_id": rec.ID,
	}).Info("Face registered")
	return &rec, nil
}

// gallery loads every enrolled encoding. Records that cannot be parsed are skipped.
func (s *Service) gallery(ctx context.Context) ([]face.Candidate, error) {
	var records []domain.FaceRecord
	if err := s.db.WithContext(ctx).Select("id", "user_id", "face_encoding").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load face records: %w", err)
	}
	gallery := make([]face.Candidate, 0, len(records))
	for _, r := range records {
		enc, err := face.ParseEncoding(r.FaceEncoding)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": r.UserID,
				"error":   err.Error(),
			}).Warn("Skipping malformed face record")
			continue
		}
		gallery = append(gallery, face.Candidate{UserID: r.UserID, Encoding: enc})
	}
	return gallery, nil
}

// identify matches query against the gallery and loads the matched user
func (s *Service) identify(ctx context.Context, query face.Encoding) (*domain.User, face.Match, error) {
	gallery, err := s.gallery(ctx)
	if err != nil {
		return nil, face.Match{}, err
	}
	m, ok := face.BestMatch(query, gallery, s.tolerance)
	if !ok {
		return nil, face.Match{}, nil
	}
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, m.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, face.Match{}, nil
		}
		return nil, face.Match{}, err
	}
	return &user, m, nil
}

// RecognizeFace identifies the face in image and writes exactly one security event:
// face_recognition with the user on a match, unauthorized_access otherwise.
// Images without a face return face.ErrNoFace and write nothing.
func (s *Service) RecognizeFace(ctx context.Context, image []byte) (*FaceResult, error) {
	if s.encoder == nil {
		return nil, ErrEncoderUnavailable
	}
	query, err := s.encoder.Encode(ctx, image)
	if err != nil {
		return nil, err
	}
	user, m, err := s.identify(ctx, query)
	if err != nil {
		return nil, err
	}

	event := &domain.SecurityEvent{}
	if user != nil {
		event.EventType = domain.EventFaceRecognition
		event.Description = "Rostro reconocido: " + user.Username
		event.UserID = &user.ID
	} else {
		event.EventType = domain.EventUnauthorizedAccess
		event.Description = "Intento de acceso con rostro no reconocido"
		event.Image = s.saveImage(ctx, storage.PrefixSecurity, image)
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("save security event: %w", err)
	}

	fields := logrus.Fields{"event_type": event.EventType, "event_id": event.ID}
	if user != nil {
		fields["user_id"] = user.ID
		fields["distance"] = m.Distance
	}
	logrus.WithFields(fields).Info("Face recognition attempt")

	return &FaceResult{User: user, Distance: m.Distance, Confidence: m.Confidence, Event: event}, nil
}
