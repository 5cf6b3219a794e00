// Package dlib encodes faces with dlib's ResNet model through go-face.
// It needs cgo and the dlib model files (shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat, mmod_human_face_detector.dat).
package dlib

import (
	"context"
	"fmt"
	"smart_condominium/internal/face"
	"sync"

	goface "github.com/Kagami/go-face"
	"github.com/sirupsen/logrus"
)

// Recognizer implements face.Encoder. The underlying dlib recognizer is not safe for
// concurrent use, so calls are serialized.
type Recognizer struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

var _ face.Encoder = (*Recognizer)(nil)

// NewRecognizer loads the models found in modelsDir.
func NewRecognizer(modelsDir string) (*Recognizer, error) {
	rec, err := goface.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("load face models from %s: %w", modelsDir, err)
	}
	logrus.WithField("models_dir", modelsDir).Info("Face recognition models loaded")
	return &Recognizer{rec: rec}, nil
}

// Encode returns the descriptor of the single face in a JPEG image. Images with no
// face, or with more than one, yield face.ErrNoFace.
func (r *Recognizer) Encode(ctx context.Context, image []byte) (face.Encoding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := r.rec.RecognizeSingle(image)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	if f == nil {
		return nil, face.ErrNoFace
	}
	enc := make(face.Encoding, len(f.Descriptor))
	for i, v := range f.Descriptor {
		enc[i] = float64(v)
	}
	return enc, nil
}

// Close releases the dlib resources.
func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec != nil {
		r.rec.Close()
		r.rec = nil
	}
}
