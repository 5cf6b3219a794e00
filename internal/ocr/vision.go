package ocr

import (
	"context"
	"errors"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// VisionDetector detects text with the Google Cloud Vision API. Credentials come
// from GOOGLE_APPLICATION_CREDENTIALS.
type VisionDetector struct {
	client *vision.ImageAnnotatorClient
}

var _ TextDetector = (*VisionDetector)(nil)

// NewVisionDetector creates the Vision client.
func NewVisionDetector(ctx context.Context) (*VisionDetector, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	return &VisionDetector{client: client}, nil
}

// DetectText runs TEXT_DETECTION and returns the first annotation, which holds the
// whole text block.
func (d *VisionDetector) DetectText(ctx context.Context, image []byte) (string, error) {
	resp, err := d.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("vision text detection: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", ErrNoText
	}
	r := resp.GetResponses()[0]
	if st := r.GetError(); st != nil && st.GetCode() != 0 {
		return "", errors.New("vision text detection: " + st.GetMessage())
	}
	texts := r.GetTextAnnotations()
	if len(texts) == 0 || texts[0].GetDescription() == "" {
		return "", ErrNoText
	}
	return texts[0].GetDescription(), nil
}

// Close closes the underlying gRPC connection.
func (d *VisionDetector) Close() error {
	return d.client.Close()
}
