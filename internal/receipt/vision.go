package receipt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

const documentTextDetection = "DOCUMENT_TEXT_DETECTION"

// Receipts are mostly Italian; English covers brand names and card slips.
var languageHints = []string{"it", "en"}

// VisionExtractor reads receipts with the Google Cloud Vision API.
type VisionExtractor struct {
	svc     *vision.Service
	timeout time.Duration
}

var _ Extractor = (*VisionExtractor)(nil)

// NewVisionExtractor creates an extractor authenticated with an API key.
// endpoint overrides the API base URL when not empty.
func NewVisionExtractor(ctx context.Context, apiKey, endpoint string, timeout time.Duration) (*VisionExtractor, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}

	slog.InfoContext(ctx, "Receipt text extraction enabled", "backend", "google-vision", "timeout", timeout)
	return &VisionExtractor{svc: svc, timeout: timeout}, nil
}

// ExtractText runs document text detection on the image.
// An image without text yields an empty string and no error.
func (v *VisionExtractor) ExtractText(ctx context.Context, contentType string, image []byte) (string, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:        &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features:     []*vision.Feature{{Type: documentTextDetection}},
			ImageContext: &vision.ImageContext{LanguageHints: languageHints},
		}},
	}

	resp, err := v.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", errors.New("vision annotate: empty response")
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return "", fmt.Errorf("vision annotate: %s (code %d)", r.Error.Message, r.Error.Code)
	}
	if r.FullTextAnnotation != nil {
		return r.FullTextAnnotation.Text, nil
	}
	if len(r.TextAnnotations) > 0 {
		return r.TextAnnotations[0].Description, nil
	}

	slog.DebugContext(ctx, "No text found on receipt", "content_type", contentType, "size", len(image))
	return "", nil
}
