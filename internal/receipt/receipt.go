// Package receipt extracts text from photographed receipts.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxImageSize is the largest receipt image accepted, in bytes.
const MaxImageSize = 5 << 20

var (
	ErrEmptyImage      = errors.New("receipt image is empty")
	ErrImageTooLarge   = fmt.Errorf("receipt image exceeds %d MiB", MaxImageSize>>20)
	ErrUnsupportedType = errors.New("receipt image must be JPEG, PNG or WebP")
	ErrNotConfigured   = errors.New("receipt text extraction is not configured")
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// Extractor turns a receipt image into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, contentType string, image []byte) (string, error)
}

// ValidateImage checks the content type and size of an upload before extraction.
func ValidateImage(contentType string, image []byte) error {
	mediaType, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(contentType)), ";")
	if _, ok := allowedTypes[strings.TrimSpace(mediaType)]; !ok {
		return fmt.Errorf("%w: got %q", ErrUnsupportedType, contentType)
	}
	if len(image) == 0 {
		return ErrEmptyImage
	}
	if len(image) > MaxImageSize {
		return fmt.Errorf("%w: got %d bytes", ErrImageTooLarge, len(image))
	}
	return nil
}

// Disabled is the Extractor used when no OCR backend is configured.
// Every call fails with ErrNotConfigured, which callers report as a soft warning.
type Disabled struct{}

func (Disabled) ExtractText(context.Context, string, []byte) (string, error) {
	return "", ErrNotConfigured
}
