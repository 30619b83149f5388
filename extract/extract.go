// Package extract turns image files into text with the help of an OCR provider.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/opengs/ocr2sheet/ocr"
)

var ErrBadFile = errors.New("bad file or corrupted")

type ErrMimeTypeNotSupported struct {
	MimeType *mimetype.MIME
}

func (e *ErrMimeTypeNotSupported) Error() string {
	return fmt.Sprintf("mime type of the file is not supported: %s", e.MimeType)
}

type Extractor interface {
	// Returns list of supported mime types by this extractor
	SupportedMimeTypes() []string
	// Extract text from file. Thread safe
	Extract(ctx context.Context, file io.Reader, path string) Result
}

// Extraction result
type Result struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType"`
	// Raw OCR output
	Text string `json:"text"`
	// Not empty if there where error
	Err error `json:"-"`
}

// Build extractor with all supported image types included
func New(ocrProvider ocr.Provider) *Composite {
	return NewComposite(
		NewPNGExtractor(ocrProvider),
		NewJPEGExtractor(ocrProvider),
		NewBMPExtractor(ocrProvider),
		NewGIFExtractor(ocrProvider),
		NewTIFFExtractor(ocrProvider),
		NewWebPExtractor(ocrProvider),
	)
}
