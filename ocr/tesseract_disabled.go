//go:build !ocr2sheet_feature_ocr_tesseract

package ocr

import (
	"context"
	"io"
)

const FeatureTesseractEnabled = false

// Placeholder used when the binary is built without the `ocr2sheet_feature_ocr_tesseract` tag.
type Tesseract struct {
	config TesseractConfig
}

func NewTesseract(config TesseractConfig) *Tesseract {
	return &Tesseract{config: config}
}

func (p *Tesseract) OCR(ctx context.Context, image io.Reader) (string, error) {
	return "", ErrOCRNotCompiled
}

func (p *Tesseract) Init(ctx context.Context) error {
	return ErrOCRNotCompiled
}

func (p *Tesseract) Destroy() error {
	return nil
}

func (p *Tesseract) IsMimeTypeSupported(mimeType string) bool {
	return false
}
