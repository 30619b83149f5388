package ocr

import (
	"context"
	"io"
)

type ProviderName string

const ProviderNameTesseract ProviderName = "TESSERACT"
const ProviderNameTesseractServer ProviderName = "TESSERACT_SERVER"
const ProviderNamePaddle ProviderName = "PADDLE"
const ProviderNameGemini ProviderName = "GEMINI"

// Provides OCR functionality
type Provider interface {
	// Get text from image. Thread safe
	OCR(ctx context.Context, image io.Reader) (string, error)
}

// Implemented by providers that accept more image formats than PNG
type FormatChecker interface {
	// Check if this provider supports specific mime type
	IsMimeTypeSupported(mimeType string) bool
}

// Reports whether the image of the given mime type can be passed to the provider as is.
// Every provider accepts `image/png`.
func SupportsMimeType(provider Provider, mimeType string) bool {
	if mimeType == "image/png" {
		return true
	}
	if checker, ok := provider.(FormatChecker); ok {
		return checker.IsMimeTypeSupported(mimeType)
	}
	return false
}

// Adapts plain function to the [Provider] interface
type Func func(ctx context.Context, image io.Reader) (string, error)

func (f Func) OCR(ctx context.Context, image io.Reader) (string, error) {
	return f(ctx, image)
}
