package ocr

import (
	"context"
	"io"
	"strings"
	"testing"
)

type pngOnlyProvider struct{}

func (pngOnlyProvider) OCR(ctx context.Context, image io.Reader) (string, error) {
	return "", nil
}

func TestSupportsMimeType(t *testing.T) {
	tesseractServer := NewTesseractServer(DefaultTesseractServerConfig())

	testCases := []struct {
		name     string
		provider Provider
		mimeType string
		expected bool
	}{
		{"png without checker", pngOnlyProvider{}, "image/png", true},
		{"jpeg without checker", pngOnlyProvider{}, "image/jpeg", false},
		{"jpeg with checker", tesseractServer, "image/jpeg", true},
		{"bmp with checker", tesseractServer, "image/bmp", false},
		{"pool uses worker config", NewTesseractPool(2, DefaultTesseractConfig()), "image/webp", true},
		{"gemini", NewGemini(DefaultGeminiConfig()), "image/tiff", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SupportsMimeType(tc.provider, tc.mimeType); got != tc.expected {
				t.Errorf("SupportsMimeType(%q) = %v, expected %v", tc.mimeType, got, tc.expected)
			}
		})
	}
}

func TestFunc(t *testing.T) {
	var provider Provider = Func(func(ctx context.Context, image io.Reader) (string, error) {
		data, err := io.ReadAll(image)
		return strings.ToUpper(string(data)), err
	})

	text, err := provider.OCR(context.Background(), strings.NewReader("a b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A B" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestTesseractConfigModelPaths(t *testing.T) {
	config := DefaultTesseractConfig()
	config.ModelType = TesseractModelFast
	config.ModelsFolder = "models"

	if got := config.modelPath("ukr"); got != "models/FAST/ukr.traineddata" {
		t.Errorf("unexpected model path %q", got)
	}
	if got := config.modelDownloadLink("ukr"); got != "https://github.com/tesseract-ocr/tessdata_fast/raw/refs/heads/main/ukr.traineddata" {
		t.Errorf("unexpected download link %q", got)
	}
}
