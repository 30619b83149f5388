package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

type PaddleConfig struct {
	// HTTP client used to make requests to the server
	Client *http.Client
	// Server base URL. For example http://127.0.0.1:8884
	BaseURL string
	// List of language codes that should be recognized. More languages - more processing time.
	// Order matters. Primary language has to go first as it will act as fallback. By default it will be ["eng"]
	Languages []string `json:"languages"`
}

func DefaultPaddleConfig() PaddleConfig {
	return PaddleConfig{
		Languages: []string{"eng"},
		BaseURL:   "http://127.0.0.1:8884",
		Client:    http.DefaultClient,
	}
}

// Uses PaddleOCR HTTP wrapper as OCR backend. Server answers `POST /ocr` with `{"text": "..."}`.
type Paddle struct {
	config PaddleConfig
}

func NewPaddle(config PaddleConfig) *Paddle {
	return &Paddle{
		config: config,
	}
}

func (p *Paddle) OCR(ctx context.Context, image io.Reader) (string, error) {
	responseBytes, err := postImage(ctx, p.config.Client, strings.TrimRight(p.config.BaseURL, "/")+"/ocr", image, map[string]string{
		"languages": strings.Join(p.config.Languages, ","),
	})
	if err != nil {
		return "", err
	}

	var responseData struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(responseBytes, &responseData); err != nil {
		return "", errors.Join(errors.New("failed to unmarshall response from remote server"), err)
	}

	return responseData.Text, nil
}

func (p *Paddle) IsMimeTypeSupported(mimeType string) bool {
	return mimeType == "image/jpeg" || mimeType == "image/png"
}
