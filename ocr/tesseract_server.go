package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type TesseractServerConfig struct {
	// HTTP client used to make requests to the server
	Client *http.Client
	// Server base URL. For example http://127.0.0.1:8080
	BaseURL string
	// List of language codes that should be recognized. More languages - more processing time.
	// Order matters. Primary language has to go first as it will act as fallback. By default it will be ["eng"]
	// Make sure languages are installed on the server because default OCR server has only several languages enabled by default.
	Languages []string `json:"languages"`
}

func DefaultTesseractServerConfig() TesseractServerConfig {
	return TesseractServerConfig{
		Client:    http.DefaultClient,
		BaseURL:   "http://127.0.0.1:8080",
		Languages: []string{"eng"},
	}
}

// Uses tesseract server as OCR backend. https://github.com/otiai10/ocrserver
type TesseractServer struct {
	config TesseractServerConfig
}

func NewTesseractServer(config TesseractServerConfig) *TesseractServer {
	return &TesseractServer{
		config: config,
	}
}

func (p *TesseractServer) OCR(ctx context.Context, image io.Reader) (string, error) {
	var ocrOptions struct {
		Languages []string `json:"languages"`
	}
	ocrOptions.Languages = p.config.Languages
	ocrOptionsBytes, err := json.Marshal(ocrOptions)
	if err != nil {
		return "", errors.Join(errors.New("failed to marshall OCR options"), err)
	}

	responseBytes, err := postImage(ctx, p.config.Client, strings.TrimRight(p.config.BaseURL, "/")+"/tesseract", image, map[string]string{
		"options": string(ocrOptionsBytes),
	})
	if err != nil {
		return "", err
	}

	var responseData struct {
		Data struct {
			Exit struct {
				Code uint `json:"code"`
			} `json:"exit"`
			StdErr string `json:"stderr"`
			StdOut string `json:"stdout"`
		} `json:"data"`
	}
	if err := json.Unmarshal(responseBytes, &responseData); err != nil {
		return "", errors.Join(errors.New("failed to unmarshall response from remote server"), err)
	}

	if responseData.Data.Exit.Code != 0 {
		return "", fmt.Errorf("bad OCR execution status code: status code %d: %s", responseData.Data.Exit.Code, responseData.Data.StdErr)
	}

	return responseData.Data.StdOut, nil
}

func (p *TesseractServer) IsMimeTypeSupported(mimeType string) bool {
	return mimeType == "image/jpeg" || mimeType == "image/png"
}
