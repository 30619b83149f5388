package ocr

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiPrompt = `Transcribe all text visible in the image exactly as written.
Keep every row of a table on its own line and separate cells of a row with spaces.
Output only the transcribed text. No explanations, no markdown, no code fences.`

type GeminiConfig struct {
	// API key for Google AI Studio. Required.
	APIKey string `json:"apiKey"`
	// Model name. Default is `gemini-2.5-flash`
	Model string `json:"model"`
	// System instruction sent with every image
	Prompt string `json:"prompt"`
	// Image formats that are sent to the model without transcoding
	SupportedImageFormats []string `json:"supportedImageFormats"`
	// Additional options for the underlying client. Used mostly to point client to a different endpoint.
	ClientOptions []option.ClientOption `json:"-"`
}

func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model:                 "gemini-2.5-flash",
		Prompt:                defaultGeminiPrompt,
		SupportedImageFormats: []string{"image/png", "image/jpeg", "image/webp"},
	}
}

// Uses Gemini vision model as OCR backend
type Gemini struct {
	config GeminiConfig

	lock   sync.RWMutex
	client *genai.Client
}

func NewGemini(config GeminiConfig) *Gemini {
	return &Gemini{
		config: config,
	}
}

func (p *Gemini) Init(ctx context.Context) error {
	apiKey := strings.TrimSpace(p.config.APIKey)
	if apiKey == "" {
		return errors.New("gemini API key is empty")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, p.config.ClientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return errors.Join(errors.New("failed to create gemini client"), err)
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	if p.client != nil {
		p.client.Close()
	}
	p.client = client
	return nil
}

func (p *Gemini) Destroy() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *Gemini) OCR(ctx context.Context, image io.Reader) (string, error) {
	imageData, err := io.ReadAll(image)
	if err != nil {
		return "", errors.Join(errors.New("failed to read image"), err)
	}

	p.lock.RLock()
	defer p.lock.RUnlock()
	if p.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	model := p.client.GenerativeModel(p.config.Model)
	model.SetTemperature(0)
	model.SystemInstruction = genai.NewUserContent(genai.Text(p.config.Prompt))

	mimeType := mimetype.Detect(imageData).String()
	resp, err := model.GenerateContent(ctx, &genai.Blob{MIMEType: mimeType, Data: imageData})
	if err != nil {
		return "", errors.Join(errors.New("gemini request failed"), err)
	}

	return responseText(resp), nil
}

func (p *Gemini) IsMimeTypeSupported(mimeType string) bool {
	return slices.Contains(p.config.SupportedImageFormats, mimeType)
}

// Joins text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return stripCodeFence(sb.String())
}

// Removes markdown code fence around the whole answer
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return text
	}
	trimmed = strings.TrimSuffix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		return strings.TrimSpace(trimmed[newline+1:])
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
}
