package ocr

import (
	"context"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestGeminiInitWithoutKey(t *testing.T) {
	p := NewGemini(DefaultGeminiConfig())
	if err := p.Init(context.Background()); err == nil {
		t.Fatal("expected error for empty API key")
	}
	if _, err := p.OCR(context.Background(), strings.NewReader("img")); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := p.Destroy(); err != nil {
		t.Fatalf("destroy of uninitialized client failed: %v", err)
	}
}

func TestGeminiResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Item Qty\n"), genai.Text("Apple 3")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	if got := responseText(resp); got != "Item Qty\nApple 3" {
		t.Errorf("unexpected text %q", got)
	}

	if got := responseText(nil); got != "" {
		t.Errorf("expected empty text for nil response, got %q", got)
	}
	if got := responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}); got != "" {
		t.Errorf("expected empty text for empty candidate, got %q", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	testCases := map[string]string{
		"a b\nc":              "a b\nc",
		"```\na b\nc\n```":    "a b\nc",
		"```text\na b\n```\n": "a b",
		"```a b```":           "a b",
		"``` only opening":    "``` only opening",
	}
	for input, expected := range testCases {
		if got := stripCodeFence(input); got != expected {
			t.Errorf("stripCodeFence(%q) = %q, expected %q", input, got, expected)
		}
	}
}
