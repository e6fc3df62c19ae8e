package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fixflow-agent/packages/config"
)

// TextGenerator is the text-generation collaborator. Callers must treat
// the returned text as free-form and extract any structured payload
// defensively.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini implements TextGenerator on the Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a configured Gemini client.
func NewGemini(ctx context.Context, apiKey string, cfg config.AIConfig) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set in environment")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		slog.Error("Failed to create Gemini client", "error", err)
		return nil, err
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetTopK(cfg.TopK)
	model.SetTopP(cfg.TopP)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)

	return &Gemini{client: client, model: model}, nil
}

// NewGeminiFromEnv creates a Gemini client keyed by GEMINI_API_KEY.
func NewGeminiFromEnv(ctx context.Context, cfg config.AIConfig) (*Gemini, error) {
	return NewGemini(ctx, os.Getenv("GEMINI_API_KEY"), cfg)
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	slog.Info("Sending request to Gemini API", "promptLength", len(prompt))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		slog.Error("Failed to generate content", "error", err)
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	slog.Info("Gemini response received", "contentLength", len(text))
	return text, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}
