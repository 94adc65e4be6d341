// Package aigen talks to a text-generation service and turns its output
// into seed data for a tenant's M&E framework. The service is an external
// collaborator: everything it returns is treated as untrusted JSON and
// validated before a single row is written.
package aigen

import (
	"context"
	"errors"
	"os"

	"google.golang.org/genai"
)

// Generator produces structured (JSON) text for a prompt. Handlers depend
// on this interface so tests can substitute canned output.
type Generator interface {
	GenerateStructuredContent(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator backs Generator with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator reads GEMINI_API_KEY and GEMINI_MODEL from the
// environment.
func NewGeminiGenerator(ctx context.Context) (*GeminiGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateStructuredContent(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
