// Package gemini provides a single-shot text generator backed by the Gemini
// Developer API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Config for the Gemini generator.
type Config struct {
	APIKey      string
	Model       string
	Temperature *float32
}

// contentGenerator is the slice of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator sends one prompt per call and returns the plain response text.
type Generator struct {
	models contentGenerator
	model  string
	config *genai.GenerateContentConfig
}

// NewGenerator creates a Gemini client using API key authentication.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newGenerator(client.Models, cfg), nil
}

func newGenerator(models contentGenerator, cfg Config) *Generator {
	name := cfg.Model
	if name == "" {
		name = defaultModel
	}
	var genCfg *genai.GenerateContentConfig
	if cfg.Temperature != nil {
		genCfg = &genai.GenerateContentConfig{Temperature: cfg.Temperature}
	}
	return &Generator{models: models, model: name, config: genCfg}
}

// Name returns the configured model name.
func (g *Generator) Name() string {
	return g.model
}

// Generate issues a single generateContent request. An empty string with a
// nil error means the service answered but no text was found in any known
// response location.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, g.config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return extractText(resp), nil
}

// extractText tries the response shapes in order: the first candidate's
// content parts, the parts of any later candidate, then the SDK's
// aggregated Text accessor.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		if text := joinParts(candidate.Content.Parts); text != "" {
			return text
		}
	}
	return strings.TrimSpace(resp.Text())
}

func joinParts(parts []*genai.Part) string {
	var b strings.Builder
	for _, part := range parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
