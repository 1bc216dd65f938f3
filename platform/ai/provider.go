// Package ai selects the text generation backend configured for the process.
package ai

import (
	"context"
	"fmt"

	"leadqual_backend/platform/ai/gemini"
	"leadqual_backend/platform/ai/llmtext"
	"leadqual_backend/platform/ai/moonshot"
	"leadqual_backend/platform/config"
)

// Generator is a single-shot prompt to text call.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

const classifierInstruction = "You qualify B2B sales leads. Follow the requested output format exactly."

var temperature = float32(0.2)

// NewGenerator builds the generator for cfg.GetLLMProvider().
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.GetLLMProvider() {
	case config.ProviderGemini, "":
		g, err := gemini.NewGenerator(ctx, gemini.Config{
			APIKey:      cfg.GetGeminiAPIKey(),
			Model:       cfg.GetGeminiModel(),
			Temperature: &temperature,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderMoonshot:
		kimi := moonshot.NewModel(moonshot.Config{
			APIKey:  cfg.GetMoonshotAPIKey(),
			BaseURL: cfg.GetMoonshotBaseURL(),
			Model:   cfg.GetMoonshotModel(),
		})
		g, err := llmtext.New(kimi, classifierInstruction, &temperature)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.GetLLMProvider())
	}
}
