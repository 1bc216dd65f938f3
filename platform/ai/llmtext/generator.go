// Package llmtext turns any ADK model into a prompt-in, text-out generator by
// running it behind a tool-less llmagent.
package llmtext

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const appName = "lead-intent-classifier"

// Generator runs one throwaway session per prompt.
type Generator struct {
	name           string
	runner         *runner.Runner
	sessionService session.Service
}

// New wraps llm in a single-turn agent.
func New(llm model.LLM, instruction string, temperature *float32) (*Generator, error) {
	cfg := llmagent.Config{
		Name:        "IntentClassifier",
		Model:       llm,
		Description: "Classifies the buying intent of a sales lead for an offer.",
		Instruction: instruction,
	}
	if temperature != nil {
		cfg.GenerateContentConfig = &genai.GenerateContentConfig{Temperature: temperature}
	}
	adkAgent, err := llmagent.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier runner: %w", err)
	}

	return &Generator{
		name:           llm.Name(),
		runner:         r,
		sessionService: sessionService,
	}, nil
}

// Name returns the underlying model name.
func (g *Generator) Name() string {
	return g.name
}

// Generate sends prompt as the only user message and returns the model text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	sessionID := uuid.NewString()
	userID := "classifier-" + sessionID

	if _, err := g.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("classifier: create session: %w", err)
	}
	defer func() {
		_ = g.sessionService.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}

	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var out strings.Builder
	for event, err := range g.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("classifier: run failed: %w", err)
		}
		if event == nil || event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			out.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(out.String()), nil
}
