package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	resp      *genai.GenerateContentResponse
	err       error
	gotModel  string
	gotPrompt string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func candidate(parts ...*genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}
}

func TestGenerateJoinsFirstCandidateParts(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{candidate(
			&genai.Part{Text: "thinking...", Thought: true},
			&genai.Part{Text: "INTENT: High\n"},
			&genai.Part{Text: "REASON: Strong fit."},
		)},
	}}
	g := newGenerator(fake, Config{Model: "gemini-test"})

	text, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "INTENT: High\nREASON: Strong fit." {
		t.Fatalf("unexpected text %q", text)
	}
	if fake.gotModel != "gemini-test" || fake.gotPrompt != "prompt" {
		t.Fatalf("unexpected request model=%q prompt=%q", fake.gotModel, fake.gotPrompt)
	}
}

func TestGenerateFallsBackToLaterCandidate(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			candidate(&genai.Part{Text: "   "}),
			candidate(&genai.Part{Text: "INTENT: Low"}),
		},
	}}
	text, err := newGenerator(fake, Config{}).Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "INTENT: Low" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestGenerateReturnsEmptyWhenNoShapeHasText(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{}}
	text, err := newGenerator(fake, Config{}).Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestGenerateWrapsTransportError(t *testing.T) {
	boom := errors.New("unavailable")
	fake := &fakeModels{err: boom}
	_, err := newGenerator(fake, Config{}).Generate(context.Background(), "p")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestNewGeneratorDefaultsModel(t *testing.T) {
	if got := newGenerator(&fakeModels{}, Config{}).Name(); got != defaultModel {
		t.Fatalf("expected default model, got %q", got)
	}
}
