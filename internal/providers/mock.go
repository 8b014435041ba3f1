package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// MockAdapter returns canned analyses without any network access. It backs
// the "mock" provider for offline runs and tests.
type MockAdapter struct {
	model    string
	requests atomic.Int64

	// Err, when set, is returned by every call.
	Err error
	// FreeText forces GenerateStructured to fail with a *FreeTextError
	// carrying the canned JSON, exercising the degradation path.
	FreeText bool
}

func NewMockAdapter(model string) *MockAdapter {
	if model == "" {
		model = "mock-analyst"
	}
	return &MockAdapter{model: model}
}

func (p *MockAdapter) Info() Info {
	return Info{Provider: "mock", Model: p.model, SupportsFunctionCalling: true}
}

func (p *MockAdapter) Requests() int64 { return p.requests.Load() }

func (p *MockAdapter) canned() map[string]any {
	return map[string]any{
		"title":   "Mock Analysis of the Submitted Paper",
		"summary": "This paper presents a method for automated analysis of academic literature, evaluated on a standard benchmark with competitive results.",
		"key_contributions": []any{
			"A pipeline for structured literature analysis",
			"An evaluation against established baselines",
		},
		"problem":     "Manual literature review does not scale with publication volume.",
		"solution":    "An automated analysis pipeline combining extraction with model-driven summarization.",
		"limitations": "Evaluation is limited to English-language papers from a single domain.",
	}
}

func (p *MockAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	p.requests.Add(1)
	if p.Err != nil {
		return "", p.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(p.canned())
	if err != nil {
		return "", fmt.Errorf("marshal canned analysis: %w", err)
	}
	return string(raw), nil
}

func (p *MockAdapter) GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (map[string]any, error) {
	p.requests.Add(1)
	if p.Err != nil {
		return nil, p.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.FreeText {
		raw, _ := json.Marshal(p.canned())
		return nil, &FreeTextError{Text: string(raw)}
	}
	return p.canned(), nil
}

func (p *MockAdapter) TestConnection(ctx context.Context) error {
	if p.Err != nil {
		return p.Err
	}
	return ctx.Err()
}
