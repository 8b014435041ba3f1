package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"paperlens/internal/config"
)

const defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekAdapter talks to the DeepSeek chat API. The API is
// OpenAI-compatible, but tool calling is unreliable on reasoning models, so
// structured generation embeds the schema in the prompt and asks for a JSON
// object response instead.
type DeepSeekAdapter struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	maxRetries  int
	client      *http.Client
	requests    atomic.Int64
}

func NewDeepSeekAdapter(cfg config.ProviderConfig) *DeepSeekAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	return &DeepSeekAdapter{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxRetries:  cfg.MaxRetries,
		client:      &http.Client{Timeout: cfg.Timeout()},
	}
}

func (p *DeepSeekAdapter) Info() Info {
	return Info{
		Provider:                "deepseek",
		Model:                   p.model,
		BaseURL:                 p.baseURL,
		SupportsFunctionCalling: false,
	}
}

func (p *DeepSeekAdapter) Requests() int64 { return p.requests.Load() }

func (p *DeepSeekAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	out, err := p.complete(ctx, prompt, false)
	if err != nil {
		return "", &ServiceError{Provider: "deepseek", Err: err}
	}
	return out, nil
}

func (p *DeepSeekAdapter) GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (map[string]any, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, &ServiceError{Provider: "deepseek", Err: fmt.Errorf("marshal schema: %w", err)}
	}
	full := prompt + "\n\nRespond with a single JSON object matching this schema, and nothing else:\n" + string(schemaJSON)

	out, err := p.complete(ctx, full, true)
	if err != nil {
		return nil, &ServiceError{Provider: "deepseek", Err: err}
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &parsed); err != nil {
		return nil, &FreeTextError{Text: out}
	}
	return parsed, nil
}

func (p *DeepSeekAdapter) TestConnection(ctx context.Context) error {
	_, err := p.GenerateText(ctx, "Reply with the single word: ok")
	return err
}

func (p *DeepSeekAdapter) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	payload := map[string]any{
		"model":       p.model,
		"messages":    []chatMessage{{Role: "user", Content: prompt}},
		"temperature": p.temperature,
	}
	if p.maxTokens > 0 {
		payload["max_tokens"] = p.maxTokens
	}
	if jsonMode {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}

	var out string
	err := withRetry(ctx, p.maxRetries, func() error {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.apiKey)

		p.requests.Add(1)
		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncateBody(raw))
		}
		var parsed chatResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if parsed.Error != nil {
			return fmt.Errorf("API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("empty response from API")
		}
		out = parsed.Choices[0].Message.Content
		return nil
	})
	return out, err
}
