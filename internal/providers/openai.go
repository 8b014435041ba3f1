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
	"time"

	"paperlens/internal/config"
	"paperlens/internal/prompts"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIAdapter talks to the OpenAI chat completions API.
type OpenAIAdapter struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	maxRetries  int
	client      *http.Client
	requests    atomic.Int64
}

func NewOpenAIAdapter(cfg config.ProviderConfig) *OpenAIAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxRetries:  cfg.MaxRetries,
		client:      &http.Client{Timeout: cfg.Timeout()},
	}
}

func (p *OpenAIAdapter) Info() Info {
	return Info{
		Provider:                "openai",
		Model:                   p.model,
		BaseURL:                 p.baseURL,
		SupportsFunctionCalling: true,
	}
}

// Requests reports how many API calls this adapter has issued.
func (p *OpenAIAdapter) Requests() int64 { return p.requests.Load() }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *OpenAIAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":       p.model,
		"messages":    []chatMessage{{Role: "user", Content: prompt}},
		"temperature": p.temperature,
	}
	if p.maxTokens > 0 {
		payload["max_tokens"] = p.maxTokens
	}

	var out string
	err := withRetry(ctx, p.maxRetries, func() error {
		resp, err := p.post(ctx, "/chat/completions", payload)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty response from API")
		}
		out = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", &ServiceError{Provider: "openai", Err: err}
	}
	return out, nil
}

func (p *OpenAIAdapter) GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (map[string]any, error) {
	payload := map[string]any{
		"model":       p.model,
		"messages":    []chatMessage{{Role: "user", Content: prompt}},
		"temperature": p.temperature,
		"tools": []map[string]any{{
			"type": "function",
			"function": map[string]any{
				"name":        prompts.ToolName,
				"description": "Record the structured analysis of an academic paper",
				"parameters":  schema,
			},
		}},
		"tool_choice": map[string]any{
			"type":     "function",
			"function": map[string]any{"name": prompts.ToolName},
		},
	}
	if p.maxTokens > 0 {
		payload["max_tokens"] = p.maxTokens
	}

	var resp *chatResponse
	err := withRetry(ctx, p.maxRetries, func() error {
		r, err := p.post(ctx, "/chat/completions", payload)
		if err != nil {
			return err
		}
		if len(r.Choices) == 0 {
			return fmt.Errorf("empty response from API")
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, &ServiceError{Provider: "openai", Err: err}
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return nil, &FreeTextError{Text: msg.Content}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(msg.ToolCalls[0].Function.Arguments), &args); err != nil {
		// Malformed arguments still carry content worth parsing downstream.
		return nil, &FreeTextError{Text: msg.ToolCalls[0].Function.Arguments}
	}
	return args, nil
}

func (p *OpenAIAdapter) TestConnection(ctx context.Context) error {
	_, err := p.GenerateText(ctx, "Reply with the single word: ok")
	return err
}

func (p *OpenAIAdapter) post(ctx context.Context, path string, payload any) (*chatResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	p.requests.Add(1)
	started := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed after %v: %w", time.Since(started).Round(time.Millisecond), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncateBody(raw))
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	return &parsed, nil
}

func truncateBody(raw []byte) string {
	const limit = 500
	s := string(raw)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
