package providers

import "context"

// Info describes a configured adapter.
type Info struct {
	Provider                string `json:"provider"`
	Model                   string `json:"model"`
	BaseURL                 string `json:"base_url,omitempty"`
	SupportsFunctionCalling bool   `json:"supports_function_calling"`
}

// Adapter is the contract every AI backend satisfies. GenerateStructured
// asks for a schema-guided tool call; when the backend answers with free text
// instead it returns a *FreeTextError carrying that text, and the caller is
// expected to degrade to text parsing.
type Adapter interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (map[string]any, error)
	TestConnection(ctx context.Context) error
	Info() Info
}
