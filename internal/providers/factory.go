package providers

import (
	"fmt"

	"paperlens/internal/config"
)

// New builds an adapter from a provider section of the configuration.
func New(cfg config.ProviderConfig) (Adapter, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIAdapter(cfg), nil
	case "deepseek":
		return NewDeepSeekAdapter(cfg), nil
	case "mock":
		return NewMockAdapter(cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %q", cfg.Provider)
	}
}
