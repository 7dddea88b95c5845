package llm

import (
	"fmt"

	"github.com/lumenforge/website/internal/config"
)

// NewProvider builds the chat provider described by cfg, rate limited to
// cfg.RatePerMinute. It returns a nil Provider and no error when no API key
// is configured, which disables the assistant.
func NewProvider(cfg config.ChatConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultChatModel(cfg.Provider)
	}

	var p Provider
	switch cfg.Provider {
	case config.ChatOpenAI, "":
		p = NewOpenAIProvider(cfg.APIKey, model)
	case config.ChatOpenRouter:
		p = NewOpenRouterProvider(cfg.APIKey, model)
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", cfg.Provider)
	}
	return NewRateLimitedProvider(p, cfg.RatePerMinute), nil
}
