package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/config"
)

// NewProvider creates the completion provider selected by configuration.
func NewProvider(cfg *config.AIConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "anthropic", "":
		logger.Info("Using Anthropic completion provider", zap.String("model", cfg.Model))
		return NewAnthropicProvider(cfg), nil
	case "openai":
		logger.Info("Using OpenAI-compatible completion provider", zap.String("model", cfg.Model))
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
