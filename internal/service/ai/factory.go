package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Provider kinds accepted by BuildProvider.
const (
	ProviderKindGemini  = "gemini"
	ProviderKindOpenAI  = "openai"
	ProviderKindBedrock = "bedrock"
)

// ProviderConfig selects and parameterizes a single model provider.
type ProviderConfig struct {
	Kind       string
	APIKey     string
	Region     string
	Model      string
	EmbedModel string
}

// BuildProvider constructs the provider named by cfg.Kind, including any
// underlying SDK client.
func BuildProvider(ctx context.Context, cfg ProviderConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Kind {
	case ProviderKindGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return NewGeminiProvider(client, cfg.Model, cfg.EmbedModel, logger), nil

	case ProviderKindOpenAI:
		provider := NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.EmbedModel, logger)
		if provider == nil {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return provider, nil

	case ProviderKindBedrock:
		return NewBedrockProvider(ctx, cfg.Region, cfg.Model, cfg.EmbedModel, logger)

	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Kind)
	}
}
