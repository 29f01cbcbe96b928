package ai

import "context"

// Provider is a text-completion and embedding backend. Complete returns the
// raw model text: an empty string from a well-formed response is NOT an
// error here, because the caller owns the retry-and-repair loop and needs to
// distinguish "the model said nothing" from "the call failed". Structurally
// malformed responses are errors.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error)
	Embed(ctx context.Context, text string) ([]float64, error)
	Ping(ctx context.Context) bool
}

type ProviderResult struct {
	Text  string
	Model string
}

func resolveConfig(preset ModelPreset, opts *GenerateOptions) ModelConfig {
	config := GetPresetConfig(preset)
	if opts != nil && opts.Overrides != nil {
		if opts.Overrides.Temperature > 0 {
			config.Temperature = opts.Overrides.Temperature
		}
		if opts.Overrides.TopP > 0 {
			config.TopP = opts.Overrides.TopP
		}
		if opts.Overrides.TopK > 0 {
			config.TopK = opts.Overrides.TopK
		}
		if opts.Overrides.MaxOutputTokens > 0 {
			config.MaxOutputTokens = opts.Overrides.MaxOutputTokens
		}
	}
	return config
}
