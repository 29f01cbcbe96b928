package ai

// ModelPreset represents the model usage preset
type ModelPreset string

const (
	PresetCreative ModelPreset = "creative" // name synthesis
	PresetPrecise  ModelPreset = "precise"  // single-token classification
	PresetBalanced ModelPreset = "balanced"
)

// ModelConfig holds resolved sampling parameters. Providers that lack one of
// the knobs (TopK on OpenAI, TopK on Nova) ignore it.
type ModelConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// GenerateMetadata contains metadata about the generation
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions holds options for a single completion call
type GenerateOptions struct {
	Model     string
	Seed      *int32 // deterministic sampling hint where the backend supports it
	Overrides *ModelConfig
}

// GetPresetConfig returns the configuration for a preset. Creative is the
// name-synthesis profile; precise pins near-greedy sampling for the
// SAFE/UNSAFE classifier.
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetCreative:
		return ModelConfig{
			Temperature:     0.7,
			TopP:            0.9,
			TopK:            40,
			MaxOutputTokens: 100,
		}
	case PresetPrecise:
		return ModelConfig{
			Temperature:     0.1,
			TopP:            0.9,
			TopK:            20,
			MaxOutputTokens: 100,
		}
	case PresetBalanced:
		return ModelConfig{
			Temperature:     0.3,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 256,
		}
	default:
		return GetPresetConfig(PresetBalanced)
	}
}
