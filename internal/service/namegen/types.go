package namegen

import (
	"context"

	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/service/ai"
)

// Completer is the completion capability the generation stages require from
// the model layer. *ai.ModelManager satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string, preset ai.ModelPreset, opts *ai.GenerateOptions) (ai.ProviderResult, *ai.GenerateMetadata, error)
}

// Embedder is the embedding capability. *ai.ModelManager satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, *ai.GenerateMetadata, error)
}

// EmbeddingCache is the optional read-through cache for input embeddings.
// *cache.CacheService satisfies it.
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, text string) (domain.Embedding, bool)
	SetEmbedding(ctx context.Context, text string, vector domain.Embedding)
}

// Regenerator produces a fresh candidate name for the same seed and style
// hints. The safety validator uses it to replace rejected candidates.
type Regenerator interface {
	GenerateName(ctx context.Context, seed domain.Seed, hints domain.StyleHints) (string, error)
}
