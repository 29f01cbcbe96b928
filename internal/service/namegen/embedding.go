package namegen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/domain"
)

// EmbeddingService turns user input into an embedding vector, consulting the
// optional cache first. The vector only steers style hints, so serving a
// cached vector never changes request identity.
type EmbeddingService struct {
	embedder Embedder
	cache    EmbeddingCache
	logger   *zap.Logger
}

// NewEmbeddingService constructs the service. cache may be nil.
func NewEmbeddingService(embedder Embedder, cache EmbeddingCache, logger *zap.Logger) *EmbeddingService {
	return &EmbeddingService{
		embedder: embedder,
		cache:    cache,
		logger:   logger,
	}
}

// EmbeddingText is the canonical embedding input for a request.
func EmbeddingText(input domain.UserInput) string {
	return fmt.Sprintf("%s %s", input.FirstName, input.BirthMonth)
}

// EmbedInput returns the embedding for the request input. An empty vector is
// a valid result; the style mapping treats it as the default profile.
func (s *EmbeddingService) EmbedInput(ctx context.Context, input domain.UserInput) (domain.Embedding, error) {
	text := EmbeddingText(input)

	if s.cache != nil {
		if vector, ok := s.cache.GetEmbedding(ctx, text); ok {
			s.logger.Debug("Embedding cache hit", zap.Int("dimensions", len(vector)))
			return vector, nil
		}
	}

	vector, meta, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	embedding := domain.Embedding(vector)

	if s.cache != nil {
		s.cache.SetEmbedding(ctx, text, embedding)
	}

	provider := ""
	if meta != nil {
		provider = meta.Provider
	}
	s.logger.Debug("Embedding generated",
		zap.String("provider", provider),
		zap.Int("dimensions", len(embedding)),
	)

	return embedding, nil
}
