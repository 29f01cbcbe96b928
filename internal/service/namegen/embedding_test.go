package namegen

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/domain"
)

func TestEmbeddingText(t *testing.T) {
	input := domain.NewUserInput("Alice", "January")
	if got := EmbeddingText(input); got != "Alice January" {
		t.Fatalf("expected %q, got %q", "Alice January", got)
	}
}

func TestEmbedInputCacheHit(t *testing.T) {
	cached := domain.Embedding{0.25, -0.5}
	embedder := &fakeEmbedder{vector: []float64{0.9}}
	cache := &fakeEmbeddingCache{store: map[string]domain.Embedding{
		"Alice January": cached,
	}}
	service := NewEmbeddingService(embedder, cache, zap.NewNop())

	vector, err := service.EmbedInput(context.Background(), domain.NewUserInput("Alice", "January"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(vector) != 2 || vector[0] != 0.25 || vector[1] != -0.5 {
		t.Fatalf("expected cached vector, got %v", vector)
	}
	if embedder.calls != 0 {
		t.Fatalf("expected cache hit to skip the embedder, got %d calls", embedder.calls)
	}
}

func TestEmbedInputCacheMissStoresResult(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{0.1, 0.2}}
	cache := &fakeEmbeddingCache{}
	service := NewEmbeddingService(embedder, cache, zap.NewNop())

	vector, err := service.EmbedInput(context.Background(), domain.NewUserInput("Alice", "January"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(vector) != 2 {
		t.Fatalf("expected 2 dimensions, got %d", len(vector))
	}
	if embedder.calls != 1 {
		t.Fatalf("expected one embedder call, got %d", embedder.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
	stored, ok := cache.store["Alice January"]
	if !ok || len(stored) != 2 || stored[0] != 0.1 {
		t.Fatalf("expected vector stored under the embedding text, got %v", cache.store)
	}
}

func TestEmbedInputWithoutCache(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{0.3}}
	service := NewEmbeddingService(embedder, nil, zap.NewNop())

	vector, err := service.EmbedInput(context.Background(), domain.NewUserInput("Bob", "March"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(vector) != 1 || vector[0] != 0.3 {
		t.Fatalf("unexpected vector %v", vector)
	}
	if embedder.texts[0] != "Bob March" {
		t.Fatalf("expected embedding text %q, got %q", "Bob March", embedder.texts[0])
	}
}

func TestEmbedInputPropagatesEmbedderError(t *testing.T) {
	embedErr := errors.New("quota exceeded")
	cache := &fakeEmbeddingCache{}
	service := NewEmbeddingService(&fakeEmbedder{err: embedErr}, cache, zap.NewNop())

	_, err := service.EmbedInput(context.Background(), domain.NewUserInput("Alice", "January"))
	if !errors.Is(err, embedErr) {
		t.Fatalf("expected embedder error, got %v", err)
	}
	if cache.sets != 0 {
		t.Fatalf("expected no cache write on failure, got %d", cache.sets)
	}
}

func TestEmbedInputEmptyVectorIsValid(t *testing.T) {
	service := NewEmbeddingService(&fakeEmbedder{vector: []float64{}}, nil, zap.NewNop())

	vector, err := service.EmbedInput(context.Background(), domain.NewUserInput("Alice", "January"))
	if err != nil {
		t.Fatalf("an empty vector is a valid embedding, got error %v", err)
	}
	if len(vector) != 0 {
		t.Fatalf("expected empty vector, got %v", vector)
	}
}
