//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/config"
	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/service/ai"
	"github.com/kapu/elfname-go/internal/service/namegen"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Test 1: Seed derivation (offline)
	fmt.Println("\n=== Test 1: Seed derivation ===")
	for _, in := range []struct{ name, month string }{
		{"Alice", "January"},
		{"Bob", "March"},
		{"Alice", "February"},
	} {
		seed := domain.DeriveSeed(in.name, in.month)
		fmt.Printf("  %s + %s -> %s\n", in.name, in.month, seed)
	}
	fmt.Println("✅ Seeds derived")

	// Build the live pipeline
	provider, err := ai.BuildProvider(ctx, ai.ProviderConfig{
		Kind:       cfg.AI.Provider,
		APIKey:     cfg.AI.Gemini.APIKey,
		Model:      cfg.AI.Gemini.Model,
		EmbedModel: cfg.AI.Gemini.EmbedModel,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create provider", zap.Error(err))
	}

	manager := ai.NewModelManager(provider, nil, logger)
	lexicon, err := domain.LoadDefaultLexicon()
	if err != nil {
		logger.Fatal("Failed to load lexicon", zap.Error(err))
	}

	pipeline := namegen.NewPipeline(
		namegen.NewEmbeddingService(manager, nil, logger),
		namegen.NewGenerator(manager, logger),
		namegen.NewSafetyValidator(manager, lexicon, logger),
		logger,
	)

	// Test 2: Full generation with stage reporting
	fmt.Println("\n=== Test 2: Generating a name for Alice / January ===")
	result, err := pipeline.GenerateObserved(ctx, "Alice", "January", func(step string) {
		fmt.Printf("  step: %s\n", step)
	})
	if err != nil {
		logger.Error("❌ Generation failed", zap.Error(err))
	} else {
		fmt.Printf("✅ Name: %s\n", result.Name)
		fmt.Printf("  Safe: %v\n", result.Safe)
		fmt.Printf("  Seed: %s\n", result.Seed)
		fmt.Printf("  Style: %s / %s / %s\n",
			result.StyleHints.AdjectiveStyle,
			result.StyleHints.NounStyle,
			result.StyleHints.Twist,
		)
	}

	// Test 3: Safety classifier on a known-good name
	fmt.Println("\n=== Test 3: Safety classification ===")
	safety := namegen.NewSafetyValidator(manager, lexicon, logger)
	safe := safety.CheckSafety(ctx, "Sparkle Snowflake")
	if safe {
		fmt.Println("✅ Classifier accepts Sparkle Snowflake")
	} else {
		fmt.Println("❌ Classifier rejected a lexicon name")
	}

	fmt.Println("\n=== All tests completed ===")
}
