package main

import (
	"context"
	"log"
	"os"
	"sort"
	"time"

	"github.com/kapu/elfname-go/internal/config"
	"github.com/kapu/elfname-go/internal/constants"
	"github.com/kapu/elfname-go/internal/service/ai"
	"github.com/kapu/elfname-go/internal/service/cache"
	"github.com/kapu/elfname-go/internal/service/database"
	"github.com/kapu/elfname-go/internal/service/lexicon"
	"github.com/kapu/elfname-go/internal/util"
)

// Probes every dependency the service would touch at startup and reports
// reachability per component. Exits non-zero when any probe fails.
func main() {
	log.Println("=== Elf Name Service Dependency Check ===")
	log.Println()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("✓ Config loaded (provider=%s, fallback=%s, redis=%t, lexicon=%s)",
		cfg.AI.Provider, cfg.AI.FallbackProvider, cfg.Redis.Enabled, cfg.Lexicon.Source)

	logger, err := util.NewLogger("warn", "")
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	failures := 0

	// Model providers
	primary, err := ai.BuildProvider(ctx, providerConfig(cfg, cfg.AI.Provider), logger)
	if err != nil {
		log.Printf("❌ %s provider: %v", cfg.AI.Provider, err)
		failures++
	}

	var fallback ai.Provider
	if cfg.AI.EnableFallback && cfg.AI.FallbackProvider != "" {
		fallback, err = ai.BuildProvider(ctx, providerConfig(cfg, cfg.AI.FallbackProvider), logger)
		if err != nil {
			log.Printf("❌ %s provider: %v", cfg.AI.FallbackProvider, err)
			failures++
		}
	}

	if primary != nil {
		manager := ai.NewModelManager(primary, fallback, logger)
		health := manager.ProviderHealth(ctx)

		names := make([]string, 0, len(health))
		for name := range health {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if health[name] {
				log.Printf("✓ %s reachable", name)
			} else {
				log.Printf("❌ %s unreachable", name)
				failures++
			}
		}
	}

	// Redis
	if cfg.Redis.Enabled {
		cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			log.Printf("❌ Redis: %v", err)
			failures++
		} else {
			if err := cacheSvc.WaitUntilReady(ctx, constants.RedisConfig.ReadyTimeout); err != nil {
				log.Printf("❌ Redis unreachable: %v", err)
				failures++
			} else {
				log.Println("✓ Redis reachable")
			}
			_ = cacheSvc.Close()
		}
	} else {
		log.Println("- Redis disabled, skipping")
	}

	// Lexicon
	switch cfg.Lexicon.Source {
	case config.LexiconSourcePostgres:
		postgres, err := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if err != nil {
			log.Printf("❌ PostgreSQL: %v", err)
			failures++
			break
		}

		lex, err := lexicon.NewRepository(postgres, logger).Load(ctx)
		if err != nil {
			log.Printf("❌ Lexicon load: %v", err)
			failures++
		} else {
			log.Printf("✓ Lexicon loaded from PostgreSQL (version %d, %d fallback names)",
				lex.Version, len(lex.FallbackNames))
		}
		_ = postgres.Close()
	default:
		log.Println("- Lexicon source is embedded, skipping PostgreSQL")
	}

	log.Println()
	if failures > 0 {
		log.Printf("=== ❌ %d CHECK(S) FAILED ===", failures)
		os.Exit(1)
	}
	log.Println("=== ✅ ALL CHECKS PASSED ===")
}

func providerConfig(cfg *config.Config, kind string) ai.ProviderConfig {
	pc := ai.ProviderConfig{Kind: kind}
	switch kind {
	case config.ProviderGemini:
		pc.APIKey = cfg.AI.Gemini.APIKey
		pc.Model = cfg.AI.Gemini.Model
		pc.EmbedModel = cfg.AI.Gemini.EmbedModel
	case config.ProviderOpenAI:
		pc.APIKey = cfg.AI.OpenAI.APIKey
		pc.Model = cfg.AI.OpenAI.Model
		pc.EmbedModel = cfg.AI.OpenAI.EmbedModel
	case config.ProviderBedrock:
		pc.Region = cfg.AI.Bedrock.Region
		pc.Model = cfg.AI.Bedrock.Model
		pc.EmbedModel = cfg.AI.Bedrock.EmbedModel
	}
	return pc
}
