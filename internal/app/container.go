package app

import (
	"context"
	"fmt"

	"github.com/kapu/elfname-go/internal/config"
	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/server"
	"github.com/kapu/elfname-go/internal/service/ai"
	"github.com/kapu/elfname-go/internal/service/cache"
	"github.com/kapu/elfname-go/internal/service/database"
	"github.com/kapu/elfname-go/internal/service/lexicon"
	"github.com/kapu/elfname-go/internal/service/namegen"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components
// like the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Pipeline *namegen.Pipeline
	Models   *ai.ModelManager
	Cache    *cache.CacheService       // nil when Redis is disabled
	Postgres *database.PostgresService // nil unless the lexicon lives in Postgres
	Lexicon  *domain.Lexicon

	closers []func()
}

// NewServer instantiates an HTTP server using the pre-built dependency graph.
func (c *Container) NewServer() (*server.Server, error) {
	if c == nil || c.Pipeline == nil {
		return nil, fmt.Errorf("pipeline not initialized")
	}

	checks := make(map[string]server.HealthCheck)
	if c.Cache != nil {
		cacheSvc := c.Cache
		checks["redis"] = func(ctx context.Context) error {
			if !cacheSvc.IsConnected(ctx) {
				return fmt.Errorf("redis unreachable")
			}
			return nil
		}
	}
	if c.Postgres != nil {
		checks["postgres"] = c.Postgres.Ping
	}

	handlers := server.NewHandlers(c.Pipeline, c.Models, checks, c.Logger)
	return server.NewServer(c.Config.Server.Addr, handlers, c.Logger), nil
}

// Close releases held resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles all infrastructure services and returns a container capable
// of creating fully-wired servers. All heavy-weight initialization
// (DB/cache/AI) is performed here so that the generation pipeline stays
// focused on orchestration logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Embedding cache (optional)
	var cacheSvc *cache.CacheService
	if cfg.Redis.Enabled {
		cacheSvc, err = cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
	}

	// Lexicon
	var postgresSvc *database.PostgresService
	var lex *domain.Lexicon
	switch cfg.Lexicon.Source {
	case config.LexiconSourcePostgres:
		postgresSvc, err = database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", err)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})

		lex, err = lexicon.NewRepository(postgresSvc, logger).Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon from postgres: %w", err)
		}
	default:
		lex, err = domain.LoadDefaultLexicon()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded lexicon: %w", err)
		}
	}

	// AI stack
	primary, err := ai.BuildProvider(ctx, providerConfig(cfg, cfg.AI.Provider), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.AI.Provider, err)
	}

	var fallback ai.Provider
	if cfg.AI.EnableFallback && cfg.AI.FallbackProvider != "" {
		fb, fbErr := ai.BuildProvider(ctx, providerConfig(cfg, cfg.AI.FallbackProvider), logger)
		if fbErr != nil {
			logger.Warn("Failed to initialize fallback provider (optional feature)",
				zap.String("provider", cfg.AI.FallbackProvider),
				zap.Error(fbErr))
		} else {
			fallback = fb
		}
	}

	modelManager := ai.NewModelManager(primary, fallback, logger)

	// Generation pipeline
	var embeddingCache namegen.EmbeddingCache
	if cacheSvc != nil {
		embeddingCache = cacheSvc
	}
	embeddings := namegen.NewEmbeddingService(modelManager, embeddingCache, logger)
	generator := namegen.NewGenerator(modelManager, logger)
	safety := namegen.NewSafetyValidator(modelManager, lex, logger)
	pipeline := namegen.NewPipeline(embeddings, generator, safety, logger)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
		Models:   modelManager,
		Cache:    cacheSvc,
		Postgres: postgresSvc,
		Lexicon:  lex,
		closers:  closers,
	}, nil
}

// providerConfig maps application config onto a single provider's settings.
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
