package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/config"
	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/service/ai"
	"github.com/kapu/elfname-go/internal/service/database"
	"github.com/kapu/elfname-go/internal/service/lexicon"
	"github.com/kapu/elfname-go/internal/service/namegen"
	"github.com/kapu/elfname-go/internal/util"
)

// CLI flags
var (
	concurrency = flag.Int("concurrency", 5, "Parallel classifier calls")
	timeout     = flag.Duration("timeout", 5*time.Minute, "Overall deadline")
)

type vetResult struct {
	name        string
	blockedCat  string
	blockedTerm string
	safe        bool
	themed      bool
}

// Re-vets names against the lexical blocklist and the live safety classifier.
// With no arguments it vets the configured lexicon's fallback names, which the
// pipeline substitutes without a classifier pass and so must stay pre-vetted.
// Any names given as arguments are vetted instead, e.g. candidates for the
// fallback list.
func main() {
	flag.Parse()

	log.Println("=== Elf Name Safety Vetting ===")
	log.Println()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logger, err := util.NewLogger("warn", "")
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	lex, err := loadLexicon(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("❌ Failed to load lexicon: %v", err)
	}

	names := flag.Args()
	if len(names) == 0 {
		names = lex.FallbackNames
		log.Printf("Vetting %d fallback names from the %s lexicon (version %d)",
			len(names), cfg.Lexicon.Source, lex.Version)
	} else {
		log.Printf("Vetting %d candidate names", len(names))
	}

	primary, err := ai.BuildProvider(ctx, providerConfig(cfg, cfg.AI.Provider), logger)
	if err != nil {
		log.Fatalf("❌ Failed to create %s provider: %v", cfg.AI.Provider, err)
	}

	manager := ai.NewModelManager(primary, nil, logger)
	safety := namegen.NewSafetyValidator(manager, lex, logger)

	workers := util.Max(1, util.Min(*concurrency, len(names)))
	p := pool.New().WithMaxGoroutines(workers)

	results := make([]*vetResult, len(names))
	resultsMu := sync.Mutex{}

	for idx, name := range names {
		idx, name := idx, name
		p.Go(func() {
			result := &vetResult{name: name, themed: lex.ContainsThemeWord(name)}
			result.blockedCat, result.blockedTerm = lex.BlockedTerm(name)
			if result.blockedCat == "" {
				result.safe = safety.CheckSafety(ctx, name)
			}

			resultsMu.Lock()
			results[idx] = result
			resultsMu.Unlock()
		})
	}

	p.Wait()

	unsafe := 0
	warned := 0
	for _, r := range results {
		switch {
		case r.blockedCat != "":
			log.Printf("❌ %-24s blocked term %q (%s)", r.name, r.blockedTerm, r.blockedCat)
			unsafe++
		case !r.safe:
			log.Printf("❌ %-24s classifier verdict UNSAFE", r.name)
			unsafe++
		case !r.themed:
			log.Printf("⚠ %-24s no Christmas theme word", r.name)
			warned++
		default:
			log.Printf("✓ %-24s", r.name)
		}
	}

	log.Println()
	if unsafe > 0 {
		log.Printf("=== ❌ %d of %d names UNSAFE ===", unsafe, len(names))
		os.Exit(1)
	}
	log.Printf("=== ✅ All %d names safe (%d warnings) ===", len(names), warned)
}

func loadLexicon(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*domain.Lexicon, error) {
	if cfg.Lexicon.Source != config.LexiconSourcePostgres {
		return domain.LoadDefaultLexicon()
	}

	postgres, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		return nil, err
	}
	defer postgres.Close()

	return lexicon.NewRepository(postgres, logger).Load(ctx)
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
