package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Provider names accepted by AI_PROVIDER / AI_FALLBACK_PROVIDER.
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// Lexicon sources accepted by LEXICON_SOURCE.
const (
	LexiconSourceEmbedded = "embedded"
	LexiconSourcePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Lexicon  LexiconConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Addr string
}

type AIConfig struct {
	Provider         string
	FallbackProvider string
	EnableFallback   bool
	Gemini           GeminiConfig
	OpenAI           OpenAIConfig
	Bedrock          BedrockConfig
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type OpenAIConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type BedrockConfig struct {
	Region     string
	Model      string
	EmbedModel string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type LexiconConfig struct {
	Source string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		AI: AIConfig{
			Provider:         getEnv("AI_PROVIDER", ProviderGemini),
			FallbackProvider: getEnv("AI_FALLBACK_PROVIDER", ProviderOpenAI),
			EnableFallback:   getEnvBool("AI_ENABLE_FALLBACK", false),
			Gemini: GeminiConfig{
				APIKey:     getEnv("GEMINI_API_KEY", ""),
				Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
				EmbedModel: getEnv("GEMINI_EMBED_MODEL", "gemini-embedding-001"),
			},
			OpenAI: OpenAIConfig{
				APIKey:     getEnv("OPENAI_API_KEY", ""),
				Model:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
				EmbedModel: getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
			},
			Bedrock: BedrockConfig{
				Region:     getEnv("BEDROCK_REGION", "us-east-1"),
				Model:      getEnv("BEDROCK_MODEL", "us.amazon.nova-lite-v1:0"),
				EmbedModel: getEnv("BEDROCK_EMBED_MODEL", "amazon.titan-embed-text-v1"),
			},
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "elfname"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "elfname"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Lexicon: LexiconConfig{
			Source: getEnv("LEXICON_SOURCE", LexiconSourceEmbedded),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.validateProvider(c.AI.Provider); err != nil {
		return err
	}
	if c.AI.EnableFallback {
		if c.AI.FallbackProvider == c.AI.Provider {
			return fmt.Errorf("AI_FALLBACK_PROVIDER must differ from AI_PROVIDER")
		}
		if err := c.validateProvider(c.AI.FallbackProvider); err != nil {
			return err
		}
	}

	switch c.Lexicon.Source {
	case LexiconSourceEmbedded:
	case LexiconSourcePostgres:
		if c.Postgres.Host == "" {
			return fmt.Errorf("POSTGRES_HOST is required when LEXICON_SOURCE is postgres")
		}
	default:
		return fmt.Errorf("LEXICON_SOURCE must be %q or %q", LexiconSourceEmbedded, LexiconSourcePostgres)
	}

	return nil
}

func (c *Config) validateProvider(name string) error {
	switch name {
	case ProviderGemini:
		if c.AI.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case ProviderOpenAI:
		if c.AI.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case ProviderBedrock:
		if c.AI.Bedrock.Region == "" {
			return fmt.Errorf("BEDROCK_REGION is required")
		}
	default:
		return fmt.Errorf("unknown AI provider %q", name)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
