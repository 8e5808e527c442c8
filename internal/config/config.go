// Package config loads Cléa-API's runtime configuration from the
// environment (and an optional .env file), the way apiserver/internal/config
// does it for the rest of the captain stack.
package config

import (
	"os"
	"time"

	"github.com/WillIsback/clea-api/internal/segment"
	"github.com/spf13/viper"
)

// Config holds every tunable the core subsystems need: database
// connection, embedding/reranking endpoints, segmentation bounds, and the
// sweeper interval.
type Config struct {
	Host        string `mapstructure:"HOST"`
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	GinMode     string `mapstructure:"GIN_MODE"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	EmbeddingAPIKey     string `mapstructure:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string `mapstructure:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string `mapstructure:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `mapstructure:"EMBEDDING_DIMENSIONS"`

	RerankerBaseURL string `mapstructure:"RERANKER_BASE_URL"`
	RerankerModel   string `mapstructure:"RERANKER_MODEL"`

	LogSearchQueries bool `mapstructure:"LOG_SEARCH_QUERIES"`

	SweepIntervalHours int `mapstructure:"SWEEP_INTERVAL_HOURS"`

	// Segmentation bounds, overridable but bounded by the hard-coded
	// defaults in internal/segment.
	MaxChunkLength int `mapstructure:"MAX_CHUNK_LENGTH"`
}

// Load reads configuration from the environment, falling back to an
// optional .env file and the defaults below. Mirrors
// apiserver/internal/config.Load's viper + explicit env-override pattern.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8088")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/clea?sslmode=disable")
	viper.SetDefault("EMBEDDING_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("EMBEDDING_MODEL", "text-embedding-3-small")
	viper.SetDefault("EMBEDDING_DIMENSIONS", 768)
	viper.SetDefault("RERANKER_BASE_URL", "http://localhost:8089")
	viper.SetDefault("RERANKER_MODEL", "cross-encoder/mmarco-mMiniLMv2-L12-H384-v1")
	viper.SetDefault("LOG_SEARCH_QUERIES", true)
	viper.SetDefault("SWEEP_INTERVAL_HOURS", 24)
	viper.SetDefault("MAX_CHUNK_LENGTH", 1000)

	_ = viper.ReadInConfig()

	keys := []string{
		"HOST", "PORT", "ENVIRONMENT", "GIN_MODE", "DATABASE_URL",
		"EMBEDDING_API_KEY", "EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIMENSIONS",
		"RERANKER_BASE_URL", "RERANKER_MODEL",
		"LOG_SEARCH_QUERIES", "SWEEP_INTERVAL_HOURS", "MAX_CHUNK_LENGTH",
	}
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			viper.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxChunkLength > segment.MaxChunkSize {
		cfg.MaxChunkLength = segment.MaxChunkSize
	}
	return cfg, nil
}

// IsDevelopment reports whether the service is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SweepInterval returns the configured sweeper interval as a time.Duration.
func (c *Config) SweepInterval() time.Duration {
	hours := c.SweepIntervalHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
