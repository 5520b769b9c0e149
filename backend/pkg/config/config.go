package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"chat-wordmap/backend/internal/constants"
	apperrors "chat-wordmap/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Analysis
	NumWordsToDisplay int
	MaxUploadMB       int
	CLIConcurrency    int

	// Redis result cache (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Neo4j graph export (disabled when Neo4jURI is empty)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		NumWordsToDisplay: getEnvInt("NUM_WORDS_TO_DISPLAY", constants.DefaultNumWordsToDisplay),
		MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 256),
		CLIConcurrency:    getEnvInt("CLI_CONCURRENCY", 4),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		CacheTTL:          time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		Neo4jURI:          getEnv("NEO4J_URI", ""),
		Neo4jUser:         getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:     getEnv("NEO4J_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigValidationFailed("PORT", "must not be empty")
	}
	if c.NumWordsToDisplay <= 0 {
		return apperrors.NewConfigValidationFailed("NUM_WORDS_TO_DISPLAY", "must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return apperrors.NewConfigValidationFailed("MAX_UPLOAD_MB", "must be positive")
	}
	if c.CLIConcurrency <= 0 {
		return apperrors.NewConfigValidationFailed("CLI_CONCURRENCY", "must be positive")
	}
	if c.CacheTTL < 0 {
		return apperrors.NewConfigValidationFailed("CACHE_TTL_SECONDS", "must not be negative")
	}
	// Neo4j credentials only matter once export is enabled
	if c.Neo4jURI != "" && c.Neo4jUser == "" {
		return apperrors.NewConfigValidationFailed("NEO4J_USER", "required when NEO4J_URI is set")
	}
	return nil
}

// MaxUploadBytes returns the request body limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// CacheEnabled reports whether a Redis result cache is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// ExportEnabled reports whether Neo4j graph export is configured
func (c *Config) ExportEnabled() bool {
	return c.Neo4jURI != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
