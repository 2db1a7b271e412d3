// Package config collects environment-backed configuration into a single
// struct constructed once at process start.
package config

import (
	"fmt"
	"os"
)

// Config holds all runtime configuration for the service.
// Empty credential fields mean the corresponding component starts disabled
// rather than failing at startup.
type Config struct {
	// HTTP
	Port string

	// Qdrant
	QdrantHost string
	QdrantPort int

	// Embeddings (OpenAI text-embedding-3-small at 384 dims)
	EmbeddingAPIKey string

	// Rule extraction / summarization model (OpenAI-compatible endpoint)
	RuleAPIKey  string
	RuleBaseURL string
	RuleModel   string

	// Relational store (variable catalog + document records)
	DatabasePath string
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		QdrantHost:      getEnv("QDRANT_HOST", ""),
		QdrantPort:      getEnvInt("QDRANT_PORT", 6334),
		EmbeddingAPIKey: getEnv("OPENAI_API_KEY", ""),
		RuleAPIKey:      getEnv("RULE_MODEL_API_KEY", ""),
		RuleBaseURL:     getEnv("RULE_MODEL_BASE_URL", ""),
		RuleModel:       getEnv("RULE_MODEL", "llama-3.3-70b-versatile"),
		DatabasePath:    getEnv("DATABASE_PATH", "ruleforge.db"),
	}
}

// QdrantConfigured reports whether a vector index endpoint was provided.
func (c *Config) QdrantConfigured() bool {
	return c.QdrantHost != ""
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
