package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("QDRANT_HOST", "")
	t.Setenv("QDRANT_PORT", "")
	t.Setenv("RULE_MODEL", "")
	t.Setenv("DATABASE_PATH", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.RuleModel)
	assert.Equal(t, "ruleforge.db", cfg.DatabasePath)
	assert.False(t, cfg.QdrantConfigured())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("QDRANT_HOST", "qdrant.internal")
	t.Setenv("QDRANT_PORT", "7000")
	t.Setenv("RULE_MODEL_BASE_URL", "https://api.groq.com/openai/v1")

	cfg := Load()
	assert.True(t, cfg.QdrantConfigured())
	assert.Equal(t, 7000, cfg.QdrantPort)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.RuleBaseURL)
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("QDRANT_PORT", "not-a-port")

	cfg := Load()
	assert.Equal(t, 6334, cfg.QdrantPort)
}
