package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("MAX_AGENT_ITERATIONS", "")
	t.Setenv("PER_STAGE_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "llama3-70b-8192", cfg.Pipeline.ModelName)
	assert.Equal(t, 15, cfg.Pipeline.MaxAgentIterations)
	assert.Equal(t, 4, cfg.Pipeline.RetrievalK)
	assert.Equal(t, 90*time.Second, cfg.Pipeline.PerStageTimeout)
	assert.Equal(t, "primary", cfg.Google.CalendarID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("MAX_AGENT_ITERATIONS", "6")
	t.Setenv("RETRIEVAL_K", "2")
	t.Setenv("PER_STAGE_TIMEOUT", "45")

	cfg := Load()

	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Pipeline.ModelName)
	assert.Equal(t, "secret", cfg.Pipeline.APIKey)
	assert.Equal(t, 6, cfg.Pipeline.MaxAgentIterations)
	assert.Equal(t, 2, cfg.Pipeline.RetrievalK)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.PerStageTimeout)
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "2m")
	assert.Equal(t, 2*time.Minute, getEnvAsDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "not-a-duration")
	assert.Equal(t, time.Second, getEnvAsDuration("SOME_TIMEOUT", time.Second))
}
