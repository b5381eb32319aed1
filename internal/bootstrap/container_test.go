package bootstrap

import (
	"context"
	"testing"
	"time"

	"marketforge-be/internal/config"
	"marketforge-be/internal/pkg/logger"
	"marketforge-be/pkg/embedding"
	"marketforge-be/pkg/embedding/jina"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{KitCacheTTL: time.Minute},
		Ai: config.AIConfig{
			EmbeddingProvider: "ollama",
			OllamaBaseURL:     "http://localhost:11434",
			OllamaModel:       "nomic-embed-text",
			LLMProvider:       "groq",
			WebSearchResults:  4,
			WebSearchCacheTTL: time.Minute,
		},
		Pipeline: config.PipelineConfig{
			ModelName:          "llama3-70b-8192",
			APIKey:             "gsk_test",
			MaxAgentIterations: 15,
			RetrievalK:         4,
			PerStageTimeout:    time.Minute,
		},
		Google: config.GoogleConfig{CalendarID: "primary", RequestsPerSecond: 5, TimeZone: "Europe/Berlin"},
	}
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(testConfig(), logger.NewNopLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.LaunchKitController)
	assert.NotNil(t, c.HealthController)
}

func TestNewContainerRejectsUnknownLLMProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Ai.LLMProvider = "carrier-pigeon"

	_, err := NewContainer(cfg, logger.NewNopLogger())
	assert.ErrorContains(t, err, "unsupported LLM provider")
}

func TestPipelineConfig(t *testing.T) {
	got := PipelineConfig(testConfig().Pipeline)

	assert.Equal(t, "llama3-70b-8192", got.ModelName)
	assert.Equal(t, 15, got.MaxAgentIterations)
	assert.Equal(t, 4, got.RetrievalK)
	assert.Equal(t, time.Minute, got.PerStageTimeout)
}

func TestNewEmbeddingProvider(t *testing.T) {
	cfg := testConfig()

	cfg.Ai.EmbeddingProvider = "jina"
	_, ok := NewEmbeddingProvider(cfg, logger.NewNopLogger()).(*jina.JinaProvider)
	assert.True(t, ok)

	cfg.Ai.EmbeddingProvider = "gemini"
	var p embedding.EmbeddingProvider = NewEmbeddingProvider(cfg, logger.NewNopLogger())
	assert.NotNil(t, p)
}

func TestGoogleInserterFactory(t *testing.T) {
	newInserter := GoogleInserterFactory(testConfig().Google, time.UTC)

	inserter, err := newInserter(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.NotNil(t, inserter)
}
