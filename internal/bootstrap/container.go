package bootstrap

import (
	"context"
	"fmt"
	"time"

	"marketforge-be/internal/config"
	"marketforge-be/internal/controller"
	"marketforge-be/internal/pkg/logger"
	"marketforge-be/internal/repository/memory"
	"marketforge-be/internal/service"
	"marketforge-be/pkg/ai/pipeline"
	"marketforge-be/pkg/calendar"
	"marketforge-be/pkg/document"
	"marketforge-be/pkg/embedding"
	"marketforge-be/pkg/embedding/jina"
	"marketforge-be/pkg/events"
	"marketforge-be/pkg/llm/factory"
	pktNats "marketforge-be/pkg/nats"
	"marketforge-be/pkg/websearch"
)

type Container struct {
	// Controllers
	LaunchKitController controller.ILaunchKitController
	HealthController    controller.IHealthController

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every collaborator. Only a broken LLM configuration is
// fatal; missing search, NATS or calendar settings degrade gracefully.
func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	launchKitService, closers, err := NewLaunchKitService(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	c.closers = closers

	c.LaunchKitController = controller.NewLaunchKitController(launchKitService)
	c.HealthController = controller.NewHealthController(cfg.Ai.LLMProvider, cfg.Pipeline.ModelName)

	return c, nil
}

// NewLaunchKitService builds the service with its providers, pipeline,
// event publisher and calendar scheduler. The returned closers release
// any connections it opened.
func NewLaunchKitService(cfg *config.Config, sysLogger logger.ILogger) (service.ILaunchKitService, []func(), error) {
	var closers []func()

	// 1. Providers
	embeddingProvider := NewEmbeddingProvider(cfg, sysLogger)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Pipeline.ModelName,
		cfg.Ai.LLMBaseURL,
		cfg.Pipeline.APIKey,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Pipeline.ModelName,
	})

	var searcher websearch.Searcher
	if cfg.Keys.Tavily != "" {
		searcher = websearch.NewCachedSearcher(
			websearch.NewTavilyClient(cfg.Keys.Tavily, websearch.WithMaxResults(cfg.Ai.WebSearchResults)),
			cfg.Ai.WebSearchCacheTTL,
		)
	} else {
		sysLogger.Warn("BOOTSTRAP", "TAVILY_API_KEY not set, web search will report errors to the agent", nil)
		searcher = websearch.NewTavilyClient("")
	}

	// 2. Pipeline
	launchKitPipeline, err := pipeline.NewLaunchKitPipeline(pipeline.Deps{
		Provider:  llmProvider,
		WebSearch: searcher,
		Logger:    sysLogger,
	}, PipelineConfig(cfg.Pipeline))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize pipeline: %w", err)
	}

	// 3. Event bus
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, events disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			publisher = natsPub
			closers = append(closers, natsPub.Close)
		}
	}

	// 4. Calendar
	loc, err := time.LoadLocation(cfg.Google.TimeZone)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Unknown calendar time zone, using UTC", map[string]interface{}{
			"time_zone": cfg.Google.TimeZone,
		})
		loc = time.UTC
	}

	svc := service.NewLaunchKitService(
		launchKitPipeline,
		document.NewFileLoader(),
		embeddingProvider,
		calendar.NewScheduler(loc, sysLogger),
		GoogleInserterFactory(cfg.Google, loc),
		publisher,
		memory.NewLaunchKitRepository(cfg.App.KitCacheTTL),
		sysLogger,
	)
	return svc, closers, nil
}

// Close releases connections opened by NewContainer.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

func NewEmbeddingProvider(cfg *config.Config, sysLogger logger.ILogger) embedding.EmbeddingProvider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		sysLogger.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "ollama", "model": cfg.Ai.OllamaModel})
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	case "jina":
		sysLogger.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "jina"})
		return jina.NewJinaProvider(cfg.Keys.Jina)
	default:
		sysLogger.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "gemini"})
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}
}

// PipelineConfig converts loaded settings into the pipeline's own config.
func PipelineConfig(p config.PipelineConfig) pipeline.Config {
	return pipeline.Config{
		ModelName:          p.ModelName,
		APIKey:             p.APIKey,
		MaxAgentIterations: p.MaxAgentIterations,
		RetrievalK:         p.RetrievalK,
		PerStageTimeout:    p.PerStageTimeout,
	}
}

// GoogleInserterFactory builds a Calendar client per request from the
// caller's OAuth access token.
func GoogleInserterFactory(g config.GoogleConfig, loc *time.Location) service.InserterFactory {
	return func(ctx context.Context, accessToken string) (calendar.EventInserter, error) {
		return calendar.NewGoogleInserter(ctx,
			calendar.AccessTokenSource(accessToken),
			calendar.WithCalendarID(g.CalendarID),
			calendar.WithTimeZone(loc.String()),
			calendar.WithRequestsPerSecond(g.RequestsPerSecond),
		)
	}
}
