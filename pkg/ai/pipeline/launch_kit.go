package pipeline

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"marketforge-be/internal/entity"
	"marketforge-be/internal/pkg/logger"
	"marketforge-be/pkg/ai/agent"
	"marketforge-be/pkg/ai/prompt"
	"marketforge-be/pkg/ai/schema"
	"marketforge-be/pkg/ai/tools"
	"marketforge-be/pkg/llm"
	"marketforge-be/pkg/llm/factory"
	"marketforge-be/pkg/rag/index"
	"marketforge-be/pkg/websearch"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const tracerName = "launchkit-pipeline"

// Config is the explicit configuration a pipeline is constructed with.
type Config struct {
	ModelName          string
	APIKey             string
	MaxAgentIterations int
	RetrievalK         int
	PerStageTimeout    time.Duration
}

// Deps are the shared, concurrency-safe collaborators.
// Provider may be nil when Config.APIKey is set; a Groq client is built then.
type Deps struct {
	Provider  llm.ToolCallingProvider
	WebSearch websearch.Searcher
	Logger    logger.ILogger
}

type LaunchKitPipeline struct {
	provider  llm.ToolCallingProvider
	webSearch websearch.Searcher
	cfg       Config
	stages    *stageRunner
	logger    logger.ILogger
	now       func() time.Time
}

func NewLaunchKitPipeline(deps Deps, cfg Config) (*LaunchKitPipeline, error) {
	provider := deps.Provider
	if provider == nil {
		if cfg.APIKey == "" {
			return nil, ErrMissingProvider
		}
		p, err := factory.NewLLMProvider("groq", cfg.ModelName, "", cfg.APIKey)
		if err != nil {
			return nil, err
		}
		provider = p
	}
	if cfg.MaxAgentIterations <= 0 {
		cfg.MaxAgentIterations = agent.DefaultMaxIterations
	}
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = tools.DefaultRetrievalK
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	provider = withCallTimeout(provider, cfg.PerStageTimeout)

	opts := []llm.Option{llm.WithTemperature(0)}
	if cfg.ModelName != "" {
		opts = append(opts, llm.WithModel(cfg.ModelName))
	}

	return &LaunchKitPipeline{
		provider:  provider,
		webSearch: deps.WebSearch,
		cfg:       cfg,
		stages: &stageRunner{
			provider: provider,
			options:  opts,
			tracer:   otel.Tracer(tracerName),
			logger:   log,
		},
		logger: log,
		now:    time.Now,
	}, nil
}

// Generate runs research, the three generation stages and the scheduler.
// idx may be nil, in which case the agent only gets web search.
// On error no kit is returned.
func (p *LaunchKitPipeline) Generate(ctx context.Context, productIdea string, idx *index.Index) (*entity.LaunchKit, error) {
	idea := strings.TrimSpace(productIdea)
	if idea == "" {
		return nil, &PipelineError{Stage: StageInput, Err: ErrEmptyProductIdea}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.launch_kit")
	defer span.End()
	span.SetAttributes(attribute.Bool("document.indexed", idx != nil))

	kit, err := p.run(ctx, idea, idx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return kit, nil
}

func (p *LaunchKitPipeline) run(ctx context.Context, idea string, idx *index.Index) (*entity.LaunchKit, error) {
	report, err := p.research(ctx, idea, idx)
	if err != nil {
		return nil, err
	}

	var productCopy, adCopy string
	var posts []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		productCopy, err = p.stages.Copywriter(gctx, report)
		return err
	})
	g.Go(func() error {
		var err error
		adCopy, err = p.stages.AdCopy(gctx, report)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = p.stages.SocialPosts(gctx, report)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scheduled := posts
	if len(scheduled) > prompt.SocialPostCount {
		scheduled = scheduled[:prompt.SocialPostCount]
	}
	raw, err := p.stages.Schedule(ctx, scheduled)
	if err != nil {
		return nil, err
	}
	schedule := FilterSchedule(raw, len(scheduled))
	if dropped := len(raw) - len(schedule); dropped > 0 {
		p.logger.Warn("PIPELINE", "Dropped invalid schedule entries", map[string]interface{}{
			"dropped": dropped,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, &PipelineError{Stage: StageScheduler, Err: err}
	}

	kit := &entity.LaunchKit{
		ID:             uuid.New(),
		ProductIdea:    idea,
		MarketAnalysis: report,
		ProductCopy:    productCopy,
		AdCopy:         adCopy,
		SocialPosts:    posts,
		Schedule:       schedule,
		GeneratedAt:    p.now().UTC(),
	}
	p.logger.Info("PIPELINE", "Launch kit generated", map[string]interface{}{
		"kit_id":         kit.ID.String(),
		"posts":          len(posts),
		"schedule_slots": len(schedule),
	})
	return kit, nil
}

func (p *LaunchKitPipeline) research(ctx context.Context, idea string, idx *index.Index) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline."+StageResearch)
	defer span.End()

	var available []tools.Tool
	if idx != nil {
		available = append(available, tools.NewDocumentSearchTool(idx, p.cfg.RetrievalK))
	}
	if p.webSearch != nil {
		available = append(available, tools.NewWebSearchTool(p.webSearch))
	}
	registry := tools.NewRegistry(available...)

	researcher := agent.NewResearcher(p.provider, registry, p.cfg.MaxAgentIterations, p.logger, p.stages.options...)
	res, err := researcher.Run(ctx, idea)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &PipelineError{Stage: StageResearch, Err: err}
	}
	span.SetAttributes(
		attribute.Int("agent.iterations", res.Iterations),
		attribute.Int("agent.tool_calls", len(res.Steps)),
	)
	return res.Report, nil
}

var dayLabel = regexp.MustCompile(`^Day ([1-9][0-9]*)$`)

// FilterSchedule keeps entries whose day, time and content are all present
// and non-blank and whose day is "Day N" with 1 <= N <= limit. A day seen
// earlier in raw wins over later duplicates.
func FilterSchedule(raw []schema.ScheduleEntryOutput, limit int) []entity.ScheduleEntry {
	out := make([]entity.ScheduleEntry, 0, len(raw))
	seen := make(map[int]bool, limit)
	for _, e := range raw {
		if len(out) >= limit {
			break
		}
		day, okDay := present(e.Day)
		clock, okTime := present(e.Time)
		content, okContent := present(e.Content)
		if !okDay || !okTime || !okContent {
			continue
		}
		n, ok := dayNumber(day)
		if !ok || n > limit || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, entity.ScheduleEntry{Day: day, Time: clock, Content: content})
	}
	return out
}

func dayNumber(label string) (int, bool) {
	m := dayLabel.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func present(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
