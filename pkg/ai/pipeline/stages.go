package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"marketforge-be/internal/pkg/logger"
	"marketforge-be/pkg/ai/prompt"
	"marketforge-be/pkg/ai/schema"
	"marketforge-be/pkg/llm"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// timeoutProvider bounds every generation call with its own deadline.
type timeoutProvider struct {
	next    llm.ToolCallingProvider
	timeout time.Duration
}

func withCallTimeout(p llm.ToolCallingProvider, d time.Duration) llm.ToolCallingProvider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{next: p, timeout: d}
}

func (t *timeoutProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Chat(ctx, history, opts...)
}

func (t *timeoutProvider) Generate(ctx context.Context, p string, opts ...llm.Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Generate(ctx, p, opts...)
}

func (t *timeoutProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, opts ...llm.Option) (*llm.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ChatWithTools(ctx, history, tools, opts...)
}

// stageRunner executes single-shot generation stages.
type stageRunner struct {
	provider llm.LLMProvider
	options  []llm.Option
	tracer   trace.Tracer
	logger   logger.ILogger
}

func (s *stageRunner) generate(ctx context.Context, stage, input string, extra ...llm.Option) (string, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline."+stage)
	defer span.End()

	start := time.Now()
	opts := append(append([]llm.Option{}, s.options...), extra...)
	out, err := s.provider.Generate(ctx, input, opts...)
	span.SetAttributes(
		attribute.Int("prompt.chars", len(input)),
		attribute.Int("output.chars", len(out)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("PIPELINE", "Stage call failed", map[string]interface{}{
			"stage": stage,
			"error": err.Error(),
		})
		return "", err
	}

	s.logger.Debug("PIPELINE", "Stage call finished", map[string]interface{}{
		"stage":       stage,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}

func (s *stageRunner) freeText(ctx context.Context, stage, input string) (string, error) {
	out, err := s.generate(ctx, stage, input)
	if err != nil {
		return "", stageError(stage, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", stageError(stage, ErrEmptyStageOutput)
	}
	return out, nil
}

// Copywriter writes the e-commerce product description.
func (s *stageRunner) Copywriter(ctx context.Context, report string) (string, error) {
	return s.freeText(ctx, StageCopywriter, prompt.CopywriterPrompt(report))
}

// AdCopy writes the short campaign copy.
func (s *stageRunner) AdCopy(ctx context.Context, report string) (string, error) {
	return s.freeText(ctx, StageAdCopy, prompt.AdCopyPrompt(report))
}

// SocialPosts asks for the post ideas. Output that is not a JSON object is a
// StageOutputParseError; a missing or malformed "posts" field yields no posts.
func (s *stageRunner) SocialPosts(ctx context.Context, report string) ([]string, error) {
	raw, err := s.generate(ctx, StageSocial, prompt.SocialPrompt(report), llm.WithJSONMode())
	if err != nil {
		return nil, stageError(StageSocial, err)
	}

	doc := schema.ExtractJSON(raw)
	if doc == "" {
		return nil, stageError(StageSocial, &schema.StageOutputParseError{Stage: StageSocial, Raw: raw, Err: schema.ErrNoJSONObject})
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &fields); err != nil {
		return nil, stageError(StageSocial, &schema.StageOutputParseError{Stage: StageSocial, Raw: raw, Err: err})
	}

	if err := schema.SocialPlanContract.Validate(doc); err != nil {
		s.logger.Warn("PIPELINE", "Social posts malformed, continuing without", map[string]interface{}{
			"error": err.Error(),
		})
	}

	posts := cleanPosts(fields["posts"])
	if len(posts) != prompt.SocialPostCount {
		s.logger.Warn("PIPELINE", "Unexpected social post count", map[string]interface{}{
			"want": prompt.SocialPostCount,
			"got":  len(posts),
		})
	}
	return posts, nil
}

// cleanPosts keeps the non-blank string items of a posts array.
func cleanPosts(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	posts := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			posts = append(posts, s)
		}
	}
	return posts
}

// Schedule maps posts onto "Day 1".."Day N". An empty list needs no model call.
func (s *stageRunner) Schedule(ctx context.Context, posts []string) ([]schema.ScheduleEntryOutput, error) {
	if len(posts) == 0 {
		return []schema.ScheduleEntryOutput{}, nil
	}

	raw, err := s.generate(ctx, StageScheduler, prompt.SchedulerPrompt(posts), llm.WithJSONMode())
	if err != nil {
		return nil, stageError(StageScheduler, err)
	}

	plan, err := schema.Decode[schema.SchedulePlan](schema.SchedulePlanContract, StageScheduler, raw)
	if err != nil {
		return nil, stageError(StageScheduler, err)
	}
	return plan.Schedule, nil
}
