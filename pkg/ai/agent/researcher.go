package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketforge-be/internal/pkg/logger"
	"marketforge-be/pkg/ai/prompt"
	"marketforge-be/pkg/ai/tools"
	"marketforge-be/pkg/llm"
)

const DefaultMaxIterations = 15

var (
	ErrAgentIterationLimit = errors.New("agent stopped due to iteration limit")
	ErrEmptyReply          = errors.New("model returned neither a tool call nor an answer")
)

// AgentExecutionError wraps any failure that stops the research loop
// before a final answer.
type AgentExecutionError struct {
	Iteration int
	Err       error
}

func (e *AgentExecutionError) Error() string {
	return fmt.Sprintf("research agent failed at iteration %d: %v", e.Iteration, e.Err)
}

func (e *AgentExecutionError) Unwrap() error { return e.Err }

// Step records one tool invocation and what the model observed.
type Step struct {
	Tool        string
	Arguments   string
	Observation string
	Failed      bool
}

type Result struct {
	Report     string
	Steps      []Step
	Iterations int
}

// Researcher runs THINKING -> TOOL_CALL -> OBSERVE rounds until the model
// answers without calling a tool.
type Researcher struct {
	provider      llm.ToolCallingProvider
	registry      *tools.Registry
	maxIterations int
	logger        logger.ILogger
	options       []llm.Option
}

func NewResearcher(provider llm.ToolCallingProvider, registry *tools.Registry, maxIterations int, log logger.ILogger, opts ...llm.Option) *Researcher {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if registry == nil {
		registry = tools.NewRegistry()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	if len(opts) == 0 {
		opts = []llm.Option{llm.WithTemperature(0)}
	}
	return &Researcher{
		provider:      provider,
		registry:      registry,
		maxIterations: maxIterations,
		logger:        log,
		options:       opts,
	}
}

func (r *Researcher) Run(ctx context.Context, idea string) (*Result, error) {
	var toolNames prompt.ResearchTools
	for _, spec := range r.registry.Specs() {
		switch spec.Name {
		case tools.DocumentSearchToolName:
			toolNames.DocumentSearch = spec.Name
		case tools.WebSearchToolName:
			toolNames.WebSearch = spec.Name
		}
	}

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.Researcher(idea, toolNames)},
		{Role: llm.RoleUser, Content: prompt.ResearcherUser(idea)},
	}
	specs := r.registry.Specs()
	result := &Result{}

	for i := 1; i <= r.maxIterations; i++ {
		result.Iterations = i
		if err := ctx.Err(); err != nil {
			return nil, &AgentExecutionError{Iteration: i, Err: err}
		}

		reply, err := r.provider.ChatWithTools(ctx, history, specs, r.options...)
		if err != nil {
			r.logger.Error("AGENT", "Reasoning call failed", map[string]interface{}{
				"iteration": i,
				"error":     err.Error(),
			})
			return nil, &AgentExecutionError{Iteration: i, Err: err}
		}

		if len(reply.ToolCalls) == 0 {
			report := strings.TrimSpace(reply.Content)
			if report == "" {
				return nil, &AgentExecutionError{Iteration: i, Err: ErrEmptyReply}
			}
			result.Report = report
			r.logger.Info("AGENT", "Research finished", map[string]interface{}{
				"iterations": i,
				"tool_calls": len(result.Steps),
			})
			return result, nil
		}

		history = append(history, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   reply.Content,
			ToolCalls: reply.ToolCalls,
		})

		for _, call := range reply.ToolCalls {
			step, err := r.observe(ctx, call)
			if err != nil {
				return nil, &AgentExecutionError{Iteration: i, Err: err}
			}
			result.Steps = append(result.Steps, step)
			history = append(history, llm.Message{
				Role:       llm.RoleTool,
				Content:    step.Observation,
				ToolCallID: call.ID,
			})
		}
	}

	r.logger.Warn("AGENT", "Iteration limit reached", map[string]interface{}{
		"max_iterations": r.maxIterations,
	})
	return nil, fmt.Errorf("%w (%d iterations)", ErrAgentIterationLimit, r.maxIterations)
}

// observe runs one tool call. A call naming a tool outside the registry
// becomes observation text so the model can pick another; invalid arguments
// and tool failures abort the run.
func (r *Researcher) observe(ctx context.Context, call llm.ToolCall) (Step, error) {
	step := Step{Tool: call.Name, Arguments: string(call.Arguments)}

	out, err := r.registry.Dispatch(ctx, call)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return step, ctxErr
		}
		if !errors.Is(err, tools.ErrUnknownTool) {
			r.logger.Error("AGENT", "Tool call failed", map[string]interface{}{
				"tool":  call.Name,
				"error": err.Error(),
			})
			return step, fmt.Errorf("tool %s: %w", call.Name, err)
		}
		r.logger.Warn("AGENT", "Model called an unknown tool", map[string]interface{}{
			"tool": call.Name,
		})
		step.Failed = true
		step.Observation = unknownToolObservation(call.Name)
		return step, nil
	}

	r.logger.Debug("AGENT", "Tool call", map[string]interface{}{
		"tool":      call.Name,
		"arguments": step.Arguments,
		"bytes":     len(out),
	})
	step.Observation = out
	return step, nil
}

func unknownToolObservation(name string) string {
	return fmt.Sprintf("Error: %s is not a valid tool, try one of the available tools.", name)
}
