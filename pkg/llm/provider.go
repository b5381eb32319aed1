package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string

	// ToolCalls is set on assistant messages that requested tool invocations.
	ToolCalls []ToolCall
	// ToolCallID links a "tool" message to the call it answers.
	ToolCallID string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolSpec declares a callable capability to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema of the arguments object
}

// ToolCall is the model's request to invoke a capability.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Reply is one assistant turn: either text, tool calls, or both.
type Reply struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	JSONMode    bool   // Ask the backend for a JSON object when it supports it
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithJSONMode() Option {
	return func(o *Options) {
		o.JSONMode = true
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ToolCallingProvider is implemented by backends that support function calling.
type ToolCallingProvider interface {
	LLMProvider

	ChatWithTools(ctx context.Context, history []Message, tools []ToolSpec, options ...Option) (*Reply, error)
}

// ApplyOptions folds opts over defaults.
func ApplyOptions(defaults Options, opts ...Option) *Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}
