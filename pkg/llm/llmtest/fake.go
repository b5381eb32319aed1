// Package llmtest provides a scriptable in-memory provider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"marketforge-be/pkg/llm"
)

var ErrScriptExhausted = errors.New("llmtest: no scripted reply left")

// Call is one recorded request.
type Call struct {
	History []llm.Message
	Tools   []llm.ToolSpec
	Options llm.Options
}

// Responder decides the reply for a request.
type Responder func(ctx context.Context, call Call) (*llm.Reply, error)

type FakeProvider struct {
	mu      sync.Mutex
	respond Responder
	calls   []Call
}

var _ llm.ToolCallingProvider = (*FakeProvider)(nil)

func NewFakeProvider(respond Responder) *FakeProvider {
	return &FakeProvider{respond: respond}
}

// NewScripted replays replies in order, one per call.
func NewScripted(replies ...*llm.Reply) *FakeProvider {
	var (
		mu   sync.Mutex
		next int
	)
	return NewFakeProvider(func(context.Context, Call) (*llm.Reply, error) {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(replies) {
			return nil, ErrScriptExhausted
		}
		r := replies[next]
		next++
		return r, nil
	})
}

func (f *FakeProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, opts ...llm.Option) (*llm.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	call := Call{
		History: append([]llm.Message(nil), history...),
		Tools:   append([]llm.ToolSpec(nil), tools...),
		Options: *llm.ApplyOptions(llm.Options{}, opts...),
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	return f.respond(ctx, call)
}

func (f *FakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	reply, err := f.ChatWithTools(ctx, history, nil, opts...)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func (f *FakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Calls returns a snapshot of recorded requests.
func (f *FakeProvider) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Text is a plain answer reply.
func Text(s string) *llm.Reply {
	return &llm.Reply{Content: s}
}

// ToolUse is a reply asking for one tool call.
func ToolUse(id, name, args string) *llm.Reply {
	return &llm.Reply{ToolCalls: []llm.ToolCall{{ID: id, Name: name, Arguments: []byte(args)}}}
}

// LastUserContent returns the content of the last user message of a call.
func (c Call) LastUserContent() string {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].Role == llm.RoleUser {
			return c.History[i].Content
		}
	}
	return ""
}
