package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marketforge-be/pkg/ai/schema"
	"marketforge-be/pkg/llm"
)

// Kind enumerates the capabilities the research agent may call.
type Kind int

const (
	KindDocumentSearch Kind = iota
	KindWebSearch
)

func (k Kind) String() string {
	switch k {
	case KindDocumentSearch:
		return "document_search"
	case KindWebSearch:
		return "web_search"
	default:
		return "unknown"
	}
}

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

type Tool interface {
	Kind() Kind
	Spec() llm.ToolSpec
	Invoke(ctx context.Context, query string) (string, error)
}

// Registry is the name -> tool lookup table for one agent run.
type Registry struct {
	order  []Tool
	byName map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t == nil {
			continue
		}
		name := t.Spec().Name
		if _, dup := r.byName[name]; dup {
			continue
		}
		r.order = append(r.order, t)
		r.byName[name] = t
	}
	return r
}

// Specs lists tool declarations in registration order.
func (r *Registry) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(r.order))
	for _, t := range r.order {
		specs = append(specs, t.Spec())
	}
	return specs
}

func (r *Registry) Has(kind Kind) bool {
	for _, t := range r.order {
		if t.Kind() == kind {
			return true
		}
	}
	return false
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Dispatch validates the call's arguments and runs the named tool.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) (string, error) {
	t, ok := r.Lookup(call.Name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
	}

	query, err := ParseQuery(call.Arguments)
	if err != nil {
		return "", err
	}
	return t.Invoke(ctx, query)
}

// ParseQuery accepts {"query": "..."} or a bare JSON string.
func ParseQuery(args json.RawMessage) (string, error) {
	raw := strings.TrimSpace(string(args))
	if raw == "" {
		return "", fmt.Errorf("%w: empty arguments", ErrInvalidArguments)
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		b, _ := json.Marshal(schema.ToolQuery{Query: s})
		raw = string(b)
	}

	if err := schema.ToolQueryContract.Validate(raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	var q schema.ToolQuery
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if strings.TrimSpace(q.Query) == "" {
		return "", fmt.Errorf("%w: query must not be blank", ErrInvalidArguments)
	}
	return q.Query, nil
}

func querySpec(name, description string) llm.ToolSpec {
	return llm.ToolSpec{
		Name:        name,
		Description: description,
		Parameters:  schema.ToolQueryContract.Schema(),
	}
}
