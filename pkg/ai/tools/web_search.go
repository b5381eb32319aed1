package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"marketforge-be/pkg/llm"
	"marketforge-be/pkg/websearch"
)

const (
	WebSearchToolName = "tavily_search_results_json"

	webSearchDescription = "A search engine optimized for comprehensive, accurate, and trusted results. Useful for when you need to answer questions about current events, markets and competitors. Input should be a search query."
)

type WebSearchTool struct {
	searcher websearch.Searcher
}

func NewWebSearchTool(searcher websearch.Searcher) *WebSearchTool {
	return &WebSearchTool{searcher: searcher}
}

func (t *WebSearchTool) Kind() Kind { return KindWebSearch }

func (t *WebSearchTool) Spec() llm.ToolSpec {
	return querySpec(WebSearchToolName, webSearchDescription)
}

// Invoke returns the hits as a JSON array of {title, content, url}.
func (t *WebSearchTool) Invoke(ctx context.Context, query string) (string, error) {
	results, err := t.searcher.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("web search: %w", err)
	}
	if results == nil {
		results = []websearch.Result{}
	}
	b, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("encode web results: %w", err)
	}
	return string(b), nil
}
