package tools

import (
	"context"
	"fmt"
	"strings"

	"marketforge-be/pkg/document"
	"marketforge-be/pkg/llm"
)

const (
	DocumentSearchToolName = "product_document_search"
	DefaultRetrievalK      = 4

	documentSearchDescription = "Searches and returns relevant information from the user's private product documents. The input must be a string containing a search query."
)

// PassageSearcher is satisfied by *index.Index.
type PassageSearcher interface {
	Search(ctx context.Context, query string, k int) ([]document.Passage, error)
}

type DocumentSearchTool struct {
	searcher PassageSearcher
	k        int
}

func NewDocumentSearchTool(searcher PassageSearcher, k int) *DocumentSearchTool {
	if k <= 0 {
		k = DefaultRetrievalK
	}
	return &DocumentSearchTool{searcher: searcher, k: k}
}

func (t *DocumentSearchTool) Kind() Kind { return KindDocumentSearch }

func (t *DocumentSearchTool) Spec() llm.ToolSpec {
	return querySpec(DocumentSearchToolName, documentSearchDescription)
}

func (t *DocumentSearchTool) Invoke(ctx context.Context, query string) (string, error) {
	passages, err := t.searcher.Search(ctx, query, t.k)
	if err != nil {
		return "", fmt.Errorf("document search: %w", err)
	}
	if len(passages) == 0 {
		return "No relevant passages found in the product documents.", nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n"), nil
}
