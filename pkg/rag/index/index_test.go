package index

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"marketforge-be/pkg/document"
	"marketforge-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder maps text onto a fixed vocabulary so similarity is predictable.
type keywordEmbedder struct {
	mu    sync.Mutex
	vocab []string
	tasks []string
	fail  bool
}

func (e *keywordEmbedder) Generate(_ context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	e.mu.Lock()
	e.tasks = append(e.tasks, taskType)
	e.mu.Unlock()
	if e.fail {
		return nil, errors.New("embedding backend down")
	}
	vec := make([]float32, len(e.vocab))
	lower := strings.ToLower(text)
	for i, w := range e.vocab {
		vec[i] = float32(strings.Count(lower, w))
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: vec}}, nil
}

func newEmbedder() *keywordEmbedder {
	return &keywordEmbedder{vocab: []string{"battery", "price", "dog", "waterproof"}}
}

func passages(texts ...string) []document.Passage {
	out := make([]document.Passage, len(texts))
	for i, t := range texts {
		out[i] = document.Passage{Text: t, Offset: i * 100}
	}
	return out
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	tests := []struct {
		name     string
		passages []document.Passage
	}{
		{name: "nil", passages: nil},
		{name: "blank only", passages: passages("  ", "\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Build(context.Background(), newEmbedder(), tt.passages)
			assert.Nil(t, idx)
			assert.ErrorIs(t, err, ErrIndexBuild)

			var buildErr *IndexBuildError
			require.ErrorAs(t, err, &buildErr)
			assert.Equal(t, "no extractable passages", buildErr.Reason)
		})
	}
}

func TestBuildEmbeddingFailure(t *testing.T) {
	e := newEmbedder()
	e.fail = true

	_, err := Build(context.Background(), e, passages("battery life"))
	assert.ErrorIs(t, err, ErrIndexBuild)
}

func TestSearchRanksBySimilarity(t *testing.T) {
	e := newEmbedder()
	idx, err := Build(context.Background(), e, passages(
		"The price is 49 dollars.",
		"Battery lasts a week, battery swaps are easy.",
		"Waterproof for any dog.",
	))
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())

	got, err := idx.Search(context.Background(), "how long is the battery", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Text, "Battery lasts")
	assert.Equal(t, 100, got[0].Offset)

	assert.Contains(t, e.tasks, embedding.TaskRetrievalDocument)
	assert.Equal(t, embedding.TaskRetrievalQuery, e.tasks[len(e.tasks)-1])
}

func TestSearchKBounds(t *testing.T) {
	idx, err := Build(context.Background(), newEmbedder(), passages("dog", "price", "battery"))
	require.NoError(t, err)

	got, err := idx.Search(context.Background(), "dog", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = idx.Search(context.Background(), "dog", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "dog", got[0].Text)
}

func TestSearchTiesKeepDocumentOrder(t *testing.T) {
	idx, err := Build(context.Background(), newEmbedder(), passages("first note", "second note", "third note"))
	require.NoError(t, err)

	got, err := idx.Search(context.Background(), "unrelated", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first note", "second note", "third note"},
		[]string{got[0].Text, got[1].Text, got[2].Text})
}
