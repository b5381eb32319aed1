package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{name: "unit length", in: []float32{3, 4}, want: []float32{0.6, 0.8}},
		{name: "zero vector untouched", in: []float32{0, 0}, want: []float32{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeVector(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestOllamaProviderGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "smart collar", req.Prompt)
		_, _ = w.Write([]byte(`{"embedding":[1,1,0]}`))
	}))
	defer srv.Close()

	resp, err := NewOllamaProvider(srv.URL, "").Generate(context.Background(), "smart collar", TaskRetrievalQuery)
	require.NoError(t, err)

	v := resp.Embedding.Values
	require.Len(t, v, 3)
	assert.InDelta(t, 1/math.Sqrt2, v[0], 1e-6)
	assert.InDelta(t, 0, v[2], 1e-6)
}

func TestGeminiProviderSendsTaskType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:embedContent", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TaskRetrievalDocument, req.TaskType)
		_, _ = w.Write([]byte(`{"embedding":{"values":[0,2]}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("key").(*GeminiProvider)
	p.Endpoint = srv.URL

	resp, err := p.Generate(context.Background(), "passage", TaskRetrievalDocument)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, resp.Embedding.Values)
}
