package jina

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketforge-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(url string) *JinaProvider {
	p := NewJinaProvider("jina_test")
	p.baseURL = url
	return p
}

func TestGenerateSendsTaskAndNormalises(t *testing.T) {
	var got embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer jina_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[{"object":"embedding","index":0,"embedding":[3,4]}]}`))
	}))
	defer srv.Close()

	resp, err := newTestProvider(srv.URL).Generate(context.Background(), "smart collar", embedding.TaskRetrievalQuery)
	require.NoError(t, err)

	assert.Equal(t, "jina-embeddings-v3", got.Model)
	assert.Equal(t, "retrieval.query", got.Task)
	assert.Equal(t, []string{"smart collar"}, got.Input)

	v := resp.Embedding.Values
	require.Len(t, v, 2)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
	assert.InDelta(t, 1, math.Hypot(float64(v[0]), float64(v[1])), 1e-6)
}

func TestJinaTask(t *testing.T) {
	assert.Equal(t, "retrieval.query", jinaTask(embedding.TaskRetrievalQuery))
	assert.Equal(t, "retrieval.passage", jinaTask(embedding.TaskRetrievalDocument))
	assert.Equal(t, "", jinaTask("CLUSTERING"))
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error body", status: http.StatusOK, body: `{"error":{"message":"invalid model"}}`, wantMsg: "invalid model"},
		{name: "no data", status: http.StatusOK, body: `{"data":[]}`, wantMsg: "empty embeddings"},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantMsg: "failed to decode"},
		{name: "client error", status: http.StatusForbidden, body: `forbidden`, wantMsg: "status 403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestProvider(srv.URL).Generate(context.Background(), "x", embedding.TaskRetrievalDocument)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}
