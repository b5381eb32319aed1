package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketforge-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatWithToolsParsesToolCalls(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3.1","done":true,"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"product_document_search","arguments":{"query":"target audience for a smart collar"}}}]}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3.1")
	reply, err := p.ChatWithTools(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		[]llm.ToolSpec{{Name: "product_document_search", Parameters: map[string]any{"type": "object"}}},
		llm.WithTemperature(0),
	)
	require.NoError(t, err)

	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
	assert.Equal(t, "product_document_search", got.Tools[0].Function.Name)
	assert.False(t, got.Stream)

	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "product_document_search", reply.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"target audience for a smart collar"}`, string(reply.ToolCalls[0].Arguments))
}

func TestGenerateReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json", req.Format)
		assert.Equal(t, "user", req.Messages[0].Role)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"posts\":[]}"},"done":true}`))
	}))
	defer srv.Close()

	out, err := NewOllamaProvider(srv.URL, "llama3.1").Generate(context.Background(), "posts please", llm.WithJSONMode())
	require.NoError(t, err)
	assert.Equal(t, `{"posts":[]}`, out)
}
