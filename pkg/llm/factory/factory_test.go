package factory

import (
	"testing"

	"marketforge-be/pkg/llm/huggingface"
	"marketforge-be/pkg/llm/ollama"
	"marketforge-be/pkg/llm/openaicompat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("groq", "llama3-70b-8192", "https://api.groq.com/openai/v1", "k")
	require.NoError(t, err)
	assert.IsType(t, &openaicompat.Provider{}, p)

	p, err = NewLLMProvider("ollama", "llama3.1", "", "")
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	p, err = NewLLMProvider("huggingface", "meta-llama/Llama-3.1-8B-Instruct", "", "k")
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)

	_, err = NewLLMProvider("gemini", "x", "", "")
	assert.Error(t, err)
}
