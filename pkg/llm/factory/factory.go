package factory

import (
	"fmt"

	"marketforge-be/pkg/llm"
	"marketforge-be/pkg/llm/huggingface"
	"marketforge-be/pkg/llm/ollama"
	"marketforge-be/pkg/llm/openaicompat"
)

// GroqBaseURL is used for "groq" when no base URL is configured.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// NewLLMProvider returns a tool-calling provider; the research agent needs function calling.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.ToolCallingProvider, error) {
	switch providerType {
	case "groq":
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return openaicompat.NewProvider(apiKey, baseURL, modelName, 2), nil
	case "openai":
		return openaicompat.NewProvider(apiKey, baseURL, modelName, 2), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
