package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"marketforge-be/pkg/llm"
)

type EmbeddingRequestContentPart struct {
	Text string `json:"text"`
}

type EmbeddingRequestContent struct {
	Parts []EmbeddingRequestContentPart `json:"parts"`
}

type EmbeddingRequest struct {
	Model    string                  `json:"model"`
	Content  EmbeddingRequestContent `json:"content"`
	TaskType string                  `json:"task_type,omitempty"`
}

type GeminiProvider struct {
	ApiKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey:   apiKey,
		Model:    "text-embedding-004",
		Endpoint: "https://generativelanguage.googleapis.com/v1",
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	geminiReqJson, err := json.Marshal(EmbeddingRequest{
		Model: p.Model,
		Content: EmbeddingRequestContent{
			Parts: []EmbeddingRequestContentPart{{Text: text}},
		},
		TaskType: taskType,
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent", p.Endpoint, p.Model)

	resByte, err := llm.DoWithRetry(ctx, p.Client, "gemini embedding", 2, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(geminiReqJson))
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-goog-api-key", p.ApiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var resEmbedding EmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, err
	}
	resEmbedding.Embedding.Values = normalizeVector(resEmbedding.Embedding.Values)

	return &resEmbedding, nil
}
