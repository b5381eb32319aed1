package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketforge-be/pkg/llm"

	"golang.org/x/time/rate"
)

const (
	DefaultTavilyURL  = "https://api.tavily.com"
	DefaultMaxResults = 4
)

var ErrMissingAPIKey = errors.New("tavily api key is not configured")

type TavilyClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	limiter    *rate.Limiter
	client     *http.Client
}

type TavilyOption func(*TavilyClient)

func WithBaseURL(url string) TavilyOption {
	return func(c *TavilyClient) { c.baseURL = strings.TrimRight(url, "/") }
}

func WithMaxResults(n int) TavilyOption {
	return func(c *TavilyClient) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithRateLimit caps outgoing searches to rps requests per second.
func WithRateLimit(rps float64, burst int) TavilyOption {
	return func(c *TavilyClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func NewTavilyClient(apiKey string, opts ...TavilyOption) *TavilyClient {
	c := &TavilyClient{
		apiKey:     apiKey,
		baseURL:    DefaultTavilyURL,
		maxResults: DefaultMaxResults,
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
		client:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tavily rate limit wait: %w", err)
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		MaxResults:  c.maxResults,
		SearchDepth: "advanced",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	body, err := llm.DoWithRetry(ctx, c.client, "tavily", 2, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var resp tavilyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, Result{Title: r.Title, Snippet: r.Content, URL: r.URL})
	}
	return results, nil
}
