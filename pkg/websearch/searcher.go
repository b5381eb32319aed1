package websearch

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Result is one public web hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"content"`
	URL     string `json:"url"`
}

// Searcher is the web search capability used by the research agent.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// CachedSearcher memoises results per normalised query. Callers get their own
// copy of the slice so edits never reach the cache.
type CachedSearcher struct {
	next  Searcher
	cache *cache.Cache
}

func NewCachedSearcher(next Searcher, ttl time.Duration) *CachedSearcher {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CachedSearcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *CachedSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	key := normalizeQuery(query)
	if x, found := s.cache.Get(key); found {
		return append([]Result(nil), x.([]Result)...), nil
	}

	results, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, append([]Result(nil), results...), cache.DefaultExpiration)
	return results, nil
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
