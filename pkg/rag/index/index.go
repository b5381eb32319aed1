package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"marketforge-be/pkg/document"
	"marketforge-be/pkg/embedding"

	"golang.org/x/sync/errgroup"
)

// ErrIndexBuild marks an index that could not be built. Callers treat it as
// "retrieval unavailable" and keep going.
var ErrIndexBuild = errors.New("document index build failed")

type IndexBuildError struct {
	Reason string
	Err    error
}

func (e *IndexBuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrIndexBuild, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrIndexBuild, e.Reason)
}

func (e *IndexBuildError) Is(target error) bool { return target == ErrIndexBuild }

func (e *IndexBuildError) Unwrap() error { return e.Err }

// embedConcurrency bounds in-flight embedding calls during Build.
const embedConcurrency = 4

type entry struct {
	passage document.Passage
	vector  []float32
}

// Index is an in-memory nearest-passage index for a single request.
// It is read-only once built.
type Index struct {
	embedder embedding.EmbeddingProvider
	entries  []entry
}

// Build embeds every non-blank passage and returns the searchable index.
func Build(ctx context.Context, embedder embedding.EmbeddingProvider, passages []document.Passage) (*Index, error) {
	var usable []document.Passage
	for _, p := range passages {
		if strings.TrimSpace(p.Text) != "" {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return nil, &IndexBuildError{Reason: "no extractable passages"}
	}

	entries := make([]entry, len(usable))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, p := range usable {
		g.Go(func() error {
			res, err := embedder.Generate(gctx, p.Text, embedding.TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("embed passage at offset %d: %w", p.Offset, err)
			}
			entries[i] = entry{passage: p, vector: res.Embedding.Values}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &IndexBuildError{Reason: "embedding failed", Err: err}
	}

	return &Index{embedder: embedder, entries: entries}, nil
}

// Len reports the number of indexed passages.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Search returns up to k passages ordered by cosine similarity to query.
// Equal scores keep document order.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]document.Passage, error) {
	if k <= 0 || len(idx.entries) == 0 {
		return nil, nil
	}

	res, err := idx.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	q := res.Embedding.Values

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(idx.entries))
	for i, e := range idx.entries {
		ranked[i] = scored{pos: i, score: cosine(q, e.vector)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]document.Passage, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, idx.entries[r.pos].passage)
	}
	return out, nil
}

// cosine tolerates unnormalised vectors and mismatched lengths.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
