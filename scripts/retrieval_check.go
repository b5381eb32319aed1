//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"marketforge-be/internal/bootstrap"
	"marketforge-be/internal/config"
	"marketforge-be/internal/pkg/logger"
	"marketforge-be/pkg/document"
	"marketforge-be/pkg/rag/index"

	"go.uber.org/zap/zapcore"
)

// Indexes a document with the configured embedding provider and prints the
// passages a query would hand to the research agent.
func main() {
	file := flag.String("file", "", "PDF, DOCX or text file")
	query := flag.String("q", "target audience", "search query")
	k := flag.Int("k", 4, "passages to return")
	flag.Parse()

	cfg := config.Load()
	embedder := bootstrap.NewEmbeddingProvider(cfg, logger.NewConsoleLogger(zapcore.InfoLevel))

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	ctx := context.Background()
	segments, err := document.NewFileLoader().Load(ctx, filepath.Base(*file), document.ResolveMediaType(*file, ""), data)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	passages := document.SplitPassages(segments, document.DefaultChunkSize, document.DefaultChunkOverlap)
	fmt.Printf("--- %d segments, %d passages ---\n", len(segments), len(passages))

	idx, err := index.Build(ctx, embedder, passages)
	if err != nil {
		log.Fatalf("index: %v", err)
	}

	hits, err := idx.Search(ctx, *query, *k)
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	for i, p := range hits {
		fmt.Printf("\n[%d] %s @%d\n%s\n", i+1, p.Source, p.Offset, p.Text)
	}
}
