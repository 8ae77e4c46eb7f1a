// Package ingest builds the knowledge index: load documents, chunk,
// embed, store, and report a digest. It runs as a batch job separate
// from the chat pipeline.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"concierge/internal/chunker"
	"concierge/internal/domain"
	"concierge/internal/summarizer"
	"concierge/internal/vectorstore"
)

// Report summarizes one ingestion run.
type Report struct {
	Documents int
	Snippets  int
	Summary   string
}

// Service ingests .txt documents into the vector store.
type Service struct {
	chunker          *chunker.CharacterChunker
	embedder         domain.DocumentEmbedder
	store            vectorstore.Storage
	summarizer       *summarizer.Frequency
	summarySentences int
	log              *zap.SugaredLogger
}

func NewService(ch *chunker.CharacterChunker, embedder domain.DocumentEmbedder, store vectorstore.Storage, sum *summarizer.Frequency, summarySentences int, log *zap.SugaredLogger) *Service {
	return &Service{
		chunker:          ch,
		embedder:         embedder,
		store:            store,
		summarizer:       sum,
		summarySentences: summarySentences,
		log:              log,
	}
}

// Run rebuilds the index from the given paths (globs accepted). The
// existing collection is dropped first so each run starts fresh.
func (s *Service) Run(ctx context.Context, paths []string) (Report, error) {
	type document struct {
		path    string
		content string
	}
	var documents []document
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return Report{}, fmt.Errorf("reading %s: %w", m, err)
			}
			documents = append(documents, document{path: m, content: string(data)})
		}
	}
	if len(documents) == 0 {
		return Report{}, fmt.Errorf("no .txt documents found")
	}

	var snippets []vectorstore.Snippet
	var corpus strings.Builder
	for _, d := range documents {
		pieces := s.chunker.Chunk(d.content)
		s.log.Infow("document chunked", "path", d.path, "chunks", len(pieces))
		for _, piece := range pieces {
			snippets = append(snippets, vectorstore.Snippet{
				ID:     fmt.Sprintf("doc_%d", len(snippets)),
				Text:   piece,
				Source: d.path,
			})
		}
		corpus.WriteString("\n")
		corpus.WriteString(d.content)
	}

	for i := range snippets {
		vec, err := s.embedder.EmbedDocument(ctx, snippets[i].Text)
		if err != nil {
			return Report{}, fmt.Errorf("embedding snippet %s: %w", snippets[i].ID, err)
		}
		snippets[i].Vector = vec
	}

	if err := s.store.Reset(ctx); err != nil {
		return Report{}, fmt.Errorf("resetting store: %w", err)
	}
	if err := s.store.Add(ctx, snippets); err != nil {
		return Report{}, fmt.Errorf("storing snippets: %w", err)
	}

	summary := s.summarizer.Summarize(corpus.String(), s.summarySentences)
	s.log.Infow("ingestion complete", "documents", len(documents), "snippets", len(snippets))
	return Report{Documents: len(documents), Snippets: len(snippets), Summary: summary}, nil
}
