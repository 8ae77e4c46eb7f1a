package vectorstore

import (
	"context"

	"concierge/internal/domain"
)

// Snippet is an indexed passage with its embedding.
type Snippet struct {
	ID     string
	Text   string
	Source string
	Vector []float64
}

// Storage persists snippet vectors and supports similarity search.
// Connected reports whether the index was reachable at startup; a
// disconnected store is never retried during a turn.
type Storage interface {
	Connected() bool
	Reset(ctx context.Context) error
	Add(ctx context.Context, snippets []Snippet) error
	Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)
}
