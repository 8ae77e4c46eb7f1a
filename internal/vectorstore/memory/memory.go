// Package memory is an in-process vector store using brute-force cosine
// similarity. It backs tests and offline runs.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"concierge/internal/domain"
	"concierge/internal/vectorstore"
)

// Storage holds snippets and their vectors in memory. Always connected.
type Storage struct {
	mu       sync.RWMutex
	snippets []vectorstore.Snippet
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Connected() bool { return true }

func (s *Storage) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snippets = nil
	return nil
}

func (s *Storage) Add(_ context.Context, snippets []vectorstore.Snippet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sn := range snippets {
		if len(sn.Vector) == 0 {
			return errors.New("snippet without vector")
		}
	}
	s.snippets = append(s.snippets, snippets...)
	return nil
}

// Search scores every stored snippet against the query vector and
// returns the topK best. Vectors are assumed L2-normalized, so the dot
// product is the cosine similarity.
func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 3
	}
	results := make([]domain.SearchResult, 0, len(s.snippets))
	for _, sn := range s.snippets {
		results = append(results, domain.SearchResult{Text: sn.Text, Score: dot(sn.Vector, vector)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
