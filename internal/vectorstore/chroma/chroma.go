// Package chroma is a minimal REST client to a Chroma server. It reads
// the collection the ingestion job populates.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"concierge/internal/domain"
	"concierge/internal/vectorstore"
)

// Storage talks to one named Chroma collection over HTTP.
type Storage struct {
	url          string
	collection   string
	collectionID string
	connected    bool
	client       *http.Client
}

type Config struct {
	URL        string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if cfg.Collection == "" {
		cfg.Collection = "wine_business_knowledge"
	}
	return &Storage{
		url:        cfg.URL,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Connect resolves the collection id. Called once at startup; when it
// fails the store stays disconnected for the life of the process and
// Search is never attempted.
func (s *Storage) Connect(ctx context.Context) error {
	var out struct {
		ID string `json:"id"`
	}
	url := fmt.Sprintf("%s/api/v1/collections/%s", s.url, s.collection)
	if err := s.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return fmt.Errorf("connecting to collection %s: %w", s.collection, err)
	}
	if out.ID == "" {
		return fmt.Errorf("collection %s has no id", s.collection)
	}
	s.collectionID = out.ID
	s.connected = true
	return nil
}

func (s *Storage) Connected() bool { return s.connected }

// Reset drops and recreates the collection. Used by the ingestion job
// for a fresh index.
func (s *Storage) Reset(ctx context.Context) error {
	// Best-effort drop; the collection may not exist yet.
	_ = s.do(ctx, http.MethodDelete, fmt.Sprintf("%s/api/v1/collections/%s", s.url, s.collection), nil, nil)

	body := map[string]any{"name": s.collection, "get_or_create": true}
	var out struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodPost, fmt.Sprintf("%s/api/v1/collections", s.url), body, &out); err != nil {
		return fmt.Errorf("creating collection %s: %w", s.collection, err)
	}
	if out.ID == "" {
		return fmt.Errorf("collection %s has no id", s.collection)
	}
	s.collectionID = out.ID
	s.connected = true
	return nil
}

func (s *Storage) Add(ctx context.Context, snippets []vectorstore.Snippet) error {
	if !s.connected {
		return errors.New("store not connected")
	}
	ids := make([]string, len(snippets))
	embeddings := make([][]float64, len(snippets))
	documents := make([]string, len(snippets))
	metadatas := make([]map[string]any, len(snippets))
	for i, sn := range snippets {
		ids[i] = sn.ID
		embeddings[i] = sn.Vector
		documents[i] = sn.Text
		metadatas[i] = map[string]any{"source": sn.Source}
	}
	body := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	url := fmt.Sprintf("%s/api/v1/collections/%s/add", s.url, s.collectionID)
	return s.do(ctx, http.MethodPost, url, body, nil)
}

// Search returns the nearest snippets in similarity-rank order. Chroma
// reports distances; scores are converted so that higher is closer.
func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if !s.connected {
		return nil, errors.New("store not connected")
	}
	if topK <= 0 {
		topK = 3
	}
	body := map[string]any{
		"query_embeddings": [][]float64{vector},
		"n_results":        topK,
		"include":          []string{"documents", "distances"},
	}
	var out struct {
		Documents [][]string  `json:"documents"`
		Distances [][]float64 `json:"distances"`
	}
	url := fmt.Sprintf("%s/api/v1/collections/%s/query", s.url, s.collectionID)
	if err := s.do(ctx, http.MethodPost, url, body, &out); err != nil {
		return nil, err
	}
	if len(out.Documents) == 0 {
		return nil, nil
	}
	docs := out.Documents[0]
	results := make([]domain.SearchResult, 0, len(docs))
	for i, text := range docs {
		r := domain.SearchResult{Text: text}
		if len(out.Distances) > 0 && i < len(out.Distances[0]) {
			r.Score = 1 - out.Distances[0][i]
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *Storage) do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chroma %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
