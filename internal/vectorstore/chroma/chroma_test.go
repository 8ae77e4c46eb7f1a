package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/internal/vectorstore"
)

func TestConnectAndSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/collections/wine_business_knowledge":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "col-123"})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/collections/col-123/query":
			var body struct {
				NResults int `json:"n_results"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, 3, body.NResults)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"documents": [][]string{{"tasting room open 10-5", "tours at noon"}},
				"distances": [][]float64{{0.1, 0.4}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	s := NewStorage(Config{URL: server.URL})
	assert.False(t, s.Connected())
	require.NoError(t, s.Connect(context.Background()))
	assert.True(t, s.Connected())

	results, err := s.Search(context.Background(), []float64{0.5, 0.5}, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "tasting room open 10-5", results[0].Text)
	assert.InDelta(t, 0.9, results[0].Score, 1e-9)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestConnectFailureStaysDisconnected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewStorage(Config{URL: server.URL})
	assert.Error(t, s.Connect(context.Background()))
	assert.False(t, s.Connected())

	_, err := s.Search(context.Background(), []float64{1}, 3)
	assert.Error(t, err)
}

func TestResetAndAdd(t *testing.T) {
	var deleted, created, added bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/collections/wine_business_knowledge":
			deleted = true
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/collections":
			created = true
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "col-456"})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/collections/col-456/add":
			added = true
			var body struct {
				IDs       []string    `json:"ids"`
				Documents []string    `json:"documents"`
				Metadatas []map[string]any `json:"metadatas"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"doc_0"}, body.IDs)
			assert.Equal(t, []string{"our winery offers daily tastings"}, body.Documents)
			assert.Equal(t, "business_info.txt", body.Metadatas[0]["source"])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	s := NewStorage(Config{URL: server.URL})
	require.NoError(t, s.Reset(context.Background()))
	require.NoError(t, s.Add(context.Background(), []vectorstore.Snippet{
		{ID: "doc_0", Text: "our winery offers daily tastings", Source: "business_info.txt", Vector: []float64{0.1}},
	}))
	assert.True(t, deleted)
	assert.True(t, created)
	assert.True(t, added)
}

func TestAddRequiresConnection(t *testing.T) {
	s := NewStorage(Config{URL: "http://localhost:0"})
	err := s.Add(context.Background(), nil)
	assert.Error(t, err)
}
