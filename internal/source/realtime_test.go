package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"concierge/internal/domain"
	"concierge/internal/perplexity"
)

func searchClientFor(t *testing.T, handler http.HandlerFunc) *perplexity.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("PERPLEXITY_API_KEY", "test-key")
	c, err := perplexity.NewClient(perplexity.Config{BaseURL: server.URL})
	require.NoError(t, err)
	return c
}

func TestRealtimeFetchForwardsQueryVerbatim(t *testing.T) {
	var gotUser, gotSystem string
	client := searchClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotSystem = body.Messages[0].Content
		gotUser = body.Messages[1].Content
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "The harvest festival runs all week."}},
			},
		})
	})
	s := NewRealtime(client, "framing text", zap.NewNop().Sugar())

	query := "What's new at the festival this week?"
	res := s.Fetch(context.Background(), domain.Query{Text: query}, domain.FetchParams{})
	require.False(t, res.Unavailable)
	assert.Equal(t, []string{"The harvest festival runs all week."}, res.Snippets)
	assert.Equal(t, query, gotUser)
	assert.Equal(t, "framing text", gotSystem)
}

func TestRealtimeFetchFailure(t *testing.T) {
	client := searchClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	s := NewRealtime(client, "framing", zap.NewNop().Sugar())

	res := s.Fetch(context.Background(), domain.Query{Text: "news"}, domain.FetchParams{})
	assert.True(t, res.Unavailable)
	assert.Contains(t, res.Reason, "couldn't retrieve the latest information")
}

func TestRealtimeFetchBlankReply(t *testing.T) {
	client := searchClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "   "}}},
		})
	})
	s := NewRealtime(client, "framing", zap.NewNop().Sugar())

	res := s.Fetch(context.Background(), domain.Query{Text: "news"}, domain.FetchParams{})
	assert.True(t, res.Unavailable)
}

func TestRealtimeFetchUnconfigured(t *testing.T) {
	s := NewRealtime(nil, "framing", zap.NewNop().Sugar())
	res := s.Fetch(context.Background(), domain.Query{Text: "news"}, domain.FetchParams{})
	assert.True(t, res.Unavailable)
	assert.Contains(t, res.Reason, "currently unavailable")
}
