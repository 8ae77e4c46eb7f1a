package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/internal/domain"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	c, err := NewClient(Config{BaseURL: baseURL})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "Cheers from Tohin!"}}}},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	bundle := domain.PromptBundle{
		System:   "You are a concierge.",
		Context:  "Tastings daily 10-5.",
		Question: "When can I visit?",
		Persona:  "Tohin",
	}
	text, err := c.Generate(context.Background(), bundle, 0.7, 1000)
	require.NoError(t, err)
	assert.Equal(t, "Cheers from Tohin!", text)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	raw, _ := json.Marshal(gotBody)
	body := string(raw)
	assert.Contains(t, body, "Tastings daily 10-5.")
	assert.Contains(t, body, "When can I visit?")
	assert.Contains(t, body, "You are a concierge.")
	assert.Contains(t, body, "informative response as Tohin:")
	assert.Contains(t, body, "maxOutputTokens")
}

func TestGenerateEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Generate(context.Background(), domain.PromptBundle{Question: "hi"}, 0.7, 100)
	assert.Error(t, err)
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Generate(context.Background(), domain.PromptBundle{Question: "hi"}, 0.7, 100)
	assert.Error(t, err)
}

func TestEmbedTaskTypes(t *testing.T) {
	var tasks []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TaskType string `json:"taskType"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		tasks = append(tasks, body.TaskType)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":embedContent"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float64{0.1, 0.2, 0.3}},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	vec, err := c.Embed(context.Background(), "tasting hours")
	require.NoError(t, err)
	assert.Len(t, vec, 3)

	_, err = c.EmbedDocument(context.Background(), "our winery offers")
	require.NoError(t, err)

	assert.Equal(t, []string{"RETRIEVAL_QUERY", "RETRIEVAL_DOCUMENT"}, tasks)
}

func TestEmbedNoValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": map[string]any{"values": []float64{}}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Embed(context.Background(), "anything")
	assert.Error(t, err)
}
