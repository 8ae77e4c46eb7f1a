// Package gemini is a minimal REST client for the Gemini generateContent
// and embedContent endpoints.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"concierge/internal/domain"
)

const (
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Client talks to the Gemini API over HTTPS with a bounded timeout.
type Client struct {
	baseURL         string
	apiKey          string
	generationModel string
	embeddingModel  string
	client          *http.Client
}

// Config configures the Gemini client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	BaseURL         string
	APIKeyEnv       string
	GenerationModel string
	EmbeddingModel  string
	Timeout         time.Duration
}

// NewClient creates a Gemini client. The API key is mandatory: the
// concierge cannot answer at all without the generation backend.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GEMINI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.GenerationModel == "" {
		cfg.GenerationModel = "gemini-1.5-flash"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-004"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL:         cfg.BaseURL,
		apiKey:          key,
		generationModel: cfg.GenerationModel,
		embeddingModel:  cfg.EmbeddingModel,
		client:          &http.Client{Timeout: t},
	}, nil
}

type contentPayload struct {
	Role  string        `json:"role,omitempty"`
	Parts []textPayload `json:"parts"`
}

type textPayload struct {
	Text string `json:"text"`
}

// Generate issues a single generation call for the assembled bundle and
// returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, bundle domain.PromptBundle, temperature float64, maxTokens int) (string, error) {
	tail := "Please provide a helpful, friendly, and informative response:"
	if bundle.Persona != "" {
		tail = fmt.Sprintf("Please provide a helpful, friendly, and informative response as %s:", bundle.Persona)
	}
	user := fmt.Sprintf("Context Information:\n%s\n\nUser Question: %s\n\n%s",
		bundle.Context, bundle.Question, tail)

	body := struct {
		Contents          []contentPayload `json:"contents"`
		SystemInstruction *contentPayload  `json:"systemInstruction,omitempty"`
		GenerationConfig  struct {
			Temperature     float64 `json:"temperature"`
			MaxOutputTokens int     `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}{
		Contents: []contentPayload{{Role: "user", Parts: []textPayload{{Text: user}}}},
	}
	if bundle.System != "" {
		body.SystemInstruction = &contentPayload{Parts: []textPayload{{Text: bundle.System}}}
	}
	body.GenerationConfig.Temperature = temperature
	body.GenerationConfig.MaxOutputTokens = maxTokens

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []textPayload `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.generationModel)
	if err := c.postJSON(ctx, url, body, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 {
		return "", errors.New("no candidates returned")
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("empty generation")
	}
	return text, nil
}

// Embed returns a retrieval-query embedding for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	return c.embed(ctx, text, taskRetrievalQuery)
}

// EmbedDocument returns a retrieval-document embedding, used at
// ingestion time.
func (c *Client) EmbedDocument(ctx context.Context, text string) ([]float64, error) {
	return c.embed(ctx, text, taskRetrievalDocument)
}

func (c *Client) embed(ctx context.Context, text, task string) ([]float64, error) {
	body := struct {
		Model    string         `json:"model"`
		Content  contentPayload `json:"content"`
		TaskType string         `json:"taskType"`
	}{
		Model:    "models/" + c.embeddingModel,
		Content:  contentPayload{Parts: []textPayload{{Text: text}}},
		TaskType: task,
	}
	var out struct {
		Embedding struct {
			Values []float64 `json:"values"`
		} `json:"embedding"`
	}
	url := fmt.Sprintf("%s/models/%s:embedContent", c.baseURL, c.embeddingModel)
	if err := c.postJSON(ctx, url, body, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding.Values) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return out.Embedding.Values, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gemini request failed: %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
