package domain

import (
	"context"
	"fmt"
	"time"
)

// Intent is the routing category assigned to a user query. It decides
// which context source grounds the answer.
type Intent string

const (
	IntentBusiness Intent = "business"
	IntentWeather  Intent = "weather"
	IntentNews     Intent = "news"
	IntentChitchat Intent = "chitchat"
)

// Query is a single user turn. The core never persists it past the turn.
type Query struct {
	Text       string
	ReceivedAt time.Time
}

// ContextResult is the output of a context source: either an ordered list
// of grounding snippets, or an explicit unavailable marker with a
// human-readable reason. Never both.
type ContextResult struct {
	Snippets    []string
	Unavailable bool
	Reason      string
}

// ContextOK wraps snippets in a usable result. An empty list is a valid
// result meaning the source answered but found nothing.
func ContextOK(snippets ...string) ContextResult {
	return ContextResult{Snippets: snippets}
}

// ContextUnavailable marks the source as degraded for this turn.
func ContextUnavailable(reason string) ContextResult {
	return ContextResult{Unavailable: true, Reason: reason}
}

// Empty reports whether the result carries no usable snippets.
func (r ContextResult) Empty() bool {
	return r.Unavailable || len(r.Snippets) == 0
}

// PromptBundle is the fully assembled generation request for one turn:
// persona instructions, grounding context and the original question.
type PromptBundle struct {
	System   string
	Context  string
	Question string
	// Persona is the assistant name the reply should be voiced as.
	Persona string
}

// SearchResult is a snippet matched in the vector index, ranked by
// similarity score.
type SearchResult struct {
	Text  string
	Score float64
}

// FetchParams carries the per-route knobs a context source accepts.
type FetchParams struct {
	TopK int
}

// ContextSource produces grounding context for a query. Implementations
// must not return errors: any failure degrades to an unavailable
// ContextResult plus a logged diagnostic.
type ContextSource interface {
	Name() string
	Fetch(ctx context.Context, query Query, params FetchParams) ContextResult
}

// Embedder converts query text into a vector via the embedding backend.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// DocumentEmbedder embeds corpus passages for indexing.
type DocumentEmbedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float64, error)
}

// Generator issues a single bounded text-generation call against the
// model backend.
type Generator interface {
	Generate(ctx context.Context, bundle PromptBundle, temperature float64, maxTokens int) (string, error)
}

// Persona is the fixed assistant identity injected into every
// generation request.
type Persona struct {
	Name     string
	Business string
	Phone    string
	Email    string
}

// Identity returns the static self-description used to ground casual
// conversation turns.
func (p Persona) Identity() string {
	return fmt.Sprintf(
		"You are %s, a friendly personal wine concierge at %s. "+
			"You help visitors discover the best of Napa Valley wines and experiences.",
		p.Name, p.Business)
}

// SearchFraming returns the system instruction handed to the realtime
// search backend.
func (p Persona) SearchFraming() string {
	return fmt.Sprintf(
		"You are helping %s, a helpful assistant, provide current information "+
			"about Napa Valley, wine industry, and related topics.", p.Name)
}
