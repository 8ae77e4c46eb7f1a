package synth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"concierge/internal/domain"
)

type fakeGenerator struct {
	reply      string
	err        error
	lastBundle domain.PromptBundle
	lastTemp   float64
	lastTokens int
}

func (f *fakeGenerator) Generate(_ context.Context, bundle domain.PromptBundle, temperature float64, maxTokens int) (string, error) {
	f.lastBundle = bundle
	f.lastTemp = temperature
	f.lastTokens = maxTokens
	return f.reply, f.err
}

var testPersona = domain.Persona{
	Name:     "Tohin",
	Business: "Napa Valley Premium Wines",
	Phone:    "(707) 555-WINE",
	Email:    "info@napavalleypremiumwines.com",
}

func newTestSynthesizer(gen domain.Generator) *Synthesizer {
	return New(gen, testPersona, 0.7, 1000, zap.NewNop().Sugar())
}

func TestSynthesizeHappyPath(t *testing.T) {
	gen := &fakeGenerator{reply: "We pour daily from 10 to 5!"}
	s := newTestSynthesizer(gen)

	query := domain.Query{Text: "What are your tasting hours?"}
	answer := s.Synthesize(context.Background(), query, domain.ContextOK("Tastings daily 10-5.", "Tours at noon."), domain.IntentBusiness)

	assert.Equal(t, "We pour daily from 10 to 5!", answer)
	assert.Equal(t, 0.7, gen.lastTemp)
	assert.Equal(t, 1000, gen.lastTokens)
	assert.Equal(t, "Tastings daily 10-5.\n\nTours at noon.", gen.lastBundle.Context)
	assert.Equal(t, query.Text, gen.lastBundle.Question)
	assert.Equal(t, "Tohin", gen.lastBundle.Persona)
	assert.Contains(t, gen.lastBundle.System, "Tohin")
	assert.Contains(t, gen.lastBundle.System, "business information")
}

func TestSynthesizeNeverEmpty(t *testing.T) {
	results := []domain.ContextResult{
		domain.ContextOK("snippet"),
		domain.ContextOK(),
		domain.ContextUnavailable("service down"),
		domain.ContextUnavailable(""),
	}
	gens := []*fakeGenerator{
		{reply: "fine"},
		{err: errors.New("backend exploded")},
		{reply: "   "},
	}
	for _, gen := range gens {
		for _, res := range results {
			s := newTestSynthesizer(gen)
			answer := s.Synthesize(context.Background(), domain.Query{Text: "hi"}, res, domain.IntentChitchat)
			assert.NotEmpty(t, strings.TrimSpace(answer))
		}
	}
}

func TestSynthesizeGenerationFailureApology(t *testing.T) {
	s := newTestSynthesizer(&fakeGenerator{err: errors.New("quota exceeded")})
	answer := s.Synthesize(context.Background(), domain.Query{Text: "hello"}, domain.ContextOK("ctx"), domain.IntentChitchat)
	assert.Contains(t, answer, "Tohin")
	assert.Contains(t, answer, "(707) 555-WINE")
}

func TestSynthesizeBlankReplyApology(t *testing.T) {
	s := newTestSynthesizer(&fakeGenerator{reply: "  \n "})
	answer := s.Synthesize(context.Background(), domain.Query{Text: "hello"}, domain.ContextOK("ctx"), domain.IntentChitchat)
	assert.Equal(t, s.GenerationApology(), answer)
}

func TestApologiesAreDistinct(t *testing.T) {
	s := newTestSynthesizer(&fakeGenerator{})
	assert.NotEqual(t, s.GenerationApology(), s.TurnFailureApology())
	assert.Contains(t, s.GenerationApology(), testPersona.Phone)
	assert.Contains(t, s.TurnFailureApology(), testPersona.Email)
}

func TestBundleTemplateSelection(t *testing.T) {
	s := newTestSynthesizer(&fakeGenerator{})
	q := domain.Query{Text: "q"}
	res := domain.ContextOK("c")

	business := s.Bundle(q, res, domain.IntentBusiness).System
	weather := s.Bundle(q, res, domain.IntentWeather).System
	news := s.Bundle(q, res, domain.IntentNews).System
	chitchat := s.Bundle(q, res, domain.IntentChitchat).System
	generic := s.Bundle(q, res, domain.Intent("unknown")).System

	all := []string{business, weather, news, chitchat, generic}
	seen := map[string]bool{}
	for _, tmpl := range all {
		assert.Contains(t, tmpl, "Tohin")
		assert.False(t, seen[tmpl], "templates must differ per intent")
		seen[tmpl] = true
	}
	assert.Contains(t, weather, "weather")
	assert.Contains(t, chitchat, "small talk")
}

func TestBundleUnavailableReasonFlowsIntoContext(t *testing.T) {
	s := newTestSynthesizer(&fakeGenerator{})
	res := domain.ContextUnavailable("The weather API key is invalid or not activated yet.")
	bundle := s.Bundle(domain.Query{Text: "weather?"}, res, domain.IntentWeather)
	assert.Equal(t, res.Reason, bundle.Context)
}

func TestBundlePlaceholderForEmptyContext(t *testing.T) {
	s := newTestSynthesizer(&fakeGenerator{})
	for _, res := range []domain.ContextResult{domain.ContextOK(), domain.ContextUnavailable("")} {
		bundle := s.Bundle(domain.Query{Text: "q"}, res, domain.IntentBusiness)
		assert.Equal(t, noContextPlaceholder, bundle.Context)
	}
}

func TestBundlePreservesSnippetOrder(t *testing.T) {
	s := newTestSynthesizer(&fakeGenerator{})
	res := domain.ContextOK("first", "second", "third")
	bundle := s.Bundle(domain.Query{Text: "q"}, res, domain.IntentBusiness)
	require.Equal(t, "first\n\nsecond\n\nthird", bundle.Context)
}
