// Package synth assembles the generation prompt for a turn and turns
// the model's reply into a final answer, with persona-consistent
// fallbacks when generation fails.
package synth

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"concierge/internal/domain"
)

const noContextPlaceholder = "No specific information found."

// Synthesizer selects a persona template by intent, renders the context
// block and issues one bounded generation call.
type Synthesizer struct {
	gen         domain.Generator
	persona     domain.Persona
	temperature float64
	maxTokens   int
	templates   map[domain.Intent]string
	generic     string
	log         *zap.SugaredLogger
}

func New(gen domain.Generator, persona domain.Persona, temperature float64, maxTokens int, log *zap.SugaredLogger) *Synthesizer {
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}
	return &Synthesizer{
		gen:         gen,
		persona:     persona,
		temperature: temperature,
		maxTokens:   maxTokens,
		templates:   buildTemplates(persona),
		generic: fmt.Sprintf(
			"You are %s, a friendly personal concierge for %s. Be helpful, warm, "+
				"and professional in your responses. Always identify yourself as %s.",
			persona.Name, persona.Business, persona.Name),
		log: log,
	}
}

// Synthesize produces the final answer for a turn. It never returns an
// empty string: generation failures and blank replies fall back to a
// canned apology naming the phone contact.
func (s *Synthesizer) Synthesize(ctx context.Context, query domain.Query, result domain.ContextResult, intent domain.Intent) string {
	bundle := s.Bundle(query, result, intent)
	text, err := s.gen.Generate(ctx, bundle, s.temperature, s.maxTokens)
	if err != nil || strings.TrimSpace(text) == "" {
		s.log.Errorw("generation failed", "intent", intent, "error", err)
		return s.GenerationApology()
	}
	return strings.TrimSpace(text)
}

// Bundle assembles the immutable generation request: persona template
// keyed by intent, rendered context, original question.
func (s *Synthesizer) Bundle(query domain.Query, result domain.ContextResult, intent domain.Intent) domain.PromptBundle {
	system, ok := s.templates[intent]
	if !ok {
		system = s.generic
	}
	return domain.PromptBundle{
		System:   system,
		Context:  renderContext(result),
		Question: query.Text,
		Persona:  s.persona.Name,
	}
}

// GenerationApology is the fallback answer for failures inside the
// generation call.
func (s *Synthesizer) GenerationApology() string {
	return fmt.Sprintf(
		"Hi, I'm %s, your personal concierge! I'm having trouble processing your "+
			"request right now. Please try again or contact us directly at %s.",
		s.persona.Name, s.persona.Phone)
}

// TurnFailureApology is the distinct fallback answer for failures
// anywhere else in the turn.
func (s *Synthesizer) TurnFailureApology() string {
	return fmt.Sprintf(
		"Hi, I'm %s! I apologize for the inconvenience. Please try rephrasing "+
			"your question or contact us directly at %s.",
		s.persona.Name, s.persona.Email)
}

// renderContext flattens a ContextResult into the prompt's context
// block. Snippet order is preserved: source order is relevance order.
// An unavailable result contributes its visitor-facing reason so the
// model can relay it.
func renderContext(result domain.ContextResult) string {
	if result.Unavailable {
		if result.Reason != "" {
			return result.Reason
		}
		return noContextPlaceholder
	}
	if len(result.Snippets) == 0 {
		return noContextPlaceholder
	}
	return strings.Join(result.Snippets, "\n\n")
}

func buildTemplates(p domain.Persona) map[domain.Intent]string {
	return map[domain.Intent]string{
		domain.IntentBusiness: fmt.Sprintf(
			"You are %s, a friendly and knowledgeable personal concierge for %s. "+
				"Use the provided business information to answer questions about our winery, "+
				"wines, tastings, tours, and services. Be warm, professional, and helpful. "+
				"Always introduce yourself as %s when meeting someone new or when asked about yourself.",
			p.Name, p.Business, p.Name),
		domain.IntentWeather: fmt.Sprintf(
			"You are %s, a helpful personal concierge providing weather information for "+
				"visitors to Napa Valley. If weather data is unavailable, provide general seasonal "+
				"advice for Napa Valley and suggest indoor/outdoor activities. "+
				"Always identify yourself as %s when asked.",
			p.Name, p.Name),
		domain.IntentNews: fmt.Sprintf(
			"You are %s, a knowledgeable personal concierge sharing information about "+
				"Napa Valley, wine industry, and local events. Present information in an engaging way. "+
				"Always introduce yourself as %s when appropriate.",
			p.Name, p.Name),
		domain.IntentChitchat: fmt.Sprintf(
			"You are %s, a friendly and personable concierge at %s. You love casual "+
				"conversation and are great at small talk. When someone asks about yourself, introduce "+
				"yourself as %s - a personal wine concierge who helps visitors discover the best of "+
				"Napa Valley. Keep responses warm, engaging, and conversational. Answer questions "+
				"naturally and try to steer conversation toward wine, the winery, or visiting Napa "+
				"Valley when appropriate.",
			p.Name, p.Business, p.Name),
	}
}
