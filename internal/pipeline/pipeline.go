// Package pipeline orchestrates one conversation turn:
// classify -> route -> fetch context -> synthesize.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"concierge/internal/domain"
	"concierge/internal/intent"
	"concierge/internal/router"
	"concierge/internal/synth"
)

// Pipeline holds the injected collaborators for turn handling. It keeps
// no cross-turn state; each HandleTurn call is independent.
type Pipeline struct {
	classifier *intent.Classifier
	sources    map[router.Selection]domain.ContextSource
	synth      *synth.Synthesizer
	log        *zap.SugaredLogger
}

func New(classifier *intent.Classifier, sources map[router.Selection]domain.ContextSource, synthesizer *synth.Synthesizer, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{classifier: classifier, sources: sources, synth: synthesizer, log: log}
}

// HandleTurn processes one user turn end to end and always returns a
// non-empty answer. Anything that panics past this point is mapped to
// the turn-failure apology.
func (p *Pipeline) HandleTurn(ctx context.Context, text string) (answer string) {
	log := p.log.With("turn_id", uuid.NewString())
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("turn failed", "panic", r)
			answer = p.synth.TurnFailureApology()
		}
	}()

	query := domain.Query{Text: text, ReceivedAt: time.Now()}
	in := p.classifier.Classify(text)
	route := router.For(in)

	var result domain.ContextResult
	if src, ok := p.sources[route.Source]; ok {
		result = src.Fetch(ctx, query, route.Params)
	} else {
		log.Errorw("no context source wired for route", "source", route.Source)
		result = domain.ContextUnavailable("")
	}
	log.Infow("context fetched",
		"intent", in,
		"source", route.Source,
		"snippets", len(result.Snippets),
		"unavailable", result.Unavailable)

	return p.synth.Synthesize(ctx, query, result, in)
}
