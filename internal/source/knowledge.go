// Package source holds the context sources a turn can be routed to.
// Every source satisfies domain.ContextSource: failures never escape as
// errors, they degrade to an unavailable result.
package source

import (
	"context"

	"go.uber.org/zap"

	"concierge/internal/domain"
	"concierge/internal/vectorstore"
)

const noMatchReason = "No specific information found in knowledge base."

// Knowledge grounds business questions in the vector index: embed the
// query, search, return the matched snippets in similarity-rank order.
type Knowledge struct {
	embedder domain.Embedder
	store    vectorstore.Storage
	log      *zap.SugaredLogger
}

func NewKnowledge(embedder domain.Embedder, store vectorstore.Storage, log *zap.SugaredLogger) *Knowledge {
	return &Knowledge{embedder: embedder, store: store, log: log}
}

func (s *Knowledge) Name() string { return "knowledge_base" }

func (s *Knowledge) Fetch(ctx context.Context, query domain.Query, params domain.FetchParams) domain.ContextResult {
	if s.store == nil || !s.store.Connected() {
		// Fail fast: when the index never connected, skip the
		// embedding call entirely.
		return domain.ContextUnavailable(noMatchReason)
	}
	vec, err := s.embedder.Embed(ctx, query.Text)
	if err != nil {
		s.log.Errorw("query embedding failed", "error", err)
		return domain.ContextUnavailable(noMatchReason)
	}
	topK := params.TopK
	if topK <= 0 {
		topK = 3
	}
	results, err := s.store.Search(ctx, vec, topK)
	if err != nil {
		s.log.Errorw("knowledge base search failed", "error", err)
		return domain.ContextUnavailable(noMatchReason)
	}
	if len(results) == 0 {
		return domain.ContextUnavailable(noMatchReason)
	}
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Text)
	}
	s.log.Debugw("knowledge base searched", "snippets", len(snippets), "top_k", topK)
	return domain.ContextOK(snippets...)
}
