package source

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"concierge/internal/domain"
	"concierge/internal/perplexity"
)

// Realtime forwards the raw query to the online search backend and
// returns its single reply as one context snippet.
type Realtime struct {
	client  *perplexity.Client
	framing string
	log     *zap.SugaredLogger
}

// NewRealtime wires the realtime search source. A nil client means the
// feed was never configured; the source then always reports unavailable.
func NewRealtime(client *perplexity.Client, framing string, log *zap.SugaredLogger) *Realtime {
	return &Realtime{client: client, framing: framing, log: log}
}

func (s *Realtime) Name() string { return "realtime_search" }

func (s *Realtime) Fetch(ctx context.Context, query domain.Query, _ domain.FetchParams) domain.ContextResult {
	if s.client == nil {
		return domain.ContextUnavailable("Real-time information service is currently unavailable.")
	}
	reply, err := s.client.Ask(ctx, s.framing, query.Text)
	if err != nil || strings.TrimSpace(reply) == "" {
		s.log.Errorw("realtime search failed", "error", err)
		return domain.ContextUnavailable("I'm sorry, I couldn't retrieve the latest information at this time.")
	}
	return domain.ContextOK(reply)
}
