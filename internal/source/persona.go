package source

import (
	"context"

	"concierge/internal/domain"
)

// Persona grounds casual conversation in the assistant's fixed identity.
// No I/O; it always succeeds.
type Persona struct {
	identity string
}

func NewPersona(persona domain.Persona) *Persona {
	return &Persona{identity: persona.Identity()}
}

func (s *Persona) Name() string { return "persona" }

func (s *Persona) Fetch(_ context.Context, _ domain.Query, _ domain.FetchParams) domain.ContextResult {
	return domain.ContextOK(s.identity)
}
