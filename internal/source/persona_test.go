package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/internal/domain"
)

func TestPersonaFetchAlwaysSucceeds(t *testing.T) {
	p := domain.Persona{Name: "Tohin", Business: "Napa Valley Premium Wines"}
	s := NewPersona(p)

	res := s.Fetch(context.Background(), domain.Query{Text: "how's it going?"}, domain.FetchParams{})
	require.False(t, res.Unavailable)
	require.Len(t, res.Snippets, 1)
	assert.Contains(t, res.Snippets[0], "Tohin")
	assert.Contains(t, res.Snippets[0], "Napa Valley Premium Wines")
}

func TestPersonaFetchDeterministic(t *testing.T) {
	s := NewPersona(domain.Persona{Name: "Tohin", Business: "NVPW"})
	first := s.Fetch(context.Background(), domain.Query{}, domain.FetchParams{})
	second := s.Fetch(context.Background(), domain.Query{Text: "anything else"}, domain.FetchParams{})
	assert.Equal(t, first, second)
}
