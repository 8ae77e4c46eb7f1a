package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"concierge/internal/domain"
	"concierge/internal/weatherapi"
)

// Weather fetches current conditions for a fixed location and formats
// them into a single digest snippet. HTTP failures map to distinct
// visitor-facing messages instead of errors.
type Weather struct {
	client   *weatherapi.Client
	location string
	log      *zap.SugaredLogger
}

// NewWeather wires the weather source. A nil client means the feed was
// never configured; the source then always reports unavailable.
func NewWeather(client *weatherapi.Client, location string, log *zap.SugaredLogger) *Weather {
	if location == "" {
		location = "Napa, CA"
	}
	return &Weather{client: client, location: location, log: log}
}

func (s *Weather) Name() string { return "weather" }

func (s *Weather) Fetch(ctx context.Context, _ domain.Query, _ domain.FetchParams) domain.ContextResult {
	if s.client == nil {
		return domain.ContextUnavailable("Weather service is currently unavailable.")
	}
	rep, err := s.client.Current(ctx, s.location)
	switch {
	case errors.Is(err, weatherapi.ErrUnauthorized):
		s.log.Errorw("weather feed rejected API key")
		return domain.ContextUnavailable("The weather API key is invalid or not activated yet. Please check your API key.")
	case errors.Is(err, weatherapi.ErrNotFound):
		s.log.Errorw("weather location not found", "location", s.location)
		return domain.ContextUnavailable("I couldn't find weather information for the specified location.")
	case err != nil:
		s.log.Errorw("weather fetch failed", "error", err)
		return domain.ContextUnavailable("Sorry, I couldn't fetch the weather information right now.")
	}
	return domain.ContextOK(formatDigest(rep))
}

func formatDigest(rep weatherapi.Report) string {
	lines := []string{
		fmt.Sprintf("Current weather in %s:", rep.Location),
		fmt.Sprintf("- Temperature: %.1f°F (feels like %.1f°F)", rep.Temp, rep.FeelsLike),
		fmt.Sprintf("- Condition: %s", titleCase(rep.Condition)),
		fmt.Sprintf("- Humidity: %d%%", rep.Humidity),
		fmt.Sprintf("- Wind Speed: %.1f mph", rep.WindSpeed),
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
