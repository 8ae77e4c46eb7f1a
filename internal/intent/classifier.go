// Package intent classifies free-text queries into routing categories
// using ordered keyword rules.
package intent

import (
	"strings"

	"concierge/internal/domain"
)

// rule pairs an intent with the keyword set that selects it.
type rule struct {
	intent   domain.Intent
	keywords []string
}

// Classifier assigns exactly one intent per query. Rules are evaluated
// in a fixed order and the first hit wins, so business keywords take
// precedence over weather and news keywords whenever they co-occur.
type Classifier struct {
	rules []rule
}

// NewClassifier builds a classifier with the concierge's default rules.
func NewClassifier() *Classifier {
	return &Classifier{rules: []rule{
		{domain.IntentBusiness, []string{
			"wine", "tasting", "vineyard", "winery", "hours", "reservation",
			"price", "cost", "shipping", "club", "tour", "location", "address",
			"cabernet", "chardonnay", "pinot", "merlot", "bottle", "vintage",
			"cellar", "harvest", "barrels", "sommelier", "pairing", "taste",
			"flavor", "aroma", "notes",
		}},
		{domain.IntentWeather, []string{
			"weather", "temperature", "rain", "sunny", "forecast", "climate",
			"hot", "cold", "warm", "degrees", "fahrenheit", "celsius",
		}},
		{domain.IntentNews, []string{
			"news", "latest", "recent", "current", "today", "happening",
			"events", "festival", "what's new", "updates",
		}},
	}}
}

// Classify maps query text to an intent. Pure and deterministic: no I/O,
// case-insensitive substring matching only. Queries matching no rule are
// chitchat.
func (c *Classifier) Classify(query string) domain.Intent {
	q := strings.ToLower(query)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.intent
			}
		}
	}
	return domain.IntentChitchat
}
