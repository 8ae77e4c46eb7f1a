// Package router maps intents to the context source that grounds them.
package router

import "concierge/internal/domain"

// Selection names one of the wired context sources.
type Selection string

const (
	SourceKnowledge Selection = "knowledge_base"
	SourceWeather   Selection = "weather"
	SourceRealtime  Selection = "realtime_search"
	SourcePersona   Selection = "persona"
)

// Route is a static routing decision: which source to consult and with
// what parameters.
type Route struct {
	Source Selection
	Params domain.FetchParams
}

const (
	businessTopK = 3
	fallbackTopK = 1
)

// For returns the route for an intent. The mapping is static and holds
// no state. Any intent value outside the four public categories takes
// the fallback route.
func For(intent domain.Intent) Route {
	switch intent {
	case domain.IntentBusiness:
		return Route{Source: SourceKnowledge, Params: domain.FetchParams{TopK: businessTopK}}
	case domain.IntentWeather:
		return Route{Source: SourceWeather}
	case domain.IntentNews:
		return Route{Source: SourceRealtime}
	case domain.IntentChitchat:
		return Route{Source: SourcePersona}
	default:
		return Fallback()
	}
}

// Fallback is the named route for unclassified queries: the knowledge
// base with a single nearest snippet. Unclassified and chitchat are
// deliberately distinct rules even though the classifier currently only
// emits the four public intents.
func Fallback() Route {
	return Route{Source: SourceKnowledge, Params: domain.FetchParams{TopK: fallbackTopK}}
}
