// internal/service/news/analysis.go

package news

import "strings"

// Entities holds the named entities an analyzer extracted from a query.
type Entities struct {
	People        []string `json:"people,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	Events        []string `json:"events,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}

// Analysis is the structured reading of a natural-language query. The
// analyzer fills intents and entities; the caller attaches coordinates from
// the request before strategies run.
type Analysis struct {
	Entities         *Entities `json:"entities,omitempty"`
	KeyConcepts      []string  `json:"keyConcepts,omitempty"`
	PrimaryIntent    string    `json:"primaryIntent,omitempty"`
	SecondaryIntents []string  `json:"secondaryIntents,omitempty"`
	SearchQuery      string    `json:"searchQuery,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
}

// Intents returns the primary intent followed by deduplicated secondaries.
func (a *Analysis) Intents() []string {
	var all []string
	if strings.TrimSpace(a.PrimaryIntent) != "" {
		all = append(all, a.PrimaryIntent)
	}
	for _, s := range a.SecondaryIntents {
		seen := false
		for _, existing := range all {
			if existing == s {
				seen = true
				break
			}
		}
		if !seen {
			all = append(all, s)
		}
	}
	return all
}

// Category returns the first extracted category, or "".
func (a *Analysis) Category() string {
	if a.Entities != nil && len(a.Entities.Categories) > 0 {
		return a.Entities.Categories[0]
	}
	return ""
}

// Source returns the first extracted source, or "".
func (a *Analysis) Source() string {
	if a.Entities != nil && len(a.Entities.Sources) > 0 {
		return a.Entities.Sources[0]
	}
	return ""
}
