// internal/domain/news/model.go

package news

import (
	"time"
)

// Article represents a stored news article with its geo origin
type Article struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	PublicationDate time.Time `json:"publication_date"`
	SourceName      string    `json:"source_name"`
	Categories      []string  `json:"categories"`
	RelevanceScore  float64   `json:"relevance_score"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
}

// EventType classifies a user interaction with an article
type EventType string

const (
	EventView  EventType = "VIEW"
	EventClick EventType = "CLICK"
	EventShare EventType = "SHARE"
)

// eventWeights maps each interaction type to its fixed score weight
var eventWeights = map[EventType]float64{
	EventView:  1.0,
	EventClick: 3.0,
	EventShare: 5.0,
}

// Weight returns the score weight for the event type, 0 for unknown types
func (t EventType) Weight() float64 {
	return eventWeights[t]
}

// Valid reports whether the event type is one of the known interaction kinds
func (t EventType) Valid() bool {
	_, ok := eventWeights[t]
	return ok
}

// Event is a single timestamped user interaction with an article.
// Events are immutable once stored.
type Event struct {
	ID        int64     `json:"id"`
	ArticleID string    `json:"article_id"`
	Type      EventType `json:"event_type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}
