// internal/domain/trend/model.go

package trend

import (
	"time"
)

// Score is one persisted (geo-cell, article) trending score row
type Score struct {
	GeoCell   string    `json:"geo_cell"`
	ArticleID string    `json:"article_id"`
	Value     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RankedArticle is a trending result entry served to clients and cached
// per geo-cell. The URL doubles as the identity key when merging cells.
type RankedArticle struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	PublicationDate time.Time `json:"publication_date"`
	SourceName      string    `json:"source_name"`
	Categories      []string  `json:"category"`
	TrendingScore   float64   `json:"trending_score"`
}
