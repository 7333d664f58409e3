// internal/service/news/ingest.go

package news

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	newsDomain "geonews/internal/domain/news"
	"geonews/internal/logger"
)

// CategoryMerger records newly seen categories, typically in the category
// cache backing the analysis prompt.
type CategoryMerger interface {
	Merge(ctx context.Context, categories []string)
}

// Loader seeds the article store from a JSON data file.
type Loader struct {
	articles   newsDomain.ArticleStore
	categories CategoryMerger
	batchSize  int
}

// NewLoader creates an article loader
func NewLoader(articles newsDomain.ArticleStore, categories CategoryMerger, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Loader{articles: articles, categories: categories, batchSize: batchSize}
}

// rawArticle matches the data file's snake_case shape. The category field
// is either an array of names or a single comma-separated string.
type rawArticle struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	URL             string          `json:"url"`
	SourceName      string          `json:"source_name"`
	RelevanceScore  float64         `json:"relevance_score"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	PublicationDate string          `json:"publication_date"`
	Category        json.RawMessage `json:"category"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// LoadFromFile parses the data file and saves its articles in batches.
// Malformed entries are skipped with a warning. Returns how many articles
// were saved.
func (l *Loader) LoadFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("error reading data file: %w", err)
	}

	var raw []rawArticle
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("error parsing data file: %w", err)
	}

	var articles []newsDomain.Article
	categorySet := make(map[string]struct{})

	for _, r := range raw {
		article, err := toArticle(r)
		if err != nil {
			logger.L().Warn("skipping_malformed_article", "err", err)
			continue
		}
		for _, cat := range article.Categories {
			categorySet[cat] = struct{}{}
		}
		articles = append(articles, article)
	}

	if l.categories != nil && len(categorySet) > 0 {
		allCategories := make([]string, 0, len(categorySet))
		for cat := range categorySet {
			allCategories = append(allCategories, cat)
		}
		l.categories.Merge(ctx, allCategories)
	}

	saved := 0
	for start := 0; start < len(articles); start += l.batchSize {
		end := start + l.batchSize
		if end > len(articles) {
			end = len(articles)
		}
		if err := l.articles.SaveAll(ctx, articles[start:end]); err != nil {
			return saved, fmt.Errorf("error saving article batch: %w", err)
		}
		saved += end - start
	}

	logger.L().Info("articles_ingested", "path", path, "count", saved)
	return saved, nil
}

func toArticle(r rawArticle) (newsDomain.Article, error) {
	if r.ID == "" {
		return newsDomain.Article{}, fmt.Errorf("article missing id")
	}
	if r.Title == "" {
		return newsDomain.Article{}, fmt.Errorf("article %s missing title", r.ID)
	}

	article := newsDomain.Article{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		URL:            r.URL,
		SourceName:     r.SourceName,
		RelevanceScore: r.RelevanceScore,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Categories:     parseCategories(r.Category),
	}

	if r.PublicationDate != "" {
		ts, err := parseDate(r.PublicationDate)
		if err != nil {
			logger.L().Warn("unparseable_publication_date", "article", r.ID, "value", r.PublicationDate)
		} else {
			article.PublicationDate = ts
		}
	}

	return article, nil
}

func parseCategories(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var names []string
	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		names = asList
	} else {
		var asText string
		if err := json.Unmarshal(raw, &asText); err != nil {
			return nil
		}
		names = strings.Split(asText, ",")
	}

	seen := make(map[string]struct{})
	var out []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}
