// internal/adapter/storage/article_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"geonews/internal/domain/news"
)

const articleColumns = `
	id, title, description, url, publication_date,
	source_name, categories, relevance_score, latitude, longitude
`

// ArticleStore implements durable storage for news articles
type ArticleStore struct {
	db *pgxpool.Pool
}

// NewArticleStore creates a new article store
func NewArticleStore(db *pgxpool.Pool) *ArticleStore {
	return &ArticleStore{
		db: db,
	}
}

// FindByIDs returns the articles matching the given ids. Missing ids are
// simply absent from the result.
func (s *ArticleStore) FindByIDs(ctx context.Context, ids []string) ([]news.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + articleColumns + ` FROM news_articles WHERE id = ANY($1)`
	return s.queryArticles(ctx, query, ids)
}

// FindAll returns every stored article
func (s *ArticleStore) FindAll(ctx context.Context) ([]news.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news_articles`
	return s.queryArticles(ctx, query)
}

// FindByCategory returns articles tagged with a category (substring match)
func (s *ArticleStore) FindByCategory(ctx context.Context, category string, limit int) ([]news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE EXISTS (
			SELECT 1 FROM unnest(categories) AS c
			WHERE LOWER(c) LIKE LOWER('%' || $1 || '%')
		)
		LIMIT $2
	`
	return s.queryArticles(ctx, query, category, limit)
}

// FindBySource returns articles from a source (substring match)
func (s *ArticleStore) FindBySource(ctx context.Context, source string, limit int) ([]news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE LOWER(source_name) LIKE LOWER('%' || $1 || '%')
		LIMIT $2
	`
	return s.queryArticles(ctx, query, source, limit)
}

// FindByScoreAbove returns articles with relevance score >= threshold
func (s *ArticleStore) FindByScoreAbove(ctx context.Context, threshold float64, limit int) ([]news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE relevance_score >= $1
		LIMIT $2
	`
	return s.queryArticles(ctx, query, threshold, limit)
}

// SearchByTerm returns articles whose title or description contains term
func (s *ArticleStore) SearchByTerm(ctx context.Context, term string, limit int) ([]news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE LOWER(title) LIKE LOWER('%' || $1 || '%')
		   OR LOWER(description) LIKE LOWER('%' || $1 || '%')
		LIMIT $2
	`
	return s.queryArticles(ctx, query, term, limit)
}

// FullTextSearchIDs returns ranked article ids for a free-text query using
// Postgres full-text search, OR-ing the query terms
func (s *ArticleStore) FullTextSearchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	sql := `
		SELECT id FROM news_articles
		WHERE to_tsvector('english', COALESCE(title,'') || ' ' || COALESCE(description,''))
			@@ to_tsquery('english', regexp_replace(trim($1), '\s+', ' | ', 'g'))
		ORDER BY ts_rank(
			to_tsvector('english', COALESCE(title,'') || ' ' || COALESCE(description,'')),
			to_tsquery('english', regexp_replace(trim($1), '\s+', ' | ', 'g'))
		) DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing full-text search: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning article id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article ids: %w", err)
	}

	return ids, nil
}

// FindWithinBoundingBox returns articles inside a lat/lon rectangle
func (s *ArticleStore) FindWithinBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64, limit int) ([]news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		LIMIT $5
	`
	return s.queryArticles(ctx, query, minLat, maxLat, minLon, maxLon, limit)
}

// SaveAll inserts or replaces the given articles in one batch
func (s *ArticleStore) SaveAll(ctx context.Context, articles []news.Article) error {
	if len(articles) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range articles {
		batch.Queue(
			`INSERT INTO news_articles (`+articleColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO UPDATE SET
				title = $2, description = $3, url = $4, publication_date = $5,
				source_name = $6, categories = $7, relevance_score = $8,
				latitude = $9, longitude = $10`,
			a.ID, a.Title, a.Description, a.URL, a.PublicationDate,
			a.SourceName, a.Categories, a.RelevanceScore, a.Latitude, a.Longitude,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range articles {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error saving article: %w", err)
		}
	}

	return nil
}

// AllCategories returns the distinct category names across all articles
func (s *ArticleStore) AllCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT unnest(categories) FROM news_articles ORDER BY 1`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (s *ArticleStore) queryArticles(ctx context.Context, query string, args ...interface{}) ([]news.Article, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var articles []news.Article
	for rows.Next() {
		var a news.Article
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.URL,
			&a.PublicationDate,
			&a.SourceName,
			&a.Categories,
			&a.RelevanceScore,
			&a.Latitude,
			&a.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}
