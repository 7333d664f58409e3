// internal/adapter/storage/score_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"geonews/internal/domain/trend"
)

// ScoreStore implements durable storage for per-cell trending scores
type ScoreStore struct {
	db *pgxpool.Pool
}

// NewScoreStore creates a new score store
func NewScoreStore(db *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{
		db: db,
	}
}

// Upsert atomically inserts or overwrites the score keyed by
// (geoCell, articleID). The conditional write happens inside the database
// so concurrent schedulers cannot lose updates to a read-then-write race.
func (s *ScoreStore) Upsert(ctx context.Context, geoCell, articleID string, score float64) error {
	query := `
		INSERT INTO trending_scores (geo_cell, article_id, score, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (geo_cell, article_id)
		DO UPDATE SET score = $3, updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, geoCell, articleID, score); err != nil {
		return fmt.Errorf("error upserting trending score: %w", err)
	}

	return nil
}

// TopByCell returns up to limit scores for a cell, descending by score
func (s *ScoreStore) TopByCell(ctx context.Context, geoCell string, limit int) ([]trend.Score, error) {
	query := `
		SELECT geo_cell, article_id, score, updated_at
		FROM trending_scores
		WHERE geo_cell = $1
		ORDER BY score DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, geoCell, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying trending scores: %w", err)
	}
	defer rows.Close()

	var scores []trend.Score
	for rows.Next() {
		var sc trend.Score
		if err := rows.Scan(&sc.GeoCell, &sc.ArticleID, &sc.Value, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning trending score: %w", err)
		}
		scores = append(scores, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trending scores: %w", err)
	}

	return scores, nil
}
