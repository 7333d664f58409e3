// internal/adapter/storage/event_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"geonews/internal/domain/news"
)

// EventStore implements append-only storage for user interaction events
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore creates a new event store
func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{
		db: db,
	}
}

// FindSince returns events created after the given instant
func (s *EventStore) FindSince(ctx context.Context, since time.Time) ([]news.Event, error) {
	query := `
		SELECT id, article_id, event_type, latitude, longitude, created_at
		FROM user_article_events
		WHERE created_at > $1
	`

	rows, err := s.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	var events []news.Event
	for rows.Next() {
		var e news.Event
		if err := rows.Scan(&e.ID, &e.ArticleID, &e.Type, &e.Latitude, &e.Longitude, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// SaveAll appends the given events in one batch
func (s *EventStore) SaveAll(ctx context.Context, events []news.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO user_article_events (article_id, event_type, latitude, longitude, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.ArticleID, e.Type, e.Latitude, e.Longitude, e.CreatedAt,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error inserting event: %w", err)
		}
	}

	return nil
}
