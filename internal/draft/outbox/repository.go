package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository stores and drains outbox rows. It runs on database/sql so the
// insert can share a transaction with the state commit when both live in
// Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const insertEventQuery = `
INSERT INTO draft_outbox (id, draft_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`

const fetchUnpublishedQuery = `
SELECT id, draft_id, event_type, payload, created_at
FROM draft_outbox
WHERE published_at IS NULL
ORDER BY created_at
LIMIT $1`

const markPublishedQuery = `
UPDATE draft_outbox SET published_at = $2 WHERE id = $1`

// InsertEvent records a domain event for later relay.
func (r *Repository) InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, insertEventQuery,
		uuid.New(), draftID, eventType, payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// FetchUnpublished returns the oldest unpublished events, up to limit.
func (r *Repository) FetchUnpublished(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, fetchUnpublishedQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.DraftID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// MarkPublished stamps an event as delivered.
func (r *Repository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, markPublishedQuery, id, time.Now()); err != nil {
		return fmt.Errorf("failed to mark outbox event published: %w", err)
	}
	return nil
}
