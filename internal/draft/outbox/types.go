package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is one row of the transactional outbox: a domain event recorded
// alongside the state commit and relayed to the bus asynchronously.
type OutboxEvent struct {
	ID          uuid.UUID       `json:"id"`
	DraftID     uuid.UUID       `json:"draft_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

// EventPublisher delivers outbox events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}
