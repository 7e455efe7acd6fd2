package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// envelope is the wire format published to the bus.
type envelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	DraftID   string          `json:"draft_id"`
	Timestamp string          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSPublisher publishes outbox events to NATS, one subject per event type.
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

func NewNATSPublisher(conn *nats.Conn, subjectPrefix string, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	subject := fmt.Sprintf("%s.draft.%s", p.subjectPrefix, event.EventType)

	data, err := json.Marshal(envelope{
		EventID:   event.ID.String(),
		EventType: event.EventType,
		DraftID:   event.DraftID.String(),
		Timestamp: event.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Payload:   event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug("published event",
		slog.String("subject", subject),
		slog.String("event_id", event.ID.String()))
	return nil
}

// NoopPublisher discards events. Useful when the worker should drain the
// outbox without a bus attached.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	return nil
}

// MockPublisher records published events in memory for development/testing.
type MockPublisher struct {
	mu     sync.Mutex
	events []OutboxEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (p *MockPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MockPublisher) Events() []OutboxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OutboxEvent(nil), p.events...)
}
