package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DraftEvent is the envelope every WebSocket frame carries. Data holds the
// payload from the events package, already serialized by the app layer.
type DraftEvent struct {
	ID        string          `json:"id"`
	DraftID   string          `json:"draft_id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewDraftEvent wraps a serialized payload in a fresh envelope.
func NewDraftEvent(draftID uuid.UUID, eventType string, payload []byte) *DraftEvent {
	return &DraftEvent{
		ID:        uuid.New().String(),
		DraftID:   draftID.String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      payload,
	}
}
