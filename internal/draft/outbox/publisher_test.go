package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMockPublisherRecordsEvents(t *testing.T) {
	p := NewMockPublisher()
	ev := OutboxEvent{
		ID:        uuid.New(),
		DraftID:   uuid.New(),
		EventType: "PickCommitted",
		Payload:   json.RawMessage(`{"round":1}`),
		CreatedAt: time.Now(),
	}

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := p.Events()
	if len(got) != 1 || got[0].ID != ev.ID || got[0].EventType != "PickCommitted" {
		t.Fatalf("recorded events = %+v", got)
	}

	// The returned slice is a snapshot; appending to it must not affect the
	// publisher's history.
	_ = append(got, ev)
	if len(p.Events()) != 1 {
		t.Fatal("Events returned aliased internal slice")
	}
}
