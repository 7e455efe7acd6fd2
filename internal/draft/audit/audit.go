// Package audit records a before/after diff for every draft transition.
// Sinks are best-effort: a failing sink is logged and never blocks a commit.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warroomlabs/warroom/internal/models"
)

// Change is a single field-level difference between two snapshots.
type Change struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Entry is one audit record: which command ran against which draft and what
// it changed.
type Entry struct {
	DraftID    uuid.UUID `json:"draft_id"`
	Command    string    `json:"command"`
	Actor      string    `json:"actor"`
	RecordedAt time.Time `json:"recorded_at"`
	Changes    []Change  `json:"changes"`
}

// Sink receives audit entries.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// Diff computes the field-level differences between two snapshots. Only
// fields the draft core mutates are compared; observer overlays never pass
// through here.
func Diff(before, after models.DraftState) []Change {
	var changes []Change

	add := func(field string, b, a interface{}) {
		bs, as := fmt.Sprint(b), fmt.Sprint(a)
		if bs != as {
			changes = append(changes, Change{Field: field, Before: bs, After: as})
		}
	}

	add("current_round", before.CurrentRound, after.CurrentRound)
	add("current_pick", before.CurrentPick, after.CurrentPick)
	add("phase", before.Phase, after.Phase)
	add("status", before.Status, after.Status)
	add("picks", len(before.Picks), len(after.Picks))
	add("turn_order", len(before.TurnOrder), len(after.TurnOrder))

	for i := range after.Teams {
		at := after.Teams[i]
		bt := before.TeamByID(at.ID)
		if bt == nil {
			add(fmt.Sprintf("team.%s", at.ID), "", at.Name)
			continue
		}
		add(fmt.Sprintf("team.%s.budget", at.ID), bt.Budget, at.Budget)
		add(fmt.Sprintf("team.%s.players", at.ID), len(bt.Players), len(at.Players))
	}

	return changes
}

// LogSink writes audit entries as structured log events.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, entry Entry) error {
	ev := s.logger.Info().
		Str("draft_id", entry.DraftID.String()).
		Str("command", entry.Command).
		Str("actor", entry.Actor).
		Int("change_count", len(entry.Changes))
	for _, c := range entry.Changes {
		ev = ev.Str("change."+c.Field, c.Before+" -> "+c.After)
	}
	ev.Msg("draft transition")
	return nil
}

// EventInserter is the slice of the outbox repository the audit trail needs.
type EventInserter interface {
	InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error
}

// OutboxSink relays audit entries through the outbox so they reach the same
// bus as domain events.
type OutboxSink struct {
	events EventInserter
}

func NewOutboxSink(events EventInserter) *OutboxSink {
	return &OutboxSink{events: events}
}

func (s *OutboxSink) Record(ctx context.Context, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	return s.events.InsertEvent(ctx, entry.DraftID, "AuditRecorded", raw)
}

// MultiSink fans an entry out to several sinks; the first error is returned
// after all sinks have been tried.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Record(ctx context.Context, entry Entry) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Record(ctx, entry); err != nil && first == nil {
			first = err
		}
	}
	return first
}
