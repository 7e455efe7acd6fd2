package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

func TestDiffReportsChangedFields(t *testing.T) {
	teamID := uuid.New()
	before := models.DraftState{
		CurrentRound: 1,
		CurrentPick:  3,
		Phase:        models.PhaseAuction,
		Status:       models.DraftStatusInProgress,
		Teams: []models.Team{
			{ID: teamID, Name: "A", Budget: 100, Players: []uuid.UUID{}},
		},
	}
	after := before
	after.CurrentPick = 4
	after.Teams = []models.Team{
		{ID: teamID, Name: "A", Budget: 85, Players: []uuid.UUID{uuid.New()}},
	}

	changes := Diff(before, after)
	byField := map[string]Change{}
	for _, c := range changes {
		byField[c.Field] = c
	}

	if c, ok := byField["current_pick"]; !ok || c.Before != "3" || c.After != "4" {
		t.Errorf("current_pick change = %+v", c)
	}
	if c, ok := byField["team."+teamID.String()+".budget"]; !ok || c.Before != "100" || c.After != "85" {
		t.Errorf("budget change = %+v", c)
	}
	if _, ok := byField["phase"]; ok {
		t.Error("unchanged phase reported")
	}
}

func TestDiffIdenticalStatesIsEmpty(t *testing.T) {
	s := models.DraftState{
		CurrentRound: 2,
		CurrentPick:  14,
		Phase:        models.PhaseSnake,
		Status:       models.DraftStatusInProgress,
	}
	if changes := Diff(s, s); len(changes) != 0 {
		t.Fatalf("diff of identical states = %+v", changes)
	}
}

type recordingInserter struct {
	draftIDs []uuid.UUID
	types    []string
	payloads [][]byte
}

func (r *recordingInserter) InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	r.draftIDs = append(r.draftIDs, draftID)
	r.types = append(r.types, eventType)
	r.payloads = append(r.payloads, payload)
	return nil
}

func TestOutboxSinkRelaysEntries(t *testing.T) {
	inserter := &recordingInserter{}
	sink := NewOutboxSink(inserter)

	entry := Entry{
		DraftID: uuid.New(),
		Command: "commitPick",
		Actor:   "commissioner",
		Changes: []Change{{Field: "current_pick", Before: "1", After: "2"}},
	}
	if err := sink.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if len(inserter.types) != 1 || inserter.types[0] != "AuditRecorded" {
		t.Fatalf("event types = %v", inserter.types)
	}
	if inserter.draftIDs[0] != entry.DraftID {
		t.Errorf("draft id = %s, want %s", inserter.draftIDs[0], entry.DraftID)
	}

	var decoded Entry
	if err := json.Unmarshal(inserter.payloads[0], &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded.Command != "commitPick" || len(decoded.Changes) != 1 {
		t.Errorf("decoded entry = %+v", decoded)
	}
}
