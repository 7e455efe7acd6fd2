package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

func sampleState() models.DraftState {
	teamID := uuid.New()
	return models.DraftState{
		ID: uuid.New(),
		Settings: models.DraftSettings{
			BudgetPerTeam: 200,
			RosterSize:    16,
			AuctionRounds: 5,
			NumTeams:      1,
		},
		Teams: []models.Team{
			{ID: teamID, Name: "A", Budget: 200, DraftPosition: 1, Players: []uuid.UUID{}},
		},
		CurrentRound: 1,
		CurrentPick:  1,
		Phase:        models.PhaseAuction,
		Status:       models.DraftStatusNotStarted,
		Picks:        []models.PickRecord{},
		Drafted:      map[uuid.UUID]bool{},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	state := sampleState()

	if err := s.Commit(ctx, state); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err := s.GetSnapshot(ctx, state.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != state.ID || len(got.Teams) != 1 || got.Teams[0].Budget != 200 {
		t.Fatalf("snapshot mismatch: %+v", got)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetSnapshot(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	state := sampleState()

	if err := s.Commit(ctx, state); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// Mutating the committed value must not leak into the store.
	state.Teams[0].Budget = 0
	state.Drafted[uuid.New()] = true

	got, err := s.GetSnapshot(ctx, state.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Teams[0].Budget != 200 || len(got.Drafted) != 0 {
		t.Fatalf("stored state aliased caller's copy: %+v", got)
	}

	// And mutating a returned snapshot must not change later reads.
	got.Teams[0].Budget = 1
	again, _ := s.GetSnapshot(ctx, state.ID)
	if again.Teams[0].Budget != 200 {
		t.Fatal("returned snapshot aliased stored state")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	state := sampleState()

	if err := s.Commit(ctx, state); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := s.Delete(ctx, state.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSnapshot(ctx, state.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}
