package models

import (
	"github.com/google/uuid"
)

// DraftPhase defines the allocation regime currently in effect.
type DraftPhase string

const (
	PhaseAuction DraftPhase = "AUCTION"
	PhaseSnake   DraftPhase = "SNAKE"
)

// DraftStatus defines the lifecycle status of a draft.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusPaused     DraftStatus = "PAUSED"
	DraftStatusCompleted  DraftStatus = "COMPLETED"
)

// DraftSettings holds draft configuration. Immutable once any pick has been
// committed; enforced by the app layer.
type DraftSettings struct {
	BudgetPerTeam  int `json:"budget_per_team"`
	RosterSize     int `json:"roster_size"`
	AuctionRounds  int `json:"auction_rounds"`
	TimePerPickSec int `json:"time_per_pick_sec"`
	NumTeams       int `json:"num_teams"`
}

// TotalPicks returns the number of picks in a complete draft.
func (s DraftSettings) TotalPicks() int {
	return s.RosterSize * s.NumTeams
}

// DraftState is the canonical aggregate for one draft session. It is mutated
// only through the engine's commit/undo/reset transitions; everything else
// reads snapshots.
type DraftState struct {
	ID           uuid.UUID          `json:"id"`
	Settings     DraftSettings      `json:"settings"`
	Teams        []Team             `json:"teams"`
	CurrentRound int                `json:"current_round"`
	CurrentPick  int                `json:"current_pick"`
	Phase        DraftPhase         `json:"phase"`
	Status       DraftStatus        `json:"status"`
	TurnOrder    []uuid.UUID        `json:"turn_order,omitempty"` // valid only in the snake phase
	Picks        []PickRecord       `json:"picks"`
	Drafted      map[uuid.UUID]bool `json:"drafted"`
}

// TeamByID returns the team with the given id, or nil.
func (s *DraftState) TeamByID(id uuid.UUID) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the state. Transitions operate on clones so a
// rejected command never leaves partial mutation behind.
func (s DraftState) Clone() DraftState {
	out := s

	out.Teams = make([]Team, len(s.Teams))
	for i, t := range s.Teams {
		out.Teams[i] = t
		out.Teams[i].Players = make([]uuid.UUID, len(t.Players))
		copy(out.Teams[i].Players, t.Players)
	}

	out.Picks = make([]PickRecord, len(s.Picks))
	copy(out.Picks, s.Picks)

	if s.TurnOrder != nil {
		out.TurnOrder = append([]uuid.UUID(nil), s.TurnOrder...)
	}

	out.Drafted = make(map[uuid.UUID]bool, len(s.Drafted))
	for id, v := range s.Drafted {
		out.Drafted[id] = v
	}

	return out
}
