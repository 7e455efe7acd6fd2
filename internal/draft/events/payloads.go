package events

import (
	"time"
)

// Event payload types shared between the draft app, outbox, and gateway.

// Event type names as they appear on the wire.
const (
	TypePickCommitted   = "PickCommitted"
	TypePickUndone      = "PickUndone"
	TypePickStarted     = "PickStarted"
	TypePhaseChanged    = "PhaseChanged"
	TypeDraftPaused     = "DraftPaused"
	TypeDraftResumed    = "DraftResumed"
	TypeDraftReset      = "DraftReset"
	TypeDraftCompleted  = "DraftCompleted"
	TypeSettingsUpdated = "SettingsUpdated"
)

// PickCommittedPayload is the payload for a PickCommitted event
type PickCommittedPayload struct {
	PickID      string    `json:"pick_id"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Round       int       `json:"round"`
	OverallPick int       `json:"overall_pick"`
	Amount      int       `json:"amount"`
	MadeAt      time.Time `json:"made_at"`
}

// PickUndonePayload is the payload for a PickUndone event
type PickUndonePayload struct {
	PickID      string    `json:"pick_id"`
	TeamID      string    `json:"team_id"`
	PlayerID    string    `json:"player_id"`
	Round       int       `json:"round"`
	OverallPick int       `json:"overall_pick"`
	Refunded    int       `json:"refunded"`
	UndoneAt    time.Time `json:"undone_at"`
}

// PickStartedPayload is the payload for a PickStarted event
type PickStartedPayload struct {
	TeamID         string    `json:"team_id"`
	Round          int       `json:"round"`
	OverallPick    int       `json:"overall_pick"`
	StartedAt      time.Time `json:"started_at"`
	TimeoutAt      time.Time `json:"timeout_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PhaseChangedPayload is the payload for a PhaseChanged event
type PhaseChangedPayload struct {
	DraftID   string    `json:"draft_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Round     int       `json:"round"`
	TurnOrder []string  `json:"turn_order,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// DraftPausedPayload is the payload for a DraftPaused event
type DraftPausedPayload struct {
	DraftID  string    `json:"draft_id"`
	PausedAt time.Time `json:"paused_at"`
	Reason   string    `json:"reason"`
}

// DraftResumedPayload is the payload for a DraftResumed event
type DraftResumedPayload struct {
	DraftID   string    `json:"draft_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// DraftResetPayload is the payload for a DraftReset event
type DraftResetPayload struct {
	DraftID string    `json:"draft_id"`
	ResetAt time.Time `json:"reset_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// SettingsUpdatedPayload is the payload for a SettingsUpdated event
type SettingsUpdatedPayload struct {
	DraftID   string    `json:"draft_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
