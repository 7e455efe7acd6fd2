package models

import (
	"time"

	"github.com/google/uuid"
)

// PickRecord represents a single committed pick.
type PickRecord struct {
	ID          uuid.UUID `json:"id"`
	Round       int       `json:"round"`
	OverallPick int       `json:"overall_pick"` // 1-based, draft-wide monotonic
	PlayerID    uuid.UUID `json:"player_id"`
	TeamID      uuid.UUID `json:"team_id"`
	Amount      int       `json:"amount"` // 0 outside the auction phase
	PickedAt    time.Time `json:"picked_at"`
}
