package models

import (
	"github.com/google/uuid"
)

// RosterSlot is a labeled position in a team's roster template. Bindings are
// a derived view: they are recomputed from the acquisition list on demand and
// never persisted.
type RosterSlot struct {
	ID       int        `json:"id"`
	Label    string     `json:"label"`
	Eligible []Position `json:"eligible"` // empty means any position
	PlayerID *uuid.UUID `json:"player_id,omitempty"`
}

// Accepts reports whether the slot's eligible set contains pos.
func (s RosterSlot) Accepts(pos Position) bool {
	if len(s.Eligible) == 0 {
		return true
	}
	for _, p := range s.Eligible {
		if p == pos {
			return true
		}
	}
	return false
}
