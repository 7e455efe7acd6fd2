package models

import (
	"github.com/google/uuid"
)

// Team represents a draft participant and its current holdings.
type Team struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Owner         string      `json:"owner"`
	Budget        int         `json:"budget"` // remaining auction budget
	DraftPosition int         `json:"draft_position"`
	Players       []uuid.UUID `json:"players"` // acquired player ids, draft order
}
