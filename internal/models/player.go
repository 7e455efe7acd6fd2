package models

import (
	"github.com/google/uuid"
)

// Position is the closed set of draftable player positions.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// ValidPosition reports whether p is part of the closed position set.
func ValidPosition(p Position) bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST:
		return true
	}
	return false
}

// PlayerOverride holds observer-local metric overrides. The draft core never
// reads or writes these fields.
type PlayerOverride struct {
	AuctionValue    *float64 `json:"auction_value,omitempty"`
	ProjectedPoints *float64 `json:"projected_points,omitempty"`
}

// Player represents a draftable player. Immutable once loaded; the catalog
// may be wholesale-replaced but is never partially edited mid-draft.
type Player struct {
	ID              uuid.UUID       `json:"id"`
	Position        Position        `json:"position"`
	FullName        string          `json:"full_name"`
	ProTeam         string          `json:"pro_team"`
	AuctionValue    float64         `json:"auction_value"`
	ProjectedPoints float64         `json:"projected_points"`
	Override        *PlayerOverride `json:"override,omitempty"`
}
