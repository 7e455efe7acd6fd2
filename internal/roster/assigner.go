// Package roster projects a team's acquisitions onto positional roster slots.
//
// The projection is a pure function of the acquisition list and the roster
// size. It is recomputed on demand by observers and never stored; the slot
// arena is append-only within a single evaluation, so slot ids are stable.
package roster

import (
	"github.com/warroomlabs/warroom/internal/models"
)

const (
	labelFlex  = "FLEX"
	labelBench = "BN"
)

// requiredSlots is the fixed starting template, in display order.
var requiredSlots = []struct {
	label string
	pos   models.Position
	count int
}{
	{"QB", models.PositionQB, 1},
	{"RB", models.PositionRB, 2},
	{"WR", models.PositionWR, 3},
	{"TE", models.PositionTE, 1},
	{"K", models.PositionK, 1},
	{"DST", models.PositionDST, 1},
}

// flexEligible is the eligible set of the single flexible slot.
var flexEligible = []models.Position{models.PositionRB, models.PositionWR, models.PositionTE}

// Template builds the empty slot list for the given roster size: the
// position-specific slots, one flex slot, then bench slots padding out to
// rosterSize. Roster size is a floor, not a ceiling; Assign may append
// further bench slots past it.
func Template(rosterSize int) []models.RosterSlot {
	var slots []models.RosterSlot
	id := 0

	for _, req := range requiredSlots {
		for i := 0; i < req.count; i++ {
			slots = append(slots, models.RosterSlot{
				ID:       id,
				Label:    req.label,
				Eligible: []models.Position{req.pos},
			})
			id++
		}
	}

	slots = append(slots, models.RosterSlot{
		ID:       id,
		Label:    labelFlex,
		Eligible: append([]models.Position(nil), flexEligible...),
	})
	id++

	for len(slots) < rosterSize {
		slots = append(slots, benchSlot(id))
		id++
	}

	return slots
}

// Assign binds each acquired player, in acquisition order, to the first open
// slot that accepts its position, preferring a position-specific slot, then
// the flex slot, then a bench slot. Players whose position is outside the
// closed set are skipped. When no slot accepts a player a new bench slot is
// appended and the player bound there.
func Assign(acquired []models.Player, rosterSize int) []models.RosterSlot {
	slots := Template(rosterSize)

	for i := range acquired {
		p := acquired[i]
		if !models.ValidPosition(p.Position) {
			continue
		}

		idx := findSlot(slots, p.Position)
		if idx < 0 {
			slots = append(slots, benchSlot(len(slots)))
			idx = len(slots) - 1
		}
		id := p.ID
		slots[idx].PlayerID = &id
	}

	return slots
}

// findSlot returns the index of the preferred open slot for pos, or -1.
// Position-specific slots win over the flex slot, which wins over bench.
func findSlot(slots []models.RosterSlot, pos models.Position) int {
	flex, bench := -1, -1

	for i := range slots {
		if slots[i].PlayerID != nil || !slots[i].Accepts(pos) {
			continue
		}
		switch slots[i].Label {
		case labelFlex:
			if flex < 0 {
				flex = i
			}
		case labelBench:
			if bench < 0 {
				bench = i
			}
		default:
			return i
		}
	}

	if flex >= 0 {
		return flex
	}
	return bench
}

func benchSlot(id int) models.RosterSlot {
	return models.RosterSlot{
		ID:    id,
		Label: labelBench,
	}
}
