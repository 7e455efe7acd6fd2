// Package order computes the deterministic snake-phase turn order.
package order

import (
	"hash/fnv"
	"sort"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

// Compute returns a permutation of team ids sorted by remaining budget,
// highest first. Equal budgets are broken by a deterministic hash of the
// team's id and the lengths of its display and owner names, never by real
// randomness: the same inputs must always produce the same order so that
// undo and every observer agree.
func Compute(teams []models.Team) []uuid.UUID {
	type entry struct {
		id     uuid.UUID
		budget int
		tie    uint32
	}

	entries := make([]entry, len(teams))
	for i, t := range teams {
		entries[i] = entry{id: t.ID, budget: t.Budget, tie: tiebreak(t)}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].budget != entries[j].budget {
			return entries[i].budget > entries[j].budget
		}
		if entries[i].tie != entries[j].tie {
			return entries[i].tie < entries[j].tie
		}
		return entries[i].id.String() < entries[j].id.String()
	})

	out := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// tiebreak hashes (id, name length, owner length) with FNV-1a.
func tiebreak(t models.Team) uint32 {
	h := fnv.New32a()
	h.Write(t.ID[:])
	h.Write([]byte{byte(len(t.Name)), byte(len(t.Owner))})
	return h.Sum32()
}

// Active returns the team on the clock for the given snake round and
// pick index within the round. snakeRound is 1-based (the first round after
// the auction phase is round 1); idx is 0-based. Odd rounds walk the order
// forward, even rounds walk it backward. The index is normalized with a
// double modulo so out-of-range inputs stay in bounds.
func Active(turnOrder []uuid.UUID, snakeRound, idx int) (uuid.UUID, bool) {
	n := len(turnOrder)
	if n == 0 {
		return uuid.Nil, false
	}

	i := ((idx % n) + n) % n
	if snakeRound%2 == 0 {
		i = n - 1 - i
	}
	return turnOrder[i], true
}
