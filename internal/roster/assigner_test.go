package roster

import (
	"testing"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

func playersAt(positions ...models.Position) []models.Player {
	players := make([]models.Player, len(positions))
	for i, pos := range positions {
		players[i] = models.Player{ID: uuid.New(), Position: pos, FullName: "Player"}
	}
	return players
}

func slotFor(t *testing.T, slots []models.RosterSlot, playerID uuid.UUID) models.RosterSlot {
	t.Helper()
	for _, s := range slots {
		if s.PlayerID != nil && *s.PlayerID == playerID {
			return s
		}
	}
	t.Fatalf("player %s not bound to any slot", playerID)
	return models.RosterSlot{}
}

func TestTemplateShape(t *testing.T) {
	slots := Template(16)

	if len(slots) != 16 {
		t.Fatalf("template has %d slots, want 16", len(slots))
	}

	counts := map[string]int{}
	for i, s := range slots {
		if s.ID != i {
			t.Errorf("slot %d has id %d", i, s.ID)
		}
		if s.PlayerID != nil {
			t.Errorf("fresh template slot %d already bound", i)
		}
		counts[s.Label]++
	}

	want := map[string]int{"QB": 1, "RB": 2, "WR": 3, "TE": 1, "K": 1, "DST": 1, "FLEX": 1, "BN": 6}
	for label, n := range want {
		if counts[label] != n {
			t.Errorf("%s slots = %d, want %d", label, counts[label], n)
		}
	}
}

func TestTemplateSmallRosterHasNoBench(t *testing.T) {
	slots := Template(5)
	// Roster size is a floor for bench padding only: the required template
	// always materializes in full.
	if len(slots) != 10 {
		t.Fatalf("template has %d slots, want 10", len(slots))
	}
	for _, s := range slots {
		if s.Label == "BN" {
			t.Fatal("undersized roster should not produce bench slots")
		}
	}
}

func TestAssignPrefersPositionSlotThenFlex(t *testing.T) {
	players := playersAt(
		models.PositionQB,
		models.PositionWR, models.PositionWR, models.PositionWR,
		models.PositionWR,
	)
	slots := Assign(players, 16)

	if got := slotFor(t, slots, players[0].ID).Label; got != "QB" {
		t.Errorf("QB bound to %s slot", got)
	}
	for _, wr := range players[1:4] {
		if got := slotFor(t, slots, wr.ID).Label; got != "WR" {
			t.Errorf("WR bound to %s slot, want WR", got)
		}
	}
	if got := slotFor(t, slots, players[4].ID).Label; got != "FLEX" {
		t.Errorf("fourth WR bound to %s slot, want FLEX", got)
	}

	// Everything else stays open.
	bound := 0
	for _, s := range slots {
		if s.PlayerID != nil {
			bound++
		}
	}
	if bound != len(players) {
		t.Errorf("%d slots bound, want %d", bound, len(players))
	}
}

func TestAssignOverflowsToBenchThenGrows(t *testing.T) {
	// 2 RB slots + flex + 6 bench are full after 9 running backs; the tenth
	// forces a new bench slot past the configured roster size.
	players := playersAt(
		models.PositionRB, models.PositionRB, models.PositionRB,
		models.PositionRB, models.PositionRB, models.PositionRB,
		models.PositionRB, models.PositionRB, models.PositionRB,
		models.PositionRB,
	)
	slots := Assign(players, 16)

	if len(slots) != 17 {
		t.Fatalf("slot arena has %d entries, want 17", len(slots))
	}
	last := slots[len(slots)-1]
	if last.Label != "BN" || last.PlayerID == nil || *last.PlayerID != players[9].ID {
		t.Errorf("tenth RB not bound to an appended bench slot: %+v", last)
	}

	for _, p := range players {
		slotFor(t, slots, p.ID)
	}
}

func TestAssignSkipsUnknownPositions(t *testing.T) {
	players := playersAt(models.PositionQB, models.Position("COACH"), models.PositionK)
	slots := Assign(players, 16)

	bound := 0
	for _, s := range slots {
		if s.PlayerID != nil {
			bound++
			if *s.PlayerID == players[1].ID {
				t.Error("unknown-position player was bound")
			}
		}
	}
	if bound != 2 {
		t.Errorf("%d players bound, want 2", bound)
	}
}

func TestAssignIsPureAndRepeatable(t *testing.T) {
	players := playersAt(models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE)

	a := Assign(players, 16)
	b := Assign(players, 16)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		sameBinding := (a[i].PlayerID == nil) == (b[i].PlayerID == nil)
		if sameBinding && a[i].PlayerID != nil {
			sameBinding = *a[i].PlayerID == *b[i].PlayerID
		}
		if a[i].Label != b[i].Label || !sameBinding {
			t.Fatalf("slot %d differs between runs", i)
		}
	}
}
