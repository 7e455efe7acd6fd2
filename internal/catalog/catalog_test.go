package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warroomlabs/warroom/internal/models"
)

func seedPlayers(n int) []models.Player {
	positions := []models.Position{models.PositionQB, models.PositionRB, models.PositionWR}
	players := make([]models.Player, n)
	for i := range players {
		players[i] = models.Player{
			ID:              uuid.New(),
			Position:        positions[i%len(positions)],
			FullName:        fmt.Sprintf("Player %02d", i),
			ProTeam:         "FA",
			AuctionValue:    float64(40 - i),
			ProjectedPoints: float64(200 - i),
		}
	}
	return players
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	return NewApp(NewMemoryRepository(), zerolog.Nop())
}

func TestReplaceCatalogValidation(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	dup := uuid.New()

	tests := []struct {
		name    string
		players []models.Player
	}{
		{name: "empty", players: nil},
		{
			name: "missing id",
			players: []models.Player{
				{Position: models.PositionQB, FullName: "No ID"},
			},
		},
		{
			name: "duplicate ids",
			players: []models.Player{
				{ID: dup, Position: models.PositionQB, FullName: "A"},
				{ID: dup, Position: models.PositionRB, FullName: "B"},
			},
		},
		{
			name: "invalid position",
			players: []models.Player{
				{ID: uuid.New(), Position: "GOALIE", FullName: "Wrong Sport"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := app.ReplaceCatalog(ctx, tt.players); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestReplaceCatalogIsWholesale(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	first := seedPlayers(5)
	if err := app.ReplaceCatalog(ctx, first); err != nil {
		t.Fatalf("seed: %v", err)
	}

	second := seedPlayers(3)
	if err := app.ReplaceCatalog(ctx, second); err != nil {
		t.Fatalf("replace: %v", err)
	}

	listed, err := app.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("catalog size = %d, want 3", len(listed))
	}
	if _, err := app.GetPlayer(ctx, first[0].ID); err == nil {
		t.Fatal("player from replaced catalog still present")
	}
}

func TestListAvailablePlayersFiltersDrafted(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	players := seedPlayers(6)
	if err := app.ReplaceCatalog(ctx, players); err != nil {
		t.Fatalf("seed: %v", err)
	}

	drafted := map[uuid.UUID]bool{players[0].ID: true, players[3].ID: true}
	available, err := app.ListAvailablePlayers(ctx, drafted)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 4 {
		t.Fatalf("available = %d, want 4", len(available))
	}
	for _, p := range available {
		if drafted[p.ID] {
			t.Fatalf("drafted player %s listed as available", p.ID)
		}
	}
}

func TestSetOverrideIsObserverOnly(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	players := seedPlayers(2)
	if err := app.ReplaceCatalog(ctx, players); err != nil {
		t.Fatalf("seed: %v", err)
	}

	points := 99.5
	if err := app.SetOverride(ctx, players[0].ID, &models.PlayerOverride{ProjectedPoints: &points}); err != nil {
		t.Fatalf("set override: %v", err)
	}

	p, err := app.GetPlayer(ctx, players[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Override == nil || *p.Override.ProjectedPoints != 99.5 {
		t.Fatalf("override not applied: %+v", p.Override)
	}
	// The baseline metric is untouched; only the overlay changes.
	if p.ProjectedPoints != players[0].ProjectedPoints {
		t.Fatalf("baseline points changed from %v to %v", players[0].ProjectedPoints, p.ProjectedPoints)
	}

	if err := app.SetOverride(ctx, uuid.New(), nil); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "players.yaml")
	seed := `players:
  - id: 2b1e8f1e-93ab-4c52-9d4e-111111111111
    position: QB
    full_name: Test Quarterback
    pro_team: KC
    auction_value: 42
    projected_points: 310.5
  - position: RB
    full_name: Generated ID Back
    pro_team: SF
    auction_value: 55
    projected_points: 280
`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	players, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("players = %d, want 2", len(players))
	}
	if players[0].ID.String() != "2b1e8f1e-93ab-4c52-9d4e-111111111111" {
		t.Errorf("explicit id not honored: %s", players[0].ID)
	}
	if players[1].ID == uuid.Nil {
		t.Error("missing id was not generated")
	}
	if players[0].Position != models.PositionQB || players[0].ProjectedPoints != 310.5 {
		t.Errorf("fields not parsed: %+v", players[0])
	}

	if _, err := LoadSeedFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
