// Package catalog manages the player pool a draft consumes. The pool is
// wholesale-replaceable between sessions; per-player overrides are an
// observer-side overlay and never feed back into draft decisions.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warroomlabs/warroom/internal/models"
)

// ErrPlayerNotFound is returned when the id is not in the catalog.
var ErrPlayerNotFound = errors.New("player not found in catalog")

// Repository defines what the catalog app needs from storage.
type Repository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	ReplaceAll(ctx context.Context, players []models.Player) error
	SetOverride(ctx context.Context, id uuid.UUID, override *models.PlayerOverride) error
}

// App handles catalog business logic.
type App struct {
	repo Repository
	log  zerolog.Logger
}

func NewApp(repo Repository, logger zerolog.Logger) *App {
	return &App{repo: repo, log: logger}
}

// GetPlayer retrieves a single player by id.
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// ListPlayers returns the full catalog.
func (a *App) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := a.repo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// ListAvailablePlayers returns catalog entries not yet drafted in the given
// session snapshot.
func (a *App) ListAvailablePlayers(ctx context.Context, drafted map[uuid.UUID]bool) ([]models.Player, error) {
	players, err := a.repo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	available := make([]models.Player, 0, len(players))
	for _, p := range players {
		if !drafted[p.ID] {
			available = append(available, p)
		}
	}
	return available, nil
}

// ReplaceCatalog swaps the entire player pool. The incoming set is validated
// as a whole so a bad feed never half-replaces the pool.
func (a *App) ReplaceCatalog(ctx context.Context, players []models.Player) error {
	if len(players) == 0 {
		return fmt.Errorf("replacement catalog is empty")
	}
	seen := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		if p.ID == uuid.Nil {
			return fmt.Errorf("player %q has no id", p.FullName)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate player id %s in replacement catalog", p.ID)
		}
		seen[p.ID] = true
		if !models.ValidPosition(p.Position) {
			return fmt.Errorf("player %s has invalid position %q", p.ID, p.Position)
		}
	}

	if err := a.repo.ReplaceAll(ctx, players); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	a.log.Info().Int("players", len(players)).Msg("replaced player catalog")
	return nil
}

// SetOverride attaches or clears an observer-side override on a player. The
// draft core never reads overrides.
func (a *App) SetOverride(ctx context.Context, id uuid.UUID, override *models.PlayerOverride) error {
	if _, err := a.repo.GetPlayer(ctx, id); err != nil {
		return fmt.Errorf("player not found: %w", err)
	}
	if err := a.repo.SetOverride(ctx, id, override); err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	return nil
}
