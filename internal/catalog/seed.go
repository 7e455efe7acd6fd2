package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
	"gopkg.in/yaml.v3"
)

// seedPlayer is the YAML shape of one catalog entry. IDs are optional in the
// seed file; missing ones are generated on load.
type seedPlayer struct {
	ID              string  `yaml:"id"`
	Position        string  `yaml:"position"`
	FullName        string  `yaml:"full_name"`
	ProTeam         string  `yaml:"pro_team"`
	AuctionValue    float64 `yaml:"auction_value"`
	ProjectedPoints float64 `yaml:"projected_points"`
}

type seedFile struct {
	Players []seedPlayer `yaml:"players"`
}

// LoadSeedFile parses a YAML catalog seed into players ready for
// ReplaceCatalog.
func LoadSeedFile(path string) ([]models.Player, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	players := make([]models.Player, 0, len(f.Players))
	for i, sp := range f.Players {
		id := uuid.New()
		if sp.ID != "" {
			id, err = uuid.Parse(sp.ID)
			if err != nil {
				return nil, fmt.Errorf("seed entry %d has invalid id %q: %w", i, sp.ID, err)
			}
		}
		players = append(players, models.Player{
			ID:              id,
			Position:        models.Position(sp.Position),
			FullName:        sp.FullName,
			ProTeam:         sp.ProTeam,
			AuctionValue:    sp.AuctionValue,
			ProjectedPoints: sp.ProjectedPoints,
		})
	}
	return players, nil
}

// SeedFromFile loads a YAML seed and replaces the catalog with it.
func (a *App) SeedFromFile(ctx context.Context, path string) error {
	players, err := LoadSeedFile(path)
	if err != nil {
		return err
	}
	return a.ReplaceCatalog(ctx, players)
}
