package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

// MemoryRepository is the in-process catalog store used in tests and
// single-node deployments.
type MemoryRepository struct {
	mu      sync.RWMutex
	players map[uuid.UUID]models.Player
	order   []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{players: make(map[uuid.UUID]models.Player)}
}

func (r *MemoryRepository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out, nil
}

func (r *MemoryRepository) ReplaceAll(ctx context.Context, players []models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = make(map[uuid.UUID]models.Player, len(players))
	r.order = make([]uuid.UUID, 0, len(players))
	for _, p := range players {
		r.players[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return nil
}

func (r *MemoryRepository) SetOverride(ctx context.Context, id uuid.UUID, override *models.PlayerOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return ErrPlayerNotFound
	}
	p.Override = override
	r.players[id] = p
	return nil
}
