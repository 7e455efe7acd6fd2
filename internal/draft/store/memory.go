package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

// MemoryStore is an in-memory Store for development and tests. Snapshots are
// cloned on the way in and out so callers can never alias the stored state.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]models.DraftState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[uuid.UUID]models.DraftState),
	}
}

func (m *MemoryStore) GetSnapshot(ctx context.Context, draftID uuid.UUID) (models.DraftState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[draftID]
	if !ok {
		return models.DraftState{}, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Commit(ctx context.Context, state models.DraftState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state.ID] = state.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, draftID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, draftID)
	return nil
}
