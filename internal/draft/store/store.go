// Package store holds the replicated state store implementations. The core
// commits a full snapshot after every transition; observers only ever read
// snapshots. Writes are last-writer-wins — the single-writer discipline is
// enforced upstream, not here.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

// ErrNotFound is returned when no snapshot exists for the draft id.
var ErrNotFound = errors.New("draft state not found")

// Store is the replicated state store consumed by the draft app.
type Store interface {
	GetSnapshot(ctx context.Context, draftID uuid.UUID) (models.DraftState, error)
	Commit(ctx context.Context, state models.DraftState) error
	Delete(ctx context.Context, draftID uuid.UUID) error
}
