package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sqlc-dev/pqtype"
	"github.com/warroomlabs/warroom/internal/models"
)

// PostgresStore persists snapshots to a single draft_states row per session.
// Commit overwrites the whole row (last-writer-wins).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const upsertStateQuery = `
INSERT INTO draft_states (
	id, current_round, current_pick, phase, status,
	settings, teams, picks, drafted, turn_order, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	current_round = EXCLUDED.current_round,
	current_pick  = EXCLUDED.current_pick,
	phase         = EXCLUDED.phase,
	status        = EXCLUDED.status,
	settings      = EXCLUDED.settings,
	teams         = EXCLUDED.teams,
	picks         = EXCLUDED.picks,
	drafted       = EXCLUDED.drafted,
	turn_order    = EXCLUDED.turn_order,
	updated_at    = EXCLUDED.updated_at`

const getStateQuery = `
SELECT id, current_round, current_pick, phase, status,
	settings, teams, picks, drafted, turn_order
FROM draft_states WHERE id = $1`

const deleteStateQuery = `DELETE FROM draft_states WHERE id = $1`

func (p *PostgresStore) Commit(ctx context.Context, state models.DraftState) error {
	settings, err := json.Marshal(state.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	teams, err := json.Marshal(state.Teams)
	if err != nil {
		return fmt.Errorf("failed to marshal teams: %w", err)
	}
	picks, err := json.Marshal(state.Picks)
	if err != nil {
		return fmt.Errorf("failed to marshal picks: %w", err)
	}
	drafted, err := json.Marshal(state.Drafted)
	if err != nil {
		return fmt.Errorf("failed to marshal drafted set: %w", err)
	}

	// turn_order is NULL outside the snake phase.
	var turnOrder pqtype.NullRawMessage
	if state.TurnOrder != nil {
		raw, err := json.Marshal(state.TurnOrder)
		if err != nil {
			return fmt.Errorf("failed to marshal turn order: %w", err)
		}
		turnOrder = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	_, err = p.pool.Exec(ctx, upsertStateQuery,
		state.ID, state.CurrentRound, state.CurrentPick, string(state.Phase), string(state.Status),
		settings, teams, picks, drafted, turnOrder, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to commit draft state: %w", err)
	}
	return nil
}

func (p *PostgresStore) GetSnapshot(ctx context.Context, draftID uuid.UUID) (models.DraftState, error) {
	var (
		state     models.DraftState
		phase     string
		status    string
		settings  []byte
		teams     []byte
		picks     []byte
		drafted   []byte
		turnOrder pqtype.NullRawMessage
	)

	row := p.pool.QueryRow(ctx, getStateQuery, draftID)
	err := row.Scan(&state.ID, &state.CurrentRound, &state.CurrentPick, &phase, &status,
		&settings, &teams, &picks, &drafted, &turnOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DraftState{}, ErrNotFound
	}
	if err != nil {
		return models.DraftState{}, fmt.Errorf("failed to get draft state: %w", err)
	}

	state.Phase = models.DraftPhase(phase)
	state.Status = models.DraftStatus(status)
	if err := json.Unmarshal(settings, &state.Settings); err != nil {
		return models.DraftState{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := json.Unmarshal(teams, &state.Teams); err != nil {
		return models.DraftState{}, fmt.Errorf("failed to unmarshal teams: %w", err)
	}
	if err := json.Unmarshal(picks, &state.Picks); err != nil {
		return models.DraftState{}, fmt.Errorf("failed to unmarshal picks: %w", err)
	}
	if err := json.Unmarshal(drafted, &state.Drafted); err != nil {
		return models.DraftState{}, fmt.Errorf("failed to unmarshal drafted set: %w", err)
	}
	if turnOrder.Valid {
		if err := json.Unmarshal(turnOrder.RawMessage, &state.TurnOrder); err != nil {
			return models.DraftState{}, fmt.Errorf("failed to unmarshal turn order: %w", err)
		}
	}

	return state, nil
}

func (p *PostgresStore) Delete(ctx context.Context, draftID uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, deleteStateQuery, draftID); err != nil {
		return fmt.Errorf("failed to delete draft state: %w", err)
	}
	return nil
}
