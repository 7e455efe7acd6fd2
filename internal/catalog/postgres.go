package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sqlc-dev/pqtype"
	"github.com/warroomlabs/warroom/internal/models"
)

// PostgresRepository persists the catalog in a players table. ReplaceAll runs
// delete-then-insert inside one transaction so readers never see a partial
// pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const getPlayerQuery = `
SELECT id, position, full_name, pro_team, auction_value, projected_points, override
FROM players WHERE id = $1`

const listPlayersQuery = `
SELECT id, position, full_name, pro_team, auction_value, projected_points, override
FROM players ORDER BY projected_points DESC, id`

const insertPlayerQuery = `
INSERT INTO players (id, position, full_name, pro_team, auction_value, projected_points, override)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const setOverrideQuery = `
UPDATE players SET override = $2 WHERE id = $1`

func (r *PostgresRepository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.pool.QueryRow(ctx, getPlayerQuery, id)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := r.pool.Query(ctx, listPlayersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *PostgresRepository) ReplaceAll(ctx context.Context, players []models.Player) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}
	for _, p := range players {
		override, err := marshalOverride(p.Override)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, insertPlayerQuery,
			p.ID, string(p.Position), p.FullName, p.ProTeam,
			p.AuctionValue, p.ProjectedPoints, override)
		if err != nil {
			return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) SetOverride(ctx context.Context, id uuid.UUID, override *models.PlayerOverride) error {
	raw, err := marshalOverride(override)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, setOverrideQuery, id, raw)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func marshalOverride(o *models.PlayerOverride) (pqtype.NullRawMessage, error) {
	if o == nil {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal override: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var (
		p        models.Player
		position string
		override pqtype.NullRawMessage
	)
	err := row.Scan(&p.ID, &position, &p.FullName, &p.ProTeam,
		&p.AuctionValue, &p.ProjectedPoints, &override)
	if err != nil {
		return nil, err
	}
	p.Position = models.Position(position)
	if override.Valid {
		var o models.PlayerOverride
		if err := json.Unmarshal(override.RawMessage, &o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal override: %w", err)
		}
		p.Override = &o
	}
	return &p, nil
}
