package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
)

type TrackedTokenRepo struct {
	db *DB
}

func NewTrackedTokenRepo(db *DB) *TrackedTokenRepo {
	return &TrackedTokenRepo{db: db}
}

// Upsert inserts a tracked token or, on (chain, mint) conflict, updates only
// display metadata. Returns the row's id either way.
func (r *TrackedTokenRepo) Upsert(ctx context.Context, t *model.TrackedToken) (uuid.UUID, error) {
	id := t.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var out uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tracked_tokens (id, chain, mint_address, decimals, display_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chain, mint_address) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			updated_at = now()
		RETURNING id
	`, id, t.Chain, t.MintAddress, t.Decimals, t.DisplayName).Scan(&out)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert tracked token: %w", err)
	}
	return out, nil
}

func (r *TrackedTokenRepo) GetAll(ctx context.Context) ([]model.TrackedToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chain, mint_address, decimals, display_name, created_at, updated_at
		FROM tracked_tokens
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query tracked tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

func (r *TrackedTokenRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.TrackedToken, error) {
	if len(ids) == 0 {
		return []model.TrackedToken{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chain, mint_address, decimals, display_name, created_at, updated_at
		FROM tracked_tokens
		WHERE id = ANY($1)
		ORDER BY created_at
	`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("query tracked tokens by ids: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

func scanTokens(rows *sql.Rows) ([]model.TrackedToken, error) {
	var tokens []model.TrackedToken
	for rows.Next() {
		var t model.TrackedToken
		if err := rows.Scan(&t.ID, &t.Chain, &t.MintAddress, &t.Decimals, &t.DisplayName, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tracked token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
