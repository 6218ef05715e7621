package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
)

type TokenAccountRepo struct {
	db        *DB
	chunkSize int
}

func NewTokenAccountRepo(db *DB, chunkSize int) *TokenAccountRepo {
	return &TokenAccountRepo{db: db, chunkSize: chunkSizeOrDefault(chunkSize)}
}

// BulkUpsertTx upserts accounts in chunks. On (token, address) conflict the
// owner is filled in if previously unknown and first_transaction_date is
// lowered to the earlier of the stored and incoming values, never raised.
// Returns the id for every input address.
func (r *TokenAccountRepo) BulkUpsertTx(ctx context.Context, tx *sql.Tx, accounts []*model.TrackedTokenAccount) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(accounts))

	for start := 0; start < len(accounts); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(accounts) {
			end = len(accounts)
		}
		chunk := accounts[start:end]

		var sb strings.Builder
		args := make([]any, 0, len(chunk)*5)
		for i, a := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			base := i * 5
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)

			id := a.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			args = append(args, id, a.TokenID, a.Address, a.OwnerAddress, a.FirstTransactionDate)
		}

		rows, err := tx.QueryContext(ctx, `
			INSERT INTO tracked_token_accounts (id, token_id, address, owner_address, first_transaction_date)
			VALUES `+sb.String()+`
			ON CONFLICT (token_id, address) DO UPDATE SET
				owner_address = COALESCE(tracked_token_accounts.owner_address, EXCLUDED.owner_address),
				first_transaction_date = LEAST(tracked_token_accounts.first_transaction_date, EXCLUDED.first_transaction_date),
				updated_at = now()
			RETURNING address, id
		`, args...)
		if err != nil {
			return nil, fmt.Errorf("bulk upsert accounts: %w", err)
		}

		for rows.Next() {
			var address string
			var id uuid.UUID
			if err := rows.Scan(&address, &id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan upserted account: %w", err)
			}
			ids[address] = id
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate upserted accounts: %w", err)
		}
		rows.Close()

		metrics.SyncRowsWritten.WithLabelValues("tracked_token_accounts").Add(float64(len(chunk)))
	}

	return ids, nil
}

func (r *TokenAccountRepo) GetByToken(ctx context.Context, tokenID uuid.UUID) ([]model.TrackedTokenAccount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, token_id, address, owner_address, first_transaction_date, created_at, updated_at
		FROM tracked_token_accounts
		WHERE token_id = $1
		ORDER BY address
	`, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query token accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.TrackedTokenAccount
	for rows.Next() {
		var a model.TrackedTokenAccount
		if err := rows.Scan(&a.ID, &a.TokenID, &a.Address, &a.OwnerAddress, &a.FirstTransactionDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan token account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
