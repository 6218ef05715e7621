package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
)

type AccountTransactionRepo struct {
	db        *DB
	chunkSize int
}

func NewAccountTransactionRepo(db *DB, chunkSize int) *AccountTransactionRepo {
	return &AccountTransactionRepo{db: db, chunkSize: chunkSizeOrDefault(chunkSize)}
}

// BulkInsertTx appends transaction rows in chunks. Duplicate
// (account, hash, direction) triples from re-runs are silently dropped.
func (r *AccountTransactionRepo) BulkInsertTx(ctx context.Context, tx *sql.Tx, rows []*model.AccountTransaction) error {
	for start := 0; start < len(rows); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var sb strings.Builder
		args := make([]any, 0, len(chunk)*5)
		for i, t := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			base := i * 5
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)

			id := t.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			args = append(args, id, t.AccountID, t.Hash, t.Direction, model.TruncateToDay(t.Date))
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO account_transactions (id, account_id, hash, direction, date)
			VALUES `+sb.String()+`
			ON CONFLICT (account_id, hash, direction) DO NOTHING
		`, args...); err != nil {
			return fmt.Errorf("bulk insert account transactions: %w", err)
		}

		metrics.SyncRowsWritten.WithLabelValues("account_transactions").Add(float64(len(chunk)))
	}
	return nil
}

// MaxDateForToken returns the latest transaction day across the token's
// accounts, or nil when the token has no transactions. Discovery-mode syncs
// resume from the day after this watermark.
func (r *AccountTransactionRepo) MaxDateForToken(ctx context.Context, tokenID uuid.UUID) (*time.Time, error) {
	var max sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT max(t.date)
		FROM account_transactions t
		JOIN tracked_token_accounts a ON a.id = t.account_id
		WHERE a.token_id = $1
	`, tokenID).Scan(&max)
	if err != nil {
		return nil, fmt.Errorf("query max transaction date: %w", err)
	}
	if !max.Valid {
		return nil, nil
	}
	t := max.Time
	return &t, nil
}
