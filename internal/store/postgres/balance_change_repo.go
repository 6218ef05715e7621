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

type BalanceChangeRepo struct {
	db        *DB
	chunkSize int
}

func NewBalanceChangeRepo(db *DB, chunkSize int) *BalanceChangeRepo {
	return &BalanceChangeRepo{db: db, chunkSize: chunkSizeOrDefault(chunkSize)}
}

// BulkInsertTx appends change rows in chunks. Duplicate (account, day) pairs
// from re-runs are silently dropped.
func (r *BalanceChangeRepo) BulkInsertTx(ctx context.Context, tx *sql.Tx, rows []*model.BalanceChange) error {
	for start := 0; start < len(rows); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var sb strings.Builder
		args := make([]any, 0, len(chunk)*4)
		for i, c := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			base := i * 4
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d::numeric)", base+1, base+2, base+3, base+4)

			id := c.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			args = append(args, id, c.AccountID, model.TruncateToDay(c.Date), c.ApproximateMinimumBalance)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO balance_changes (id, account_id, date, approximate_minimum_balance)
			VALUES `+sb.String()+`
			ON CONFLICT (account_id, date) DO NOTHING
		`, args...); err != nil {
			return fmt.Errorf("bulk insert balance changes: %w", err)
		}

		metrics.SyncRowsWritten.WithLabelValues("balance_changes").Add(float64(len(chunk)))
	}
	return nil
}
