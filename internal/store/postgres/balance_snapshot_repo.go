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

type BalanceSnapshotRepo struct {
	db        *DB
	chunkSize int
}

func NewBalanceSnapshotRepo(db *DB, chunkSize int) *BalanceSnapshotRepo {
	return &BalanceSnapshotRepo{db: db, chunkSize: chunkSizeOrDefault(chunkSize)}
}

// BulkUpsertTx writes snapshots in chunks. On (account, day) conflict the
// balance is overwritten: last writer wins, re-running a sync is idempotent.
func (r *BalanceSnapshotRepo) BulkUpsertTx(ctx context.Context, tx *sql.Tx, rows []*model.BalanceSnapshot) error {
	for start := 0; start < len(rows); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var sb strings.Builder
		args := make([]any, 0, len(chunk)*4)
		for i, s := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			base := i * 4
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d::numeric)", base+1, base+2, base+3, base+4)

			id := s.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			args = append(args, id, s.AccountID, model.TruncateToDay(s.Date), s.ApproximateMinimumBalance)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO balance_snapshots (id, account_id, date, approximate_minimum_balance)
			VALUES `+sb.String()+`
			ON CONFLICT (account_id, date) DO UPDATE SET
				approximate_minimum_balance = EXCLUDED.approximate_minimum_balance,
				updated_at = now()
		`, args...); err != nil {
			return fmt.Errorf("bulk upsert balance snapshots: %w", err)
		}

		metrics.SyncRowsWritten.WithLabelValues("balance_snapshots").Add(float64(len(chunk)))
	}
	return nil
}

func (r *BalanceSnapshotRepo) GetForDay(ctx context.Context, tokenID uuid.UUID, day time.Time) ([]model.BalanceSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.account_id, s.date, s.approximate_minimum_balance::text, s.created_at, s.updated_at
		FROM balance_snapshots s
		JOIN tracked_token_accounts a ON a.id = s.account_id
		WHERE a.token_id = $1 AND s.date = $2
	`, tokenID, model.TruncateToDay(day))
	if err != nil {
		return nil, fmt.Errorf("query balance snapshots for day: %w", err)
	}
	defer rows.Close()

	var snapshots []model.BalanceSnapshot
	for rows.Next() {
		var s model.BalanceSnapshot
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Date, &s.ApproximateMinimumBalance, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// GetLatestBefore returns the account's most recent snapshot strictly before
// day, or nil when none exists.
func (r *BalanceSnapshotRepo) GetLatestBefore(ctx context.Context, accountID uuid.UUID, day time.Time) (*model.BalanceSnapshot, error) {
	var s model.BalanceSnapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, date, approximate_minimum_balance::text, created_at, updated_at
		FROM balance_snapshots
		WHERE account_id = $1 AND date < $2
		ORDER BY date DESC
		LIMIT 1
	`, accountID, model.TruncateToDay(day)).Scan(&s.ID, &s.AccountID, &s.Date, &s.ApproximateMinimumBalance, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot before %s: %w", model.FormatDay(day), err)
	}
	return &s, nil
}

// MaxDateForToken returns the latest snapshot day across the token's
// accounts, or nil when the token has no snapshots. This is the sync
// watermark for balance-series mode.
func (r *BalanceSnapshotRepo) MaxDateForToken(ctx context.Context, tokenID uuid.UUID) (*time.Time, error) {
	var max sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT max(s.date)
		FROM balance_snapshots s
		JOIN tracked_token_accounts a ON a.id = s.account_id
		WHERE a.token_id = $1
	`, tokenID).Scan(&max)
	if err != nil {
		return nil, fmt.Errorf("query max snapshot date: %w", err)
	}
	if !max.Valid {
		return nil, nil
	}
	t := max.Time
	return &t, nil
}
