package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
)

// TxRunner executes fn inside a single database transaction. A mid-sequence
// failure rolls back every write in the sequence.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// TrackedTokenRepository provides access to tracked token data.
type TrackedTokenRepository interface {
	GetAll(ctx context.Context) ([]model.TrackedToken, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.TrackedToken, error)
	Upsert(ctx context.Context, t *model.TrackedToken) (uuid.UUID, error)
}

// TokenAccountRepository provides access to tracked token account data.
// Upserts conflict on (token, address) and only ever lower
// first_transaction_date, never raise it.
type TokenAccountRepository interface {
	BulkUpsertTx(ctx context.Context, tx *sql.Tx, accounts []*model.TrackedTokenAccount) (map[string]uuid.UUID, error)
	GetByToken(ctx context.Context, tokenID uuid.UUID) ([]model.TrackedTokenAccount, error)
}

// BalanceSnapshotRepository provides access to daily balance snapshots.
// Upserts conflict on (account, day) and overwrite: last writer wins.
type BalanceSnapshotRepository interface {
	BulkUpsertTx(ctx context.Context, tx *sql.Tx, rows []*model.BalanceSnapshot) error
	GetForDay(ctx context.Context, tokenID uuid.UUID, day time.Time) ([]model.BalanceSnapshot, error)
	GetLatestBefore(ctx context.Context, accountID uuid.UUID, day time.Time) (*model.BalanceSnapshot, error)
	MaxDateForToken(ctx context.Context, tokenID uuid.UUID) (*time.Time, error)
}

// BalanceChangeRepository provides access to the append-only balance change
// log. Inserts ignore duplicate (account, day) pairs.
type BalanceChangeRepository interface {
	BulkInsertTx(ctx context.Context, tx *sql.Tx, rows []*model.BalanceChange) error
}

// AccountTransactionRepository provides access to per-account transaction
// rows. Inserts ignore duplicate (account, hash, direction) triples.
type AccountTransactionRepository interface {
	BulkInsertTx(ctx context.Context, tx *sql.Tx, rows []*model.AccountTransaction) error
	MaxDateForToken(ctx context.Context, tokenID uuid.UUID) (*time.Time, error)
}
