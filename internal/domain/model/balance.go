package model

import (
	"time"

	"github.com/google/uuid"
)

// BalanceSnapshot is one row per (account, calendar day). The balance is kept
// as a decimal string because raw token amounts exceed the 64-bit range.
// At most one row exists per (account, day); conflicting writes overwrite.
type BalanceSnapshot struct {
	ID                        uuid.UUID `db:"id"`
	AccountID                 uuid.UUID `db:"account_id"`
	Date                      time.Time `db:"date"`
	ApproximateMinimumBalance string    `db:"approximate_minimum_balance"`
	CreatedAt                 time.Time `db:"created_at"`
	UpdatedAt                 time.Time `db:"updated_at"`
}

// BalanceChange records only the days on which an account's balance differs
// from the prior stored snapshot. Append-only: never overwritten once written.
type BalanceChange struct {
	ID                        uuid.UUID `db:"id"`
	AccountID                 uuid.UUID `db:"account_id"`
	Date                      time.Time `db:"date"`
	ApproximateMinimumBalance string    `db:"approximate_minimum_balance"`
	CreatedAt                 time.Time `db:"created_at"`
}
