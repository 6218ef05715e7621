package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountTransaction is one row per (account, transaction hash, direction).
// A self-transfer is both incoming and outgoing for the same account and
// yields two distinct rows. Duplicate triples are silently ignored on insert.
type AccountTransaction struct {
	ID        uuid.UUID            `db:"id"`
	AccountID uuid.UUID            `db:"account_id"`
	Hash      string               `db:"hash"`
	Direction TransactionDirection `db:"direction"`
	Date      time.Time            `db:"date"`
	CreatedAt time.Time            `db:"created_at"`
}
