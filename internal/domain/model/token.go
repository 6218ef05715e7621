package model

import (
	"time"

	"github.com/google/uuid"
)

// TrackedToken is a fungible token whose holder balances are synced daily.
// Created by operator action; immutable except display metadata.
type TrackedToken struct {
	ID          uuid.UUID `db:"id"`
	Chain       Chain     `db:"chain"`
	MintAddress string    `db:"mint_address"`
	Decimals    int       `db:"decimals"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// TrackedTokenAccount is an address observed holding units of a TrackedToken.
// FirstTransactionDate tracks the earliest known activity, not insertion time:
// it is lowered when earlier data is discovered, never raised.
type TrackedTokenAccount struct {
	ID                   uuid.UUID `db:"id"`
	TokenID              uuid.UUID `db:"token_id"`
	Address              string    `db:"address"`
	OwnerAddress         *string   `db:"owner_address"`
	FirstTransactionDate time.Time `db:"first_transaction_date"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}
