//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/store/postgres"
)

// testDB checks the TEST_DB_URL environment variable first; if unset, a
// testcontainers ephemeral PostgreSQL is used instead.
func testDB(t *testing.T) *postgres.DB {
	t.Helper()
	url := os.Getenv("TEST_DB_URL")
	if url != "" {
		db, err := postgres.New(postgres.Config{
			URL:             url,
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Minute,
		})
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return db
	}
	return setupTestContainer(t)
}

func seedToken(t *testing.T, db *postgres.DB) uuid.UUID {
	t.Helper()
	repo := postgres.NewTrackedTokenRepo(db)
	id, err := repo.Upsert(context.Background(), &model.TrackedToken{
		Chain:       model.ChainSolana,
		MintAddress: "test-mint-" + uuid.NewString()[:8],
		Decimals:    6,
		DisplayName: "Test Token",
	})
	require.NoError(t, err)
	return id
}

func seedAccount(t *testing.T, db *postgres.DB, tokenID uuid.UUID, address string, day time.Time) uuid.UUID {
	t.Helper()
	repo := postgres.NewTokenAccountRepo(db, 0)
	var ids map[string]uuid.UUID
	err := db.WithinTx(context.Background(), func(tx *sql.Tx) error {
		var txErr error
		ids, txErr = repo.BulkUpsertTx(context.Background(), tx, []*model.TrackedTokenAccount{
			{TokenID: tokenID, Address: address, FirstTransactionDate: day},
		})
		return txErr
	})
	require.NoError(t, err)
	return ids[address]
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---------- TrackedTokenRepo ----------

func TestTrackedTokenRepo_UpsertIdempotent(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewTrackedTokenRepo(db)
	ctx := context.Background()
	mint := "idem-mint-" + uuid.NewString()[:8]

	id1, err := repo.Upsert(ctx, &model.TrackedToken{
		Chain: model.ChainSolana, MintAddress: mint, Decimals: 6, DisplayName: "First",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id1)

	// Same (chain, mint) returns the same id and refreshes the display name.
	id2, err := repo.Upsert(ctx, &model.TrackedToken{
		Chain: model.ChainSolana, MintAddress: mint, Decimals: 6, DisplayName: "Renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	tokens, err := repo.GetByIDs(ctx, []uuid.UUID{id1})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "Renamed", tokens[0].DisplayName)
	assert.Equal(t, mint, tokens[0].MintAddress)
}

func TestTrackedTokenRepo_SameMintDifferentChains(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewTrackedTokenRepo(db)
	ctx := context.Background()
	mint := "shared-mint-" + uuid.NewString()[:8]

	solID, err := repo.Upsert(ctx, &model.TrackedToken{
		Chain: model.ChainSolana, MintAddress: mint, Decimals: 6,
	})
	require.NoError(t, err)

	ethID, err := repo.Upsert(ctx, &model.TrackedToken{
		Chain: model.ChainEthereum, MintAddress: mint, Decimals: 18,
	})
	require.NoError(t, err)
	assert.NotEqual(t, solID, ethID)
}

// ---------- TokenAccountRepo ----------

func TestTokenAccountRepo_BulkUpsert(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewTokenAccountRepo(db, 2) // chunk size 2 forces two statements
	ctx := context.Background()
	tokenID := seedToken(t, db)

	owner := "owner-1"
	accounts := []*model.TrackedTokenAccount{
		{TokenID: tokenID, Address: "acct-a", OwnerAddress: &owner, FirstTransactionDate: day(2022, 6, 2)},
		{TokenID: tokenID, Address: "acct-b", FirstTransactionDate: day(2022, 6, 2)},
		{TokenID: tokenID, Address: "acct-c", FirstTransactionDate: day(2022, 6, 2)},
	}

	var ids map[string]uuid.UUID
	err := db.WithinTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		ids, txErr = repo.BulkUpsertTx(ctx, tx, accounts)
		return txErr
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.NotEqual(t, ids["acct-a"], ids["acct-b"])

	// Re-upserting with an earlier first_transaction_date lowers it; a later
	// one is ignored, and a known owner is never overwritten by null.
	var ids2 map[string]uuid.UUID
	err = db.WithinTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		ids2, txErr = repo.BulkUpsertTx(ctx, tx, []*model.TrackedTokenAccount{
			{TokenID: tokenID, Address: "acct-a", FirstTransactionDate: day(2022, 6, 1)},
			{TokenID: tokenID, Address: "acct-b", FirstTransactionDate: day(2022, 6, 9)},
		})
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, ids["acct-a"], ids2["acct-a"])
	assert.Equal(t, ids["acct-b"], ids2["acct-b"])

	stored, err := repo.GetByToken(ctx, tokenID)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	byAddress := map[string]model.TrackedTokenAccount{}
	for _, a := range stored {
		byAddress[a.Address] = a
	}
	assert.Equal(t, day(2022, 6, 1), byAddress["acct-a"].FirstTransactionDate.UTC())
	assert.Equal(t, day(2022, 6, 2), byAddress["acct-b"].FirstTransactionDate.UTC())
	require.NotNil(t, byAddress["acct-a"].OwnerAddress)
	assert.Equal(t, owner, *byAddress["acct-a"].OwnerAddress)
}

// ---------- BalanceSnapshotRepo ----------

func TestBalanceSnapshotRepo_UpsertAndRead(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewBalanceSnapshotRepo(db, 0)
	ctx := context.Background()
	tokenID := seedToken(t, db)
	accountID := seedAccount(t, db, tokenID, "snap-acct", day(2022, 6, 1))

	write := func(d time.Time, balance string) {
		err := db.WithinTx(ctx, func(tx *sql.Tx) error {
			return repo.BulkUpsertTx(ctx, tx, []*model.BalanceSnapshot{
				{AccountID: accountID, Date: d, ApproximateMinimumBalance: balance},
			})
		})
		require.NoError(t, err)
	}

	write(day(2022, 6, 1), "1000000")
	write(day(2022, 6, 2), "2500000")

	// Re-running a day overwrites rather than duplicating.
	write(day(2022, 6, 2), "2600000")

	snaps, err := repo.GetForDay(ctx, tokenID, day(2022, 6, 2))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2600000", snaps[0].ApproximateMinimumBalance)

	latest, err := repo.GetLatestBefore(ctx, accountID, day(2022, 6, 2))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "1000000", latest.ApproximateMinimumBalance)

	// No snapshot strictly before the first day.
	latest, err = repo.GetLatestBefore(ctx, accountID, day(2022, 6, 1))
	require.NoError(t, err)
	assert.Nil(t, latest)

	maxDate, err := repo.MaxDateForToken(ctx, tokenID)
	require.NoError(t, err)
	require.NotNil(t, maxDate)
	assert.Equal(t, day(2022, 6, 2), maxDate.UTC())
}

func TestBalanceSnapshotRepo_HoldsFullWidthNumerics(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewBalanceSnapshotRepo(db, 0)
	ctx := context.Background()
	tokenID := seedToken(t, db)
	accountID := seedAccount(t, db, tokenID, "wide-acct", day(2022, 6, 1))

	// A uint256-scale raw amount must round-trip without precision loss.
	wide := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	err := db.WithinTx(ctx, func(tx *sql.Tx) error {
		return repo.BulkUpsertTx(ctx, tx, []*model.BalanceSnapshot{
			{AccountID: accountID, Date: day(2022, 6, 1), ApproximateMinimumBalance: wide},
		})
	})
	require.NoError(t, err)

	snaps, err := repo.GetForDay(ctx, tokenID, day(2022, 6, 1))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, wide, snaps[0].ApproximateMinimumBalance)
}

// ---------- BalanceChangeRepo ----------

func TestBalanceChangeRepo_InsertIgnoresDuplicates(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewBalanceChangeRepo(db, 0)
	ctx := context.Background()
	tokenID := seedToken(t, db)
	accountID := seedAccount(t, db, tokenID, "chg-acct", day(2022, 6, 1))

	changes := []*model.BalanceChange{
		{AccountID: accountID, Date: day(2022, 6, 1), ApproximateMinimumBalance: "100"},
	}
	err := db.WithinTx(ctx, func(tx *sql.Tx) error {
		return repo.BulkInsertTx(ctx, tx, changes)
	})
	require.NoError(t, err)

	// Replaying the same day is a no-op: the first recorded value wins.
	changes[0].ApproximateMinimumBalance = "999"
	err = db.WithinTx(ctx, func(tx *sql.Tx) error {
		return repo.BulkInsertTx(ctx, tx, changes)
	})
	require.NoError(t, err)

	var count int
	var stored string
	err = db.QueryRow(
		"SELECT COUNT(*), MIN(approximate_minimum_balance::text) FROM balance_changes WHERE account_id = $1",
		accountID,
	).Scan(&count, &stored)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "100", stored)
}

// ---------- AccountTransactionRepo ----------

func TestAccountTransactionRepo_InsertAndWatermark(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewAccountTransactionRepo(db, 0)
	ctx := context.Background()
	tokenID := seedToken(t, db)
	accountID := seedAccount(t, db, tokenID, "tx-acct", day(2022, 6, 1))

	// No rows yet: the watermark is nil.
	watermark, err := repo.MaxDateForToken(ctx, tokenID)
	require.NoError(t, err)
	assert.Nil(t, watermark)

	rows := []*model.AccountTransaction{
		{AccountID: accountID, Hash: "sig-1", Direction: model.DirectionIncoming, Date: day(2022, 6, 1)},
		{AccountID: accountID, Hash: "sig-2", Direction: model.DirectionOutgoing, Date: day(2022, 6, 2)},
		// Same hash in both directions is two distinct rows (self-transfer).
		{AccountID: accountID, Hash: "sig-2", Direction: model.DirectionIncoming, Date: day(2022, 6, 2)},
	}
	err = db.WithinTx(ctx, func(tx *sql.Tx) error {
		return repo.BulkInsertTx(ctx, tx, rows)
	})
	require.NoError(t, err)

	// Replaying the batch is idempotent.
	err = db.WithinTx(ctx, func(tx *sql.Tx) error {
		return repo.BulkInsertTx(ctx, tx, rows)
	})
	require.NoError(t, err)

	var count int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM account_transactions WHERE account_id = $1", accountID,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	watermark, err = repo.MaxDateForToken(ctx, tokenID)
	require.NoError(t, err)
	require.NotNil(t, watermark)
	assert.Equal(t, day(2022, 6, 2), watermark.UTC())
}

// ---------- WithinTx ----------

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db := testDB(t)
	accountRepo := postgres.NewTokenAccountRepo(db, 0)
	snapshotRepo := postgres.NewBalanceSnapshotRepo(db, 0)
	ctx := context.Background()
	tokenID := seedToken(t, db)

	err := db.WithinTx(ctx, func(tx *sql.Tx) error {
		ids, txErr := accountRepo.BulkUpsertTx(ctx, tx, []*model.TrackedTokenAccount{
			{TokenID: tokenID, Address: "rollback-acct", FirstTransactionDate: day(2022, 6, 1)},
		})
		require.NoError(t, txErr)
		require.NoError(t, snapshotRepo.BulkUpsertTx(ctx, tx, []*model.BalanceSnapshot{
			{AccountID: ids["rollback-acct"], Date: day(2022, 6, 1), ApproximateMinimumBalance: "100"},
		}))
		return sql.ErrTxDone // force rollback
	})
	require.Error(t, err)

	// Neither the account nor the snapshot survived.
	accounts, err := accountRepo.GetByToken(ctx, tokenID)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	snaps, err := snapshotRepo.GetForDay(ctx, tokenID, day(2022, 6, 1))
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
