package syncer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rally-dfs/rly-rewards-sub000/internal/balance"
	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
	"github.com/rally-dfs/rly-rewards-sub000/internal/store"
	"github.com/rally-dfs/rly-rewards-sub000/internal/tracing"
)

const tracerName = "syncer"

// Locker serializes sync runs per tracked token across processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Orchestrator drives the two sync modes over every tracked token: account
// discovery (find who moved the token each day and record balances,
// transactions, and changes) and balance backfill (re-resolve daily balances
// for already-known accounts over a date range).
type Orchestrator struct {
	runner       store.TxRunner
	tokens       store.TrackedTokenRepository
	accounts     store.TokenAccountRepository
	snapshots    store.BalanceSnapshotRepository
	changes      store.BalanceChangeRepository
	transactions store.AccountTransactionRepository
	discoverers  map[model.Chain]Discoverer
	resolvers    map[model.Chain]balance.Resolver
	locker       Locker
	logger       *slog.Logger
}

type Deps struct {
	Runner       store.TxRunner
	Tokens       store.TrackedTokenRepository
	Accounts     store.TokenAccountRepository
	Snapshots    store.BalanceSnapshotRepository
	Changes      store.BalanceChangeRepository
	Transactions store.AccountTransactionRepository
	Discoverers  map[model.Chain]Discoverer
	Resolvers    map[model.Chain]balance.Resolver
	Locker       Locker
	Logger       *slog.Logger
}

func NewOrchestrator(deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		runner:       deps.Runner,
		tokens:       deps.Tokens,
		accounts:     deps.Accounts,
		snapshots:    deps.Snapshots,
		changes:      deps.Changes,
		transactions: deps.Transactions,
		discoverers:  deps.Discoverers,
		resolvers:    deps.Resolvers,
		locker:       deps.Locker,
		logger:       logger,
	}
}

// SyncAccountsForEndDate runs account discovery for every tracked token (or
// the one identified by tokenID) up to and including endDate. Each token
// resumes from the day after its last recorded transaction; forceOneDay
// ignores the watermark and syncs only endDate. Each day is persisted in one
// transaction, so a failure mid-day leaves the watermark pointing at the
// last complete day and the next run picks up from there.
func (o *Orchestrator) SyncAccountsForEndDate(ctx context.Context, endDate time.Time, forceOneDay bool, tokenID *uuid.UUID) error {
	started := time.Now()
	defer func() {
		metrics.SyncRunDuration.WithLabelValues("accounts").Observe(time.Since(started).Seconds())
	}()

	endDate = model.TruncateToDay(endDate)

	tokens, err := o.loadTokens(ctx, tokenID)
	if err != nil {
		return err
	}

	var errs []error
	for i := range tokens {
		token := &tokens[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.syncTokenAccounts(ctx, token, endDate, forceOneDay); err != nil {
			o.logger.Error("account sync failed for token",
				"chain", token.Chain, "mint", token.MintAddress, "error", err)
			errs = append(errs, fmt.Errorf("%s/%s: %w", token.Chain, token.MintAddress, err))
		}
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) syncTokenAccounts(ctx context.Context, token *model.TrackedToken, endDate time.Time, forceOneDay bool) error {
	release, ok, err := o.acquireLock(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		o.logger.Info("token locked by another run, skipping",
			"chain", token.Chain, "mint", token.MintAddress)
		return nil
	}
	defer release()

	ctx, span := tracing.StartSpan(ctx, tracerName, "sync_token_accounts",
		trace.WithAttributes(
			attribute.String("chain", token.Chain.String()),
			attribute.String("mint", token.MintAddress),
		))
	defer span.End()

	discoverer, ok := o.discoverers[token.Chain]
	if !ok {
		return fmt.Errorf("no discoverer for chain %s", token.Chain)
	}

	start := endDate
	if !forceOneDay {
		watermark, err := o.transactions.MaxDateForToken(ctx, token.ID)
		if err != nil {
			return err
		}
		if watermark != nil {
			start = model.NextDay(*watermark)
			if start.After(endDate) {
				o.logger.Info("token already synced through end date",
					"chain", token.Chain, "mint", token.MintAddress, "watermark", model.FormatDay(*watermark))
				return nil
			}
		}
	}

	for day := start; !day.After(endDate); day = model.NextDay(day) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.syncTokenDay(ctx, token, discoverer, day); err != nil {
			// Stop this token here: persisting later days first would
			// advance the watermark past the hole.
			metrics.SyncDaysSkipped.WithLabelValues(token.Chain.String(), "accounts").Inc()
			return fmt.Errorf("sync day %s: %w", model.FormatDay(day), err)
		}
		metrics.SyncDaysProcessed.WithLabelValues(token.Chain.String(), "accounts").Inc()
		o.logger.Info("day synced",
			"chain", token.Chain, "mint", token.MintAddress, "date", model.FormatDay(day))
	}
	return nil
}

// syncTokenDay discovers one day's activity and persists it atomically:
// accounts first (to obtain ids), then snapshots, change rows, and
// transaction rows. Accounts with no activity carry the previous day's
// snapshot forward without a change row.
func (o *Orchestrator) syncTokenDay(ctx context.Context, token *model.TrackedToken, discoverer Discoverer, day time.Time) error {
	activity, err := discoverer.DiscoverAccounts(ctx, *token, day)
	if err != nil {
		return err
	}

	prior, err := o.snapshots.GetForDay(ctx, token.ID, day.AddDate(0, 0, -1))
	if err != nil {
		return err
	}
	priorBalances := make(map[uuid.UUID]string, len(prior))
	for _, s := range prior {
		priorBalances[s.AccountID] = s.ApproximateMinimumBalance
	}

	addresses := make([]string, 0, len(activity))
	for addr := range activity {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	accountRows := make([]*model.TrackedTokenAccount, 0, len(addresses))
	for _, addr := range addresses {
		accountRows = append(accountRows, &model.TrackedTokenAccount{
			TokenID:              token.ID,
			Address:              addr,
			OwnerAddress:         activity[addr].Owner,
			FirstTransactionDate: day,
		})
	}

	return o.runner.WithinTx(ctx, func(tx *sql.Tx) error {
		ids := map[string]uuid.UUID{}
		if len(accountRows) > 0 {
			ids, err = o.accounts.BulkUpsertTx(ctx, tx, accountRows)
			if err != nil {
				return err
			}
		}

		var snapshots []*model.BalanceSnapshot
		var changes []*model.BalanceChange
		var txRows []*model.AccountTransaction
		active := make(map[uuid.UUID]bool, len(addresses))

		for _, addr := range addresses {
			act := activity[addr]
			id, ok := ids[addr]
			if !ok {
				return fmt.Errorf("no id returned for account %s", addr)
			}
			active[id] = true

			snapshots = append(snapshots, &model.BalanceSnapshot{
				AccountID:                 id,
				Date:                      day,
				ApproximateMinimumBalance: act.ApproximateBalance,
			})
			if prev, ok := priorBalances[id]; !ok || prev != act.ApproximateBalance {
				changes = append(changes, &model.BalanceChange{
					AccountID:                 id,
					Date:                      day,
					ApproximateMinimumBalance: act.ApproximateBalance,
				})
			}
			for _, hash := range act.IncomingHashes {
				txRows = append(txRows, &model.AccountTransaction{
					AccountID: id,
					Hash:      hash,
					Direction: model.DirectionIncoming,
					Date:      day,
				})
			}
			for _, hash := range act.OutgoingHashes {
				txRows = append(txRows, &model.AccountTransaction{
					AccountID: id,
					Hash:      hash,
					Direction: model.DirectionOutgoing,
					Date:      day,
				})
			}
		}

		// Inactive accounts keep yesterday's balance.
		for _, s := range prior {
			if active[s.AccountID] {
				continue
			}
			snapshots = append(snapshots, &model.BalanceSnapshot{
				AccountID:                 s.AccountID,
				Date:                      day,
				ApproximateMinimumBalance: s.ApproximateMinimumBalance,
			})
		}

		if len(snapshots) > 0 {
			if err := o.snapshots.BulkUpsertTx(ctx, tx, snapshots); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			if err := o.changes.BulkInsertTx(ctx, tx, changes); err != nil {
				return err
			}
		}
		if len(txRows) > 0 {
			if err := o.transactions.BulkInsertTx(ctx, tx, txRows); err != nil {
				return err
			}
		}
		return nil
	})
}

// SyncBalancesForDateRange re-resolves daily balances for already-known
// accounts from earliest to latest inclusive. A day that fails to resolve is
// skipped inside the series builder; everything that did resolve is
// persisted per account in one transaction.
func (o *Orchestrator) SyncBalancesForDateRange(ctx context.Context, earliest, latest time.Time, tokenIDs []uuid.UUID) error {
	started := time.Now()
	defer func() {
		metrics.SyncRunDuration.WithLabelValues("balances").Observe(time.Since(started).Seconds())
	}()

	earliest = model.TruncateToDay(earliest)
	latest = model.TruncateToDay(latest)
	if latest.Before(earliest) {
		return fmt.Errorf("latest date %s is before earliest date %s", model.FormatDay(latest), model.FormatDay(earliest))
	}

	var tokens []model.TrackedToken
	var err error
	if len(tokenIDs) > 0 {
		tokens, err = o.tokens.GetByIDs(ctx, tokenIDs)
	} else {
		tokens, err = o.tokens.GetAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("load tracked tokens: %w", err)
	}

	var errs []error
	for i := range tokens {
		token := &tokens[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.syncTokenBalances(ctx, token, earliest, latest); err != nil {
			o.logger.Error("balance sync failed for token",
				"chain", token.Chain, "mint", token.MintAddress, "error", err)
			errs = append(errs, fmt.Errorf("%s/%s: %w", token.Chain, token.MintAddress, err))
		}
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) syncTokenBalances(ctx context.Context, token *model.TrackedToken, earliest, latest time.Time) error {
	release, ok, err := o.acquireLock(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		o.logger.Info("token locked by another run, skipping",
			"chain", token.Chain, "mint", token.MintAddress)
		return nil
	}
	defer release()

	ctx, span := tracing.StartSpan(ctx, tracerName, "sync_token_balances",
		trace.WithAttributes(
			attribute.String("chain", token.Chain.String()),
			attribute.String("mint", token.MintAddress),
		))
	defer span.End()

	resolver, ok := o.resolvers[token.Chain]
	if !ok {
		return fmt.Errorf("no balance resolver for chain %s", token.Chain)
	}
	builder := balance.NewSeriesBuilder(resolver, token.Chain, o.logger)

	accounts, err := o.accounts.GetByToken(ctx, token.ID)
	if err != nil {
		return err
	}

	for i := range accounts {
		account := &accounts[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.syncAccountBalances(ctx, token, account, builder, earliest, latest); err != nil {
			return fmt.Errorf("account %s: %w", account.Address, err)
		}
	}
	return nil
}

func (o *Orchestrator) syncAccountBalances(ctx context.Context, token *model.TrackedToken, account *model.TrackedTokenAccount, builder *balance.SeriesBuilder, earliest, latest time.Time) error {
	seedSnapshot, err := o.snapshots.GetLatestBefore(ctx, account.ID, earliest)
	if err != nil {
		return err
	}
	var seed *string
	if seedSnapshot != nil {
		seed = &seedSnapshot.ApproximateMinimumBalance
	}

	owner := ""
	if account.OwnerAddress != nil {
		owner = *account.OwnerAddress
	}

	series, err := builder.BuildSeries(ctx, balance.Account{
		Address:  account.Address,
		Owner:    owner,
		Mint:     token.MintAddress,
		Decimals: token.Decimals,
	}, earliest, latest, seed)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return nil
	}

	snapshots := make([]*model.BalanceSnapshot, 0, len(series))
	var changes []*model.BalanceChange
	prev := seed
	for _, point := range series {
		snapshots = append(snapshots, &model.BalanceSnapshot{
			AccountID:                 account.ID,
			Date:                      point.Date,
			ApproximateMinimumBalance: point.Balance,
		})
		if prev == nil || *prev != point.Balance {
			changes = append(changes, &model.BalanceChange{
				AccountID:                 account.ID,
				Date:                      point.Date,
				ApproximateMinimumBalance: point.Balance,
			})
		}
		value := point.Balance
		prev = &value
	}

	err = o.runner.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := o.snapshots.BulkUpsertTx(ctx, tx, snapshots); err != nil {
			return err
		}
		if len(changes) > 0 {
			return o.changes.BulkInsertTx(ctx, tx, changes)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.SyncDaysProcessed.WithLabelValues(token.Chain.String(), "balances").Add(float64(len(series)))
	return nil
}

func (o *Orchestrator) loadTokens(ctx context.Context, tokenID *uuid.UUID) ([]model.TrackedToken, error) {
	var tokens []model.TrackedToken
	var err error
	if tokenID != nil {
		tokens, err = o.tokens.GetByIDs(ctx, []uuid.UUID{*tokenID})
	} else {
		tokens, err = o.tokens.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load tracked tokens: %w", err)
	}
	return tokens, nil
}

// acquireLock takes the per-token run lease when a locker is configured.
// The returned release is safe to call unconditionally.
func (o *Orchestrator) acquireLock(ctx context.Context, token *model.TrackedToken) (func(), bool, error) {
	if o.locker == nil {
		return func() {}, true, nil
	}

	key := token.Chain.String() + ":" + token.MintAddress
	ok, err := o.locker.Acquire(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		if err := o.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			o.logger.Warn("release run lock failed", "key", key, "error", err)
		}
	}, true, nil
}
