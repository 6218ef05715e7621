package balance

import (
	"context"
	"log/slog"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
)

// SolanaBalanceFetcher is the batched post-transfer balance lookup.
type SolanaBalanceFetcher interface {
	GetMultipleBalances(ctx context.Context, txOwners map[string][]string, mint string, retryLimit int) (map[string]map[string]string, error)
}

// SolanaResolver resolves end-of-day balances for Solana token accounts.
type SolanaResolver struct {
	source     Source
	balances   SolanaBalanceFetcher
	retryLimit int
	logger     *slog.Logger
}

var _ Resolver = (*SolanaResolver)(nil)

func NewSolanaResolver(source Source, balances SolanaBalanceFetcher, retryLimit int, logger *slog.Logger) *SolanaResolver {
	return &SolanaResolver{
		source:     source,
		balances:   balances,
		retryLimit: retryLimit,
		logger:     logger.With("chain", "solana"),
	}
}

// ResolveBalance finds the most recent transfer touching the account in the
// day ending at endExclusive and resolves the authoritative post-transfer
// balance on chain. No activity returns previous unchanged; a failed
// authoritative lookup falls back to delta accumulation.
func (r *SolanaResolver) ResolveBalance(ctx context.Context, account Account, endExclusive time.Time, previous *string) (*string, error) {
	dayStart := endExclusive.Add(-24 * time.Hour)
	// The source's end bound is inclusive; subtract one time unit so a
	// transfer landing exactly on the day boundary is not double-counted.
	queryEnd := endExclusive.Add(-time.Second)

	// The source cannot filter "involving this address" directly, so query
	// the sender and receiver perspectives separately and take the later.
	sent, err := r.source.LatestTransfer(ctx, model.ChainSolana, eventsource.SideSender, account.Address, account.Mint, dayStart, queryEnd)
	if err != nil {
		return nil, err
	}
	received, err := r.source.LatestTransfer(ctx, model.ChainSolana, eventsource.SideReceiver, account.Address, account.Mint, dayStart, queryEnd)
	if err != nil {
		return nil, err
	}

	latest := latestOf(sent, received)
	if latest == nil {
		return previous, nil
	}

	owner := account.Owner
	if owner == "" {
		owner = account.Address
	}

	txID := latest.Transaction.ID()
	resolved, err := r.balances.GetMultipleBalances(ctx, map[string][]string{txID: {owner}}, account.Mint, r.retryLimit)
	if err != nil {
		return nil, err
	}
	if byOwner, ok := resolved[txID]; ok {
		if amount, ok := byOwner[owner]; ok {
			return &amount, nil
		}
	}

	r.logger.Warn("authoritative balance lookup failed, accumulating deltas",
		"address", account.Address, "signature", txID)
	return accumulateDeltas(ctx, r.source, model.ChainSolana, account, dayStart, queryEnd, previous, r.logger)
}
