package balance

import (
	"context"
	"log/slog"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/ethereum"
	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
)

// EVMBalanceFetcher is the concurrency-capped balanceOf batch lookup.
type EVMBalanceFetcher interface {
	GetBalancesAtBlocks(ctx context.Context, token string, queries []ethereum.BalanceQuery) (map[ethereum.BalanceQuery]string, error)
}

// EthereumResolver resolves end-of-day balances for EVM token holders.
type EthereumResolver struct {
	source   Source
	balances EVMBalanceFetcher
	logger   *slog.Logger
}

var _ Resolver = (*EthereumResolver)(nil)

func NewEthereumResolver(source Source, balances EVMBalanceFetcher, logger *slog.Logger) *EthereumResolver {
	return &EthereumResolver{
		source:   source,
		balances: balances,
		logger:   logger.With("chain", "ethereum"),
	}
}

// ResolveBalance mirrors the Solana resolver: latest transfer in the day
// window, then balanceOf pinned to that transfer's block. No activity
// returns previous unchanged; a failed contract call falls back to delta
// accumulation.
func (r *EthereumResolver) ResolveBalance(ctx context.Context, account Account, endExclusive time.Time, previous *string) (*string, error) {
	dayStart := endExclusive.Add(-24 * time.Hour)
	queryEnd := endExclusive.Add(-time.Second)

	sent, err := r.source.LatestTransfer(ctx, model.ChainEthereum, eventsource.SideSender, account.Address, account.Mint, dayStart, queryEnd)
	if err != nil {
		return nil, err
	}
	received, err := r.source.LatestTransfer(ctx, model.ChainEthereum, eventsource.SideReceiver, account.Address, account.Mint, dayStart, queryEnd)
	if err != nil {
		return nil, err
	}

	latest := latestOf(sent, received)
	if latest == nil {
		return previous, nil
	}

	query := ethereum.BalanceQuery{Holder: account.Address, Block: latest.Block.Height}
	resolved, err := r.balances.GetBalancesAtBlocks(ctx, account.Mint, []ethereum.BalanceQuery{query})
	if err != nil {
		return nil, err
	}
	if amount, ok := resolved[query]; ok {
		return &amount, nil
	}

	r.logger.Warn("authoritative balance lookup failed, accumulating deltas",
		"address", account.Address, "block", latest.Block.Height)
	return accumulateDeltas(ctx, r.source, model.ChainEthereum, account, dayStart, queryEnd, previous, r.logger)
}
