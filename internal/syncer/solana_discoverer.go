package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/balance"
	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
)

// SolanaDiscoverer discovers active token accounts from the transfer indexer
// and resolves their end-of-day balances from on-chain transaction metadata.
type SolanaDiscoverer struct {
	source     TransferSource
	balances   balance.SolanaBalanceFetcher
	retryLimit int
	logger     *slog.Logger
}

var _ Discoverer = (*SolanaDiscoverer)(nil)

func NewSolanaDiscoverer(source TransferSource, balances balance.SolanaBalanceFetcher, retryLimit int, logger *slog.Logger) *SolanaDiscoverer {
	return &SolanaDiscoverer{
		source:     source,
		balances:   balances,
		retryLimit: retryLimit,
		logger:     logger.With("chain", "solana"),
	}
}

func (d *SolanaDiscoverer) DiscoverAccounts(ctx context.Context, token model.TrackedToken, day time.Time) (map[string]*AccountActivity, error) {
	start, end := dayWindow(day)

	transfers, err := d.source.TransfersInWindow(ctx, model.ChainSolana, eventsource.SideAny, "", token.MintAddress, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch day transfers: %w", err)
	}

	byAddress := collectActivity(transfers, token.Decimals)
	if len(byAddress) == 0 {
		return map[string]*AccountActivity{}, nil
	}

	// One batched lookup for the whole day: each address's balance comes
	// from the post-transfer state of its last transaction. The transfer
	// feed reports token accounts, not wallet owners, so the address doubles
	// as the owner hint and the fetcher's positional fallback covers the
	// rest.
	txOwners := make(map[string][]string)
	for addr, a := range byAddress {
		txOwners[a.latest.Transaction.ID()] = append(txOwners[a.latest.Transaction.ID()], addr)
	}

	resolved, err := d.balances.GetMultipleBalances(ctx, txOwners, token.MintAddress, d.retryLimit)
	if err != nil {
		return nil, fmt.Errorf("resolve day balances: %w", err)
	}

	result := make(map[string]*AccountActivity, len(byAddress))
	for _, addr := range sortedAddresses(byAddress) {
		a := byAddress[addr]

		amount, ok := resolved[a.latest.Transaction.ID()][addr]
		if !ok {
			amount = a.fallbackBalance()
			d.logger.Warn("on-chain balance unavailable, using day delta",
				"address", addr, "signature", a.latest.Transaction.ID(), "fallback", amount)
		}

		result[addr] = &AccountActivity{
			ApproximateBalance: amount,
			IncomingHashes:     a.incoming,
			OutgoingHashes:     a.outgoing,
		}
	}
	return result, nil
}
