package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/balance"
	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/ethereum"
	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
)

// EthereumDiscoverer discovers active token holders from the transfer indexer
// and resolves their end-of-day balances with balanceOf calls pinned to each
// holder's last block of the day.
type EthereumDiscoverer struct {
	source   TransferSource
	balances balance.EVMBalanceFetcher
	logger   *slog.Logger
}

var _ Discoverer = (*EthereumDiscoverer)(nil)

func NewEthereumDiscoverer(source TransferSource, balances balance.EVMBalanceFetcher, logger *slog.Logger) *EthereumDiscoverer {
	return &EthereumDiscoverer{
		source:   source,
		balances: balances,
		logger:   logger.With("chain", "ethereum"),
	}
}

func (d *EthereumDiscoverer) DiscoverAccounts(ctx context.Context, token model.TrackedToken, day time.Time) (map[string]*AccountActivity, error) {
	start, end := dayWindow(day)

	transfers, err := d.source.TransfersInWindow(ctx, model.ChainEthereum, eventsource.SideAny, "", token.MintAddress, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch day transfers: %w", err)
	}

	byAddress := collectActivity(transfers, token.Decimals)
	if len(byAddress) == 0 {
		return map[string]*AccountActivity{}, nil
	}

	addresses := sortedAddresses(byAddress)
	queries := make([]ethereum.BalanceQuery, 0, len(addresses))
	queryFor := make(map[string]ethereum.BalanceQuery, len(addresses))
	for _, addr := range addresses {
		q := ethereum.BalanceQuery{Holder: addr, Block: byAddress[addr].latest.Block.Height}
		queries = append(queries, q)
		queryFor[addr] = q
	}

	resolved, err := d.balances.GetBalancesAtBlocks(ctx, token.MintAddress, queries)
	if err != nil {
		return nil, fmt.Errorf("resolve day balances: %w", err)
	}

	result := make(map[string]*AccountActivity, len(byAddress))
	for _, addr := range addresses {
		a := byAddress[addr]

		amount, ok := resolved[queryFor[addr]]
		if !ok {
			amount = a.fallbackBalance()
			d.logger.Warn("balanceOf unavailable, using day delta",
				"address", addr, "block", a.latest.Block.Height, "fallback", amount)
		}

		// EVM holders are wallets; the holder address is its own owner.
		owner := addr
		result[addr] = &AccountActivity{
			Owner:              &owner,
			ApproximateBalance: amount,
			IncomingHashes:     a.incoming,
			OutgoingHashes:     a.outgoing,
		}
	}
	return result, nil
}
