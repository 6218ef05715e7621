package ethereum

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/ethereum/rpc"
)

const defaultMaxConcurrentCalls = 10

// BalanceQuery identifies one balanceOf lookup pinned to a block height.
type BalanceQuery struct {
	Holder string
	Block  int64
}

// Fetcher batch-fetches ERC20 balances under a concurrency cap.
type Fetcher struct {
	client        rpc.RPCClient
	logger        *slog.Logger
	maxConcurrent int
}

func NewFetcher(client rpc.RPCClient, maxConcurrent int, logger *slog.Logger) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentCalls
	}
	return &Fetcher{
		client:        client,
		logger:        logger.With("chain", "ethereum"),
		maxConcurrent: maxConcurrent,
	}
}

// GetBalancesAtBlocks resolves balances for many (holder, block) pairs with
// settle-all semantics: a failed lookup is logged and omitted from the
// result, never aborting its siblings. Only context cancellation stops the
// batch early.
func (f *Fetcher) GetBalancesAtBlocks(ctx context.Context, token string, queries []BalanceQuery) (map[BalanceQuery]string, error) {
	results := make(map[BalanceQuery]string, len(queries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	for _, q := range queries {
		query := q
		g.Go(func() error {
			balance, err := f.client.GetTokenBalanceAtBlock(gctx, token, query.Holder, query.Block)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				f.logger.Warn("balance lookup failed, omitting from batch",
					"holder", query.Holder, "block", query.Block, "error", err)
				return nil
			}

			mu.Lock()
			results[query] = balance
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
