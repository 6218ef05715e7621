package solana

import (
	"context"
	"log/slog"
	"sort"

	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/solana/rpc"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
)

const defaultTxBatchSize = 50

// Fetcher resolves post-transfer token balances for sets of transactions.
type Fetcher struct {
	client    rpc.RPCClient
	logger    *slog.Logger
	batchSize int
}

func NewFetcher(client rpc.RPCClient, batchSize int, logger *slog.Logger) *Fetcher {
	if batchSize <= 0 {
		batchSize = defaultTxBatchSize
	}
	return &Fetcher{
		client:    client,
		logger:    logger.With("chain", "solana"),
		batchSize: batchSize,
	}
}

// GetMultipleBalances returns, per transaction hash, the post-transaction
// token balance per owner address. Transactions the RPC did not return are
// retried in up to retryLimit additional passes, each covering only the
// still-missing hashes. A hash that never resolves is simply absent from the
// result; callers must treat a missing key as "balance unknown for this
// transaction", not as an error.
func (f *Fetcher) GetMultipleBalances(ctx context.Context, txOwners map[string][]string, mint string, retryLimit int) (map[string]map[string]string, error) {
	result := make(map[string]map[string]string, len(txOwners))

	pending := make([]string, 0, len(txOwners))
	for hash := range txOwners {
		pending = append(pending, hash)
	}
	sort.Strings(pending)

	for pass := 0; pass <= retryLimit && len(pending) > 0; pass++ {
		if pass > 0 {
			metrics.BalanceFetchRetryPasses.WithLabelValues("solana").Inc()
			f.logger.Info("retrying missing transactions", "pass", pass, "missing", len(pending))
		}

		var missing []string
		for start := 0; start < len(pending); start += f.batchSize {
			end := start + f.batchSize
			if end > len(pending) {
				end = len(pending)
			}
			chunk := pending[start:end]

			txs, err := f.client.GetTransactions(ctx, chunk)
			if err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				f.logger.Warn("transaction batch fetch failed, requeueing chunk",
					"count", len(chunk), "error", err)
				missing = append(missing, chunk...)
				continue
			}

			for i, tx := range txs {
				hash := chunk[i]
				if tx == nil {
					missing = append(missing, hash)
					continue
				}
				balances := f.balancesForOwners(tx, hash, txOwners[hash], mint)
				if existing, ok := result[hash]; ok {
					for owner, amount := range balances {
						existing[owner] = amount
					}
				} else {
					result[hash] = balances
				}
			}
		}
		pending = missing
	}

	if len(pending) > 0 {
		f.logger.Warn("transactions unresolved after retries", "count", len(pending))
	}
	return result, nil
}

// balancesForOwners locates each owner's post-transaction balance. The
// declared owner address is matched first; when that fails, the address is
// looked up positionally in the transaction's account-key list, because the
// event source occasionally reports a closed token account's address in
// place of its owner.
func (f *Fetcher) balancesForOwners(tx *rpc.TransactionResult, hash string, owners []string, mint string) map[string]string {
	balances := make(map[string]string, len(owners))
	if tx.Meta == nil {
		return balances
	}

	for _, owner := range owners {
		matches := postBalancesByOwner(tx.Meta.PostTokenBalances, mint, owner)
		if len(matches) == 0 {
			if idx, ok := accountKeyIndex(tx.Transaction.Message.AccountKeys, owner); ok {
				matches = postBalancesByIndex(tx.Meta.PostTokenBalances, mint, idx)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) > 1 {
			f.logger.Warn("multiple matching balance entries, using first",
				"signature", hash, "owner", owner, "matches", len(matches))
		}
		balances[owner] = matches[0].UITokenAmount.Amount
	}
	return balances
}

func postBalancesByOwner(entries []rpc.TokenBalance, mint, owner string) []rpc.TokenBalance {
	var matches []rpc.TokenBalance
	for _, entry := range entries {
		if entry.Mint == mint && entry.Owner == owner {
			matches = append(matches, entry)
		}
	}
	return matches
}

func postBalancesByIndex(entries []rpc.TokenBalance, mint string, index int) []rpc.TokenBalance {
	var matches []rpc.TokenBalance
	for _, entry := range entries {
		if entry.Mint == mint && entry.AccountIndex == index {
			matches = append(matches, entry)
		}
	}
	return matches
}

func accountKeyIndex(keys []rpc.AccountKey, address string) (int, bool) {
	for i, key := range keys {
		if key.Pubkey == address {
			return i, true
		}
	}
	return 0, false
}
