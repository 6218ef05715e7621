package balance

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
)

// Account identifies a token-holding address for balance resolution. Owner is
// the wallet owning the token account where the chain distinguishes the two
// (Solana); on EVM chains Owner equals Address.
type Account struct {
	Address  string
	Owner    string
	Mint     string
	Decimals int
}

// Resolver resolves an account's balance as of an end-of-day boundary.
// Implementations return previous unchanged when the account saw no activity
// in the day ending at endExclusive.
type Resolver interface {
	ResolveBalance(ctx context.Context, account Account, endExclusive time.Time, previous *string) (*string, error)
}

// Source is the transfer-history access the resolvers need.
type Source interface {
	LatestTransfer(ctx context.Context, chain model.Chain, side eventsource.Side, address, mint string, start, end time.Time) (*eventsource.Transfer, error)
	TransfersInWindow(ctx context.Context, chain model.Chain, side eventsource.Side, address, mint string, start, end time.Time) ([]eventsource.Transfer, error)
}

// latestOf picks whichever candidate transfer is chronologically later.
func latestOf(a, b *eventsource.Transfer) *eventsource.Transfer {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Time().After(a.Time()) {
		return b
	}
	return a
}

// rawAmount converts a display-unit transfer amount to raw token units.
func rawAmount(amount float64, decimals int) decimal.Decimal {
	return decimal.NewFromFloat(amount).Shift(int32(decimals)).Round(0)
}

// accumulateDeltas reconstructs a balance from the event source's own
// transfer amounts when the authoritative on-chain read is unavailable:
// previous plus incoming minus outgoing over the day window, floored at zero.
// The result is a best-effort approximate minimum, not an exact balance.
func accumulateDeltas(ctx context.Context, source Source, chain model.Chain, account Account, start, end time.Time, previous *string, logger *slog.Logger) (*string, error) {
	incoming, err := source.TransfersInWindow(ctx, chain, eventsource.SideReceiver, account.Address, account.Mint, start, end)
	if err != nil {
		return nil, err
	}
	outgoing, err := source.TransfersInWindow(ctx, chain, eventsource.SideSender, account.Address, account.Mint, start, end)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	if previous != nil {
		parsed, err := decimal.NewFromString(*previous)
		if err != nil {
			logger.Warn("unparseable previous balance, accumulating from zero",
				"address", account.Address, "previous", *previous)
		} else {
			total = parsed
		}
	}

	for _, t := range incoming {
		total = total.Add(rawAmount(t.Amount, account.Decimals))
	}
	for _, t := range outgoing {
		total = total.Sub(rawAmount(t.Amount, account.Decimals))
	}

	if total.IsNegative() {
		logger.Debug("accumulated balance went negative, flooring at zero",
			"address", account.Address, "accumulated", total.String())
		total = decimal.Zero
	}

	s := total.String()
	return &s, nil
}
