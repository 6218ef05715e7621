package syncer

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
)

// AccountActivity summarizes one account's transfers within a single day:
// which transactions touched it and its end-of-day balance.
type AccountActivity struct {
	Owner              *string
	ApproximateBalance string
	IncomingHashes     []string
	OutgoingHashes     []string
}

// Discoverer finds every account that moved a token during one calendar day,
// keyed by account address.
type Discoverer interface {
	DiscoverAccounts(ctx context.Context, token model.TrackedToken, day time.Time) (map[string]*AccountActivity, error)
}

// TransferSource is the transfer-history access discoverers need.
type TransferSource interface {
	TransfersInWindow(ctx context.Context, chain model.Chain, side eventsource.Side, address, mint string, start, end time.Time) ([]eventsource.Transfer, error)
}

// activity accumulates per-address state while walking a day's transfers.
type activity struct {
	latest   *eventsource.Transfer
	incoming []string
	outgoing []string
	delta    decimal.Decimal
}

// collectActivity groups a day's transfers by account address. Each transfer
// contributes an outgoing hash to its sender and an incoming hash to its
// receiver; delta tracks the net raw-unit movement for the fallback path.
func collectActivity(transfers []eventsource.Transfer, decimals int) map[string]*activity {
	byAddress := make(map[string]*activity)

	get := func(address string) *activity {
		a, ok := byAddress[address]
		if !ok {
			a = &activity{delta: decimal.Zero}
			byAddress[address] = a
		}
		return a
	}

	for i := range transfers {
		t := &transfers[i]
		raw := decimal.NewFromFloat(t.Amount).Shift(int32(decimals)).Round(0)

		if addr := t.Sender.Address; addr != "" {
			a := get(addr)
			a.outgoing = append(a.outgoing, t.Transaction.ID())
			a.delta = a.delta.Sub(raw)
			if a.latest == nil || t.Time().After(a.latest.Time()) {
				a.latest = t
			}
		}
		if addr := t.Receiver.Address; addr != "" {
			a := get(addr)
			a.incoming = append(a.incoming, t.Transaction.ID())
			a.delta = a.delta.Add(raw)
			if a.latest == nil || t.Time().After(a.latest.Time()) {
				a.latest = t
			}
		}
	}

	return byAddress
}

// fallbackBalance is the day's net delta floored at zero, used when the
// authoritative on-chain read is unavailable for an address.
func (a *activity) fallbackBalance() string {
	if a.delta.IsNegative() {
		return "0"
	}
	return a.delta.String()
}

func sortedAddresses(byAddress map[string]*activity) []string {
	addresses := make([]string, 0, len(byAddress))
	for addr := range byAddress {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)
	return addresses
}

// dayWindow returns the day's query bounds. The source's end bound is
// inclusive, so the end is one time unit shy of the next day boundary.
func dayWindow(day time.Time) (time.Time, time.Time) {
	start := model.TruncateToDay(day)
	return start, start.AddDate(0, 0, 1).Add(-time.Second)
}
