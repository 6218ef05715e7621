package balance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
)

// DailyBalance is one resolved (day, balance) point.
type DailyBalance struct {
	Date    time.Time
	Balance string
}

// SeriesBuilder drives a Resolver across a date range, carrying each day's
// resolved balance forward as the seed for the next.
type SeriesBuilder struct {
	resolver Resolver
	chain    model.Chain
	logger   *slog.Logger
}

func NewSeriesBuilder(resolver Resolver, chain model.Chain, logger *slog.Logger) *SeriesBuilder {
	return &SeriesBuilder{
		resolver: resolver,
		chain:    chain,
		logger:   logger,
	}
}

// BuildSeries resolves one balance per calendar day from earliest to latest
// inclusive. A day that fails to resolve is logged and skipped, leaving the
// seed unchanged so the next day reconciles from the same known-good
// baseline; a single bad day never poisons subsequent days or aborts the
// range. Gaps are visible as missing dates in the result.
func (b *SeriesBuilder) BuildSeries(ctx context.Context, account Account, earliest, latest time.Time, seed *string) ([]DailyBalance, error) {
	earliest = model.TruncateToDay(earliest)
	latest = model.TruncateToDay(latest)
	if latest.Before(earliest) {
		return nil, fmt.Errorf("latest date %s is before earliest date %s", model.FormatDay(latest), model.FormatDay(earliest))
	}

	var series []DailyBalance
	state := seed

	for day := earliest; !day.After(latest); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return series, err
		}

		endExclusive := day.AddDate(0, 0, 1)
		resolved, err := b.resolver.ResolveBalance(ctx, account, endExclusive, state)
		if err != nil {
			metrics.SyncDaysSkipped.WithLabelValues(b.chain.String(), "balances").Inc()
			b.logger.Warn("balance resolution failed, skipping day",
				"address", account.Address, "date", model.FormatDay(day), "error", err)
			continue
		}
		if resolved == nil {
			// No activity and no prior balance: nothing to record yet.
			continue
		}

		series = append(series, DailyBalance{Date: day, Balance: *resolved})
		state = resolved
	}

	return series, nil
}
