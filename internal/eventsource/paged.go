package eventsource

import (
	"context"
	"log/slog"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
)

const (
	defaultPageLimit = 100
	defaultMaxOffset = 25000
	defaultPageDelay = time.Second
)

// PageFunc fetches one page of at most limit rows starting at offset.
type PageFunc func(ctx context.Context, limit, offset int) ([]Transfer, error)

// Pager drives a query through increasing offsets until a short page signals
// exhaustion. A fixed delay between pages keeps the provider's rate limit;
// a hard offset ceiling stops runaway loops against a misbehaving backend.
type Pager struct {
	Limit     int
	MaxOffset int
	Delay     time.Duration
	Logger    *slog.Logger
}

func NewPager(limit, maxOffset int, delay time.Duration, logger *slog.Logger) *Pager {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if maxOffset <= 0 {
		maxOffset = defaultMaxOffset
	}
	if delay < 0 {
		delay = defaultPageDelay
	}
	return &Pager{Limit: limit, MaxOffset: maxOffset, Delay: delay, Logger: logger}
}

// FetchAll concatenates pages until a short page, an empty page, or the
// offset ceiling. A failed page is treated identically to exhaustion: the
// rows collected so far are returned and the failure is logged, never
// propagated. Callers must tolerate under-counting after transient faults.
func (p *Pager) FetchAll(ctx context.Context, chain model.Chain, fetch PageFunc) ([]Transfer, error) {
	var all []Transfer

	for offset := 0; ; offset += p.Limit {
		if offset > p.MaxOffset {
			metrics.EventSourceOffsetCeilingHits.WithLabelValues(chain.String()).Inc()
			p.Logger.Warn("offset ceiling reached, stopping pagination",
				"chain", chain, "offset", offset, "rows", len(all))
			break
		}

		page, err := fetch(ctx, p.Limit, offset)
		if err != nil {
			metrics.EventSourceRequestFailures.WithLabelValues(chain.String()).Inc()
			p.Logger.Warn("page fetch failed, treating as exhaustion",
				"chain", chain, "offset", offset, "rows", len(all), "error", err)
			break
		}
		metrics.EventSourcePagesFetched.WithLabelValues(chain.String()).Inc()

		all = append(all, page...)
		if len(page) < p.Limit {
			break
		}

		if p.Delay > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return all, ctx.Err()
			}
		}
	}

	return all, nil
}
