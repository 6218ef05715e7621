package eventsource

import (
	"context"
	"errors"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
)

// Service bundles the GraphQL transport with the paged query client and
// exposes the two access patterns the resolvers need: the single most-recent
// transfer matching a filter, and every transfer in a time window.
type Service struct {
	client *Client
	pager  *Pager
}

func NewService(client *Client, pager *Pager) *Service {
	return &Service{client: client, pager: pager}
}

// LatestTransfer returns the chronologically last transfer in [start, end]
// matching the filter, or nil when there is none. A failed query is treated
// as "no data" per the source's degradation contract; only context
// cancellation propagates as an error.
func (s *Service) LatestTransfer(ctx context.Context, chain model.Chain, side Side, address, mint string, start, end time.Time) (*Transfer, error) {
	page, err := s.client.TransfersPage(ctx, chain, side, OrderDesc, address, mint, start, end, 1, 0)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		metrics.EventSourceRequestFailures.WithLabelValues(chain.String()).Inc()
		s.pager.Logger.Warn("latest transfer query failed, treating as no data",
			"chain", chain, "side", side, "address", address, "error", err)
		return nil, nil
	}
	if len(page) == 0 {
		return nil, nil
	}
	return &page[0], nil
}

// TransfersInWindow returns all transfers in [start, end] matching the
// filter, paging through the source in ascending chronological order.
func (s *Service) TransfersInWindow(ctx context.Context, chain model.Chain, side Side, address, mint string, start, end time.Time) ([]Transfer, error) {
	return s.pager.FetchAll(ctx, chain, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		return s.client.TransfersPage(ctx, chain, side, OrderAsc, address, mint, start, end, limit, offset)
	})
}
