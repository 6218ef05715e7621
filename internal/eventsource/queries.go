package eventsource

import (
	"context"
	"fmt"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
)

// Side selects which side of a transfer an address filter applies to. The
// indexer cannot filter "involving this address" directly, so callers that
// need both sides issue one query per side.
type Side string

const (
	SideAny      Side = ""
	SideSender   Side = "senderAddress"
	SideReceiver Side = "receiverAddress"
)

// Order selects the chronological ordering of returned transfers.
type Order string

const (
	OrderAsc  Order = "block.timestamp.iso8601"
	OrderDesc Order = "-block.timestamp.iso8601"
)

const solanaTransfersTemplate = `query SolanaTransfers($limit: Int!, $offset: Int!, $start: ISO8601DateTime!, $end: ISO8601DateTime!, $currency: String!%s) {
  solana {
    transfers(
      options: {%s: "block.timestamp.iso8601", limit: $limit, offset: $offset}
      time: {since: $start, till: $end}
      currency: {is: $currency}
      success: {is: true}%s
    ) {
      amount
      transaction { signature }
      sender { address }
      receiver { address }
      block { timestamp { iso8601 } }
    }
  }
}`

const ethereumTransfersTemplate = `query EthereumTransfers($limit: Int!, $offset: Int!, $start: ISO8601DateTime!, $end: ISO8601DateTime!, $currency: String!%s) {
  ethereum {
    transfers(
      options: {%s: "block.timestamp.iso8601", limit: $limit, offset: $offset}
      time: {since: $start, till: $end}
      currency: {is: $currency}
      success: {is: true}%s
    ) {
      amount
      transaction { hash }
      sender { address }
      receiver { address }
      block { height, timestamp { iso8601 } }
    }
  }
}`

// TransfersQuery builds the transfer query text for a chain, address-filter
// side, and ordering.
func TransfersQuery(chain model.Chain, side Side, order Order) string {
	template := solanaTransfersTemplate
	if chain == model.ChainEthereum {
		template = ethereumTransfersTemplate
	}

	orderKey := "asc"
	if order == OrderDesc {
		orderKey = "desc"
	}

	varDecl := ""
	filter := ""
	if side != SideAny {
		varDecl = ", $address: String!"
		filter = fmt.Sprintf("\n      %s: {is: $address}", side)
	}
	return fmt.Sprintf(template, varDecl, orderKey, filter)
}

// TransferVars builds the variable map for a transfers query. The indexer's
// end bound is inclusive; callers with exclusive-end semantics must subtract
// one time unit before calling.
func TransferVars(mint string, start, end time.Time, limit, offset int, address string) map[string]any {
	vars := map[string]any{
		"limit":    limit,
		"offset":   offset,
		"start":    start.UTC().Format(time.RFC3339),
		"end":      end.UTC().Format(time.RFC3339),
		"currency": mint,
	}
	if address != "" {
		vars["address"] = address
	}
	return vars
}

// TransfersPage fetches a single page of transfers.
func (c *Client) TransfersPage(ctx context.Context, chain model.Chain, side Side, order Order, address, mint string, start, end time.Time, limit, offset int) ([]Transfer, error) {
	envelope, err := c.Query(ctx, TransfersQuery(chain, side, order), TransferVars(mint, start, end, limit, offset, address))
	if err != nil {
		return nil, err
	}
	return envelope.Page(chain), nil
}
