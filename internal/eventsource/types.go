package eventsource

import (
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
)

// Typed response schemas for the transfer-indexer GraphQL API. The response
// shape is { <chain>: { transfers: [...] } }; unknown fields are ignored and
// missing fields decode to zero values, which downstream code treats as
// "no data" per the fallback policy.

type TransfersEnvelope struct {
	Solana   *TransferPage `json:"solana,omitempty"`
	Ethereum *TransferPage `json:"ethereum,omitempty"`
}

type TransferPage struct {
	Transfers []Transfer `json:"transfers"`
}

// Page returns the transfer list for the given chain, or nil when the
// response carried no data for it.
func (e *TransfersEnvelope) Page(chain model.Chain) []Transfer {
	if e == nil {
		return nil
	}
	switch chain {
	case model.ChainSolana:
		if e.Solana != nil {
			return e.Solana.Transfers
		}
	case model.ChainEthereum:
		if e.Ethereum != nil {
			return e.Ethereum.Transfers
		}
	}
	return nil
}

// Transfer is a single token transfer reported by the indexer. Amount is in
// display units (the indexer pre-divides by token decimals).
type Transfer struct {
	Amount      float64        `json:"amount"`
	Sender      Address        `json:"sender"`
	Receiver    Address        `json:"receiver"`
	Transaction TransactionRef `json:"transaction"`
	Block       Block          `json:"block"`
}

type Address struct {
	Address string `json:"address"`
}

// TransactionRef carries the chain-specific transaction identifier:
// Signature for Solana, Hash for EVM chains.
type TransactionRef struct {
	Signature string `json:"signature,omitempty"`
	Hash      string `json:"hash,omitempty"`
}

// ID returns whichever identifier the source populated.
func (r TransactionRef) ID() string {
	if r.Signature != "" {
		return r.Signature
	}
	return r.Hash
}

type Block struct {
	Height    int64     `json:"height,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

type Timestamp struct {
	ISO8601 time.Time `json:"iso8601"`
}

// Time returns the transfer's block time.
func (t Transfer) Time() time.Time {
	return t.Block.Timestamp.ISO8601
}
