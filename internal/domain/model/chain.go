package model

import "fmt"

type Chain string

const (
	ChainSolana   Chain = "solana"
	ChainEthereum Chain = "ethereum"
)

func (c Chain) String() string {
	return string(c)
}

func ParseChain(s string) (Chain, error) {
	switch Chain(s) {
	case ChainSolana, ChainEthereum:
		return Chain(s), nil
	default:
		return "", fmt.Errorf("unknown chain %q", s)
	}
}

type TransactionDirection string

const (
	DirectionIncoming TransactionDirection = "incoming"
	DirectionOutgoing TransactionDirection = "outgoing"
)

func (d TransactionDirection) String() string {
	return string(d)
}
