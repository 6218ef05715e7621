package rpc

import "encoding/json"

// JSON-RPC request/response types

type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// getTransaction response (jsonParsed)

type TransactionResult struct {
	Slot        int64            `json:"slot"`
	BlockTime   *int64           `json:"blockTime"`
	Transaction TransactionBody  `json:"transaction"`
	Meta        *TransactionMeta `json:"meta"`
}

type TransactionBody struct {
	Message Message `json:"message"`
}

type Message struct {
	AccountKeys []AccountKey `json:"accountKeys"`
}

type AccountKey struct {
	Pubkey string `json:"pubkey"`
}

type TransactionMeta struct {
	Err               interface{}    `json:"err"`
	Fee               uint64         `json:"fee"`
	PreTokenBalances  []TokenBalance `json:"preTokenBalances"`
	PostTokenBalances []TokenBalance `json:"postTokenBalances"`
}

type TokenBalance struct {
	AccountIndex  int         `json:"accountIndex"`
	Mint          string      `json:"mint"`
	Owner         string      `json:"owner"`
	UITokenAmount TokenAmount `json:"uiTokenAmount"`
}

type TokenAmount struct {
	Amount   string `json:"amount"`
	Decimals int    `json:"decimals"`
}
