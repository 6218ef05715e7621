package rpc

import (
	"context"
	"encoding/json"
	"fmt"
)

func buildGetTransactionParams(signature string) []interface{} {
	return []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"commitment":                     "confirmed",
			"maxSupportedTransactionVersion": 0,
		},
	}
}

// GetTransaction returns a parsed transaction by signature, or nil when the
// node does not know it. The RPC treats a null result as a valid "not found"
// response, but this client treats it as a retryable fault: on any error or
// null it swaps to the alternate endpoint and retries once before surfacing
// the result, which may still be nil.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*TransactionResult, error) {
	tx, err := c.getTransactionOnce(ctx, signature)
	if err == nil && tx != nil {
		return tx, nil
	}
	if err != nil {
		c.logger.Warn("getTransaction failed, retrying on alternate endpoint",
			"signature", signature, "error", err)
	}

	c.failover()
	tx, err = c.getTransactionOnce(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("getTransaction(%s): %w", signature, err)
	}
	return tx, nil
}

func (c *Client) getTransactionOnce(ctx context.Context, signature string) (*TransactionResult, error) {
	result, err := c.call(ctx, "getTransaction", buildGetTransactionParams(signature))
	if err != nil {
		return nil, err
	}
	return decodeTransaction(result)
}

// GetTransactions fetches many transactions in a single JSON-RPC batch call.
// Results keep input order; nil entries mark transactions the node did not
// return (null result or per-entry error). A batch-level failure triggers one
// failover retry before surfacing the error.
func (c *Client) GetTransactions(ctx context.Context, signatures []string) ([]*TransactionResult, error) {
	if len(signatures) == 0 {
		return []*TransactionResult{}, nil
	}

	responses, err := c.getTransactionsOnce(ctx, signatures)
	if err != nil {
		c.logger.Warn("getTransaction batch failed, retrying on alternate endpoint",
			"count", len(signatures), "error", err)
		c.failover()
		responses, err = c.getTransactionsOnce(ctx, signatures)
		if err != nil {
			return nil, fmt.Errorf("getTransaction batch: %w", err)
		}
	}

	results := make([]*TransactionResult, len(signatures))
	for i, response := range responses {
		if response.Error != nil {
			c.logger.Warn("getTransaction batch entry failed",
				"signature", signatures[i], "code", response.Error.Code, "error", response.Error.Message)
			continue
		}
		tx, err := decodeTransaction(response.Result)
		if err != nil {
			return nil, fmt.Errorf("getTransaction(%s): %w", signatures[i], err)
		}
		results[i] = tx
	}
	return results, nil
}

func (c *Client) getTransactionsOnce(ctx context.Context, signatures []string) ([]Response, error) {
	requests := make([]Request, len(signatures))
	for i, signature := range signatures {
		requests[i] = c.newRequest("getTransaction", buildGetTransactionParams(signature))
	}
	return c.callBatch(ctx, requests)
}

func decodeTransaction(result json.RawMessage) (*TransactionResult, error) {
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}
	var tx TransactionResult
	if err := json.Unmarshal(result, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}
	return &tx, nil
}
