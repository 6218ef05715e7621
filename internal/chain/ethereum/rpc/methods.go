package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// balanceOf(address) selector, first four bytes of keccak256("balanceOf(address)").
const balanceOfSelector = "0x70a08231"

// GetTokenBalanceAtBlock invokes the ERC20 balanceOf view call pinned to a
// block height and returns the raw balance as a decimal string.
func (c *Client) GetTokenBalanceAtBlock(ctx context.Context, token, holder string, block int64) (string, error) {
	data, err := encodeBalanceOfCall(holder)
	if err != nil {
		return "", fmt.Errorf("encode balanceOf call: %w", err)
	}

	params := []interface{}{
		map[string]string{
			"to":   token,
			"data": data,
		},
		formatHexInt64(block),
	}
	result, err := c.call(ctx, "eth_call", params)
	if err != nil {
		return "", fmt.Errorf("eth_call balanceOf(%s) at block %d: %w", holder, block, err)
	}

	var hexBalance string
	if err := json.Unmarshal(result, &hexBalance); err != nil {
		return "", fmt.Errorf("unmarshal balance: %w", err)
	}

	balance, err := ParseHexBig(hexBalance)
	if err != nil {
		return "", fmt.Errorf("parse balance: %w", err)
	}
	return balance.String(), nil
}

func (c *Client) GetTransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	result, err := c.call(ctx, "eth_getTransactionByHash", []interface{}{hash})
	if err != nil {
		return nil, fmt.Errorf("eth_getTransactionByHash(%s): %w", hash, err)
	}
	if string(result) == "null" {
		return nil, nil
	}

	var tx Transaction
	if err := json.Unmarshal(result, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}
	return &tx, nil
}

func (c *Client) GetTransactionReceipt(ctx context.Context, hash string) (*TransactionReceipt, error) {
	result, err := c.call(ctx, "eth_getTransactionReceipt", []interface{}{hash})
	if err != nil {
		return nil, fmt.Errorf("eth_getTransactionReceipt(%s): %w", hash, err)
	}
	if string(result) == "null" {
		return nil, nil
	}

	var receipt TransactionReceipt
	if err := json.Unmarshal(result, &receipt); err != nil {
		return nil, fmt.Errorf("unmarshal transaction receipt: %w", err)
	}
	return &receipt, nil
}

func (c *Client) GetLogs(ctx context.Context, filter LogFilter) ([]*Log, error) {
	result, err := c.call(ctx, "eth_getLogs", []interface{}{filter})
	if err != nil {
		return nil, fmt.Errorf("eth_getLogs: %w", err)
	}

	var logs []*Log
	if err := json.Unmarshal(result, &logs); err != nil {
		return nil, fmt.Errorf("unmarshal logs: %w", err)
	}
	return logs, nil
}

// encodeBalanceOfCall ABI-encodes balanceOf(holder): the 4-byte selector
// followed by the address left-padded to 32 bytes.
func encodeBalanceOfCall(holder string) (string, error) {
	addr := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(holder)), "0x")
	if len(addr) != 40 {
		return "", fmt.Errorf("invalid address %q", holder)
	}
	if _, ok := new(big.Int).SetString(addr, 16); !ok {
		return "", fmt.Errorf("invalid address %q", holder)
	}
	return balanceOfSelector + strings.Repeat("0", 24) + addr, nil
}

func ParseHexInt64(value string) (int64, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, fmt.Errorf("empty hex value")
	}
	raw = strings.TrimPrefix(strings.ToLower(raw), "0x")
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hex %q: %w", value, err)
	}
	return int64(parsed), nil
}

// ParseHexBig parses a 0x-prefixed hex quantity of arbitrary width.
func ParseHexBig(value string) (*big.Int, error) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), "0x")
	if raw == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return nil, fmt.Errorf("parse hex %q", value)
	}
	return parsed, nil
}

func formatHexInt64(value int64) string {
	return fmt.Sprintf("0x%x", value)
}
