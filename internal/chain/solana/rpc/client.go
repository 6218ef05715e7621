package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/ratelimit"
	"github.com/rally-dfs/rly-rewards-sub000/internal/metrics"
)

// RPCClient abstracts the Solana JSON-RPC interface for testing.
type RPCClient interface {
	GetTransaction(ctx context.Context, signature string) (*TransactionResult, error)
	GetTransactions(ctx context.Context, signatures []string) ([]*TransactionResult, error)
}

// Client wraps two interchangeable RPC endpoints behind a single logical
// connection. The current-endpoint index is per-instance state guarded by a
// mutex, so concurrent sync runs can use independent instances.
type Client struct {
	httpClient *http.Client
	requestID  atomic.Int64
	logger     *slog.Logger

	mu        sync.Mutex
	endpoints [2]string
	current   int
}

func NewClient(primaryURL, fallbackURL string, logger *slog.Logger) *Client {
	if fallbackURL == "" {
		fallbackURL = primaryURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoints: [2]string{primaryURL, fallbackURL},
		logger:    logger,
	}
}

func (c *Client) endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoints[c.current]
}

// failover switches to the alternate endpoint for subsequent calls.
func (c *Client) failover() {
	c.mu.Lock()
	c.current = 1 - c.current
	next := c.endpoints[c.current]
	c.mu.Unlock()

	metrics.RPCFailoversTotal.WithLabelValues("solana").Inc()
	c.logger.Warn("switching to alternate rpc endpoint", "endpoint", next)
}

func (c *Client) newRequest(method string, params []interface{}) Request {
	return Request{
		JSONRPC: "2.0",
		ID:      int(c.requestID.Add(1)),
		Method:  method,
		Params:  params,
	}
}

func (c *Client) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	req := c.newRequest(method, params)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, body)
	ratelimit.RecordRPCCall("solana", method, err)
	if err != nil {
		return nil, err
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}

// callBatch issues a JSON-RPC batch request. Responses are reordered to match
// the request order; servers may return them in any order.
func (c *Client) callBatch(ctx context.Context, requests []Request) ([]Response, error) {
	body, err := json.Marshal(requests)
	if err != nil {
		return nil, fmt.Errorf("marshal batch request: %w", err)
	}

	respBody, err := c.post(ctx, body)
	ratelimit.RecordRPCCall("solana", "batch", err)
	if err != nil {
		return nil, err
	}

	var responses []Response
	if err := json.Unmarshal(respBody, &responses); err != nil {
		return nil, fmt.Errorf("unmarshal batch response: %w", err)
	}
	if len(responses) != len(requests) {
		return nil, fmt.Errorf("batch response count %d does not match request count %d", len(responses), len(requests))
	}

	byID := make(map[int]int, len(responses))
	for i, resp := range responses {
		byID[resp.ID] = i
	}
	ordered := make([]Response, len(requests))
	for i, req := range requests {
		idx, ok := byID[req.ID]
		if !ok {
			return nil, fmt.Errorf("batch response missing id %d", req.ID)
		}
		ordered[i] = responses[idx]
	}
	return ordered, nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
