package balance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/ethereum"
	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
)

// fakeSource serves canned transfers per (side) for LatestTransfer and
// TransfersInWindow, recording the query bounds it sees.
type fakeSource struct {
	latestBySide  map[eventsource.Side]*eventsource.Transfer
	windowBySide  map[eventsource.Side][]eventsource.Transfer
	lastStart     time.Time
	lastEnd       time.Time
	latestQueries int
}

func (f *fakeSource) LatestTransfer(ctx context.Context, chain model.Chain, side eventsource.Side, address, mint string, start, end time.Time) (*eventsource.Transfer, error) {
	f.lastStart, f.lastEnd = start, end
	f.latestQueries++
	return f.latestBySide[side], nil
}

func (f *fakeSource) TransfersInWindow(ctx context.Context, chain model.Chain, side eventsource.Side, address, mint string, start, end time.Time) ([]eventsource.Transfer, error) {
	return f.windowBySide[side], nil
}

type fakeSolanaFetcher struct {
	result map[string]map[string]string
	called map[string][]string
}

func (f *fakeSolanaFetcher) GetMultipleBalances(ctx context.Context, txOwners map[string][]string, mint string, retryLimit int) (map[string]map[string]string, error) {
	f.called = txOwners
	return f.result, nil
}

type fakeEVMFetcher struct {
	result  map[ethereum.BalanceQuery]string
	queried []ethereum.BalanceQuery
}

func (f *fakeEVMFetcher) GetBalancesAtBlocks(ctx context.Context, token string, queries []ethereum.BalanceQuery) (map[ethereum.BalanceQuery]string, error) {
	f.queried = queries
	return f.result, nil
}

func transferAt(ts string, sig string) *eventsource.Transfer {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return &eventsource.Transfer{
		Transaction: eventsource.TransactionRef{Signature: sig},
		Block:       eventsource.Block{Timestamp: eventsource.Timestamp{ISO8601: parsed}},
	}
}

func TestSolanaResolver_LaterOfSenderAndReceiver(t *testing.T) {
	t.Parallel()

	// Sent at 00:01, received at 00:02: the receive is the authoritative
	// last touch of the account.
	source := &fakeSource{latestBySide: map[eventsource.Side]*eventsource.Transfer{
		eventsource.SideSender:   transferAt("2022-05-31T00:01:00Z", "sigSent"),
		eventsource.SideReceiver: transferAt("2022-05-31T00:02:00Z", "sigReceived"),
	}}
	fetcher := &fakeSolanaFetcher{result: map[string]map[string]string{
		"sigReceived": {"owner1": "5000000"},
	}}
	resolver := NewSolanaResolver(source, fetcher, 3, slog.Default())

	endExclusive := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	resolved, err := resolver.ResolveBalance(context.Background(), Account{
		Address: "acct1", Owner: "owner1", Mint: "mint1", Decimals: 6,
	}, endExclusive, nil)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "5000000", *resolved)
	assert.Equal(t, []string{"owner1"}, fetcher.called["sigReceived"])
}

func TestSolanaResolver_QueryEndIsInclusiveBoundaryMinusOneSecond(t *testing.T) {
	t.Parallel()

	source := &fakeSource{latestBySide: map[eventsource.Side]*eventsource.Transfer{}}
	resolver := NewSolanaResolver(source, &fakeSolanaFetcher{}, 3, slog.Default())

	endExclusive := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := resolver.ResolveBalance(context.Background(), Account{Address: "acct1", Mint: "mint1"}, endExclusive, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC), source.lastStart)
	assert.Equal(t, time.Date(2022, 5, 31, 23, 59, 59, 0, time.UTC), source.lastEnd)
}

func TestSolanaResolver_NoActivityReturnsPrevious(t *testing.T) {
	t.Parallel()

	source := &fakeSource{latestBySide: map[eventsource.Side]*eventsource.Transfer{}}
	resolver := NewSolanaResolver(source, &fakeSolanaFetcher{}, 3, slog.Default())

	previous := "1234"
	resolved, err := resolver.ResolveBalance(context.Background(), Account{Address: "acct1", Mint: "mint1"}, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), &previous)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "1234", *resolved)
}

func TestSolanaResolver_NoActivityNoPreviousReturnsNil(t *testing.T) {
	t.Parallel()

	source := &fakeSource{latestBySide: map[eventsource.Side]*eventsource.Transfer{}}
	resolver := NewSolanaResolver(source, &fakeSolanaFetcher{}, 3, slog.Default())

	resolved, err := resolver.ResolveBalance(context.Background(), Account{Address: "acct1", Mint: "mint1"}, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestSolanaResolver_OwnerDefaultsToAddress(t *testing.T) {
	t.Parallel()

	source := &fakeSource{latestBySide: map[eventsource.Side]*eventsource.Transfer{
		eventsource.SideSender: transferAt("2022-05-31T10:00:00Z", "sig1"),
	}}
	fetcher := &fakeSolanaFetcher{result: map[string]map[string]string{
		"sig1": {"acct1": "777"},
	}}
	resolver := NewSolanaResolver(source, fetcher, 3, slog.Default())

	resolved, err := resolver.ResolveBalance(context.Background(), Account{Address: "acct1", Mint: "mint1"}, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "777", *resolved)
	assert.Equal(t, []string{"acct1"}, fetcher.called["sig1"])
}

func TestSolanaResolver_FallbackAccumulatesDeltas(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		latestBySide: map[eventsource.Side]*eventsource.Transfer{
			eventsource.SideSender: transferAt("2022-05-31T10:00:00Z", "sigGone"),
		},
		windowBySide: map[eventsource.Side][]eventsource.Transfer{
			eventsource.SideReceiver: {{Amount: 10.5}, {Amount: 2}},
			eventsource.SideSender:   {{Amount: 3}},
		},
	}
	// Authoritative lookup resolves nothing for the transaction.
	resolver := NewSolanaResolver(source, &fakeSolanaFetcher{result: map[string]map[string]string{}}, 3, slog.Default())

	previous := "1000000" // raw units at 6 decimals = 1.0 display
	resolved, err := resolver.ResolveBalance(context.Background(), Account{
		Address: "acct1", Owner: "owner1", Mint: "mint1", Decimals: 6,
	}, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), &previous)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	// 1000000 + (10.5+2)*1e6 - 3*1e6 = 10500000
	assert.Equal(t, "10500000", *resolved)
}

func TestAccumulateDeltas_FloorsAtZero(t *testing.T) {
	t.Parallel()

	source := &fakeSource{windowBySide: map[eventsource.Side][]eventsource.Transfer{
		eventsource.SideSender: {{Amount: 50}},
	}}

	previous := "1000"
	resolved, err := accumulateDeltas(context.Background(), source, model.ChainSolana, Account{
		Address: "acct1", Mint: "mint1", Decimals: 6,
	}, time.Now().Add(-24*time.Hour), time.Now(), &previous, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "0", *resolved)
}

func TestEthereumResolver_PinsBalanceOfToLatestBlock(t *testing.T) {
	t.Parallel()

	latest := transferAt("2022-05-31T18:30:00Z", "")
	latest.Transaction = eventsource.TransactionRef{Hash: "0xabc"}
	latest.Block.Height = 14881234

	source := &fakeSource{latestBySide: map[eventsource.Side]*eventsource.Transfer{
		eventsource.SideReceiver: latest,
	}}
	want := ethereum.BalanceQuery{Holder: "0xholder", Block: 14881234}
	fetcher := &fakeEVMFetcher{result: map[ethereum.BalanceQuery]string{
		want: "100000000000000000000000",
	}}
	resolver := NewEthereumResolver(source, fetcher, slog.Default())

	resolved, err := resolver.ResolveBalance(context.Background(), Account{
		Address: "0xholder", Owner: "0xholder", Mint: "0xtoken", Decimals: 18,
	}, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "100000000000000000000000", *resolved)
	require.Len(t, fetcher.queried, 1)
	assert.Equal(t, want, fetcher.queried[0])
}

func TestEthereumResolver_FallbackAccumulatesDeltas(t *testing.T) {
	t.Parallel()

	latest := transferAt("2022-05-31T18:30:00Z", "")
	latest.Transaction = eventsource.TransactionRef{Hash: "0xabc"}
	latest.Block.Height = 14881234

	source := &fakeSource{
		latestBySide: map[eventsource.Side]*eventsource.Transfer{
			eventsource.SideSender: latest,
		},
		windowBySide: map[eventsource.Side][]eventsource.Transfer{
			eventsource.SideReceiver: {{Amount: 4}},
		},
	}
	resolver := NewEthereumResolver(source, &fakeEVMFetcher{result: map[ethereum.BalanceQuery]string{}}, slog.Default())

	resolved, err := resolver.ResolveBalance(context.Background(), Account{
		Address: "0xholder", Mint: "0xtoken", Decimals: 6,
	}, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "4000000", *resolved)
}

func TestLatestOf(t *testing.T) {
	t.Parallel()

	a := transferAt("2022-05-31T00:01:00Z", "a")
	b := transferAt("2022-05-31T00:02:00Z", "b")

	assert.Equal(t, b, latestOf(a, b))
	assert.Equal(t, b, latestOf(b, a))
	assert.Equal(t, a, latestOf(a, nil))
	assert.Equal(t, b, latestOf(nil, b))
	assert.Nil(t, latestOf(nil, nil))

	// Equal timestamps keep the first candidate.
	c := transferAt("2022-05-31T00:01:00Z", "c")
	assert.Equal(t, a, latestOf(a, c))
}
