package eventsource

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
)

func testPager(limit, maxOffset int) *Pager {
	return NewPager(limit, maxOffset, 0, slog.Default())
}

func makeTransfers(n int) []Transfer {
	transfers := make([]Transfer, n)
	for i := range transfers {
		transfers[i].Amount = float64(i)
	}
	return transfers
}

func TestPager_SinglePage(t *testing.T) {
	t.Parallel()

	pager := testPager(10, 1000)
	calls := 0

	all, err := pager.FetchAll(context.Background(), model.ChainSolana, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		calls++
		assert.Equal(t, 10, limit)
		assert.Equal(t, 0, offset)
		return makeTransfers(3), nil
	})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 1, calls)
}

func TestPager_MultiplePages(t *testing.T) {
	t.Parallel()

	pager := testPager(10, 1000)
	var offsets []int

	all, err := pager.FetchAll(context.Background(), model.ChainSolana, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		offsets = append(offsets, offset)
		if offset >= 20 {
			return makeTransfers(4), nil
		}
		return makeTransfers(10), nil
	})
	require.NoError(t, err)
	assert.Len(t, all, 24)
	assert.Equal(t, []int{0, 10, 20}, offsets)
}

func TestPager_ExactMultipleEndsOnEmptyPage(t *testing.T) {
	t.Parallel()

	pager := testPager(10, 1000)
	calls := 0

	all, err := pager.FetchAll(context.Background(), model.ChainSolana, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		calls++
		if offset >= 10 {
			return nil, nil
		}
		return makeTransfers(10), nil
	})
	require.NoError(t, err)
	assert.Len(t, all, 10)
	assert.Equal(t, 2, calls)
}

func TestPager_OffsetCeiling(t *testing.T) {
	t.Parallel()

	pager := testPager(10, 25)
	calls := 0

	all, err := pager.FetchAll(context.Background(), model.ChainSolana, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		calls++
		return makeTransfers(10), nil
	})
	require.NoError(t, err)
	// Offsets 0, 10, 20 are within the ceiling; 30 is not.
	assert.Equal(t, 3, calls)
	assert.Len(t, all, 30)
}

func TestPager_ErrorReturnsCollectedRows(t *testing.T) {
	t.Parallel()

	pager := testPager(10, 1000)

	all, err := pager.FetchAll(context.Background(), model.ChainEthereum, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		if offset == 10 {
			return nil, errors.New("boom")
		}
		return makeTransfers(10), nil
	})
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestPager_FirstPageErrorReturnsEmpty(t *testing.T) {
	t.Parallel()

	pager := testPager(10, 1000)

	all, err := pager.FetchAll(context.Background(), model.ChainEthereum, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPager_ContextCancelDuringDelay(t *testing.T) {
	t.Parallel()

	pager := NewPager(10, 1000, 10*time.Second, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())

	all, err := pager.FetchAll(ctx, model.ChainSolana, func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		cancel()
		return makeTransfers(10), nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, all, 10)
}

func TestNewPager_Defaults(t *testing.T) {
	t.Parallel()

	pager := NewPager(0, 0, -1, slog.Default())
	assert.Equal(t, defaultPageLimit, pager.Limit)
	assert.Equal(t, defaultMaxOffset, pager.MaxOffset)
	assert.Equal(t, defaultPageDelay, pager.Delay)
}
