package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateToDay(t *testing.T) {
	t.Parallel()

	in := time.Date(2022, 5, 31, 18, 42, 9, 123, time.UTC)
	assert.Equal(t, time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC), TruncateToDay(in))

	// Non-UTC inputs truncate on the UTC calendar.
	loc := time.FixedZone("UTC+9", 9*3600)
	in = time.Date(2022, 6, 1, 3, 0, 0, 0, loc) // 2022-05-31T18:00Z
	assert.Equal(t, time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC), TruncateToDay(in))
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	day, err := ParseDay("2022-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseDay("06/01/2022")
	require.Error(t, err)
}

func TestFormatDay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2022-06-01", FormatDay(time.Date(2022, 6, 1, 23, 59, 59, 0, time.UTC)))
}

func TestNextDay(t *testing.T) {
	t.Parallel()

	next := NextDay(time.Date(2022, 5, 31, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), next)

	// Month and year boundaries roll over.
	next = NextDay(time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), next)
}

func TestParseChain(t *testing.T) {
	t.Parallel()

	chain, err := ParseChain("solana")
	require.NoError(t, err)
	assert.Equal(t, ChainSolana, chain)

	chain, err = ParseChain("ethereum")
	require.NoError(t, err)
	assert.Equal(t, ChainEthereum, chain)

	_, err = ParseChain("dogecoin")
	require.Error(t, err)
}
