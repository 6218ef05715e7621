package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.EventSource.PageLimit)
	assert.Equal(t, 25000, cfg.EventSource.MaxOffset)
	assert.Equal(t, time.Second, cfg.EventSource.PageDelay)
	assert.Equal(t, 10, cfg.Ethereum.MaxConcurrentCalls)
	assert.Equal(t, 500, cfg.Sync.ChunkSize)
	assert.Equal(t, 5, cfg.Sync.BalanceRetryLimit)

	// Fallback endpoint defaults to the primary when unset.
	assert.Equal(t, cfg.Solana.RPCURL, cfg.Solana.FallbackRPCURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EVENT_SOURCE_PAGE_LIMIT", "250")
	t.Setenv("SOLANA_FALLBACK_RPC_URL", "https://fallback.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.EventSource.PageLimit)
	assert.Equal(t, "https://fallback.example.com", cfg.Solana.FallbackRPCURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPageLimit(t *testing.T) {
	t.Setenv("EVENT_SOURCE_PAGE_LIMIT", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadTokenSeeds(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.yaml")
	content := `
- chain: solana
  mint: 4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R
  decimals: 6
  name: RLY (Solana)
- chain: ethereum
  mint: "0xf1f955016ecbcd7321c7266bccfb96c68ea5e49b"
  decimals: 18
  name: RLY (Ethereum)
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	seeds, err := LoadTokenSeeds(path)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "solana", seeds[0].Chain)
	assert.Equal(t, 6, seeds[0].Decimals)
	assert.Equal(t, "RLY (Ethereum)", seeds[1].DisplayName)
}

func TestLoadTokenSeeds_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- chain: bitcoin\n  mint: abc\n"), 0o600))

	_, err := LoadTokenSeeds(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("- chain: solana\n  mint: \"\"\n"), 0o600))
	_, err = LoadTokenSeeds(path)
	require.Error(t, err)
}
