package cache

import (
	"context"
	"testing"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			MaxSize:         10,
			TTL:             time.Minute,
			CleanupInterval: time.Minute,
		},
	}
}

func TestManagerSetGet(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "embedding", "chicken, rice", "[0.1,0.2]"))

	val, err := m.Get(ctx, "embedding", "chicken, rice")
	require.NoError(t, err)
	assert.Equal(t, "[0.1,0.2]", val)
}

func TestManagerMiss(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	_, err := m.Get(context.Background(), "embedding", "unknown")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestManagerKindIsolation(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "embedding", "same text", "vector"))
	require.NoError(t, m.Set(ctx, "parse", "same text", "parsed"))

	val, err := m.Get(ctx, "parse", "same text")
	require.NoError(t, err)
	assert.Equal(t, "parsed", val)
}

func TestManagerExpiry(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Cache.TTL = time.Millisecond
	m := NewManager(cfg)
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "embedding", "ephemeral", "value"))
	time.Sleep(5 * time.Millisecond)

	_, err := m.Get(ctx, "embedding", "ephemeral")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestManagerDisabled(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Cache.Enabled = false
	assert.Nil(t, NewManager(cfg))
}
