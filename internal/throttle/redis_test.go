package throttle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *redis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: s.Addr()})
}

func TestRedisStore_UnderLimit(t *testing.T) {
	rdb := setupMiniredis(t)
	store := NewRedisStore(rdb, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := store.Admit(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
}

func TestRedisStore_OverLimit(t *testing.T) {
	rdb := setupMiniredis(t)
	store := NewRedisStore(rdb, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Admit(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	allowed, err := store.Admit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisStore_SlidingWindow(t *testing.T) {
	rdb := setupMiniredis(t)
	store := NewRedisStore(rdb, 3, time.Minute)
	ctx := context.Background()

	// Seed entries older than the window; they must be swept, not counted.
	key := redisKeyPrefix + "origin"
	oldScore := float64(time.Now().Add(-2 * time.Minute).UnixMilli())
	for i := 0; i < 3; i++ {
		rdb.ZAdd(ctx, key, redis.Z{Score: oldScore + float64(i), Member: fmt.Sprintf("old:%d", i)})
	}

	allowed, err := store.Admit(ctx, "origin")
	require.NoError(t, err)
	assert.True(t, allowed, "expired entries must not count against the limit")
}

func TestRedisStore_DifferentOrigins(t *testing.T) {
	rdb := setupMiniredis(t)
	store := NewRedisStore(rdb, 1, time.Minute)
	ctx := context.Background()

	_, err := store.Admit(ctx, "origin-a")
	require.NoError(t, err)

	allowed, err := store.Admit(ctx, "origin-a")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = store.Admit(ctx, "origin-b")
	require.NoError(t, err)
	assert.True(t, allowed)
}
