package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_WithinLimit(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := store.Allow(ctx, "1.2.3.4:auth_login", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestRateLimitStore_OverLimit(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	var last bool
	for i := 0; i < 6; i++ {
		result, err := store.Allow(ctx, "1.2.3.4:auth_login", 5, time.Minute)
		require.NoError(t, err)
		last = result.Allowed
	}
	assert.False(t, last, "sixth request should be rejected")
}

func TestRateLimitStore_RemainingCount(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)

	result, err := store.Allow(context.Background(), "key", 10, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(9), result.Remaining)
	assert.Equal(t, int64(10), result.Limit)
}
