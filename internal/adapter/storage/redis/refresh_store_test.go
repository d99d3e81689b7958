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

func TestRefreshStore_SaveAndCheck(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRefreshStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", "jti-abc", time.Hour))

	live, err := store.IsLive(ctx, "user-1", "jti-abc")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestRefreshStore_UnknownToken(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRefreshStore(client)

	live, err := store.IsLive(context.Background(), "user-1", "jti-unknown")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestRefreshStore_Revoke(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRefreshStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", "jti-abc", time.Hour))
	require.NoError(t, store.Revoke(ctx, "user-1", "jti-abc"))

	live, err := store.IsLive(ctx, "user-1", "jti-abc")
	require.NoError(t, err)
	assert.False(t, live, "revoked token must not be honored")
}

func TestRefreshStore_Expiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRefreshStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", "jti-short", time.Second))

	s.FastForward(2 * time.Second)

	live, err := store.IsLive(ctx, "user-1", "jti-short")
	require.NoError(t, err)
	assert.False(t, live)
}
