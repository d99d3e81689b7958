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

func TestCodeStore_PutGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewCodeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "482913", 10*time.Minute))

	code, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "482913", code)
}

func TestCodeStore_Get_Absent(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewCodeStore(client)

	code, err := store.Get(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestCodeStore_Expiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewCodeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "111111", 1*time.Second))

	s.FastForward(2 * time.Second)

	code, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Empty(t, code, "expired code should be gone")
}

func TestCodeStore_IncrAttempts(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewCodeStore(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.IncrAttempts(ctx, "user@example.com", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCodeStore_Put_ResetsAttempts(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewCodeStore(client)
	ctx := context.Background()

	_, err := store.IncrAttempts(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)

	// A fresh code wipes the old counter
	require.NoError(t, store.Put(ctx, "user@example.com", "222222", time.Minute))

	got, err := store.IncrAttempts(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestCodeStore_Delete(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewCodeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "333333", time.Minute))
	require.NoError(t, store.Delete(ctx, "user@example.com"))

	code, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Empty(t, code)
}
