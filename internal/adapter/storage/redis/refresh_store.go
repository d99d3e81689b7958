package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RefreshStore implements ports.RefreshTokenStore using Redis. It is an
// allow-list: a refresh token is honored only while its jti is present.
type RefreshStore struct {
	client *goredis.Client
	prefix string
}

// NewRefreshStore creates a new Redis-backed refresh token store.
func NewRefreshStore(client *goredis.Client) *RefreshStore {
	return &RefreshStore{
		client: client,
		prefix: "refresh:",
	}
}

func (s *RefreshStore) key(userID, tokenID string) string {
	return s.prefix + userID + ":" + tokenID
}

// Save records a live refresh token until its natural expiry.
func (s *RefreshStore) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(userID, tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis refresh save: %w", err)
	}
	return nil
}

// IsLive reports whether the token has not been revoked or expired.
func (s *RefreshStore) IsLive(ctx context.Context, userID, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, s.key(userID, tokenID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis refresh check: %w", err)
	}
	return true, nil
}

// Revoke drops a token from the allow-list (logout, rotation).
func (s *RefreshStore) Revoke(ctx context.Context, userID, tokenID string) error {
	if err := s.client.Del(ctx, s.key(userID, tokenID)).Err(); err != nil {
		return fmt.Errorf("redis refresh revoke: %w", err)
	}
	return nil
}
