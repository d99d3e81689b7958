package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CodeStore implements ports.CodeStore using Redis. Codes expire with their
// TTL, so expiry is enforced by the store rather than re-checked by callers.
type CodeStore struct {
	client *goredis.Client
	prefix string
}

// NewCodeStore creates a new Redis-backed verification code store.
func NewCodeStore(client *goredis.Client) *CodeStore {
	return &CodeStore{
		client: client,
		prefix: "verify:",
	}
}

// Put stores a code under key with a TTL, resetting the attempt counter.
func (s *CodeStore) Put(ctx context.Context, key, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis code put: %w", err)
	}
	if err := s.client.Del(ctx, s.prefix+"attempts:"+key).Err(); err != nil {
		return fmt.Errorf("redis code attempts reset: %w", err)
	}
	return nil
}

// Get returns the stored code, or "" if absent or expired.
func (s *CodeStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis code get: %w", err)
	}
	return val, nil
}

// IncrAttempts bumps and returns the failed-attempt counter for key. The
// counter expires together with the code.
func (s *CodeStore) IncrAttempts(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	attemptsKey := s.prefix + "attempts:" + key
	count, err := s.client.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis code attempts incr: %w", err)
	}
	if count == 1 {
		s.client.Expire(ctx, attemptsKey, ttl)
	}
	return count, nil
}

// Delete removes a code and its attempt counter.
func (s *CodeStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key, s.prefix+"attempts:"+key).Err(); err != nil {
		return fmt.Errorf("redis code delete: %w", err)
	}
	return nil
}
