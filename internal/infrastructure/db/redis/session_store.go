package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the persisted session fields in a single Redis hash.
// Key format: session:<namespace>
type SessionStore struct {
	client *redis.Client
	key    string
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, namespace string) *SessionStore {
	return &SessionStore{client: client, key: "session:" + namespace}
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, true, nil
}

// SetMany writes all values in one HSET.
func (s *SessionStore) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, s.key, args...).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key, keys...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
