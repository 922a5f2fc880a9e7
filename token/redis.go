package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the pair in one redis hash so that headless consumers
// (report workers, integrations) can share a session across replicas. Both
// fields live under a single key, written by a single HSET and removed by a
// single DEL, which keeps loads all-or-nothing.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore stores the pair under key. A zero ttl keeps the pair until
// Clear; a positive ttl should exceed the refresh token lifetime.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, pair Pair) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key, "accessToken", pair.AccessToken, "refreshToken", pair.RefreshToken)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("token redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (Pair, error) {
	values, err := s.client.HMGet(ctx, s.key, "accessToken", "refreshToken").Result()
	if err != nil {
		return Pair{}, fmt.Errorf("token redis load: %w", err)
	}
	var pair Pair
	if v, ok := values[0].(string); ok {
		pair.AccessToken = v
	}
	if v, ok := values[1].(string); ok {
		pair.RefreshToken = v
	}
	return pair, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("token redis clear: %w", err)
	}
	return nil
}
