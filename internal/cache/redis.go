package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps the resolution memo in Redis, for deployments
// where several workers share one cache. Keys carry no expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStore{client: client, prefix: "resolution:"}, nil
}

func (s *RedisStore) Get(ctx context.Context, ean string) (Entry, bool, error) {
	var entry Entry
	data, err := s.client.Get(ctx, s.prefix+ean).Bytes()
	if err == redis.Nil {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, fmt.Errorf("cache get %s: %w", ean, err)
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, false, fmt.Errorf("decode cache entry %s: %w", ean, err)
	}
	return entry, true, nil
}

func (s *RedisStore) Put(ctx context.Context, ean string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", ean, err)
	}
	if err := s.client.Set(ctx, s.prefix+ean, data, 0).Err(); err != nil {
		return fmt.Errorf("cache put %s: %w", ean, err)
	}
	return nil
}

// Clear deletes every resolution key under the store's prefix
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
