package storage

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Load(ctx context.Context, collection string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, "collection:"+collection).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load collection %s: %w", collection, err)
	}
	return val, nil
}

func (s *RedisStore) Save(ctx context.Context, collection string, data []byte) error {
	if err := s.rdb.Set(ctx, "collection:"+collection, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
