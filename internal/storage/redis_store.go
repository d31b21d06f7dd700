package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// commands is the subset of *redis.Client the store uses.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisStore struct {
	rdb commands
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func linkKey(raw string) string {
	return fmt.Sprintf("links:resolved:%s", raw)
}

// GetResolvedLink returns the cached destination for a short link.
func (s *RedisStore) GetResolvedLink(ctx context.Context, raw string) (string, bool, error) {
	res, err := s.rdb.Get(ctx, linkKey(raw)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return res, true, nil
}

// SetResolvedLink caches a resolution. A non-positive ttl keeps it forever.
func (s *RedisStore) SetResolvedLink(ctx context.Context, raw, resolved string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.rdb.Set(ctx, linkKey(raw), resolved, ttl).Err()
}

// ForgetResolvedLinks drops every cached resolution and reports how many were removed.
func (s *RedisStore) ForgetResolvedLinks(ctx context.Context) (int64, error) {
	var removed int64
	iter := s.rdb.Scan(ctx, 0, linkKey("*"), 256).Iterator()
	for iter.Next(ctx) {
		n, err := s.rdb.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, iter.Err()
}
