package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. TTL expiry is handled by the
// server; Clear removes only keys under the store's namespace.
type RedisStore struct {
	rdb       *redis.Client
	namespace string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Store over rdb. If namespace is empty it uses
// "disclosure".
func NewRedisStore(rdb *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "disclosure"
	}
	return &RedisStore{rdb: rdb, namespace: namespace}
}

func (r *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", r.namespace, key)
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return r.rdb.Set(ctx, r.key(key), payload, ttl).Err()
}

func (r *RedisStore) Invalidate(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}

// Clear deletes all namespaced keys using SCAN so the server is never
// blocked by a KEYS call.
func (r *RedisStore) Clear(ctx context.Context) error {
	pattern := r.namespace + ":*"
	var cursor uint64
	for {
		keys, cur, err := r.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}
