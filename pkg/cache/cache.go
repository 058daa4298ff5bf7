package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Backend is the key-value capability the read-through cache sits on.
// Entries are advisory snapshots with a TTL; absence is always resolvable
// by the loader, so implementations never need atomicity across keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisBackend implements Backend on a shared Redis client.
type RedisBackend struct {
	rdb *redis.Client
}

func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.rdb.Set(ctx, key, value, ttl).Err()
}

// GetOrLoad returns the cached value under key, or invokes loader, stores the
// JSON-encoded result with the given TTL, and returns it.
//
// The cache is best effort: any backend or codec failure degrades to calling
// the loader directly, with a warning log. A cache outage must never fail the
// request it was supposed to speed up.
func GetOrLoad[T any](ctx context.Context, b Backend, logger *logrus.Logger, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	if b != nil {
		raw, ok, err := b.Get(ctx, key)
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithField("key", key).Warn("cache get failed, bypassing")
			}
		} else if ok {
			var cached T
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			} else if logger != nil {
				logger.WithError(err).WithField("key", key).Warn("cache entry undecodable, reloading")
			}
		}
	}

	val, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if b != nil {
		if raw, err := json.Marshal(val); err == nil {
			if err := b.Set(ctx, key, raw, ttl); err != nil && logger != nil {
				logger.WithError(err).WithField("key", key).Warn("cache set failed")
			}
		}
	}
	return val, nil
}
