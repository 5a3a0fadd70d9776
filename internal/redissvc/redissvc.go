// Package redissvc is a JSON cache-aside layer over Redis.
package redissvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	rdb    *redis.Client
	ctx    context.Context
	prefix string
	ttl    time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
	errs   atomic.Uint64
}

// NewRedisService keys every entry under prefix and expires it after ttl.
func NewRedisService(rdb *redis.Client, ctx context.Context, prefix string, ttl time.Duration) *RedisService {
	return &RedisService{
		rdb:    rdb,
		ctx:    ctx,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

func (a *RedisService) Ctx() context.Context {
	return a.ctx
}

// Get decodes the cached value for key into dest. It reports false on a miss.
func (a *RedisService) Get(key string, dest any) (bool, error) {
	data, err := a.rdb.Get(a.ctx, a.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			a.misses.Add(1)
			return false, nil
		}
		a.errs.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		a.errs.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	a.hits.Add(1)
	return true, nil
}

func (a *RedisService) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		a.errs.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := a.rdb.Set(a.ctx, a.prefix+key, data, a.ttl).Err(); err != nil {
		a.errs.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (a *RedisService) Delete(keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = a.prefix + k
	}
	if err := a.rdb.Del(a.ctx, full...).Err(); err != nil {
		a.errs.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// Stats is a snapshot of the cache counters.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Errors uint64 `json:"errors"`
}

func (a *RedisService) Stats() Stats {
	return Stats{Hits: a.hits.Load(), Misses: a.misses.Load(), Errors: a.errs.Load()}
}

func (a *RedisService) Ping() error {
	return a.rdb.Ping(a.ctx).Err()
}
