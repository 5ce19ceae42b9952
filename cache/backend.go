package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/maphash"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/viccon/sturdyc"
)

// Backend stores one entity class. Every read that hits extends the entry's
// lifetime by the class TTL.
type Backend[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
}

const memoryStripes = 64

// memoryBackend refreshes an entry by writing it back on hit. The read and
// the write-back hold the key's stripe lock, as do Set and Delete, so an
// invalidation can never be undone by a concurrent refresh.
type memoryBackend[T any] struct {
	client  *sturdyc.Client[T]
	seed    maphash.Seed
	stripes [memoryStripes]sync.Mutex
	// onHit runs between the read and the write-back. Tests only.
	onHit func(key string)
}

func newMemoryBackend[T any](cfg Config, ttl time.Duration) *memoryBackend[T] {
	return &memoryBackend[T]{
		client: sturdyc.New[T](cfg.Capacity, cfg.NumShards, ttl, cfg.EvictionPercentage),
		seed:   maphash.MakeSeed(),
	}
}

func (b *memoryBackend[T]) lock(key string) *sync.Mutex {
	mu := &b.stripes[maphash.String(b.seed, key)%memoryStripes]
	mu.Lock()
	return mu
}

func (b *memoryBackend[T]) Get(_ context.Context, key string) (T, bool, error) {
	mu := b.lock(key)
	defer mu.Unlock()
	value, ok := b.client.Get(key)
	if !ok {
		var zero T
		return zero, false, nil
	}
	if b.onHit != nil {
		b.onHit(key)
	}
	// sturdyc stamps a fresh expiry on every write.
	b.client.Set(key, value)
	return value, true, nil
}

func (b *memoryBackend[T]) Set(_ context.Context, key string, value T) error {
	mu := b.lock(key)
	defer mu.Unlock()
	b.client.Set(key, value)
	return nil
}

func (b *memoryBackend[T]) Delete(_ context.Context, key string) error {
	mu := b.lock(key)
	defer mu.Unlock()
	b.client.Delete(key)
	return nil
}

type redisBackend[T any] struct {
	client redis.Cmdable
	ttl    time.Duration
}

func newRedisBackend[T any](client redis.Cmdable, ttl time.Duration) *redisBackend[T] {
	return &redisBackend[T]{client: client, ttl: ttl}
}

func (b *redisBackend[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var value T
	raw, err := b.client.GetEx(ctx, key, b.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("cache: redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return value, true, nil
}

func (b *redisBackend[T]) Set(ctx context.Context, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := b.client.Set(ctx, key, payload, b.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %s: %w", key, err)
	}
	return nil
}

func (b *redisBackend[T]) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: redis del %s: %w", key, err)
	}
	return nil
}
