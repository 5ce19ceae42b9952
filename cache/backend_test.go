package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend_DeleteDuringRefreshWins(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend[string](DefaultConfig(), time.Minute)
	require.NoError(t, backend.Set(ctx, "k", "v1"))

	deleted := make(chan struct{})
	backend.onHit = func(key string) {
		started := make(chan struct{})
		go func() {
			close(started)
			_ = backend.Delete(ctx, key)
			close(deleted)
		}()
		<-started
		time.Sleep(10 * time.Millisecond)
	}

	value, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", value)

	<-deleted
	backend.onHit = nil
	_, ok, err = backend.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok, "a refresh must not resurrect an invalidated entry")
}

func TestMemoryBackend_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend[[]string](DefaultConfig(), time.Minute)

	_, ok, err := backend.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, backend.Set(ctx, "k", []string{"a", "b"}))
	value, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, value)

	require.NoError(t, backend.Delete(ctx, "k"))
	_, ok, err = backend.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

// stubRedis implements the few redis commands the backend issues. Any other
// call panics through the nil embedded interface.
type stubRedis struct {
	redis.Cmdable

	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newStubRedis() *stubRedis {
	return &stubRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubRedis) GetEx(_ context.Context, key string, expiration time.Duration) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return redis.NewStringResult("", s.err)
	}
	value, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	s.ttls[key] = expiration
	return redis.NewStringResult(value, nil)
}

func (s *stubRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return redis.NewStatusResult("", s.err)
	}
	switch v := value.(type) {
	case []byte:
		s.values[key] = string(v)
	case string:
		s.values[key] = v
	}
	s.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (s *stubRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return redis.NewIntResult(0, s.err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := s.values[key]; ok {
			n++
		}
		delete(s.values, key)
		delete(s.ttls, key)
	}
	return redis.NewIntResult(n, nil)
}

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedisBackend_RoundTripAndSlidingTTL(t *testing.T) {
	ctx := context.Background()
	client := newStubRedis()
	backend := newRedisBackend[cachedThing](client, 3*time.Minute)

	require.NoError(t, backend.Set(ctx, "mentors:category:skill:go", cachedThing{Name: "Go", Count: 2}))
	require.Equal(t, `{"name":"Go","count":2}`, client.values["mentors:category:skill:go"])
	require.Equal(t, 3*time.Minute, client.ttls["mentors:category:skill:go"])

	client.ttls["mentors:category:skill:go"] = time.Second
	value, ok, err := backend.Get(ctx, "mentors:category:skill:go")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cachedThing{Name: "Go", Count: 2}, value)
	require.Equal(t, 3*time.Minute, client.ttls["mentors:category:skill:go"], "GetEx re-stamps the class TTL")

	require.NoError(t, backend.Delete(ctx, "mentors:category:skill:go"))
	_, ok, err = backend.Get(ctx, "mentors:category:skill:go")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisBackend_MissIsNotAnError(t *testing.T) {
	backend := newRedisBackend[cachedThing](newStubRedis(), time.Minute)
	value, ok, err := backend.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, value)
}

func TestRedisBackend_DecodeFailure(t *testing.T) {
	client := newStubRedis()
	client.values["broken"] = "{not json"
	backend := newRedisBackend[cachedThing](client, time.Minute)

	_, ok, err := backend.Get(context.Background(), "broken")
	require.Error(t, err)
	require.False(t, ok)
	require.Contains(t, err.Error(), "cache: decode broken")
}

func TestRedisBackend_TransportErrors(t *testing.T) {
	ctx := context.Background()
	client := newStubRedis()
	client.err = errors.New("connection refused")
	backend := newRedisBackend[cachedThing](client, time.Minute)

	_, _, err := backend.Get(ctx, "k")
	require.ErrorIs(t, err, client.err)
	require.ErrorIs(t, backend.Set(ctx, "k", cachedThing{}), client.err)
	require.ErrorIs(t, backend.Delete(ctx, "k"), client.err)
}

func TestCoordinator_RedisBackend(t *testing.T) {
	ctx := context.Background()
	client := newStubRedis()
	cfg := DefaultConfig()
	cfg.Backend = BackendRedis
	cfg.Redis = client
	coordinator, err := New(cfg)
	require.NoError(t, err)

	_, ok, err := coordinator.GetCategory(ctx, types.CategoryGroupSkill, "Go")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, coordinator.StoreCategory(ctx, types.Category{Group: types.CategoryGroupSkill, Name: "Go", LinkCount: 3}))
	require.Len(t, client.values, 1)

	cached, ok, err := coordinator.GetCategory(ctx, types.CategoryGroupSkill, "go")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, cached.LinkCount)

	require.NoError(t, coordinator.RemoveCategory(ctx, types.CategoryGroupSkill, "GO"))
	require.Empty(t, client.values)
}
