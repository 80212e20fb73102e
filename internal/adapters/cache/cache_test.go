package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/barcarate/internal/adapters/cache"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newRedis(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewRedisFromClient(client, "test:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

// contract runs the behaviour every backend shares.
func contract(t *testing.T, c cache.Cache) {
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), 0))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	set, err := c.SetNX(ctx, "k", []byte("v2"), 0)
	require.NoError(t, err)
	assert.False(t, set, "SetNX must not overwrite")

	set, err = c.SetNX(ctx, "fresh", []byte("v"), time.Minute)
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Size(ctx))

	type payload struct {
		Name   string  `json:"name"`
		Rating float64 `json:"rating"`
	}
	require.NoError(t, cache.SetJSON(ctx, c, "json", payload{Name: "Pedri", Rating: 8.7}, 0))
	var p payload
	ok, err = cache.GetJSON(ctx, c, "json", &p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "Pedri", Rating: 8.7}, p)
}

func TestMemoryContract(t *testing.T) {
	c := cache.NewMemory()
	assert.Equal(t, cache.BackendMemory, c.Backend())
	contract(t, c)
}

func TestRedisContract(t *testing.T) {
	c, _ := newRedis(t)
	assert.Equal(t, cache.BackendRedis, c.Backend())
	contract(t, c)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Unix(1_700_000_000, 0)}
	c := cache.NewMemory(cache.WithClock(clk.Now))

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Second))
	_, ok, _ := c.Get(ctx, "short")
	assert.True(t, ok)

	clk.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "short")
	assert.False(t, ok, "entry must expire at its deadline")

	set, err := c.SetNX(ctx, "short", []byte("y"), 0)
	require.NoError(t, err)
	assert.True(t, set, "expired keys can be claimed again")
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(cache.WithMaxEntries(3))

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}, 0))
	}
	assert.Equal(t, int64(3), c.Size(ctx))

	for i, want := range []bool{false, false, true, true, true} {
		_, ok, _ := c.Get(ctx, fmt.Sprintf("k%d", i))
		assert.Equal(t, want, ok, "k%d", i)
	}

	// Overwriting refreshes the insertion order.
	require.NoError(t, c.Set(ctx, "k2", []byte("again"), 0))
	require.NoError(t, c.Set(ctx, "k5", []byte{5}, 0))
	_, ok, _ := c.Get(ctx, "k3")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "k2")
	assert.True(t, ok)
}

func TestMemoryEvictsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Unix(1_700_000_000, 0)}
	c := cache.NewMemory(cache.WithMaxEntries(3), cache.WithClock(clk.Now))

	require.NoError(t, c.Set(ctx, "keep", []byte("k"), time.Hour))
	require.NoError(t, c.Set(ctx, "brief-1", []byte("b"), time.Second))
	require.NoError(t, c.Set(ctx, "brief-2", []byte("b"), 2*time.Second))

	clk.Advance(2 * time.Second)
	require.NoError(t, c.Set(ctx, "new-1", []byte("n"), 0))
	require.NoError(t, c.Set(ctx, "new-2", []byte("n"), 0))

	_, ok, _ := c.Get(ctx, "keep")
	assert.True(t, ok, "a live entry must outlast expired ones")
	assert.Equal(t, int64(3), c.Size(ctx))

	// With nothing expired the oldest insertion goes.
	require.NoError(t, c.Set(ctx, "new-3", []byte("n"), 0))
	_, ok, _ = c.Get(ctx, "keep")
	assert.False(t, ok)
}

func TestMemoryConcurrentSetNX(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.SetNX(ctx, "submission", []byte("1"), time.Minute)
			if err == nil && ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestRedisExpiryAndPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	require.NoError(t, c.Set(ctx, "eval", []byte("x"), time.Minute))
	assert.True(t, mr.Exists("test:eval"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := c.Get(ctx, "eval")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisFailure(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)
	mr.Close()

	_, _, err := c.Get(ctx, "k")
	assert.True(t, errors.Is(err, cache.ErrBackend))
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	c, err := cache.New(ctx, cache.Config{})
	require.NoError(t, err)
	assert.Equal(t, cache.BackendMemory, c.Backend())

	mr := miniredis.RunT(t)
	c, err = cache.New(ctx, cache.Config{Backend: "Redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.Equal(t, cache.BackendRedis, c.Backend())
	require.NoError(t, c.Close())

	_, err = cache.New(ctx, cache.Config{Backend: "memcached"})
	assert.True(t, errors.Is(err, cache.ErrUnknownBackend))
}
