package idempotency

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	store := NewMemoryStore[string](Config{})

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Set("k", Entry[string]{Fingerprint: "fp", Response: "v"})
	entry, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "fp", entry.Fingerprint)
	assert.Equal(t, "v", entry.Response)
	assert.Equal(t, 1, store.Len())

	store.Delete("k")
	_, ok = store.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ExpiresAfterWrite(t *testing.T) {
	store := NewMemoryStore[string](Config{TTL: 50 * time.Millisecond})
	store.Set("k", Entry[string]{Fingerprint: "fp", Response: "v"})

	_, ok := store.Get("k")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := store.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryStore_EvictsOldestWhenFull(t *testing.T) {
	store := NewMemoryStore[int](Config{MaxEntries: 2})

	var (
		mu      sync.Mutex
		evicted = map[string]string{}
	)
	store.OnEviction(func(key, reason string) {
		mu.Lock()
		defer mu.Unlock()
		evicted[key] = reason
	})

	store.Set("a", Entry[int]{Response: 1})
	store.Set("b", Entry[int]{Response: 2})
	store.Set("c", Entry[int]{Response: 3})

	assert.Equal(t, 2, store.Len())
	_, ok := store.Get("a")
	assert.False(t, ok)
	_, ok = store.Get("c")
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return evicted["a"] == EvictionCapacity
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryStore_StartStop(t *testing.T) {
	store := NewMemoryStore[string](Config{TTL: 20 * time.Millisecond})

	// Stop before Start must not block.
	store.Stop()

	store.Start()
	store.Start()
	store.Set("k", Entry[string]{Response: "v"})

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)

	store.Stop()
	store.Stop()
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultMaxEntries, cfg.MaxEntries)
	assert.Equal(t, DefaultTTL, cfg.TTL)

	cfg = Config{MaxEntries: 5, TTL: time.Minute}.withDefaults()
	assert.Equal(t, 5, cfg.MaxEntries)
	assert.Equal(t, time.Minute, cfg.TTL)
}

func TestCache_WithMemoryStore(t *testing.T) {
	store := NewMemoryStore[string](Config{MaxEntries: 10, TTL: time.Minute})
	cache := NewCache[string](store, nil, nil)

	_, replayed, err := cache.GetOrCompute("k", "fp", func() (string, error) { return "v", nil })
	require.NoError(t, err)
	assert.False(t, replayed)

	v, replayed, err := cache.GetOrCompute("k", "fp", func() (string, error) { return "other", nil })
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, "v", v)
}

func TestCache_ExpiredKeyIsComputedAgain(t *testing.T) {
	store := NewMemoryStore[string](Config{MaxEntries: 10, TTL: 50 * time.Millisecond})
	cache := NewCache[string](store, nil, nil)

	_, _, err := cache.GetOrCompute("k", "fp-a", func() (string, error) { return "first", nil })
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := store.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)

	calls := 0
	v, replayed, err := cache.GetOrCompute("k", "fp-b", func() (string, error) {
		calls++
		return "second", nil
	})
	require.NoError(t, err, "an expired key accepts a new fingerprint")
	assert.False(t, replayed)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, calls)
}

func TestCache_EvictedKeyIsComputedAgain(t *testing.T) {
	store := NewMemoryStore[string](Config{MaxEntries: 1, TTL: time.Minute})
	cache := NewCache[string](store, nil, nil)

	_, _, err := cache.GetOrCompute("a", "fp-a", func() (string, error) { return "A", nil })
	require.NoError(t, err)
	_, _, err = cache.GetOrCompute("b", "fp-b", func() (string, error) { return "B", nil })
	require.NoError(t, err)

	calls := 0
	v, replayed, err := cache.GetOrCompute("a", "fp-other", func() (string, error) {
		calls++
		return "A2", nil
	})
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "A2", v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.Len())
}
