// Package idempotency deduplicates requests by idempotency key.
//
// A Cache remembers the response of the first request made with a key and
// replays it to every later request with the same key and fingerprint.
// Concurrent first requests share one computation.
package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	// DefaultMaxEntries bounds the number of remembered keys.
	DefaultMaxEntries = 10000
	// DefaultTTL is how long a key is remembered after it was stored.
	DefaultTTL = 600 * time.Second
)

// Entry is a stored response together with the fingerprint of the request
// that produced it.
type Entry[V any] struct {
	Fingerprint string
	Response    V
	CreatedAt   time.Time
}

// Store holds entries by idempotency key.
// Implementations must be safe for concurrent use.
type Store[V any] interface {
	// Get returns the live entry for key.
	Get(key string) (Entry[V], bool)

	// Set stores entry under key, replacing any previous entry.
	Set(key string, entry Entry[V])

	// Delete removes key.
	Delete(key string)

	// Len returns the number of stored entries.
	Len() int
}

// Config controls the size and lifetime of a MemoryStore.
type Config struct {
	MaxEntries int
	TTL        time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}

// Eviction reasons reported to OnEviction handlers.
const (
	EvictionExpired  = "expired"
	EvictionCapacity = "capacity"
	EvictionDeleted  = "deleted"
)

// MemoryStore is an in-process Store. When full it evicts the least
// recently used key; entries expire TTL after they were written and reads
// do not extend their lifetime.
type MemoryStore[V any] struct {
	cache *ttlcache.Cache[string, Entry[V]]

	mu      sync.Mutex
	started bool
}

// NewMemoryStore creates a store. Call Start to purge expired entries in
// the background and Stop to release it.
func NewMemoryStore[V any](cfg Config) *MemoryStore[V] {
	cfg = cfg.withDefaults()

	return &MemoryStore[V]{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, Entry[V]](cfg.TTL),
			ttlcache.WithCapacity[string, Entry[V]](uint64(cfg.MaxEntries)),
			ttlcache.WithDisableTouchOnHit[string, Entry[V]](),
		),
	}
}

func (s *MemoryStore[V]) Get(key string) (Entry[V], bool) {
	item := s.cache.Get(key)
	if item == nil {
		return Entry[V]{}, false
	}
	return item.Value(), true
}

func (s *MemoryStore[V]) Set(key string, entry Entry[V]) {
	s.cache.Set(key, entry, ttlcache.DefaultTTL)
}

func (s *MemoryStore[V]) Delete(key string) {
	s.cache.Delete(key)
}

func (s *MemoryStore[V]) Len() int {
	return s.cache.Len()
}

// OnEviction registers fn to be called whenever a key leaves the store.
// The returned func unregisters it.
func (s *MemoryStore[V]) OnEviction(fn func(key, reason string)) func() {
	return s.cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, Entry[V]]) {
		fn(item.Key(), evictionReason(reason))
	})
}

// Start launches the expiry janitor. It is a no-op if already running.
func (s *MemoryStore[V]) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	go s.cache.Start()
}

// Stop halts the expiry janitor. It is a no-op if Start was never called.
func (s *MemoryStore[V]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cache.Stop()
	s.started = false
}

func evictionReason(reason ttlcache.EvictionReason) string {
	switch reason {
	case ttlcache.EvictionReasonExpired:
		return EvictionExpired
	case ttlcache.EvictionReasonCapacityReached:
		return EvictionCapacity
	default:
		return EvictionDeleted
	}
}

// Compile-time check that MemoryStore implements Store
var _ Store[struct{}] = (*MemoryStore[struct{}])(nil)
