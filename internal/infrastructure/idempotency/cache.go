package idempotency

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrConflict is returned when a key is reused with a different request.
	ErrConflict = errors.New("idempotency key reused with a different request")

	// ErrInvalidKey is returned for an empty idempotency key.
	ErrInvalidKey = errors.New("idempotency key must not be empty")
)

// Outcome classifies one GetOrCompute call.
type Outcome string

const (
	OutcomeHit      Outcome = "hit"
	OutcomeComputed Outcome = "computed"
	OutcomeConflict Outcome = "conflict"
	OutcomeError    Outcome = "error"
)

// Observer is told the outcome of every GetOrCompute call.
type Observer func(Outcome)

// Cache runs each keyed computation at most once and replays its result.
type Cache[V any] struct {
	store    Store[V]
	group    singleflight.Group
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// NewCache wraps store. logger and observer may be nil.
func NewCache[V any](store Store[V], logger *slog.Logger, observer Observer) *Cache[V] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache[V]{
		store:    store,
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

// GetOrCompute returns the response remembered for key, or runs compute and
// remembers its result. replayed is false only for the caller whose compute
// produced the response.
//
// A remembered response whose fingerprint differs from fingerprint yields
// ErrConflict and is left in place. A failed compute is not remembered; its
// error goes to the caller that ran it and waiting callers try again.
func (c *Cache[V]) GetOrCompute(key, fingerprint string, compute func() (V, error)) (response V, replayed bool, err error) {
	if key == "" {
		return response, false, ErrInvalidKey
	}

	for {
		if entry, ok := c.store.Get(key); ok {
			return c.replay(key, fingerprint, entry)
		}

		// singleflight runs the closure on the goroutine that won the flight,
		// so this flag is only ever set for that caller.
		computed := false
		result, flightErr, _ := c.group.Do(key, func() (any, error) {
			if entry, ok := c.store.Get(key); ok {
				return entry, nil
			}

			computed = true
			v, err := compute()
			if err != nil {
				return nil, err
			}

			entry := Entry[V]{Fingerprint: fingerprint, Response: v, CreatedAt: c.now()}
			c.store.Set(key, entry)
			return entry, nil
		})

		if computed {
			if flightErr != nil {
				c.observe(OutcomeError)
				c.logger.Warn("idempotent computation failed", "key", key, "error", flightErr)
				return response, false, flightErr
			}
			c.observe(OutcomeComputed)
			c.logger.Debug("idempotent response stored", "key", key)
			return result.(Entry[V]).Response, false, nil
		}

		if flightErr != nil {
			c.logger.Debug("shared computation failed, retrying", "key", key)
			continue
		}
		return c.replay(key, fingerprint, result.(Entry[V]))
	}
}

func (c *Cache[V]) replay(key, fingerprint string, entry Entry[V]) (V, bool, error) {
	if entry.Fingerprint != fingerprint {
		var zero V
		c.observe(OutcomeConflict)
		c.logger.Warn("idempotency key conflict", "key", key)
		return zero, false, fmt.Errorf("%w: %q", ErrConflict, key)
	}

	c.observe(OutcomeHit)
	return entry.Response, true, nil
}

func (c *Cache[V]) observe(o Outcome) {
	if c.observer != nil {
		c.observer(o)
	}
}
