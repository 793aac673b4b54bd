// Package cache provide a generic single value cache with a time to live.
package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const flightKey = "refresh"

// ErrNoRefreshFunc is returned when the cache was built without a refresh function
var ErrNoRefreshFunc = errors.New("cache: refresh function is nil")

// RefreshFunc produce a new value for the cache
type RefreshFunc[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value       T
	refreshedAt time.Time
}

// TTLCache hold one value and the time it was produced. The pair is swapped as a whole,
// readers never observe a value with the timestamp of another refresh.
// Concurrent callers that find the value stale share a single refresh.
type TTLCache[T any] struct {
	refresh RefreshFunc[T]
	ttl     time.Duration
	current atomic.Pointer[entry[T]]
	group   singleflight.Group
	waiting atomic.Int64
	now     func() time.Time
}

// NewTTLCache create a new TTLCache, nothing is fetched until the first Get
func NewTTLCache[T any](refresh RefreshFunc[T], ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		refresh: refresh,
		ttl:     ttl,
		now:     time.Now,
	}
}

// TTL return the expiration duration
func (c *TTLCache[T]) TTL() time.Duration {
	return c.ttl
}

// Get return the cached value when it is younger than the TTL, otherwise refresh it.
// A failed refresh return the error and leave the previous value in place, it is never served stale.
// The shared refresh is not tied to any caller, a caller giving up only stop its own wait.
func (c *TTLCache[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if e, ok := c.fresh(); ok {
		return e.value, nil
	}
	refreshCtx := detachedContext{parent: ctx}
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		// another flight may have completed between the freshness check and joining this one
		if e, ok := c.fresh(); ok {
			return e.value, nil
		}
		if c.refresh == nil {
			return nil, ErrNoRefreshFunc
		}
		value, err := c.refresh(refreshCtx)
		if err != nil {
			return nil, err
		}
		c.current.Store(&entry[T]{value: value, refreshedAt: c.now()})
		return value, nil
	})
	c.waiting.Add(1)
	defer c.waiting.Add(-1)

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		value, _ := res.Val.(T)
		return value, nil
	}
}

// Invalidate force the next Get to refresh
func (c *TTLCache[T]) Invalidate() {
	c.current.Store(nil)
}

// RefreshedAt return the time of the last successful refresh, zero if none happened
func (c *TTLCache[T]) RefreshedAt() time.Time {
	if e := c.current.Load(); e != nil {
		return e.refreshedAt
	}
	return time.Time{}
}

func (c *TTLCache[T]) fresh() (*entry[T], bool) {
	e := c.current.Load()
	if e == nil {
		return nil, false
	}
	return e, c.now().Sub(e.refreshedAt) < c.ttl
}

// detachedContext carry the values of parent but is never cancelled
type detachedContext struct {
	parent context.Context
}

func (detachedContext) Deadline() (time.Time, bool) {
	return time.Time{}, false
}

func (detachedContext) Done() <-chan struct{} {
	return nil
}

func (detachedContext) Err() error {
	return nil
}

func (d detachedContext) Value(key interface{}) interface{} {
	return d.parent.Value(key)
}
