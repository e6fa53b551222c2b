package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	loadedAt  time.Time
	expiresAt time.Time
}

// Store is an in-process TTL cache whose loads are coalesced per key.
// A zero ttl keeps entries until they are deleted or reloaded.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	flight  singleflight.Group
	now     func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	value, _, ok := s.lookup(key)
	return value, ok
}

// LoadedAt reports when the live entry for key was stored.
func (s *Store[V]) LoadedAt(key string) (time.Time, bool) {
	_, loadedAt, ok := s.lookup(key)
	return loadedAt, ok
}

func (s *Store[V]) lookup(key string) (V, time.Time, bool) {
	var zero V
	if key == "" {
		return zero, time.Time{}, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, time.Time{}, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, time.Time{}, false
	}

	return e.value, e.loadedAt, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	now := s.now()
	e := entry[V]{value: value, loadedAt: now}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of the same key. Each caller still honors its own ctx while waiting.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	return s.do(ctx, key, func(loadCtx context.Context) (V, error) {
		if cached, ok := s.Get(loadCtx, key); ok {
			return cached, nil
		}
		return s.load(loadCtx, key, loader)
	})
}

// Reload always runs loader and replaces the entry on success. Concurrent
// reloads of the same key share one load. On failure the old entry is kept.
func (s *Store[V]) Reload(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	return s.do(ctx, "reload:"+key, func(loadCtx context.Context) (V, error) {
		return s.load(loadCtx, key, loader)
	})
}

func (s *Store[V]) load(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	loaded, err := loader(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	s.Set(ctx, key, loaded)
	return loaded, nil
}

func (s *Store[V]) do(ctx context.Context, flightKey string, fn func(context.Context) (V, error)) (V, error) {
	var zero V
	// The shared load must outlive any single waiter that gives up.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(flightKey, func() (any, error) {
		return fn(loadCtx)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		value, ok := res.Val.(V)
		if !ok {
			return zero, fmt.Errorf("cache: unexpected value type %T", res.Val)
		}
		return value, nil
	}
}
