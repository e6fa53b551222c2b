package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || first != 1 {
		t.Fatalf("first load = %d, %v", first, err)
	}
	now = now.Add(30 * time.Second)
	if cached, _ := store.GetOrLoad(context.Background(), "k", loader); cached != 1 {
		t.Fatalf("expected cached value inside ttl, got %d", cached)
	}
	if loadedAt, ok := store.LoadedAt("k"); !ok || !loadedAt.Equal(now.Add(-30*time.Second)) {
		t.Fatalf("unexpected loaded at %v (%v)", loadedAt, ok)
	}

	now = now.Add(31 * time.Second)
	if fresh, _ := store.GetOrLoad(context.Background(), "k", loader); fresh != 2 {
		t.Fatalf("expected reload after ttl, got %d", fresh)
	}
}

func TestStore_ReloadKeepsOldValueOnFailure(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0)
	store.Set(context.Background(), "snapshot", "v1")

	failing := func(context.Context) (string, error) { return "", errBoom }
	if _, err := store.Reload(context.Background(), "snapshot", failing); !errors.Is(err, errBoom) {
		t.Fatalf("expected reload error, got %v", err)
	}
	if got, ok := store.Get(context.Background(), "snapshot"); !ok || got != "v1" {
		t.Fatalf("expected old value to survive, got %q (%v)", got, ok)
	}

	ok := func(context.Context) (string, error) { return "v2", nil }
	if got, err := store.Reload(context.Background(), "snapshot", ok); err != nil || got != "v2" {
		t.Fatalf("reload = %q, %v", got, err)
	}
	if got, _ := store.Get(context.Background(), "snapshot"); got != "v2" {
		t.Fatalf("expected reloaded value, got %q", got)
	}
}

func TestStore_WaiterHonorsOwnContext(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	release := make(chan struct{})
	slow := func(context.Context) (string, error) {
		<-release
		return "late", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetOrLoad(ctx, "k", slow); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled waiter, got %v", err)
	}

	close(release)
	got, err := store.GetOrLoad(context.Background(), "k", slow)
	if err != nil || got != "late" {
		t.Fatalf("expected shared load to finish, got %q, %v", got, err)
	}
}

var (
	errUnexpectedValue = errors.New("unexpected loaded value")
	errBoom            = errors.New("boom")
)
