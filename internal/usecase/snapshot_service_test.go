package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

func TestSnapshotService_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{snap: newTestSnapshot()}
	svc := NewSnapshotService(loader, time.Hour, logging.NewNop())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Current(context.Background()); err != nil {
				t.Errorf("current: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("expected one shared load, got %d", got)
	}
}

func TestSnapshotService_Reload(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{snap: newTestSnapshot()}
	svc := NewSnapshotService(loader, time.Hour, logging.NewNop())
	ctx := context.Background()

	if _, err := svc.Current(ctx); err != nil {
		t.Fatalf("current: %v", err)
	}
	info, err := svc.Reload(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload to hit the loader, got %d calls", loader.calls.Load())
	}
	if info.Teams != 3 || info.Players != 2 || info.Lineups != 2 || info.Stale {
		t.Fatalf("unexpected snapshot info %+v", info)
	}
	if info.LoadedAt.IsZero() {
		t.Fatalf("expected load time to be recorded")
	}

	loader.fail(errSheetDown)
	if _, err := svc.Reload(ctx); !errors.Is(err, ErrDependencyUnavailable) || !errors.Is(err, errSheetDown) {
		t.Fatalf("expected wrapped dependency error, got %v", err)
	}
	if _, err := svc.Current(ctx); err != nil {
		t.Fatalf("expected failed reload to keep the cached snapshot, got %v", err)
	}
}

func TestSnapshotService_FirstLoadFailure(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	loader.fail(errSheetDown)
	svc := NewSnapshotService(loader, time.Hour, logging.NewNop())

	_, err := svc.Current(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSnapshotService_ServesStaleAfterExpiry(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{snap: newTestSnapshot()}
	svc := NewSnapshotService(loader, time.Nanosecond, logging.NewNop())
	ctx := context.Background()

	first, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}

	loader.fail(errSheetDown)
	second, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("expected stale snapshot, got %v", err)
	}
	if second != first {
		t.Fatalf("expected the last good snapshot to be served")
	}

	info, err := svc.Info(ctx)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if !info.Stale {
		t.Fatalf("expected info to report a stale snapshot")
	}
}

func TestSnapshotService_NilLoader(t *testing.T) {
	t.Parallel()

	svc := NewSnapshotService(nil, time.Hour, logging.NewNop())
	if _, err := svc.Current(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
