package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/player"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/cache"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

const snapshotCacheKey = "stats-snapshot"

// Snapshot is one immutable load of the stats workbook.
type Snapshot interface {
	teamstats.Repository
	player.Repository
	lineup.Repository
	Counts() (teams, players, lineups int)
}

type SnapshotLoader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// SnapshotLoaderFunc adapts a function to SnapshotLoader.
type SnapshotLoaderFunc func(ctx context.Context) (Snapshot, error)

func (f SnapshotLoaderFunc) Load(ctx context.Context) (Snapshot, error) {
	return f(ctx)
}

// SnapshotProvider hands out the current snapshot.
type SnapshotProvider interface {
	Current(ctx context.Context) (Snapshot, error)
}

type SnapshotInfo struct {
	Teams    int       `json:"teams"`
	Players  int       `json:"players"`
	Lineups  int       `json:"lineups"`
	LoadedAt time.Time `json:"loaded_at"`
	Stale    bool      `json:"stale"`
}

// SnapshotService caches the loaded snapshot for a TTL. Concurrent callers
// share one load. When a refresh fails after expiry the last good snapshot
// keeps serving.
type SnapshotService struct {
	loader SnapshotLoader
	store  *cache.Store[Snapshot]
	logger *logging.Logger
	now    func() time.Time

	mu           sync.RWMutex
	lastGood     Snapshot
	lastLoadedAt time.Time
}

func NewSnapshotService(loader SnapshotLoader, ttl time.Duration, logger *logging.Logger) *SnapshotService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SnapshotService{
		loader: loader,
		store:  cache.NewStore[Snapshot](ttl),
		logger: logger.Component("snapshot"),
		now:    time.Now,
	}
}

func (s *SnapshotService) Current(ctx context.Context) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Current")
	snap, err := s.store.GetOrLoad(ctx, snapshotCacheKey, s.load)
	if err == nil {
		finishSpan(span, nil)
		return snap, nil
	}

	if stale, _ := s.last(); stale != nil && !errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "serving stale stats snapshot", "error", err)
		finishSpan(span, nil)
		return stale, nil
	}

	err = dependencyError(err)
	finishSpan(span, err)
	return nil, err
}

// Reload forces a fresh load. The cached snapshot is only replaced when the
// load succeeds.
func (s *SnapshotService) Reload(ctx context.Context) (SnapshotInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Reload")

	start := s.now()
	snap, err := s.store.Reload(ctx, snapshotCacheKey, s.load)
	if err != nil {
		err = dependencyError(err)
		s.logger.ErrorContext(ctx, "reload stats snapshot failed", "error", err)
		finishSpan(span, err)
		return SnapshotInfo{}, err
	}

	info := s.describe(snap, false)
	s.logger.InfoContext(ctx, "stats snapshot reloaded",
		"teams", info.Teams,
		"players", info.Players,
		"lineups", info.Lineups,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	finishSpan(span, nil)
	return info, nil
}

// Info describes the snapshot currently served, loading it when needed.
func (s *SnapshotService) Info(ctx context.Context) (SnapshotInfo, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return SnapshotInfo{}, err
	}
	_, fresh := s.store.Get(ctx, snapshotCacheKey)
	return s.describe(snap, !fresh), nil
}

func (s *SnapshotService) load(ctx context.Context) (Snapshot, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("%w: snapshot loader is not configured", ErrDependencyUnavailable)
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats snapshot: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: snapshot loader returned nothing", ErrDependencyUnavailable)
	}

	s.mu.Lock()
	s.lastGood = snap
	s.lastLoadedAt = s.now()
	s.mu.Unlock()
	return snap, nil
}

func (s *SnapshotService) last() (Snapshot, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastGood, s.lastLoadedAt
}

func (s *SnapshotService) describe(snap Snapshot, stale bool) SnapshotInfo {
	teams, players, lineups := snap.Counts()
	_, loadedAt := s.last()
	return SnapshotInfo{
		Teams:    teams,
		Players:  players,
		Lineups:  lineups,
		LoadedAt: loadedAt,
		Stale:    stale,
	}
}

func dependencyError(err error) error {
	if err == nil || errors.Is(err, ErrDependencyUnavailable) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
}
