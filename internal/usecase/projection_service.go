package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

type TeamOption struct {
	Key  string
	Name string
}

// Comparison is the side-by-side stat table for one matchup.
type Comparison struct {
	AwayKey  string
	AwayName string
	HomeKey  string
	HomeName string
	Rows     []teamstats.ComparisonRow
}

type ProjectionConfig struct {
	Model projection.Model
	// BatchWorkers bounds concurrent projections in BatchProject.
	BatchWorkers  int
	BatchMaxGames int
}

// ProjectionService runs the lineup model against the current snapshot.
type ProjectionService struct {
	snapshots     SnapshotProvider
	model         projection.Model
	batchWorkers  int
	batchMaxGames int
	logger        *logging.Logger
}

func NewProjectionService(snapshots SnapshotProvider, cfg ProjectionConfig, logger *logging.Logger) (*ProjectionService, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot provider is required")
	}
	if err := cfg.Model.Validate(); err != nil {
		return nil, err
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = defaultBatchWorkers
	}
	if cfg.BatchMaxGames <= 0 {
		cfg.BatchMaxGames = defaultBatchMaxGames
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ProjectionService{
		snapshots:     snapshots,
		model:         cfg.Model,
		batchWorkers:  cfg.BatchWorkers,
		batchMaxGames: cfg.BatchMaxGames,
		logger:        logger.Component("projection"),
	}, nil
}

func (s *ProjectionService) Model() projection.Model {
	return s.model
}

func (s *ProjectionService) projector(ctx context.Context) (*projection.Projector, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}
	p, err := projection.NewProjector(s.model, snap, snap)
	if err != nil {
		return nil, classifyProjectionError(err)
	}
	return p, nil
}

// ListTeams returns every known team ordered by display name.
func (s *ProjectionService) ListTeams(ctx context.Context) ([]TeamOption, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}

	names := snap.ListTeams()
	out := make([]TeamOption, 0, len(names))
	for _, name := range names {
		out = append(out, TeamOption{Key: snap.CanonicalTeamKey(name), Name: name})
	}
	return out, nil
}

func (s *ProjectionService) ListPlayers(ctx context.Context) ([]string, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.ListPlayerNames(), nil
}

func (s *ProjectionService) DefaultLineup(ctx context.Context, team string) (lineup.TeamLineup, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return lineup.TeamLineup{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return lineup.TeamLineup{}, err
	}

	key := snap.CanonicalTeamKey(team)
	if key == "" {
		return lineup.TeamLineup{}, fmt.Errorf("%w: team %q has no usable characters", ErrInvalidInput, team)
	}
	found, ok := snap.DefaultLineup(key)
	if !ok {
		return lineup.TeamLineup{}, fmt.Errorf("%w: no default lineup for team %q", ErrNotFound, team)
	}
	return found, nil
}

func (s *ProjectionService) LineupPER(ctx context.Context, sel lineup.Selection) (projection.LineupBreakdown, error) {
	p, err := s.projector(ctx)
	if err != nil {
		return projection.LineupBreakdown{}, err
	}
	return p.LineupBreakdown(sel), nil
}

func (s *ProjectionService) Project(ctx context.Context, game projection.Game) (projection.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.Project",
		attribute.String("game.away", game.AwayTeam),
		attribute.String("game.home", game.HomeTeam),
	)

	p, err := s.projector(ctx)
	if err != nil {
		finishSpan(span, err)
		return projection.Result{}, err
	}

	result, err := p.Project(game)
	if err != nil {
		err = classifyProjectionError(err)
		finishSpan(span, err)
		return projection.Result{}, err
	}

	s.logger.DebugContext(ctx, "projected game",
		"away", result.Away.TeamKey,
		"home", result.Home.TeamKey,
		"model_spread", result.ModelSpread,
		"model_total", result.ModelTotal,
		"spread_play", result.SpreadPlay,
		"total_play", result.TotalPlay,
	)
	finishSpan(span, nil)
	return result, nil
}

// Compare builds the stat table for away at home.
func (s *ProjectionService) Compare(ctx context.Context, away, home string) (Comparison, error) {
	away = strings.TrimSpace(away)
	home = strings.TrimSpace(home)
	if away == "" || home == "" {
		return Comparison{}, fmt.Errorf("%w: away and home teams are required", ErrInvalidInput)
	}

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return Comparison{}, err
	}

	awayKey := snap.CanonicalTeamKey(away)
	homeKey := snap.CanonicalTeamKey(home)
	if awayKey == "" || homeKey == "" {
		return Comparison{}, fmt.Errorf("%w: team name has no usable characters", ErrInvalidInput)
	}
	if awayKey == homeKey {
		return Comparison{}, fmt.Errorf("%w: %w: %s", ErrInvalidInput, projection.ErrSameTeam, awayKey)
	}

	awayStats := snap.GetTeamStats(awayKey)
	homeStats := snap.GetTeamStats(homeKey)
	return Comparison{
		AwayKey:  awayKey,
		AwayName: displayName(awayStats, awayKey),
		HomeKey:  homeKey,
		HomeName: displayName(homeStats, homeKey),
		Rows:     teamstats.Compare(awayStats, homeStats),
	}, nil
}

func displayName(s teamstats.Snapshot, key string) string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return key
}
