package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/savedgame"
	idgen "github.com/riskibarqy/nba-lineup-model/internal/platform/id"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

const (
	defaultSavedGamesLimit = 50
	maxSavedGamesLimit     = 500
)

// Projector is the slice of ProjectionService saved games depend on.
type Projector interface {
	Project(ctx context.Context, game projection.Game) (projection.Result, error)
}

type SavedGameService struct {
	projector Projector
	repo      savedgame.Repository
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewSavedGameService(
	projector Projector,
	repo savedgame.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SavedGameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SavedGameService{
		projector: projector,
		repo:      repo,
		idGen:     idGen,
		logger:    logger.Component("saved_games"),
		now:       time.Now,
	}
}

// SaveGame projects game server-side and stores the outcome with its book
// lines, so a saved row always matches what the model said.
func (s *SavedGameService) SaveGame(ctx context.Context, game projection.Game) (savedgame.SavedGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SavedGameService.SaveGame")

	result, err := s.projector.Project(ctx, game)
	if err != nil {
		finishSpan(span, err)
		return savedgame.SavedGame{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		err = fmt.Errorf("generate saved game id: %w", err)
		finishSpan(span, err)
		return savedgame.SavedGame{}, err
	}

	saved := savedgame.FromResult(id, result, s.now())
	if err := saved.Validate(); err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		finishSpan(span, err)
		return savedgame.SavedGame{}, err
	}
	if err := s.repo.Create(ctx, saved); err != nil {
		err = fmt.Errorf("save game: %w", err)
		finishSpan(span, err)
		return savedgame.SavedGame{}, err
	}

	s.logger.InfoContext(ctx, "game saved",
		"saved_game_id", saved.ID,
		"matchup", saved.Matchup(),
		"spread_play", saved.SpreadPlay,
		"total_play", saved.TotalPlay,
	)
	finishSpan(span, nil)
	return saved, nil
}

func (s *SavedGameService) GetSavedGame(ctx context.Context, id string) (savedgame.SavedGame, error) {
	id = strings.TrimSpace(id)
	if !idgen.Valid(id) {
		return savedgame.SavedGame{}, fmt.Errorf("%w: saved game id %q is malformed", ErrInvalidInput, id)
	}

	saved, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return savedgame.SavedGame{}, fmt.Errorf("get saved game: %w", err)
	}
	if !ok {
		return savedgame.SavedGame{}, fmt.Errorf("%w: saved game %s", ErrNotFound, id)
	}
	return saved, nil
}

// ListSavedGames returns newest first. A non-positive limit uses the default.
func (s *SavedGameService) ListSavedGames(ctx context.Context, limit int) ([]savedgame.SavedGame, error) {
	if limit <= 0 {
		limit = defaultSavedGamesLimit
	}
	if limit > maxSavedGamesLimit {
		return nil, fmt.Errorf("%w: limit must be <= %d", ErrInvalidInput, maxSavedGamesLimit)
	}

	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list saved games: %w", err)
	}
	return items, nil
}
