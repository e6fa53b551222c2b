package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/savedgame"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
	savedgamemock "github.com/riskibarqy/nba-lineup-model/internal/mocks/domain/savedgame"
)

const testSavedGameID = "0192a4c1-7c3e-7b2a-9d41-6f0e2b8c5a10"

func newTestSavedGameService(t *testing.T, repo savedgame.Repository, ids fixedIDs) *SavedGameService {
	t.Helper()
	svc := NewSavedGameService(newTestProjectionService(staticSnapshots{snap: newTestSnapshot()}), repo, ids, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 11, 3, 1, 30, 0, 0, time.UTC) }
	return svc
}

func TestSavedGameService_SaveGame(t *testing.T) {
	t.Parallel()

	repo := savedgamemock.NewRepository(t)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(g savedgame.SavedGame) bool {
		return g.ID == testSavedGameID &&
			g.AwayTeam == "Boston" &&
			g.HomeTeam == "Miami" &&
			g.ModelTotal == 118 &&
			math.IsNaN(g.BookSpread) &&
			g.BookTotal == 200
	})).Return(nil).Once()

	svc := newTestSavedGameService(t, repo, fixedIDs{id: testSavedGameID})
	got, err := svc.SaveGame(context.Background(), projection.Game{
		AwayTeam:   "Boston",
		HomeTeam:   "Miami",
		BookSpread: projection.NoLine(),
		BookTotal:  200,
	})
	require.NoError(t, err)
	require.Equal(t, projection.PlayNoBet, got.SpreadPlay)
	require.Equal(t, projection.PlayBetUnder, got.TotalPlay)
	require.Equal(t, time.Date(2025, 11, 3, 1, 30, 0, 0, time.UTC), got.CreatedAt)
}

func TestSavedGameService_SaveGameFailures(t *testing.T) {
	t.Parallel()

	t.Run("invalid game never reaches the repository", func(t *testing.T) {
		t.Parallel()
		repo := savedgamemock.NewRepository(t)
		svc := newTestSavedGameService(t, repo, fixedIDs{id: testSavedGameID})
		_, err := svc.SaveGame(context.Background(), projection.Game{AwayTeam: "Miami", HomeTeam: "Miami"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("id generation", func(t *testing.T) {
		t.Parallel()
		repo := savedgamemock.NewRepository(t)
		svc := newTestSavedGameService(t, repo, fixedIDs{err: errors.New("entropy exhausted")})
		if _, err := svc.SaveGame(context.Background(), projection.Game{AwayTeam: "Boston", HomeTeam: "Miami"}); err == nil {
			t.Fatalf("expected id generation error")
		}
	})

	t.Run("repository error", func(t *testing.T) {
		t.Parallel()
		repo := savedgamemock.NewRepository(t)
		repo.On("Create", mock.Anything, mock.AnythingOfType("savedgame.SavedGame")).Return(errors.New("db down")).Once()
		svc := newTestSavedGameService(t, repo, fixedIDs{id: testSavedGameID})
		if _, err := svc.SaveGame(context.Background(), projection.Game{AwayTeam: "Boston", HomeTeam: "Miami"}); err == nil {
			t.Fatalf("expected repository error")
		}
	})
}

func TestSavedGameService_GetSavedGame(t *testing.T) {
	t.Parallel()

	repo := savedgamemock.NewRepository(t)
	repo.On("GetByID", mock.Anything, testSavedGameID).Return(savedgame.SavedGame{ID: testSavedGameID}, true, nil).Once()
	repo.On("GetByID", mock.Anything, "0192a4c1-7c3e-7b2a-9d41-000000000000").Return(savedgame.SavedGame{}, false, nil).Once()

	svc := newTestSavedGameService(t, repo, fixedIDs{})

	got, err := svc.GetSavedGame(context.Background(), " "+testSavedGameID+" ")
	require.NoError(t, err)
	require.Equal(t, testSavedGameID, got.ID)

	if _, err := svc.GetSavedGame(context.Background(), "0192a4c1-7c3e-7b2a-9d41-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetSavedGame(context.Background(), "42"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSavedGameService_ListSavedGames(t *testing.T) {
	t.Parallel()

	repo := savedgamemock.NewRepository(t)
	repo.On("List", mock.Anything, defaultSavedGamesLimit).Return([]savedgame.SavedGame{{ID: "a"}}, nil).Once()
	repo.On("List", mock.Anything, 10).Return([]savedgame.SavedGame{}, nil).Once()

	svc := newTestSavedGameService(t, repo, fixedIDs{})

	items, err := svc.ListSavedGames(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.ListSavedGames(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, items)

	if _, err := svc.ListSavedGames(context.Background(), maxSavedGamesLimit+1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
