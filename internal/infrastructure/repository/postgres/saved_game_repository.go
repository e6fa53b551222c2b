package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/savedgame"
	qb "github.com/riskibarqy/nba-lineup-model/internal/platform/querybuilder"
)

type SavedGameRepository struct {
	db *sqlx.DB
}

func NewSavedGameRepository(db *sqlx.DB) *SavedGameRepository {
	return &SavedGameRepository{db: db}
}

func (r *SavedGameRepository) Create(ctx context.Context, game savedgame.SavedGame) error {
	insertModel := savedGameInsertModel{
		PublicID:    game.ID,
		AwayTeam:    game.AwayTeam,
		HomeTeam:    game.HomeTeam,
		AwayScore:   game.AwayScore,
		HomeScore:   game.HomeScore,
		AwayWinProb: game.AwayWinProb,
		ModelSpread: game.ModelSpread,
		BookSpread:  nullFloat64(game.BookSpread),
		SpreadPlay:  string(game.SpreadPlay),
		ModelTotal:  game.ModelTotal,
		BookTotal:   nullFloat64(game.BookTotal),
		TotalPlay:   string(game.TotalPlay),
		CreatedAt:   game.CreatedAt,
	}
	query, args, err := qb.InsertModel(savedGamesTable, insertModel, "")
	if err != nil {
		return fmt.Errorf("build create saved game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create saved game: %w", err)
	}

	return nil
}

func (r *SavedGameRepository) GetByID(ctx context.Context, id string) (savedgame.SavedGame, bool, error) {
	query, args, err := qb.Select("*").From(savedGamesTable).
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return savedgame.SavedGame{}, false, fmt.Errorf("build get saved game query: %w", err)
	}

	var row savedGameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return savedgame.SavedGame{}, false, nil
		}
		return savedgame.SavedGame{}, false, fmt.Errorf("get saved game: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SavedGameRepository) List(ctx context.Context, limit int) ([]savedgame.SavedGame, error) {
	query, args, err := qb.Select("*").From(savedGamesTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list saved games query: %w", err)
	}

	var rows []savedGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list saved games: %w", err)
	}

	out := make([]savedgame.SavedGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (m savedGameTableModel) toDomain() savedgame.SavedGame {
	return savedgame.SavedGame{
		ID:          m.PublicID,
		AwayTeam:    m.AwayTeam,
		HomeTeam:    m.HomeTeam,
		AwayScore:   m.AwayScore,
		HomeScore:   m.HomeScore,
		AwayWinProb: m.AwayWinProb,
		ModelSpread: m.ModelSpread,
		BookSpread:  nullFloat64ToFloat64(m.BookSpread),
		SpreadPlay:  projection.Play(m.SpreadPlay),
		ModelTotal:  m.ModelTotal,
		BookTotal:   nullFloat64ToFloat64(m.BookTotal),
		TotalPlay:   projection.Play(m.TotalPlay),
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
