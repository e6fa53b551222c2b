package postgres

import (
	"database/sql"
	"time"
)

const savedGamesTable = "saved_games"

type savedGameTableModel struct {
	ID          int64           `db:"id"`
	PublicID    string          `db:"public_id"`
	AwayTeam    string          `db:"away_team"`
	HomeTeam    string          `db:"home_team"`
	AwayScore   float64         `db:"away_score"`
	HomeScore   float64         `db:"home_score"`
	AwayWinProb float64         `db:"away_win_prob"`
	ModelSpread float64         `db:"model_spread"`
	BookSpread  sql.NullFloat64 `db:"book_spread"`
	SpreadPlay  string          `db:"spread_play"`
	ModelTotal  float64         `db:"model_total"`
	BookTotal   sql.NullFloat64 `db:"book_total"`
	TotalPlay   string          `db:"total_play"`
	CreatedAt   time.Time       `db:"created_at"`
}

type savedGameInsertModel struct {
	PublicID    string          `db:"public_id"`
	AwayTeam    string          `db:"away_team"`
	HomeTeam    string          `db:"home_team"`
	AwayScore   float64         `db:"away_score"`
	HomeScore   float64         `db:"home_score"`
	AwayWinProb float64         `db:"away_win_prob"`
	ModelSpread float64         `db:"model_spread"`
	BookSpread  sql.NullFloat64 `db:"book_spread"`
	SpreadPlay  string          `db:"spread_play"`
	ModelTotal  float64         `db:"model_total"`
	BookTotal   sql.NullFloat64 `db:"book_total"`
	TotalPlay   string          `db:"total_play"`
	CreatedAt   time.Time       `db:"created_at"`
}
