package postgres

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

func TestSavedGameTableModel_ToDomain(t *testing.T) {
	created := time.Date(2026, 3, 1, 20, 0, 0, 0, time.FixedZone("EST", -5*3600))
	row := savedGameTableModel{
		ID:          9,
		PublicID:    "0191e1a4-0000-7000-8000-000000000001",
		AwayTeam:    "Boston",
		HomeTeam:    "Miami",
		AwayScore:   112.4,
		HomeScore:   108.9,
		AwayWinProb: 0.64,
		ModelSpread: -3.5,
		BookSpread:  sql.NullFloat64{Float64: -1.5, Valid: true},
		SpreadPlay:  string(projection.PlayBetAway),
		ModelTotal:  221.3,
		TotalPlay:   string(projection.PlayNoBet),
		CreatedAt:   created,
	}

	got := row.toDomain()
	if got.ID != row.PublicID || got.BookSpread != -1.5 || got.SpreadPlay != projection.PlayBetAway {
		t.Fatalf("unexpected saved game: %+v", got)
	}
	if !math.IsNaN(got.BookTotal) {
		t.Fatalf("expected NULL book total to map to NaN, got %v", got.BookTotal)
	}
	if got.CreatedAt.Location() != time.UTC || !got.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at normalized to UTC, got %v", got.CreatedAt)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("expected valid saved game: %v", err)
	}
}
