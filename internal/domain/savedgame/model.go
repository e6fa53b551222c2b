package savedgame

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

// SavedGame is one projection a user chose to keep, with the book lines it
// was priced against. BookSpread and BookTotal are NaN when not supplied.
type SavedGame struct {
	ID          string
	AwayTeam    string
	HomeTeam    string
	AwayScore   float64
	HomeScore   float64
	AwayWinProb float64
	ModelSpread float64
	BookSpread  float64
	SpreadPlay  projection.Play
	ModelTotal  float64
	BookTotal   float64
	TotalPlay   projection.Play
	CreatedAt   time.Time
}

// FromResult snapshots the fields of a projection worth persisting.
func FromResult(id string, result projection.Result, createdAt time.Time) SavedGame {
	return SavedGame{
		ID:          id,
		AwayTeam:    result.Away.DisplayName,
		HomeTeam:    result.Home.DisplayName,
		AwayScore:   result.Away.Score,
		HomeScore:   result.Home.Score,
		AwayWinProb: result.Away.WinProb,
		ModelSpread: result.ModelSpread,
		BookSpread:  result.BookSpread,
		SpreadPlay:  result.SpreadPlay,
		ModelTotal:  result.ModelTotal,
		BookTotal:   result.BookTotal,
		TotalPlay:   result.TotalPlay,
		CreatedAt:   createdAt.UTC(),
	}
}

// Matchup reads "Away @ Home".
func (g SavedGame) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}

func (g SavedGame) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("saved game id is required")
	}
	if strings.TrimSpace(g.AwayTeam) == "" || strings.TrimSpace(g.HomeTeam) == "" {
		return fmt.Errorf("saved game teams are required")
	}
	if !g.SpreadPlay.Valid() || !g.TotalPlay.Valid() {
		return fmt.Errorf("saved game plays are invalid: spread=%q total=%q", g.SpreadPlay, g.TotalPlay)
	}
	for name, v := range map[string]float64{
		"away_score":   g.AwayScore,
		"home_score":   g.HomeScore,
		"model_spread": g.ModelSpread,
		"model_total":  g.ModelTotal,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("saved game %s must be finite", name)
		}
	}
	return nil
}
