package httpapi

import (
	"math"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/savedgame"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
	"github.com/riskibarqy/nba-lineup-model/internal/usecase"
)

// Unknown numbers travel as null.
func optionalFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type teamDTO struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type teamLineupDTO struct {
	TeamKey  string   `json:"team_key"`
	TeamName string   `json:"team_name"`
	Starters []string `json:"starters"`
}

func teamLineupToDTO(v lineup.TeamLineup) teamLineupDTO {
	return teamLineupDTO{
		TeamKey:  v.TeamKey,
		TeamName: v.TeamName,
		Starters: append([]string(nil), v.Starters[:]...),
	}
}

type playerContributionDTO struct {
	Slot           string   `json:"slot"`
	Name           string   `json:"name"`
	Resolved       bool     `json:"resolved"`
	MinutesPerGame *float64 `json:"minutes_per_game"`
	PER            *float64 `json:"per"`
	UsagePct       *float64 `json:"usage_pct"`
	Weight         float64  `json:"weight"`
}

type lineupBreakdownDTO struct {
	LineupPER      float64                 `json:"lineup_per"`
	DeltaVsNeutral float64                 `json:"delta_vs_neutral"`
	TotalWeight    float64                 `json:"total_weight"`
	Fallback       bool                    `json:"fallback"`
	Players        []playerContributionDTO `json:"players"`
}

func lineupBreakdownToDTO(v projection.LineupBreakdown) lineupBreakdownDTO {
	players := make([]playerContributionDTO, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, playerContributionDTO{
			Slot:           p.Slot.String(),
			Name:           p.Name,
			Resolved:       p.Resolved,
			MinutesPerGame: optionalFloat(p.MinutesPerGame),
			PER:            optionalFloat(p.PER),
			UsagePct:       optionalFloat(p.UsagePct),
			Weight:         p.Weight,
		})
	}
	return lineupBreakdownDTO{
		LineupPER:      v.LineupPER,
		DeltaVsNeutral: v.DeltaVsNeutral,
		TotalWeight:    v.TotalWeight,
		Fallback:       v.Fallback,
		Players:        players,
	}
}

type strengthDTO struct {
	Total            float64 `json:"total"`
	Lineup           float64 `json:"lineup"`
	EfficiencyRecent float64 `json:"efficiency_recent"`
	EfficiencySplit  float64 `json:"efficiency_split"`
	Pace             float64 `json:"pace"`
	PredictiveRating float64 `json:"predictive_rating"`
	RecentRecord     float64 `json:"recent_record"`
	SplitRecord      float64 `json:"split_record"`
	BackToBack       float64 `json:"back_to_back"`
}

type sideDTO struct {
	TeamKey      string             `json:"team_key"`
	TeamName     string             `json:"team_name"`
	IsHome       bool               `json:"is_home"`
	IsBackToBack bool               `json:"is_back_to_back"`
	Score        float64            `json:"score"`
	BaseScore    float64            `json:"base_score"`
	WinProb      float64            `json:"win_prob"`
	FairOdds     *int               `json:"fair_odds"`
	Lineup       lineupBreakdownDTO `json:"lineup"`
	Strength     strengthDTO        `json:"strength"`
}

func sideToDTO(v projection.SideProjection) sideDTO {
	var odds *int
	if v.FairOdds != 0 {
		o := v.FairOdds
		odds = &o
	}
	s := v.Strength
	return sideDTO{
		TeamKey:      v.TeamKey,
		TeamName:     v.DisplayName,
		IsHome:       v.IsHome,
		IsBackToBack: v.IsBackToBack,
		Score:        v.Score,
		BaseScore:    v.BaseScore,
		WinProb:      v.WinProb,
		FairOdds:     odds,
		Lineup:       lineupBreakdownToDTO(v.Lineup),
		Strength: strengthDTO{
			Total:            s.Total(),
			Lineup:           s.Lineup,
			EfficiencyRecent: s.EfficiencyRecent,
			EfficiencySplit:  s.EfficiencySplit,
			Pace:             s.Pace,
			PredictiveRating: s.PredictiveRating,
			RecentRecord:     s.RecentRecord,
			SplitRecord:      s.SplitRecord,
			BackToBack:       s.BackToBack,
		},
	}
}

type playDTO struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func playToDTO(p projection.Play) playDTO {
	return playDTO{Code: string(p), Label: p.Label()}
}

type projectionDTO struct {
	Away          sideDTO  `json:"away"`
	Home          sideDTO  `json:"home"`
	Winner        string   `json:"winner"`
	Margin        float64  `json:"margin"`
	BaselineScore float64  `json:"baseline_score"`
	ModelSpread   float64  `json:"model_spread"`
	ModelTotal    float64  `json:"model_total"`
	BookSpread    *float64 `json:"book_spread"`
	BookTotal     *float64 `json:"book_total"`
	SpreadEdge    *float64 `json:"spread_edge"`
	TotalEdge     *float64 `json:"total_edge"`
	SpreadPlay    playDTO  `json:"spread_play"`
	TotalPlay     playDTO  `json:"total_play"`
}

func projectionToDTO(v projection.Result) projectionDTO {
	return projectionDTO{
		Away:          sideToDTO(v.Away),
		Home:          sideToDTO(v.Home),
		Winner:        v.WinnerKey,
		Margin:        v.Margin,
		BaselineScore: v.BaselineScore,
		ModelSpread:   v.ModelSpread,
		ModelTotal:    v.ModelTotal,
		BookSpread:    optionalFloat(v.BookSpread),
		BookTotal:     optionalFloat(v.BookTotal),
		SpreadEdge:    optionalFloat(v.SpreadEdge),
		TotalEdge:     optionalFloat(v.TotalEdge),
		SpreadPlay:    playToDTO(v.SpreadPlay),
		TotalPlay:     playToDTO(v.TotalPlay),
	}
}

type batchErrorDTO struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

type batchRowDTO struct {
	Index      int            `json:"index"`
	Projection *projectionDTO `json:"projection,omitempty"`
	Error      *batchErrorDTO `json:"error,omitempty"`
}

type batchDTO struct {
	Rows         []batchRowDTO `json:"rows"`
	SuccessCount int           `json:"success_count"`
	FailedCount  int           `json:"failed_count"`
	WorkerCount  int           `json:"worker_count"`
	DurationMs   int64         `json:"duration_ms"`
}

func batchToDTO(v usecase.BatchResult) batchDTO {
	rows := make([]batchRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		item := batchRowDTO{Index: row.Index}
		if row.Err != nil {
			item.Error = &batchErrorDTO{Message: row.Err.Error(), Reason: mapError(row.Err).Reason}
		} else {
			p := projectionToDTO(row.Result)
			item.Projection = &p
		}
		rows = append(rows, item)
	}
	return batchDTO{
		Rows:         rows,
		SuccessCount: v.SuccessCount,
		FailedCount:  v.FailedCount,
		WorkerCount:  v.WorkerCount,
		DurationMs:   v.DurationMs,
	}
}

type comparisonRowDTO struct {
	Label  string   `json:"label"`
	Format string   `json:"format"`
	Away   *float64 `json:"away"`
	Home   *float64 `json:"home"`
	// Text rows carry the raw sheet strings instead.
	AwayText string `json:"away_text,omitempty"`
	HomeText string `json:"home_text,omitempty"`
	Better   string `json:"better,omitempty"`
}

type comparisonDTO struct {
	Away teamDTO            `json:"away"`
	Home teamDTO            `json:"home"`
	Rows []comparisonRowDTO `json:"rows"`
}

func comparisonToDTO(v usecase.Comparison) comparisonDTO {
	rows := make([]comparisonRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, comparisonRowToDTO(row))
	}
	return comparisonDTO{
		Away: teamDTO{Key: v.AwayKey, Name: v.AwayName},
		Home: teamDTO{Key: v.HomeKey, Name: v.HomeName},
		Rows: rows,
	}
}

func comparisonRowToDTO(row teamstats.ComparisonRow) comparisonRowDTO {
	out := comparisonRowDTO{
		Label:    row.Label,
		Format:   string(row.Format),
		AwayText: row.AwayText,
		HomeText: row.HomeText,
		Better:   string(row.Better),
	}
	if row.Format != teamstats.FormatText {
		out.Away = optionalFloat(row.Away)
		out.Home = optionalFloat(row.Home)
	}
	return out
}

type savedGameDTO struct {
	ID          string   `json:"id"`
	Matchup     string   `json:"matchup"`
	AwayTeam    string   `json:"away_team"`
	HomeTeam    string   `json:"home_team"`
	AwayScore   float64  `json:"away_score"`
	HomeScore   float64  `json:"home_score"`
	AwayWinProb float64  `json:"away_win_prob"`
	ModelSpread float64  `json:"model_spread"`
	BookSpread  *float64 `json:"book_spread"`
	SpreadPlay  playDTO  `json:"spread_play"`
	ModelTotal  float64  `json:"model_total"`
	BookTotal   *float64 `json:"book_total"`
	TotalPlay   playDTO  `json:"total_play"`
	CreatedAt   string   `json:"created_at"`
}

func savedGameToDTO(v savedgame.SavedGame) savedGameDTO {
	return savedGameDTO{
		ID:          v.ID,
		Matchup:     v.Matchup(),
		AwayTeam:    v.AwayTeam,
		HomeTeam:    v.HomeTeam,
		AwayScore:   v.AwayScore,
		HomeScore:   v.HomeScore,
		AwayWinProb: v.AwayWinProb,
		ModelSpread: v.ModelSpread,
		BookSpread:  optionalFloat(v.BookSpread),
		SpreadPlay:  playToDTO(v.SpreadPlay),
		ModelTotal:  v.ModelTotal,
		BookTotal:   optionalFloat(v.BookTotal),
		TotalPlay:   playToDTO(v.TotalPlay),
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
