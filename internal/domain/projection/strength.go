package projection

import (
	"math"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
)

// StrengthBreakdown holds each weighted term of a team strength.
// BackToBack is the penalty applied, stored as a positive number.
type StrengthBreakdown struct {
	Lineup           float64
	EfficiencyRecent float64
	EfficiencySplit  float64
	Pace             float64
	PredictiveRating float64
	RecentRecord     float64
	SplitRecord      float64
	BackToBack       float64
}

func (b StrengthBreakdown) Total() float64 {
	return b.Lineup +
		b.EfficiencyRecent +
		b.EfficiencySplit +
		b.Pace +
		b.PredictiveRating +
		b.RecentRecord +
		b.SplitRecord -
		b.BackToBack
}

// ComputeStrength scores one side of a game as a weighted sum of its metrics.
// Every unknown metric contributes its neutral value, which is zero for each
// term.
func (m Model) ComputeStrength(stats teamstats.Snapshot, lineupPER float64, isHome, isBackToBack bool, league teamstats.LeagueAverages) float64 {
	return m.BreakDownStrength(stats, lineupPER, isHome, isBackToBack, league).Total()
}

func (m Model) BreakDownStrength(stats teamstats.Snapshot, lineupPER float64, isHome, isBackToBack bool, league teamstats.LeagueAverages) StrengthBreakdown {
	league = league.Normalize()
	w := m.Weights

	if math.IsNaN(lineupPER) || math.IsInf(lineupPER, 0) {
		lineupPER = m.NeutralLineupPER
	}

	recentNet, _ := stats.EfficiencyRecent.Net()
	splitNet, _ := stats.SplitEfficiency(isHome).Net()

	out := StrengthBreakdown{
		Lineup:           w.LineupPER * (lineupPER - m.NeutralLineupPER),
		EfficiencyRecent: w.EfficiencyRecent * recentNet,
		EfficiencySplit:  w.EfficiencySplit * splitNet,
		Pace:             w.Pace * (seasonPace(stats, league) - league.Pace),
		PredictiveRating: w.PredictiveRating * orZero(stats.PredictiveRating),
		RecentRecord:     w.RecentRecord * recordScore(stats.Last5),
		SplitRecord:      w.SplitRecord * recordScore(stats.SplitRecord(isHome)),
	}
	if isBackToBack {
		out.BackToBack = m.BackToBackPenalty
	}

	return out
}

// seasonPace falls back from season pace to recent pace to the league pace.
func seasonPace(stats teamstats.Snapshot, league teamstats.LeagueAverages) float64 {
	if known(stats.PaceSeason) {
		return stats.PaceSeason
	}
	if known(stats.PaceRecent) {
		return stats.PaceRecent
	}
	return league.Pace
}

// recordScore maps a win rate onto [-5, 5], 0 for unknown records.
func recordScore(r teamstats.Record) float64 {
	pct := r.WinPct()
	if !known(pct) {
		pct = 0.5
	}
	return (pct - 0.5) * 10
}

func orZero(v float64) float64 {
	if !known(v) {
		return 0
	}
	return v
}

func known(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
