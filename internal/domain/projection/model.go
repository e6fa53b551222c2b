package projection

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyTeamKey   = errors.New("team key is required")
	ErrSameTeam       = errors.New("away and home team must differ")
	ErrMalformedInput = errors.New("malformed projection input")
	ErrInvalidModel   = errors.New("invalid model configuration")
)

// Weights are the coefficients of the team strength sum.
type Weights struct {
	LineupPER        float64
	EfficiencyRecent float64
	EfficiencySplit  float64
	Pace             float64
	PredictiveRating float64
	RecentRecord     float64
	SplitRecord      float64
}

// Model is every tunable constant of the projection. Retuning never needs a
// change to the formulas.
type Model struct {
	Weights           Weights
	BackToBackPenalty float64
	// NeutralLineupPER is both the league-average PER the lineup term is
	// centered on and the value returned for an empty or unresolved lineup.
	NeutralLineupPER float64
	ScoreFloor       float64
	ScoreCeiling     float64
	LogisticScale    float64
	SpreadMinEdge    float64
	TotalMinEdge     float64
}

func DefaultWeights() Weights {
	return Weights{
		LineupPER:        0.45,
		EfficiencyRecent: 0.20,
		EfficiencySplit:  0.15,
		Pace:             0.10,
		PredictiveRating: 0.08,
		RecentRecord:     0.02,
		SplitRecord:      0.02,
	}
}

func DefaultModel() Model {
	return Model{
		Weights:           DefaultWeights(),
		BackToBackPenalty: 1.0,
		NeutralLineupPER:  15,
		ScoreFloor:        70,
		ScoreCeiling:      150,
		LogisticScale:     6,
		SpreadMinEdge:     1.5,
		TotalMinEdge:      8,
	}
}

func (m Model) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"weight_lineup_per", m.Weights.LineupPER},
		{"weight_efficiency_recent", m.Weights.EfficiencyRecent},
		{"weight_efficiency_split", m.Weights.EfficiencySplit},
		{"weight_pace", m.Weights.Pace},
		{"weight_predictive_rating", m.Weights.PredictiveRating},
		{"weight_recent_record", m.Weights.RecentRecord},
		{"weight_split_record", m.Weights.SplitRecord},
		{"back_to_back_penalty", m.BackToBackPenalty},
		{"neutral_lineup_per", m.NeutralLineupPER},
		{"score_floor", m.ScoreFloor},
		{"score_ceiling", m.ScoreCeiling},
		{"logistic_scale", m.LogisticScale},
		{"spread_min_edge", m.SpreadMinEdge},
		{"total_min_edge", m.TotalMinEdge},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidModel, f.name)
		}
	}

	if m.ScoreFloor >= m.ScoreCeiling {
		return fmt.Errorf("%w: score floor %.1f must be below ceiling %.1f", ErrInvalidModel, m.ScoreFloor, m.ScoreCeiling)
	}
	if m.LogisticScale <= 0 {
		return fmt.Errorf("%w: logistic scale must be > 0", ErrInvalidModel)
	}
	if m.SpreadMinEdge < 0 || m.TotalMinEdge < 0 {
		return fmt.Errorf("%w: minimum edges must be >= 0", ErrInvalidModel)
	}
	if m.BackToBackPenalty < 0 {
		return fmt.Errorf("%w: back-to-back penalty must be >= 0", ErrInvalidModel)
	}

	return nil
}

func (m Model) clampScore(score float64) float64 {
	return math.Max(m.ScoreFloor, math.Min(m.ScoreCeiling, score))
}
