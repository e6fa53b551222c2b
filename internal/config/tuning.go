package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

// Tuning is the optional YAML overlay for model constants and sheet columns.
// Unset fields keep their defaults.
//
//	model:
//	  weights:
//	    lineup_per: 0.5
//	  logistic_scale: 7
//	columns:
//	  players:
//	    per: U
type Tuning struct {
	Model   ModelTuning                  `yaml:"model"`
	Columns map[string]map[string]string `yaml:"columns"`
}

type WeightsTuning struct {
	LineupPER        *float64 `yaml:"lineup_per"`
	EfficiencyRecent *float64 `yaml:"efficiency_recent"`
	EfficiencySplit  *float64 `yaml:"efficiency_split"`
	Pace             *float64 `yaml:"pace"`
	PredictiveRating *float64 `yaml:"predictive_rating"`
	RecentRecord     *float64 `yaml:"recent_record"`
	SplitRecord      *float64 `yaml:"split_record"`
}

type ModelTuning struct {
	Weights           WeightsTuning `yaml:"weights"`
	BackToBackPenalty *float64      `yaml:"back_to_back_penalty"`
	NeutralLineupPER  *float64      `yaml:"neutral_lineup_per"`
	ScoreFloor        *float64      `yaml:"score_floor"`
	ScoreCeiling      *float64      `yaml:"score_ceiling"`
	LogisticScale     *float64      `yaml:"logistic_scale"`
	SpreadMinEdge     *float64      `yaml:"spread_min_edge"`
	TotalMinEdge      *float64      `yaml:"total_min_edge"`
}

// LoadTuning reads the overlay at path. An empty path yields the zero Tuning.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return Tuning{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}

	return ParseTuning(raw)
}

// ParseTuning decodes a YAML overlay. Unknown keys are rejected so a typo
// never silently keeps a default.
func ParseTuning(raw []byte) (Tuning, error) {
	var out Tuning
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("decode tuning yaml: %w", err)
	}

	if _, err := out.Apply(projection.DefaultModel()); err != nil {
		return Tuning{}, err
	}

	return out, nil
}

// Apply overlays the tuned fields on base and validates the result.
func (t Tuning) Apply(base projection.Model) (projection.Model, error) {
	out := base
	w := t.Model.Weights
	set(&out.Weights.LineupPER, w.LineupPER)
	set(&out.Weights.EfficiencyRecent, w.EfficiencyRecent)
	set(&out.Weights.EfficiencySplit, w.EfficiencySplit)
	set(&out.Weights.Pace, w.Pace)
	set(&out.Weights.PredictiveRating, w.PredictiveRating)
	set(&out.Weights.RecentRecord, w.RecentRecord)
	set(&out.Weights.SplitRecord, w.SplitRecord)

	m := t.Model
	set(&out.BackToBackPenalty, m.BackToBackPenalty)
	set(&out.NeutralLineupPER, m.NeutralLineupPER)
	set(&out.ScoreFloor, m.ScoreFloor)
	set(&out.ScoreCeiling, m.ScoreCeiling)
	set(&out.LogisticScale, m.LogisticScale)
	set(&out.SpreadMinEdge, m.SpreadMinEdge)
	set(&out.TotalMinEdge, m.TotalMinEdge)

	if err := out.Validate(); err != nil {
		return projection.Model{}, err
	}
	return out, nil
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
