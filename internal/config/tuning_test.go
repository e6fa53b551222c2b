package config

import (
	"errors"
	"testing"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

func TestParseTuning_OverlaysModel(t *testing.T) {
	t.Parallel()

	raw := []byte(`
model:
  weights:
    lineup_per: 0.5
    pace: 0
  back_to_back_penalty: 1.5
  spread_min_edge: 2
columns:
  players:
    per: U
`)
	tuning, err := ParseTuning(raw)
	if err != nil {
		t.Fatalf("parse tuning: %v", err)
	}

	model, err := tuning.Apply(projection.DefaultModel())
	if err != nil {
		t.Fatalf("apply tuning: %v", err)
	}
	if model.Weights.LineupPER != 0.5 || model.Weights.Pace != 0 {
		t.Fatalf("unexpected weights: %+v", model.Weights)
	}
	if model.Weights.EfficiencyRecent != 0.20 {
		t.Fatalf("expected untouched weights to keep defaults, got %+v", model.Weights)
	}
	if model.BackToBackPenalty != 1.5 || model.SpreadMinEdge != 2 || model.TotalMinEdge != 8 {
		t.Fatalf("unexpected model: %+v", model)
	}
	if tuning.Columns["players"]["per"] != "U" {
		t.Fatalf("unexpected columns: %+v", tuning.Columns)
	}
}

func TestParseTuning_Empty(t *testing.T) {
	t.Parallel()

	tuning, err := ParseTuning(nil)
	if err != nil {
		t.Fatalf("parse empty tuning: %v", err)
	}
	model, err := tuning.Apply(projection.DefaultModel())
	if err != nil {
		t.Fatalf("apply empty tuning: %v", err)
	}
	if model != projection.DefaultModel() {
		t.Fatalf("expected default model, got %+v", model)
	}
}

func TestParseTuning_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		raw       string
		wantModel bool
	}{
		{name: "unknown key", raw: "model:\n  logistc_scale: 7\n"},
		{name: "not yaml", raw: "model: [\n"},
		{name: "floor above ceiling", raw: "model:\n  score_floor: 160\n", wantModel: true},
		{name: "zero logistic scale", raw: "model:\n  logistic_scale: 0\n", wantModel: true},
		{name: "negative edge", raw: "model:\n  total_min_edge: -1\n", wantModel: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTuning([]byte(tc.raw))
			if err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			if tc.wantModel && !errors.Is(err, projection.ErrInvalidModel) {
				t.Fatalf("expected ErrInvalidModel, got %v", err)
			}
		})
	}
}
