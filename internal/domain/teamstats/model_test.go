package teamstats

import (
	"errors"
	"math"
	"testing"
)

func TestRecord_WinPct(t *testing.T) {
	t.Parallel()

	if got := (Record{Wins: 3, Losses: 2}).WinPct(); got != 0.6 {
		t.Fatalf("expected 0.6, got %v", got)
	}
	if got := (Record{Wins: 0, Losses: 0}).WinPct(); !math.IsNaN(got) {
		t.Fatalf("expected NaN for empty record, got %v", got)
	}
	if got := (Record{Wins: math.NaN(), Losses: 2}).WinPct(); !math.IsNaN(got) {
		t.Fatalf("expected NaN for unknown wins, got %v", got)
	}
}

func TestUnknown_AllNaN(t *testing.T) {
	t.Parallel()

	s := Unknown("boston")
	if s.TeamKey != "boston" {
		t.Fatalf("unexpected team key %q", s.TeamKey)
	}
	for name, v := range map[string]float64{
		"pace":   s.PaceSeason,
		"ppg":    s.PPGSeason,
		"rating": s.PredictiveRating,
		"reb":    s.Rebounding.OppDefensiveLast3,
	} {
		if !math.IsNaN(v) {
			t.Fatalf("expected %s to be NaN, got %v", name, v)
		}
	}
	if _, ok := s.EfficiencyRecent.Net(); ok {
		t.Fatalf("expected unknown efficiency to report not ok")
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unknown snapshot must validate: %v", err)
	}
}

func TestSnapshot_Validate(t *testing.T) {
	t.Parallel()

	inf := Unknown("denver")
	inf.PPGSeason = math.Inf(1)
	if err := inf.Validate(); !errors.Is(err, ErrMalformedMetric) {
		t.Fatalf("expected ErrMalformedMetric for infinite ppg, got %v", err)
	}

	negative := Unknown("denver")
	negative.Home = Record{Wins: -1, Losses: 3}
	if err := negative.Validate(); !errors.Is(err, ErrMalformedMetric) {
		t.Fatalf("expected ErrMalformedMetric for negative wins, got %v", err)
	}
}

func TestNewLeagueAverages(t *testing.T) {
	t.Parallel()

	got := NewLeagueAverages(map[string]float64{"points": 114.2, "pace": 0})
	if got.Points != 114.2 || got.Pace != DefaultLeaguePace {
		t.Fatalf("unexpected averages %+v", got)
	}

	got = NewLeagueAverages(nil)
	if got != DefaultLeagueAverages() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	if got.HalfPoints() != 59 {
		t.Fatalf("expected half points 59, got %v", got.HalfPoints())
	}
}
