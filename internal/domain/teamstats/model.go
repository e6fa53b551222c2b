package teamstats

import (
	"errors"
	"fmt"
	"math"
)

var ErrMalformedMetric = errors.New("malformed team metric")

const (
	DefaultLeaguePoints = 118.0
	DefaultLeaguePace   = 100.0
)

// Record is a wins/losses pair. Unknown counts are NaN.
type Record struct {
	Wins   float64
	Losses float64
}

// WinPct returns wins over games, or NaN when the record is unknown or empty.
func (r Record) WinPct() float64 {
	if math.IsNaN(r.Wins) || math.IsNaN(r.Losses) {
		return math.NaN()
	}
	games := r.Wins + r.Losses
	if games <= 0 {
		return math.NaN()
	}
	return r.Wins / games
}

func (r Record) validate(label string) error {
	if math.IsInf(r.Wins, 0) || math.IsInf(r.Losses, 0) {
		return fmt.Errorf("%w: %s record is not finite", ErrMalformedMetric, label)
	}
	if r.Wins < 0 || r.Losses < 0 {
		return fmt.Errorf("%w: %s record has negative counts", ErrMalformedMetric, label)
	}
	return nil
}

// Efficiency is an offensive/defensive points-per-100 pair.
type Efficiency struct {
	Offense float64
	Defense float64
}

// Net returns offense minus defense; ok is false when either side is unknown.
func (e Efficiency) Net() (float64, bool) {
	if math.IsNaN(e.Offense) || math.IsNaN(e.Defense) {
		return 0, false
	}
	return e.Offense - e.Defense, true
}

// Rebounding carries the rebounding sheets. Own-team tabs have home, away and
// last-3 columns; opponent tabs have season and last-3.
type Rebounding struct {
	OffensiveHome      float64
	OffensiveAway      float64
	OffensiveLast3     float64
	DefensiveHome      float64
	DefensiveAway      float64
	DefensiveLast3     float64
	OppOffensiveSeason float64
	OppOffensiveLast3  float64
	OppDefensiveSeason float64
	OppDefensiveLast3  float64
}

// Snapshot is the merged per-team metric set for one load of the sheets.
type Snapshot struct {
	TeamKey          string
	DisplayName      string
	PaceRecent       float64
	PaceSeason       float64
	EfficiencyRecent Efficiency
	EfficiencyHome   Efficiency
	EfficiencyAway   Efficiency
	PPGRecent        float64
	PPGSeason        float64
	OPPGSeason       float64
	Last5            Record
	Home             Record
	Away             Record
	PredictiveRating float64
	Rebounding       Rebounding
	ATSRecord        string
	ATSCover         string
	OverUnderRecord  string
}

// Unknown returns a snapshot whose every numeric field is NaN.
func Unknown(teamKey string) Snapshot {
	nan := math.NaN()
	unknownRecord := Record{Wins: nan, Losses: nan}
	unknownEff := Efficiency{Offense: nan, Defense: nan}
	return Snapshot{
		TeamKey:          teamKey,
		PaceRecent:       nan,
		PaceSeason:       nan,
		EfficiencyRecent: unknownEff,
		EfficiencyHome:   unknownEff,
		EfficiencyAway:   unknownEff,
		PPGRecent:        nan,
		PPGSeason:        nan,
		OPPGSeason:       nan,
		Last5:            unknownRecord,
		Home:             unknownRecord,
		Away:             unknownRecord,
		PredictiveRating: nan,
		Rebounding: Rebounding{
			OffensiveHome:      nan,
			OffensiveAway:      nan,
			OffensiveLast3:     nan,
			DefensiveHome:      nan,
			DefensiveAway:      nan,
			DefensiveLast3:     nan,
			OppOffensiveSeason: nan,
			OppOffensiveLast3:  nan,
			OppDefensiveSeason: nan,
			OppDefensiveLast3:  nan,
		},
	}
}

// SplitEfficiency picks the home or away efficiency pair.
func (s Snapshot) SplitEfficiency(isHome bool) Efficiency {
	if isHome {
		return s.EfficiencyHome
	}
	return s.EfficiencyAway
}

// SplitRecord picks the home or away record.
func (s Snapshot) SplitRecord(isHome bool) Record {
	if isHome {
		return s.Home
	}
	return s.Away
}

// Validate rejects values no sheet could legitimately produce.
func (s Snapshot) Validate() error {
	finite := map[string]float64{
		"pace_recent":       s.PaceRecent,
		"pace_season":       s.PaceSeason,
		"off_eff_recent":    s.EfficiencyRecent.Offense,
		"def_eff_recent":    s.EfficiencyRecent.Defense,
		"off_eff_home":      s.EfficiencyHome.Offense,
		"def_eff_home":      s.EfficiencyHome.Defense,
		"off_eff_away":      s.EfficiencyAway.Offense,
		"def_eff_away":      s.EfficiencyAway.Defense,
		"ppg_recent":        s.PPGRecent,
		"ppg_season":        s.PPGSeason,
		"oppg_season":       s.OPPGSeason,
		"predictive_rating": s.PredictiveRating,
	}
	for name, value := range finite {
		if math.IsInf(value, 0) {
			return fmt.Errorf("%w: team=%s field=%s is not finite", ErrMalformedMetric, s.TeamKey, name)
		}
	}

	if err := s.Last5.validate("last5"); err != nil {
		return fmt.Errorf("team=%s: %w", s.TeamKey, err)
	}
	if err := s.Home.validate("home"); err != nil {
		return fmt.Errorf("team=%s: %w", s.TeamKey, err)
	}
	if err := s.Away.validate("away"); err != nil {
		return fmt.Errorf("team=%s: %w", s.TeamKey, err)
	}

	return nil
}

// LeagueAverages are the league-wide baselines used as neutral fallbacks.
type LeagueAverages struct {
	Points float64
	Pace   float64
}

func DefaultLeagueAverages() LeagueAverages {
	return LeagueAverages{
		Points: DefaultLeaguePoints,
		Pace:   DefaultLeaguePace,
	}
}

// NewLeagueAverages reads the "points" and "pace" rows of the league sheet.
// Missing, zero, or non-finite values fall back to the defaults.
func NewLeagueAverages(values map[string]float64) LeagueAverages {
	out := DefaultLeagueAverages()
	if v, ok := values["points"]; ok && usable(v) {
		out.Points = v
	}
	if v, ok := values["pace"]; ok && usable(v) {
		out.Pace = v
	}
	return out
}

// Normalize replaces unusable fields with the defaults.
func (l LeagueAverages) Normalize() LeagueAverages {
	return NewLeagueAverages(map[string]float64{"points": l.Points, "pace": l.Pace})
}

// HalfPoints is the per-team share of the league scoring average.
func (l LeagueAverages) HalfPoints() float64 {
	return l.Points / 2
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v != 0
}
