package teamstats

import "math"

type Format string

const (
	FormatNumber  Format = "number"
	FormatPercent Format = "percent"
	FormatRating  Format = "rating"
	FormatText    Format = "text"
)

type Side string

const (
	SideNone Side = ""
	SideAway Side = "away"
	SideHome Side = "home"
)

// ComparisonRow is one line of a matchup stat table. Text rows carry only
// AwayText and HomeText.
type ComparisonRow struct {
	Label    string
	Format   Format
	Away     float64
	Home     float64
	AwayText string
	HomeText string
	Better   Side
}

type comparison struct {
	label          string
	format         Format
	higherIsBetter bool
	pick           func(s Snapshot, isHome bool) float64
}

var numericComparisons = []comparison{
	{label: "PPG", format: FormatNumber, higherIsBetter: true, pick: func(s Snapshot, _ bool) float64 { return s.PPGSeason }},
	{label: "OPPG", format: FormatNumber, higherIsBetter: false, pick: func(s Snapshot, _ bool) float64 { return s.OPPGSeason }},
	{label: "Last 5 Win%", format: FormatPercent, higherIsBetter: true, pick: func(s Snapshot, _ bool) float64 { return s.Last5.WinPct() }},
	{label: "Road/Home Win%", format: FormatPercent, higherIsBetter: true, pick: func(s Snapshot, isHome bool) float64 { return s.SplitRecord(isHome).WinPct() }},
	{label: "Off Eff (L5)", format: FormatNumber, higherIsBetter: true, pick: func(s Snapshot, _ bool) float64 { return s.EfficiencyRecent.Offense }},
	{label: "Def Eff (L5)", format: FormatNumber, higherIsBetter: false, pick: func(s Snapshot, _ bool) float64 { return s.EfficiencyRecent.Defense }},
	{label: "Pred Rating", format: FormatRating, higherIsBetter: true, pick: func(s Snapshot, _ bool) float64 { return s.PredictiveRating }},
	{label: "Off Reb% (Road/Home)", format: FormatNumber, higherIsBetter: true, pick: func(s Snapshot, isHome bool) float64 {
		if isHome {
			return s.Rebounding.OffensiveHome
		}
		return s.Rebounding.OffensiveAway
	}},
	{label: "Def Reb% (Road/Home)", format: FormatNumber, higherIsBetter: true, pick: func(s Snapshot, isHome bool) float64 {
		if isHome {
			return s.Rebounding.DefensiveHome
		}
		return s.Rebounding.DefensiveAway
	}},
}

// Compare builds the side-by-side table for away at home. A side is marked
// better only when both values are known and differ.
func Compare(away, home Snapshot) []ComparisonRow {
	out := make([]ComparisonRow, 0, len(numericComparisons)+3)
	for _, c := range numericComparisons {
		row := ComparisonRow{
			Label:  c.label,
			Format: c.format,
			Away:   c.pick(away, false),
			Home:   c.pick(home, true),
		}
		row.Better = betterSide(row.Away, row.Home, c.higherIsBetter)
		out = append(out, row)
	}

	out = append(out,
		ComparisonRow{Label: "ATS Record", Format: FormatText, Away: math.NaN(), Home: math.NaN(), AwayText: away.ATSRecord, HomeText: home.ATSRecord},
		ComparisonRow{Label: "ATS Cover%", Format: FormatText, Away: math.NaN(), Home: math.NaN(), AwayText: away.ATSCover, HomeText: home.ATSCover},
		ComparisonRow{Label: "O/U Record", Format: FormatText, Away: math.NaN(), Home: math.NaN(), AwayText: away.OverUnderRecord, HomeText: home.OverUnderRecord},
	)
	return out
}

func betterSide(away, home float64, higherIsBetter bool) Side {
	if math.IsNaN(away) || math.IsNaN(home) || away == home {
		return SideNone
	}
	if (away > home) == higherIsBetter {
		return SideAway
	}
	return SideHome
}
