package sheets

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

type fakeFetcher struct {
	sheets map[string][][]string
	fail   map[string]error
}

func (f fakeFetcher) FetchCSV(_ context.Context, source string) ([][]string, error) {
	if err, ok := f.fail[source]; ok {
		return nil, err
	}
	return f.sheets[source], nil
}

// sheetRow places values at their column letters.
func sheetRow(values map[Column]string) []string {
	width := 0
	for col := range values {
		if idx, ok := col.Index(); ok && idx+1 > width {
			width = idx + 1
		}
	}
	row := make([]string, width)
	for col, v := range values {
		idx, _ := col.Index()
		row[idx] = v
	}
	return row
}

func testSources() Sources {
	return Sources{
		Players:          "players",
		Lineups:          "lineups",
		League:           "league",
		OffRebounding:    "oreb",
		OppOffRebounding: "opp_oreb",
		DefRebounding:    "dreb",
		OppDefRebounding: "opp_dreb",
		NBAStuffer:       "nbastuffer",
		PPG:              "ppg",
		ATS:              "ats",
		OverUnder:        "ou",
		Ranking:          "ranking",
		Names:            "names",
	}
}

func testSheets() map[string][][]string {
	header := []string{"header"}
	return map[string][][]string{
		"players": {
			header,
			sheetRow(map[Column]string{"B": "Jayson Tatum", "F": "10", "H": "360", "I": "24", "T": "30"}),
		},
		"lineups": {
			header,
			sheetRow(map[Column]string{"A": "Boston", "B": "Jrue Holiday", "C": "Derrick White", "D": "Jaylen Brown", "E": "Jayson Tatum", "F": "Kristaps Porzingis"}),
			sheetRow(map[Column]string{"A": "Okla City", "B": "Shai Gilgeous-Alexander"}),
		},
		"league": {header, {"points", "230"}, {"pace", "99"}},
		"ppg": {
			header,
			sheetRow(map[Column]string{"B": "Boston", "F": "97.5", "G": "120.1", "H": "109.4"}),
			sheetRow(map[Column]string{"B": "Okla City", "F": "101", "G": "118", "H": "106"}),
		},
		"ranking":  {header, sheetRow(map[Column]string{"A": "Boston", "D": "+9.8"})},
		"ats":      {header, sheetRow(map[Column]string{"A": "Boston", "B": "40-30-2", "C": "57.1%"})},
		"ou":       {header, sheetRow(map[Column]string{"A": "Okla City", "B": "35-37-0"})},
		"oreb":     {header, sheetRow(map[Column]string{"B": "Boston", "D": "27.5%", "F": "28.1%", "G": "26.0%"})},
		"dreb":     {header, sheetRow(map[Column]string{"B": "Boston", "D": "75%", "F": "76%", "G": "74%"})},
		"opp_oreb": {header, sheetRow(map[Column]string{"B": "Boston", "C": "24%", "D": "23%"})},
		"opp_dreb": {header, sheetRow(map[Column]string{"B": "Boston", "C": "72%", "D": "71%"})},
		"names": {
			header,
			sheetRow(map[Column]string{"A": "Boston", "B": "Boston Celtics"}),
		},
		"nbastuffer": {
			header,
			sheetRow(map[Column]string{
				"B": "Boston Celtics", "I": "98.2", "J": "121.5", "K": "110.0",
				"R": "4", "S": "1", "AI": "117", "AJ": "112", "AQ": "20", "AR": "15",
				"BH": "123", "BI": "108", "BP": "30", "BQ": "6",
			}),
			sheetRow(map[Column]string{"B": "Oklahoma City Thunder", "J": "119", "K": "108"}),
		},
	}
}

func newTestLoader(t *testing.T, fetcher Fetcher) *Loader {
	t.Helper()
	loader, err := NewLoader(fetcher, LoaderConfig{
		Sources: testSources(),
		Layout:  DefaultLayout(),
		Logger:  logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	return loader
}

func TestLoader_BuildsSnapshot(t *testing.T) {
	t.Parallel()

	repo, err := newTestLoader(t, fakeFetcher{sheets: testSheets()}).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	boston := repo.GetTeamStats(repo.CanonicalTeamKey("BOS"))
	checks := map[string][2]float64{
		"pace season":       {boston.PaceSeason, 97.5},
		"ppg":               {boston.PPGSeason, 120.1},
		"oppg":              {boston.OPPGSeason, 109.4},
		"pace recent":       {boston.PaceRecent, 98.2},
		"off eff recent":    {boston.EfficiencyRecent.Offense, 121.5},
		"def eff home":      {boston.EfficiencyHome.Defense, 108},
		"off eff away":      {boston.EfficiencyAway.Offense, 117},
		"last5 wins":        {boston.Last5.Wins, 4},
		"home losses":       {boston.Home.Losses, 6},
		"away wins":         {boston.Away.Wins, 20},
		"predictive rating": {boston.PredictiveRating, 9.8},
		"off reb home":      {boston.Rebounding.OffensiveHome, 28.1},
		"off reb away":      {boston.Rebounding.OffensiveAway, 26.0},
		"def reb last3":     {boston.Rebounding.DefensiveLast3, 75},
		"opp off reb":       {boston.Rebounding.OppOffensiveSeason, 24},
		"opp def reb last3": {boston.Rebounding.OppDefensiveLast3, 71},
	}
	for name, pair := range checks {
		if pair[0] != pair[1] {
			t.Fatalf("%s = %v, want %v", name, pair[0], pair[1])
		}
	}
	if boston.ATSRecord != "40-30-2" || boston.ATSCover != "57.1%" || boston.DisplayName != "Boston" {
		t.Fatalf("unexpected text fields %+v", boston)
	}
	if !math.IsNaN(boston.PPGRecent) {
		t.Fatalf("ppg recent has no default column and must stay unknown")
	}

	okc := repo.GetTeamStats("OKC")
	if okc.TeamKey != "okla city" || okc.EfficiencyRecent.Offense != 119 || okc.OverUnderRecord != "35-37-0" {
		t.Fatalf("expected NBAstuffer row merged into okla city through franchise aliases, got %+v", okc)
	}

	league := repo.LeagueAverages()
	if league.Points != 230 || league.Pace != 99 {
		t.Fatalf("unexpected league %+v", league)
	}
	if teams := repo.ListTeams(); len(teams) != 2 {
		t.Fatalf("nbastuffer names must not add teams, got %v", teams)
	}
	if l, ok := repo.DefaultLineup("boston celtics"); !ok || l.Starters[4] != "Kristaps Porzingis" {
		t.Fatalf("unexpected lineup %+v", l)
	}
	if p, ok := repo.GetPlayer("jayson tatum"); !ok || p.MinutesPerGame() != 36 {
		t.Fatalf("unexpected player %+v", p)
	}
}

func TestLoader_FirstErrorFailsLoad(t *testing.T) {
	t.Parallel()

	boom := errors.New("sheet offline")
	fetcher := fakeFetcher{sheets: testSheets(), fail: map[string]error{"ranking": boom}}
	if _, err := newTestLoader(t, fetcher).Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected ranking failure, got %v", err)
	}
}

func TestLoader_EmptySourcesYieldNeutralSnapshot(t *testing.T) {
	t.Parallel()

	loader, err := NewLoader(fakeFetcher{}, LoaderConfig{Layout: DefaultLayout()})
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	repo, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(repo.ListTeams()) != 0 || len(repo.ListPlayerNames()) != 0 {
		t.Fatalf("expected empty snapshot")
	}
	if got := repo.LeagueAverages(); got.Points != 118 || got.Pace != 100 {
		t.Fatalf("expected default league averages, got %+v", got)
	}
}

func TestNewLoader_RejectsBadLayout(t *testing.T) {
	t.Parallel()

	layout := DefaultLayout()
	layout.Players.Name = ""
	if _, err := NewLoader(fakeFetcher{}, LoaderConfig{Layout: layout}); err == nil {
		t.Fatalf("expected layout error")
	}
}
