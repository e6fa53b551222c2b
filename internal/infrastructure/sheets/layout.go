package sheets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
)

// Column is a spreadsheet column letter such as "B" or "BH". An empty column
// is not read.
type Column string

// Index converts the letter to a zero-based offset: A is 0, Z is 25, AA is 26.
func (c Column) Index() (int, bool) {
	letters := strings.ToUpper(strings.TrimSpace(string(c)))
	if letters == "" || letters == "NULL" {
		return 0, false
	}

	n := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, false
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, true
}

func (c Column) valid() bool {
	letters := strings.TrimSpace(string(c))
	if letters == "" || strings.EqualFold(letters, "null") {
		return true
	}
	_, ok := c.Index()
	return ok
}

type PlayersLayout struct {
	Name    Column
	Games   Column
	Minutes Column
	PER     Column
	Usage   Column
}

type LineupsLayout struct {
	Team  Column
	Slots [lineup.Size]Column
}

// ReboundingLayout reads a team's own rebounding percentages split by venue.
type ReboundingLayout struct {
	Team  Column
	Home  Column
	Away  Column
	Last3 Column
}

// OppReboundingLayout reads what opponents manage against the team.
type OppReboundingLayout struct {
	Team   Column
	Season Column
	Last3  Column
}

type NBAStufferLayout struct {
	Team         Column
	OffEffRecent Column
	DefEffRecent Column
	PaceRecent   Column
	OffEffHome   Column
	DefEffHome   Column
	OffEffAway   Column
	DefEffAway   Column
	Last5Wins    Column
	Last5Losses  Column
	HomeWins     Column
	HomeLosses   Column
	AwayWins     Column
	AwayLosses   Column
}

type PPGLayout struct {
	Team      Column
	Pace      Column
	PPG       Column
	OPPG      Column
	PPGRecent Column
}

type ATSLayout struct {
	Team   Column
	Record Column
	Cover  Column
}

type OverUnderLayout struct {
	Team   Column
	Record Column
}

type RankingLayout struct {
	Team   Column
	Rating Column
}

// NamesLayout pairs the TeamRankings spelling with the NBAstuffer one.
type NamesLayout struct {
	TeamRankings Column
	NBAStuffer   Column
}

type LeagueLayout struct {
	Stat  Column
	Value Column
}

// Layout holds the column letters of every source sheet.
type Layout struct {
	Players          PlayersLayout
	Lineups          LineupsLayout
	OffRebounding    ReboundingLayout
	DefRebounding    ReboundingLayout
	OppOffRebounding OppReboundingLayout
	OppDefRebounding OppReboundingLayout
	NBAStuffer       NBAStufferLayout
	PPG              PPGLayout
	ATS              ATSLayout
	OverUnder        OverUnderLayout
	Ranking          RankingLayout
	Names            NamesLayout
	League           LeagueLayout
}

// DefaultLayout matches the published sheets the model was built against.
func DefaultLayout() Layout {
	return Layout{
		Players: PlayersLayout{Name: "B", Games: "F", Minutes: "H", PER: "I", Usage: "T"},
		Lineups: LineupsLayout{Team: "A", Slots: [lineup.Size]Column{"B", "C", "D", "E", "F"}},
		OffRebounding: ReboundingLayout{
			Team: "B", Home: "F", Away: "G", Last3: "D",
		},
		DefRebounding: ReboundingLayout{
			Team: "B", Home: "F", Away: "G", Last3: "D",
		},
		OppOffRebounding: OppReboundingLayout{Team: "B", Season: "C", Last3: "D"},
		OppDefRebounding: OppReboundingLayout{Team: "B", Season: "C", Last3: "D"},
		NBAStuffer: NBAStufferLayout{
			Team:         "B",
			OffEffRecent: "J",
			DefEffRecent: "K",
			PaceRecent:   "I",
			OffEffHome:   "BH",
			DefEffHome:   "BI",
			OffEffAway:   "AI",
			DefEffAway:   "AJ",
			Last5Wins:    "R",
			Last5Losses:  "S",
			HomeWins:     "BP",
			HomeLosses:   "BQ",
			AwayWins:     "AQ",
			AwayLosses:   "AR",
		},
		PPG:       PPGLayout{Team: "B", Pace: "F", PPG: "G", OPPG: "H"},
		ATS:       ATSLayout{Team: "A", Record: "B", Cover: "C"},
		OverUnder: OverUnderLayout{Team: "A", Record: "B"},
		Ranking:   RankingLayout{Team: "A", Rating: "D"},
		Names:     NamesLayout{TeamRankings: "A", NBAStuffer: "B"},
		League:    LeagueLayout{Stat: "A", Value: "B"},
	}
}

// fields addresses every column as source.field for overrides and checks.
func (l *Layout) fields() map[string]map[string]*Column {
	return map[string]map[string]*Column{
		"players": {
			"name": &l.Players.Name, "games": &l.Players.Games, "minutes": &l.Players.Minutes,
			"per": &l.Players.PER, "usage": &l.Players.Usage,
		},
		"lineups": {
			"team": &l.Lineups.Team, "g1": &l.Lineups.Slots[0], "g2": &l.Lineups.Slots[1],
			"f1": &l.Lineups.Slots[2], "f2": &l.Lineups.Slots[3], "c": &l.Lineups.Slots[4],
		},
		"oreb": {
			"team": &l.OffRebounding.Team, "home": &l.OffRebounding.Home,
			"away": &l.OffRebounding.Away, "last3": &l.OffRebounding.Last3,
		},
		"dreb": {
			"team": &l.DefRebounding.Team, "home": &l.DefRebounding.Home,
			"away": &l.DefRebounding.Away, "last3": &l.DefRebounding.Last3,
		},
		"opp_oreb": {
			"team": &l.OppOffRebounding.Team, "season": &l.OppOffRebounding.Season, "last3": &l.OppOffRebounding.Last3,
		},
		"opp_dreb": {
			"team": &l.OppDefRebounding.Team, "season": &l.OppDefRebounding.Season, "last3": &l.OppDefRebounding.Last3,
		},
		"nbastuffer": {
			"team":           &l.NBAStuffer.Team,
			"off_eff_recent": &l.NBAStuffer.OffEffRecent,
			"def_eff_recent": &l.NBAStuffer.DefEffRecent,
			"pace_recent":    &l.NBAStuffer.PaceRecent,
			"off_eff_home":   &l.NBAStuffer.OffEffHome,
			"def_eff_home":   &l.NBAStuffer.DefEffHome,
			"off_eff_away":   &l.NBAStuffer.OffEffAway,
			"def_eff_away":   &l.NBAStuffer.DefEffAway,
			"last5_wins":     &l.NBAStuffer.Last5Wins,
			"last5_losses":   &l.NBAStuffer.Last5Losses,
			"home_wins":      &l.NBAStuffer.HomeWins,
			"home_losses":    &l.NBAStuffer.HomeLosses,
			"away_wins":      &l.NBAStuffer.AwayWins,
			"away_losses":    &l.NBAStuffer.AwayLosses,
		},
		"ppg": {
			"team": &l.PPG.Team, "pace": &l.PPG.Pace, "ppg": &l.PPG.PPG,
			"oppg": &l.PPG.OPPG, "ppg_recent": &l.PPG.PPGRecent,
		},
		"ats":     {"team": &l.ATS.Team, "record": &l.ATS.Record, "cover": &l.ATS.Cover},
		"ou":      {"team": &l.OverUnder.Team, "record": &l.OverUnder.Record},
		"ranking": {"team": &l.Ranking.Team, "rating": &l.Ranking.Rating},
		"names":   {"tr": &l.Names.TeamRankings, "nbas": &l.Names.NBAStuffer},
		"league":  {"stat": &l.League.Stat, "value": &l.League.Value},
	}
}

// Override replaces column letters, keyed by source then field, e.g.
// {"ppg": {"oppg": "I"}}.
func (l *Layout) Override(columns map[string]map[string]string) error {
	fields := l.fields()
	for source, overrides := range columns {
		sourceFields, ok := fields[strings.ToLower(source)]
		if !ok {
			return fmt.Errorf("unknown sheet %q", source)
		}
		for field, letter := range overrides {
			target, ok := sourceFields[strings.ToLower(field)]
			if !ok {
				return fmt.Errorf("unknown column %s.%s", source, field)
			}
			col := Column(strings.TrimSpace(letter))
			if !col.valid() {
				return fmt.Errorf("column %s.%s: invalid letter %q", source, field, letter)
			}
			*target = col
		}
	}
	return nil
}

// Validate requires every team and name column to be readable.
func (l Layout) Validate() error {
	fields := l.fields()
	sources := make([]string, 0, len(fields))
	for source := range fields {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		for field, col := range fields[source] {
			if !col.valid() {
				return fmt.Errorf("column %s.%s: invalid letter %q", source, field, *col)
			}
		}
	}

	required := map[string]Column{
		"players.name":    l.Players.Name,
		"lineups.team":    l.Lineups.Team,
		"nbastuffer.team": l.NBAStuffer.Team,
		"ppg.team":        l.PPG.Team,
		"names.tr":        l.Names.TeamRankings,
		"names.nbas":      l.Names.NBAStuffer,
		"league.stat":     l.League.Stat,
	}
	for name, col := range required {
		if _, ok := col.Index(); !ok {
			return fmt.Errorf("column %s is required", name)
		}
	}
	return nil
}
