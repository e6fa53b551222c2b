package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
	"github.com/riskibarqy/nba-lineup-model/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// Sources are the CSV locations of each sheet. An empty source loads as an
// empty sheet.
type Sources struct {
	Players          string
	Lineups          string
	League           string
	OffRebounding    string
	OppOffRebounding string
	DefRebounding    string
	OppDefRebounding string
	NBAStuffer       string
	PPG              string
	ATS              string
	OverUnder        string
	Ranking          string
	Names            string
}

type source int

const (
	sourcePlayers source = iota
	sourceLineups
	sourceLeague
	sourceOffRebounding
	sourceOppOffRebounding
	sourceDefRebounding
	sourceOppDefRebounding
	sourceNBAStuffer
	sourcePPG
	sourceATS
	sourceOverUnder
	sourceRanking
	sourceNames
	sourceCount
)

var sourceLabels = [sourceCount]string{
	"players", "lineups", "league", "oreb", "opp_oreb", "dreb", "opp_dreb",
	"nbastuffer", "ppg", "ats", "ou", "ranking", "names",
}

func (s Sources) list() [sourceCount]string {
	return [sourceCount]string{
		s.Players, s.Lineups, s.League, s.OffRebounding, s.OppOffRebounding, s.DefRebounding,
		s.OppDefRebounding, s.NBAStuffer, s.PPG, s.ATS, s.OverUnder, s.Ranking, s.Names,
	}
}

// Fetcher downloads one CSV source as rows.
type Fetcher interface {
	FetchCSV(ctx context.Context, source string) ([][]string, error)
}

type LoaderConfig struct {
	Sources        Sources
	Layout         Layout
	MaxConcurrency int
	Logger         *logging.Logger
}

// Loader fetches every sheet and assembles an immutable stats snapshot.
type Loader struct {
	fetcher        Fetcher
	sources        Sources
	layout         Layout
	maxConcurrency int
	logger         *logging.Logger
}

func NewLoader(fetcher Fetcher, cfg LoaderConfig) (*Loader, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("sheet fetcher is required")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("validate sheet layout: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.MaxConcurrency
	if workers <= 0 || workers > int(sourceCount) {
		workers = int(sourceCount)
	}

	return &Loader{
		fetcher:        fetcher,
		sources:        cfg.Sources,
		layout:         cfg.Layout,
		maxConcurrency: workers,
		logger:         logger.Component("sheets.loader"),
	}, nil
}

// Load fetches all sources concurrently. The first failing sheet cancels the
// rest and fails the load.
func (l *Loader) Load(ctx context.Context) (*memory.StatsRepository, error) {
	start := time.Now()

	var sheets [sourceCount][][]string
	urls := l.sources.list()

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(l.maxConcurrency)
	for i := range urls {
		idx := source(i)
		p.Go(func(ctx context.Context) error {
			rows, err := l.fetcher.FetchCSV(ctx, urls[idx])
			if err != nil {
				return fmt.Errorf("load %s sheet: %w", sourceLabels[idx], err)
			}
			sheets[idx] = rows
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		l.logger.WarnContext(ctx, "stats snapshot load failed", "error", err, "duration", time.Since(start))
		return nil, err
	}

	repo := l.assemble(sheets)
	teams, players, lineups := repo.Counts()
	l.logger.InfoContext(ctx, "stats snapshot loaded",
		"teams", teams,
		"players", players,
		"lineups", lineups,
		"duration", time.Since(start),
	)
	return repo, nil
}

func (l *Loader) assemble(sheets [sourceCount][][]string) *memory.StatsRepository {
	layout := l.layout
	dir := memory.NewTeamDirectory()

	lineupRows := decodeLineups(sheets[sourceLineups], layout.Lineups)
	for _, row := range lineupRows {
		dir.Register(row.team)
	}
	teamSheets := []struct {
		rows [][]string
		team Column
	}{
		{sheets[sourcePPG], layout.PPG.Team},
		{sheets[sourceRanking], layout.Ranking.Team},
		{sheets[sourceATS], layout.ATS.Team},
		{sheets[sourceOverUnder], layout.OverUnder.Team},
		{sheets[sourceOffRebounding], layout.OffRebounding.Team},
		{sheets[sourceDefRebounding], layout.DefRebounding.Team},
		{sheets[sourceOppOffRebounding], layout.OppOffRebounding.Team},
		{sheets[sourceOppDefRebounding], layout.OppDefRebounding.Team},
	}
	for _, sheet := range teamSheets {
		eachTeamRow(sheet.rows, sheet.team, func(name string, _ []string) {
			dir.Register(name)
		})
	}

	pairs := decodeNames(sheets[sourceNames], layout.Names)
	for _, pair := range pairs {
		dir.Register(pair.teamRankings)
	}
	for _, pair := range pairs {
		dir.AddAlias(pair.nbaStuffer, pair.teamRankings)
	}
	dir.AddFranchiseAliases()

	// NBAstuffer-only teams become canonical under their own name.
	eachTeamRow(sheets[sourceNBAStuffer], layout.NBAStuffer.Team, func(name string, _ []string) {
		dir.Register(name)
	})

	snaps := make(map[string]*teamstats.Snapshot)
	snapshot := func(name string) *teamstats.Snapshot {
		key := dir.Canonical(name)
		if s, ok := snaps[key]; ok {
			return s
		}
		s := teamstats.Unknown(key)
		snaps[key] = &s
		return &s
	}

	eachTeamRow(sheets[sourcePPG], layout.PPG.Team, func(name string, row []string) {
		s := snapshot(name)
		s.PaceSeason = number(row, layout.PPG.Pace)
		s.PPGSeason = number(row, layout.PPG.PPG)
		s.OPPGSeason = number(row, layout.PPG.OPPG)
		s.PPGRecent = number(row, layout.PPG.PPGRecent)
	})
	eachTeamRow(sheets[sourceRanking], layout.Ranking.Team, func(name string, row []string) {
		snapshot(name).PredictiveRating = number(row, layout.Ranking.Rating)
	})
	eachTeamRow(sheets[sourceATS], layout.ATS.Team, func(name string, row []string) {
		s := snapshot(name)
		s.ATSRecord = cell(row, layout.ATS.Record)
		s.ATSCover = cell(row, layout.ATS.Cover)
	})
	eachTeamRow(sheets[sourceOverUnder], layout.OverUnder.Team, func(name string, row []string) {
		snapshot(name).OverUnderRecord = cell(row, layout.OverUnder.Record)
	})
	eachTeamRow(sheets[sourceOffRebounding], layout.OffRebounding.Team, func(name string, row []string) {
		s := snapshot(name)
		s.Rebounding.OffensiveHome = number(row, layout.OffRebounding.Home)
		s.Rebounding.OffensiveAway = number(row, layout.OffRebounding.Away)
		s.Rebounding.OffensiveLast3 = number(row, layout.OffRebounding.Last3)
	})
	eachTeamRow(sheets[sourceDefRebounding], layout.DefRebounding.Team, func(name string, row []string) {
		s := snapshot(name)
		s.Rebounding.DefensiveHome = number(row, layout.DefRebounding.Home)
		s.Rebounding.DefensiveAway = number(row, layout.DefRebounding.Away)
		s.Rebounding.DefensiveLast3 = number(row, layout.DefRebounding.Last3)
	})
	eachTeamRow(sheets[sourceOppOffRebounding], layout.OppOffRebounding.Team, func(name string, row []string) {
		s := snapshot(name)
		s.Rebounding.OppOffensiveSeason = number(row, layout.OppOffRebounding.Season)
		s.Rebounding.OppOffensiveLast3 = number(row, layout.OppOffRebounding.Last3)
	})
	eachTeamRow(sheets[sourceOppDefRebounding], layout.OppDefRebounding.Team, func(name string, row []string) {
		s := snapshot(name)
		s.Rebounding.OppDefensiveSeason = number(row, layout.OppDefRebounding.Season)
		s.Rebounding.OppDefensiveLast3 = number(row, layout.OppDefRebounding.Last3)
	})
	nb := layout.NBAStuffer
	eachTeamRow(sheets[sourceNBAStuffer], nb.Team, func(name string, row []string) {
		s := snapshot(name)
		s.EfficiencyRecent = teamstats.Efficiency{Offense: number(row, nb.OffEffRecent), Defense: number(row, nb.DefEffRecent)}
		s.EfficiencyHome = teamstats.Efficiency{Offense: number(row, nb.OffEffHome), Defense: number(row, nb.DefEffHome)}
		s.EfficiencyAway = teamstats.Efficiency{Offense: number(row, nb.OffEffAway), Defense: number(row, nb.DefEffAway)}
		s.PaceRecent = number(row, nb.PaceRecent)
		s.Last5 = teamstats.Record{Wins: number(row, nb.Last5Wins), Losses: number(row, nb.Last5Losses)}
		s.Home = teamstats.Record{Wins: number(row, nb.HomeWins), Losses: number(row, nb.HomeLosses)}
		s.Away = teamstats.Record{Wins: number(row, nb.AwayWins), Losses: number(row, nb.AwayLosses)}
	})

	teams := make([]teamstats.Snapshot, 0, len(snaps))
	for _, key := range dir.Keys() {
		s, ok := snaps[key]
		if !ok {
			continue
		}
		if err := s.Validate(); err != nil {
			l.logger.Warn("team snapshot has malformed values", "team", key, "error", err)
		}
		teams = append(teams, *s)
	}

	lineups := make([]lineup.TeamLineup, 0, len(lineupRows))
	for _, row := range lineupRows {
		key := dir.Canonical(row.team)
		name, _ := dir.DisplayName(key)
		lineups = append(lineups, lineup.TeamLineup{TeamKey: key, TeamName: name, Starters: row.starters})
	}

	return memory.NewStatsRepository(memory.StatsData{
		Directory: dir,
		Teams:     teams,
		Players:   decodePlayers(sheets[sourcePlayers], layout.Players),
		Lineups:   lineups,
		League:    teamstats.NewLeagueAverages(decodeLeague(sheets[sourceLeague], layout.League)),
	})
}
