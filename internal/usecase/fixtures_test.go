package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/player"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
	"github.com/riskibarqy/nba-lineup-model/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

// halfLeagueModel keeps 59 point neutral teams above the score floor.
func halfLeagueModel() projection.Model {
	m := projection.DefaultModel()
	m.ScoreFloor = 50
	return m
}

func neutralTeam(key string) teamstats.Snapshot {
	s := teamstats.Unknown(key)
	s.PPGSeason = 59
	return s
}

// newTestSnapshot has Boston and Miami as perfectly neutral teams and Denver
// with a known lineup.
func newTestSnapshot() *memory.StatsRepository {
	dir := memory.NewTeamDirectory()
	bos := dir.Register("Boston")
	mia := dir.Register("Miami")
	den := dir.Register("Denver")
	dir.AddFranchiseAliases()

	denver := neutralTeam(den)
	denver.PPGSeason = 60
	denver.Home = teamstats.Record{Wins: 20, Losses: 10}

	return memory.NewStatsRepository(memory.StatsData{
		Directory: dir,
		Teams:     []teamstats.Snapshot{neutralTeam(bos), neutralTeam(mia), denver},
		Players: []player.Player{
			{Name: "Nikola Jokić", GamesPlayed: 10, MinutesTotal: 350, PER: 30, UsagePct: 30},
			{Name: "Jamal Murray", GamesPlayed: 10, MinutesTotal: 320, PER: 18, UsagePct: 26},
		},
		Lineups: []lineup.TeamLineup{
			{TeamKey: den, TeamName: "Denver", Starters: lineup.NewSelection("Jamal Murray", "", "", "", "Nikola Jokić")},
			{TeamKey: bos, TeamName: "Boston", Starters: lineup.NewSelection("Nobody Known")},
		},
		League: teamstats.DefaultLeagueAverages(),
	})
}

type fakeLoader struct {
	calls atomic.Int32
	snap  Snapshot
	err   atomic.Pointer[error]
}

func (f *fakeLoader) Load(context.Context) (Snapshot, error) {
	f.calls.Add(1)
	if errp := f.err.Load(); errp != nil {
		return nil, *errp
	}
	return f.snap, nil
}

func (f *fakeLoader) fail(err error) {
	f.err.Store(&err)
}

type staticSnapshots struct {
	snap Snapshot
	err  error
}

func (s staticSnapshots) Current(context.Context) (Snapshot, error) {
	return s.snap, s.err
}

func newTestProjectionService(snapshots SnapshotProvider) *ProjectionService {
	svc, err := NewProjectionService(snapshots, ProjectionConfig{
		Model:         halfLeagueModel(),
		BatchWorkers:  3,
		BatchMaxGames: 5,
	}, logging.NewNop())
	if err != nil {
		panic(err)
	}
	return svc
}

type fixedIDs struct {
	id  string
	err error
}

func (f fixedIDs) NewID() (string, error) {
	return f.id, f.err
}

var errSheetDown = errors.New("sheet down")
