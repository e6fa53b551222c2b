package memory

import (
	"sort"
	"strings"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/player"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/naming"
)

// StatsData is everything one sheet load produced. Team snapshots and lineups
// must already carry canonical keys from Directory.
type StatsData struct {
	Directory *TeamDirectory
	Teams     []teamstats.Snapshot
	Players   []player.Player
	Lineups   []lineup.TeamLineup
	League    teamstats.LeagueAverages
}

// StatsRepository is an immutable stats snapshot. It serves team, player, and
// lineup lookups without locking.
type StatsRepository struct {
	directory   *TeamDirectory
	teams       map[string]teamstats.Snapshot
	teamNames   []string
	players     map[string]player.Player
	playerNames []string
	lineups     map[string]lineup.TeamLineup
	lineupOrder []string
	league      teamstats.LeagueAverages
}

func NewStatsRepository(data StatsData) *StatsRepository {
	dir := data.Directory
	if dir == nil {
		dir = NewTeamDirectory()
	}

	r := &StatsRepository{
		directory: dir,
		teams:     make(map[string]teamstats.Snapshot, len(data.Teams)),
		players:   make(map[string]player.Player, len(data.Players)),
		lineups:   make(map[string]lineup.TeamLineup, len(data.Lineups)),
		league:    data.League.Normalize(),
	}

	for _, snap := range data.Teams {
		key := dir.Canonical(snap.TeamKey)
		if key == "" {
			continue
		}
		snap.TeamKey = key
		if name, ok := dir.DisplayName(key); ok && snap.DisplayName == "" {
			snap.DisplayName = name
		}
		r.teams[key] = snap
	}

	// Traded players appear once per stint; the first row is the season total.
	for _, p := range data.Players {
		key := p.Key()
		if key == "" {
			continue
		}
		if _, dup := r.players[key]; dup {
			continue
		}
		r.players[key] = p
		r.playerNames = append(r.playerNames, p.Name)
	}
	sort.Strings(r.playerNames)

	for _, l := range data.Lineups {
		key := dir.Canonical(l.TeamKey)
		if key == "" {
			continue
		}
		l.TeamKey = key
		if _, dup := r.lineups[key]; !dup {
			r.lineupOrder = append(r.lineupOrder, key)
		}
		r.lineups[key] = l
	}
	sort.Slice(r.lineupOrder, func(i, j int) bool {
		return r.lineups[r.lineupOrder[i]].TeamName < r.lineups[r.lineupOrder[j]].TeamName
	})

	for _, key := range dir.Keys() {
		name, _ := dir.DisplayName(key)
		r.teamNames = append(r.teamNames, name)
	}

	return r
}

func (r *StatsRepository) GetTeamStats(teamKey string) teamstats.Snapshot {
	key := r.directory.Canonical(teamKey)
	if snap, ok := r.teams[key]; ok {
		return snap
	}
	out := teamstats.Unknown(key)
	if name, ok := r.directory.DisplayName(key); ok {
		out.DisplayName = name
	}
	return out
}

func (r *StatsRepository) CanonicalTeamKey(rawName string) string {
	return r.directory.Canonical(strings.TrimSpace(rawName))
}

func (r *StatsRepository) LeagueAverages() teamstats.LeagueAverages {
	return r.league
}

func (r *StatsRepository) ListTeams() []string {
	return append([]string(nil), r.teamNames...)
}

func (r *StatsRepository) GetPlayer(name string) (player.Player, bool) {
	p, ok := r.players[naming.Key(name)]
	return p, ok
}

func (r *StatsRepository) ListPlayerNames() []string {
	return append([]string(nil), r.playerNames...)
}

func (r *StatsRepository) DefaultLineup(teamKey string) (lineup.TeamLineup, bool) {
	l, ok := r.lineups[r.directory.Canonical(teamKey)]
	return l, ok
}

func (r *StatsRepository) ListLineups() []lineup.TeamLineup {
	out := make([]lineup.TeamLineup, 0, len(r.lineupOrder))
	for _, key := range r.lineupOrder {
		out = append(out, r.lineups[key])
	}
	return out
}

// Counts summarizes the snapshot for logs and health checks.
func (r *StatsRepository) Counts() (teams, players, lineups int) {
	return len(r.teams), len(r.players), len(r.lineups)
}
