package teamstats

// Repository describes team lookups against a loaded stats snapshot.
// GetTeamStats never fails: absent teams yield Unknown(teamKey).
type Repository interface {
	GetTeamStats(teamKey string) Snapshot
	CanonicalTeamKey(rawName string) string
	LeagueAverages() LeagueAverages
	ListTeams() []string
}
