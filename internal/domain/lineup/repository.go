package lineup

// Repository exposes the default lineups of a loaded stats snapshot.
type Repository interface {
	DefaultLineup(teamKey string) (TeamLineup, bool)
	ListLineups() []TeamLineup
}
