package player

// Repository describes player lookups against a loaded stats snapshot.
type Repository interface {
	GetPlayer(name string) (Player, bool)
	ListPlayerNames() []string
}
