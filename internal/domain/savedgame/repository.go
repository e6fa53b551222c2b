package savedgame

import "context"

// Repository persists saved games. List returns newest first.
type Repository interface {
	Create(ctx context.Context, game SavedGame) error
	GetByID(ctx context.Context, id string) (SavedGame, bool, error)
	List(ctx context.Context, limit int) ([]SavedGame, error)
}
