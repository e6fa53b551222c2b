package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/savedgame"
)

// SavedGameRepository keeps saved games for the process lifetime.
type SavedGameRepository struct {
	mu    sync.RWMutex
	items map[string]savedgame.SavedGame
	order []string
}

func NewSavedGameRepository() *SavedGameRepository {
	return &SavedGameRepository{items: make(map[string]savedgame.SavedGame)}
}

func (r *SavedGameRepository) Create(_ context.Context, game savedgame.SavedGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[game.ID]; exists {
		return fmt.Errorf("saved game %s already exists", game.ID)
	}
	r.items[game.ID] = game
	r.order = append(r.order, game.ID)
	return nil
}

func (r *SavedGameRepository) GetByID(_ context.Context, id string) (savedgame.SavedGame, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.items[id]
	return game, ok, nil
}

// List orders by CreatedAt descending; games created at the same instant
// come back in reverse insertion order.
func (r *SavedGameRepository) List(_ context.Context, limit int) ([]savedgame.SavedGame, error) {
	r.mu.RLock()
	out := make([]savedgame.SavedGame, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.items[r.order[i]])
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b savedgame.SavedGame) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
