package player

import (
	"math"

	"github.com/riskibarqy/nba-lineup-model/internal/platform/naming"
)

// Player holds the per-player advanced metrics read from the players sheet.
// Unknown numeric values are NaN.
type Player struct {
	Name         string
	GamesPlayed  float64
	MinutesTotal float64
	PER          float64
	UsagePct     float64
}

// Key is the normalized lookup key for the player.
func (p Player) Key() string {
	return naming.Key(p.Name)
}

// MinutesPerGame is total minutes over games played, or 0 when either is
// unknown or no games were played.
func (p Player) MinutesPerGame() float64 {
	if math.IsNaN(p.GamesPlayed) || math.IsNaN(p.MinutesTotal) || p.GamesPlayed <= 0 {
		return 0
	}
	return p.MinutesTotal / p.GamesPlayed
}

// HasPER reports whether the player carries a usable PER value.
func (p Player) HasPER() bool {
	return !math.IsNaN(p.PER) && !math.IsInf(p.PER, 0)
}
