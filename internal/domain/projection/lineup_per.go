package projection

import (
	"math"
	"strings"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/player"
)

// PlayerContribution is one slot's share of a lineup PER.
type PlayerContribution struct {
	Slot           lineup.Slot
	Name           string
	Resolved       bool
	MinutesPerGame float64
	PER            float64
	UsagePct       float64
	Weight         float64
}

// LineupBreakdown explains how a lineup PER was reached.
type LineupBreakdown struct {
	Players     []PlayerContribution
	TotalWeight float64
	LineupPER   float64
	// DeltaVsNeutral is LineupPER minus the neutral PER.
	DeltaVsNeutral float64
	// Fallback is true when no player carried weight.
	Fallback bool
}

// ComputeLineupPER is the minutes and usage weighted PER of the resolvable
// players in sel. Each player weighs minutesPerGame*(0.5+0.5*usage/100).
// Unresolved names and players without PER are skipped; when nothing carries
// weight the neutral PER is returned.
func (m Model) ComputeLineupPER(sel lineup.Selection, players player.Repository) float64 {
	return m.BreakDownLineup(sel, players).LineupPER
}

func (m Model) BreakDownLineup(sel lineup.Selection, players player.Repository) LineupBreakdown {
	out := LineupBreakdown{Players: make([]PlayerContribution, 0, lineup.Size)}

	var weightedPER float64
	for i, raw := range sel {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		row := PlayerContribution{
			Slot:           lineup.Slot(i),
			Name:           raw,
			MinutesPerGame: math.NaN(),
			PER:            math.NaN(),
			UsagePct:       math.NaN(),
		}

		var p player.Player
		found := false
		if players != nil {
			p, found = players.GetPlayer(raw)
		}
		if found {
			row.Name = p.Name
			row.MinutesPerGame = p.MinutesPerGame()
			row.PER = p.PER
			row.UsagePct = p.UsagePct
		}
		if found && p.HasPER() {
			row.Resolved = true
			row.Weight = playerWeight(p)
			weightedPER += p.PER * row.Weight
			out.TotalWeight += row.Weight
		}
		out.Players = append(out.Players, row)
	}

	if out.TotalWeight > 0 {
		out.LineupPER = weightedPER / out.TotalWeight
	} else {
		out.LineupPER = m.NeutralLineupPER
		out.TotalWeight = 0
		out.Fallback = true
	}
	out.DeltaVsNeutral = out.LineupPER - m.NeutralLineupPER

	return out
}

func playerWeight(p player.Player) float64 {
	usage := p.UsagePct
	if math.IsNaN(usage) || math.IsInf(usage, 0) {
		usage = 0
	}
	mpg := p.MinutesPerGame()
	if math.IsInf(mpg, 0) {
		mpg = 0
	}
	return mpg * (0.5 + 0.5*(usage/100))
}
