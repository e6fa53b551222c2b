package projection

import "math"

// Play is a betting recommendation.
type Play string

const (
	PlayNoBet    Play = "NO_BET"
	PlayBetHome  Play = "BET_HOME"
	PlayBetAway  Play = "BET_AWAY"
	PlayBetOver  Play = "BET_OVER"
	PlayBetUnder Play = "BET_UNDER"
)

var playLabels = map[Play]string{
	PlayNoBet:    "NO BET",
	PlayBetHome:  "Bet Home",
	PlayBetAway:  "Bet Away",
	PlayBetOver:  "BET OVER",
	PlayBetUnder: "BET UNDER",
}

// Label is the human form used in exports.
func (p Play) Label() string {
	if label, ok := playLabels[p]; ok {
		return label
	}
	return string(p)
}

func (p Play) Valid() bool {
	_, ok := playLabels[p]
	return ok
}

// EvaluateSpread compares the home-minus-away model spread with the book
// spread. The edge must strictly exceed minEdge; a missing book line is never
// a bet.
func EvaluateSpread(modelSpread, bookSpread, minEdge float64) Play {
	if math.IsNaN(bookSpread) || math.IsNaN(modelSpread) {
		return PlayNoBet
	}
	diff := modelSpread - bookSpread
	switch {
	case diff > minEdge:
		return PlayBetHome
	case diff < -minEdge:
		return PlayBetAway
	default:
		return PlayNoBet
	}
}

// EvaluateTotal compares the model total with the book total.
func EvaluateTotal(modelTotal, bookTotal, minEdge float64) Play {
	if math.IsNaN(bookTotal) || math.IsNaN(modelTotal) {
		return PlayNoBet
	}
	diff := modelTotal - bookTotal
	switch {
	case diff > minEdge:
		return PlayBetOver
	case diff < -minEdge:
		return PlayBetUnder
	default:
		return PlayNoBet
	}
}
