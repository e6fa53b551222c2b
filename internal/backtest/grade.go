package backtest

import (
	"math"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomePush Outcome = "push"
)

// GradeSpread settles a spread play. bookSpread is home-relative, so home
// covers when homeMargin + bookSpread is positive.
func GradeSpread(play projection.Play, bookSpread, homeMargin float64) Outcome {
	if math.IsNaN(bookSpread) || math.IsNaN(homeMargin) {
		return OutcomeNone
	}

	cover := homeMargin + bookSpread
	switch play {
	case projection.PlayBetHome:
		return settle(cover)
	case projection.PlayBetAway:
		return settle(-cover)
	default:
		return OutcomeNone
	}
}

func GradeTotal(play projection.Play, bookTotal, finalTotal float64) Outcome {
	if math.IsNaN(bookTotal) || math.IsNaN(finalTotal) {
		return OutcomeNone
	}

	diff := finalTotal - bookTotal
	switch play {
	case projection.PlayBetOver:
		return settle(diff)
	case projection.PlayBetUnder:
		return settle(-diff)
	default:
		return OutcomeNone
	}
}

func settle(v float64) Outcome {
	switch {
	case v > 0:
		return OutcomeWin
	case v < 0:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}

// Record counts settled plays.
type Record struct {
	Wins   int
	Losses int
	Pushes int
}

func (r *Record) Add(o Outcome) {
	switch o {
	case OutcomeWin:
		r.Wins++
	case OutcomeLoss:
		r.Losses++
	case OutcomePush:
		r.Pushes++
	}
}

func (r Record) Graded() int {
	return r.Wins + r.Losses + r.Pushes
}

// WinRate excludes pushes. It is NaN when nothing was decided.
func (r Record) WinRate() float64 {
	decided := r.Wins + r.Losses
	if decided == 0 {
		return math.NaN()
	}
	return float64(r.Wins) / float64(decided)
}
