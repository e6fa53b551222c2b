package projection

import (
	"fmt"
	"math"
)

// WinProbability maps an away-relative margin onto the away win probability
// with a logistic curve of the given scale.
func WinProbability(margin, scale float64) float64 {
	return 1 / (1 + math.Exp(-margin/scale))
}

// FairAmericanOdds converts a win probability into a no-vig American price.
// 0.5 is +100, favorites are negative.
func FairAmericanOdds(probability float64) (int, error) {
	if math.IsNaN(probability) || probability <= 0 || probability >= 1 {
		return 0, fmt.Errorf("%w: probability %v must be between 0 and 1", ErrMalformedInput, probability)
	}

	decimal := 1 / probability
	if decimal >= 2 {
		return int(math.Round((decimal - 1) * 100)), nil
	}
	return int(math.Round(-100 / (decimal - 1))), nil
}
