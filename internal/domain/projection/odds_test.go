package projection

import (
	"errors"
	"math"
	"testing"
)

func TestWinProbability(t *testing.T) {
	t.Parallel()

	if got := WinProbability(0, 6); got != 0.5 {
		t.Fatalf("expected 0.5 at zero margin, got %v", got)
	}
	for _, margin := range []float64{-12, -1, 2.5, 30} {
		p := WinProbability(margin, 6)
		q := WinProbability(-margin, 6)
		if math.Abs(p+q-1) > tolerance {
			t.Fatalf("margin=%v: expected complementary probabilities, got %v + %v", margin, p, q)
		}
		if (margin > 0) != (p > 0.5) {
			t.Fatalf("margin=%v: probability %v on wrong side of even", margin, p)
		}
	}
}

func TestFairAmericanOdds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		p    float64
		want int
	}{
		{p: 0.5, want: 100},
		{p: 0.6, want: -150},
		{p: 0.4, want: 150},
		{p: 0.8, want: -400},
		{p: 0.2, want: 400},
	}
	for _, tc := range cases {
		got, err := FairAmericanOdds(tc.p)
		if err != nil {
			t.Fatalf("p=%v: unexpected error %v", tc.p, err)
		}
		if got != tc.want {
			t.Fatalf("p=%v: expected %d, got %d", tc.p, tc.want, got)
		}
	}

	for _, p := range []float64{0, 1, -0.1, math.NaN()} {
		if _, err := FairAmericanOdds(p); !errors.Is(err, ErrMalformedInput) {
			t.Fatalf("p=%v: expected ErrMalformedInput, got %v", p, err)
		}
	}
}
