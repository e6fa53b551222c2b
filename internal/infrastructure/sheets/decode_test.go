package sheets

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want float64
	}{
		{raw: "112.5", want: 112.5},
		{raw: " 52.1% ", want: 52.1},
		{raw: "1,234", want: 1234},
		{raw: "+3.5", want: 3.5},
		{raw: "-7", want: -7},
		{raw: ".5", want: 0.5},
		{raw: "1.2.3", want: 1.2},
		{raw: "$98", want: 98},
	}
	for _, tc := range cases {
		if got := parseNumber(tc.raw); got != tc.want {
			t.Fatalf("parseNumber(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "—", "n/a", "-", "+."} {
		if got := parseNumber(raw); !math.IsNaN(got) {
			t.Fatalf("parseNumber(%q) = %v, want NaN", raw, got)
		}
	}
}

func TestDecodePlayers(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Rk", "Player", "Pos", "Age", "Tm", "G", "GS", "MP", "PER"},
		{"1", "Jayson Tatum", "SF", "26", "BOS", "70", "70", "2,520", "22.4"},
		{"2", "", "PG", "22", "BOS", "10", "0", "100", "9"},
		{"3", "Short Row", "C"},
	}
	got := decodePlayers(rows, DefaultLayout().Players)
	if len(got) != 2 {
		t.Fatalf("expected two players, got %d", len(got))
	}
	tatum := got[0]
	if tatum.Name != "Jayson Tatum" || tatum.GamesPlayed != 70 || tatum.MinutesTotal != 2520 || tatum.PER != 22.4 {
		t.Fatalf("unexpected player %+v", tatum)
	}
	if !math.IsNaN(tatum.UsagePct) {
		t.Fatalf("missing usage column must be NaN, got %v", tatum.UsagePct)
	}
	if short := got[1]; !math.IsNaN(short.GamesPlayed) || !math.IsNaN(short.PER) {
		t.Fatalf("short row must decode as unknown metrics, got %+v", short)
	}
}

func TestDecodeLeague(t *testing.T) {
	t.Parallel()

	got := decodeLeague([][]string{
		{"Stat", "Value"},
		{"Points", "229.4"},
		{" PACE ", "99.1"},
		{"", "1"},
	}, DefaultLayout().League)
	if got["points"] != 229.4 || got["pace"] != 99.1 || len(got) != 2 {
		t.Fatalf("unexpected league map %v", got)
	}
}
