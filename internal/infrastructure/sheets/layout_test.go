package sheets

import "testing"

func TestColumnIndex(t *testing.T) {
	t.Parallel()

	cases := []struct {
		col  Column
		want int
		ok   bool
	}{
		{col: "A", want: 0, ok: true},
		{col: "b", want: 1, ok: true},
		{col: "Z", want: 25, ok: true},
		{col: "AA", want: 26, ok: true},
		{col: "AI", want: 34, ok: true},
		{col: "BH", want: 59, ok: true},
		{col: "BQ", want: 68, ok: true},
		{col: "", ok: false},
		{col: "null", ok: false},
		{col: "A1", ok: false},
	}
	for _, tc := range cases {
		got, ok := tc.col.Index()
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("Column(%q).Index() = %d, %v; want %d, %v", tc.col, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLayoutOverride(t *testing.T) {
	t.Parallel()

	layout := DefaultLayout()
	err := layout.Override(map[string]map[string]string{
		"ppg":     {"oppg": "I", "ppg_recent": "J"},
		"LINEUPS": {"c": "G"},
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if layout.PPG.OPPG != "I" || layout.PPG.PPGRecent != "J" || layout.Lineups.Slots[4] != "G" {
		t.Fatalf("override not applied: %+v %+v", layout.PPG, layout.Lineups)
	}
	if err := layout.Validate(); err != nil {
		t.Fatalf("expected valid layout: %v", err)
	}

	for _, bad := range []map[string]map[string]string{
		{"nope": {"team": "A"}},
		{"ppg": {"nope": "A"}},
		{"ppg": {"oppg": "9"}},
	} {
		l := DefaultLayout()
		if err := l.Override(bad); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}

func TestLayoutValidate_RequiresTeamColumns(t *testing.T) {
	t.Parallel()

	layout := DefaultLayout()
	if err := layout.Validate(); err != nil {
		t.Fatalf("default layout must be valid: %v", err)
	}
	layout.PPG.Team = ""
	if err := layout.Validate(); err == nil {
		t.Fatalf("expected missing team column to fail")
	}
}
