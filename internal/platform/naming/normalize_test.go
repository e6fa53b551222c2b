package naming

import "testing"

func TestKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "   ", want: ""},
		{name: "case and spacing", in: "  Boston   CELTICS ", want: "boston celtics"},
		{name: "tabs and newlines", in: "LA\tClippers\n", want: "la clippers"},
		{name: "diacritics", in: "Nikola Jokić", want: "nikola jokic"},
		{name: "multiple marks", in: "Kristaps Porziņģis", want: "kristaps porzingis"},
		{name: "non decomposing letter", in: "Jusuf Nurkić Ø", want: "jusuf nurkic o"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Key(tc.in); got != tc.want {
				t.Fatalf("Key(%q)=%q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	if !Equal("Luka Dončić", "luka  doncic") {
		t.Fatalf("expected names to match after folding")
	}
	if Equal("Jalen Williams", "Jaylin Williams") {
		t.Fatalf("expected different players to stay distinct")
	}
}
