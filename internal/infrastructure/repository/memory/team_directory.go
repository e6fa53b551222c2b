package memory

import (
	"sort"
	"strings"

	"github.com/riskibarqy/nba-lineup-model/internal/platform/naming"
)

type franchise struct {
	abbr     string
	city     string
	nickname string
	extra    []string
}

// nbaFranchises lists the league's teams with the spellings the stat sites
// disagree on.
var nbaFranchises = []franchise{
	{abbr: "ATL", city: "Atlanta", nickname: "Hawks"},
	{abbr: "BOS", city: "Boston", nickname: "Celtics"},
	{abbr: "BKN", city: "Brooklyn", nickname: "Nets", extra: []string{"BRK"}},
	{abbr: "CHA", city: "Charlotte", nickname: "Hornets", extra: []string{"CHO"}},
	{abbr: "CHI", city: "Chicago", nickname: "Bulls"},
	{abbr: "CLE", city: "Cleveland", nickname: "Cavaliers"},
	{abbr: "DAL", city: "Dallas", nickname: "Mavericks"},
	{abbr: "DEN", city: "Denver", nickname: "Nuggets"},
	{abbr: "DET", city: "Detroit", nickname: "Pistons"},
	{abbr: "GSW", city: "Golden State", nickname: "Warriors", extra: []string{"GS"}},
	{abbr: "HOU", city: "Houston", nickname: "Rockets"},
	{abbr: "IND", city: "Indiana", nickname: "Pacers"},
	{abbr: "LAC", city: "Los Angeles", nickname: "Clippers", extra: []string{"LA Clippers"}},
	{abbr: "LAL", city: "Los Angeles", nickname: "Lakers", extra: []string{"LA Lakers"}},
	{abbr: "MEM", city: "Memphis", nickname: "Grizzlies"},
	{abbr: "MIA", city: "Miami", nickname: "Heat"},
	{abbr: "MIL", city: "Milwaukee", nickname: "Bucks"},
	{abbr: "MIN", city: "Minnesota", nickname: "Timberwolves"},
	{abbr: "NOP", city: "New Orleans", nickname: "Pelicans", extra: []string{"NO"}},
	{abbr: "NYK", city: "New York", nickname: "Knicks", extra: []string{"NY"}},
	{abbr: "OKC", city: "Oklahoma City", nickname: "Thunder", extra: []string{"Okla City"}},
	{abbr: "ORL", city: "Orlando", nickname: "Magic"},
	{abbr: "PHI", city: "Philadelphia", nickname: "76ers", extra: []string{"Sixers"}},
	{abbr: "PHX", city: "Phoenix", nickname: "Suns", extra: []string{"PHO"}},
	{abbr: "POR", city: "Portland", nickname: "Trail Blazers", extra: []string{"Blazers"}},
	{abbr: "SAC", city: "Sacramento", nickname: "Kings"},
	{abbr: "SAS", city: "San Antonio", nickname: "Spurs", extra: []string{"SA"}},
	{abbr: "TOR", city: "Toronto", nickname: "Raptors"},
	{abbr: "UTA", city: "Utah", nickname: "Jazz", extra: []string{"UTAH"}},
	{abbr: "WAS", city: "Washington", nickname: "Wizards", extra: []string{"WSH"}},
}

// TeamDirectory maps every known spelling of a team onto one canonical key.
// Canonical keys are the normalized names of registered teams; aliases never
// shadow a registered key.
type TeamDirectory struct {
	display map[string]string
	aliases map[string]string
}

func NewTeamDirectory() *TeamDirectory {
	return &TeamDirectory{
		display: make(map[string]string),
		aliases: make(map[string]string),
	}
}

// Register adds a canonical team and returns its key. The first display
// spelling wins. Names that already resolve through an alias are not
// registered again.
func (d *TeamDirectory) Register(name string) string {
	name = strings.TrimSpace(name)
	key := naming.Key(name)
	if key == "" {
		return ""
	}
	if target, ok := d.aliases[key]; ok {
		return target
	}
	if _, ok := d.display[key]; !ok {
		d.display[key] = name
	}
	return key
}

// AddAlias points alias at target. It reports false when the alias is empty,
// already a canonical key, or already taken by another team.
func (d *TeamDirectory) AddAlias(alias, target string) bool {
	aliasKey := naming.Key(alias)
	targetKey := d.Canonical(target)
	if aliasKey == "" || targetKey == "" || aliasKey == targetKey {
		return false
	}
	if _, registered := d.display[aliasKey]; registered {
		return false
	}
	if existing, ok := d.aliases[aliasKey]; ok {
		return existing == targetKey
	}
	d.aliases[aliasKey] = targetKey
	return true
}

// AddFranchiseAliases links abbreviations and full franchise names to the
// registered teams they identify.
func (d *TeamDirectory) AddFranchiseAliases() {
	cityCount := make(map[string]int, len(nbaFranchises))
	for _, f := range nbaFranchises {
		cityCount[naming.Key(f.city)]++
	}

	for _, f := range nbaFranchises {
		target, ok := d.findFranchise(f, cityCount[naming.Key(f.city)] == 1)
		if !ok {
			continue
		}
		d.AddAlias(f.abbr, target)
		d.AddAlias(f.city+" "+f.nickname, target)
		d.AddAlias(f.nickname, target)
		for _, alt := range f.extra {
			d.AddAlias(alt, target)
		}
		if cityCount[naming.Key(f.city)] == 1 {
			d.AddAlias(f.city, target)
		}
	}
}

func (d *TeamDirectory) findFranchise(f franchise, cityUnique bool) (string, bool) {
	candidates := []string{f.city + " " + f.nickname, f.nickname}
	candidates = append(candidates, f.extra...)
	if cityUnique {
		candidates = append(candidates, f.city)
	}
	for _, c := range candidates {
		if _, ok := d.display[naming.Key(c)]; ok {
			return naming.Key(c), true
		}
	}

	nick := " " + naming.Key(f.nickname)
	for key := range d.display {
		if strings.HasSuffix(key, nick) {
			return key, true
		}
	}
	return "", false
}

// Canonical resolves raw to its canonical key. Unknown names come back
// normalized so lookups still succeed against absent-team fallbacks.
func (d *TeamDirectory) Canonical(raw string) string {
	key := naming.Key(raw)
	if _, ok := d.display[key]; ok {
		return key
	}
	if target, ok := d.aliases[key]; ok {
		return target
	}
	return key
}

func (d *TeamDirectory) DisplayName(key string) (string, bool) {
	name, ok := d.display[key]
	return name, ok
}

// Keys returns the canonical keys sorted by display name.
func (d *TeamDirectory) Keys() []string {
	out := make([]string, 0, len(d.display))
	for key := range d.display {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		return d.display[out[i]] < d.display[out[j]]
	})
	return out
}
