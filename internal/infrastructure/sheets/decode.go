package sheets

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/player"
)

var (
	nonNumericRegex    = regexp.MustCompile(`[^0-9.+-]`)
	leadingNumberRegex = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// parseNumber reads the leading number of a cell after dropping everything
// but digits, signs and dots, so "52.1%" and "1,234" both parse. Anything
// else is NaN.
func parseNumber(raw string) float64 {
	cleaned := nonNumericRegex.ReplaceAllString(raw, "")
	match := leadingNumberRegex.FindString(cleaned)
	if match == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func cell(row []string, col Column) string {
	idx, ok := col.Index()
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func number(row []string, col Column) float64 {
	if _, ok := col.Index(); !ok {
		return math.NaN()
	}
	return parseNumber(cell(row, col))
}

// dataRows skips the header row.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func decodePlayers(rows [][]string, layout PlayersLayout) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range dataRows(rows) {
		name := cell(row, layout.Name)
		if name == "" {
			continue
		}
		out = append(out, player.Player{
			Name:         name,
			GamesPlayed:  number(row, layout.Games),
			MinutesTotal: number(row, layout.Minutes),
			PER:          number(row, layout.PER),
			UsagePct:     number(row, layout.Usage),
		})
	}
	return out
}

type lineupRow struct {
	team     string
	starters lineup.Selection
}

func decodeLineups(rows [][]string, layout LineupsLayout) []lineupRow {
	out := make([]lineupRow, 0, len(rows))
	for _, row := range dataRows(rows) {
		team := cell(row, layout.Team)
		if team == "" {
			continue
		}
		var sel lineup.Selection
		for i, col := range layout.Slots {
			sel[i] = cell(row, col)
		}
		out = append(out, lineupRow{team: team, starters: sel})
	}
	return out
}

// eachTeamRow calls fn for every data row with a team name.
func eachTeamRow(rows [][]string, team Column, fn func(name string, row []string)) {
	for _, row := range dataRows(rows) {
		name := cell(row, team)
		if name == "" {
			continue
		}
		fn(name, row)
	}
}

type namePair struct {
	teamRankings string
	nbaStuffer   string
}

func decodeNames(rows [][]string, layout NamesLayout) []namePair {
	out := make([]namePair, 0, len(rows))
	for _, row := range dataRows(rows) {
		tr := cell(row, layout.TeamRankings)
		nbas := cell(row, layout.NBAStuffer)
		if tr == "" || nbas == "" {
			continue
		}
		out = append(out, namePair{teamRankings: tr, nbaStuffer: nbas})
	}
	return out
}

// decodeLeague reads stat/value rows keyed by lower-cased stat name.
func decodeLeague(rows [][]string, layout LeagueLayout) map[string]float64 {
	out := make(map[string]float64, len(rows))
	for _, row := range dataRows(rows) {
		stat := strings.ToLower(cell(row, layout.Stat))
		if stat == "" {
			continue
		}
		out[stat] = number(row, layout.Value)
	}
	return out
}
