package backtest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

// Required and optional header names of a games file. Lineup cells hold up
// to five names separated by "|" in G1, G2, F1, F2, C order.
const (
	colAway       = "away"
	colHome       = "home"
	colAwayB2B    = "away_b2b"
	colHomeB2B    = "home_b2b"
	colBookSpread = "book_spread"
	colBookTotal  = "book_total"
	colAwayFinal  = "away_final"
	colHomeFinal  = "home_final"
	colAwayLineup = "away_lineup"
	colHomeLineup = "home_lineup"
)

var ErrMalformedGames = errors.New("malformed games file")

// Game is one historical matchup with its final score when known.
type Game struct {
	Line      int
	Input     projection.Game
	AwayFinal float64
	HomeFinal float64
}

// Final reports whether both final scores are present.
func (g Game) Final() bool {
	return !math.IsNaN(g.AwayFinal) && !math.IsNaN(g.HomeFinal)
}

// HomeMargin is home minus away final points.
func (g Game) HomeMargin() float64 {
	return g.HomeFinal - g.AwayFinal
}

// ReadGames parses a header-keyed CSV of games. Column order is free and
// unknown columns are ignored.
func ReadGames(r io.Reader) ([]Game, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedGames)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformedGames, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colAway, colHome} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrMalformedGames, required)
		}
	}

	var games []Game
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedGames, line, err)
		}

		row := gameRow{record: record, index: index}
		if row.text(colAway) == "" && row.text(colHome) == "" {
			continue
		}

		game, err := row.game(line)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, nil
}

type gameRow struct {
	record []string
	index  map[string]int
}

func (r gameRow) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r gameRow) number(col string, line int) (float64, error) {
	raw := r.text(col)
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s %q is not a number", ErrMalformedGames, line, col, raw)
	}
	return v, nil
}

func (r gameRow) flag(col string, line int) (bool, error) {
	raw := strings.ToLower(r.text(col))
	switch raw {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("%w: line %d: %s %q is not a flag", ErrMalformedGames, line, col, raw)
	}
}

func (r gameRow) selection(col string) lineup.Selection {
	raw := r.text(col)
	if raw == "" {
		return lineup.Selection{}
	}
	return lineup.NewSelection(strings.Split(raw, "|")...)
}

func (r gameRow) game(line int) (Game, error) {
	out := Game{
		Line: line,
		Input: projection.Game{
			AwayTeam:   r.text(colAway),
			HomeTeam:   r.text(colHome),
			AwayLineup: r.selection(colAwayLineup),
			HomeLineup: r.selection(colHomeLineup),
		},
	}

	var err error
	if out.Input.AwayBackToBack, err = r.flag(colAwayB2B, line); err != nil {
		return Game{}, err
	}
	if out.Input.HomeBackToBack, err = r.flag(colHomeB2B, line); err != nil {
		return Game{}, err
	}
	if out.Input.BookSpread, err = r.number(colBookSpread, line); err != nil {
		return Game{}, err
	}
	if out.Input.BookTotal, err = r.number(colBookTotal, line); err != nil {
		return Game{}, err
	}
	if out.AwayFinal, err = r.number(colAwayFinal, line); err != nil {
		return Game{}, err
	}
	if out.HomeFinal, err = r.number(colHomeFinal, line); err != nil {
		return Game{}, err
	}
	return out, nil
}
