package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/savedgame"
)

var savedGamesCSVHeader = []string{
	"Matchup", "Score", "Model Total", "Book Total", "Total Play", "Model Spread", "Book Spread", "Spread Play", "Saved At",
}

// ExportSavedGamesCSV renders the most recent saved games as CSV, newest
// first.
func (s *SavedGameService) ExportSavedGamesCSV(ctx context.Context) ([]byte, error) {
	items, err := s.ListSavedGames(ctx, maxSavedGamesLimit)
	if err != nil {
		return nil, err
	}

	return renderCSV(savedGamesCSVHeader, func(w *csv.Writer) error {
		for _, g := range items {
			if err := w.Write(savedGameRecord(g)); err != nil {
				return err
			}
		}
		return nil
	})
}

func savedGameRecord(g savedgame.SavedGame) []string {
	return []string{
		g.Matchup(),
		formatOneDecimal(g.AwayScore) + " - " + formatOneDecimal(g.HomeScore),
		formatOneDecimal(g.ModelTotal),
		formatOneDecimal(g.BookTotal),
		g.TotalPlay.Label(),
		formatOneDecimal(g.ModelSpread),
		formatOneDecimal(g.BookSpread),
		g.SpreadPlay.Label(),
		g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ExportLineupsCSV lists every team's default starting five with its lineup
// PER appended.
func (s *ProjectionService) ExportLineupsCSV(ctx context.Context) ([]byte, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}

	header := make([]string, 0, lineup.Size+2)
	header = append(header, "Team")
	for slot := lineup.Slot(0); int(slot) < lineup.Size; slot++ {
		header = append(header, slot.String())
	}
	header = append(header, "Lineup PER")

	return renderCSV(header, func(w *csv.Writer) error {
		for _, item := range snap.ListLineups() {
			record := make([]string, 0, len(header))
			record = append(record, item.TeamName)
			record = append(record, item.Starters[:]...)
			per := s.model.ComputeLineupPER(item.Starters, snap)
			record = append(record, strconv.FormatFloat(per, 'f', 2, 64))
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderCSV(header []string, body func(w *csv.Writer) error) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := writeCSV(buf, header, body); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return append([]byte(nil), buf.B...), nil
}

func writeCSV(dst io.Writer, header []string, body func(w *csv.Writer) error) error {
	w := csv.NewWriter(dst)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatOneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
