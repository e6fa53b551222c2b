package backtest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
	"github.com/riskibarqy/nba-lineup-model/internal/usecase"
)

const defaultChunkSize = 100

// BatchProjector is the slice of the projection service a backtest needs.
type BatchProjector interface {
	BatchProject(ctx context.Context, games []projection.Game) (usecase.BatchResult, error)
}

// Row is one projected and graded game.
type Row struct {
	Game          Game
	Result        projection.Result
	Err           error
	SpreadOutcome Outcome
	TotalOutcome  Outcome
	WinnerCorrect *bool
}

type Report struct {
	Rows     []Row
	Spread   Record
	Total    Record
	Winners  Record
	Failed   int
	Duration time.Duration
}

type Runner struct {
	projector BatchProjector
	chunkSize int
	logger    *logging.Logger
}

// NewRunner copies at most chunkSize games into each batch call. A
// non-positive chunkSize uses the default.
func NewRunner(projector BatchProjector, chunkSize int, logger *logging.Logger) *Runner {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		projector: projector,
		chunkSize: chunkSize,
		logger:    logger.Component("backtest"),
	}
}

// Run projects every game and grades the plays against final scores. A game
// that fails to project is counted and kept on its row.
func (r *Runner) Run(ctx context.Context, games []Game) (Report, error) {
	if len(games) == 0 {
		return Report{}, fmt.Errorf("%w: no games to backtest", ErrMalformedGames)
	}

	start := time.Now()
	report := Report{Rows: make([]Row, 0, len(games))}

	for offset := 0; offset < len(games); offset += r.chunkSize {
		chunk := games[offset:min(offset+r.chunkSize, len(games))]
		inputs := make([]projection.Game, len(chunk))
		for i, g := range chunk {
			inputs[i] = g.Input
		}

		batch, err := r.projector.BatchProject(ctx, inputs)
		if err != nil {
			return Report{}, fmt.Errorf("project games %d-%d: %w", offset+1, offset+len(chunk), err)
		}
		if len(batch.Rows) != len(chunk) {
			return Report{}, fmt.Errorf("project games %d-%d: got %d rows", offset+1, offset+len(chunk), len(batch.Rows))
		}

		for i, batchRow := range batch.Rows {
			row := grade(chunk[i], batchRow)
			report.add(row)
		}
	}

	report.Duration = time.Since(start)
	r.logger.InfoContext(ctx, "backtest finished",
		"games", len(games),
		"failed", report.Failed,
		"spread_wins", report.Spread.Wins,
		"spread_losses", report.Spread.Losses,
		"total_wins", report.Total.Wins,
		"total_losses", report.Total.Losses,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func grade(game Game, batchRow usecase.BatchRow) Row {
	row := Row{Game: game, Result: batchRow.Result, Err: batchRow.Err}
	if row.Err != nil || !game.Final() {
		return row
	}

	res := row.Result
	row.SpreadOutcome = GradeSpread(res.SpreadPlay, game.Input.BookSpread, game.HomeMargin())
	row.TotalOutcome = GradeTotal(res.TotalPlay, game.Input.BookTotal, game.AwayFinal+game.HomeFinal)

	if margin := game.HomeMargin(); margin != 0 {
		winner := res.Home.TeamKey
		if margin < 0 {
			winner = res.Away.TeamKey
		}
		correct := res.WinnerKey == winner
		row.WinnerCorrect = &correct
	}
	return row
}

func (rep *Report) add(row Row) {
	rep.Rows = append(rep.Rows, row)
	if row.Err != nil {
		rep.Failed++
		return
	}
	rep.Spread.Add(row.SpreadOutcome)
	rep.Total.Add(row.TotalOutcome)
	if row.WinnerCorrect != nil {
		if *row.WinnerCorrect {
			rep.Winners.Add(OutcomeWin)
		} else {
			rep.Winners.Add(OutcomeLoss)
		}
	}
}

var reportHeader = []string{
	"Line", "Away", "Home", "Away Score", "Home Score", "Model Spread", "Book Spread", "Spread Play", "Spread Result",
	"Model Total", "Book Total", "Total Play", "Total Result", "Winner", "Error",
}

// WriteCSV renders one line per game in input order.
func (rep Report) WriteCSV(dst io.Writer) error {
	w := csv.NewWriter(dst)
	if err := w.Write(reportHeader); err != nil {
		return err
	}

	for _, row := range rep.Rows {
		if err := w.Write(row.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (row Row) record() []string {
	g := row.Game
	if row.Err != nil {
		return []string{
			strconv.Itoa(g.Line), g.Input.AwayTeam, g.Input.HomeTeam,
			"", "", "", oneDecimal(g.Input.BookSpread), "", "",
			"", oneDecimal(g.Input.BookTotal), "", "", "", row.Err.Error(),
		}
	}

	res := row.Result
	winner := ""
	if row.WinnerCorrect != nil {
		winner = "miss"
		if *row.WinnerCorrect {
			winner = "hit"
		}
	}
	return []string{
		strconv.Itoa(g.Line), res.Away.TeamKey, res.Home.TeamKey,
		oneDecimal(res.Away.Score), oneDecimal(res.Home.Score),
		oneDecimal(res.ModelSpread), oneDecimal(g.Input.BookSpread), res.SpreadPlay.Label(), string(row.SpreadOutcome),
		oneDecimal(res.ModelTotal), oneDecimal(g.Input.BookTotal), res.TotalPlay.Label(), string(row.TotalOutcome),
		winner, "",
	}
}

// SpreadConventionNote is printed with every summary. Spread plays come from
// modelSpread - bookSpread with modelSpread as home minus away, while grading
// settles them the sportsbook way, where a negative line favors home. A model
// that agrees with a home favorite's line therefore still signals BET_HOME.
const SpreadConventionNote = "note: spread plays compare home-minus-away model spread with a home-relative book line " +
	"(negative favors home); grading settles them as home covers when margin + line > 0"

// Summary is the plain text report printed after a run.
func (rep Report) Summary() string {
	return fmt.Sprintf(
		"games: %d (failed %d)\nspread: %s\ntotal: %s\nwinner: %d/%d (%s)\nduration: %s\n%s\n",
		len(rep.Rows), rep.Failed,
		recordText(rep.Spread),
		recordText(rep.Total),
		rep.Winners.Wins, rep.Winners.Graded(), percent(rep.Winners.WinRate()),
		rep.Duration.Round(time.Millisecond),
		SpreadConventionNote,
	)
}

func recordText(r Record) string {
	return fmt.Sprintf("%d-%d-%d (%s)", r.Wins, r.Losses, r.Pushes, percent(r.WinRate()))
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

func oneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
