package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

const (
	defaultBatchWorkers  = 8
	defaultBatchMaxGames = 100
)

// BatchRow is the outcome of one game in a batch. Exactly one of Result and
// Err is meaningful.
type BatchRow struct {
	Index  int
	Result projection.Result
	Err    error
}

type BatchResult struct {
	Rows         []BatchRow
	SuccessCount int
	FailedCount  int
	WorkerCount  int
	DurationMs   int64
}

// BatchProject projects every game against one snapshot on a bounded worker
// pool. A game that fails is reported on its row and never aborts the batch.
func (s *ProjectionService) BatchProject(ctx context.Context, games []projection.Game) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.BatchProject",
		attribute.Int("batch.size", len(games)),
	)

	if len(games) == 0 {
		err := fmt.Errorf("%w: at least one game is required", ErrInvalidInput)
		finishSpan(span, err)
		return BatchResult{}, err
	}
	if len(games) > s.batchMaxGames {
		err := fmt.Errorf("%w: batch of %d games exceeds the limit of %d", ErrInvalidInput, len(games), s.batchMaxGames)
		finishSpan(span, err)
		return BatchResult{}, err
	}

	p, err := s.projector(ctx)
	if err != nil {
		finishSpan(span, err)
		return BatchResult{}, err
	}

	workerCount := min(s.batchWorkers, len(games))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		err = fmt.Errorf("create worker pool: %w", err)
		finishSpan(span, err)
		return BatchResult{}, err
	}
	defer pool.Release()

	start := time.Now()
	rows := make([]BatchRow, len(games))
	var failed atomic.Int32
	var workers sync.WaitGroup
	for i, game := range games {
		workers.Add(1)
		submitErr := pool.Submit(func() {
			defer workers.Done()

			row := BatchRow{Index: i}
			if err := ctx.Err(); err != nil {
				row.Err = err
			} else if row.Result, row.Err = p.Project(game); row.Err != nil {
				row.Err = classifyProjectionError(row.Err)
			}
			if row.Err != nil {
				failed.Add(1)
			}
			rows[i] = row
		})
		if submitErr != nil {
			workers.Done()
			workers.Wait()
			err := fmt.Errorf("submit game %d to worker pool: %w", i, submitErr)
			finishSpan(span, err)
			return BatchResult{}, err
		}
	}
	workers.Wait()

	result := BatchResult{
		Rows:        rows,
		FailedCount: int(failed.Load()),
		WorkerCount: workerCount,
		DurationMs:  time.Since(start).Milliseconds(),
	}
	result.SuccessCount = len(rows) - result.FailedCount

	s.logger.InfoContext(ctx, "batch projection finished",
		"games", len(games),
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
		"worker_count", workerCount,
		"duration_ms", result.DurationMs,
	)
	finishSpan(span, nil)
	return result, nil
}
