package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// classifyProjectionError tags engine rejections as invalid input while
// keeping the engine sentinel reachable through errors.Is.
func classifyProjectionError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, projection.ErrEmptyTeamKey),
		errors.Is(err, projection.ErrSameTeam),
		errors.Is(err, projection.ErrMalformedInput),
		errors.Is(err, projection.ErrInvalidModel):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
