package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type gameRequest struct {
	AwayTeam       string   `json:"away_team" validate:"required,max=100"`
	HomeTeam       string   `json:"home_team" validate:"required,max=100"`
	AwayLineup     []string `json:"away_lineup" validate:"max=5,dive,max=100"`
	HomeLineup     []string `json:"home_lineup" validate:"max=5,dive,max=100"`
	AwayBackToBack bool     `json:"away_back_to_back"`
	HomeBackToBack bool     `json:"home_back_to_back"`
	// Book lines are home-relative; omit or null when there is no line.
	BookSpread *float64 `json:"book_spread"`
	BookTotal  *float64 `json:"book_total"`
}

func (g gameRequest) toGame() projection.Game {
	return projection.Game{
		AwayTeam:       g.AwayTeam,
		HomeTeam:       g.HomeTeam,
		AwayLineup:     lineup.NewSelection(g.AwayLineup...),
		HomeLineup:     lineup.NewSelection(g.HomeLineup...),
		AwayBackToBack: g.AwayBackToBack,
		HomeBackToBack: g.HomeBackToBack,
		BookSpread:     bookLine(g.BookSpread),
		BookTotal:      bookLine(g.BookTotal),
	}
}

func bookLine(v *float64) float64 {
	if v == nil {
		return projection.NoLine()
	}
	return *v
}

type batchProjectionRequest struct {
	Games []gameRequest `json:"games" validate:"required,min=1,dive"`
}

type lineupPERRequest struct {
	Players []string `json:"players" validate:"max=5,dive,max=100"`
}

// decodeJSON strictly decodes one JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	decoder := jsoniter.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return h.validateRequest(r.Context(), dst)
}
