package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
)

func (h *Handler) CreateProjection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateProjection")
	defer span.End()

	var req gameRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.projectionService.Project(ctx, req.toGame())
	if err != nil {
		h.logger.WarnContext(ctx, "project game failed", "away", req.AwayTeam, "home", req.HomeTeam, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, projectionToDTO(result))
}

func (h *Handler) CreateBatchProjection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBatchProjection")
	defer span.End()

	var req batchProjectionRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	games := make([]projection.Game, 0, len(req.Games))
	for _, g := range req.Games {
		games = append(games, g.toGame())
	}

	result, err := h.projectionService.BatchProject(ctx, games)
	if err != nil {
		h.logger.WarnContext(ctx, "batch projection failed", "games", len(games), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batchToDTO(result))
}

func (h *Handler) CompareTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompareTeams")
	defer span.End()

	query := r.URL.Query()
	away, home := query.Get("away"), query.Get("home")
	result, err := h.projectionService.Compare(ctx, away, home)
	if err != nil {
		h.logger.WarnContext(ctx, "compare teams failed", "away", away, "home", home, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, comparisonToDTO(result))
}
