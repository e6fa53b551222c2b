package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
	"github.com/riskibarqy/nba-lineup-model/internal/usecase"
)

type Handler struct {
	projectionService *usecase.ProjectionService
	savedGameService  *usecase.SavedGameService
	snapshotService   *usecase.SnapshotService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	projectionService *usecase.ProjectionService,
	savedGameService *usecase.SavedGameService,
	snapshotService *usecase.SnapshotService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		projectionService: projectionService,
		savedGameService:  savedGameService,
		snapshotService:   snapshotService,
		logger:            logger.Component("httpapi"),
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.projectionService.ListTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamDTO{Key: t.Key, Name: t.Name})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDefaultLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDefaultLineup")
	defer span.End()

	team := r.PathValue("team")
	item, err := h.projectionService.DefaultLineup(ctx, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get default lineup failed", "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamLineupToDTO(item))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	names, err := h.projectionService.ListPlayers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, names)
}

func (h *Handler) ComputeLineupPER(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComputeLineupPER")
	defer span.End()

	var req lineupPERRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	breakdown, err := h.projectionService.LineupPER(ctx, lineup.NewSelection(req.Players...))
	if err != nil {
		h.logger.WarnContext(ctx, "compute lineup per failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupBreakdownToDTO(breakdown))
}

func (h *Handler) ExportLineupsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportLineupsCSV")
	defer span.End()

	body, err := h.projectionService.ExportLineupsCSV(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "export lineups failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeCSVFile(w, "lineups.csv", body)
}

func (h *Handler) ReloadSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReloadSnapshot")
	defer span.End()

	info, err := h.snapshotService.Reload(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, info)
}

func (h *Handler) GetSnapshotInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSnapshotInfo")
	defer span.End()

	info, err := h.snapshotService.Info(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, info)
}

// parseLimit reads ?limit=; absent means 0 so the service default applies.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}
