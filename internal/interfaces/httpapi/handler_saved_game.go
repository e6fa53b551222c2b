package httpapi

import (
	"net/http"
)

func (h *Handler) CreateSavedGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSavedGame")
	defer span.End()

	var req gameRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.savedGameService.SaveGame(ctx, req.toGame())
	if err != nil {
		h.logger.WarnContext(ctx, "save game failed", "away", req.AwayTeam, "home", req.HomeTeam, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, savedGameToDTO(saved))
}

func (h *Handler) ListSavedGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSavedGames")
	defer span.End()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.savedGameService.ListSavedGames(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list saved games failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]savedGameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, savedGameToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetSavedGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSavedGame")
	defer span.End()

	id := r.PathValue("savedGameID")
	item, err := h.savedGameService.GetSavedGame(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get saved game failed", "saved_game_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, savedGameToDTO(item))
}

func (h *Handler) ExportSavedGamesCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportSavedGamesCSV")
	defer span.End()

	body, err := h.savedGameService.ExportSavedGamesCSV(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "export saved games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeCSVFile(w, "saved_games.csv", body)
}
