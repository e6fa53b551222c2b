package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{team}/lineup", handler.GetDefaultLineup)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/lineups/per", handler.ComputeLineupPER)
	mux.HandleFunc("GET /v1/lineups/export.csv", handler.ExportLineupsCSV)
	mux.HandleFunc("POST /v1/projections", handler.CreateProjection)
	mux.HandleFunc("POST /v1/projections/batch", handler.CreateBatchProjection)
	mux.HandleFunc("GET /v1/comparisons", handler.CompareTeams)
	mux.HandleFunc("GET /v1/snapshot", handler.GetSnapshotInfo)
}

func registerSavedGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/saved-games", handler.CreateSavedGame)
	mux.HandleFunc("GET /v1/saved-games", handler.ListSavedGames)
	mux.HandleFunc("GET /v1/saved-games/export.csv", handler.ExportSavedGamesCSV)
	mux.HandleFunc("GET /v1/saved-games/{savedGameID}", handler.GetSavedGame)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/snapshot/reload", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ReloadSnapshot)))
}
