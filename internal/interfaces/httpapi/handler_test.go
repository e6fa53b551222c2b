package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/nba-lineup-model/internal/domain/lineup"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/player"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/teamstats"
	"github.com/riskibarqy/nba-lineup-model/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/id"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
	"github.com/riskibarqy/nba-lineup-model/internal/usecase"
)

const testJobToken = "reload-secret"

func testSnapshot() *memory.StatsRepository {
	dir := memory.NewTeamDirectory()
	bos := dir.Register("Boston")
	mia := dir.Register("Miami")
	den := dir.Register("Denver")
	dir.AddFranchiseAliases()

	team := func(key string) teamstats.Snapshot {
		s := teamstats.Unknown(key)
		s.PPGSeason = 59
		return s
	}

	return memory.NewStatsRepository(memory.StatsData{
		Directory: dir,
		Teams:     []teamstats.Snapshot{team(bos), team(mia), team(den)},
		Players: []player.Player{
			{Name: "Nikola Jokić", GamesPlayed: 10, MinutesTotal: 350, PER: 30, UsagePct: 30},
		},
		Lineups: []lineup.TeamLineup{
			{TeamKey: den, TeamName: "Denver", Starters: lineup.NewSelection("", "", "", "", "Nikola Jokić")},
		},
		League: teamstats.DefaultLeagueAverages(),
	})
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	snapshots := usecase.NewSnapshotService(usecase.SnapshotLoaderFunc(func(context.Context) (usecase.Snapshot, error) {
		return testSnapshot(), nil
	}), time.Hour, logger)

	// Neutral test teams score 59 a side, below the default floor of 70.
	model := projection.DefaultModel()
	model.ScoreFloor = 50
	projections, err := usecase.NewProjectionService(snapshots, usecase.ProjectionConfig{
		Model:         model,
		BatchWorkers:  2,
		BatchMaxGames: 10,
	}, logger)
	if err != nil {
		t.Fatalf("build projection service: %v", err)
	}
	savedGames := usecase.NewSavedGameService(projections, memory.NewSavedGameRepository(), id.NewUUIDGenerator(), logger)

	handler := NewHandler(projections, savedGames, snapshots, logger)
	return NewRouter(handler, logger, []string{"*"}, testJobToken)
}

type testEnvelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func doRequest(t *testing.T, srv http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var out testEnvelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestListTeamsAndLineups(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/teams", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	teams := decodeEnvelope[[]teamDTO](t, rec)
	if len(teams.Data) != 3 || teams.Data[0].Key != "boston" {
		t.Fatalf("unexpected teams: %+v", teams.Data)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/teams/Denver%20Nuggets/lineup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	found := decodeEnvelope[teamLineupDTO](t, rec)
	if found.Data.TeamKey != "denver" || len(found.Data.Starters) != 5 || found.Data.Starters[4] != "Nikola Jokić" {
		t.Fatalf("unexpected lineup: %+v", found.Data)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/teams/Miami/lineup", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/lineups/export.csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Denver,,,,,Nikola Jokić,30.00") {
		t.Fatalf("unexpected lineups csv: %q", rec.Body.String())
	}
}

func TestComputeLineupPER(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/lineups/per", `{"players":["Nikola Jokic","Nobody"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeEnvelope[lineupBreakdownDTO](t, rec)
	if got.Data.LineupPER != 30 || got.Data.Fallback || len(got.Data.Players) != 2 {
		t.Fatalf("unexpected breakdown: %+v", got.Data)
	}
	if got.Data.Players[1].Resolved || got.Data.Players[1].PER != nil {
		t.Fatalf("expected unresolved player with null PER, got %+v", got.Data.Players[1])
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/lineups/per", `{"players":["a","b","c","d","e","f"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for six players, got %d", rec.Code)
	}
}

func TestCreateProjection(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/projections", `{"away_team":"Boston","home_team":"Miami","book_total":118}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeEnvelope[projectionDTO](t, rec)
	if got.Data.ModelTotal != 118 || got.Data.ModelSpread != 0 {
		t.Fatalf("unexpected projection: %+v", got.Data)
	}
	if got.Data.BookSpread != nil || got.Data.SpreadEdge != nil {
		t.Fatalf("expected null spread line and edge, got %v/%v", got.Data.BookSpread, got.Data.SpreadEdge)
	}
	if got.Data.BookTotal == nil || *got.Data.BookTotal != 118 {
		t.Fatalf("expected book total 118, got %v", got.Data.BookTotal)
	}
	if got.Data.SpreadPlay.Code != "NO_BET" || got.Data.TotalPlay.Label != "NO BET" {
		t.Fatalf("unexpected plays: %+v %+v", got.Data.SpreadPlay, got.Data.TotalPlay)
	}
	if got.Data.Away.FairOdds == nil || *got.Data.Away.FairOdds != 100 {
		t.Fatalf("expected even fair odds, got %v", got.Data.Away.FairOdds)
	}
}

func TestCreateProjection_Rejects(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{name: "same team", body: `{"away_team":"Miami","home_team":"MIA"}`, wantReason: "sameTeam"},
		{name: "missing home", body: `{"away_team":"Miami"}`, wantReason: "invalidInput"},
		{name: "unknown field", body: `{"away_team":"Boston","home_team":"Miami","spread":3}`, wantReason: "invalidInput"},
		{name: "empty body", body: "", wantReason: "invalidInput"},
		{name: "not json", body: `{"away_team":`, wantReason: "invalidInput"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/projections", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			body := decodeEnvelope[any](t, rec)
			if body.Error == nil || len(body.Error.Errors) == 0 || body.Error.Errors[0].Reason != tt.wantReason {
				t.Fatalf("unexpected error body: %+v", body.Error)
			}
		})
	}
}

func TestCreateBatchProjection(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/projections/batch", `{"games":[
		{"away_team":"Boston","home_team":"Miami"},
		{"away_team":"Denver","home_team":"Denver Nuggets"}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeEnvelope[batchDTO](t, rec)
	if got.Data.SuccessCount != 1 || got.Data.FailedCount != 1 || len(got.Data.Rows) != 2 {
		t.Fatalf("unexpected batch: %+v", got.Data)
	}
	if got.Data.Rows[0].Projection == nil || got.Data.Rows[1].Error == nil || got.Data.Rows[1].Error.Reason != "sameTeam" {
		t.Fatalf("unexpected rows: %+v", got.Data.Rows)
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/projections/batch", `{"games":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty batch, got %d", rec.Code)
	}
}

func TestCompareTeams(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/comparisons?away=Boston&home=Denver", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeEnvelope[comparisonDTO](t, rec)
	if got.Data.Away.Key != "boston" || got.Data.Home.Name != "Denver" || len(got.Data.Rows) == 0 {
		t.Fatalf("unexpected comparison: %+v", got.Data)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/comparisons?away=Boston&home=Boston", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSavedGamesFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/saved-games", `{"away_team":"Boston","home_team":"Miami","book_spread":-3.5,"book_total":230}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeEnvelope[savedGameDTO](t, rec)
	if created.Data.ID == "" || created.Data.Matchup != "Boston @ Miami" {
		t.Fatalf("unexpected saved game: %+v", created.Data)
	}
	if created.Data.TotalPlay.Code != "BET_UNDER" {
		t.Fatalf("expected under play, got %+v", created.Data.TotalPlay)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/saved-games/"+created.Data.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/saved-games?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	list := decodeEnvelope[[]savedGameDTO](t, rec)
	if len(list.Data) != 1 || list.Data[0].ID != created.Data.ID {
		t.Fatalf("unexpected saved games: %+v", list.Data)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/saved-games/export.csv", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Boston @ Miami") {
		t.Fatalf("unexpected export: %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "saved_games.csv") {
		t.Fatalf("unexpected content disposition %q", got)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/saved-games/not-an-id", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed id, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/v1/saved-games?limit=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for negative limit, got %d", rec.Code)
	}
}

func TestReloadSnapshot(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/internal/snapshot/reload", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/internal/snapshot/reload", "", internalJobTokenHeader, testJobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	info := decodeEnvelope[usecase.SnapshotInfo](t, rec)
	if info.Data.Teams != 3 || info.Data.Players != 1 || info.Data.Lineups != 1 {
		t.Fatalf("unexpected snapshot info: %+v", info.Data)
	}
}
