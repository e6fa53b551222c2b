package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/nba-lineup-model/external/sheets"
	"github.com/riskibarqy/nba-lineup-model/internal/config"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/projection"
	"github.com/riskibarqy/nba-lineup-model/internal/domain/savedgame"
	"github.com/riskibarqy/nba-lineup-model/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nba-lineup-model/internal/infrastructure/repository/postgres"
	sheetloader "github.com/riskibarqy/nba-lineup-model/internal/infrastructure/sheets"
	"github.com/riskibarqy/nba-lineup-model/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/nba-lineup-model/internal/platform/id"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/resilience"
	"github.com/riskibarqy/nba-lineup-model/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// Services are the usecase graph shared by the API and the backtest CLI.
type Services struct {
	Snapshots   *usecase.SnapshotService
	Projections *usecase.ProjectionService
}

func NewServices(cfg config.Config, logger *logging.Logger) (Services, error) {
	loader, err := NewSnapshotLoader(cfg, logger)
	if err != nil {
		return Services{}, err
	}

	model, err := cfg.Tuning.Apply(projection.DefaultModel())
	if err != nil {
		return Services{}, fmt.Errorf("apply model tuning: %w", err)
	}

	snapshots := usecase.NewSnapshotService(loader, cfg.SnapshotTTL, logger)
	projections, err := usecase.NewProjectionService(snapshots, usecase.ProjectionConfig{
		Model:         model,
		BatchWorkers:  cfg.BatchWorkers,
		BatchMaxGames: cfg.BatchMaxGames,
	}, logger)
	if err != nil {
		return Services{}, fmt.Errorf("build projection service: %w", err)
	}

	return Services{Snapshots: snapshots, Projections: projections}, nil
}

// NewSnapshotLoader wires the sheets client and column layout into a loader
// the snapshot cache can call.
func NewSnapshotLoader(cfg config.Config, logger *logging.Logger) (usecase.SnapshotLoader, error) {
	client := sheets.NewClient(sheets.ClientConfig{
		Timeout:      cfg.SheetsTimeout,
		MaxRetries:   cfg.SheetsMaxRetries,
		MaxBodyBytes: cfg.SheetsMaxBodyBytes,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SheetsCircuitEnabled,
			FailureThreshold: cfg.SheetsCircuitFailureCount,
			OpenTimeout:      cfg.SheetsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SheetsCircuitHalfOpenMaxReq,
		},
	})

	layout := sheetloader.DefaultLayout()
	if err := layout.Override(cfg.Tuning.Columns); err != nil {
		return nil, fmt.Errorf("apply column tuning: %w", err)
	}

	loader, err := sheetloader.NewLoader(client, sheetloader.LoaderConfig{
		Sources:        sheetSources(cfg.Sheets),
		Layout:         layout,
		MaxConcurrency: cfg.SheetsMaxConcurrency,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	return usecase.SnapshotLoaderFunc(func(ctx context.Context) (usecase.Snapshot, error) {
		repo, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}), nil
}

func sheetSources(urls config.SheetURLs) sheetloader.Sources {
	return sheetloader.Sources{
		Players:          urls.Players,
		Lineups:          urls.Lineups,
		League:           urls.League,
		OffRebounding:    urls.OffRebounding,
		OppOffRebounding: urls.OppOffRebounding,
		DefRebounding:    urls.DefRebounding,
		OppDefRebounding: urls.OppDefRebounding,
		NBAStuffer:       urls.NBAStuffer,
		PPG:              urls.PPG,
		ATS:              urls.ATS,
		OverUnder:        urls.OverUnder,
		Ranking:          urls.Ranking,
		Names:            urls.Names,
	}
}

// NewHTTPServer builds the API server. The returned cleanup closes the
// database pool when one was opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	services, err := NewServices(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	savedGameRepo, cleanup, err := newSavedGameRepository(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	savedGames := usecase.NewSavedGameService(services.Projections, savedGameRepo, idgen.NewUUIDGenerator(), logger)

	handler := httpapi.NewHandler(services.Projections, savedGames, services.Snapshots, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func newSavedGameRepository(cfg config.Config, logger *logging.Logger) (savedgame.Repository, func() error, error) {
	if cfg.SavedGamesInMemory() {
		logger.Info("saved games stored in memory", "reason", "DB_URL empty")
		return memory.NewSavedGameRepository(), func() error { return nil }, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("saved games stored in postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewSavedGameRepository(db), db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
