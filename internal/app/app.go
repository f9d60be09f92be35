package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/MrSpee/tennis-team-sub004/external/tvm"
	"github.com/MrSpee/tennis-team-sub004/internal/config"
	"github.com/MrSpee/tennis-team-sub004/internal/infrastructure/repository/postgres"
	"github.com/MrSpee/tennis-team-sub004/internal/interfaces/httpapi"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/id"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/logging"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/resilience"
	"github.com/MrSpee/tennis-team-sub004/internal/resolve"
	"github.com/MrSpee/tennis-team-sub004/internal/usecase"
)

// NewHTTPServer wires the portal client, repositories, and services into a
// ready-to-listen server. The returned cleanup closes the database pool and
// must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	portal := tvm.NewClient(tvm.ClientConfig{
		Timeout:       cfg.TVMTimeout,
		MaxRetries:    cfg.TVMMaxRetries,
		ThrottleDelay: cfg.TVMThrottleDelay,
		UserAgent:     cfg.TVMUserAgent,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.TVMCircuitEnabled,
			FailureThreshold: cfg.TVMCircuitFailureCount,
			OpenTimeout:      cfg.TVMCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.TVMCircuitHalfOpenMaxReq,
		},
	})

	teamRepo := postgres.NewTeamRepository(db)
	matchdayRepo := postgres.NewMatchdayRepository(db)
	resultRepo := postgres.NewMatchResultRepository(db)
	playerRepo := postgres.NewPlayerRepository(db, id.NewRandomGenerator())
	attemptRepo := postgres.NewImportAttemptRepository(db)

	scrapeSvc := usecase.NewScrapeService(portal, teamRepo, matchdayRepo, teamRepo, usecase.ScrapeServiceConfig{
		Resolver: resolve.TeamResolverConfig{
			Threshold:       cfg.TeamMatchThreshold,
			StrictThreshold: cfg.TeamStrictThreshold,
			Overrides:       cfg.TeamOverrides,
		},
		ApplyDefault: cfg.ScrapeApplyDefault,
		Logger:       logger,
	})

	meetingImportSvc := usecase.NewMeetingImportService(portal, matchdayRepo, resultRepo, matchdayRepo, playerRepo, attemptRepo, usecase.MeetingImportServiceConfig{
		PlayerFloor:  cfg.PlayerMatchFloor,
		ApplyDefault: cfg.ScrapeApplyDefault,
		Logger:       logger,
	})

	rosterSvc := usecase.NewRosterService(portal, playerRepo, usecase.RosterServiceConfig{
		PlayerFloor:  cfg.PlayerMatchFloor,
		ApplyDefault: cfg.ScrapeApplyDefault,
		Logger:       logger,
	})

	reconcileSvc := usecase.NewReconcileService(portal, matchdayRepo, matchdayRepo, meetingImportSvc, attemptRepo, usecase.ReconcileServiceConfig{
		LeagueURL: cfg.TVMLeagueURL,
		Season:    cfg.TVMSeason,
		AcceptBar: cfg.LinkAcceptBar,
		Limit:     cfg.BackfillLimit,
		Logger:    logger,
	})

	handler := httpapi.NewHandler(scrapeSvc, meetingImportSvc, rosterSvc, reconcileSvc, httpapi.HandlerConfig{
		LeagueURL: cfg.TVMLeagueURL,
		Season:    cfg.TVMSeason,
		Logger:    logger,
	})
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
