package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/tournament-progression/cache"
	"github.com/Dosada05/tournament-progression/config"
	"github.com/Dosada05/tournament-progression/db"
	"github.com/Dosada05/tournament-progression/events"
	"github.com/Dosada05/tournament-progression/handlers"
	"github.com/Dosada05/tournament-progression/metrics"
	"github.com/Dosada05/tournament-progression/repositories"
	api "github.com/Dosada05/tournament-progression/routes"
	"github.com/Dosada05/tournament-progression/scheduler"
	"github.com/Dosada05/tournament-progression/services"
	"github.com/Dosada05/tournament-progression/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.AutoMigrate {
		if err := db.Migrate(dbConn); err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	var standingsCache cache.StandingsCache = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()
		standingsCache = cache.NewRedisStandingsCache(client, cfg.StandingsCacheTTL)
		logger.Info("redis standings cache enabled", slog.Duration("ttl", cfg.StandingsCacheTTL))
	}

	var archiver storage.SnapshotArchiver
	if r2 := cfg.R2.Uploader(); r2.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = storage.NewSnapshotArchiver(uploader, cfg.R2.SnapshotPrefix)
		logger.Info("league snapshot archiving enabled", slog.String("bucket", r2.BucketName))
	}

	m := metrics.New()

	wsHub := events.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	tx := repositories.NewTxRunner(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	entityRepo := repositories.NewPostgresEntityRepository(dbConn)
	logger.Info("Repositories initialized")

	locks := services.NewTournamentLocks()
	leagueService := services.NewLeagueService(
		tx,
		leagueRepo,
		tournamentRepo,
		categoryRepo,
		matchRepo,
		participantRepo,
		entityRepo,
		archiver,
		wsHub,
		m,
		services.LeagueSettings{
			Scale:          cfg.LeagueScale,
			Scheme:         cfg.Points,
			LinkSimilarity: cfg.LinkSimilarity,
		},
		logger,
	)
	bracketService := services.NewBracketService(
		tx,
		categoryRepo,
		participantRepo,
		matchRepo,
		standingsCache,
		wsHub,
		m,
		locks,
		cfg.Bracket,
		cfg.Points,
		logger,
	)
	matchService := services.NewMatchService(
		tx,
		matchRepo,
		categoryRepo,
		tournamentRepo,
		leagueService,
		standingsCache,
		wsHub,
		m,
		locks,
		cfg.Points,
		logger,
	)
	standingsService := services.NewStandingsService(categoryRepo, matchRepo, standingsCache, m, locks, cfg.Points, logger)
	integrityService := services.NewIntegrityService(categoryRepo, participantRepo, matchRepo, logger)
	logger.Info("Services initialized")

	rebuilds, err := scheduler.NewScheduler(leagueService, cfg.LeagueRebuildInterval, logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	if err := rebuilds.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := rebuilds.Stop(); err != nil {
			logger.Error("failed to stop scheduler", slog.Any("error", err))
		}
	}()

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Bracket:   handlers.NewBracketHandler(bracketService),
		Match:     handlers.NewMatchHandler(matchService),
		Standings: handlers.NewStandingsHandler(standingsService, integrityService),
		League:    handlers.NewLeagueHandler(leagueService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, logger),
		Metrics:   m.Handler(),
	}, cfg.JWTSecretKey, logger)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
