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
	"github.com/urfave/cli/v2"

	"github.com/reklub/kumitsu-app/config"
	"github.com/reklub/kumitsu-app/db"
	"github.com/reklub/kumitsu-app/handlers"
	"github.com/reklub/kumitsu-app/live"
	"github.com/reklub/kumitsu-app/metrics"
	"github.com/reklub/kumitsu-app/repositories"
	api "github.com/reklub/kumitsu-app/routes"
	"github.com/reklub/kumitsu-app/services"
	"github.com/reklub/kumitsu-app/storage"
)

// @title        Kumitsu bracket API
// @version      1.0
// @description  Bracket generation, scheduling and live results for martial arts tournaments.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "kumitsu",
		Usage: "tournament bracket server",
		// Running without a subcommand starts the server.
		Action: func(c *cli.Context) error { return serve(c.Context) },
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "migrate the database and start the HTTP server",
				Action: func(c *cli.Context) error { return serve(c.Context) },
			},
			{
				Name:   "migrate",
				Usage:  "apply the database schema and exit",
				Action: func(c *cli.Context) error { return migrate(c.Context) },
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("application stopped with error", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func migrate(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database schema is up to date")
	return nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("courts", cfg.CourtCount),
		slog.Duration("match_interval", cfg.MatchInterval),
		slog.Bool("seeded_draws", cfg.BracketSeed != nil),
	)

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(ctx, dbConn); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, cfg.R2)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("object storage not configured, bracket export disabled")
	}
	archive := storage.NewBracketArchive(uploader)

	wsHub := live.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	notifier := metrics.CountEvents(wsHub)
	locker := services.NewKeyedLocker()
	bracketService := services.NewBracketService(
		dbConn,
		tournamentRepo,
		categoryRepo,
		matchRepo,
		archive,
		notifier,
		locker,
		services.NewRandFactory(cfg.BracketSeed),
		logger.With(slog.String("component", "brackets")),
	)
	matchService := services.NewMatchService(
		dbConn,
		tournamentRepo,
		categoryRepo,
		matchRepo,
		notifier,
		locker,
		services.ScheduleDefaults{Courts: cfg.CourtCount, MatchInterval: cfg.MatchInterval},
		logger.With(slog.String("component", "matches")),
	)

	bracketHandler := handlers.NewBracketHandler(bracketService)
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, bracketHandler, matchHandler, webSocketHandler, api.Options{
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		ResultRateLimit:   cfg.ResultRateLimit,
		ResultRateBurst:   cfg.ResultRateBurst,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Logger:            logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
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
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}

	logger.Info("application exited")
	return nil
}
