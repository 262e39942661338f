// @title League System API
// @version 1.0
// @description Amateur football league: group stage, playoff bracket, results and player statistics.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/listener"
	"github.com/Dosada05/league-system/repositories"
	api "github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Int("matchdays", cfg.Matchdays))

	if err := run(cfg, logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
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

	if err := repositories.MigrateUp(dbConn); err != nil {
		return err
	}
	logger.Info("database schema is up to date")

	// Загрузчик логотипов (Cloudflare R2) необязателен
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Warn("R2 is not configured, logo uploads are disabled")
	}

	// WebSocket Hub
	hubStop := make(chan struct{})
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(hubStop)
	defer close(hubStop)

	// Репозитории
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	goalRepo := repositories.NewPostgresGoalRepository(dbConn)
	settingsRepo := repositories.NewPostgresSettingsRepository(dbConn)

	// Сервисы
	leagueService := services.NewLeagueService(teamRepo, matchRepo, playerRepo, goalRepo, settingsRepo, uploader, wsHub, logger)
	adminService := services.NewAdminService(services.AdminDeps{
		League:       leagueService,
		Tx:           services.NewSQLTransactor(dbConn, logger),
		TeamRepo:     teamRepo,
		MatchRepo:    matchRepo,
		PlayerRepo:   playerRepo,
		GoalRepo:     goalRepo,
		SettingsRepo: settingsRepo,
		Uploader:     uploader,
		Publisher:    wsHub,
		Matchdays:    cfg.Matchdays,
		Logger:       logger,
	})
	authService := services.NewAuthService(cfg.AdminCodeHash, []byte(cfg.JWTSecretKey), cfg.TokenTTL)
	logger.Info("services initialized")

	// Изменения, сделанные в обход API, приходят через LISTEN/NOTIFY
	go listener.Start(ctx, cfg.DatabaseURL, cfg.Debounce, leagueService.Refresh, logger.With("component", "listener"))

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		League:    handlers.NewLeagueHandler(leagueService, adminService),
		Admin:     handlers.NewAdminHandler(adminService),
		Auth:      handlers.NewAuthHandler(authService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, leagueService, cfg.CORSOrigins, logger),
	}, authService, api.Options{
		CORSOrigins:    cfg.CORSOrigins,
		LoginPerMinute: cfg.LoginPerMinute,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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
		logger.Info("server stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}
