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
	"github.com/redis/go-redis/v9"

	"github.com/kacemyassine/league-tracker/config"
	"github.com/kacemyassine/league-tracker/db"
	"github.com/kacemyassine/league-tracker/handlers"
	"github.com/kacemyassine/league-tracker/live"
	"github.com/kacemyassine/league-tracker/remote"
	api "github.com/kacemyassine/league-tracker/routes"
	"github.com/kacemyassine/league-tracker/services"
	"github.com/kacemyassine/league-tracker/storage"
	"github.com/kacemyassine/league-tracker/store"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_backend", cfg.StorageBackend))

	// Выбор хранилища снапшотов
	var snapshotStore store.SnapshotStore
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()
		if err := store.EnsureSchema(context.Background(), dbConn); err != nil {
			logger.Error("failed to ensure snapshot schema", slog.Any("error", err))
			os.Exit(1)
		}
		snapshotStore = store.NewPostgresStore(dbConn)
		logger.Info("postgres snapshot store initialized")

	case config.StorageBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		snapshotStore = store.NewRedisStore(client)
		logger.Info("redis snapshot store initialized")

	default:
		snapshotStore, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Error("failed to initialize file store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("file snapshot store initialized", slog.String("dir", cfg.DataDir))
	}

	// Инициализация загрузчика файлов (Cloudflare R2), опционально
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			KeyPrefix:       "league-assets",
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 not configured, image uploads disabled")
	}

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	// Инициализация сервисов
	leagueService, err := services.NewLeagueService(context.Background(), snapshotStore, hub, logger)
	if err != nil {
		logger.Error("failed to initialize league service", slog.Any("error", err))
		os.Exit(1)
	}
	authService := services.NewAuthService(cfg.AdminPassword, cfg.JWTSecretKey)
	archiveService := services.NewArchiveService(leagueService, nil, logger)

	var remoteStore services.RemoteStore
	if cfg.GitHubConfigured() {
		gh, err := remote.NewGitHubSync(remote.GitHubSyncConfig{
			Owner:  cfg.GitHubOwner,
			Repo:   cfg.GitHubRepo,
			Path:   cfg.GitHubPath,
			Branch: cfg.GitHubBranch,
			Token:  cfg.GitHubToken,
			RawURL: cfg.GitHubRawURL,
		})
		if err != nil {
			logger.Error("failed to initialize GitHub sync", slog.Any("error", err))
			os.Exit(1)
		}
		remoteStore = gh
		logger.Info("GitHub sync initialized",
			slog.String("repo", cfg.GitHubOwner+"/"+cfg.GitHubRepo),
			slog.String("path", cfg.GitHubPath))
	} else {
		logger.Info("GitHub sync not configured")
	}
	syncService := services.NewSyncService(leagueService, remoteStore, logger)
	logger.Info("services initialized")

	// Планировщик периодической отправки снапшота в удалённое хранилище
	if cfg.SyncPushInterval > 0 && remoteStore != nil {
		go func() {
			ticker := time.NewTicker(cfg.SyncPushInterval)
			defer ticker.Stop()
			logger.Info("auto-push scheduler started", slog.Duration("interval", cfg.SyncPushInterval))
			for range ticker.C {
				if err := syncService.Push(context.Background()); err != nil {
					logger.Error("scheduler: remote push failed", slog.Any("error", err))
				}
			}
		}()
	}

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	statsHandler := handlers.NewStatsHandler(leagueService)
	teamHandler := handlers.NewTeamHandler(leagueService, uploader)
	playerHandler := handlers.NewPlayerHandler(leagueService, uploader)
	matchHandler := handlers.NewMatchHandler(leagueService)
	archiveHandler := handlers.NewArchiveHandler(leagueService, archiveService)
	syncHandler := handlers.NewSyncHandler(syncService, cfg.GitHubToken, cfg.RelayToken)
	webSocketHandler := handlers.NewWebSocketHandler(hub)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.AllowedOrigins,
		authService,
		authHandler,
		leagueHandler,
		statsHandler,
		teamHandler,
		playerHandler,
		matchHandler,
		archiveHandler,
		syncHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
