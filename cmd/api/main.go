// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sayan1112/v0-adult-video-website/internal/admin"
	"github.com/sayan1112/v0-adult-video-website/internal/auth"
	"github.com/sayan1112/v0-adult-video-website/internal/config"
	"github.com/sayan1112/v0-adult-video-website/internal/core"
	"github.com/sayan1112/v0-adult-video-website/internal/health"
	"github.com/sayan1112/v0-adult-video-website/internal/media"
	"github.com/sayan1112/v0-adult-video-website/internal/middleware"
	"github.com/sayan1112/v0-adult-video-website/internal/server"
	"github.com/sayan1112/v0-adult-video-website/internal/user"
	"github.com/sayan1112/v0-adult-video-website/internal/video"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	var (
		store core.DocumentStore
		db    *core.Database
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err = core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		store, err = core.NewPostgresDocuments(ctx, db)
		if err != nil {
			return err
		}
		logger.Info("document store ready",
			"driver", cfg.Storage.Driver,
			"max_open_conns", cfg.Database.MaxOpenConns,
		)
	default:
		store, err = core.NewFileDocuments(cfg.Storage.DataDir)
		if err != nil {
			return err
		}
		logger.Info("document store ready",
			"driver", cfg.Storage.Driver,
			"data_dir", cfg.Storage.DataDir,
		)
	}

	var redis *core.Redis
	if cfg.Redis.URL != "" {
		redis, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	} else {
		logger.Info("redis not configured, rate limiting in-process")
	}

	sessions, err := auth.NewSessionManager(cfg.Session)
	if err != nil {
		return err
	}
	logger.Info("session manager initialized",
		"algorithm", "HS256",
		"ttl", auth.SessionTTL,
		"cookie", sessions.CookieName(),
	)

	uploads, localUploads, err := setupMedia(ctx, cfg.Uploads)
	if err != nil {
		return err
	}

	videoRepo := video.NewRepository(store)
	videoSvc := video.NewService(videoRepo)

	userRepo := user.NewRepository(store)
	userSvc := user.NewService(userRepo, videoSvc)
	userHandler := user.NewHandler(userSvc)

	videoHandler := video.NewHandler(videoSvc, video.HandlerConfig{
		Media:          uploads,
		History:        userSvc,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		UploadTimeout:  cfg.Uploads.Timeout,
	})

	authSvc := auth.NewService(userSvc, sessions, cfg.Auth.AdminEmailMarker)
	authHandler := auth.NewHandler(authSvc)

	deps := []health.Dependency{{Name: "storage", Checker: store}}
	adminCfg := admin.HandlerConfig{
		Catalog:     videoSvc,
		UserCount:   func(ctx context.Context) int { return len(userSvc.ListUsers(ctx)) },
		StoragePing: store.Ping,
		StorageName: cfg.Storage.Driver,
	}
	if db != nil {
		adminCfg.DBStats = db.Stats
	}
	if redis != nil {
		deps = append(deps, health.Dependency{Name: "redis", Checker: redis})
		adminCfg.RedisStats = redis.PoolStats
		adminCfg.RedisPing = redis.Ping
	}
	healthHandler := health.NewHandler(deps...)
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	redisClient := redis.Client()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(
		middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	guardCfg := middleware.DefaultGuardConfig()
	guardCfg.LoginPath = cfg.Auth.LoginPath
	guardCfg.HomePath = cfg.Auth.HomePath
	router.Use(middleware.NewGuard(sessions, guardCfg).Handler)

	healthHandler.RegisterRoutes(router)

	if localUploads != nil {
		router.Handle(localUploads.PublicPath()+"/*", localUploads.Handler())
	}

	authenticator := middleware.Authenticator(sessions)
	optionalAuth := middleware.OptionalAuth(sessions)
	adminOnly := middleware.RequireAdmin
	tiered := middleware.TieredRateLimiter(
		redisClient,
		middleware.DefaultTiers,
		userSvc.Tier,
	)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		videoHandler.RegisterRoutes(r, authenticator, optionalAuth)
		userHandler.RegisterRoutes(r, authenticator, tiered)

		videoHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

func setupMedia(
	ctx context.Context,
	cfg config.UploadsConfig,
) (media.Storage, *media.LocalStorage, error) {
	switch cfg.Driver {
	case config.UploadDriverS3:
		s3, err := media.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("s3 uploads: %w", err)
		}
		slog.Info("uploads stored in s3", "bucket", cfg.S3.Bucket)
		return s3, nil, nil
	default:
		local, err := media.NewLocalStorage(cfg.Dir, cfg.PublicPath)
		if err != nil {
			return nil, nil, fmt.Errorf("local uploads: %w", err)
		}
		slog.Info("uploads stored locally",
			"dir", cfg.Dir,
			"public_path", local.PublicPath(),
		)
		return local, local, nil
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
