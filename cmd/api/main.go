package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dashspec/engine/internal/api"
	"github.com/dashspec/engine/internal/api/handlers"
	"github.com/dashspec/engine/internal/chat"
	"github.com/dashspec/engine/internal/export"
	"github.com/dashspec/engine/internal/repository"
	"github.com/dashspec/engine/internal/services"
	"github.com/dashspec/engine/pkg/config"
	"github.com/dashspec/engine/pkg/database"
	"github.com/dashspec/engine/pkg/logger"

	_ "github.com/dashspec/engine/docs"
)

// @title           Dashboard Spec API
// @version         1.0
// @description     Requirements conversations, versioned dashboard specifications and Markdown export.

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting dashboard spec API",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("database", cfg.DatabaseDriver),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.Open(ctx, database.Options{
		Driver:  cfg.DatabaseDriver,
		DSN:     cfg.DatabaseURL,
		Verbose: cfg.AppEnv == "development",
		Logger:  log,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.DatabaseDriver == "sqlite" {
		// local databases are migrated in place; postgres goes through cmd/migrate
		if err := repository.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")
	gw := repository.NewGateway(db)

	// Redis backs conversation snapshots, token revocation and background
	// exports. Without it the API runs with in-process sessions only.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer rdb.Close()

	var (
		sessions    chat.SessionStore
		denylist    services.TokenDenylist
		asynqClient *asynq.Client
		exportCache *export.Cache
	)
	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	redisErr := rdb.Ping(pingCtx).Err()
	cancelPing()
	if redisErr != nil {
		log.Warn("redis unavailable, falling back to in-memory sessions", zap.String("addr", cfg.RedisAddr), zap.Error(redisErr))
		sessions = chat.NewMemorySessionStore(cfg.SessionTTL)
	} else {
		sessions = chat.NewRedisSessionStore(rdb, cfg.SessionTTL)
		denylist = services.NewRedisTokenDenylist(rdb)
		exportCache = export.NewCache(rdb, cfg.ExportTTL)
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer asynqClient.Close()
	}

	// JWT Secret from environment
	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		if cfg.AppEnv == "production" {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	copyMode := services.CopyShallow
	if cfg.DeepCopyEnhancements() {
		copyMode = services.CopyDeep
	}

	// Services
	authSvc := services.NewAuthService(gw.Users, jwtSecret, cfg.JWTTTL, denylist)
	projectSvc := services.NewProjectService(gw, copyMode)
	taskSvc := services.NewTaskService(gw)
	exportSvc := services.NewExportService(gw, asynqClient, exportCache)
	autosaver := services.NewAutosaver(projectSvc, cfg.AutosaveDebounce)
	engine := chat.NewEngine(gw, chat.Options{EditMode: chat.EditMode(cfg.EditCommandMode)})

	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisErr == nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Create router with dependencies
	router := api.NewRouter(api.Dependencies{
		Verifier:        authSvc,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		HealthHandler:   handlers.NewHealthHandler(checks),
		AuthHandler:     handlers.NewAuthHandler(authSvc, cfg.JWTTTL),
		ProjectsHandler: handlers.NewProjectsHandler(projectSvc, autosaver),
		ChatHandler:     handlers.NewChatHandler(engine, sessions),
		TasksHandler:    handlers.NewTasksHandler(taskSvc),
		ExportHandler:   handlers.NewExportHandler(exportSvc),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	// pending autosaves are written after the last request has finished
	if err := autosaver.Flush(shutdownCtx); err != nil {
		log.Error("autosave flush error", zap.Error(err))
	}
	log.Info("server exited")
}
