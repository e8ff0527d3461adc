package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dashspec/engine/pkg/config"
	"github.com/dashspec/engine/pkg/database"
	"github.com/dashspec/engine/pkg/logger"

	"github.com/dashspec/engine/internal/export"
	"github.com/dashspec/engine/internal/queue/tasks"
	"github.com/dashspec/engine/internal/repository"
	"github.com/dashspec/engine/internal/services"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL, Logger: log})
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	rdb := redis.NewClient(&redis.Options{Addr: redisOpt.Addr, Password: redisOpt.Password})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	// Rendered documents go to the cache; the API serves them from there.
	cache := export.NewCache(rdb, cfg.ExportTTL)
	builder := services.NewExportService(repository.NewGateway(db), nil, cache)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeProjectExport, tasks.NewExportTaskHandler(builder, cache).HandleExport)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.AsynqConcurrency,
		Queues:      map[string]int{tasks.QueueExports: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Warn("export task failed", zap.String("type", task.Type()), zap.ByteString("payload", task.Payload()), zap.Error(err))
		}),
	})
	if err := srv.Start(mux); err != nil {
		log.Fatal("export worker start failed", zap.Error(err))
	}
	log.Info("export worker started",
		zap.String("queue", tasks.QueueExports),
		zap.Int("concurrency", cfg.AsynqConcurrency),
	)

	<-ctx.Done()
	log.Info("shutdown signal received")
	// in-flight exports finish before Shutdown returns
	srv.Shutdown()
}
