package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/learnops/progress-reporter/internal/config"
	"github.com/learnops/progress-reporter/internal/export"
	"github.com/learnops/progress-reporter/internal/infra/postgres"
	infraredis "github.com/learnops/progress-reporter/internal/infra/redis"
	"github.com/learnops/progress-reporter/internal/logger"
	"github.com/learnops/progress-reporter/internal/repository"
	"github.com/learnops/progress-reporter/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zapLogger.Fatal("database is not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(ctx, infraredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to counter store", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	// Initialize repositories and services.
	hierarchyRepo := repository.NewHierarchyRepository(cfg.HierarchyDir)
	counterRepo := repository.NewCounterRepository(redisClient)
	attemptRepo := repository.NewAttemptRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	runRepo := repository.NewRunRepository(pool)

	writer := export.NewCSVWriter(cfg.OutputDir)

	reports := service.NewReportService(
		hierarchyRepo,
		counterRepo,
		attemptRepo,
		enrollmentRepo,
		runRepo,
		writer,
		zapLogger,
	)

	scheduler := service.NewScheduler(reports, cfg.Schedule, zapLogger)
	if err := scheduler.Start(ctx); err != nil {
		zapLogger.Fatal("report job failed", zap.Error(err))
	}
}
