package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/superstore-bi/superstore-bi/internal/analytics"
	"github.com/superstore-bi/superstore-bi/internal/app"
	jobmetrics "github.com/superstore-bi/superstore-bi/internal/jobs"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
	"github.com/superstore-bi/superstore-bi/internal/platform/cache"
	"github.com/superstore-bi/superstore-bi/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg).With(slog.String("component", "worker"))

	profiles, err := app.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		logger.Error("load profiles", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := kpiapi.New(cfg.KPIAPIURL, cfg.KPIAPITimeout,
		kpiapi.WithMetrics(kpiapi.NewMetrics(prometheus.DefaultRegisterer)))
	if err != nil {
		logger.Error("init kpi api client", slog.Any("error", err))
		os.Exit(1)
	}

	// The warm-up is pointless without the shared cache.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	service := analytics.NewService(client, analytics.NewCache(redisClient, cfg.CacheTTL), profiles, logger)
	warmupJob := jobs.NewCacheWarmupJob(service, logger, jobmetrics.NewMetrics(nil))

	warmupTask, err := jobs.NewCacheWarmupTask("scheduled")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCacheWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupSpec, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
