package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/superstore-bi/superstore-bi/internal/analytics"
	jobmetrics "github.com/superstore-bi/superstore-bi/internal/jobs"
)

const warmupTimeout = 30 * time.Second

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Warmer is the part of the analytics service the warm-up drives.
type Warmer interface {
	Bump(ctx context.Context) (int64, error)
	LoadCommercial(ctx context.Context, sel analytics.Selection) (analytics.Dashboard, error)
	LoadExecutive(ctx context.Context, sel analytics.Selection) (analytics.Dashboard, error)
}

// CacheWarmupJob invalidates the response cache and preloads the default
// selection of both dashboards so the next visitor hits a warm cache.
type CacheWarmupJob struct {
	Service Warmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewCacheWarmupJob wires dependencies for the warm-up handler.
func NewCacheWarmupJob(service Warmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *CacheWarmupJob {
	return &CacheWarmupJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes cache warm-up tasks.
func (j *CacheWarmupJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Service == nil {
		return errors.New("cache warmup: handler not configured")
	}
	var payload CacheWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("cache warmup: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.RunID == "" {
		payload.RunID = uuid.NewString()
	}

	tracker := j.metrics().Track(TaskCacheWarmup)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger().With(slog.String("run_id", payload.RunID), slog.String("reason", payload.Reason))
	start := j.now()

	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	version, err := j.Service.Bump(ctx)
	if err != nil {
		logger.Error("bump cache", slog.Any("error", err))
		return err
	}
	if _, err = j.Service.LoadExecutive(ctx, analytics.Selection{}); err != nil {
		logger.Error("warm executive dashboard", slog.Any("error", err))
		return err
	}
	if _, err = j.Service.LoadCommercial(ctx, analytics.Selection{}); err != nil {
		logger.Error("warm commercial dashboard", slog.Any("error", err))
		return err
	}

	logger.Info("cache warmed", slog.Int64("version", version), slog.Duration("duration", j.now().Sub(start)))
	return nil
}

func (j *CacheWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCacheWarmup))
	}
	return slog.Default().With(slog.String("job", TaskCacheWarmup))
}

func (j *CacheWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *CacheWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
