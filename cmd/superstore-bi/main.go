package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/superstore-bi/superstore-bi/cmd/superstore-bi/cli"
	"github.com/superstore-bi/superstore-bi/internal/analytics"
	"github.com/superstore-bi/superstore-bi/internal/analytics/export"
	analytichttp "github.com/superstore-bi/superstore-bi/internal/analytics/http"
	"github.com/superstore-bi/superstore-bi/internal/analytics/svg"
	"github.com/superstore-bi/superstore-bi/internal/app"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
	"github.com/superstore-bi/superstore-bi/internal/observability"
	"github.com/superstore-bi/superstore-bi/internal/platform/cache"
	"github.com/superstore-bi/superstore-bi/internal/view"
	"github.com/superstore-bi/superstore-bi/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		os.Exit(runJobs(ctx, cfg, os.Args[2:]))
	}

	logger := app.NewLogger(cfg)

	profiles, err := app.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		logger.Error("load profiles", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	client, err := kpiapi.New(cfg.KPIAPIURL, cfg.KPIAPITimeout, kpiapi.WithMetrics(kpiapi.NewMetrics(metrics.Registerer())))
	if err != nil {
		logger.Error("init kpi api client", slog.Any("error", err))
		os.Exit(1)
	}

	var responseCache *analytics.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, serving without cache", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		responseCache = analytics.NewCache(redisClient, cfg.CacheTTL)
		responseCache.Instrument(metrics.Registerer())
		if err := responseCache.ListenForInvalidation(ctx, ""); err != nil {
			logger.Warn("subscribe cache invalidation", slog.Any("error", err))
		}
	}

	service := analytics.NewService(client, responseCache, profiles, logger)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	var pdfService analytichttp.PDFService
	if cfg.GotenbergURL != "" {
		pdfService = &export.PDFExporter{Endpoint: cfg.GotenbergURL, Client: &http.Client{Timeout: 30 * time.Second}}
	} else {
		logger.Warn("GOTENBERG_URL not set, PDF export disabled")
	}
	analyticsHandler := analytichttp.NewHandler(logger, service, templates, svg.Renderer{}, pdfService, cfg.DashboardTimeout())

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AnalyticsHandler: analyticsHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr), slog.String("kpi_api", client.BaseURL()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// runJobs handles "superstore-bi jobs trigger|stats".
func runJobs(ctx context.Context, cfg *app.Config, args []string) int {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "print JSON output")
	if len(args) == 0 {
		_, _ = os.Stderr.WriteString("usage: superstore-bi jobs trigger [job] | stats [--json]\n")
		return 2
	}
	action := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
	defer func() { _ = jobsCLI.Close() }()
	return jobsCLI.JobsCommand(ctx, cli.JobsOptions{
		Action:     action,
		Job:        fs.Arg(0),
		JSONOutput: *jsonOut,
	})
}
