package analytics

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
)

// sharedLoadTimeout bounds a coalesced load once it no longer follows the
// context of the caller that started it.
const sharedLoadTimeout = 30 * time.Second

// Source is the subset of the KPI API client the service relies on.
type Source interface {
	Info(ctx context.Context) (insights.DatasetInfo, error)
	FilterOptions(ctx context.Context) (insights.FilterOptions, error)
	GlobalKPIs(ctx context.Context, filter kpiapi.Filter) (insights.GlobalSnapshot, error)
	TimeSeries(ctx context.Context, granularity string) ([]insights.TimeSeriesPoint, error)
	Categories(ctx context.Context) ([]insights.CategoryBreakdown, error)
	Regions(ctx context.Context) ([]insights.RegionBreakdown, error)
	Clients(ctx context.Context, limit int) (insights.ClientsReport, error)
	TopProducts(ctx context.Context, limit int, sortBy string) ([]insights.ProductRecord, error)
}

// Service coordinates KPI API calls with the cache layer.
type Service struct {
	source   Source
	cache    *Cache
	profiles insights.Profiles
	logger   *slog.Logger
	flight   singleflight.Group
}

// NewService wires a Source with a Cache helper. A nil cache disables
// caching and nil profiles select the built-in defaults.
func NewService(source Source, cache *Cache, profiles insights.Profiles, logger *slog.Logger) *Service {
	if profiles == nil {
		profiles = insights.DefaultProfiles()
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache.useLogger(logger)
	return &Service{source: source, cache: cache, profiles: profiles, logger: logger}
}

// Profiles exposes the registered threshold profiles.
func (s *Service) Profiles() insights.Profiles {
	return s.profiles
}

// Bump invalidates every cached payload.
func (s *Service) Bump(ctx context.Context) (int64, error) {
	return s.cache.Bump(ctx)
}

// fetch coalesces identical concurrent loads and serves them from the cache.
func fetch[T any](ctx context.Context, s *Service, load func(context.Context) (T, error), parts ...string) (T, error) {
	var zero T
	cache := s.cache
	key, err := cache.BuildKey(ctx, parts...)
	if err != nil {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		s.logger.Warn("cache unavailable, loading uncached", slog.String("key", strings.Join(parts, ":")), slog.Any("error", err))
		cache = nil
		key, _ = cache.BuildKey(ctx, parts...)
	}
	resultChan := s.flight.DoChan(key, func() (interface{}, error) {
		// The load is shared by every caller of key, so one caller giving up
		// must not cancel it for the others.
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		var out T
		err := cache.FetchJSON(sharedCtx, key, &out, func(ctx context.Context) (interface{}, error) {
			return load(ctx)
		})
		return out, err
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
