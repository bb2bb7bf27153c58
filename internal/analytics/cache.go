package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "superstore:cache:version"
	keyPrefix       = "superstore"
	// BumpChannel carries version bumps between service instances.
	BumpChannel = "kpi.bump"
)

// Cache wraps Redis based caching of KPI API payloads with versioning
// controls. A nil Cache passes every load through.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	lookups *prometheus.CounterVec
	logger  *slog.Logger
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl, logger: slog.Default()}
}

func (c *Cache) useLogger(logger *slog.Logger) {
	if c != nil && logger != nil {
		c.logger = logger
	}
}

// Instrument registers hit and miss counters.
func (c *Cache) Instrument(registerer prometheus.Registerer) {
	if c == nil || registerer == nil {
		return
	}
	c.lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "superstore_cache_lookups_total",
		Help: "Response cache lookups partitioned by result (hit, miss, error).",
	}, []string{"result"})
	registerer.MustRegister(c.lookups)
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, cacheVersionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// BuildKey composes the cache key with the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{keyPrefix}, parts...), ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader. Redis
// failures are counted and logged and the loader result is served uncached.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	store := true
	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		c.count("hit")
		return json.Unmarshal(payload, dest)
	case errors.Is(err, redis.Nil):
		c.count("miss")
	default:
		c.count("error")
		c.logger.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
		store = false
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if store {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.count("error")
			c.logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates the cache by incrementing the global version and
// publishing the new version.
func (c *Cache) Bump(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return 0, err
	}
	if err := c.client.Publish(ctx, BumpChannel, strconv.FormatInt(ver, 10)).Err(); err != nil {
		return 0, err
	}
	return ver, nil
}

// ListenForInvalidation subscribes to version bump notifications published
// by other service instances.
func (c *Cache) ListenForInvalidation(ctx context.Context, channel string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if channel == "" {
		channel = BumpChannel
	}
	pubsub := c.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				c.applyVersion(ctx, msg.Payload)
			}
		}
	}()
	return nil
}

// applyVersion moves the local version forward, never backwards.
func (c *Cache) applyVersion(ctx context.Context, payload string) {
	remote, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		_ = c.client.Incr(ctx, cacheVersionKey).Err()
		return
	}
	local, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return
	}
	if remote > local {
		_ = c.client.Set(ctx, cacheVersionKey, remote, 0).Err()
	}
}

func (c *Cache) count(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}
