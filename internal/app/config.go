package app

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	KPIAPIURL     string        `envconfig:"KPI_API_URL" default:"http://localhost:8000"`
	KPIAPITimeout time.Duration `envconfig:"KPI_API_TIMEOUT" default:"10s"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`

	ProfilesFile string `envconfig:"PROFILES_FILE"`
	WarmupSpec   string `envconfig:"WARMUP_SPEC" default:"@every 5m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: missing")
	}
	u, err := url.Parse(c.KPIAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: KPI_API_URL %q is not an absolute URL", c.KPIAPIURL)
	}
	if c.KPIAPITimeout <= 0 {
		return errors.New("config: KPI_API_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("config: CACHE_TTL must be positive")
	}
	switch c.LogFormat {
	case "pretty", "text", "json":
	default:
		return fmt.Errorf("config: unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// DashboardTimeout is the budget of one dashboard render: every KPI API
// call runs concurrently so one client timeout plus rendering headroom.
func (c *Config) DashboardTimeout() time.Duration {
	budget := c.KPIAPITimeout + 5*time.Second
	if c.AppRequestTimeout > 0 && budget > c.AppRequestTimeout {
		return c.AppRequestTimeout
	}
	return budget
}
