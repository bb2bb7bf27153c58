// Package kpiapi is the HTTP client of the Superstore KPI API.
//
// Calls fail fast: there are no retries and every failure is classified as
// unreachable, timeout, HTTP status or malformed payload.
package kpiapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/superstore-bi/superstore-bi/internal/insights"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds every call.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 8 << 20
)

// Endpoint paths.
const (
	PathInfo        = "/"
	PathFilters     = "/filters/valeurs"
	PathGlobal      = "/kpi/globaux"
	PathTimeSeries  = "/kpi/temporel"
	PathCategories  = "/kpi/categories"
	PathRegions     = "/kpi/geographique"
	PathClients     = "/kpi/clients"
	PathTopProducts = "/kpi/produits/top"
)

// Client calls the KPI API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	metrics    *Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New builds a client for baseURL. An empty baseURL selects DefaultBaseURL
// and a non-positive timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("kpiapi: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("kpiapi: base url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Info returns the dataset description.
func (c *Client) Info(ctx context.Context) (insights.DatasetInfo, error) {
	var out insights.DatasetInfo
	err := c.get(ctx, PathInfo, nil, &out)
	return out, err
}

// FilterOptions returns the selectable filter values.
func (c *Client) FilterOptions(ctx context.Context) (insights.FilterOptions, error) {
	var out insights.FilterOptions
	err := c.get(ctx, PathFilters, nil, &out)
	return out, err
}

// GlobalKPIs returns the headline KPIs for filter.
func (c *Client) GlobalKPIs(ctx context.Context, filter Filter) (insights.GlobalSnapshot, error) {
	var out insights.GlobalSnapshot
	err := c.get(ctx, PathGlobal, filter.Values(), &out)
	return out, err
}

// TimeSeries returns the revenue series at the given granularity (e.g. "mois").
func (c *Client) TimeSeries(ctx context.Context, granularity string) ([]insights.TimeSeriesPoint, error) {
	params := url.Values{}
	if granularity != "" {
		params.Set("periode", granularity)
	}
	var out []insights.TimeSeriesPoint
	err := c.get(ctx, PathTimeSeries, params, &out)
	return out, err
}

// Categories returns the per-category breakdown.
func (c *Client) Categories(ctx context.Context) ([]insights.CategoryBreakdown, error) {
	var out []insights.CategoryBreakdown
	err := c.get(ctx, PathCategories, nil, &out)
	return out, err
}

// Regions returns the per-region breakdown.
func (c *Client) Regions(ctx context.Context) ([]insights.RegionBreakdown, error) {
	var out []insights.RegionBreakdown
	err := c.get(ctx, PathRegions, nil, &out)
	return out, err
}

// Clients returns the top clients, recurrence and segments.
func (c *Client) Clients(ctx context.Context, limit int) (insights.ClientsReport, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limite", strconv.Itoa(limit))
	}
	var out insights.ClientsReport
	err := c.get(ctx, PathClients, params, &out)
	return out, err
}

// TopProducts returns the best products ranked by sortBy ("ca" or "profit").
func (c *Client) TopProducts(ctx context.Context, limit int, sortBy string) ([]insights.ProductRecord, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limite", strconv.Itoa(limit))
	}
	if sortBy != "" {
		params.Set("tri_par", sortBy)
	}
	var out []insights.ProductRecord
	err := c.get(ctx, PathTopProducts, params, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(path, start, err) }()

	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if len(params) > 0 {
		target.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("kpiapi %s: build request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(ctx, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &HTTPError{Endpoint: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("kpiapi %s: %w: %w", path, ErrTimeout, err)
		}
		return fmt.Errorf("kpiapi %s: %w: %w", path, ErrMalformed, err)
	}
	return nil
}

func classifyTransport(ctx context.Context, path string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("kpiapi %s: %w", path, ctx.Err())
	}
	if isTimeout(err) {
		return fmt.Errorf("kpiapi %s: %w: %w", path, ErrTimeout, err)
	}
	return fmt.Errorf("kpiapi %s: %w: %w", path, ErrUnreachable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
