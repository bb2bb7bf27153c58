package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

const (
	exportLimit  = 10
	exportWindow = time.Minute
)

// MountRoutes registers the dashboard endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(exportLimit, exportWindow,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleHome)
	r.Get("/dashboards/commercial", h.handleCommercial)
	r.Get("/dashboards/executive", h.handleExecutive)
	r.Get("/api/insights", h.handleInsights)
	r.Post("/cache/bump", h.handleCacheBump)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/dashboards/executive/pdf", h.handlePDF)
		gr.Get("/dashboards/executive/export.csv", h.handleCSV)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
