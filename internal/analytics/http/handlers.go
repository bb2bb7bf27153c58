package analytichttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/superstore-bi/superstore-bi/internal/analytics"
	"github.com/superstore-bi/superstore-bi/internal/analytics/export"
	"github.com/superstore-bi/superstore-bi/internal/analytics/ui"
	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
	"github.com/superstore-bi/superstore-bi/internal/platform/httpx"
	"github.com/superstore-bi/superstore-bi/internal/view"
)

const (
	defaultRequestTimeout = 15 * time.Second
	homeTimeout           = 3 * time.Second
)

// DashboardService defines the dashboard data contract used by the handler.
type DashboardService interface {
	Load(ctx context.Context, profile string, sel analytics.Selection) (analytics.Dashboard, error)
	FilterOptions(ctx context.Context) analytics.FilterChoices
	Info(ctx context.Context) (insights.DatasetInfo, error)
	Bump(ctx context.Context) (int64, error)
	Profiles() insights.Profiles
}

// PDFService renders dashboard content to PDF bytes.
type PDFService interface {
	RenderDashboard(ctx context.Context, payload export.DashboardPayload) ([]byte, error)
}

// Handler coordinates HTTP requests for the Superstore dashboards.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	templates *view.Engine
	charts    ui.ChartRenderer
	pdf       PDFService
	validate  *validator.Validate
	timeout   time.Duration
	csvPool   sync.Pool
	now       func() time.Time
}

// NewHandler constructs the dashboard HTTP handler. A non-positive timeout
// selects the default request budget.
func NewHandler(logger *slog.Logger, service DashboardService, templates *view.Engine, charts ui.ChartRenderer, pdf PDFService, timeout time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		charts:    charts,
		pdf:       pdf,
		validate:  validator.New(),
		timeout:   timeout,
		now:       time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), homeTimeout)
	defer cancel()

	var data any
	info, err := h.service.Info(ctx)
	if err != nil {
		h.logger.Warn("dataset info unavailable",
			slog.String("kind", kpiapi.Classify(err)), slog.Any("error", err))
	} else {
		data = info
	}
	h.render(w, r, http.StatusOK, "Superstore BI", "pages/home.html", data)
}

func (h *Handler) handleCommercial(w http.ResponseWriter, r *http.Request) {
	h.handleDashboard(w, r, ui.KindCommercial, insights.ProfileStandard, "Commercial dashboard")
}

func (h *Handler) handleExecutive(w http.ResponseWriter, r *http.Request) {
	h.handleDashboard(w, r, ui.KindExecutive, insights.ProfileExecutive, "Executive dashboard")
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request, kind, profile, title string) {
	sel, err := h.parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page := "pages/" + kind + ".html"
	data, err := h.service.Load(ctx, profile, sel)
	if err != nil {
		status, errKind := upstreamStatus(err)
		h.logger.Error("load dashboard", slog.String("dashboard", kind),
			slog.String("kind", errKind), slog.Any("error", err))
		panel := ui.NewErrorPanel(errKind, status)
		vm := ui.DashboardViewModel{
			Kind:    kind,
			Filters: ui.Filters(analytics.Dashboard{Selection: sel, Choices: h.service.FilterOptions(ctx)}),
			Error:   &panel,
		}
		h.render(w, r, status, title, page, vm)
		return
	}

	vm, err := ui.Build(kind, data, h.charts)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}
	h.render(w, r, http.StatusOK, title, page, vm)
}

type insightsResponse struct {
	Profile  string                  `json:"profile"`
	Filter   kpiapi.Filter           `json:"filter"`
	Degraded bool                    `json:"degraded"`
	Dataset  insights.DatasetInfo    `json:"dataset"`
	Snapshot insights.GlobalSnapshot `json:"snapshot"`
	Report   insights.Report         `json:"report"`
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	profile := strings.TrimSpace(r.URL.Query().Get("profile"))
	if profile == "" {
		profile = insights.ProfileExecutive
	}
	if _, err := h.service.Profiles().Get(profile); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unknown profile", err.Error())
		return
	}
	sel, err := h.parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data, err := h.service.Load(ctx, profile, sel)
	if err != nil {
		status, kind := upstreamStatus(err)
		h.logger.Error("load insights", slog.String("kind", kind), slog.Any("error", err))
		httpx.Problem(w, status, ui.NewErrorPanel(kind, status).Title, kind)
		return
	}
	httpx.JSON(w, http.StatusOK, insightsResponse{
		Profile:  data.Profile.Name,
		Filter:   data.Selection.Filter,
		Degraded: data.Choices.Degraded,
		Dataset:  data.Info,
		Snapshot: data.Snapshot,
		Report:   data.Report,
	})
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		h.logger.Error("pdf exporter", slog.Any("error", errors.New("pdf exporter not configured")))
		http.Error(w, "PDF export not configured", http.StatusServiceUnavailable)
		return
	}
	data, ok := h.loadExport(w, r)
	if !ok {
		return
	}

	period := periodLabel(data.Selection.Filter)
	payload := export.DashboardPayload{
		Title:      "Superstore executive summary",
		Period:     period,
		Formatter:  data.Profile.Formatter(),
		Snapshot:   data.Snapshot,
		Report:     data.Report,
		Series:     data.Series,
		Categories: data.Categories,
		Regions:    data.Regions,
		Products:   data.Products,
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	pdfBytes, err := h.pdf.RenderDashboard(ctx, payload)
	if err != nil {
		h.logger.Error("render pdf", slog.Any("error", err))
		http.Error(w, "PDF rendering failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", exportFilename(period, "pdf")))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadExport(w, r)
	if !ok {
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	period := periodLabel(data.Selection.Filter)
	if err := export.WriteKPICSV(buf, data.Snapshot, data.Report.Metrics, period); err != nil {
		h.handleServerError(w, "write kpi csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteSeriesCSV(buf, data.Series, data.Report.RevenueTrend); err != nil {
		h.handleServerError(w, "write series csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteInsightsCSV(buf, data.Report); err != nil {
		h.handleServerError(w, "write insights csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteActionsCSV(buf, data.Report.Actions); err != nil {
		h.handleServerError(w, "write actions csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", exportFilename(period, "csv")))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleCacheBump(w http.ResponseWriter, r *http.Request) {
	version, err := h.service.Bump(r.Context())
	if err != nil {
		h.logError("bump cache", err)
		httpx.RespondError(w, fmt.Errorf("%w: cache", httpx.ErrUnavailable))
		return
	}
	h.logger.Info("cache bumped", slog.Int64("version", version))
	httpx.JSON(w, http.StatusOK, map[string]int64{"version": version})
}

// loadExport loads the executive dashboard for an export and writes the
// failure response itself.
func (h *Handler) loadExport(w http.ResponseWriter, r *http.Request) (analytics.Dashboard, bool) {
	sel, err := h.parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return analytics.Dashboard{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data, err := h.service.Load(ctx, insights.ProfileExecutive, sel)
	if err != nil {
		status, kind := upstreamStatus(err)
		h.logger.Error("load export", slog.String("kind", kind), slog.Any("error", err))
		http.Error(w, ui.NewErrorPanel(kind, status).Title, status)
		return analytics.Dashboard{}, false
	}
	return data, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title, page string, data any) {
	viewData := view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		GeneratedAt: h.now(),
		Data:        data,
	}
	if err := h.templates.Render(w, status, page, viewData); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleFilterError(w http.ResponseWriter, err error) {
	if errors.Is(err, httpx.ErrValidation) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.handleServerError(w, "parse filters", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}

// upstreamStatus maps a load failure to the response status and its kind.
func upstreamStatus(err error) (int, string) {
	kind := kpiapi.Classify(err)
	if kind == kpiapi.KindTimeout {
		return http.StatusGatewayTimeout, kind
	}
	return http.StatusBadGateway, kind
}

func periodLabel(f kpiapi.Filter) string {
	return f.From + "_" + f.To
}

func exportFilename(period, ext string) string {
	return fmt.Sprintf("superstore-executive-%s.%s", period, ext)
}
