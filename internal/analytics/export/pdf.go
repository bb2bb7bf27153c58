package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/superstore-bi/superstore-bi/internal/format"
	"github.com/superstore-bi/superstore-bi/internal/insights"
)

// DashboardPayload aggregates the executive summary destined for PDF rendering.
type DashboardPayload struct {
	Title      string
	Period     string
	Formatter  format.Formatter
	Snapshot   insights.GlobalSnapshot
	Report     insights.Report
	Series     []insights.TimeSeriesPoint
	Categories []insights.CategoryBreakdown
	Regions    []insights.RegionBreakdown
	Products   []insights.ProductRecord
}

// PDFExporter wraps Gotenberg interactions for dashboard exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

// RenderDashboard sends HTML content to Gotenberg and returns the PDF bytes.
func (p *PDFExporter) RenderDashboard(ctx context.Context, payload DashboardPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, BuildHTML(payload)); err != nil {
		return nil, err
	}
	if err := writer.WriteField("waitDelay", "500ms"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

// BuildHTML renders the printable executive summary.
func BuildHTML(payload DashboardPayload) string {
	f := payload.Formatter
	snap := payload.Snapshot
	report := payload.Report

	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;}section{margin-bottom:24px;}.metric-label{text-align:left;}li{margin-bottom:4px;}")
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>%s – %s</h1>", escape(fallback(payload.Title, "Executive summary")), escape(payload.Period)))

	b.WriteString("<section><h2>Key indicators</h2><table><tbody>")
	writeMetricRow(&b, "Revenue", f.Currency(snap.Revenue))
	writeMetricRow(&b, "Profit", f.Currency(snap.Profit))
	writeMetricRow(&b, "Average margin", f.Percent(snap.AverageMargin))
	writeMetricRow(&b, "Orders", f.Number(float64(snap.Orders)))
	writeMetricRow(&b, "Customers", f.Number(float64(snap.Customers)))
	writeMetricRow(&b, "Average basket", f.Currency(snap.AverageBasket))
	writeMetricRow(&b, "Revenue per customer", f.Currency(report.Metrics.RevenuePerCustomer))
	writeMetricRow(&b, "Retention rate", f.Percent(report.Metrics.RetentionRate))
	writeMetricRow(&b, "Top 5 concentration", f.Percent(report.Metrics.Concentration))
	writeMetricRow(&b, "Lifetime value", f.Currency(report.Metrics.LifetimeValue))
	if report.RevenueTrend != nil {
		writeMetricRow(&b, "Next month revenue (trend)", f.Currency(report.RevenueTrend.Next))
	}
	b.WriteString("</tbody></table></section>")

	writeList(&b, "Insights", append(append([]insights.Insight{}, report.Insights...), report.Alerts...))
	writeList(&b, "Strengths", report.Summary.Strengths)
	writeList(&b, "Improvements", report.Summary.Improvements)

	if len(report.Actions) > 0 {
		b.WriteString("<section><h2>Priority actions</h2><table><thead><tr><th>Priority</th><th>Action</th><th>Impact</th><th>Timeframe</th></tr></thead><tbody>")
		for _, a := range report.Actions {
			b.WriteString("<tr><td class=\"metric-label\">")
			b.WriteString(escape(string(a.Priority)))
			b.WriteString("</td><td class=\"metric-label\">")
			b.WriteString(escape(a.Action))
			b.WriteString("</td><td class=\"metric-label\">")
			b.WriteString(escape(a.Impact))
			b.WriteString("</td><td class=\"metric-label\">")
			b.WriteString(escape(a.Timeframe))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	if len(payload.Series) > 0 {
		b.WriteString("<section><h2>Monthly evolution</h2><table><thead><tr><th>Period</th><th>Revenue</th><th>Profit</th></tr></thead><tbody>")
		for _, point := range payload.Series {
			b.WriteString("<tr><td class=\"metric-label\">")
			b.WriteString(escape(point.Period))
			b.WriteString("</td><td>")
			b.WriteString(escape(f.Currency(point.Revenue)))
			b.WriteString("</td><td>")
			b.WriteString(escape(f.Currency(point.Profit)))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	if len(payload.Categories)+len(payload.Regions) > 0 {
		b.WriteString("<section><h2>Sectors</h2><table><thead><tr><th>Name</th><th>Revenue</th><th>Profit</th><th>Margin</th></tr></thead><tbody>")
		for _, c := range payload.Categories {
			writeBreakdownRow(&b, f, c.Category, c.Revenue, c.Profit, &c.MarginPct)
		}
		for _, r := range payload.Regions {
			writeBreakdownRow(&b, f, r.Region, r.Revenue, r.Profit, &r.MarginPct)
		}
		b.WriteString("</tbody></table></section>")
	}

	if len(payload.Products) > 0 {
		b.WriteString("<section><h2>Star products</h2><table><thead><tr><th>Product</th><th>Revenue</th><th>Profit</th></tr></thead><tbody>")
		for _, p := range payload.Products {
			writeBreakdownRow(&b, f, p.Product, p.Revenue, p.Profit, nil)
		}
		b.WriteString("</tbody></table></section>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func writeMetricRow(b *strings.Builder, label, value string) {
	b.WriteString("<tr><td class=\"metric-label\">")
	b.WriteString(escape(label))
	b.WriteString("</td><td>")
	b.WriteString(escape(value))
	b.WriteString("</td></tr>")
}

func writeBreakdownRow(b *strings.Builder, f format.Formatter, name string, revenue, profit float64, margin *float64) {
	b.WriteString("<tr><td class=\"metric-label\">")
	b.WriteString(escape(name))
	b.WriteString("</td><td>")
	b.WriteString(escape(f.Currency(revenue)))
	b.WriteString("</td><td>")
	b.WriteString(escape(f.Currency(profit)))
	if margin != nil {
		b.WriteString("</td><td>")
		b.WriteString(escape(f.Percent(*margin)))
	}
	b.WriteString("</td></tr>")
}

func writeList(b *strings.Builder, title string, items []insights.Insight) {
	if len(items) == 0 {
		return
	}
	b.WriteString("<section><h2>")
	b.WriteString(escape(title))
	b.WriteString("</h2><ul>")
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(escape(item.Message))
		b.WriteString("</li>")
	}
	b.WriteString("</ul></section>")
}

func escape(v string) string {
	return template.HTMLEscapeString(v)
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
