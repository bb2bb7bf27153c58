package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/superstore-bi/superstore-bi/internal/insights"
)

func sampleReport() (insights.GlobalSnapshot, []insights.TimeSeriesPoint, insights.Report) {
	snapshot := insights.GlobalSnapshot{Revenue: 2_297_200.8603, Profit: 286_397.0217, AverageMargin: 12.47, Orders: 5009, Customers: 793, Quantity: 37_873, AverageBasket: 458.61}
	series := []insights.TimeSeriesPoint{
		{Period: "2023-10", Revenue: 100, Profit: 10},
		{Period: "2023-11", Revenue: 110, Profit: 12},
		{Period: "2023-12", Revenue: 120, Profit: 14},
	}
	report := insights.Analyze(insights.ExecutiveProfile(), insights.Input{
		Snapshot: snapshot,
		Series:   series,
		Clients:  insights.ClientsReport{Recurrence: insights.RecurrenceStats{TotalCustomers: 793, RecurringCustomers: 600, AverageOrders: 6.3}},
	})
	return snapshot, series, report
}

func TestWriteKPICSV(t *testing.T) {
	snapshot, _, report := sampleReport()
	buf := &bytes.Buffer{}
	if err := WriteKPICSV(buf, snapshot, report.Metrics, "2022-12-31..2023-12-31"); err != nil {
		t.Fatalf("kpi csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if records[0][0] != "Metric" || records[2][0] != "Revenue" {
		t.Fatalf("unexpected header rows %v", records[:3])
	}
	if records[2][1] != "2297200.86" || records[3][1] != "286397.02" {
		t.Fatalf("expected money rounded to cents, got %v %v", records[2], records[3])
	}
	if records[5][1] != "5009" {
		t.Fatalf("expected integer orders, got %v", records[5])
	}
}

func TestWriteSeriesCSVIncludesTrend(t *testing.T) {
	_, series, report := sampleReport()
	buf := &bytes.Buffer{}
	if err := WriteSeriesCSV(buf, series, report.RevenueTrend); err != nil {
		t.Fatalf("series csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header, 3 points and projection, got %d rows", len(records))
	}
	if records[4][0] != "Projection" || records[4][1] != "130.00" {
		t.Fatalf("unexpected projection row %v", records[4])
	}
}

func TestWriteInsightsAndActionsCSV(t *testing.T) {
	_, _, report := sampleReport()
	buf := &bytes.Buffer{}
	if err := WriteInsightsCSV(buf, report); err != nil {
		t.Fatalf("insights csv error: %v", err)
	}
	if !strings.Contains(buf.String(), "Strength,") {
		t.Fatalf("expected strengths section in %s", buf.String())
	}
	buf.Reset()
	if err := WriteActionsCSV(buf, report.Actions); err != nil {
		t.Fatalf("actions csv error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Priority,Action,Impact,Timeframe") {
		t.Fatalf("unexpected actions csv %s", buf.String())
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.005, "1.01"},
		{-2.5, "-2.50"},
		{0, "0.00"},
		{math.NaN(), "0.00"},
		{math.Inf(1), "0.00"},
	}
	for _, tc := range cases {
		if got := formatMoney(tc.in); got != tc.want {
			t.Fatalf("formatMoney(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestPDFExporterRender(t *testing.T) {
	var html string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms/chromium/convert/html" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("unexpected parse error: %v", err)
			return
		}
		file, _, err := r.FormFile("files")
		if err != nil {
			t.Errorf("missing html file: %v", err)
			return
		}
		data, _ := io.ReadAll(file)
		html = string(data)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("PDF"))
	}))
	defer srv.Close()

	snapshot, series, report := sampleReport()
	exporter := &PDFExporter{Endpoint: srv.URL}
	data, err := exporter.RenderDashboard(context.Background(), DashboardPayload{
		Title:     "Executive <summary>",
		Period:    "2023",
		Formatter: insights.ExecutiveProfile().Formatter(),
		Snapshot:  snapshot,
		Report:    report,
		Series:    series,
		Products:  []insights.ProductRecord{{Product: "Canon imageCLASS 2200 Advanced Copier", Revenue: 61_599.82, Profit: 25_199.93}},
	})
	if err != nil {
		t.Fatalf("pdf render error: %v", err)
	}
	if string(data) != "PDF" {
		t.Fatalf("unexpected payload %q", string(data))
	}
	if !strings.Contains(html, "2 297 200,86 €") {
		t.Fatalf("expected formatted revenue in html")
	}
	if !strings.Contains(html, "Executive &lt;summary&gt;") {
		t.Fatalf("expected escaped title")
	}
	if !strings.Contains(html, "Next month revenue (trend)") {
		t.Fatalf("expected projection row")
	}
}

func TestPDFExporterErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	exporter := &PDFExporter{Endpoint: srv.URL}
	if _, err := exporter.RenderDashboard(context.Background(), DashboardPayload{}); err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected gotenberg status error, got %v", err)
	}
	if _, err := (&PDFExporter{}).RenderDashboard(context.Background(), DashboardPayload{}); err == nil {
		t.Fatalf("expected missing endpoint error")
	}
	var nilExporter *PDFExporter
	if _, err := nilExporter.RenderDashboard(context.Background(), DashboardPayload{}); err == nil {
		t.Fatalf("expected nil exporter error")
	}
}
