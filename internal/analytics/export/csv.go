package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/superstore-bi/superstore-bi/internal/insights"
)

// WriteKPICSV serialises the headline KPIs and derived ratios.
func WriteKPICSV(w io.Writer, snapshot insights.GlobalSnapshot, metrics insights.Metrics, period string) error {
	records := [][]string{
		{"Metric", "Value"},
		{"Period", period},
		{"Revenue", formatMoney(snapshot.Revenue)},
		{"Profit", formatMoney(snapshot.Profit)},
		{"Average Margin %", formatMoney(snapshot.AverageMargin)},
		{"Orders", strconv.FormatInt(snapshot.Orders, 10)},
		{"Customers", strconv.FormatInt(snapshot.Customers, 10)},
		{"Quantity", strconv.FormatInt(snapshot.Quantity, 10)},
		{"Average Basket", formatMoney(snapshot.AverageBasket)},
		{"Revenue per Customer", formatMoney(metrics.RevenuePerCustomer)},
		{"Profit per Order", formatMoney(metrics.ProfitPerOrder)},
		{"Items per Order", formatMoney(metrics.ItemsPerOrder)},
		{"Retention Rate %", formatMoney(metrics.RetentionRate)},
		{"Top 5 Concentration %", formatMoney(metrics.Concentration)},
		{"Lifetime Value", formatMoney(metrics.LifetimeValue)},
		{"VIP Ratio", formatMoney(metrics.VIPRatio)},
	}
	return writeAll(w, records)
}

// WriteSeriesCSV emits the monthly revenue and profit with the fitted trend
// when one is available.
func WriteSeriesCSV(w io.Writer, points []insights.TimeSeriesPoint, trend *insights.Trend) error {
	records := make([][]string, 0, len(points)+2)
	records = append(records, []string{"Period", "Revenue", "Profit", "Trend"})
	for i, point := range points {
		fitted := ""
		if trend != nil && i < len(trend.Fitted) {
			fitted = formatMoney(trend.Fitted[i])
		}
		records = append(records, []string{point.Period, formatMoney(point.Revenue), formatMoney(point.Profit), fitted})
	}
	if trend != nil {
		records = append(records, []string{"Projection", formatMoney(trend.Next), "", ""})
	}
	return writeAll(w, records)
}

// WriteInsightsCSV lists insights, alerts, strengths and improvements.
func WriteInsightsCSV(w io.Writer, report insights.Report) error {
	records := [][]string{{"Section", "Kind", "Message"}}
	add := func(section string, list []insights.Insight) {
		for _, item := range list {
			records = append(records, []string{section, string(item.Kind), item.Message})
		}
	}
	add("Insight", report.Insights)
	add("Alert", report.Alerts)
	add("Strength", report.Summary.Strengths)
	add("Improvement", report.Summary.Improvements)
	return writeAll(w, records)
}

// WriteActionsCSV prints the recommended actions.
func WriteActionsCSV(w io.Writer, actions []insights.RecommendedAction) error {
	records := [][]string{{"Priority", "Action", "Impact", "Timeframe"}}
	for _, a := range actions {
		records = append(records, []string{string(a.Priority), a.Action, a.Impact, a.Timeframe})
	}
	return writeAll(w, records)
}

func writeAll(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// formatMoney rounds half away from zero to two decimals. Non-finite values
// are written as zero.
func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}
