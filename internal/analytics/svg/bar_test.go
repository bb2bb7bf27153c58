package svg

import (
	"strings"
	"testing"
)

func TestBarsProducesSVG(t *testing.T) {
	html, err := Bars(420, 220, []Series{
		{Label: "Revenue", Values: []float64{500, 600, 700}},
		{Label: "Profit", Values: []float64{50, -20, 90}},
		{Label: "Customers", Values: []float64{30, 32, 40}},
	}, []string{"Central", "East", "West"}, BarOpts{
		Title:       "Regions",
		Description: "Regional comparison",
	})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	// nine bars plus three legend swatches
	if got := strings.Count(output, "<rect"); got != 12 {
		t.Fatalf("expected 12 rects, got %d", got)
	}
	if !strings.Contains(output, "Customers") {
		t.Fatalf("expected legend label")
	}
}

func TestBarsValidatesLengths(t *testing.T) {
	if _, err := Bars(420, 220, nil, []string{"a"}, BarOpts{}); err == nil {
		t.Fatalf("expected error without series")
	}
	if _, err := Bars(420, 220, []Series{{Label: "x", Values: []float64{1, 2}}}, []string{"a"}, BarOpts{}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestHBarsTruncatesLabels(t *testing.T) {
	name := "Cisco TelePresence System EX90 Videoconferencing Unit"
	html, err := HBars(600, []float64{22638.48, 500}, []string{name, "Stapler"}, HBarOpts{
		Title:  "Top products",
		Format: func(v float64) string { return "v" },
	})
	if err != nil {
		t.Fatalf("hbars renderer error: %v", err)
	}
	output := string(html)
	if strings.Contains(output, name) {
		t.Fatalf("expected long label to be truncated")
	}
	if !strings.Contains(output, "Cisco TelePresence System EX90 Videoconf...") {
		t.Fatalf("expected truncated label in %s", output)
	}
	if strings.Count(output, "<rect") != 2 {
		t.Fatalf("expected one bar per row")
	}
}

func TestDonut(t *testing.T) {
	html, err := Donut(200, []Slice{
		{Label: "Technology", Value: 836154},
		{Label: "Furniture", Value: 741999},
		{Label: "Empty", Value: 0},
	}, DonutOpts{Title: "Categories"})
	if err != nil {
		t.Fatalf("donut renderer error: %v", err)
	}
	output := string(html)
	if strings.Count(output, "<path") != 2 {
		t.Fatalf("expected two arcs, got %s", output)
	}
	if strings.Contains(output, "Empty") {
		t.Fatalf("zero slices must be skipped")
	}

	if _, err := Donut(200, []Slice{{Label: "x", Value: 0}}, DonutOpts{}); err == nil {
		t.Fatalf("expected error on empty total")
	}
}

func TestDonutSingleSliceIsCircle(t *testing.T) {
	html, err := Donut(200, []Slice{{Label: "All", Value: 5}}, DonutOpts{})
	if err != nil {
		t.Fatalf("donut renderer error: %v", err)
	}
	if !strings.Contains(string(html), "<circle") {
		t.Fatalf("expected a full circle")
	}
}
