package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
	"unicode/utf8"
)

// Line renders a responsive SVG line chart. The primary series is drawn as a
// filled area; overlays (profit, trend) share its axes.
func Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	for _, overlay := range opts.Overlays {
		if len(overlay.Values) != len(series) {
			return "", fmt.Errorf("svg: overlay %q length must match series", overlay.Label)
		}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	strokeColor := fallback(opts.StrokeColor, "#1f77b4")
	fillColor := fallback(opts.FillColor, "rgba(31,119,180,0.15)")
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	all := append([]float64(nil), series...)
	for _, overlay := range opts.Overlays {
		all = append(all, overlay.Values...)
	}
	minVal, maxVal := bounds(all)
	if minVal > 0 {
		minVal = 0
	}
	if maxVal < 0 {
		maxVal = 0
	}
	if almostEqual(maxVal, minVal) {
		maxVal = minVal + 1
	}
	scale := chartHeight / (maxVal - minVal)

	xAt := func(i int) float64 {
		if len(series) == 1 {
			return padding + chartWidth/2
		}
		return padding + float64(i)*chartWidth/float64(len(series)-1)
	}
	yAt := func(v float64) float64 {
		return padding + chartHeight - (v-minVal)*scale
	}

	path := linePath(series, xAt, yAt)

	titleID := makeID(opts.Title, "line-title")
	descID := makeID(opts.Title, "line-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Line chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Trend data"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := padding + chartHeight - ratio*chartHeight
		value := minVal + (maxVal-minVal)*ratio
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}

	// Axes
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding+chartHeight, padding+chartWidth, padding+chartHeight))
	b.WriteString("</g>")

	if fillColor != "none" {
		base := yAt(0)
		area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", path, xAt(len(series)-1), base, xAt(0), base)
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"%s\" stroke=\"none\" aria-hidden=\"true\"></path>", area, fillColor))
	}
	b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\"></path>", path, strokeColor))

	if opts.ShowDots {
		for i, value := range series {
			b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"></circle>", xAt(i), yAt(value), strokeColor))
		}
	}

	for i, overlay := range opts.Overlays {
		color := fallback(overlay.Color, Palette[(i+1)%len(Palette)])
		dash := ""
		if overlay.Dashed {
			dash = " stroke-dasharray=\"6,4\""
		}
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\"%s aria-label=\"%s\"></path>", linePath(overlay.Values, xAt, yAt), color, dash, template.HTMLEscapeString(overlay.Label)))
	}

	for i, label := range labels {
		if !showLabel(i, len(labels)) {
			continue
		}
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", xAt(i), padding+chartHeight+14, axisColor, template.HTMLEscapeString(label)))
	}

	if len(opts.Overlays) > 0 {
		entries := []legendEntry{{label: fallback(opts.Label, "Series"), color: strokeColor}}
		for i, overlay := range opts.Overlays {
			entries = append(entries, legendEntry{label: overlay.Label, color: fallback(overlay.Color, Palette[(i+1)%len(Palette)])})
		}
		writeLegend(&b, entries, padding, axisColor)
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func linePath(values []float64, xAt func(int) float64, yAt func(float64) float64) string {
	var path strings.Builder
	for i, value := range values {
		if i == 0 {
			path.WriteString(fmt.Sprintf("M%.2f %.2f", xAt(i), yAt(value)))
			continue
		}
		path.WriteString(fmt.Sprintf(" L%.2f %.2f", xAt(i), yAt(value)))
	}
	return path.String()
}

// showLabel thins x-axis labels on long series to about twelve.
func showLabel(i, n int) bool {
	if n <= 12 {
		return true
	}
	step := (n + 11) / 12
	return i%step == 0 || i == n-1
}

type legendEntry struct {
	label string
	color string
}

func writeLegend(b *strings.Builder, entries []legendEntry, padding float64, axisColor string) {
	legendY := padding - 12
	if legendY < 12 {
		legendY = 12
	}
	legendX := padding
	for _, entry := range entries {
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, entry.color))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", legendX+14, legendY, axisColor, template.HTMLEscapeString(entry.label)))
		legendX += 90
	}
}

// Truncate keeps the first max runes of label and appends "..." when it is
// longer.
func Truncate(label string, max int) string {
	if max <= 0 || utf8.RuneCountInString(label) <= max {
		return label
	}
	runes := []rune(label)
	return string(runes[:max]) + "..."
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func bounds(series []float64) (float64, float64) {
	minVal := series[0]
	maxVal := series[0]
	for _, v := range series[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}
