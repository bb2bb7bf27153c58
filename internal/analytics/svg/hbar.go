package svg

import (
	"fmt"
	"html/template"
	"strings"
)

const hbarRowHeight = 26.0

// HBars renders a horizontal bar chart, one row per label, longest bar on
// the largest value. Labels longer than MaxLabelRunes are truncated.
func HBars(width int, values []float64, labels []string, opts HBarOpts) (template.HTML, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("svg: values required")
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match values")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	labelWidth := opts.LabelWidth
	if labelWidth <= 0 {
		labelWidth = defaultLabelSpan
	}
	// Room on the right for the value text.
	barSpan := float64(width) - labelWidth - 80
	if barSpan <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	color := fallback(opts.Color, Palette[0])
	axisColor := fallback(opts.AxisColor, "#475569")
	format := opts.Format
	if format == nil {
		format = formatTick
	}

	_, maxVal := bounds(values)
	if maxVal <= 0 {
		maxVal = 1
	}
	height := int(float64(len(values))*hbarRowHeight + 2*DefaultPadding)

	titleID := makeID(opts.Title, "hbar-title")
	descID := makeID(opts.Title, "hbar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Ranking"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Ranked values"))))

	for i, value := range values {
		y := DefaultPadding + float64(i)*hbarRowHeight
		w := 0.0
		if value > 0 {
			w = value / maxVal * barSpan
		}
		label := Truncate(labels[i], MaxLabelRunes)
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"11\" text-anchor=\"end\">%s</text>", labelWidth-8, y+hbarRowHeight/2+4, axisColor, template.HTMLEscapeString(label)))
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></rect>", labelWidth, y+3, w, hbarRowHeight-6, color, template.HTMLEscapeString(label)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", labelWidth+w+6, y+hbarRowHeight/2+4, axisColor, template.HTMLEscapeString(format(value))))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
