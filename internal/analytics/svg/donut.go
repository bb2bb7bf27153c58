package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Donut renders a donut chart with a legend listing each slice share.
// Slices with a non-positive value are skipped.
func Donut(size int, slices []Slice, opts DonutOpts) (template.HTML, error) {
	total := 0.0
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return "", fmt.Errorf("svg: donut needs a positive total")
	}
	if size <= 0 {
		size = DefaultHeight
	}
	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = float64(size) / 6
	}
	colors := opts.Colors
	if len(colors) == 0 {
		colors = Palette
	}
	format := opts.Format
	if format == nil {
		format = formatTick
	}

	cx := float64(size) / 2
	cy := float64(size) / 2
	radius := float64(size)/2 - thickness/2 - 4
	legendWidth := 200
	width := size + legendWidth

	titleID := makeID(opts.Title, "donut-title")
	descID := makeID(opts.Title, "donut-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, size, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Donut chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Share of total"))))

	angle := -math.Pi / 2
	row := 0
	for i, s := range slices {
		if s.Value <= 0 {
			continue
		}
		color := colors[i%len(colors)]
		share := s.Value / total
		sweep := share * 2 * math.Pi
		if share >= 0.9999 {
			b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\"></circle>", cx, cy, radius, color, thickness))
		} else {
			x1, y1 := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)
			x2, y2 := cx+radius*math.Cos(angle+sweep), cy+radius*math.Sin(angle+sweep)
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			b.WriteString(fmt.Sprintf("<path d=\"M%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\" aria-label=\"%s\"></path>", x1, y1, radius, radius, large, x2, y2, color, thickness, template.HTMLEscapeString(s.Label)))
		}
		angle += sweep

		ly := 20 + float64(row)*18
		b.WriteString(fmt.Sprintf("<rect x=\"%d\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", size+8, ly-9, color))
		b.WriteString(fmt.Sprintf("<text x=\"%d\" y=\"%.2f\" fill=\"#475569\" font-size=\"11\">%s %s (%.1f%%)</text>", size+24, ly, template.HTMLEscapeString(s.Label), template.HTMLEscapeString(format(s.Value)), share*100))
		row++
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
