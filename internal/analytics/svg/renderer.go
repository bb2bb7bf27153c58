package svg

import "html/template"

// Renderer exposes the package chart functions as methods so handlers can
// depend on an interface.
type Renderer struct{}

func (Renderer) Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	return Line(width, height, series, labels, opts)
}

func (Renderer) Bars(width, height int, series []Series, labels []string, opts BarOpts) (template.HTML, error) {
	return Bars(width, height, series, labels, opts)
}

func (Renderer) HBars(width int, values []float64, labels []string, opts HBarOpts) (template.HTML, error) {
	return HBars(width, values, labels, opts)
}

func (Renderer) Donut(size int, slices []Slice, opts DonutOpts) (template.HTML, error) {
	return Donut(size, slices, opts)
}
