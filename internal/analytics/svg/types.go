package svg

// Overlay is an extra series drawn over the primary line.
type Overlay struct {
	Label  string
	Values []float64
	Color  string
	Dashed bool
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Label       string
	Padding     float64
	ShowDots    bool
	TickCount   int
	Overlays    []Overlay
}

// Series is one group member of a bar chart.
type Series struct {
	Label  string
	Values []float64
	Color  string
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// HBarOpts customises the horizontal bar renderer.
type HBarOpts struct {
	Title       string
	Description string
	Color       string
	AxisColor   string
	LabelWidth  float64
	// Format renders the value shown at the end of each bar.
	Format func(float64) string
}

// Slice is one donut segment.
type Slice struct {
	Label string
	Value float64
}

// DonutOpts customises the donut renderer.
type DonutOpts struct {
	Title       string
	Description string
	Colors      []string
	Thickness   float64
	Format      func(float64) string
}

// Defaults for the dashboard charts.
const (
	DefaultWidth     = 720
	DefaultHeight    = 240
	DefaultPadding   = 24.0
	DefaultTicks     = 6
	MaxLabelRunes    = 40
	defaultLabelSpan = 220.0
)

// Palette is the default series palette.
var Palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f"}
