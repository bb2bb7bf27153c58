// Package format renders KPI values for the dashboards.
//
// A Formatter is bound to a single Style so a dashboard never mixes the
// full-precision and scale-abbreviated conventions.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Style selects the number rendering convention of a dashboard.
type Style string

const (
	// StyleFull renders space-grouped values with two decimals: 1 234,56 €.
	StyleFull Style = "full"
	// StyleCompact abbreviates thousands and millions: 1.2k €, 3.4M €.
	StyleCompact Style = "compact"
)

const currencySuffix = " €"

// grouping uses English conventions (comma thousands, dot decimal) which are
// then rewritten to the dashboard convention.
var grouping = message.NewPrinter(language.English)

// ParseStyle resolves a style name, defaulting to StyleFull.
func ParseStyle(name string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(name))) {
	case "", StyleFull:
		return StyleFull, nil
	case StyleCompact:
		return StyleCompact, nil
	default:
		return "", fmt.Errorf("format: unknown style %q", name)
	}
}

// Formatter renders currency, counts and percentages in one Style.
type Formatter struct {
	style Style
}

// New returns a Formatter for style. Unknown styles fall back to StyleFull.
func New(style Style) Formatter {
	if style != StyleCompact {
		style = StyleFull
	}
	return Formatter{style: style}
}

// Style reports the convention the formatter applies.
func (f Formatter) Style() Style {
	if f.style == "" {
		return StyleFull
	}
	return f.style
}

// Currency renders a monetary value with the euro suffix.
func (f Formatter) Currency(value float64) string {
	value = finite(value)
	if f.Style() == StyleCompact {
		return compactCurrency(value)
	}
	return FullCurrency(value)
}

// Number renders a count.
func (f Formatter) Number(value float64) string {
	value = finite(value)
	if f.Style() == StyleCompact {
		return compactNumber(value)
	}
	return groupInt(value)
}

// Percent renders a percentage with two decimals (full) or one (compact).
func (f Formatter) Percent(value float64) string {
	value = finite(value)
	if f.Style() == StyleCompact {
		return fmt.Sprintf("%.1f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// Ratio renders a multiplier such as the VIP ratio: 2.5x.
func (f Formatter) Ratio(value float64) string {
	return fmt.Sprintf("%.1fx", finite(value))
}

// Decimal1 renders a plain one-decimal value.
func (f Formatter) Decimal1(value float64) string {
	return fmt.Sprintf("%.1f", finite(value))
}

// FullCurrency renders 1234567.891 as "1 234 567,89 €".
func FullCurrency(value float64) string {
	value = finite(value)
	fixed := decimal.NewFromFloat(math.Abs(value)).StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		units = 0
	}
	sign := ""
	if value < 0 && fixed != "0.00" {
		sign = "-"
	}
	return sign + groupInt(float64(units)) + "," + cents + currencySuffix
}

// Kilo renders a value in thousands without decimals: 12K.
func Kilo(value float64) string {
	return fmt.Sprintf("%.0fK", finite(value)/1_000)
}

// The scale is picked on the value as it will be printed, so 999.6 shows
// as 1.0k and 999 950 as 1.0M.
func compactCurrency(value float64) string {
	switch {
	case math.Abs(roundTo(value/1_000, 1)) >= 1_000:
		return fmt.Sprintf("%.1fM", value/1_000_000) + currencySuffix
	case math.Abs(math.Round(value)) >= 1_000:
		return fmt.Sprintf("%.1fk", value/1_000) + currencySuffix
	default:
		return fmt.Sprintf("%.0f", value) + currencySuffix
	}
}

func compactNumber(value float64) string {
	if math.Abs(math.Round(value)) >= 1_000 {
		return fmt.Sprintf("%.1fk", value/1_000)
	}
	return groupInt(value)
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

func groupInt(value float64) string {
	raw := grouping.Sprintf("%d", int64(math.Round(value)))
	return strings.ReplaceAll(raw, ",", " ")
}

func finite(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
