package insights

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format used by the KPI API.
const DateLayout = "2006-01-02"

// Preset is a quick period selection anchored on the dataset's last date.
type Preset string

const (
	PresetYear    Preset = "year"
	PresetHalf    Preset = "half"
	PresetQuarter Preset = "quarter"
	PresetMonth   Preset = "month"
	PresetCustom  Preset = "custom"
)

var presetDays = map[Preset]int{
	PresetYear:    365,
	PresetHalf:    180,
	PresetQuarter: 90,
	PresetMonth:   30,
}

// Presets lists the selectable presets in display order.
func Presets() []Preset {
	return []Preset{PresetYear, PresetHalf, PresetQuarter, PresetMonth, PresetCustom}
}

// Label returns the display label of the preset.
func (p Preset) Label() string {
	switch p {
	case PresetYear:
		return "Last full year"
	case PresetHalf:
		return "Last 6 months"
	case PresetQuarter:
		return "Current quarter"
	case PresetMonth:
		return "Current month"
	default:
		return "Custom"
	}
}

// ParsePreset resolves a preset name. An empty name selects PresetYear.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	if p == "" {
		return PresetYear, nil
	}
	if p == PresetCustom {
		return p, nil
	}
	if _, ok := presetDays[p]; !ok {
		return "", fmt.Errorf("insights: unknown period preset %q", name)
	}
	return p, nil
}

// ResolvePreset returns the [from, to] window of a preset within the dataset
// bounds. PresetCustom returns the full bounds.
func ResolvePreset(p Preset, bounds DateRange) (time.Time, time.Time, error) {
	minDate, err := time.Parse(DateLayout, bounds.Min)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("insights: invalid min date: %w", err)
	}
	maxDate, err := time.Parse(DateLayout, bounds.Max)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("insights: invalid max date: %w", err)
	}
	if maxDate.Before(minDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("insights: date range %s..%s is inverted", bounds.Min, bounds.Max)
	}
	if p == PresetCustom {
		return minDate, maxDate, nil
	}
	days, ok := presetDays[p]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("insights: unknown period preset %q", p)
	}
	from := maxDate.AddDate(0, 0, -days)
	if from.Before(minDate) {
		from = minDate
	}
	return from, maxDate, nil
}
