package kpiapi

import (
	"net/url"
	"strings"
)

// All is the selection that disables a dimension filter.
const All = "all"

// Filter narrows the global KPIs. Dates use the YYYY-MM-DD layout; empty
// fields and All are not sent.
type Filter struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Region   string `json:"region,omitempty"`
	Segment  string `json:"segment,omitempty"`
	Category string `json:"category,omitempty"`
}

// Values encodes the filter as KPI API query parameters.
func (f Filter) Values() url.Values {
	params := url.Values{}
	setIf(params, "date_debut", f.From)
	setIf(params, "date_fin", f.To)
	setIf(params, "region", f.Region)
	setIf(params, "segment", f.Segment)
	setIf(params, "categorie", f.Category)
	return params
}

// Key is a stable representation of the filter used in cache keys.
func (f Filter) Key() string {
	return f.Values().Encode()
}

func setIf(params url.Values, key, value string) {
	value = strings.TrimSpace(value)
	if IsAll(value) {
		return
	}
	params.Set(key, value)
}

// IsAll reports whether value selects every member of a dimension.
func IsAll(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, All)
}
