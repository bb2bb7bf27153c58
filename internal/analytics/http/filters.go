package analytichttp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/superstore-bi/superstore-bi/internal/analytics"
	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
	"github.com/superstore-bi/superstore-bi/internal/platform/httpx"
)

// filterQuery is the raw dashboard query string.
type filterQuery struct {
	Preset   string `validate:"omitempty,oneof=year half quarter month custom"`
	Focus    string `validate:"omitempty,oneof=global region segment"`
	From     string `validate:"omitempty,datetime=2006-01-02"`
	To       string `validate:"omitempty,datetime=2006-01-02"`
	Region   string `validate:"max=64"`
	Segment  string `validate:"max=64"`
	Category string `validate:"max=64"`
}

// parseFilters validates the query and converts it into a Selection. Explicit
// dates without a preset select the custom period; no preset at all leaves the
// choice to the dashboard profile.
func (h *Handler) parseFilters(r *http.Request) (analytics.Selection, error) {
	q := r.URL.Query()
	raw := filterQuery{
		Preset:   strings.ToLower(strings.TrimSpace(q.Get("preset"))),
		Focus:    strings.ToLower(strings.TrimSpace(q.Get("focus"))),
		From:     strings.TrimSpace(q.Get("from")),
		To:       strings.TrimSpace(q.Get("to")),
		Region:   strings.TrimSpace(q.Get("region")),
		Segment:  strings.TrimSpace(q.Get("segment")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	if err := h.validate.Struct(raw); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return analytics.Selection{}, fmt.Errorf("%w: invalid %s", httpx.ErrValidation, strings.ToLower(vErrs[0].Field()))
		}
		return analytics.Selection{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	// Both layouts are YYYY-MM-DD so the strings order like the dates.
	if raw.From != "" && raw.To != "" && raw.From > raw.To {
		return analytics.Selection{}, fmt.Errorf("%w: from is after to", httpx.ErrValidation)
	}

	if raw.Preset == "" && (raw.From != "" || raw.To != "") {
		raw.Preset = string(insights.PresetCustom)
	}
	var (
		preset insights.Preset
		err    error
	)
	if raw.Preset != "" {
		if preset, err = insights.ParsePreset(raw.Preset); err != nil {
			return analytics.Selection{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
	}
	// Without a focus every dimension filter applies.
	var focus analytics.Focus
	if raw.Focus != "" {
		if focus, err = analytics.ParseFocus(raw.Focus); err != nil {
			return analytics.Selection{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
	}

	return analytics.Selection{
		Preset: preset,
		Focus:  focus,
		Filter: kpiapi.Filter{
			From:     raw.From,
			To:       raw.To,
			Region:   dimension(raw.Region),
			Segment:  dimension(raw.Segment),
			Category: dimension(raw.Category),
		},
	}, nil
}

// dimension normalises the "All" choice to an empty filter.
func dimension(value string) string {
	if kpiapi.IsAll(value) {
		return ""
	}
	return value
}
