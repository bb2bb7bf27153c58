package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
)

// Focus narrows the executive view to one dimension.
type Focus string

const (
	FocusGlobal  Focus = "global"
	FocusRegion  Focus = "region"
	FocusSegment Focus = "segment"
)

// ParseFocus maps a query value to a Focus; empty means global.
func ParseFocus(raw string) (Focus, error) {
	switch f := Focus(raw); f {
	case "":
		return FocusGlobal, nil
	case FocusGlobal, FocusRegion, FocusSegment:
		return f, nil
	default:
		return "", fmt.Errorf("analytics: unknown focus %q", raw)
	}
}

// Selection is what the user picked on a dashboard. With a non-custom
// preset the dates are derived from the dataset bounds; with PresetCustom
// empty dates default to the bounds. A focus other than empty drops the
// dimension filters it does not cover.
type Selection struct {
	Preset insights.Preset
	Focus  Focus
	Filter kpiapi.Filter
}

// Dashboard gathers every section of one dashboard render.
type Dashboard struct {
	Profile    insights.Profile
	Selection  Selection
	Choices    FilterChoices
	Info       insights.DatasetInfo
	Snapshot   insights.GlobalSnapshot
	Series     []insights.TimeSeriesPoint
	Categories []insights.CategoryBreakdown
	Regions    []insights.RegionBreakdown
	Clients    insights.ClientsReport
	Products   []insights.ProductRecord
	Report     insights.Report
}

// LoadCommercial loads the commercial dashboard with the standard profile.
func (s *Service) LoadCommercial(ctx context.Context, sel Selection) (Dashboard, error) {
	return s.Load(ctx, insights.ProfileStandard, sel)
}

// LoadExecutive loads the executive dashboard with the executive profile.
func (s *Service) LoadExecutive(ctx context.Context, sel Selection) (Dashboard, error) {
	return s.Load(ctx, insights.ProfileExecutive, sel)
}

// Load fetches every section concurrently. The first failure cancels the
// remaining calls and is returned as is.
func (s *Service) Load(ctx context.Context, profileName string, sel Selection) (Dashboard, error) {
	profile, err := s.profiles.Get(profileName)
	if err != nil {
		return Dashboard{}, err
	}

	choices := s.FilterOptions(ctx)
	sel, err = resolveSelection(sel, choices.Options, profile.Period)
	if err != nil {
		return Dashboard{}, err
	}

	data := Dashboard{Profile: profile, Selection: sel, Choices: choices}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info, err := s.Info(gctx)
		if err != nil {
			return err
		}
		data.Info = info
		return nil
	})

	g.Go(func() error {
		snapshot, err := s.GlobalKPIs(gctx, sel.Filter)
		if err != nil {
			return err
		}
		data.Snapshot = snapshot
		return nil
	})

	g.Go(func() error {
		series, err := s.TimeSeries(gctx, SeriesGranularity)
		if err != nil {
			return err
		}
		data.Series = series
		return nil
	})

	g.Go(func() error {
		categories, err := s.Categories(gctx)
		if err != nil {
			return err
		}
		data.Categories = categories
		return nil
	})

	g.Go(func() error {
		regions, err := s.Regions(gctx)
		if err != nil {
			return err
		}
		data.Regions = regions
		return nil
	})

	g.Go(func() error {
		clients, err := s.Clients(gctx, profile.Ranking.TopClients)
		if err != nil {
			return err
		}
		data.Clients = clients
		return nil
	})

	g.Go(func() error {
		products, err := s.TopProducts(gctx, profile.Ranking.TopProducts, profile.Ranking.ProductSort)
		if err != nil {
			return err
		}
		data.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	data.Report = insights.Analyze(profile, insights.Input{
		Snapshot: data.Snapshot,
		Series:   data.Series,
		Clients:  data.Clients,
	})
	return data, nil
}

// resolveSelection fills the period from the preset, falling back to the
// profile's period, and keeps custom dates inside the dataset bounds.
func resolveSelection(sel Selection, options insights.FilterOptions, period insights.Preset) (Selection, error) {
	if sel.Preset == "" {
		sel.Preset = period
	}
	from, to, err := insights.ResolvePreset(sel.Preset, options.Dates)
	if err != nil {
		return Selection{}, fmt.Errorf("analytics: resolve period: %w", err)
	}
	if sel.Preset != insights.PresetCustom || sel.Filter.From == "" {
		sel.Filter.From = from.Format(insights.DateLayout)
	}
	if sel.Preset != insights.PresetCustom || sel.Filter.To == "" {
		sel.Filter.To = to.Format(insights.DateLayout)
	}
	// Both sides are YYYY-MM-DD, so string order is date order.
	sel.Filter.From = clampDate(sel.Filter.From, options.Dates)
	sel.Filter.To = clampDate(sel.Filter.To, options.Dates)
	switch sel.Focus {
	case FocusGlobal:
		sel.Filter.Region, sel.Filter.Segment, sel.Filter.Category = "", "", ""
	case FocusRegion:
		sel.Filter.Segment, sel.Filter.Category = "", ""
	case FocusSegment:
		sel.Filter.Region, sel.Filter.Category = "", ""
	}
	return sel, nil
}

func clampDate(date string, bounds insights.DateRange) string {
	switch {
	case date < bounds.Min:
		return bounds.Min
	case date > bounds.Max:
		return bounds.Max
	default:
		return date
	}
}
