package insights

import (
	"fmt"
	"sort"

	"github.com/superstore-bi/superstore-bi/internal/format"
)

// Profile names shipped with the service.
const (
	ProfileStandard  = "standard"
	ProfileExecutive = "executive"
)

// InsightRules drive GenerateInsights and Alerts.
type InsightRules struct {
	HighMargin             float64 `koanf:"high_margin" json:"high_margin"`
	LowMargin              float64 `koanf:"low_margin" json:"low_margin"`
	HighBasket             float64 `koanf:"high_basket" json:"high_basket"`
	LowBasket              float64 `koanf:"low_basket" json:"low_basket"`
	HighRevenuePerCustomer float64 `koanf:"high_revenue_per_customer" json:"high_revenue_per_customer"`
}

// SummaryRules drive Summarize. Margin and retention act as a single pivot:
// above is a strength, below an improvement.
type SummaryRules struct {
	Margin            float64 `koanf:"margin" json:"margin"`
	Retention         float64 `koanf:"retention" json:"retention"`
	DiversifiedBelow  float64 `koanf:"diversified_below" json:"diversified_below"`
	ConcentratedAbove float64 `koanf:"concentrated_above" json:"concentrated_above"`
	HighBasket        float64 `koanf:"high_basket" json:"high_basket"`
	LowBasket         float64 `koanf:"low_basket" json:"low_basket"`
	MaxItems          int     `koanf:"max_items" json:"max_items"`
}

// ActionRules drive GenerateActions.
type ActionRules struct {
	UrgentMargin      float64 `koanf:"urgent_margin" json:"urgent_margin"`
	LowRetention      float64 `koanf:"low_retention" json:"low_retention"`
	HighConcentration float64 `koanf:"high_concentration" json:"high_concentration"`
	LowBasket         float64 `koanf:"low_basket" json:"low_basket"`
}

// TierRules colour the KPI cards.
type TierRules struct {
	MarginGood        float64 `koanf:"margin_good" json:"margin_good"`
	MarginWarning     float64 `koanf:"margin_warning" json:"margin_warning"`
	RetentionGood     float64 `koanf:"retention_good" json:"retention_good"`
	RetentionWarning  float64 `koanf:"retention_warning" json:"retention_warning"`
	CategoryGood      float64 `koanf:"category_good" json:"category_good"`
	CategoryWarning   float64 `koanf:"category_warning" json:"category_warning"`
	UpsellBasketBelow float64 `koanf:"upsell_basket_below" json:"upsell_basket_below"`
	PremiumBasketOver float64 `koanf:"premium_basket_over" json:"premium_basket_over"`
}

// Ranking sizes the top-N sections.
type Ranking struct {
	TopClients  int    `koanf:"top_clients" json:"top_clients"`
	TopProducts int    `koanf:"top_products" json:"top_products"`
	ProductSort string `koanf:"product_sort" json:"product_sort"`
}

// Profile is a named set of thresholds and display conventions selected by a
// dashboard.
type Profile struct {
	Name     string       `koanf:"-" json:"name"`
	Style    format.Style `koanf:"style" json:"style"`
	// Period is the preset applied when the request names none.
	Period   Preset       `koanf:"period" json:"period"`
	Insights InsightRules `koanf:"insights" json:"insights"`
	Summary  SummaryRules `koanf:"summary" json:"summary"`
	Actions  ActionRules  `koanf:"actions" json:"actions"`
	Tiers    TierRules    `koanf:"tiers" json:"tiers"`
	Ranking  Ranking      `koanf:"ranking" json:"ranking"`
}

// Formatter returns the formatter for the profile style.
func (p Profile) Formatter() format.Formatter {
	return format.New(p.Style)
}

// Validate reports thresholds that cannot produce consistent output.
func (p Profile) Validate() error {
	if _, err := format.ParseStyle(string(p.Style)); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if _, ok := presetDays[p.Period]; !ok && p.Period != PresetCustom {
		return fmt.Errorf("profile %s: unknown period %q", p.Name, p.Period)
	}
	if p.Insights.LowMargin > p.Insights.HighMargin {
		return fmt.Errorf("profile %s: insights low_margin above high_margin", p.Name)
	}
	if p.Insights.LowBasket > p.Insights.HighBasket {
		return fmt.Errorf("profile %s: insights low_basket above high_basket", p.Name)
	}
	if p.Summary.MaxItems <= 0 {
		return fmt.Errorf("profile %s: summary max_items must be positive", p.Name)
	}
	if p.Ranking.TopClients <= 0 || p.Ranking.TopProducts <= 0 {
		return fmt.Errorf("profile %s: ranking sizes must be positive", p.Name)
	}
	switch p.Ranking.ProductSort {
	case "ca", "profit":
	default:
		return fmt.Errorf("profile %s: product_sort must be ca or profit", p.Name)
	}
	return nil
}

func baseProfile() Profile {
	return Profile{
		Insights: InsightRules{
			HighMargin:             20,
			LowMargin:              10,
			HighBasket:             500,
			LowBasket:              200,
			HighRevenuePerCustomer: 1000,
		},
		Summary: SummaryRules{
			Margin:            15,
			Retention:         50,
			DiversifiedBelow:  30,
			ConcentratedAbove: 40,
			HighBasket:        400,
			LowBasket:         300,
			MaxItems:          4,
		},
		Actions: ActionRules{
			UrgentMargin:      12,
			LowRetention:      40,
			HighConcentration: 50,
			LowBasket:         250,
		},
		Tiers: TierRules{
			MarginGood:        15,
			MarginWarning:     10,
			RetentionGood:     60,
			RetentionWarning:  40,
			CategoryGood:      10,
			CategoryWarning:   5,
			UpsellBasketBelow: 300,
			PremiumBasketOver: 600,
		},
	}
}

// StandardProfile backs the commercial dashboard.
func StandardProfile() Profile {
	p := baseProfile()
	p.Name = ProfileStandard
	p.Style = format.StyleCompact
	p.Period = PresetCustom
	p.Ranking = Ranking{TopClients: 5, TopProducts: 8, ProductSort: "ca"}
	return p
}

// ExecutiveProfile backs the executive dashboard.
func ExecutiveProfile() Profile {
	p := baseProfile()
	p.Name = ProfileExecutive
	p.Style = format.StyleFull
	p.Period = PresetYear
	p.Ranking = Ranking{TopClients: 5, TopProducts: 5, ProductSort: "profit"}
	return p
}

// Profiles is a registry of named profiles.
type Profiles map[string]Profile

// DefaultProfiles returns the built-in standard and executive profiles.
func DefaultProfiles() Profiles {
	return Profiles{
		ProfileStandard:  StandardProfile(),
		ProfileExecutive: ExecutiveProfile(),
	}
}

// Get resolves a profile by name.
func (p Profiles) Get(name string) (Profile, error) {
	profile, ok := p[name]
	if !ok {
		return Profile{}, fmt.Errorf("insights: unknown profile %q", name)
	}
	return profile, nil
}

// Names lists the registered profile names in sorted order.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
