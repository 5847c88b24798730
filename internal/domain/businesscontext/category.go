package businesscontext

// TemporalType describes how long a category stays relevant
type TemporalType string

const (
	TypePoint      TemporalType = "point"
	TypeBounded    TemporalType = "bounded"
	TypePersistent TemporalType = "persistent"
	TypeAlways     TemporalType = "always"
)

// Significance is the default comparison-significance rule of a category
type Significance int

const (
	SignificantNever Significance = iota
	SignificantAlways
	SignificantIfMajor
	SignificantIfMajorOrModerate
)

// CategoryConfig drives relevance and comparison behaviour
type CategoryConfig struct {
	Type                 TemporalType
	TailDays             int
	BufferDays           int
	Significance         Significance
	ComparisonWindowDays int
	Description          string
}

// CategoryOther is the fallback category
const CategoryOther = "other"

// Categories is read-only after init
var Categories = map[string]CategoryConfig{
	"organic_pr_win": {Type: TypePoint, TailDays: 30, Significance: SignificantAlways, ComparisonWindowDays: 365,
		Description: "Press coverage, viral moments, unexpected organic wins"},
	"influencer": {Type: TypePoint, TailDays: 21, Significance: SignificantIfMajor, ComparisonWindowDays: 365,
		Description: "Influencer partnerships, UGC campaigns, creator content"},
	"product_launch": {Type: TypePoint, TailDays: 90, Significance: SignificantAlways, ComparisonWindowDays: 365,
		Description: "New product releases, product updates, SKU additions"},
	"promotion": {Type: TypeBounded, BufferDays: 14, Significance: SignificantIfMajor, ComparisonWindowDays: 365,
		Description: "Sales, discounts, promotional campaigns"},
	"budget_change": {Type: TypePoint, TailDays: 7, Significance: SignificantNever,
		Description: "Spend adjustments - increased/decreased budget"},
	"competitor": {Type: TypePoint, TailDays: 30, Significance: SignificantIfMajor, ComparisonWindowDays: 365,
		Description: "Competitor activities, market movements"},
	"site_issue": {Type: TypeBounded, BufferDays: 7, Significance: SignificantIfMajor, ComparisonWindowDays: 365,
		Description: "Website problems, checkout issues, page errors"},
	"inventory_issue": {Type: TypeBounded, BufferDays: 7, Significance: SignificantIfMajorOrModerate, ComparisonWindowDays: 365,
		Description: "Stock constraints, out-of-stock events, supply chain problems"},
	"paid_media_strategy": {Type: TypePersistent,
		Description: "Paid media strategy changes (ABO testing, audience segments, bidding)"},
	"organic_social_strategy": {Type: TypePersistent,
		Description: "Organic social strategy (posting frequency, content pillars, platform focus)"},
	"business_strategy": {Type: TypePersistent,
		Description: "Business-level decisions (new markets, pricing, distribution)"},
	"market_trend": {Type: TypePersistent,
		Description: "Industry trends, market shifts"},
	"standing_condition": {Type: TypePersistent,
		Description: "Chronic/ongoing constraints (inventory limits, shipping delays)"},
	"brand_details": {Type: TypeAlways,
		Description: "Brand positioning, messaging, target audience, USPs"},
	CategoryOther: {Type: TypePoint, TailDays: 14,
		Description: "Other significant context"},
}

// CategoryFor returns the config of a category, falling back to "other"
func CategoryFor(category string) CategoryConfig {
	if cfg, ok := Categories[category]; ok {
		return cfg
	}
	return Categories[CategoryOther]
}

// DefaultComparisonSignificant applies the category rule to a magnitude
func DefaultComparisonSignificant(category string, magnitude Magnitude) bool {
	cfg, ok := Categories[category]
	if !ok {
		return false
	}
	switch cfg.Significance {
	case SignificantAlways:
		return true
	case SignificantIfMajor:
		return magnitude == MagnitudeMajor
	case SignificantIfMajorOrModerate:
		return magnitude == MagnitudeMajor || magnitude == MagnitudeModerate
	default:
		return false
	}
}

// IsAlwaysIncluded reports whether the category is attached to every report
func IsAlwaysIncluded(category string) bool {
	cfg, ok := Categories[category]
	return ok && cfg.Type == TypeAlways
}
