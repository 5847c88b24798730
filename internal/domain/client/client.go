// Package client holds the static registry of analytics clients: their
// warehouse dataset, brand guidelines and dashboard targets.
package client

// BrandColor is one entry of a client's brand palette
type BrandColor struct {
	Name        string `json:"name"`
	Hex         string `json:"hex"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
}

// Brand describes the client's positioning, used to build LLM prompts
type Brand struct {
	Colors             []BrandColor `json:"colors"`
	Industry           string       `json:"industry"`
	TargetAudience     []string     `json:"targetAudience"`
	ProductCategories  []string     `json:"productCategories"`
	BrandPersonality   string       `json:"brandPersonality"`
	CompetitiveContext string       `json:"competitiveContext"`
}

// Analysis carries client-specific prompt additions
type Analysis struct {
	FocusAreas            []string `json:"focusAreas"`
	CustomPromptAdditions string   `json:"customPromptAdditions,omitempty"`
}

// Dashboard carries revenue/ROAS targets and currency
type Dashboard struct {
	MonthlyRevenueTargets [12]float64 `json:"monthlyRevenueTargets"`
	MonthlyROASTarget     float64     `json:"monthlyRoasTarget"`
	Currency              string      `json:"currency"`
	CurrencySymbol        string      `json:"currencySymbol"`
}

// Config is the immutable description of one client
type Config struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dataset   string    `json:"dataset"`
	HasEmail  bool      `json:"hasEmail"`
	Brand     Brand     `json:"brand"`
	Analysis  Analysis  `json:"analysis"`
	Dashboard Dashboard `json:"dashboard"`
}

// RevenueTarget returns the configured target for a zero-based month index.
// Zero means no target is set.
func (c Config) RevenueTarget(month int) float64 {
	if month < 0 || month > 11 {
		return 0
	}
	return c.Dashboard.MonthlyRevenueTargets[month]
}

// AnnualRevenueTarget sums the monthly targets
func (c Config) AnnualRevenueTarget() float64 {
	var total float64
	for _, v := range c.Dashboard.MonthlyRevenueTargets {
		total += v
	}
	return total
}

// Symbol returns the currency symbol, defaulting to "$"
func (c Config) Symbol() string {
	if c.Dashboard.CurrencySymbol == "" {
		return "$"
	}
	return c.Dashboard.CurrencySymbol
}

// clone returns a deep copy so callers cannot mutate registry state
func (c Config) clone() Config {
	out := c
	out.Brand.Colors = append([]BrandColor(nil), c.Brand.Colors...)
	out.Brand.TargetAudience = append([]string(nil), c.Brand.TargetAudience...)
	out.Brand.ProductCategories = append([]string(nil), c.Brand.ProductCategories...)
	out.Analysis.FocusAreas = append([]string(nil), c.Analysis.FocusAreas...)
	return out
}

func flatTargets(v float64) [12]float64 {
	var t [12]float64
	for i := range t {
		t[i] = v
	}
	return t
}

func builtins() []Config {
	return []Config{
		{
			ID:       "jumbomax",
			Name:     "JumboMax Golf",
			Dataset:  "jumbomax_analytics",
			HasEmail: true,
			Brand: Brand{
				Colors: []BrandColor{
					{Name: "JumboMax Blue", Hex: "#1B4F72", Description: "Primary brand blue - professional and trustworthy", Usage: "primary_brand"},
					{Name: "JumboMax Orange", Hex: "#E67E22", Description: "Secondary accent color - energy and performance", Usage: "accent"},
					{Name: "White", Hex: "#FFFFFF", Description: "Clean background and text contrast", Usage: "background"},
					{Name: "Dark Gray", Hex: "#2C3E50", Description: "Primary text and strong contrast", Usage: "text"},
					{Name: "Light Gray", Hex: "#95A5A6", Description: "Secondary text and subtle elements", Usage: "secondary_text"},
				},
				Industry:           "golf_equipment",
				TargetAudience:     []string{"golf_enthusiasts", "performance_golfers", "recreational_players"},
				ProductCategories:  []string{"golf_grips", "golf_accessories", "performance_equipment"},
				BrandPersonality:   "premium_performance_focused_innovative",
				CompetitiveContext: "competing_against_traditional_golf_grip_manufacturers",
			},
			Analysis: Analysis{
				FocusAreas:            []string{"performance", "brand_compliance", "golf_appeal", "target_audience_alignment"},
				CustomPromptAdditions: "Focus specifically on golf equipment marketing appeal and how well the creative resonates with golfers seeking performance improvements.",
			},
			Dashboard: Dashboard{
				MonthlyRevenueTargets: flatTargets(300000),
				MonthlyROASTarget:     6.5,
				Currency:              "USD",
				CurrencySymbol:        "$",
			},
		},
		{
			ID:       "puttout",
			Name:     "PuttOut",
			Dataset:  "puttout_analytics",
			HasEmail: true,
			Brand: Brand{
				Colors: []BrandColor{
					{Name: "PuttOut Red", Hex: "#DF2A3F", Description: "Primary brand red - bold and energetic", Usage: "primary_brand"},
					{Name: "Black", Hex: "#111111", Description: "Secondary brand color - premium and modern", Usage: "accent"},
					{Name: "White", Hex: "#FFFFFF", Description: "Clean background and text contrast", Usage: "background"},
					{Name: "Dark Gray", Hex: "#2C3E50", Description: "Primary text and strong contrast", Usage: "text"},
					{Name: "Light Gray", Hex: "#95A5A6", Description: "Secondary text and subtle elements", Usage: "secondary_text"},
				},
				Industry:           "golf_training_equipment",
				TargetAudience:     []string{"golf_enthusiasts", "practice_focused_golfers", "skill_improvement_seekers"},
				ProductCategories:  []string{"putting_trainers", "golf_training_aids", "golf_accessories"},
				BrandPersonality:   "innovative_fun_performance_focused",
				CompetitiveContext: "leading_golf_training_equipment_brand",
			},
			Analysis: Analysis{
				FocusAreas:            []string{"performance", "brand_compliance", "golf_appeal", "training_focus"},
				CustomPromptAdditions: "Focus on golf training and skill improvement messaging. Emphasize how the creative appeals to golfers looking to improve their putting game.",
			},
			Dashboard: Dashboard{
				MonthlyRevenueTargets: flatTargets(250000),
				MonthlyROASTarget:     5.0,
				Currency:              "GBP",
				CurrencySymbol:        "£",
			},
		},
		{
			ID:       "hb",
			Name:     "H&B",
			Dataset:  "hb_analytics",
			HasEmail: false,
			Brand: Brand{
				Colors: []BrandColor{
					{Name: "Dark Gray", Hex: "#2C3E50", Description: "Primary text and strong contrast", Usage: "text"},
					{Name: "White", Hex: "#FFFFFF", Description: "Clean background and text contrast", Usage: "background"},
				},
				Industry:          "consumer_goods",
				TargetAudience:    []string{"online_shoppers"},
				ProductCategories: []string{"core_range"},
			},
			Analysis: Analysis{
				FocusAreas: []string{"performance"},
			},
			Dashboard: Dashboard{
				MonthlyROASTarget: 6.5,
				Currency:          "USD",
				CurrencySymbol:    "$",
			},
		},
	}
}
