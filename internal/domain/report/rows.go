// Package report defines the typed row schemas returned by warehouse queries
// and the per-report-type data sets assembled from them.
package report

import (
	"encoding/json"
)

// RevenueRow is one day of store revenue
type RevenueRow struct {
	Date    string   `json:"date" gorm:"column:date"`
	Revenue *float64 `json:"revenue" gorm:"column:revenue"`
	Orders  *float64 `json:"orders" gorm:"column:orders"`
}

// PlatformPerformanceRow aggregates spend/revenue per ad platform
type PlatformPerformanceRow struct {
	Platform string   `json:"platform" gorm:"column:platform"`
	Spend    *float64 `json:"spend" gorm:"column:spend"`
	Revenue  *float64 `json:"revenue" gorm:"column:revenue"`
	ROAS     *float64 `json:"roas" gorm:"column:roas"`
}

// TopProductRow is a product ranked by revenue
type TopProductRow struct {
	ProductName string   `json:"product_name" gorm:"column:product_name"`
	UnitsSold   *float64 `json:"units_sold" gorm:"column:units_sold"`
	Revenue     *float64 `json:"revenue" gorm:"column:revenue"`
}

// MonthlyExecutiveRow holds hero metrics with MoM/YoY deltas
type MonthlyExecutiveRow struct {
	ReportMonth                    string   `json:"report_month" gorm:"column:report_month"`
	RevenueTotal                   *float64 `json:"revenue_total" gorm:"column:revenue_total"`
	RevenueMoMPct                  *float64 `json:"revenue_mom_pct" gorm:"column:revenue_mom_pct"`
	RevenueYoYPct                  *float64 `json:"revenue_yoy_pct" gorm:"column:revenue_yoy_pct"`
	BlendedROAS                    *float64 `json:"blended_roas" gorm:"column:blended_roas"`
	BlendedROASMoMPct              *float64 `json:"blended_roas_mom_pct" gorm:"column:blended_roas_mom_pct"`
	BlendedROASYoYPct              *float64 `json:"blended_roas_yoy_pct" gorm:"column:blended_roas_yoy_pct"`
	PaidMediaSpend                 *float64 `json:"paid_media_spend" gorm:"column:paid_media_spend"`
	PaidMediaSpendMoMPct           *float64 `json:"paid_media_spend_mom_pct" gorm:"column:paid_media_spend_mom_pct"`
	PaidMediaSpendYoYPct           *float64 `json:"paid_media_spend_yoy_pct" gorm:"column:paid_media_spend_yoy_pct"`
	MetaSpend                      *float64 `json:"meta_spend" gorm:"column:meta_spend"`
	MetaSpendMoMPct                *float64 `json:"meta_spend_mom_pct" gorm:"column:meta_spend_mom_pct"`
	MetaSpendYoYPct                *float64 `json:"meta_spend_yoy_pct" gorm:"column:meta_spend_yoy_pct"`
	MetaRevenue                    *float64 `json:"meta_revenue" gorm:"column:meta_revenue"`
	MetaRevenueMoMPct              *float64 `json:"meta_revenue_mom_pct" gorm:"column:meta_revenue_mom_pct"`
	MetaRevenueYoYPct              *float64 `json:"meta_revenue_yoy_pct" gorm:"column:meta_revenue_yoy_pct"`
	MetaROAS                       *float64 `json:"meta_roas" gorm:"column:meta_roas"`
	MetaROASMoMPct                 *float64 `json:"meta_roas_mom_pct" gorm:"column:meta_roas_mom_pct"`
	MetaROASYoYPct                 *float64 `json:"meta_roas_yoy_pct" gorm:"column:meta_roas_yoy_pct"`
	GoogleSpend                    *float64 `json:"google_spend" gorm:"column:google_spend"`
	GoogleSpendMoMPct              *float64 `json:"google_spend_mom_pct" gorm:"column:google_spend_mom_pct"`
	GoogleSpendYoYPct              *float64 `json:"google_spend_yoy_pct" gorm:"column:google_spend_yoy_pct"`
	GoogleRevenue                  *float64 `json:"google_revenue" gorm:"column:google_revenue"`
	GoogleRevenueMoMPct            *float64 `json:"google_revenue_mom_pct" gorm:"column:google_revenue_mom_pct"`
	GoogleRevenueYoYPct            *float64 `json:"google_revenue_yoy_pct" gorm:"column:google_revenue_yoy_pct"`
	GoogleROAS                     *float64 `json:"google_roas" gorm:"column:google_roas"`
	GoogleROASMoMPct               *float64 `json:"google_roas_mom_pct" gorm:"column:google_roas_mom_pct"`
	GoogleROASYoYPct               *float64 `json:"google_roas_yoy_pct" gorm:"column:google_roas_yoy_pct"`
	TopEmergingProductTitle        *string  `json:"top_emerging_product_title" gorm:"column:top_emerging_product_title"`
	TopEmergingProductRevenue      *float64 `json:"top_emerging_product_revenue" gorm:"column:top_emerging_product_revenue"`
	TopEmergingProductMoMGrowthPct *float64 `json:"top_emerging_product_mom_growth_pct" gorm:"column:top_emerging_product_mom_growth_pct"`
	TopEmergingProductCategory     *string  `json:"top_emerging_product_category" gorm:"column:top_emerging_product_category"`
}

// ExecutiveSummaryRow is the latest row of ai_executive_summary.
// Report fetchers select a subset; the dashboard selects everything.
type ExecutiveSummaryRow struct {
	ReportDate string `json:"report_date,omitempty" gorm:"column:report_date"`

	RevenueMTD             *float64 `json:"revenue_mtd" gorm:"column:revenue_mtd"`
	Revenue7d              *float64 `json:"revenue_7d" gorm:"column:revenue_7d"`
	Revenue30d             *float64 `json:"revenue_30d,omitempty" gorm:"column:revenue_30d"`
	RevenueMTDYoYGrowthPct *float64 `json:"revenue_mtd_yoy_growth_pct" gorm:"column:revenue_mtd_yoy_growth_pct"`
	Revenue7dYoYGrowthPct  *float64 `json:"revenue_7d_yoy_growth_pct,omitempty" gorm:"column:revenue_7d_yoy_growth_pct"`
	Revenue30dYoYGrowthPct *float64 `json:"revenue_30d_yoy_growth_pct,omitempty" gorm:"column:revenue_30d_yoy_growth_pct"`
	OrdersMTD              *float64 `json:"orders_mtd" gorm:"column:orders_mtd"`
	Orders7d               *float64 `json:"orders_7d" gorm:"column:orders_7d"`
	OrdersMTDYoYGrowthPct  *float64 `json:"orders_mtd_yoy_growth_pct" gorm:"column:orders_mtd_yoy_growth_pct"`
	AOVMTD                 *float64 `json:"aov_mtd" gorm:"column:aov_mtd"`
	AOV7d                  *float64 `json:"aov_7d" gorm:"column:aov_7d"`

	BlendedROASMTD             *float64 `json:"blended_roas_mtd,omitempty" gorm:"column:blended_roas_mtd"`
	BlendedROAS7d              *float64 `json:"blended_roas_7d,omitempty" gorm:"column:blended_roas_7d"`
	BlendedROAS30d             *float64 `json:"blended_roas_30d,omitempty" gorm:"column:blended_roas_30d"`
	BlendedROASMTDYoYGrowthPct *float64 `json:"blended_roas_mtd_yoy_growth_pct,omitempty" gorm:"column:blended_roas_mtd_yoy_growth_pct"`
	BlendedROAS7dYoYGrowthPct  *float64 `json:"blended_roas_7d_yoy_growth_pct,omitempty" gorm:"column:blended_roas_7d_yoy_growth_pct"`
	BlendedROAS30dYoYGrowthPct *float64 `json:"blended_roas_30d_yoy_growth_pct,omitempty" gorm:"column:blended_roas_30d_yoy_growth_pct"`

	BlendedSpendMTD             *float64 `json:"blended_spend_mtd,omitempty" gorm:"column:blended_spend_mtd"`
	BlendedSpend7d              *float64 `json:"blended_spend_7d,omitempty" gorm:"column:blended_spend_7d"`
	BlendedSpend30d             *float64 `json:"blended_spend_30d,omitempty" gorm:"column:blended_spend_30d"`
	BlendedSpendMTDYoYGrowthPct *float64 `json:"blended_spend_mtd_yoy_growth_pct,omitempty" gorm:"column:blended_spend_mtd_yoy_growth_pct"`
	BlendedSpend7dYoYGrowthPct  *float64 `json:"blended_spend_7d_yoy_growth_pct,omitempty" gorm:"column:blended_spend_7d_yoy_growth_pct"`
	BlendedSpend30dYoYGrowthPct *float64 `json:"blended_spend_30d_yoy_growth_pct,omitempty" gorm:"column:blended_spend_30d_yoy_growth_pct"`

	FacebookSpendMTD               *float64 `json:"facebook_spend_mtd" gorm:"column:facebook_spend_mtd"`
	FacebookSpend7d                *float64 `json:"facebook_spend_7d" gorm:"column:facebook_spend_7d"`
	FacebookSpend30d               *float64 `json:"facebook_spend_30d,omitempty" gorm:"column:facebook_spend_30d"`
	FacebookSpendMTDYoYGrowthPct   *float64 `json:"facebook_spend_mtd_yoy_growth_pct,omitempty" gorm:"column:facebook_spend_mtd_yoy_growth_pct"`
	FacebookSpend7dYoYGrowthPct    *float64 `json:"facebook_spend_7d_yoy_growth_pct,omitempty" gorm:"column:facebook_spend_7d_yoy_growth_pct"`
	FacebookSpend30dYoYGrowthPct   *float64 `json:"facebook_spend_30d_yoy_growth_pct,omitempty" gorm:"column:facebook_spend_30d_yoy_growth_pct"`
	FacebookRevenueMTD             *float64 `json:"facebook_revenue_mtd" gorm:"column:facebook_revenue_mtd"`
	FacebookRevenue7d              *float64 `json:"facebook_revenue_7d" gorm:"column:facebook_revenue_7d"`
	FacebookRevenue30d             *float64 `json:"facebook_revenue_30d,omitempty" gorm:"column:facebook_revenue_30d"`
	FacebookRevenueMTDYoYGrowthPct *float64 `json:"facebook_revenue_mtd_yoy_growth_pct,omitempty" gorm:"column:facebook_revenue_mtd_yoy_growth_pct"`
	FacebookRevenue7dYoYGrowthPct  *float64 `json:"facebook_revenue_7d_yoy_growth_pct,omitempty" gorm:"column:facebook_revenue_7d_yoy_growth_pct"`
	FacebookRevenue30dYoYGrowthPct *float64 `json:"facebook_revenue_30d_yoy_growth_pct,omitempty" gorm:"column:facebook_revenue_30d_yoy_growth_pct"`
	FacebookROASMTD                *float64 `json:"facebook_roas_mtd" gorm:"column:facebook_roas_mtd"`
	FacebookROAS7d                 *float64 `json:"facebook_roas_7d" gorm:"column:facebook_roas_7d"`
	FacebookROAS30d                *float64 `json:"facebook_roas_30d,omitempty" gorm:"column:facebook_roas_30d"`
	FacebookROASMTDYoYGrowthPct    *float64 `json:"facebook_roas_mtd_yoy_growth_pct,omitempty" gorm:"column:facebook_roas_mtd_yoy_growth_pct"`
	FacebookROAS7dYoYGrowthPct     *float64 `json:"facebook_roas_7d_yoy_growth_pct,omitempty" gorm:"column:facebook_roas_7d_yoy_growth_pct"`
	FacebookROAS30dYoYGrowthPct    *float64 `json:"facebook_roas_30d_yoy_growth_pct,omitempty" gorm:"column:facebook_roas_30d_yoy_growth_pct"`

	GoogleSpendMTD               *float64 `json:"google_spend_mtd" gorm:"column:google_spend_mtd"`
	GoogleSpend7d                *float64 `json:"google_spend_7d,omitempty" gorm:"column:google_spend_7d"`
	GoogleSpend30d               *float64 `json:"google_spend_30d,omitempty" gorm:"column:google_spend_30d"`
	GoogleSpendMTDYoYGrowthPct   *float64 `json:"google_spend_mtd_yoy_growth_pct,omitempty" gorm:"column:google_spend_mtd_yoy_growth_pct"`
	GoogleSpend7dYoYGrowthPct    *float64 `json:"google_spend_7d_yoy_growth_pct,omitempty" gorm:"column:google_spend_7d_yoy_growth_pct"`
	GoogleSpend30dYoYGrowthPct   *float64 `json:"google_spend_30d_yoy_growth_pct,omitempty" gorm:"column:google_spend_30d_yoy_growth_pct"`
	GoogleRevenueMTD             *float64 `json:"google_revenue_mtd" gorm:"column:google_revenue_mtd"`
	GoogleRevenue7d              *float64 `json:"google_revenue_7d,omitempty" gorm:"column:google_revenue_7d"`
	GoogleRevenue30d             *float64 `json:"google_revenue_30d,omitempty" gorm:"column:google_revenue_30d"`
	GoogleRevenueMTDYoYGrowthPct *float64 `json:"google_revenue_mtd_yoy_growth_pct,omitempty" gorm:"column:google_revenue_mtd_yoy_growth_pct"`
	GoogleRevenue7dYoYGrowthPct  *float64 `json:"google_revenue_7d_yoy_growth_pct,omitempty" gorm:"column:google_revenue_7d_yoy_growth_pct"`
	GoogleRevenue30dYoYGrowthPct *float64 `json:"google_revenue_30d_yoy_growth_pct,omitempty" gorm:"column:google_revenue_30d_yoy_growth_pct"`
	GoogleROASMTD                *float64 `json:"google_roas_mtd" gorm:"column:google_roas_mtd"`
	GoogleROAS7d                 *float64 `json:"google_roas_7d,omitempty" gorm:"column:google_roas_7d"`
	GoogleROAS30d                *float64 `json:"google_roas_30d,omitempty" gorm:"column:google_roas_30d"`
	GoogleROASMTDYoYGrowthPct    *float64 `json:"google_roas_mtd_yoy_growth_pct,omitempty" gorm:"column:google_roas_mtd_yoy_growth_pct"`
	GoogleROAS7dYoYGrowthPct     *float64 `json:"google_roas_7d_yoy_growth_pct,omitempty" gorm:"column:google_roas_7d_yoy_growth_pct"`
	GoogleROAS30dYoYGrowthPct    *float64 `json:"google_roas_30d_yoy_growth_pct,omitempty" gorm:"column:google_roas_30d_yoy_growth_pct"`

	EmailRevenueMTD             *float64 `json:"klaviyo_total_revenue_mtd" gorm:"column:klaviyo_total_revenue_mtd"`
	EmailRevenue7d              *float64 `json:"klaviyo_total_revenue_7d,omitempty" gorm:"column:klaviyo_total_revenue_7d"`
	EmailRevenue30d             *float64 `json:"klaviyo_total_revenue_30d,omitempty" gorm:"column:klaviyo_total_revenue_30d"`
	EmailRevenueMTDYoYGrowthPct *float64 `json:"klaviyo_total_revenue_mtd_yoy_growth_pct" gorm:"column:klaviyo_total_revenue_mtd_yoy_growth_pct"`
	EmailRevenue7dYoYGrowthPct  *float64 `json:"klaviyo_total_revenue_7d_yoy_growth_pct,omitempty" gorm:"column:klaviyo_total_revenue_7d_yoy_growth_pct"`
	EmailRevenue30dYoYGrowthPct *float64 `json:"klaviyo_total_revenue_30d_yoy_growth_pct,omitempty" gorm:"column:klaviyo_total_revenue_30d_yoy_growth_pct"`
	EmailRevenuePerSendMTD      *float64 `json:"klaviyo_revenue_per_send_mtd,omitempty" gorm:"column:klaviyo_revenue_per_send_mtd"`
}

// MonthlyBusinessSummaryRow is one completed month of store totals
type MonthlyBusinessSummaryRow struct {
	Month                       string   `json:"month" gorm:"column:month"`
	MonthlyGrossSales           *float64 `json:"monthly_gross_sales" gorm:"column:monthly_gross_sales"`
	MonthlyNetSalesAfterRefunds *float64 `json:"monthly_net_sales_after_refunds" gorm:"column:monthly_net_sales_after_refunds"`
	MonthlyOrders               *float64 `json:"monthly_orders" gorm:"column:monthly_orders"`
	AvgMonthlyAOV               *float64 `json:"avg_monthly_aov" gorm:"column:avg_monthly_aov"`
	TotalSalesROAS              *float64 `json:"total_sales_roas" gorm:"column:total_sales_roas"`
	AttributedBlendedROAS       *float64 `json:"attributed_blended_roas" gorm:"column:attributed_blended_roas"`
	MonthlyAdSpend              *float64 `json:"monthly_ad_spend" gorm:"column:monthly_ad_spend"`
	MonthlyFacebookSpend        *float64 `json:"monthly_facebook_spend" gorm:"column:monthly_facebook_spend"`
	MonthlyGoogleSpend          *float64 `json:"monthly_google_spend" gorm:"column:monthly_google_spend"`
}

// AOV returns avg_monthly_aov, or gross/orders when the column is missing.
// nil when neither can be derived.
func (r MonthlyBusinessSummaryRow) AOV() *float64 {
	if r.AvgMonthlyAOV != nil {
		return r.AvgMonthlyAOV
	}
	if r.MonthlyGrossSales == nil || r.MonthlyOrders == nil {
		return nil
	}
	return Ratio(*r.MonthlyGrossSales, *r.MonthlyOrders)
}

// CampaignAnalysisRow is one campaign of ai_intelligent_campaign_analysis
type CampaignAnalysisRow struct {
	CampaignName      string   `json:"campaign_name" gorm:"column:campaign_name"`
	Spend30d          *float64 `json:"spend_30d" gorm:"column:spend_30d"`
	Revenue30d        *float64 `json:"revenue_30d" gorm:"column:revenue_30d"`
	ROAS30d           *float64 `json:"roas_30d" gorm:"column:roas_30d"`
	CTR30d            *float64 `json:"ctr_30d" gorm:"column:ctr_30d"`
	Purchases30d      *float64 `json:"purchases_30d" gorm:"column:purchases_30d"`
	RecommendedAction *string  `json:"recommended_action" gorm:"column:recommended_action"`
	RiskFlags         *string  `json:"risk_flags" gorm:"column:risk_flags"`
}

// ProductIntelligenceRow is one product of product_intelligence
type ProductIntelligenceRow struct {
	ProductTitle           string   `json:"product_title" gorm:"column:product_title"`
	Revenue30d             *float64 `json:"revenue_30d" gorm:"column:revenue_30d"`
	UnitsSold30d           *float64 `json:"units_sold_30d" gorm:"column:units_sold_30d"`
	TotalInventoryQuantity *float64 `json:"total_inventory_quantity" gorm:"column:total_inventory_quantity"`
	AvgVariantPrice        *float64 `json:"avg_variant_price" gorm:"column:avg_variant_price"`
	PerformanceCategory30d *string  `json:"performance_category_30d" gorm:"column:performance_category_30d"`
}

// BayesianForecastRow is the latest annual probability forecast
type BayesianForecastRow struct {
	ReportDate                       string   `json:"report_date" gorm:"column:report_date"`
	ForecastYear                     *int     `json:"forecast_year" gorm:"column:forecast_year"`
	AnnualRevenueTarget              *float64 `json:"annual_revenue_target" gorm:"column:annual_revenue_target"`
	AnnualROASTarget                 *float64 `json:"annual_roas_target" gorm:"column:annual_roas_target"`
	YTDRevenue                       *float64 `json:"ytd_revenue" gorm:"column:ytd_revenue"`
	YTDAttainmentPct                 *float64 `json:"ytd_attainment_pct" gorm:"column:ytd_attainment_pct"`
	DaysRemaining                    *int     `json:"days_remaining" gorm:"column:days_remaining"`
	RevenueGap                       *float64 `json:"revenue_gap" gorm:"column:revenue_gap"`
	ProphetAnnualRevenueBase         *float64 `json:"prophet_annual_revenue_base" gorm:"column:prophet_annual_revenue_base"`
	ProphetAnnualRevenueConservative *float64 `json:"prophet_annual_revenue_conservative" gorm:"column:prophet_annual_revenue_conservative"`
	ProphetAnnualRevenueOptimistic   *float64 `json:"prophet_annual_revenue_optimistic" gorm:"column:prophet_annual_revenue_optimistic"`
	ProbabilityHitRevenueTarget      *float64 `json:"probability_hit_revenue_target" gorm:"column:probability_hit_revenue_target"`
	ProbabilityHitROASTarget         *float64 `json:"probability_hit_roas_target" gorm:"column:probability_hit_roas_target"`
	ProbabilityHitBothTargets        *float64 `json:"probability_hit_both_targets" gorm:"column:probability_hit_both_targets"`
	P50AnnualRevenue                 *float64 `json:"p50_annual_revenue" gorm:"column:p50_annual_revenue"`
	RevenueRiskLevel                 *string  `json:"revenue_risk_level" gorm:"column:revenue_risk_level"`
	PerformanceVsPacePct             *float64 `json:"performance_vs_pace_pct" gorm:"column:performance_vs_pace_pct"`
}

// ClientConfigRow is the admin_configs.client_configurations row of a client
type ClientConfigRow struct {
	ID             string `json:"id" gorm:"column:id"`
	Name           string `json:"name" gorm:"column:name"`
	AnalysisConfig string `json:"analysis_config" gorm:"column:analysis_config"`
}

// AnalysisConfig is the parsed analysis_config JSON
type AnalysisConfig struct {
	MonthlyRevenueTargets []float64 `json:"-"`
	AnnualRevenueTarget   *float64  `json:"annualRevenueTarget,omitempty"`
	MonthlyROASTarget     *float64  `json:"monthlyRoasTarget,omitempty"`
}

// Parse decodes analysis_config. monthlyRevenueTargets may be a single
// number or a 12-element array.
func (r ClientConfigRow) Parse() (AnalysisConfig, error) {
	var raw struct {
		MonthlyRevenueTargets json.RawMessage `json:"monthlyRevenueTargets"`
		AnnualRevenueTarget   *float64        `json:"annualRevenueTarget"`
		MonthlyROASTarget     *float64        `json:"monthlyRoasTarget"`
	}
	var cfg AnalysisConfig
	if r.AnalysisConfig == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(r.AnalysisConfig), &raw); err != nil {
		return cfg, err
	}
	cfg.AnnualRevenueTarget = raw.AnnualRevenueTarget
	cfg.MonthlyROASTarget = raw.MonthlyROASTarget

	if len(raw.MonthlyRevenueTargets) > 0 && string(raw.MonthlyRevenueTargets) != "null" {
		var list []float64
		if err := json.Unmarshal(raw.MonthlyRevenueTargets, &list); err == nil {
			cfg.MonthlyRevenueTargets = list
		} else {
			var single float64
			if err := json.Unmarshal(raw.MonthlyRevenueTargets, &single); err != nil {
				return cfg, err
			}
			cfg.MonthlyRevenueTargets = []float64{single}
		}
	}
	return cfg, nil
}

// PaidMediaPerformanceRow aggregates one platform over the report month
type PaidMediaPerformanceRow struct {
	Platform          string   `json:"platform" gorm:"column:platform"`
	TotalSpend        *float64 `json:"total_spend" gorm:"column:total_spend"`
	TotalRevenue      *float64 `json:"total_revenue" gorm:"column:total_revenue"`
	TotalImpressions  *float64 `json:"total_impressions" gorm:"column:total_impressions"`
	TotalClicks       *float64 `json:"total_clicks" gorm:"column:total_clicks"`
	TotalReach        *float64 `json:"total_reach" gorm:"column:total_reach"`
	TotalPurchases    *float64 `json:"total_purchases" gorm:"column:total_purchases"`
	AvgFrequency      *float64 `json:"avg_frequency" gorm:"column:avg_frequency"`
	AvgConversionRate *float64 `json:"avg_conversion_rate" gorm:"column:avg_conversion_rate"`
	CalculatedROAS    *float64 `json:"calculated_roas" gorm:"column:calculated_roas"`
	CalculatedCPM     *float64 `json:"calculated_cpm" gorm:"column:calculated_cpm"`
	CalculatedCPC     *float64 `json:"calculated_cpc" gorm:"column:calculated_cpc"`
	CalculatedCTR     *float64 `json:"calculated_ctr" gorm:"column:calculated_ctr"`
}

// FunnelAdRow is one ranked ad creative with its funnel stage
type FunnelAdRow struct {
	AdName           string   `json:"ad_name" gorm:"column:ad_name"`
	RecommendedStage string   `json:"recommended_stage" gorm:"column:recommended_stage"`
	AllStarRank      *int     `json:"all_star_rank" gorm:"column:all_star_rank"`
	ROASRank         *int     `json:"roas_rank" gorm:"column:roas_rank"`
	ClicksRank       *int     `json:"clicks_rank" gorm:"column:clicks_rank"`
	EfficiencyRank   *int     `json:"efficiency_rank" gorm:"column:efficiency_rank"`
	CTRRank          *int     `json:"ctr_rank" gorm:"column:ctr_rank"`
	ConversionRank   *int     `json:"conversion_rank" gorm:"column:conversion_rank"`
	ROAS             *float64 `json:"roas" gorm:"column:roas"`
	CTRPercent       *float64 `json:"ctr_percent" gorm:"column:ctr_percent"`
	CPC              *float64 `json:"cpc" gorm:"column:cpc"`
	ImageURL         *string  `json:"image_url" gorm:"column:image_url"`
	VideoID          *string  `json:"video_id" gorm:"column:video_id"`
	ThumbnailURL     *string  `json:"thumbnail_url" gorm:"column:thumbnail_url"`
	CreativeType     *string  `json:"creative_type" gorm:"column:creative_type"`
}

// CampaignPerformanceRow is one campaign of the platform deep dive
type CampaignPerformanceRow struct {
	CampaignName string   `json:"campaign_name" gorm:"column:campaign_name"`
	Spend        *float64 `json:"spend" gorm:"column:spend"`
	Revenue      *float64 `json:"revenue" gorm:"column:revenue"`
	Impressions  *float64 `json:"impressions" gorm:"column:impressions"`
	Clicks       *float64 `json:"clicks" gorm:"column:clicks"`
	Conversions  *float64 `json:"conversions" gorm:"column:conversions"`
	ROAS         *float64 `json:"roas" gorm:"column:roas"`
	CTR          *float64 `json:"ctr" gorm:"column:ctr"`
	CVR          *float64 `json:"cvr" gorm:"column:cvr"`
}

// DailyTrendRow is one day of platform totals
type DailyTrendRow struct {
	Date        string   `json:"date" gorm:"column:date"`
	Spend       *float64 `json:"spend" gorm:"column:spend"`
	Revenue     *float64 `json:"revenue" gorm:"column:revenue"`
	Clicks      *float64 `json:"clicks" gorm:"column:clicks"`
	Conversions *float64 `json:"conversions" gorm:"column:conversions"`
}

// EmailCampaignRow is one email send
type EmailCampaignRow struct {
	CampaignName string   `json:"campaign_name" gorm:"column:campaign_name"`
	SentCount    *float64 `json:"sent_count" gorm:"column:sent_count"`
	OpenCount    *float64 `json:"open_count" gorm:"column:open_count"`
	ClickCount   *float64 `json:"click_count" gorm:"column:click_count"`
	Revenue      *float64 `json:"revenue" gorm:"column:revenue"`
	OpenRate     *float64 `json:"open_rate" gorm:"column:open_rate"`
	ClickRate    *float64 `json:"click_rate" gorm:"column:click_rate"`
}

// RetentionRow is one customer cohort
type RetentionRow struct {
	CohortMonth     string   `json:"cohort_month" gorm:"column:cohort_month"`
	Customers       *float64 `json:"customers" gorm:"column:customers"`
	RepeatCustomers *float64 `json:"repeat_customers" gorm:"column:repeat_customers"`
	RetentionRate   *float64 `json:"retention_rate" gorm:"column:retention_rate"`
}
