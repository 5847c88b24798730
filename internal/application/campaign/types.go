package campaign

// Analysis is one campaign row of ai_intelligent_campaign_analysis
type Analysis struct {
	CampaignName           string   `json:"campaignName" gorm:"column:campaign_name"`
	HealthScore            *float64 `json:"healthScore" gorm:"column:health_score"`
	PerformanceTrend       *string  `json:"performanceTrend" gorm:"column:performance_trend"`
	StatisticalConfidence  *string  `json:"statisticalConfidence" gorm:"column:statistical_confidence"`
	Spend30d               *float64 `json:"spend30d" gorm:"column:spend_30d"`
	Revenue30d             *float64 `json:"revenue30d" gorm:"column:revenue_30d"`
	ROAS30d                *float64 `json:"roas30d" gorm:"column:roas_30d"`
	ROASChangeVsPrev       *float64 `json:"roasChangeVsPrev" gorm:"column:roas_change_vs_prev"`
	SpendChangePct         *float64 `json:"spendChangePct" gorm:"column:spend_change_pct"`
	RevenueChangePct       *float64 `json:"revenueChangePct" gorm:"column:revenue_change_pct"`
	ShareOfSpend           *float64 `json:"shareOfSpend" gorm:"column:share_of_spend"`
	ShareOfRevenue         *float64 `json:"shareOfRevenue" gorm:"column:share_of_revenue"`
	ROASVsAccountAvg       *float64 `json:"roasVsAccountAvg" gorm:"column:roas_vs_account_avg"`
	ROASIndexVsAccount     *float64 `json:"roasIndexVsAccount" gorm:"column:roas_index_vs_account"`
	EfficiencyIndex        *float64 `json:"efficiencyIndex" gorm:"column:efficiency_index"`
	ScalingCategory        *string  `json:"scalingCategory" gorm:"column:scaling_category"`
	ScalingEfficiency      *float64 `json:"scalingEfficiency" gorm:"column:scaling_efficiency"`
	HighSpendROAS          *float64 `json:"highSpendRoas" gorm:"column:high_spend_roas"`
	LowSpendROAS           *float64 `json:"lowSpendRoas" gorm:"column:low_spend_roas"`
	ROASVolatility         *float64 `json:"roasVolatility" gorm:"column:roas_volatility"`
	CoefficientOfVariation *float64 `json:"coefficientOfVariation" gorm:"column:coefficient_of_variation"`
	BestDayROAS            *float64 `json:"bestDayRoas" gorm:"column:best_day_roas"`
	WorstDayROAS           *float64 `json:"worstDayRoas" gorm:"column:worst_day_roas"`
	FatigueRisk            *string  `json:"fatigueRisk" gorm:"column:fatigue_risk"`
	RecommendedAction      *string  `json:"recommendedAction" gorm:"column:recommended_action"`
	RiskFlags              *string  `json:"riskFlags" gorm:"column:risk_flags"`
}

// Day is one point of the campaign timeseries
type Day struct {
	Date       string   `json:"date" gorm:"column:date"`
	DailySpend *float64 `json:"dailySpend" gorm:"column:daily_spend"`
	DailyROAS  *float64 `json:"dailyRoas" gorm:"column:daily_roas"`
	ROAS7dAvg  *float64 `json:"roas7dAvg" gorm:"column:roas_7d_avg"`
	ROAS30dAvg *float64 `json:"roas30dAvg" gorm:"column:roas_30d_avg"`
}

// Context places the campaign against the business as a whole
type Context struct {
	BusinessHealthIndex          *float64 `json:"businessHealthIndex" gorm:"column:business_health_index"`
	BusinessRevenueTrend         *string  `json:"businessRevenueTrend" gorm:"column:business_revenue_trend"`
	BusinessDemandTrend          *string  `json:"businessDemandTrend" gorm:"column:business_demand_trend"`
	BusinessYoYStatus            *string  `json:"businessYoyStatus" gorm:"column:business_yoy_status"`
	CampaignShareOfRevenue       *float64 `json:"campaignShareOfRevenue" gorm:"column:campaign_share_of_revenue"`
	CampaignShareOfOrders        *float64 `json:"campaignShareOfOrders" gorm:"column:campaign_share_of_orders"`
	RelativePerformance          *string  `json:"relativePerformance" gorm:"column:relative_performance"`
	ContextualizedRecommendation *string  `json:"contextualizedRecommendation" gorm:"column:contextualized_recommendation"`
	ContextFlags                 *string  `json:"contextFlags" gorm:"column:context_flags"`
}

// Detail is the body of GET /api/campaign/:name
type Detail struct {
	Analysis       *Analysis `json:"analysis"`
	Timeseries     []Day     `json:"timeseries"`
	ContextualData *Context  `json:"contextualData"`
}
