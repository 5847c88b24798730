package report

// TrendPoint is one day of paid media totals
type TrendPoint struct {
	Date    string   `json:"date" gorm:"column:date"`
	Spend   *float64 `json:"spend" gorm:"column:spend"`
	Revenue *float64 `json:"revenue" gorm:"column:revenue"`
	Orders  *float64 `json:"orders,omitempty" gorm:"column:orders"`
	ROAS    *float64 `json:"roas" gorm:"column:roas"`
}

// RevenueYoYPoint pairs a day's revenue with the same weekday offset one year earlier
type RevenueYoYPoint struct {
	Date            string   `json:"date"`
	Revenue         *float64 `json:"revenue"`
	RevenueLastYear *float64 `json:"revenueLastYear"`
}

// DailyRevenueRow is one day of store revenue
type DailyRevenueRow struct {
	Date    string   `gorm:"column:date"`
	Revenue *float64 `gorm:"column:revenue"`
}

// ForecastRow aggregates the upcoming days of the revenue forecast
type ForecastRow struct {
	TotalForecasted *float64 `json:"totalForecasted" gorm:"column:total_forecasted"`
	LowerBound      *float64 `json:"lowerBound" gorm:"column:lower_bound"`
	UpperBound      *float64 `json:"upperBound" gorm:"column:upper_bound"`
	SuggestedSpend  *float64 `json:"suggestedSpend" gorm:"column:suggested_spend"`
	ExpectedROAS    *float64 `json:"expectedRoas" gorm:"column:expected_roas"`
	ForecastDays    int      `json:"forecastDays" gorm:"column:forecast_days"`
}

// BusinessContextIndexRow is the latest row of the business health index
type BusinessContextIndexRow struct {
	ReportDate               string   `json:"reportDate" gorm:"column:report_date"`
	BusinessHealthIndex      *float64 `json:"businessHealthIndex" gorm:"column:business_health_index"`
	RevenueTrend             *string  `json:"revenueTrend" gorm:"column:revenue_trend"`
	DemandTrend              *string  `json:"demandTrend" gorm:"column:demand_trend"`
	SearchImpressions7dAvg   *float64 `json:"searchImpressions7dAvg" gorm:"column:search_impressions_7d_avg"`
	SearchDemandYoYChangePct *float64 `json:"searchDemandYoyChangePct" gorm:"column:search_demand_yoy_change_pct"`
	BrandImpressions30dAvg   *float64 `json:"brandImpressions30dAvg" gorm:"column:brand_impressions_30d_avg"`
	YoYStatus                *string  `json:"yoyStatus" gorm:"column:yoy_status"`
	RevenueYoYChangePct      *float64 `json:"revenueYoyChangePct" gorm:"column:revenue_yoy_change_pct"`
	OrdersYoYChangePct       *float64 `json:"ordersYoyChangePct" gorm:"column:orders_yoy_change_pct"`
	Revenue7dAvg             *float64 `json:"revenue7dAvg" gorm:"column:revenue_7d_avg"`
	Revenue30dAvg            *float64 `json:"revenue30dAvg" gorm:"column:revenue_30d_avg"`
}

// RangeTotalsRow is store revenue and orders over an arbitrary range
type RangeTotalsRow struct {
	Revenue *float64 `gorm:"column:revenue"`
	Orders  *float64 `gorm:"column:orders"`
	Days    *int     `gorm:"column:days"`
}

// PlatformTotalsRow is one platform's spend and attributed revenue over a range
type PlatformTotalsRow struct {
	Platform string   `gorm:"column:platform"`
	Spend    *float64 `gorm:"column:spend"`
	Revenue  *float64 `gorm:"column:revenue"`
}
