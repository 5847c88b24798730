package dashboard

import (
	"github.com/rooted/analytics/internal/domain/report"
)

// PeriodValue is one period slot of a KPI
type PeriodValue struct {
	Value float64 `json:"value"`
	Trend float64 `json:"trend"`
}

// Metric is a KPI card with its gauge
type Metric struct {
	Current     float64                `json:"current"`
	PeriodData  map[string]PeriodValue `json:"periodData"`
	GaugeValue  float64                `json:"gaugeValue"`
	GaugeMin    *float64               `json:"gaugeMin,omitempty"`
	GaugeMax    float64                `json:"gaugeMax"`
	GaugeTarget float64                `json:"gaugeTarget"`

	// blended ROAS only
	Spend map[string]float64 `json:"spend,omitempty"`

	// email only
	RevenuePerSend *float64 `json:"revenuePerSend,omitempty"`
	OpenRate       *float64 `json:"openRate,omitempty"`
	ClickRate      *float64 `json:"clickRate,omitempty"`
}

// BusinessHealth summarises the business health index
type BusinessHealth struct {
	HealthIndex  *float64 `json:"healthIndex"`
	RevenueTrend *string  `json:"revenueTrend"`
	DemandTrend  *string  `json:"demandTrend"`
	GaugeValue   *float64 `json:"gaugeValue"`
	GaugeMax     float64  `json:"gaugeMax"`
	GaugeTarget  float64  `json:"gaugeTarget"`
}

// SearchDemand tracks search impressions
type SearchDemand struct {
	Current     *float64 `json:"current"`
	YoYChange   *float64 `json:"yoyChange"`
	Trend       *string  `json:"trend"`
	GaugeValue  *float64 `json:"gaugeValue"`
	GaugeMax    float64  `json:"gaugeMax"`
	GaugeTarget float64  `json:"gaugeTarget"`
}

// BrandAwareness tracks branded impressions
type BrandAwareness struct {
	Current     *float64 `json:"current"`
	GaugeValue  *float64 `json:"gaugeValue"`
	GaugeMax    float64  `json:"gaugeMax"`
	GaugeTarget float64  `json:"gaugeTarget"`
}

// YoYPerformance compares against last year
type YoYPerformance struct {
	Status           *string  `json:"status"`
	RevenueYoYChange *float64 `json:"revenueYoyChange"`
	OrdersYoYChange  *float64 `json:"ordersYoyChange"`
	SearchYoYChange  *float64 `json:"searchYoyChange"`
}

// RevenueMomentum compares the 7 and 30 day revenue averages
type RevenueMomentum struct {
	Revenue7dAvg  *float64 `json:"revenue7dAvg"`
	Revenue30dAvg *float64 `json:"revenue30dAvg"`
	Trend         *string  `json:"trend"`
	// Acceleration is null when the 30 day average is missing or zero
	Acceleration *float64 `json:"acceleration"`
}

// KPIs is the KPI block shared by both dashboard responses
type KPIs struct {
	TotalRevenue     Metric             `json:"totalRevenue"`
	BlendedROAS      Metric             `json:"blendedROAS"`
	EmailPerformance *Metric            `json:"emailPerformance,omitempty"`
	PaidMediaSpend   Metric             `json:"paidMediaSpend"`
	GoogleSpend      Metric             `json:"googleSpend"`
	GoogleRevenue    Metric             `json:"googleRevenue"`
	GoogleROAS       Metric             `json:"googleROAS"`
	MetaSpend        Metric             `json:"metaSpend"`
	MetaRevenue      Metric             `json:"metaRevenue"`
	MetaROAS         Metric             `json:"metaROAS"`
	RevenueForecast  report.ForecastRow `json:"revenueForecast"`
	BusinessHealth   *BusinessHealth    `json:"businessHealth"`
	SearchDemand     *SearchDemand      `json:"searchDemand"`
	BrandAwareness   *BrandAwareness    `json:"brandAwareness"`
	YoYPerformance   *YoYPerformance    `json:"yoyPerformance"`
	RevenueMomentum  *RevenueMomentum   `json:"revenueMomentum"`
}

// Charts holds the chart series
type Charts struct {
	PaidMediaTrend    []report.TrendPoint      `json:"paidMediaTrend"`
	ShopifyRevenueYoY []report.RevenueYoYPoint `json:"shopifyRevenueYoY"`
}

// Response is the body of GET /api/dashboard
type Response struct {
	KPIs   KPIs   `json:"kpis"`
	Charts Charts `json:"charts"`
}

// CustomKPIs adds the pacing cards that are not computed for custom ranges
type CustomKPIs struct {
	KPIs
	RevenuePacing      any `json:"revenuePacing"`
	ROASPacing         any `json:"roasPacing"`
	BudgetPerformance  any `json:"budgetPerformance"`
	ForecastConfidence any `json:"forecastConfidence"`
}

// CustomCharts adds the chart series that stay empty for custom ranges
type CustomCharts struct {
	Charts
	RevenueTrend       []report.TrendPoint `json:"revenueTrend"`
	ChannelPerformance []ChannelValue      `json:"channelPerformance"`
}

// ChannelValue is one slice of a channel breakdown
type ChannelValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DateRange echoes the requested custom range
type DateRange struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	DaysInPeriod int    `json:"daysInPeriod"`
}

// CustomResponse is the body of GET /api/dashboard/custom-range
type CustomResponse struct {
	KPIs      CustomKPIs   `json:"kpis"`
	DateRange DateRange    `json:"dateRange"`
	Charts    CustomCharts `json:"charts"`
}

// FunnelResponse is the body of GET /api/dashboard/funnel
type FunnelResponse struct {
	Goal    string                          `json:"goal"`
	Country string                          `json:"country"`
	Bundles map[string][]report.FunnelAdRow `json:"bundles"`
}

// RangeSummary is the period-over-year aggregate behind the custom range KPIs
type RangeSummary struct {
	Revenue                   float64
	RevenueYoYGrowthPct       float64
	Orders                    float64
	DaysInPeriod              int
	BlendedSpend              float64
	BlendedSpendYoYGrowthPct  float64
	BlendedROAS               float64
	BlendedROASYoYGrowthPct   float64
	GoogleSpend               float64
	GoogleSpendYoYGrowthPct   float64
	GoogleRevenue             float64
	GoogleRevenueYoYGrowthPct float64
	GoogleROAS                float64
	GoogleROASYoYGrowthPct    float64
	MetaSpend                 float64
	MetaSpendYoYGrowthPct     float64
	MetaRevenue               float64
	MetaRevenueYoYGrowthPct   float64
	MetaROAS                  float64
	MetaROASYoYGrowthPct      float64
	EmailRevenue              float64
	EmailRevenueYoYGrowthPct  float64
}
