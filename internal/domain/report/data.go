package report

import (
	"math"
	"time"

	"github.com/rooted/analytics/internal/domain/businesscontext"
)

// Report types
const (
	TypeWeeklyExecutive            = "weekly-executive"
	TypeMonthlyPerformance         = "monthly-performance"
	TypeHBMonthlyPerformance       = "hb-monthly-performance"
	TypeJumboMaxMonthlyPerformance = "jumbomax-monthly-performance"
	TypePlatformDeepDive           = "platform-deep-dive"
	TypeEmailRetention             = "email-retention"
)

// Funnel stages used to bucket ad creatives
var FunnelStages = []string{"TOFU", "MOFU", "BOFU"}

// Data is the typed result of one report fetcher
type Data interface {
	// RowCounts reports the number of rows fetched per section
	RowCounts() map[string]int
}

// WeeklyExecutiveData backs the weekly executive summary
type WeeklyExecutiveData struct {
	Revenue             []RevenueRow             `json:"revenue"`
	PlatformPerformance []PlatformPerformanceRow `json:"platformPerformance"`
	TopProducts         []TopProductRow          `json:"topProducts"`
}

func (d *WeeklyExecutiveData) RowCounts() map[string]int {
	return map[string]int{
		"revenue":             len(d.Revenue),
		"platformPerformance": len(d.PlatformPerformance),
		"topProducts":         len(d.TopProducts),
	}
}

// MonthlyData backs the monthly performance reports. PaidMediaPerformance and
// FunnelAds are only populated for the platform-detail variants.
type MonthlyData struct {
	MonthlyExecutiveReport []MonthlyExecutiveRow       `json:"monthlyExecutiveReport"`
	ExecutiveSummary       []ExecutiveSummaryRow       `json:"executiveSummary"`
	MonthlyBusinessSummary []MonthlyBusinessSummaryRow `json:"monthlyBusinessSummary"`
	TopCampaigns           []CampaignAnalysisRow       `json:"topCampaigns"`
	BottomCampaigns        []CampaignAnalysisRow       `json:"bottomCampaigns"`
	ProductIntelligence    []ProductIntelligenceRow    `json:"productIntelligence"`
	BayesianForecast       []BayesianForecastRow       `json:"bayesianForecast"`
	ClientConfig           []ClientConfigRow           `json:"clientConfig"`
	PaidMediaPerformance   []PaidMediaPerformanceRow   `json:"paidMediaPerformance,omitempty"`
	FunnelAds              map[string][]FunnelAdRow    `json:"funnelAds,omitempty"`
}

func (d *MonthlyData) RowCounts() map[string]int {
	counts := map[string]int{
		"monthlyExecutiveReport": len(d.MonthlyExecutiveReport),
		"executiveSummary":       len(d.ExecutiveSummary),
		"monthlyBusinessSummary": len(d.MonthlyBusinessSummary),
		"topCampaigns":           len(d.TopCampaigns),
		"bottomCampaigns":        len(d.BottomCampaigns),
		"productIntelligence":    len(d.ProductIntelligence),
		"bayesianForecast":       len(d.BayesianForecast),
		"clientConfig":           len(d.ClientConfig),
	}
	if d.PaidMediaPerformance != nil {
		counts["paidMediaPerformance"] = len(d.PaidMediaPerformance)
	}
	for stage, ads := range d.FunnelAds {
		counts["funnelAds."+stage] = len(ads)
	}
	return counts
}

// PlatformDeepDiveData backs the platform deep dive
type PlatformDeepDiveData struct {
	Campaigns  []CampaignPerformanceRow `json:"campaigns"`
	DailyTrend []DailyTrendRow          `json:"dailyTrend"`
}

func (d *PlatformDeepDiveData) RowCounts() map[string]int {
	return map[string]int{"campaigns": len(d.Campaigns), "dailyTrend": len(d.DailyTrend)}
}

// EmailRetentionData backs the email and retention report
type EmailRetentionData struct {
	EmailCampaigns []EmailCampaignRow `json:"emailCampaigns"`
	Retention      []RetentionRow     `json:"retention"`
}

func (d *EmailRetentionData) RowCounts() map[string]int {
	return map[string]int{"emailCampaigns": len(d.EmailCampaigns), "retention": len(d.Retention)}
}

// DateRange is the resolved report window as sent over the wire
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	SQL   string `json:"sql"`
}

// Result is the response of a report data fetch
type Result struct {
	Success       bool                    `json:"success"`
	ReportType    string                  `json:"reportType"`
	ClientID      string                  `json:"clientId"`
	Period        string                  `json:"period"`
	DateRange     DateRange               `json:"dateRange"`
	Data          Data                    `json:"data"`
	FormattedData string                  `json:"formattedData"`
	Context       businesscontext.Matched `json:"context"`
	Timestamp     time.Time               `json:"timestamp"`
}

// SafeDivide returns a/b, or 0 when the result would not be finite
func SafeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	v := a / b
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Ratio is SafeDivide that reports "not computable" as nil
func Ratio(a, b float64) *float64 {
	if b == 0 {
		return nil
	}
	v := a / b
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Value dereferences a nullable metric, treating nil and non-finite values as 0
func Value(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// TopFunnelAds keeps the first n ads of each funnel stage, preserving rank order
func TopFunnelAds(ads []FunnelAdRow, n int) map[string][]FunnelAdRow {
	out := make(map[string][]FunnelAdRow, len(FunnelStages))
	for _, stage := range FunnelStages {
		out[stage] = []FunnelAdRow{}
	}
	for _, ad := range ads {
		bucket, ok := out[ad.RecommendedStage]
		if !ok || len(bucket) >= n {
			continue
		}
		out[ad.RecommendedStage] = append(bucket, ad)
	}
	return out
}
