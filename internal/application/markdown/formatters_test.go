package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/report"
)

func strPtr(s string) *string { return &s }

func tableRow(t *testing.T, out, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, out)
	return ""
}

func TestMonthly_BusinessSummaryRow(t *testing.T) {
	data := &report.MonthlyData{
		MonthlyBusinessSummary: []report.MonthlyBusinessSummaryRow{
			{Month: "2025-09", MonthlyGrossSales: ptr(100000), MonthlyOrders: ptr(500)},
		},
	}

	out := NewRegistry().Format(report.TypeMonthlyPerformance, data, Options{})

	assert.Contains(t, out, "## Monthly Business Metrics")
	row := tableRow(t, out, "| 2025-09 |")
	assert.Contains(t, row, "| $100,000 |")
	assert.Contains(t, row, "| 500 |")
	assert.Contains(t, row, "| $200.00 |")
}

func TestMonthly_EmptyDataRendersNoData(t *testing.T) {
	reg := NewRegistry()
	for _, typ := range []string{
		report.TypeMonthlyPerformance,
		report.TypeHBMonthlyPerformance,
		report.TypeJumboMaxMonthlyPerformance,
	} {
		t.Run(typ, func(t *testing.T) {
			var out string
			require.NotPanics(t, func() { out = reg.Format(typ, &report.MonthlyData{}, Options{}) })
			assert.Contains(t, out, NoDataText)
			assert.NotContains(t, out, "REPORT MONTH")
		})
	}

	require.NotPanics(t, func() { reg.Format(report.TypeMonthlyPerformance, nil, Options{}) })
}

func TestMonthly_ZeroSpendNeverRendersNaN(t *testing.T) {
	data := &report.MonthlyData{
		TopCampaigns: []report.CampaignAnalysisRow{
			{CampaignName: "Zero", Spend30d: ptr(0), Revenue30d: ptr(0), ROAS30d: report.Ratio(0, 0)},
		},
		BottomCampaigns: []report.CampaignAnalysisRow{
			{CampaignName: "Nulls"},
		},
		PaidMediaPerformance: []report.PaidMediaPerformanceRow{
			{Platform: "Facebook", TotalSpend: ptr(0), CalculatedCPC: report.Ratio(0, 0), CalculatedCTR: report.Ratio(0, 0)},
		},
		MonthlyBusinessSummary: []report.MonthlyBusinessSummaryRow{
			{Month: "2025-08", MonthlyGrossSales: ptr(1000), MonthlyOrders: ptr(0), MonthlyAdSpend: ptr(0)},
		},
	}

	out := NewRegistry().Format(report.TypeHBMonthlyPerformance, data, Options{})

	for _, bad := range []string{"NaN", "Inf", "+Inf"} {
		assert.NotContains(t, out, bad)
	}
	assert.Contains(t, tableRow(t, out, "| Zero |"), "| 0x |")
	assert.Contains(t, out, "- CPC: N/A")
}

func TestMonthly_PlatformVariant(t *testing.T) {
	data := &report.MonthlyData{
		MonthlyExecutiveReport: []report.MonthlyExecutiveRow{{
			ReportMonth:  "2025-10-01",
			RevenueTotal: ptr(250000),
			MetaSpend:    ptr(12000),
			MetaROAS:     ptr(4.256),
		}},
		PaidMediaPerformance: []report.PaidMediaPerformanceRow{
			{Platform: "Facebook", CalculatedCPM: ptr(12.5), AvgFrequency: ptr(1.8), TotalImpressions: ptr(1200000)},
			{Platform: "Google Ads", AvgConversionRate: ptr(3.25)},
		},
	}
	reg := NewRegistry()

	out := reg.Format(report.TypeJumboMaxMonthlyPerformance, data, Options{})
	assert.True(t, strings.HasPrefix(out, "# REPORT MONTH: October 2025\n"))
	assert.Contains(t, out, "**CRITICAL: Use this month name in the H3 header at the start of the report**")
	assert.Contains(t, out, "## META ADS PERFORMANCE METRICS")
	assert.Contains(t, out, "- meta_roas: 4.26x")
	assert.NotContains(t, out, "## GOOGLE ADS PERFORMANCE METRICS")
	assert.Contains(t, out, "## META ADS GRANULAR METRICS (for detailed performance metrics)")
	assert.Contains(t, out, "- Frequency: 1.80")
	assert.Contains(t, out, "- Total Impressions: 1,200,000")
	assert.Contains(t, out, "## GOOGLE ADS GRANULAR METRICS (for detailed performance metrics)")
	assert.Contains(t, out, "- Conversion Rate: 3.25%")

	base := reg.Format(report.TypeMonthlyPerformance, data, Options{})
	assert.NotContains(t, base, "REPORT MONTH")
	assert.NotContains(t, base, "GRANULAR")
	assert.Contains(t, base, "- revenue_total: $250,000")
}

func TestMonthly_SectionOrder(t *testing.T) {
	data := &report.MonthlyData{
		MonthlyExecutiveReport: []report.MonthlyExecutiveRow{{RevenueTotal: ptr(1)}},
		BayesianForecast:       []report.BayesianForecastRow{{AnnualRevenueTarget: ptr(3600000)}},
		ExecutiveSummary:       []report.ExecutiveSummaryRow{{RevenueMTD: ptr(10), FacebookSpendMTD: ptr(5)}},
		MonthlyBusinessSummary: []report.MonthlyBusinessSummaryRow{{Month: "2025-09"}},
		ClientConfig:           []report.ClientConfigRow{{AnalysisConfig: `{"monthlyRevenueTargets":300000}`}},
		TopCampaigns:           []report.CampaignAnalysisRow{{CampaignName: "a"}},
		BottomCampaigns:        []report.CampaignAnalysisRow{{CampaignName: "b"}},
		ProductIntelligence:    []report.ProductIntelligenceRow{{ProductTitle: "Grip"}},
	}

	out := NewRegistry().Format(report.TypeMonthlyPerformance, data, Options{Symbol: "£"})

	headings := []string{
		"# PRE-FETCHED DATA",
		"## HERO METRICS (for Executive Summary)",
		"## ANNUAL REVENUE FORECAST (for Hero Metric Row 2)",
		"## Platform Breakdown (MTD)",
		"### Facebook MTD",
		"### Last 7 Days",
		"## Monthly Business Metrics",
		"## Revenue Targets",
		"## Top 10 Campaigns by ROAS",
		"## Bottom 5 Campaigns Needing Attention",
		"## TOP PERFORMING SKU (for Hero Metric Row 5)",
	}
	last := -1
	for _, h := range headings {
		idx := strings.Index(out, h)
		require.GreaterOrEqual(t, idx, 0, h)
		assert.Greater(t, idx, last, h)
		last = idx
	}
	assert.NotContains(t, out, "### Google Ads MTD")
	assert.Contains(t, out, "- Monthly Target: £300,000")
}

func TestFormat_JSONFallback(t *testing.T) {
	data := &report.WeeklyExecutiveData{
		Revenue: []report.RevenueRow{{Date: "2025-10-01", Revenue: ptr(1234.5)}},
	}
	out := NewRegistry().Format(report.TypeWeeklyExecutive, data, Options{})

	assert.True(t, strings.HasPrefix(out, "```json\n"))
	assert.Contains(t, out, `"date": "2025-10-01"`)
	assert.NotContains(t, out, "BUSINESS CONTEXT")
	assert.False(t, NewRegistry().Has(report.TypeWeeklyExecutive))
}

func TestFormat_BusinessContext(t *testing.T) {
	start := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	matched := businesscontext.Matched{
		Direct: []businesscontext.Entry{{
			Title: "Fall sale", Category: "promotion", Magnitude: businesscontext.Magnitude("major"),
			StartDate: start, Description: "20% off sitewide",
		}},
		AlwaysOn:   []businesscontext.Entry{{Title: "Brand voice", Category: "brand_details", Magnitude: "minor", StartDate: start}},
		Comparison: []businesscontext.Entry{},
	}

	out := NewRegistry().Format(report.TypeMonthlyPerformance, &report.MonthlyData{}, Options{Context: matched})
	assert.Contains(t, out, "## BUSINESS CONTEXT")
	assert.Contains(t, out, "### Standing Context")
	assert.Contains(t, out, "- **Fall sale** (promotion, major, 2025-10-05): 20% off sitewide")
	assert.NotContains(t, out, "Year-over-Year Comparison")

	fallback := NewRegistry().Format(report.TypeEmailRetention, &report.EmailRetentionData{}, Options{Context: matched})
	assert.Contains(t, fallback, "## BUSINESS CONTEXT")

	assert.Empty(t, FormatContext(businesscontext.Matched{}))
	assert.Contains(t, FormatContext(matched), "### Events During This Period")
}

func TestText(t *testing.T) {
	assert.Equal(t, NA, text(nil))
	assert.Equal(t, NA, text(strPtr("")))
	assert.Equal(t, "x", text(strPtr("x")))
}

func TestMonthly_RevenueTargets(t *testing.T) {
	data := &report.MonthlyData{ClientConfig: []report.ClientConfigRow{{
		AnalysisConfig: `{"monthlyRevenueTargets":[100000,120000,90000],"annualRevenueTarget":1500000}`,
	}}}

	out := NewRegistry().Format(report.TypeMonthlyPerformance, data, Options{Symbol: "$"})

	assert.Contains(t, out, "## Revenue Targets")
	assert.Contains(t, out, "Monthly Targets: Jan: $100,000 | Feb: $120,000 | Mar: $90,000")
	assert.Contains(t, out, "$1,500,000")
}
