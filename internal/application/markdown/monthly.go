package markdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rooted/analytics/internal/domain/report"
)

// GranularPlatform selects one paid_media_performance row for the granular
// metrics section
type GranularPlatform struct {
	Heading  string // e.g. "META ADS"
	Platform string // platform value in the warehouse
	// Extra is the platform-specific rate: "frequency" or "conversion_rate"
	Extra string
}

// MonthlyTemplate configures the monthly performance formatter.
// The zero value renders the standard monthly report.
type MonthlyTemplate struct {
	ReportMonthBanner bool
	PlatformMetrics   bool
	Granular          []GranularPlatform
}

// PlatformDetailTemplate is the monthly template with report month banner,
// per-platform MoM/YoY metrics and granular paid media metrics
var PlatformDetailTemplate = MonthlyTemplate{
	ReportMonthBanner: true,
	PlatformMetrics:   true,
	Granular: []GranularPlatform{
		{Heading: "META ADS", Platform: "Facebook", Extra: "frequency"},
		{Heading: "GOOGLE ADS", Platform: "Google Ads", Extra: "conversion_rate"},
	},
}

// Format renders monthly report data
func (t MonthlyTemplate) Format(data report.Data, opts Options) string {
	d, ok := data.(*report.MonthlyData)
	if !ok || d == nil {
		d = &report.MonthlyData{}
	}
	sym := opts.symbol()

	doc := New("PRE-FETCHED DATA")
	if t.ReportMonthBanner {
		if month, ok := reportMonth(d); ok {
			doc.Prepend(
				"# REPORT MONTH: "+month,
				"**CRITICAL: Use this month name in the H3 header at the start of the report**",
			)
		}
	}

	heroMetrics(doc, d, sym)
	annualForecast(doc, d, sym)
	platformBreakdown(doc, d, sym)
	businessMetrics(doc, d, sym)
	revenueTargets(doc, d, sym)
	campaigns(doc, d, sym)
	products(doc, d, sym)

	if t.PlatformMetrics && len(d.MonthlyExecutiveReport) > 0 {
		hero := d.MonthlyExecutiveReport[0]
		if hero.MetaSpend != nil {
			platformPerformance(doc, "META ADS", "Meta Ads", "meta", sym,
				hero.MetaSpend, hero.MetaSpendMoMPct, hero.MetaSpendYoYPct,
				hero.MetaRevenue, hero.MetaRevenueMoMPct, hero.MetaRevenueYoYPct,
				hero.MetaROAS, hero.MetaROASMoMPct, hero.MetaROASYoYPct)
		}
		if hero.GoogleSpend != nil {
			platformPerformance(doc, "GOOGLE ADS", "Google Ads", "google", sym,
				hero.GoogleSpend, hero.GoogleSpendMoMPct, hero.GoogleSpendYoYPct,
				hero.GoogleRevenue, hero.GoogleRevenueMoMPct, hero.GoogleRevenueYoYPct,
				hero.GoogleROAS, hero.GoogleROASMoMPct, hero.GoogleROASYoYPct)
		}
	}

	for _, g := range t.Granular {
		granular(doc, d, g, sym)
	}

	contextSection(doc, opts.Context)
	return doc.Render()
}

func heroMetrics(doc *Document, d *report.MonthlyData, sym string) {
	if len(d.MonthlyExecutiveReport) == 0 {
		return
	}
	hero := d.MonthlyExecutiveReport[0]
	s := doc.Section("HERO METRICS (for Executive Summary)")
	s.Para("**Use these 6 metrics EXACTLY as specified in the prompt:**")

	s.Para("**Row 1 - Monthly Revenue**:").KV(
		"revenue_total", Money(hero.RevenueTotal, sym),
		"revenue_mom_pct", Pct(hero.RevenueMoMPct),
		"revenue_yoy_pct", Pct(hero.RevenueYoYPct),
	)
	s.Para("**Row 3 - Monthly ROAS**:").KV(
		"blended_roas", Multiple(hero.BlendedROAS),
		"blended_roas_mom_pct", Pct(hero.BlendedROASMoMPct),
		"blended_roas_yoy_pct", Pct(hero.BlendedROASYoYPct),
	)
	s.Para("**Row 4 - Paid Media Spend**:").KV(
		"paid_media_spend", Money(hero.PaidMediaSpend, sym),
		"paid_media_spend_mom_pct", Pct(hero.PaidMediaSpendMoMPct),
		"paid_media_spend_yoy_pct", Pct(hero.PaidMediaSpendYoYPct),
	)
	s.Para("**Row 6 - Top Emerging SKU**:").KV(
		"top_emerging_product_title", text(hero.TopEmergingProductTitle),
		"top_emerging_product_revenue", Money(hero.TopEmergingProductRevenue, sym),
		"top_emerging_product_mom_growth_pct", Pct(hero.TopEmergingProductMoMGrowthPct),
	)
}

func annualForecast(doc *Document, d *report.MonthlyData, sym string) {
	if len(d.BayesianForecast) == 0 {
		return
	}
	f := d.BayesianForecast[0]
	s := doc.Section("ANNUAL REVENUE FORECAST (for Hero Metric Row 2)")
	s.Para("**Use these fields for Annual Revenue Pacing row:**")
	s.Para("**Row 2 - Annual Revenue Pacing**:").KV(
		"prophet_annual_revenue_base (Base Scenario forecast)", Money(f.ProphetAnnualRevenueBase, sym),
		"annual_revenue_target (Target)", Money(f.AnnualRevenueTarget, sym),
		"probability_hit_revenue_target", Grouped(f.ProbabilityHitRevenueTarget)+"%",
		"days_remaining", intText(f.DaysRemaining),
	).Bullets("CALCULATE SHORTFALL: annual_revenue_target MINUS prophet_annual_revenue_base")
	s.Para("**Additional Context** (for reference only):").KV(
		"Forecast Year", intText(f.ForecastYear),
		"YTD Revenue", Money(f.YTDRevenue, sym),
		"YTD Attainment", Pct(f.YTDAttainmentPct),
		"Conservative Scenario", Money(f.ProphetAnnualRevenueConservative, sym),
		"Optimistic Scenario", Money(f.ProphetAnnualRevenueOptimistic, sym),
		"Risk Level", text(f.RevenueRiskLevel),
	)
}

func platformBreakdown(doc *Document, d *report.MonthlyData, sym string) {
	if len(d.ExecutiveSummary) == 0 {
		return
	}
	e := d.ExecutiveSummary[0]
	s := doc.Section("Platform Breakdown (MTD)")
	s.Bullets(
		fmt.Sprintf("Revenue: %s | Orders: %s | AOV: %s",
			Money(e.RevenueMTD, sym), Grouped(e.OrdersMTD), MoneyFixed(e.AOVMTD, sym, 2)),
		fmt.Sprintf("YoY Growth: Revenue %s | Orders %s",
			SignedPct(e.RevenueMTDYoYGrowthPct), SignedPct(e.OrdersMTDYoYGrowthPct)),
	)

	if report.Value(e.FacebookSpendMTD) > 0 {
		s.Sub("Facebook MTD").Bullets(
			fmt.Sprintf("Spend: %s | Revenue: %s | ROAS: %s",
				Money(e.FacebookSpendMTD, sym), Money(e.FacebookRevenueMTD, sym), Multiple(e.FacebookROASMTD)),
			fmt.Sprintf("7D: Spend %s | Revenue %s | ROAS %s",
				Money(e.FacebookSpend7d, sym), Money(e.FacebookRevenue7d, sym), Multiple(e.FacebookROAS7d)),
		)
	}
	if report.Value(e.GoogleSpendMTD) > 0 {
		s.Sub("Google Ads MTD").Bullets(
			fmt.Sprintf("Spend: %s | Revenue: %s | ROAS: %s",
				Money(e.GoogleSpendMTD, sym), Money(e.GoogleRevenueMTD, sym), Multiple(e.GoogleROASMTD)),
		)
	}
	if report.Value(e.EmailRevenueMTD) > 0 {
		s.Sub("Email MTD").Bullets(
			fmt.Sprintf("Revenue: %s | YoY: %s", Money(e.EmailRevenueMTD, sym), SignedPct(e.EmailRevenueMTDYoYGrowthPct)),
		)
	}
	s.Sub("Last 7 Days").Bullets(
		fmt.Sprintf("Revenue: %s | Orders: %s | AOV: %s",
			Money(e.Revenue7d, sym), Grouped(e.Orders7d), MoneyFixed(e.AOV7d, sym, 2)),
	)
}

func businessMetrics(doc *Document, d *report.MonthlyData, sym string) {
	if len(d.MonthlyBusinessSummary) == 0 {
		return
	}
	s := doc.Section("Monthly Business Metrics")
	t := s.Table("Month", "Gross Sales", "Net Sales (after refunds)", "Orders", "AOV",
		"Total Sales ROAS", "Attributed Blended ROAS", "Total Ad Spend", "FB Spend", "Google Spend")
	for _, m := range d.MonthlyBusinessSummary {
		t.Row(
			m.Month,
			Money(m.MonthlyGrossSales, sym),
			Money(m.MonthlyNetSalesAfterRefunds, sym),
			Grouped(m.MonthlyOrders),
			MoneyFixed(m.AOV(), sym, 2),
			Multiple(m.TotalSalesROAS),
			Multiple(m.AttributedBlendedROAS),
			Money(m.MonthlyAdSpend, sym),
			Money(m.MonthlyFacebookSpend, sym),
			Money(m.MonthlyGoogleSpend, sym),
		)
	}
}

func revenueTargets(doc *Document, d *report.MonthlyData, sym string) {
	if len(d.ClientConfig) == 0 {
		return
	}
	cfg, err := d.ClientConfig[0].Parse()
	if err != nil || (len(cfg.MonthlyRevenueTargets) == 0 && cfg.AnnualRevenueTarget == nil) {
		return
	}
	s := doc.Section("Revenue Targets")
	if n := len(cfg.MonthlyRevenueTargets); n == 1 {
		s.KV("Monthly Target", Money(&cfg.MonthlyRevenueTargets[0], sym))
	} else if n > 1 {
		items := make([]string, 0, n)
		for i, v := range cfg.MonthlyRevenueTargets {
			items = append(items, fmt.Sprintf("%s: %s", time.Month(i%12 + 1).String()[:3], Money(&v, sym)))
		}
		s.Bullets("Monthly Targets: " + strings.Join(items, " | "))
	}
	if cfg.AnnualRevenueTarget != nil {
		s.KV("Annual Target", Money(cfg.AnnualRevenueTarget, sym))
	}
}

func campaigns(doc *Document, d *report.MonthlyData, sym string) {
	if len(d.TopCampaigns) > 0 {
		t := doc.Section("Top 10 Campaigns by ROAS").
			Table("Campaign", "Spend", "Revenue", "ROAS", "CTR", "Purchases")
		for _, c := range d.TopCampaigns {
			var ctr *float64
			if c.CTR30d != nil {
				ctr = ptr(*c.CTR30d * 100)
			}
			t.Row(c.CampaignName, moneyOrZero(c.Spend30d, sym), moneyOrZero(c.Revenue30d, sym),
				multipleOrZero(c.ROAS30d), fixedOrZero(ctr, 2)+"%", Count(c.Purchases30d))
		}
	}
	if len(d.BottomCampaigns) > 0 {
		t := doc.Section("Bottom 5 Campaigns Needing Attention").
			Table("Campaign", "Spend", "Revenue", "ROAS", "Action", "Flags")
		for _, c := range d.BottomCampaigns {
			flags := "None"
			if c.RiskFlags != nil && *c.RiskFlags != "" {
				flags = *c.RiskFlags
			}
			t.Row(c.CampaignName, moneyOrZero(c.Spend30d, sym), moneyOrZero(c.Revenue30d, sym),
				multipleOrZero(c.ROAS30d), text(c.RecommendedAction), flags)
		}
	}
}

func products(doc *Document, d *report.MonthlyData, sym string) {
	if len(d.ProductIntelligence) == 0 {
		return
	}
	top := d.ProductIntelligence[0]
	s := doc.Section("TOP PERFORMING SKU (for Hero Metric Row 5)")
	s.Para("**Row 5 - Top Performing SKU**:").KV(
		"product_title", top.ProductTitle,
		"revenue_30d", moneyOrZero(top.Revenue30d, sym),
	)
	s.Para("**All Top 10 Products** (for context):")
	t := s.Table("Product", "Revenue (30d)", "Units Sold", "Inventory")
	for _, p := range d.ProductIntelligence {
		t.Row(p.ProductTitle, moneyOrZero(p.Revenue30d, sym), Count(p.UnitsSold30d), Count(p.TotalInventoryQuantity))
	}
}

func platformPerformance(doc *Document, heading, label, prefix, sym string,
	spend, spendMoM, spendYoY, revenue, revenueMoM, revenueYoY, roas, roasMoM, roasYoY *float64) {
	s := doc.Section(heading + " PERFORMANCE METRICS")
	s.Para(fmt.Sprintf("**Use these metrics with MoM/YoY changes for the %s Performance section:**", label))
	s.Para("**Spend:**").KV(
		prefix+"_spend", Money(spend, sym),
		prefix+"_spend_mom_pct", Pct(spendMoM),
		prefix+"_spend_yoy_pct", Pct(spendYoY),
	)
	s.Para("**Revenue:**").KV(
		prefix+"_revenue", Money(revenue, sym),
		prefix+"_revenue_mom_pct", Pct(revenueMoM),
		prefix+"_revenue_yoy_pct", Pct(revenueYoY),
	)
	s.Para("**ROAS:**").KV(
		prefix+"_roas", Multiple(roas),
		prefix+"_roas_mom_pct", Pct(roasMoM),
		prefix+"_roas_yoy_pct", Pct(roasYoY),
	)
}

func granular(doc *Document, d *report.MonthlyData, g GranularPlatform, sym string) {
	var row *report.PaidMediaPerformanceRow
	for i := range d.PaidMediaPerformance {
		if d.PaidMediaPerformance[i].Platform == g.Platform {
			row = &d.PaidMediaPerformance[i]
			break
		}
	}
	if row == nil {
		return
	}

	pairs := []string{
		"CPM", MoneyFixed(row.CalculatedCPM, sym, 2),
		"CPC", MoneyFixed(row.CalculatedCPC, sym, 2),
		"CTR", pctFixed(row.CalculatedCTR),
	}
	switch g.Extra {
	case "frequency":
		pairs = append(pairs, "Frequency", Fixed(row.AvgFrequency, 2))
	case "conversion_rate":
		pairs = append(pairs, "Conversion Rate", pctFixed(row.AvgConversionRate))
	}
	pairs = append(pairs,
		"Total Impressions", Grouped(row.TotalImpressions),
		"Total Clicks", Grouped(row.TotalClicks),
		"Total Purchases", Grouped(row.TotalPurchases),
	)
	doc.Section(g.Heading + " GRANULAR METRICS (for detailed performance metrics)").KV(pairs...)
}

func reportMonth(d *report.MonthlyData) (string, bool) {
	if len(d.MonthlyExecutiveReport) == 0 || d.MonthlyExecutiveReport[0].ReportMonth == "" {
		return "", false
	}
	raw := d.MonthlyExecutiveReport[0].ReportMonth
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("January 2006"), true
		}
	}
	return "", false
}

func text(s *string) string {
	if s == nil || *s == "" {
		return NA
	}
	return *s
}

func intText(v *int) string {
	if v == nil {
		return NA
	}
	return strconv.Itoa(*v)
}

func pctFixed(v *float64) string {
	if !finite(v) {
		return NA
	}
	return Fixed(v, 2) + "%"
}

func moneyOrZero(v *float64, sym string) string {
	if !finite(v) {
		return sym + "0"
	}
	return Money(v, sym)
}

func multipleOrZero(v *float64) string {
	if !finite(v) {
		return "0x"
	}
	return Multiple(v)
}

func fixedOrZero(v *float64, n int) string {
	if !finite(v) {
		return "0"
	}
	return Fixed(v, n)
}
