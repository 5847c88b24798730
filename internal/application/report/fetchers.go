package report

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/report"
	"github.com/rooted/analytics/internal/infrastructure/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchFunc loads the data set of one report type
type FetchFunc func(ctx context.Context, fc *FetchContext) (report.Data, error)

// FetchContext carries what a fetcher needs for one request
type FetchContext struct {
	Warehouse report.Warehouse
	ClientID  string
	Dataset   string
	Range     period.Range
	Now       time.Time
	Logger    *zap.Logger

	group  *errgroup.Group
	ctx    context.Context
	failed atomic.Int32
}

func newFetchContext(ctx context.Context, fc *FetchContext, limit int) *FetchContext {
	fc.group = &errgroup.Group{}
	if limit > 0 {
		fc.group.SetLimit(limit)
	}
	fc.ctx = ctx
	return fc
}

// Failed returns how many queries of this fetch failed and were defaulted
// to empty
func (fc *FetchContext) Failed() int {
	return int(fc.failed.Load())
}

// Table qualifies a table with the client dataset
func (fc *FetchContext) Table(name string) string {
	return report.Table(fc.Dataset, name)
}

// wait blocks until every scheduled query finished. Individual query errors
// are already logged; only cancellation of the request is reported.
func (fc *FetchContext) wait() error {
	_ = fc.group.Wait()
	return fc.ctx.Err()
}

// query schedules a typed select into dest. A failing query is logged,
// counted, leaves dest as an empty slice and keeps the result out of the
// response cache.
func query[T any](fc *FetchContext, name string, dest *[]T, sql string, args ...any) {
	fc.group.Go(func() error {
		var rows []T
		start := time.Now()
		if err := fc.Warehouse.Select(fc.ctx, &rows, sql, args...); err != nil {
			fc.Logger.Warn("Report query failed",
				zap.String("query", name),
				zap.String("client_id", fc.ClientID),
				zap.Error(err))
			fc.failed.Add(1)
			cache.SkipStore(fc.ctx)
			rows = nil
		} else {
			fc.Logger.Debug("Report query finished",
				zap.String("query", name),
				zap.Int("rows", len(rows)),
				zap.Duration("duration", time.Since(start)))
		}
		if rows == nil {
			rows = []T{}
		}
		*dest = rows
		return nil
	})
}

// DefaultFetchers returns the built-in fetchers keyed by report type
func DefaultFetchers() map[string]FetchFunc {
	return map[string]FetchFunc{
		report.TypeWeeklyExecutive:            fetchWeeklyExecutive,
		report.TypeMonthlyPerformance:         fetchMonthly(false),
		report.TypeHBMonthlyPerformance:       fetchMonthly(true),
		report.TypeJumboMaxMonthlyPerformance: fetchMonthly(true),
		report.TypePlatformDeepDive:           fetchPlatformDeepDive,
		report.TypeEmailRetention:             fetchEmailRetention,
	}
}

func fetchWeeklyExecutive(ctx context.Context, fc *FetchContext) (report.Data, error) {
	d := &report.WeeklyExecutiveData{}
	start, end := fc.Range.StartString(), fc.Range.EndString()

	query(fc, "revenue", &d.Revenue, fmt.Sprintf(`
		SELECT CAST(date AS TEXT) AS date, SUM(total_revenue) AS revenue, SUM(total_orders) AS orders
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date DESC`, fc.Table("daily_performance")), start, end)

	query(fc, "platformPerformance", &d.PlatformPerformance, fmt.Sprintf(`
		SELECT platform, SUM(spend) AS spend, SUM(revenue) AS revenue,
		       SUM(revenue) / NULLIF(SUM(spend), 0) AS roas
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY platform
		ORDER BY spend DESC`, fc.Table("platform_daily_metrics")), start, end)

	query(fc, "topProducts", &d.TopProducts, fmt.Sprintf(`
		SELECT product_name, SUM(quantity) AS units_sold, SUM(revenue) AS revenue
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY product_name
		ORDER BY revenue DESC
		LIMIT 10`, fc.Table("product_performance")), start, end)

	return d, fc.wait()
}

const monthlyExecutiveColumns = `
	CAST(report_month AS TEXT) AS report_month,
	revenue_total, revenue_mom_pct, revenue_yoy_pct,
	blended_roas, blended_roas_mom_pct, blended_roas_yoy_pct,
	paid_spend_total AS paid_media_spend,
	paid_spend_mom_pct AS paid_media_spend_mom_pct,
	paid_spend_yoy_pct AS paid_media_spend_yoy_pct,
	meta_spend, meta_spend_mom_pct, meta_spend_yoy_pct,
	meta_revenue, meta_revenue_mom_pct, meta_revenue_yoy_pct,
	meta_roas, meta_roas_mom_pct, meta_roas_yoy_pct,
	google_spend, google_spend_mom_pct, google_spend_yoy_pct,
	google_revenue, google_revenue_mom_pct, google_revenue_yoy_pct,
	google_roas, google_roas_mom_pct, google_roas_yoy_pct,
	top_emerging_product_title, top_emerging_product_revenue,
	top_emerging_product_growth_pct AS top_emerging_product_mom_growth_pct,
	top_emerging_product_category`

const monthlySummaryColumns = `
	CAST(report_date AS TEXT) AS report_date,
	revenue_mtd, revenue_7d, revenue_mtd_yoy_growth_pct,
	orders_mtd, orders_7d, orders_mtd_yoy_growth_pct, aov_mtd, aov_7d,
	facebook_spend_mtd, facebook_revenue_mtd, facebook_roas_mtd,
	facebook_spend_7d, facebook_revenue_7d, facebook_roas_7d,
	google_spend_mtd, google_revenue_mtd, google_roas_mtd,
	klaviyo_total_revenue_mtd, klaviyo_total_revenue_mtd_yoy_growth_pct`

const campaignColumns = `campaign_name, spend_30d, revenue_30d, roas_30d, ctr_30d, purchases_30d, recommended_action, risk_flags`

// fetchMonthly loads the monthly performance data set. withPlatformDetail
// adds paid media granular metrics and the funnel ad bundles.
func fetchMonthly(withPlatformDetail bool) FetchFunc {
	return func(ctx context.Context, fc *FetchContext) (report.Data, error) {
		d := &report.MonthlyData{}
		thisMonth := time.Date(fc.Now.Year(), fc.Now.Month(), 1, 0, 0, 0, 0, time.UTC)

		query(fc, "monthlyExecutiveReport", &d.MonthlyExecutiveReport, fmt.Sprintf(`
			SELECT %s FROM %s ORDER BY report_month DESC LIMIT 1`,
			monthlyExecutiveColumns, fc.Table("monthly_executive_report")))

		query(fc, "executiveSummary", &d.ExecutiveSummary, fmt.Sprintf(`
			SELECT %s FROM %s ORDER BY report_date DESC LIMIT 1`,
			monthlySummaryColumns, fc.Table("ai_executive_summary")))

		// completed months only
		query(fc, "monthlyBusinessSummary", &d.MonthlyBusinessSummary, fmt.Sprintf(`
			SELECT CAST(month AS TEXT) AS month, monthly_gross_sales, monthly_net_sales_after_refunds,
			       monthly_orders, avg_monthly_aov, total_sales_roas, attributed_blended_roas,
			       monthly_ad_spend, monthly_facebook_spend, monthly_google_spend
			FROM %s
			WHERE month < ?
			ORDER BY month DESC
			LIMIT 1`, fc.Table("monthly_business_summary")), thisMonth.Format(period.DateLayout))

		query(fc, "topCampaigns", &d.TopCampaigns, fmt.Sprintf(`
			SELECT %s FROM %s ORDER BY roas_30d DESC LIMIT 10`,
			campaignColumns, fc.Table("ai_intelligent_campaign_analysis")))

		query(fc, "bottomCampaigns", &d.BottomCampaigns, fmt.Sprintf(`
			SELECT %s FROM %s WHERE roas_30d IS NOT NULL ORDER BY roas_30d ASC LIMIT 5`,
			campaignColumns, fc.Table("ai_intelligent_campaign_analysis")))

		query(fc, "productIntelligence", &d.ProductIntelligence, fmt.Sprintf(`
			SELECT product_title, revenue_30d, units_sold_30d, total_inventory_quantity,
			       avg_variant_price, performance_category_30d
			FROM %s ORDER BY revenue_30d DESC LIMIT 10`, fc.Table("product_intelligence")))

		query(fc, "bayesianForecast", &d.BayesianForecast, fmt.Sprintf(`
			SELECT CAST(report_date AS TEXT) AS report_date, forecast_year, annual_revenue_target,
			       annual_roas_target, ytd_revenue, ytd_attainment_pct, days_remaining, revenue_gap,
			       prophet_annual_revenue_base, prophet_annual_revenue_conservative,
			       prophet_annual_revenue_optimistic, probability_hit_revenue_target,
			       probability_hit_roas_target, probability_hit_both_targets, p50_annual_revenue,
			       revenue_risk_level, performance_vs_pace_pct
			FROM %s ORDER BY report_date DESC LIMIT 1`, fc.Table("bayesian_annual_probability_forecast")))

		query(fc, "clientConfig", &d.ClientConfig, `
			SELECT id, name, CAST(analysis_config AS TEXT) AS analysis_config
			FROM admin_configs.client_configurations
			WHERE id = ?
			LIMIT 1`, fc.ClientID)

		var funnel []report.FunnelAdRow
		if withPlatformDetail {
			// one month from the window start, which need not be the 1st
			windowEnd := fc.Range.Start.AddDate(0, 1, 0)

			query(fc, "paidMediaPerformance", &d.PaidMediaPerformance, fmt.Sprintf(`
				SELECT platform,
				       SUM(spend) AS total_spend,
				       SUM(revenue) AS total_revenue,
				       SUM(impressions) AS total_impressions,
				       SUM(clicks) AS total_clicks,
				       SUM(reach) AS total_reach,
				       SUM(purchases) AS total_purchases,
				       AVG(frequency) AS avg_frequency,
				       AVG(conversion_rate) AS avg_conversion_rate,
				       SUM(revenue) / NULLIF(SUM(spend), 0) AS calculated_roas,
				       SUM(spend) / NULLIF(SUM(impressions) / 1000.0, 0) AS calculated_cpm,
				       SUM(spend) / NULLIF(SUM(clicks), 0) AS calculated_cpc,
				       SUM(clicks) * 100.0 / NULLIF(SUM(impressions), 0) AS calculated_ctr
				FROM %s
				WHERE date >= ? AND date < ?
				GROUP BY platform
				ORDER BY platform`, fc.Table("paid_media_performance")),
				fc.Range.StartString(), windowEnd.Format(period.DateLayout))

			query(fc, "funnelAds", &funnel, fmt.Sprintf(`
				SELECT ad_name, recommended_stage, all_star_rank, roas_rank, clicks_rank,
				       efficiency_rank, ctr_rank, conversion_rank, roas, ctr_percent, cpc,
				       image_url, video_id, thumbnail_url, creative_type
				FROM %s
				ORDER BY all_star_rank ASC`, fc.Table("ai_allstar_ad_bundles")))
		}

		if err := fc.wait(); err != nil {
			return nil, err
		}
		if withPlatformDetail {
			d.FunnelAds = report.TopFunnelAds(funnel, 3)
		}
		return d, nil
	}
}

func fetchPlatformDeepDive(ctx context.Context, fc *FetchContext) (report.Data, error) {
	d := &report.PlatformDeepDiveData{}
	start, end := fc.Range.StartString(), fc.Range.EndString()

	query(fc, "campaigns", &d.Campaigns, fmt.Sprintf(`
		SELECT campaign_name,
		       SUM(spend) AS spend, SUM(revenue) AS revenue,
		       SUM(impressions) AS impressions, SUM(clicks) AS clicks,
		       SUM(conversions) AS conversions,
		       SUM(revenue) / NULLIF(SUM(spend), 0) AS roas,
		       SUM(clicks) * 100.0 / NULLIF(SUM(impressions), 0) AS ctr,
		       SUM(conversions) * 100.0 / NULLIF(SUM(clicks), 0) AS cvr
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY campaign_name
		ORDER BY spend DESC
		LIMIT 20`, fc.Table("campaign_performance")), start, end)

	query(fc, "dailyTrend", &d.DailyTrend, fmt.Sprintf(`
		SELECT CAST(date AS TEXT) AS date, SUM(spend) AS spend, SUM(revenue) AS revenue,
		       SUM(clicks) AS clicks, SUM(conversions) AS conversions
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date ASC`, fc.Table("platform_daily_metrics")), start, end)

	return d, fc.wait()
}

func fetchEmailRetention(ctx context.Context, fc *FetchContext) (report.Data, error) {
	d := &report.EmailRetentionData{}
	start, end := fc.Range.StartString(), fc.Range.EndString()

	query(fc, "emailCampaigns", &d.EmailCampaigns, fmt.Sprintf(`
		SELECT campaign_name, sent_count, open_count, click_count, revenue,
		       open_count * 100.0 / NULLIF(sent_count, 0) AS open_rate,
		       click_count * 100.0 / NULLIF(sent_count, 0) AS click_rate
		FROM %s
		WHERE send_date >= ? AND send_date <= ?
		ORDER BY sent_count DESC
		LIMIT 20`, fc.Table("email_campaigns")), start, end)

	query(fc, "retention", &d.Retention, fmt.Sprintf(`
		SELECT CAST(cohort_month AS TEXT) AS cohort_month, customers, repeat_customers,
		       repeat_customers * 100.0 / NULLIF(customers, 0) AS retention_rate
		FROM %s
		ORDER BY cohort_month DESC
		LIMIT 12`, fc.Table("customer_cohorts")))

	return d, fc.wait()
}
