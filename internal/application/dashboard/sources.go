package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/report"
)

// sameWeekdayLastYear is the offset that keeps weekdays aligned year over year
const sameWeekdayLastYear = 364

// sources runs the dashboard queries against one client dataset
type sources struct {
	wh       report.Warehouse
	dataset  string
	clientID string
}

func (s sources) table(name string) string { return report.Table(s.dataset, name) }

func (s sources) executiveSummary(ctx context.Context) (*report.ExecutiveSummaryRow, error) {
	var rows []report.ExecutiveSummaryRow
	err := s.wh.Select(ctx, &rows, fmt.Sprintf(
		`SELECT * FROM %s ORDER BY report_date DESC LIMIT 1`, s.table("ai_executive_summary")))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (s sources) paidMediaTrend(ctx context.Context, r period.Range) ([]report.TrendPoint, error) {
	rows := []report.TrendPoint{}
	err := s.wh.Select(ctx, &rows, fmt.Sprintf(`
		SELECT CAST(date AS TEXT) AS date, SUM(spend) AS spend, SUM(revenue) AS revenue,
		       SUM(revenue) / NULLIF(SUM(spend), 0) AS roas
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date ASC`, s.table("platform_daily_metrics")), r.StartString(), r.EndString())
	return rows, err
}

func (s sources) dailyRevenue(ctx context.Context, r period.Range) ([]report.DailyRevenueRow, error) {
	var rows []report.DailyRevenueRow
	err := s.wh.Select(ctx, &rows, fmt.Sprintf(`
		SELECT CAST(date AS TEXT) AS date, SUM(total_revenue) AS revenue
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date ASC`, s.table("daily_performance")), r.StartString(), r.EndString())
	return rows, err
}

// revenueYoY pairs each day of r with the same weekday one year earlier
func (s sources) revenueYoY(ctx context.Context, r period.Range) ([]report.RevenueYoYPoint, error) {
	current, err := s.dailyRevenue(ctx, r)
	if err != nil {
		return nil, err
	}
	lastYear := period.Range{
		Start: r.Start.AddDate(0, 0, -sameWeekdayLastYear),
		End:   r.End.AddDate(0, 0, -sameWeekdayLastYear),
	}
	previous, err := s.dailyRevenue(ctx, lastYear)
	if err != nil {
		return nil, err
	}
	return zipYoY(current, previous), nil
}

func zipYoY(current, previous []report.DailyRevenueRow) []report.RevenueYoYPoint {
	byDate := make(map[string]*float64, len(previous))
	for _, p := range previous {
		byDate[dayKey(p.Date)] = p.Revenue
	}
	out := make([]report.RevenueYoYPoint, 0, len(current))
	for _, c := range current {
		point := report.RevenueYoYPoint{Date: dayKey(c.Date), Revenue: c.Revenue}
		if d, err := time.Parse(period.DateLayout, point.Date); err == nil {
			point.RevenueLastYear = byDate[d.AddDate(0, 0, -sameWeekdayLastYear).Format(period.DateLayout)]
		}
		out = append(out, point)
	}
	return out
}

// dayKey trims timestamps some drivers return for DATE columns
func dayKey(s string) string {
	if len(s) > len(period.DateLayout) {
		return s[:len(period.DateLayout)]
	}
	return s
}

func (s sources) forecast(ctx context.Context, today time.Time) (*report.ForecastRow, error) {
	var rows []report.ForecastRow
	err := s.wh.Select(ctx, &rows, fmt.Sprintf(`
		SELECT SUM(forecasted_revenue) AS total_forecasted,
		       SUM(lower_bound) AS lower_bound,
		       SUM(upper_bound) AS upper_bound,
		       SUM(suggested_spend) AS suggested_spend,
		       AVG(expected_roas) AS expected_roas,
		       COUNT(*) AS forecast_days
		FROM %s
		WHERE forecast_date > ?`, s.table("revenue_forecast_7day")), today.Format(period.DateLayout))
	if err != nil || len(rows) == 0 || rows[0].ForecastDays == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (s sources) analysisConfig(ctx context.Context) (*report.AnalysisConfig, error) {
	var rows []report.ClientConfigRow
	err := s.wh.Select(ctx, &rows, `
		SELECT id, name, CAST(analysis_config AS TEXT) AS analysis_config
		FROM admin_configs.client_configurations
		WHERE id = ?
		LIMIT 1`, s.clientID)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	cfg, err := rows[0].Parse()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s sources) businessContextIndex(ctx context.Context) (*report.BusinessContextIndexRow, error) {
	var rows []report.BusinessContextIndexRow
	err := s.wh.Select(ctx, &rows, fmt.Sprintf(`
		SELECT CAST(report_date AS TEXT) AS report_date, business_health_index, revenue_trend,
		       demand_trend, search_impressions_7d_avg, search_demand_yoy_change_pct,
		       brand_impressions_30d_avg, yoy_status, revenue_yoy_change_pct,
		       orders_yoy_change_pct, revenue_7d_avg, revenue_30d_avg
		FROM %s
		ORDER BY report_date DESC
		LIMIT 1`, s.table("business_context_index")))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (s sources) funnelBundles(ctx context.Context, goal, country string) ([]report.FunnelAdRow, error) {
	rows := []report.FunnelAdRow{}
	err := s.wh.Select(ctx, &rows, fmt.Sprintf(`
		SELECT ad_name, recommended_stage, all_star_rank, roas_rank, clicks_rank,
		       efficiency_rank, ctr_rank, conversion_rank, roas, ctr_percent, cpc,
		       image_url, video_id, thumbnail_url, creative_type
		FROM %s
		WHERE optimization_goal = ? AND country = ?
		ORDER BY all_star_rank ASC`, s.table("ai_allstar_ad_bundles")), goal, country)
	return rows, err
}

// rangeTotals aggregates store, platform and email figures over r
type rangeTotals struct {
	store     report.RangeTotalsRow
	platforms []report.PlatformTotalsRow
	email     report.RangeTotalsRow
}

func (t rangeTotals) empty() bool {
	return t.store.Revenue == nil && len(t.platforms) == 0
}

// platform sums the rows whose name contains any of the needles
func (t rangeTotals) platform(needles ...string) (spend, revenue float64) {
	for _, p := range t.platforms {
		name := strings.ToLower(p.Platform)
		for _, n := range needles {
			if strings.Contains(name, n) {
				spend += report.Value(p.Spend)
				revenue += report.Value(p.Revenue)
				break
			}
		}
	}
	return spend, revenue
}

func (t rangeTotals) blendedSpend() float64 {
	var total float64
	for _, p := range t.platforms {
		total += report.Value(p.Spend)
	}
	return total
}

func (s sources) rangeTotals(ctx context.Context, r period.Range) (rangeTotals, error) {
	var t rangeTotals
	var store []report.RangeTotalsRow
	if err := s.wh.Select(ctx, &store, fmt.Sprintf(`
		SELECT SUM(total_revenue) AS revenue, SUM(total_orders) AS orders, COUNT(DISTINCT date) AS days
		FROM %s
		WHERE date >= ? AND date <= ?`, s.table("daily_performance")), r.StartString(), r.EndString()); err != nil {
		return t, err
	}
	if len(store) > 0 {
		t.store = store[0]
	}

	if err := s.wh.Select(ctx, &t.platforms, fmt.Sprintf(`
		SELECT platform, SUM(spend) AS spend, SUM(revenue) AS revenue
		FROM %s
		WHERE date >= ? AND date <= ?
		GROUP BY platform`, s.table("platform_daily_metrics")), r.StartString(), r.EndString()); err != nil {
		return t, err
	}

	var email []report.RangeTotalsRow
	if err := s.wh.Select(ctx, &email, fmt.Sprintf(`
		SELECT SUM(revenue) AS revenue
		FROM %s
		WHERE send_date >= ? AND send_date <= ?`, s.table("email_campaigns")), r.StartString(), r.EndString()); err == nil && len(email) > 0 {
		t.email = email[0]
	}
	return t, nil
}
