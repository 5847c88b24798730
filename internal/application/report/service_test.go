package report

import (
	"context"
	"encoding/json"
	"errors"
	"runtime/pprof"
	"testing"
	"time"

	"github.com/rooted/analytics/internal/application/markdown"
	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/report"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) ReportFetched(ctx context.Context, reportType, clientID string, err error) {
	m.Called(ctx, reportType, clientID, err)
}

func (m *MockMetrics) CacheLookup(ctx context.Context, operation string, hit bool) {
	m.Called(ctx, operation, hit)
}

type staticMatcher struct{ entries []businesscontext.Entry }

func (s staticMatcher) Matched(_ context.Context, _ string, r period.Range) businesscontext.Matched {
	return businesscontext.FilterRange(s.entries, r)
}

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

var fixedNow = time.Date(2025, time.October, 15, 9, 0, 0, 0, time.UTC)

func newTestService(wh report.Warehouse, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(wh, client.MustNewRegistry(), markdown.NewRegistry(), zap.NewNop(), opts...)
}

func TestService_Fetch_MonthlyPerformance(t *testing.T) {
	wh := newFakeWarehouse().
		on("monthly_business_summary", []report.MonthlyBusinessSummaryRow{
			{Month: "2025-09", MonthlyGrossSales: f(100000), MonthlyOrders: f(500)},
		}).
		on("ai_intelligent_campaign_analysis", []report.CampaignAnalysisRow{
			{CampaignName: "Brand Search", Spend30d: f(0), Revenue30d: f(1200), ROAS30d: nil},
		})

	res, err := newTestService(wh).Fetch(context.Background(), Request{
		ReportType: report.TypeMonthlyPerformance, ClientID: "jumbomax", Period: period.PreviousMonth,
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "jumbomax", res.ClientID)
	assert.Equal(t, period.PreviousMonth, res.Period)
	assert.Equal(t, report.DateRange{
		Start: "2025-09-01",
		End:   "2025-09-30",
		SQL:   "date >= '2025-09-01' AND date <= '2025-09-30'",
	}, res.DateRange)

	assert.Contains(t, res.FormattedData, "# PRE-FETCHED DATA")
	assert.Contains(t, res.FormattedData, "| 2025-09 | $100,000 |")
	assert.Contains(t, res.FormattedData, "| 500 | $200.00 |")
	assert.NotContains(t, res.FormattedData, "NaN")
	assert.NotContains(t, res.FormattedData, "Inf")

	data, ok := res.Data.(*report.MonthlyData)
	require.True(t, ok)
	assert.NotNil(t, data.ExecutiveSummary, "failed queries default to empty slices")
	assert.Empty(t, data.ExecutiveSummary)
	assert.Nil(t, data.FunnelAds)

	calls := wh.callsTo("monthly_business_summary")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"2025-10-01"}, calls[0].args, "only completed months are summarised")
	assert.Contains(t, calls[0].sql, "jumbomax_analytics.monthly_business_summary")
}

func TestService_Fetch_PlatformDetail(t *testing.T) {
	wh := newFakeWarehouse().
		on("paid_media_performance", []report.PaidMediaPerformanceRow{
			{Platform: "Facebook", TotalSpend: f(1000), TotalImpressions: f(200000), CalculatedCPM: f(5)},
		}).
		on("ai_allstar_ad_bundles", []report.FunnelAdRow{
			{AdName: "a", RecommendedStage: "TOFU", AllStarRank: i(1)},
			{AdName: "b", RecommendedStage: "TOFU", AllStarRank: i(2)},
			{AdName: "c", RecommendedStage: "TOFU", AllStarRank: i(3)},
			{AdName: "d", RecommendedStage: "TOFU", AllStarRank: i(4)},
			{AdName: "e", RecommendedStage: "BOFU", AllStarRank: i(5)},
		}).
		on("monthly_executive_report", []report.MonthlyExecutiveRow{{ReportMonth: "2025-09-01"}})

	res, err := newTestService(wh).Fetch(context.Background(), Request{
		ReportType: report.TypeHBMonthlyPerformance, ClientID: "hb", Period: period.PreviousMonth,
	})
	require.NoError(t, err)

	data := res.Data.(*report.MonthlyData)
	assert.Len(t, data.FunnelAds["TOFU"], 3)
	assert.Len(t, data.FunnelAds["BOFU"], 1)
	assert.Empty(t, data.FunnelAds["MOFU"])
	assert.Len(t, data.PaidMediaPerformance, 1)

	calls := wh.callsTo("paid_media_performance")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"2025-09-01", "2025-10-01"}, calls[0].args)
	assert.Contains(t, calls[0].sql, "hb_analytics.paid_media_performance")
	assert.Contains(t, res.FormattedData, "# REPORT MONTH: September 2025")
}

func TestService_Fetch_WeeklyExecutive(t *testing.T) {
	wh := newFakeWarehouse().
		on("daily_performance", []report.RevenueRow{{Date: "2025-10-14", Revenue: f(5000), Orders: f(20)}}).
		on("platform_daily_metrics", []report.PlatformPerformanceRow{{Platform: "Google Ads", Spend: f(0), Revenue: f(0)}})

	res, err := newTestService(wh).Fetch(context.Background(), Request{
		ReportType: report.TypeWeeklyExecutive, ClientID: "puttout", Period: period.SevenDays,
	})
	require.NoError(t, err)

	data := res.Data.(*report.WeeklyExecutiveData)
	assert.Len(t, data.Revenue, 1)
	assert.Empty(t, data.TopProducts)
	assert.Equal(t, map[string]int{"revenue": 1, "platformPerformance": 1, "topProducts": 0}, data.RowCounts())

	calls := wh.callsTo("daily_performance")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"2025-10-08", "2025-10-15"}, calls[0].args)
	assert.Contains(t, res.FormattedData, "```json")
}

func TestService_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"unknown client", Request{ReportType: report.TypeWeeklyExecutive, ClientID: "nope"}, shared.ErrUnknownClient},
		{"unknown report type", Request{ReportType: "quarterly", ClientID: "jumbomax"}, shared.ErrUnknownReportType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wh := newFakeWarehouse()
			metrics := new(MockMetrics)
			metrics.On("ReportFetched", mock.Anything, tt.req.ReportType, tt.req.ClientID, mock.Anything).Return()

			_, err := newTestService(wh, WithMetrics(metrics)).Fetch(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Zero(t, wh.count())
			metrics.AssertExpectations(t)
		})
	}
}

func TestService_Fetch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(newFakeWarehouse()).Fetch(ctx, Request{
		ReportType: report.TypeEmailRetention, ClientID: "jumbomax", Period: period.ThirtyDays,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Fetch_BusinessContext(t *testing.T) {
	end := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
	matcher := staticMatcher{entries: []businesscontext.Entry{{
		Title: "Site outage", Category: "site_issue", Magnitude: businesscontext.MagnitudeMajor,
		StartDate: time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), EndDate: &end,
	}}}

	res, err := newTestService(newFakeWarehouse(), WithContextMatcher(matcher)).Fetch(context.Background(), Request{
		ReportType: report.TypePlatformDeepDive, ClientID: "jumbomax", Period: period.SevenDays,
	})
	require.NoError(t, err)
	require.Len(t, res.Context.Direct, 1)
	assert.Contains(t, res.FormattedData, "## BUSINESS CONTEXT")
	assert.Contains(t, res.FormattedData, "**Site outage**")
}

func TestService_FetchJSON_Caches(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()

	wh := newFakeWarehouse().
		on("email_campaigns", []report.EmailCampaignRow{{CampaignName: "Welcome"}}).
		on("customer_cohorts", []report.RetentionRow{})
	metrics := new(MockMetrics)
	metrics.On("ReportFetched", mock.Anything, report.TypeEmailRetention, "jumbomax", nil).Return().Once()
	metrics.On("CacheLookup", mock.Anything, "report", false).Return().Once()
	metrics.On("CacheLookup", mock.Anything, "report", true).Return().Once()

	svc := newTestService(wh, WithCache(store, time.Minute), WithMetrics(metrics))
	req := Request{ReportType: report.TypeEmailRetention, ClientID: "jumbomax"}

	first, hit, err := svc.FetchJSON(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, hit)
	calls := wh.count()

	second, hit, err := svc.FetchJSON(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, wh.count(), "cache hit must not query the warehouse")

	var decoded struct {
		Success bool   `json:"success"`
		Period  string `json:"period"`
		Data    struct {
			EmailCampaigns []report.EmailCampaignRow `json:"emailCampaigns"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(first, &decoded))
	assert.True(t, decoded.Success)
	assert.Equal(t, period.ThirtyDays, decoded.Period)
	assert.Len(t, decoded.Data.EmailCampaigns, 1)
	metrics.AssertExpectations(t)
}

func TestService_Fetch_Tables(t *testing.T) {
	monthly := []string{
		"admin_configs.client_configurations",
		"jumbomax_analytics.ai_executive_summary",
		"jumbomax_analytics.ai_intelligent_campaign_analysis",
		"jumbomax_analytics.bayesian_annual_probability_forecast",
		"jumbomax_analytics.monthly_business_summary",
		"jumbomax_analytics.monthly_executive_report",
		"jumbomax_analytics.product_intelligence",
	}
	tests := []struct {
		reportType string
		clientID   string
		want       []string
	}{
		{report.TypeMonthlyPerformance, "jumbomax", monthly},
		{report.TypeHBMonthlyPerformance, "hb", []string{
			"admin_configs.client_configurations",
			"hb_analytics.ai_allstar_ad_bundles",
			"hb_analytics.ai_executive_summary",
			"hb_analytics.ai_intelligent_campaign_analysis",
			"hb_analytics.bayesian_annual_probability_forecast",
			"hb_analytics.monthly_business_summary",
			"hb_analytics.monthly_executive_report",
			"hb_analytics.paid_media_performance",
			"hb_analytics.product_intelligence",
		}},
		{report.TypeWeeklyExecutive, "jumbomax", []string{
			"jumbomax_analytics.daily_performance",
			"jumbomax_analytics.platform_daily_metrics",
			"jumbomax_analytics.product_performance",
		}},
		{report.TypePlatformDeepDive, "jumbomax", []string{
			"jumbomax_analytics.campaign_performance",
			"jumbomax_analytics.platform_daily_metrics",
		}},
		{report.TypeEmailRetention, "jumbomax", []string{
			"jumbomax_analytics.customer_cohorts",
			"jumbomax_analytics.email_campaigns",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.reportType, func(t *testing.T) {
			wh := newFakeWarehouse()
			_, err := newTestService(wh).Fetch(context.Background(), Request{
				ReportType: tt.reportType, ClientID: tt.clientID, Period: period.PreviousMonth,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, wh.tables())
		})
	}
}

func TestService_FetchJSON_DegradedNotCached(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()

	wh := newFakeWarehouse().on("email_campaigns", []report.EmailCampaignRow{{CampaignName: "Welcome"}})
	svc := newTestService(wh, WithCache(store, time.Minute))
	req := Request{ReportType: report.TypeEmailRetention, ClientID: "jumbomax"}

	_, hit, err := svc.FetchJSON(context.Background(), req)
	require.NoError(t, err, "a failed section still yields a report")
	assert.False(t, hit)
	assert.Zero(t, store.Len(), "partial payloads are not cached")

	wh.on("customer_cohorts", []report.RetentionRow{{CohortMonth: "2025-09"}})
	calls := wh.count()

	body, hit, err := svc.FetchJSON(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, hit, "recovered warehouse must be queried again")
	assert.Greater(t, wh.count(), calls)
	assert.Equal(t, 1, store.Len())
	assert.Contains(t, string(body), "2025-09")

	_, hit, err = svc.FetchJSON(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestService_Fetch_ProfileLabels(t *testing.T) {
	var reportType, clientID string
	labelled := func(ctx context.Context, _ *FetchContext) (report.Data, error) {
		reportType, _ = pprof.Label(ctx, "report_type")
		clientID, _ = pprof.Label(ctx, "client_id")
		return &report.EmailRetentionData{}, nil
	}

	_, err := newTestService(newFakeWarehouse(), WithFetcher(report.TypeEmailRetention, labelled)).
		Fetch(context.Background(), Request{ReportType: report.TypeEmailRetention, ClientID: "hb"})
	require.NoError(t, err)
	assert.Equal(t, report.TypeEmailRetention, reportType)
	assert.Equal(t, "hb", clientID)
}

func TestService_Fetch_PaidMediaWindow(t *testing.T) {
	tests := []struct {
		period string
		want   []any
	}{
		{period.PreviousMonth, []any{"2025-09-01", "2025-10-01"}},
		{period.ThirtyDays, []any{"2025-09-15", "2025-10-15"}},
		{period.SevenDays, []any{"2025-10-08", "2025-11-08"}},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			wh := newFakeWarehouse()
			_, err := newTestService(wh).Fetch(context.Background(), Request{
				ReportType: report.TypeHBMonthlyPerformance, ClientID: "hb", Period: tt.period,
			})
			require.NoError(t, err)

			calls := wh.callsTo("paid_media_performance")
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].args, "one month from the window start")
		})
	}
}
