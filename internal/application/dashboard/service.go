// Package dashboard assembles the KPI dashboard from the analytics warehouse
package dashboard

import (
	"context"
	"time"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/report"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/infrastructure/cache"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoSummary is returned when the executive summary table is empty
	ErrNoSummary = shared.ErrNotFound.WithMessage("No executive summary data available")
	// ErrNoRangeData is returned when a custom range has no data
	ErrNoRangeData = shared.ErrNotFound.WithMessage("No data available for the selected date range")
)

// Funnel defaults
const (
	DefaultFunnelGoal    = "composite"
	DefaultFunnelCountry = "United States"
)

// CacheMetrics receives cache outcomes
type CacheMetrics interface {
	CacheLookup(ctx context.Context, operation string, hit bool)
}

// Service builds dashboard payloads
type Service struct {
	warehouse report.Warehouse
	clients   *client.Registry
	store     cache.Store
	ttl       time.Duration
	metrics   CacheMetrics
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCache caches encoded payloads in store for ttl
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.store = store
		s.ttl = ttl
	}
}

// WithMetrics reports cache hits to m
func WithMetrics(m CacheMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a dashboard service
func NewService(wh report.Warehouse, clients *client.Registry, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{warehouse: wh, clients: clients, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) sources(cfg client.Config) sources {
	return sources{wh: s.warehouse, dataset: cfg.Dataset, clientID: cfg.ID}
}

// optional logs a failed secondary source. The dashboard renders without it
// and the payload is kept out of the cache.
func (s *Service) optional(ctx context.Context, name, clientID string, err error) {
	if err != nil {
		cache.SkipStore(ctx)
		s.logger.Warn("Dashboard source failed",
			zap.String("source", name),
			zap.String("client_id", clientID),
			zap.Error(err))
	}
}

// targets resolves gauge targets: warehouse analysis config first, then the
// client registry, then fallbacks derived from current revenue
func (s *Service) targets(cfg client.Config, ac *report.AnalysisConfig, month int, revenue float64) targets {
	t := targets{revenue: cfg.RevenueTarget(month), roas: cfg.Dashboard.MonthlyROASTarget}
	if ac != nil {
		switch n := len(ac.MonthlyRevenueTargets); {
		case n == 1:
			t.revenue = ac.MonthlyRevenueTargets[0]
		case n > month:
			t.revenue = ac.MonthlyRevenueTargets[month]
		}
		if ac.MonthlyROASTarget != nil && *ac.MonthlyROASTarget > 0 {
			t.roas = *ac.MonthlyROASTarget
		}
	}
	if t.revenue <= 0 {
		t.revenue = revenue * 1.1
	}
	if t.roas <= 0 {
		t.roas = defaultROASTarget
	}
	return t
}

// Build assembles the standard dashboard for a period token
func (s *Service) Build(ctx context.Context, clientID, token string) (_ *Response, err error) {
	ctx, span := telemetry.StartSpan(ctx, "dashboard", "build", telemetry.ClientAttr(clientID), telemetry.PeriodAttr(token))
	defer func() { telemetry.EndSpan(span, err) }()

	cfg, err := s.clients.Get(clientID)
	if err != nil {
		return nil, err
	}
	if !period.IsDashboardToken(token) {
		token = period.SevenDays
	}
	now := s.now()
	days := period.DashboardDays(token, now)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	lookback := period.Range{Token: token, Start: today.AddDate(0, 0, -days), End: today}
	src := s.sources(cfg)

	var (
		summary  *report.ExecutiveSummaryRow
		trend    []report.TrendPoint
		yoy      []report.RevenueYoYPoint
		forecast *report.ForecastRow
		ac       *report.AnalysisConfig
		idx      *report.BusinessContextIndexRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, err = src.executiveSummary(gctx)
		return err
	})
	g.Go(func() (err error) {
		trend, err = src.paidMediaTrend(gctx, lookback)
		s.optional(gctx, "paidMediaTrend", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		yoy, err = src.revenueYoY(gctx, lookback)
		s.optional(gctx, "revenueYoY", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		forecast, err = src.forecast(gctx, today)
		s.optional(gctx, "forecast", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		ac, err = src.analysisConfig(gctx)
		s.optional(gctx, "analysisConfig", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		idx, err = src.businessContextIndex(gctx)
		s.optional(gctx, "businessContextIndex", cfg.ID, err)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrNoSummary
	}

	t := s.targets(cfg, ac, int(now.Month())-1, report.Value(summary.RevenueMTD))
	s.logger.Debug("Dashboard targets",
		zap.String("client_id", cfg.ID),
		zap.Float64("revenue_target", t.revenue),
		zap.Float64("roas_target", t.roas))

	kpis := summaryKPIs(summary, t, cfg.HasEmail)
	applyIndex(&kpis, forecast, idx)

	return &Response{KPIs: kpis, Charts: charts(trend, yoy)}, nil
}

// BuildRange assembles the dashboard for an explicit date range
func (s *Service) BuildRange(ctx context.Context, clientID string, r period.Range) (_ *CustomResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "dashboard", "build_range",
		telemetry.ClientAttr(clientID), telemetry.PeriodAttr(r.StartString()+".."+r.EndString()))
	defer func() { telemetry.EndSpan(span, err) }()

	cfg, err := s.clients.Get(clientID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	src := s.sources(cfg)

	var (
		cur, prev rangeTotals
		trend     []report.TrendPoint
		yoy       []report.RevenueYoYPoint
		forecast  *report.ForecastRow
		ac        *report.AnalysisConfig
		idx       *report.BusinessContextIndexRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cur, err = src.rangeTotals(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		prev, err = src.rangeTotals(gctx, r.YearAgo())
		s.optional(gctx, "rangeTotalsYearAgo", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		trend, err = src.paidMediaTrend(gctx, r)
		s.optional(gctx, "paidMediaTrend", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		yoy, err = src.revenueYoY(gctx, r)
		s.optional(gctx, "revenueYoY", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		forecast, err = src.forecast(gctx, today)
		s.optional(gctx, "forecast", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		ac, err = src.analysisConfig(gctx)
		s.optional(gctx, "analysisConfig", cfg.ID, err)
		return nil
	})
	g.Go(func() (err error) {
		idx, err = src.businessContextIndex(gctx)
		s.optional(gctx, "businessContextIndex", cfg.ID, err)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if cur.empty() {
		return nil, ErrNoRangeData
	}

	days := r.DaysInclusive()
	if cur.store.Days != nil && *cur.store.Days > 0 {
		days = *cur.store.Days
	}
	summary := summarize(cur, prev, days)
	t := s.targets(cfg, ac, int(now.Month())-1, summary.Revenue)

	kpis := rangeKPIs(summary, t, cfg.HasEmail)
	applyIndex(&kpis, forecast, idx)

	return &CustomResponse{
		KPIs: CustomKPIs{KPIs: kpis},
		DateRange: DateRange{
			StartDate:    r.StartString(),
			EndDate:      r.EndString(),
			DaysInPeriod: summary.DaysInPeriod,
		},
		Charts: CustomCharts{
			Charts:             charts(trend, yoy),
			RevenueTrend:       []report.TrendPoint{},
			ChannelPerformance: []ChannelValue{},
		},
	}, nil
}

// Funnel returns the top ad bundles per funnel stage for an optimisation goal
func (s *Service) Funnel(ctx context.Context, clientID, goal, country string) (*FunnelResponse, error) {
	cfg, err := s.clients.Get(clientID)
	if err != nil {
		return nil, err
	}
	if goal == "" {
		goal = DefaultFunnelGoal
	}
	if country == "" {
		country = DefaultFunnelCountry
	}
	rows, err := s.sources(cfg).funnelBundles(ctx, goal, country)
	if err != nil {
		return nil, err
	}
	return &FunnelResponse{Goal: goal, Country: country, Bundles: report.TopFunnelAds(rows, 3)}, nil
}

func charts(trend []report.TrendPoint, yoy []report.RevenueYoYPoint) Charts {
	if trend == nil {
		trend = []report.TrendPoint{}
	}
	if yoy == nil {
		yoy = []report.RevenueYoYPoint{}
	}
	return Charts{PaidMediaTrend: trend, ShopifyRevenueYoY: yoy}
}

func (s *Service) remember(ctx context.Context, key string, load func(context.Context) (any, error)) ([]byte, error) {
	b, hit, err := cache.Remember(ctx, s.store, key, s.ttl, load)
	if err == nil && s.metrics != nil {
		s.metrics.CacheLookup(ctx, "dashboard", hit)
	}
	return b, err
}

// BuildJSON is Build with the encoded payload cached per client, period and day
func (s *Service) BuildJSON(ctx context.Context, clientID, token string) ([]byte, error) {
	if !period.IsDashboardToken(token) {
		token = period.SevenDays
	}
	key := cache.Key("dashboard", clientID, token, s.now().Format(period.DateLayout))
	return s.remember(ctx, key, func(ctx context.Context) (any, error) {
		return s.Build(ctx, clientID, token)
	})
}

// BuildRangeJSON is BuildRange with the encoded payload cached per client and range
func (s *Service) BuildRangeJSON(ctx context.Context, clientID string, r period.Range) ([]byte, error) {
	key := cache.Key("dashboard", clientID, period.Custom, r.StartString(), r.EndString(), s.now().Format(period.DateLayout))
	return s.remember(ctx, key, func(ctx context.Context) (any, error) {
		return s.BuildRange(ctx, clientID, r)
	})
}
