// Package report fetches report data sets from the warehouse and renders
// them as markdown for the LLM.
package report

import (
	"context"
	"time"

	"github.com/rooted/analytics/internal/application/markdown"
	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/report"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/infrastructure/cache"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ContextMatcher returns the business context relevant to a window
type ContextMatcher interface {
	Matched(ctx context.Context, clientID string, r period.Range) businesscontext.Matched
}

// Metrics receives report and cache outcomes
type Metrics interface {
	ReportFetched(ctx context.Context, reportType, clientID string, err error)
	CacheLookup(ctx context.Context, operation string, hit bool)
}

// Request selects one report
type Request struct {
	ReportType string `json:"reportType" binding:"required"`
	ClientID   string `json:"clientId"`
	Period     string `json:"period"`
}

// Service dispatches report requests to fetchers
type Service struct {
	warehouse   report.Warehouse
	clients     *client.Registry
	formatters  *markdown.Registry
	fetchers    map[string]FetchFunc
	matcher     ContextMatcher
	metrics     Metrics
	store       cache.Store
	ttl         time.Duration
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCache caches rendered results in store for ttl
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.store = store
		s.ttl = ttl
	}
}

// WithContextMatcher attaches business context to every result
func WithContextMatcher(m ContextMatcher) Option {
	return func(s *Service) { s.matcher = m }
}

// WithMetrics reports fetch outcomes to m
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithConcurrency bounds the queries a single fetch runs at once
func WithConcurrency(n int) Option {
	return func(s *Service) { s.concurrency = n }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithFetcher registers or replaces the fetcher of a report type
func WithFetcher(reportType string, f FetchFunc) Option {
	return func(s *Service) { s.fetchers[reportType] = f }
}

// NewService creates a report service over the built-in fetchers
func NewService(wh report.Warehouse, clients *client.Registry, formatters *markdown.Registry, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		warehouse:   wh,
		clients:     clients,
		formatters:  formatters,
		fetchers:    DefaultFetchers(),
		concurrency: 4,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Types lists the registered report types
func (s *Service) Types() []string {
	types := make([]string, 0, len(s.fetchers))
	for t := range s.fetchers {
		types = append(types, t)
	}
	return types
}

// Fetch loads and formats one report
func (s *Service) Fetch(ctx context.Context, req Request) (result *report.Result, err error) {
	ctx, span := telemetry.StartSpan(ctx, "report", "fetch",
		telemetry.ClientAttr(req.ClientID), telemetry.ReportTypeAttr(req.ReportType), telemetry.PeriodAttr(req.Period))
	defer func() {
		telemetry.EndSpan(span, err)
		if s.metrics != nil {
			s.metrics.ReportFetched(ctx, req.ReportType, req.ClientID, err)
		}
	}()

	cfg, err := s.clients.Get(req.ClientID)
	if err != nil {
		return nil, err
	}
	fetch, ok := s.fetchers[req.ReportType]
	if !ok {
		return nil, shared.ErrUnknownReportType.WithDetails("Unknown report type: " + req.ReportType)
	}

	now := s.now()
	rng := period.Resolve(req.Period, now)
	fc := newFetchContext(ctx, &FetchContext{
		Warehouse: s.warehouse,
		ClientID:  cfg.ID,
		Dataset:   cfg.Dataset,
		Range:     rng,
		Now:       now,
		Logger:    s.logger,
	}, s.concurrency)

	s.logger.Info("Fetching report data",
		zap.String("report_type", req.ReportType),
		zap.String("client_id", cfg.ID),
		zap.String("period", rng.Token),
		zap.String("start", rng.StartString()),
		zap.String("end", rng.EndString()))

	// the fetcher's query goroutines inherit these labels
	var data report.Data
	telemetry.WithProfileLabels(ctx, map[string]string{
		telemetry.ProfileLabelReportType: req.ReportType,
		telemetry.ProfileLabelClientID:   cfg.ID,
	}, func(ctx context.Context) {
		data, err = fetch(ctx, fc)
	})
	if err != nil {
		return nil, err
	}
	if n := fc.Failed(); n > 0 {
		s.logger.Warn("Report served with missing sections",
			zap.String("report_type", req.ReportType),
			zap.String("client_id", cfg.ID),
			zap.Int("failed_queries", n))
	}

	var matched businesscontext.Matched
	if s.matcher != nil {
		matched = s.matcher.Matched(ctx, cfg.ID, rng)
	} else {
		matched = businesscontext.Filter(nil, rng.Start, rng.End)
	}

	s.logger.Debug("Report data fetched",
		zap.String("report_type", req.ReportType),
		zap.Any("rows", data.RowCounts()),
		zap.Int("context_entries", matched.Total()))

	return &report.Result{
		Success:    true,
		ReportType: req.ReportType,
		ClientID:   cfg.ID,
		Period:     rng.Token,
		DateRange: report.DateRange{
			Start: rng.StartString(),
			End:   rng.EndString(),
			SQL:   rng.SQL("date"),
		},
		Data:          data,
		FormattedData: s.formatters.Format(req.ReportType, data, markdown.Options{Symbol: cfg.Symbol(), Context: matched}),
		Context:       matched,
		Timestamp:     now.UTC(),
	}, nil
}

// FetchJSON is Fetch returning the encoded result, served from the cache
// when a fresh copy exists. The boolean reports a cache hit.
func (s *Service) FetchJSON(ctx context.Context, req Request) ([]byte, bool, error) {
	if req.Period == "" {
		req.Period = period.ThirtyDays
	}
	key := cache.Key("report", req.ClientID, req.ReportType, req.Period, s.now().Format(period.DateLayout))
	b, hit, err := cache.Remember(ctx, s.store, key, s.ttl, func(ctx context.Context) (any, error) {
		return s.Fetch(ctx, req)
	})
	if err == nil && s.metrics != nil {
		s.metrics.CacheLookup(ctx, "report", hit)
	}
	return b, hit, err
}
