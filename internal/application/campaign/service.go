// Package campaign serves the single-campaign drill-down
package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/report"
	"github.com/rooted/analytics/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDays is the timeseries window when none is requested
const DefaultDays = 30

// ErrCampaignNotFound is returned when the analysis table has no row for the campaign
var ErrCampaignNotFound = shared.ErrNotFound.WithMessage("Campaign not found")

// Service loads campaign analysis, timeseries and business context
type Service struct {
	warehouse report.Warehouse
	clients   *client.Registry
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates a campaign service
func NewService(wh report.Warehouse, clients *client.Registry, logger *zap.Logger) *Service {
	return &Service{warehouse: wh, clients: clients, now: time.Now, logger: logger}
}

// Get loads the drill-down for one campaign. days < 1 uses DefaultDays.
// All three queries must succeed.
func (s *Service) Get(ctx context.Context, clientID, name string, days int) (*Detail, error) {
	dataset, err := s.clients.Dataset(clientID)
	if err != nil {
		return nil, err
	}
	if days < 1 {
		days = DefaultDays
	}
	since := s.now().UTC().AddDate(0, 0, -days).Format(period.DateLayout)

	var (
		analysis []Analysis
		detail   = &Detail{Timeseries: []Day{}}
		contexts []Context
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.warehouse.Select(gctx, &analysis, fmt.Sprintf(`
			SELECT * FROM %s
			WHERE campaign_name = ?
			ORDER BY report_date DESC
			LIMIT 1`, report.Table(dataset, "ai_intelligent_campaign_analysis")), name)
	})
	g.Go(func() error {
		return s.warehouse.Select(gctx, &detail.Timeseries, fmt.Sprintf(`
			SELECT CAST(date AS TEXT) AS date,
			       SUM(spend) AS daily_spend,
			       SUM(revenue) / NULLIF(SUM(spend), 0) AS daily_roas,
			       AVG(roas_7d_avg) AS roas_7d_avg,
			       AVG(roas_30d_avg) AS roas_30d_avg
			FROM %s
			WHERE campaign_name = ? AND date >= ?
			GROUP BY date
			ORDER BY date ASC`, report.Table(dataset, "campaign_performance")), name, since)
	})
	g.Go(func() error {
		return s.warehouse.Select(gctx, &contexts, fmt.Sprintf(`
			SELECT * FROM %s
			WHERE campaign_name = ?
			ORDER BY report_date DESC
			LIMIT 1`, report.Table(dataset, "contextualized_campaign_performance")), name)
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to fetch campaign data",
			zap.String("client_id", clientID),
			zap.String("campaign", name),
			zap.Error(err))
		return nil, fmt.Errorf("campaign %q: %w", name, err)
	}
	if len(analysis) == 0 {
		return nil, ErrCampaignNotFound
	}

	detail.Analysis = &analysis[0]
	if len(contexts) > 0 {
		detail.ContextualData = &contexts[0]
	}
	if detail.Timeseries == nil {
		detail.Timeseries = []Day{}
	}
	return detail, nil
}
