package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/rooted/analytics/internal/application/dashboard"
	"github.com/rooted/analytics/internal/domain/period"
)

// DashboardService builds the dashboard payloads
type DashboardService interface {
	BuildJSON(ctx context.Context, clientID, token string) ([]byte, error)
	BuildRangeJSON(ctx context.Context, clientID string, r period.Range) ([]byte, error)
	Funnel(ctx context.Context, clientID, goal, country string) (*dashboard.FunnelResponse, error)
}

// DashboardHandler serves /api/dashboard
type DashboardHandler struct {
	BaseHandler
	svc           DashboardService
	defaultClient string
}

// NewDashboardHandler creates a DashboardHandler. Requests without
// x-client-id fall back to defaultClient where the route allows it.
func NewDashboardHandler(svc DashboardService, defaultClient string) *DashboardHandler {
	return &DashboardHandler{svc: svc, defaultClient: defaultClient}
}

// GetDashboard handles GET /api/dashboard?period=7d|mtd|30d|ytd
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	body, err := h.svc.BuildJSON(c.Request.Context(), clientID(c, h.defaultClient), c.Query("period"))
	if err != nil {
		h.HandleError(c, err, "Failed to fetch dashboard data")
		return
	}
	h.RawJSON(c, body)
}

// GetCustomRange handles GET /api/dashboard/custom-range?startDate&endDate
func (h *DashboardHandler) GetCustomRange(c *gin.Context) {
	id, ok := h.RequireClientID(c)
	if !ok {
		return
	}
	r, err := period.ParseCustom(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.HandleError(c, err, "")
		return
	}
	body, err := h.svc.BuildRangeJSON(c.Request.Context(), id, r)
	if err != nil {
		h.HandleError(c, err, "Failed to fetch custom range data")
		return
	}
	h.RawJSON(c, body)
}

// GetFunnel handles GET /api/dashboard/funnel?goal&country
func (h *DashboardHandler) GetFunnel(c *gin.Context) {
	resp, err := h.svc.Funnel(c.Request.Context(), clientID(c, h.defaultClient), c.Query("goal"), c.Query("country"))
	if err != nil {
		h.HandleError(c, err, "Failed to fetch funnel optimization data")
		return
	}
	h.Success(c, resp)
}
