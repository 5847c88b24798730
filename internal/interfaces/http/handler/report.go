package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/application/report"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
)

// ReportService fetches report data sets
type ReportService interface {
	FetchJSON(ctx context.Context, req report.Request) ([]byte, bool, error)
}

// ReportHandler serves POST /api/reports/fetch-data
type ReportHandler struct {
	BaseHandler
	svc           ReportService
	defaultClient string
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(svc ReportService, defaultClient string) *ReportHandler {
	return &ReportHandler{svc: svc, defaultClient: defaultClient}
}

// FetchData handles POST /api/reports/fetch-data {reportType, clientId, period}.
// The client comes from the body, then x-client-id, then the default.
func (h *ReportHandler) FetchData(c *gin.Context) {
	var req report.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.ClientID == "" {
		req.ClientID = clientID(c, h.defaultClient)
	}

	body, hit, err := h.svc.FetchJSON(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err, "Failed to fetch report data")
		return
	}
	logger.GetGinLogger(c).Debug("Report data served",
		zap.String("report_type", req.ReportType),
		zap.Bool("cache_hit", hit))
	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	h.RawJSON(c, body)
}
