package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rooted/analytics/internal/application/campaign"
)

// CampaignService loads a campaign drill-down
type CampaignService interface {
	Get(ctx context.Context, clientID, name string, days int) (*campaign.Detail, error)
}

// CampaignHandler serves /api/campaign/:name
type CampaignHandler struct {
	BaseHandler
	svc           CampaignService
	defaultClient string
}

// NewCampaignHandler creates a CampaignHandler
func NewCampaignHandler(svc CampaignService, defaultClient string) *CampaignHandler {
	return &CampaignHandler{svc: svc, defaultClient: defaultClient}
}

// GetCampaign handles GET /api/campaign/:name?days=30. A missing or
// malformed days value uses the service default.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	detail, err := h.svc.Get(c.Request.Context(), clientID(c, h.defaultClient), c.Param("name"), days)
	if err != nil {
		h.HandleError(c, err, "Failed to fetch campaign data")
		return
	}
	h.Success(c, detail)
}
