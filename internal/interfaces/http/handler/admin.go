package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/interfaces/http/dto"
)

// CacheClearer flushes the report cache
type CacheClearer interface {
	Clear(ctx context.Context) error
}

// AdminHandler serves /api/admin
type AdminHandler struct {
	BaseHandler
	cache   CacheClearer
	clients *client.Registry
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(cache CacheClearer, clients *client.Registry) *AdminHandler {
	return &AdminHandler{cache: cache, clients: clients}
}

// ClientsResponse is the body of GET /api/admin/clients
type ClientsResponse struct {
	Success bool            `json:"success"`
	Clients []client.Config `json:"clients"`
	Count   int             `json:"count"`
}

// ClearCache handles POST /api/admin/clear-cache
func (h *AdminHandler) ClearCache(c *gin.Context) {
	if err := h.cache.Clear(c.Request.Context()); err != nil {
		h.HandleError(c, err, "Failed to clear cache")
		return
	}
	logger.GetGinLogger(c).Info("Cache cleared", zap.String("request_id", getRequestID(c)))
	h.Success(c, dto.SuccessMessage{Success: true, Message: "Cache cleared"})
}

// ListClients handles GET /api/admin/clients
func (h *AdminHandler) ListClients(c *gin.Context) {
	list := h.clients.List()
	h.Success(c, ClientsResponse{Success: true, Clients: list, Count: len(list)})
}
