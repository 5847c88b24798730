package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/infrastructure/persistence"
)

// WarehouseHealth is the part of the warehouse connection the health check
// needs
type WarehouseHealth interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler serves liveness and build information
type SystemHandler struct {
	BaseHandler
	warehouse WarehouseHealth
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a SystemHandler. warehouse may be nil.
func NewSystemHandler(warehouse WarehouseHealth, name, version string) *SystemHandler {
	return &SystemHandler{
		warehouse: warehouse,
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string                       `json:"status"`
	Warehouse string                       `json:"warehouse"`
	Pool      *persistence.ConnectionStats `json:"pool,omitempty"`
	Uptime    string                       `json:"uptime"`
	Timestamp string                       `json:"timestamp"`
}

// SystemInfoResponse is the body of GET /api/system/info
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health handles GET /health. A failed warehouse ping answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Warehouse: "unconfigured",
		Uptime:    h.uptime(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if h.warehouse != nil {
		if err := h.warehouse.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Warehouse ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Warehouse = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Warehouse = "ok"
			if stats, err := h.warehouse.Stats(); err == nil {
				resp.Pool = &stats
			}
		}
	}
	c.JSON(status, resp)
}

// GetSystemInfo handles GET /api/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    h.uptime(),
	})
}

func (h *SystemHandler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}
