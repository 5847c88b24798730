package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are served without labels
	SkipPaths []string
}

// DefaultProfilingConfig skips the health check
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health"},
	}
}

// Profiling labels the CPU and allocation samples taken while a request is
// handled with its route pattern, method and client. Only registered
// client ids are used so the header cannot mint new label values.
func Profiling(cfg ProfilingConfig, clients *client.Registry) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || slices.Contains(cfg.SkipPaths, route) {
			c.Next()
			return
		}

		var clientID string
		if id := c.GetHeader(logger.ClientIDHeader); clients != nil && clients.IsValid(id) {
			clientID = id
		}

		labels := telemetry.RequestProfileLabels(route, c.Request.Method, clientID)
		telemetry.WithProfileLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
