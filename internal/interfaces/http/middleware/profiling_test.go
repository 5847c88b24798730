package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
)

func TestProfiling(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type seen struct {
		route, method, clientID string
		labelled                bool
	}

	newEngine := func(cfg ProfilingConfig, got *seen) *gin.Engine {
		engine := gin.New()
		engine.Use(Profiling(cfg, client.MustNewRegistry()))
		handler := func(c *gin.Context) {
			ctx := c.Request.Context()
			got.route, got.labelled = pprof.Label(ctx, telemetry.ProfileLabelRoute)
			got.method, _ = pprof.Label(ctx, telemetry.ProfileLabelMethod)
			got.clientID, _ = pprof.Label(ctx, telemetry.ProfileLabelClientID)
			c.Status(http.StatusNoContent)
		}
		engine.POST("/api/reports/fetch-data", handler)
		engine.GET("/health", handler)
		return engine
	}

	tests := []struct {
		name   string
		cfg    ProfilingConfig
		method string
		path   string
		client string
		want   seen
	}{
		{
			name:   "registered client is labelled",
			cfg:    DefaultProfilingConfig(),
			method: http.MethodPost,
			path:   "/api/reports/fetch-data",
			client: "jumbomax",
			want:   seen{route: "/api/reports/fetch-data", method: "POST", clientID: "jumbomax", labelled: true},
		},
		{
			name:   "unknown client id is left out",
			cfg:    DefaultProfilingConfig(),
			method: http.MethodPost,
			path:   "/api/reports/fetch-data",
			client: "not-a-client",
			want:   seen{route: "/api/reports/fetch-data", method: "POST", labelled: true},
		},
		{
			name:   "skipped path",
			cfg:    DefaultProfilingConfig(),
			method: http.MethodGet,
			path:   "/health",
			client: "hb",
		},
		{
			name:   "disabled",
			cfg:    ProfilingConfig{},
			method: http.MethodPost,
			path:   "/api/reports/fetch-data",
			client: "hb",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got seen
			engine := newEngine(tt.cfg, &got)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(logger.ClientIDHeader, tt.client)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}
