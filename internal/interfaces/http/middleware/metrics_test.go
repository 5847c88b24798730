package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/rooted/analytics/internal/domain/client"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(t.Context()) })
	return mp, reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func metricsRouter(t *testing.T) (*gin.Engine, *sdkmetric.ManualReader) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(mp.Meter("http.server"), client.MustNewRegistry()))
	router.GET("/api/campaign/:name", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"campaign": c.Param("name")})
	})
	router.POST("/api/reports/fetch-data", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report data"})
	})
	return router, reader
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(HTTPMetrics(nil, nil))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetrics_RequestCounter(t *testing.T) {
	router, reader := metricsRouter(t)

	for _, name := range []string{"spring", "summer", "fall"} {
		req := httptest.NewRequest(http.MethodGet, "/api/campaign/"+name, nil)
		req.Header.Set("x-client-id", "jumbomax")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/reports/fetch-data", strings.NewReader(`{}`))
	req.Header.Set("x-client-id", "not-a-client")
	router.ServeHTTP(httptest.NewRecorder(), req)

	m := collectMetric(t, reader, "http_server_request_total")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	byRoute := map[string]metricdata.DataPoint[int64]{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value("route")
		byRoute[route.AsString()] = dp
	}

	campaign := byRoute["/api/campaign/:name"]
	assert.Equal(t, int64(3), campaign.Value)
	clientID, ok := campaign.Attributes.Value(attribute.Key("client_id"))
	require.True(t, ok)
	assert.Equal(t, "jumbomax", clientID.AsString())

	failed := byRoute["/api/reports/fetch-data"]
	assert.Equal(t, int64(1), failed.Value)
	status, _ := failed.Attributes.Value("status_code")
	assert.Equal(t, int64(500), status.AsInt64())
	_, ok = failed.Attributes.Value("client_id")
	assert.False(t, ok, "unknown clients are not recorded")
}

func TestHTTPMetrics_DurationAndSizes(t *testing.T) {
	router, reader := metricsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/fetch-data", strings.NewReader(`{"reportType":"x"}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	duration := collectMetric(t, reader, "http_server_request_duration_seconds")
	require.NotNil(t, duration)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	reqSize := collectMetric(t, reader, "http_server_request_size_bytes")
	require.NotNil(t, reqSize)
	sizes := reqSize.Data.(metricdata.Histogram[float64])
	assert.Equal(t, float64(len(`{"reportType":"x"}`)), sizes.DataPoints[0].Sum)

	assert.NotNil(t, collectMetric(t, reader, "http_server_response_size_bytes"))
}

func TestHTTPMetrics_UnmatchedRoute(t *testing.T) {
	router, reader := metricsRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	sum := collectMetric(t, reader, "http_server_request_total").Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	route, _ := sum.DataPoints[0].Attributes.Value("route")
	assert.Equal(t, "unknown", route.AsString())
}
