package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/infrastructure/config"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/interfaces/http/handler"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers the engine routes to
type Handlers struct {
	Dashboard *handler.DashboardHandler
	Campaign  *handler.CampaignHandler
	Report    *handler.ReportHandler
	Template  *handler.TemplateHandler
	Context   *handler.ContextHandler
	Chat      *handler.ChatHandler
	Export    *handler.ExportHandler
	Admin     *handler.AdminHandler
	System    *handler.SystemHandler
}

// Config holds what the middleware stack needs
type Config struct {
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	// Profiling labels profiles per route and client
	Profiling middleware.ProfilingConfig
	// Meter records HTTP metrics; nil disables them
	Meter   metric.Meter
	Clients *client.Registry
	Logger  *zap.Logger
}

// New builds the engine. Middleware order:
//  1. Recovery
//  2. RequestID
//  3. Tracing, then span attributes
//  4. Metrics and profile labels
//  5. Request logging
//  6. Security headers and CORS
//
// Body limits are set per route group since an inner limit cannot raise an
// outer one. The LLM backed routes share one per-client rate limiter.
func New(cfg Config, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			cfg.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanEnricher(cfg.Clients))
	engine.Use(middleware.HTTPMetrics(cfg.Meter, cfg.Clients))
	engine.Use(middleware.Profiling(cfg.Profiling, cfg.Clients))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSFromConfig(cfg.HTTP)))

	engine.GET("/health", h.System.Health)

	jsonLimit := middleware.BodyLimit(cfg.HTTP.MaxBodySize)
	uploadLimit := middleware.BodyLimit(cfg.HTTP.MaxUploadSize)

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitRequests > 0 {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		cfg.Logger.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}
	llmLimit := middleware.RateLimit(limiter, middleware.ClientKey)

	surfaces := []*Surface{
		NewSurface("dashboard", "/dashboard").
			Get("", h.Dashboard.GetDashboard).
			Get("/custom-range", h.Dashboard.GetCustomRange).
			Get("/funnel", h.Dashboard.GetFunnel),
		NewSurface("campaign", "/campaign").
			Get("/:name", h.Campaign.GetCampaign),
		NewSurface("chat", "/chat", jsonLimit, llmLimit).
			Post("", h.Chat.Chat),
		NewSurface("reports", "/reports", jsonLimit).
			Post("/fetch-data", h.Report.FetchData).
			Get("/templates", h.Template.List).
			Post("/templates", h.Template.Create).
			Put("/templates", h.Template.Update).
			Delete("/templates", h.Template.Delete).
			Post("/export-pdf", llmLimit, h.Export.ExportPDF).
			Post("/export-google-doc", llmLimit, h.Export.ExportGoogleDoc),
		NewSurface("context", "/context").
			Get("", h.Context.List).
			Post("", jsonLimit, h.Context.Create).
			Delete("", h.Context.Delete).
			Post("/extract", uploadLimit, llmLimit, h.Context.Extract),
		NewSurface("admin", "/admin", jsonLimit).
			Post("/clear-cache", h.Admin.ClearCache).
			Get("/clients", h.Admin.ListClients),
		NewSurface("system", "/system").
			Get("/info", h.System.GetSystemInfo),
	}
	Mount(engine.Group(APIPrefix), surfaces...)
	for _, s := range surfaces {
		cfg.Logger.Debug("Routes mounted", zap.String("surface", s.Name), zap.Strings("endpoints", s.Endpoints()))
	}

	return engine
}
