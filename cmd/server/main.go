package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	contextapp "github.com/rooted/analytics/internal/application/businesscontext"
	campaignapp "github.com/rooted/analytics/internal/application/campaign"
	chatapp "github.com/rooted/analytics/internal/application/chat"
	dashboardapp "github.com/rooted/analytics/internal/application/dashboard"
	exportapp "github.com/rooted/analytics/internal/application/export"
	extractionapp "github.com/rooted/analytics/internal/application/extraction"
	"github.com/rooted/analytics/internal/application/markdown"
	reportapp "github.com/rooted/analytics/internal/application/report"
	templateapp "github.com/rooted/analytics/internal/application/template"
	"github.com/rooted/analytics/internal/bootstrap"
	"github.com/rooted/analytics/internal/infrastructure/cache"
	"github.com/rooted/analytics/internal/infrastructure/config"
	"github.com/rooted/analytics/internal/infrastructure/gdrive"
	"github.com/rooted/analytics/internal/infrastructure/llm"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/infrastructure/persistence"
	"github.com/rooted/analytics/internal/infrastructure/printing"
	"github.com/rooted/analytics/internal/infrastructure/storage"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
	"github.com/rooted/analytics/internal/interfaces/http/handler"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
	"github.com/rooted/analytics/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := bootstrap.Logger(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		log, err = bootstrap.Logger(cfg.Log, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: providers.Logs,
			Level:          logger.ParseLevel(cfg.Log.Level),
		}))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting analytics server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	clients, err := bootstrap.Registry(cfg)
	if err != nil {
		log.Fatal("Invalid client configuration", zap.Error(err))
	}
	log.Info("Clients registered", zap.Strings("clients", clients.IDs()))

	db, warehouse, err := bootstrap.Warehouse(cfg, log, providers.Metrics)
	if err != nil {
		log.Fatal("Failed to connect to warehouse", zap.Error(err))
	}
	log.Info("Warehouse connected", zap.String("driver", db.Driver()))

	store, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create response cache", zap.Error(err))
	}

	deps := optionalDeps(ctx, cfg, log)

	contextSvc := contextapp.NewService(persistence.NewGormContextRepository(db.DB), log)
	templateSvc := templateapp.NewService(persistence.NewGormTemplateRepository(db.DB), log)
	reportSvc := reportapp.NewService(warehouse, clients, markdown.NewRegistry(), log,
		reportapp.WithCache(store, cfg.Redis.CacheTTL),
		reportapp.WithContextMatcher(contextSvc),
		reportapp.WithMetrics(providers.Metrics),
	)
	dashboardSvc := dashboardapp.NewService(warehouse, clients, log,
		dashboardapp.WithCache(store, cfg.Redis.CacheTTL),
		dashboardapp.WithMetrics(providers.Metrics),
	)
	campaignSvc := campaignapp.NewService(warehouse, clients, log)
	chatSvc := chatapp.NewService(deps.model, clients, warehouse, warehouse, log,
		chatapp.WithMaxSteps(cfg.LLM.MaxSteps),
		chatapp.WithMaxTokens(cfg.LLM.MaxTokens),
		chatapp.WithMetrics(providers.Metrics),
	)
	extractionSvc := extractionapp.NewService(deps.reader, contextSvc, log,
		extractionapp.WithMetrics(providers.Metrics),
	)
	exportOpts := []exportapp.Option{exportapp.WithMetrics(providers.Metrics)}
	if deps.archive != nil {
		exportOpts = append(exportOpts, exportapp.WithArchive(deps.archive, cfg.Storage.Prefix))
	}
	exportSvc := exportapp.NewService(deps.renderer, deps.uploader, clients, log, exportOpts...)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var meter metric.Meter
	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled {
		meter = providers.Meter.Meter(telemetry.TracerName)
	}

	engine := router.New(router.Config{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Profiling: middleware.ProfilingConfig{
			Enabled:   providers.Profiler.IsEnabled(),
			SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
		},
		Meter:   meter,
		Clients: clients,
		Logger:  log,
	}, router.Handlers{
		Dashboard: handler.NewDashboardHandler(dashboardSvc, cfg.App.DefaultClient),
		Campaign:  handler.NewCampaignHandler(campaignSvc, cfg.App.DefaultClient),
		Report:    handler.NewReportHandler(reportSvc, cfg.App.DefaultClient),
		Template:  handler.NewTemplateHandler(templateSvc),
		Context:   handler.NewContextHandler(contextSvc, extractionSvc),
		Chat:      handler.NewChatHandler(chatSvc),
		Export:    handler.NewExportHandler(exportSvc),
		Admin:     handler.NewAdminHandler(store, clients),
		System:    handler.NewSystemHandler(db, cfg.App.Name, version),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if deps.closeRenderer != nil {
		if err := deps.closeRenderer(); err != nil {
			log.Warn("Error closing PDF renderer", zap.Error(err))
		}
	}
	if err := store.Close(); err != nil {
		log.Warn("Error closing response cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing warehouse", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// integrations holds the clients that need credentials. Each is left nil when
// unconfigured and the routes that need it answer 503.
type integrations struct {
	model         llms.Model
	reader        llm.DocumentReader
	uploader      gdrive.Uploader
	renderer      printing.PDFRenderer
	closeRenderer func() error
	archive       storage.Archive
}

func optionalDeps(ctx context.Context, cfg *config.Config, log *zap.Logger) integrations {
	var d integrations

	if model, err := llm.NewChatModel(cfg.LLM); err != nil {
		log.Warn("Chat model disabled", zap.Error(err))
	} else {
		d.model = model
	}

	if reader, err := llm.NewDocumentClient(cfg.LLM, llm.WithLogger(log)); err != nil {
		log.Warn("Document extraction disabled", zap.Error(err))
	} else {
		d.reader = reader
	}

	if drive, err := gdrive.New(ctx, cfg.Google, nil, gdrive.WithLogger(log)); err != nil {
		log.Warn("Google Docs export disabled", zap.Error(err))
	} else {
		d.uploader = drive
	}

	renderer := printing.NewChromedpRenderer(printing.ConfigFromPDF(cfg.PDF, log))
	d.renderer = renderer
	d.closeRenderer = renderer.Close

	if cfg.Storage.Enabled {
		if archive, err := storage.NewS3Archive(ctx, &cfg.Storage, storage.WithLogger(log)); err != nil {
			log.Warn("PDF archive disabled", zap.Error(err))
		} else {
			d.archive = archive
		}
	}

	return d
}
