package telemetry

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

// Providers bundles the three signal providers, the profiler and the app
// instruments
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Metrics  *AppMetrics
}

// Setup builds every provider from configuration. With telemetry disabled
// all providers are no-ops and Metrics records into the global no-op meter.
// version is reported as service.version.
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string, logger *zap.Logger) (*Providers, error) {
	base := Config{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		Insecure:          cfg.Insecure,
		ServiceName:       cfg.ServiceName,
		ServiceVersion:    version,
		SamplingRatio:     cfg.SamplingRatio,
		ExportInterval:    cfg.MetricsInterval,
	}
	if !cfg.Enabled {
		logger.Info("Telemetry disabled")
	}

	tp, err := NewTracerProvider(ctx, base, logger)
	if err != nil {
		return nil, err
	}

	metricsCfg := base
	metricsCfg.Enabled = cfg.Enabled && cfg.MetricsEnabled
	mp, err := NewMeterProvider(ctx, metricsCfg, logger)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}

	logsCfg := base
	logsCfg.Enabled = cfg.Enabled && cfg.LogsEnabled
	lp, err := NewLoggerProvider(ctx, logsCfg, logger)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx), mp.Shutdown(ctx))
	}

	metrics, err := NewAppMetrics(mp.Meter(TracerName))
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx), mp.Shutdown(ctx), lp.Shutdown(ctx))
	}

	// profiling has its own switch and runs with OTLP export off
	profiler, err := NewProfiler(cfg.Profiling, logger)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx), mp.Shutdown(ctx), lp.Shutdown(ctx))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles && !tp.EnableSpanProfiles() {
		logger.Warn("Span profiles need tracing enabled")
	}

	return &Providers{Tracer: tp, Meter: mp, Logs: lp, Profiler: profiler, Metrics: metrics}, nil
}

// Shutdown flushes and stops all providers
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(p.Tracer.Shutdown(ctx), p.Meter.Shutdown(ctx), p.Logs.Shutdown(ctx), p.Profiler.Stop())
}
