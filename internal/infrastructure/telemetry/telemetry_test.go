package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	p, err := Setup(ctx, config.TelemetryConfig{ServiceName: "test"}, "test", zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.Tracer.IsEnabled())
	assert.False(t, p.Meter.IsEnabled())
	assert.False(t, p.Logs.IsEnabled())
	assert.False(t, p.Profiler.IsEnabled())
	assert.False(t, p.Tracer.EnableSpanProfiles(), "span profiles need a tracer")
	require.NotNil(t, p.Metrics)

	// no-op instruments accept records
	p.Metrics.ObserveQuery(ctx, "query", time.Millisecond, 3, nil)
	assert.NoError(t, p.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "report", "fetch",
		ClientAttr("jumbomax"), ReportTypeAttr("weekly-executive"), RowsAttr(12))
	EndSpan(span, errors.New("warehouse down"))

	_, ok := StartSpan(context.Background(), "export", "pdf", ExportKindAttr("pdf"), PeriodAttr("7d"), ToolAttr("run_sql"))
	EndSpan(ok, nil)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	failed := spans[0]
	assert.Equal(t, "report.fetch", failed.Name())
	assert.Equal(t, trace.SpanKindInternal, failed.SpanKind())
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Contains(t, failed.Attributes(), attribute.String("client.id", "jumbomax"))
	assert.Contains(t, failed.Attributes(), attribute.Int("warehouse.rows", 12))
	require.Len(t, failed.Events(), 1)
	assert.Equal(t, "exception", failed.Events()[0].Name)

	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("llm.tool", "run_sql"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestAppMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewAppMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.ObserveQuery(ctx, "query", 120*time.Millisecond, 30, nil)
	m.ObserveQuery(ctx, "query", time.Second, 0, errors.New("timeout"))
	m.ReportFetched(ctx, "weekly-executive", "hb", nil)
	m.CacheLookup(ctx, "dashboard", true)
	m.ToolCalled(ctx, "runSQL", nil)
	m.LLMRequest(ctx, "chat", 3*time.Second, nil)
	m.Exported(ctx, "pdf", nil)

	data := collect(t, reader)

	queries, ok := data["warehouse_query_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range queries.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)
	assert.Len(t, queries.DataPoints, 2) // ok and error outcomes

	rows, ok := data["warehouse_query_rows"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, rows.DataPoints, 1)
	assert.Equal(t, uint64(1), rows.DataPoints[0].Count)

	for _, name := range []string{"report_fetch_total", "response_cache_lookup_total", "llm_tool_call_total", "report_export_total", "llm_request_duration_seconds"} {
		assert.Contains(t, data, name)
	}
}

func TestAppMetrics_NilSafe(t *testing.T) {
	var m *AppMetrics
	ctx := context.Background()
	m.ObserveQuery(ctx, "query", time.Second, 1, nil)
	m.ReportFetched(ctx, "x", "y", nil)
	m.CacheLookup(ctx, "x", false)
	m.ToolCalled(ctx, "x", nil)
	m.LLMRequest(ctx, "x", time.Second, nil)
	m.Exported(ctx, "x", nil)

	_, err := NewAppMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestRegisterPoolGauges(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	reg, err := RegisterPoolGauges(mp.Meter("test"), func() (PoolStats, error) {
		return PoolStats{Open: 4, InUse: 1, Idle: 3, Max: 25}, nil
	})
	require.NoError(t, err)
	defer reg.Unregister()

	data := collect(t, reader)
	conns, ok := data["warehouse_pool_connections"].(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, conns.DataPoints, 3)

	maxConns, ok := data["warehouse_pool_connections_max"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, maxConns.DataPoints, 1)
	assert.Equal(t, int64(25), maxConns.DataPoints[0].Value)
}

func TestDBTracingPlugin(t *testing.T) {
	sr := setupTestTracer(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Run("disabled registers nothing", func(t *testing.T) {
		require.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).Register(db))
		var n int
		require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
		assert.Empty(t, sr.Ended())
	})

	t.Run("enabled traces raw queries", func(t *testing.T) {
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		cfg.DBSystem = "sqlite"
		cfg.SlowQueryThresh = time.Nanosecond
		require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))

		ctx, span := StartSpan(context.Background(), "test", "query")
		var n int
		require.NoError(t, db.WithContext(ctx).Raw("SELECT 1").Scan(&n).Error)
		span.End()

		// the test span plus the otelgorm span nested under it
		spans := sr.Ended()
		require.GreaterOrEqual(t, len(spans), 2)
		parent := spans[len(spans)-1]
		assert.Equal(t, "test.query", parent.Name())
		assert.Equal(t, parent.SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	})
}

func TestNewZapOTELCore_Disabled(t *testing.T) {
	core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "test"})
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	lp, err := NewLoggerProvider(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)
	core = NewZapOTELCore(ZapBridgeConfig{LoggerProvider: lp})
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestMinLevelCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	filtered := minLevelCore{Core: core, min: zapcore.WarnLevel}

	assert.False(t, filtered.Enabled(zapcore.InfoLevel))
	assert.True(t, filtered.Enabled(zapcore.ErrorLevel))

	log := zap.New(filtered).With(zap.String("client_id", "hb"))
	log.Info("dropped")
	log.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "hb", entry.ContextMap()["client_id"])
}

func TestConfig_Resource(t *testing.T) {
	res, err := Config{ServiceName: "rooted-analytics", ServiceVersion: "1.2.3"}.resource()
	require.NoError(t, err)

	values := map[string]string{}
	for _, kv := range res.Attributes() {
		values[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "rooted-analytics", values["service.name"])
	assert.Equal(t, "1.2.3", values["service.version"])
}

func TestPipeline_Shutdown(t *testing.T) {
	p := &pipeline{signal: "traces", logger: zap.NewNop()}
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Shutdown(context.Background()))

	p.stop = func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("collector gone")
	}
	assert.True(t, p.IsEnabled())
	err := p.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown traces provider")
}
