package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Metric attribute keys
var (
	AttrClientID   = attribute.Key("client_id")
	AttrOperation  = attribute.Key("operation")
	AttrOutcome    = attribute.Key("outcome")
	AttrReportType = attribute.Key("report_type")
	AttrTool       = attribute.Key("tool")
	AttrCacheHit   = attribute.Key("cache_hit")
	AttrExportKind = attribute.Key("export_kind")
	AttrPoolState  = attribute.Key("state")
)

// PoolStats is sampled by the pool gauge callback
type PoolStats struct {
	Open, InUse, Idle int
	Max               int
}

// AppMetrics holds the application instruments. All methods are safe on a
// nil receiver so callers need not check whether metrics are configured.
type AppMetrics struct {
	warehouseQueries  *Counter
	warehouseDuration *Histogram
	warehouseRows     *Histogram
	reportFetches     *Counter
	cacheLookups      *Counter
	llmDuration       *Histogram
	toolCalls         *Counter
	exports           *Counter
}

// NewAppMetrics registers every instrument on meter
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &AppMetrics{}
	var err error

	if m.warehouseQueries, err = NewCounter(meter, "warehouse_query_total", "Warehouse queries by operation and outcome", "{query}"); err != nil {
		return nil, err
	}
	if m.warehouseDuration, err = NewHistogram(meter, HistogramOpts{
		Name: "warehouse_query_duration_seconds", Description: "Warehouse query latency", Unit: "s",
		Boundaries: WarehouseDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.warehouseRows, err = NewHistogram(meter, HistogramOpts{
		Name: "warehouse_query_rows", Description: "Rows returned per warehouse query", Unit: "{row}",
		Boundaries: []float64{0, 1, 10, 50, 100, 365, 1000, 10000},
	}); err != nil {
		return nil, err
	}
	if m.reportFetches, err = NewCounter(meter, "report_fetch_total", "Report data fetches by type", "{fetch}"); err != nil {
		return nil, err
	}
	if m.cacheLookups, err = NewCounter(meter, "response_cache_lookup_total", "Response cache lookups by hit", "{lookup}"); err != nil {
		return nil, err
	}
	if m.llmDuration, err = NewHistogram(meter, HistogramOpts{
		Name: "llm_request_duration_seconds", Description: "Model request latency", Unit: "s",
		Boundaries: LLMDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.toolCalls, err = NewCounter(meter, "llm_tool_call_total", "Tool calls issued by the model", "{call}"); err != nil {
		return nil, err
	}
	if m.exports, err = NewCounter(meter, "report_export_total", "Report exports by kind and outcome", "{export}"); err != nil {
		return nil, err
	}
	return m, nil
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return AttrOutcome.String("error")
	}
	return AttrOutcome.String("ok")
}

// ObserveQuery records one warehouse call; it satisfies the warehouse
// QueryObserver interface
func (m *AppMetrics) ObserveQuery(ctx context.Context, op string, d time.Duration, rows int, err error) {
	if m == nil {
		return
	}
	m.warehouseQueries.Inc(ctx, AttrOperation.String(op), outcome(err))
	m.warehouseDuration.RecordDuration(ctx, d, AttrOperation.String(op))
	if err == nil {
		m.warehouseRows.Record(ctx, float64(rows), AttrOperation.String(op))
	}
}

// ReportFetched counts one report data fetch
func (m *AppMetrics) ReportFetched(ctx context.Context, reportType, clientID string, err error) {
	if m == nil {
		return
	}
	m.reportFetches.Inc(ctx, AttrReportType.String(reportType), AttrClientID.String(clientID), outcome(err))
}

// CacheLookup counts a response cache hit or miss
func (m *AppMetrics) CacheLookup(ctx context.Context, operation string, hit bool) {
	if m == nil {
		return
	}
	m.cacheLookups.Inc(ctx, AttrOperation.String(operation), AttrCacheHit.Bool(hit))
}

// LLMRequest records one model round trip
func (m *AppMetrics) LLMRequest(ctx context.Context, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.llmDuration.RecordDuration(ctx, d, AttrOperation.String(operation), outcome(err))
}

// ToolCalled counts one tool invocation
func (m *AppMetrics) ToolCalled(ctx context.Context, tool string, err error) {
	if m == nil {
		return
	}
	m.toolCalls.Inc(ctx, AttrTool.String(tool), outcome(err))
}

// Exported counts one PDF or Google Doc export
func (m *AppMetrics) Exported(ctx context.Context, kind string, err error) {
	if m == nil {
		return
	}
	m.exports.Inc(ctx, AttrExportKind.String(kind), outcome(err))
}

// RegisterPoolGauges reports connection pool state on every collection
func RegisterPoolGauges(meter metric.Meter, stats func() (PoolStats, error)) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("warehouse_pool_connections",
		metric.WithDescription("Warehouse connections by state"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	maxConns, err := meter.Int64ObservableGauge("warehouse_pool_connections_max",
		metric.WithDescription("Configured maximum warehouse connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s, err := stats()
		if err != nil {
			return nil
		}
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrPoolState.String("in_use")))
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrPoolState.String("idle")))
		o.ObserveInt64(conns, int64(s.Open), metric.WithAttributes(AttrPoolState.String("open")))
		o.ObserveInt64(maxConns, int64(s.Max))
		return nil
	}, conns, maxConns)
}
