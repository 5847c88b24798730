package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for application spans
const TracerName = "rooted-analytics"

// Span attribute keys
const (
	keyClientID   = attribute.Key("client.id")
	keyReportType = attribute.Key("report.type")
	keyPeriod     = attribute.Key("report.period")
	keyTool       = attribute.Key("llm.tool")
	keyRows       = attribute.Key("warehouse.rows")
	keyExportKind = attribute.Key("export.kind")
)

func ClientAttr(id string) attribute.KeyValue       { return keyClientID.String(id) }
func ReportTypeAttr(t string) attribute.KeyValue    { return keyReportType.String(t) }
func PeriodAttr(token string) attribute.KeyValue    { return keyPeriod.String(token) }
func ToolAttr(name string) attribute.KeyValue       { return keyTool.String(name) }
func RowsAttr(n int) attribute.KeyValue             { return keyRows.Int(n) }
func ExportKindAttr(kind string) attribute.KeyValue { return keyExportKind.String(kind) }

// StartSpan starts an internal span named "<area>.<op>" on the global tracer
// provider, so it is a no-op until telemetry is set up.
//
//	ctx, span := telemetry.StartSpan(ctx, "report", "fetch", telemetry.ClientAttr(id))
//	defer func() { telemetry.EndSpan(span, err) }()
func StartSpan(ctx context.Context, area, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, area+"."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan marks the span failed when err is non-nil and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
