package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for warehouse query tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // bound variables in span statements; dev only
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns tracing off, variables hidden, 2s slow threshold
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 2 * time.Second,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin registers otelgorm plus a slow-query annotator
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates the plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultDBTracingConfig().SlowQueryThresh
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// Register installs otelgorm and the timing callbacks on db
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	// raw and row carry the warehouse SQL; the rest cover the repositories
	errs := []error{
		cb.Create().Before("gorm:create").Register("analytics_timing:before_create", markStart),
		cb.Query().Before("gorm:query").Register("analytics_timing:before_query", markStart),
		cb.Update().Before("gorm:update").Register("analytics_timing:before_update", markStart),
		cb.Delete().Before("gorm:delete").Register("analytics_timing:before_delete", markStart),
		cb.Row().Before("gorm:row").Register("analytics_timing:before_row", markStart),
		cb.Raw().Before("gorm:raw").Register("analytics_timing:before_raw", markStart),
		cb.Create().After("gorm:create").Register("analytics_timing:after_create", p.annotate),
		cb.Query().After("gorm:query").Register("analytics_timing:after_query", p.annotate),
		cb.Update().After("gorm:update").Register("analytics_timing:after_update", p.annotate),
		cb.Delete().After("gorm:delete").Register("analytics_timing:after_delete", p.annotate),
		cb.Row().After("gorm:row").Register("analytics_timing:after_row", p.annotate),
		cb.Raw().After("gorm:raw").Register("analytics_timing:after_raw", p.annotate),
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotate adds rows, table, error status and the slow-query flag to the
// span otelgorm opened
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
