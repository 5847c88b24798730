// Package bootstrap builds the pieces shared by the server and the CLI:
// logger, client registry and the warehouse connection.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/infrastructure/config"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/infrastructure/persistence"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
)

// Logger builds the process logger from the log section. Extra cores, such
// as the OTLP bridge, are teed in.
func Logger(cfg config.LogConfig, extra ...zapcore.Core) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: cfg.Output,
	}, extra...)
}

// Registry builds the client registry with the configured overrides
func Registry(cfg *config.Config) (*client.Registry, error) {
	overrides := make([]client.Override, 0, len(cfg.Clients))
	for _, c := range cfg.Clients {
		overrides = append(overrides, client.Override{
			ID:                c.ID,
			Name:              c.Name,
			Dataset:           c.Dataset,
			HasEmail:          c.HasEmail,
			MonthlyTarget:     c.MonthlyTarget,
			MonthlyROASTarget: c.MonthlyROASTarget,
			Currency:          c.Currency,
			CurrencySymbol:    c.CurrencySymbol,
		})
	}
	reg, err := client.NewRegistry(overrides...)
	if err != nil {
		return nil, fmt.Errorf("client registry: %w", err)
	}
	return reg, nil
}

// Warehouse opens the warehouse connection with the zap-backed gorm logger
// and, when enabled, query tracing. observer may be nil.
func Warehouse(cfg *config.Config, log *zap.Logger, observer persistence.QueryObserver) (*persistence.Database, *persistence.Warehouse, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Warehouse.SlowQueryThresh))

	db, err := persistence.NewDatabase(&cfg.Warehouse, persistence.WithLogger(gormLog))
	if err != nil {
		return nil, nil, fmt.Errorf("connect warehouse: %w", err)
	}

	dbSystem := "postgresql"
	if db.Driver() == "sqlite" {
		dbSystem = "sqlite"
	}
	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Warehouse.SlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := tracing.Register(db.DB); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("register query tracing: %w", err)
	}

	opts := []persistence.WarehouseOption{persistence.WithQueryTimeout(cfg.Warehouse.QueryTimeout)}
	if observer != nil {
		opts = append(opts, persistence.WithObserver(observer))
	}
	return db, persistence.NewWarehouse(db.DB, opts...), nil
}
