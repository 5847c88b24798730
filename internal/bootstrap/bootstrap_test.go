package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

func TestRegistry(t *testing.T) {
	cfg := &config.Config{Clients: []config.ClientConfig{
		{ID: "acme", Name: "Acme Golf", Dataset: "acme_analytics", MonthlyTarget: 50000, CurrencySymbol: "£"},
	}}

	reg, err := Registry(cfg)
	require.NoError(t, err)
	assert.True(t, reg.IsValid("acme"))
	assert.True(t, reg.IsValid("jumbomax"))

	acme, err := reg.Get("acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Golf", acme.Name)
	assert.Equal(t, "acme_analytics", acme.Dataset)
	assert.Equal(t, "£", acme.Dashboard.CurrencySymbol)
}

func TestRegistry_Invalid(t *testing.T) {
	_, err := Registry(&config.Config{Clients: []config.ClientConfig{{Name: "missing id"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client registry")
}

func TestWarehouse_SQLite(t *testing.T) {
	cfg := &config.Config{
		Log: config.LogConfig{Level: "error"},
		Warehouse: config.DatabaseConfig{
			Driver:       "sqlite",
			SQLitePath:   ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			QueryTimeout: 5 * time.Second,
		},
	}

	db, wh, err := Warehouse(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, "sqlite", db.Driver())
	require.NoError(t, db.Ping())

	rows, err := wh.Query(context.Background(), "SELECT 1 AS n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["n"])
}

func TestWarehouse_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Warehouse: config.DatabaseConfig{Driver: "bigquery"}}
	_, _, err := Warehouse(cfg, zap.NewNop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect warehouse")
}

func TestLogger(t *testing.T) {
	log, err := Logger(config.LogConfig{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}
