package chat

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rooted/analytics/internal/infrastructure/persistence"
)

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	called := m.Called(ctx, query)
	rows, _ := called.Get(0).([]map[string]any)
	return rows, called.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListDatasets(ctx context.Context) ([]string, error) {
	called := m.Called(ctx)
	names, _ := called.Get(0).([]string)
	return names, called.Error(1)
}

func (m *MockCatalog) ListTables(ctx context.Context, dataset string) ([]persistence.TableInfo, error) {
	called := m.Called(ctx, dataset)
	tables, _ := called.Get(0).([]persistence.TableInfo)
	return tables, called.Error(1)
}

func (m *MockCatalog) DescribeTable(ctx context.Context, dataset, table string) ([]persistence.ColumnInfo, error) {
	called := m.Called(ctx, dataset, table)
	cols, _ := called.Get(0).([]persistence.ColumnInfo)
	return cols, called.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) LLMRequest(ctx context.Context, operation string, d time.Duration, err error) {
	m.Called(ctx, operation, d, err)
}

func (m *MockMetrics) ToolCalled(ctx context.Context, tool string, err error) {
	m.Called(ctx, tool, err)
}

func rowsOf(n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{"n": float64(i)}
	}
	return rows
}
