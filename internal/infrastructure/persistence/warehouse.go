package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Querier runs SQL against the analytics warehouse
type Querier interface {
	// Query returns rows as column→value maps. Numeric columns decode to
	// float64, text to string.
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)
	// Select scans rows into dest, a pointer to a slice of typed rows
	Select(ctx context.Context, dest any, query string, args ...any) error
}

// Introspector lists warehouse datasets (schemas), tables and columns
type Introspector interface {
	ListDatasets(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, dataset string) ([]TableInfo, error)
	DescribeTable(ctx context.Context, dataset, table string) ([]ColumnInfo, error)
}

// QueryObserver receives one callback per warehouse call
type QueryObserver interface {
	ObserveQuery(ctx context.Context, op string, d time.Duration, rows int, err error)
}

// TableInfo describes one table of a dataset
type TableInfo struct {
	Name string `json:"table_name" gorm:"column:table_name"`
	Type string `json:"table_type" gorm:"column:table_type"`
}

// ColumnInfo describes one column of a table
type ColumnInfo struct {
	Name     string `json:"column_name" gorm:"column:column_name"`
	DataType string `json:"data_type" gorm:"column:data_type"`
	Nullable string `json:"is_nullable" gorm:"column:is_nullable"`
}

// ErrInvalidIdentifier is returned for dataset or table names that cannot be
// safely interpolated
var ErrInvalidIdentifier = errors.New("invalid identifier")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is a plain SQL identifier
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Warehouse implements Querier and Introspector over gorm
type Warehouse struct {
	db       *gorm.DB
	timeout  time.Duration
	maxRows  int
	observer QueryObserver
}

// WarehouseOption configures a Warehouse
type WarehouseOption func(*Warehouse)

// WithQueryTimeout bounds every call; 0 disables the bound
func WithQueryTimeout(d time.Duration) WarehouseOption {
	return func(w *Warehouse) { w.timeout = d }
}

// WithMaxRows caps the rows Query materializes
func WithMaxRows(n int) WarehouseOption {
	return func(w *Warehouse) { w.maxRows = n }
}

// WithObserver reports each call to o
func WithObserver(o QueryObserver) WarehouseOption {
	return func(w *Warehouse) { w.observer = o }
}

// NewWarehouse returns a Warehouse over db
func NewWarehouse(db *gorm.DB, opts ...WarehouseOption) *Warehouse {
	w := &Warehouse{db: db, maxRows: 10000}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Warehouse) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout > 0 {
		return context.WithTimeout(ctx, w.timeout)
	}
	return context.WithCancel(ctx)
}

func (w *Warehouse) observe(ctx context.Context, op string, start time.Time, rows int, err error) {
	if w.observer != nil {
		w.observer.ObserveQuery(ctx, op, time.Since(start), rows, err)
	}
}

// Query implements Querier
func (w *Warehouse) Query(ctx context.Context, query string, args ...any) (out []map[string]any, err error) {
	start := time.Now()
	defer func() { w.observe(ctx, "query", start, len(out), err) }()

	qctx, cancel := w.begin(ctx)
	defer cancel()

	rows, err := w.db.WithContext(qctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("warehouse query: %w", err)
	}
	defer rows.Close()

	out, err = scanMaps(rows, w.maxRows)
	if err != nil {
		return nil, fmt.Errorf("warehouse query: %w", err)
	}
	return out, nil
}

// Select implements Querier
func (w *Warehouse) Select(ctx context.Context, dest any, query string, args ...any) (err error) {
	start := time.Now()
	var n int64
	defer func() { w.observe(ctx, "select", start, int(n), err) }()

	qctx, cancel := w.begin(ctx)
	defer cancel()

	res := w.db.WithContext(qctx).Raw(query, args...).Scan(dest)
	n = res.RowsAffected
	if res.Error != nil {
		return fmt.Errorf("warehouse select: %w", res.Error)
	}
	return nil
}

func scanMaps(rows *sql.Rows, limit int) ([]map[string]any, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col.Name()] = normalize(values[i], col.DatabaseTypeName())
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalize converts driver values into JSON-friendly Go values
func normalize(v any, dbType string) any {
	switch val := v.(type) {
	case []byte:
		return normalize(string(val), dbType)
	case string:
		switch strings.ToUpper(dbType) {
		case "NUMERIC", "DECIMAL":
			if d, err := decimal.NewFromString(val); err == nil {
				f, _ := d.Float64()
				return f
			}
		}
		return val
	case time.Time:
		if strings.EqualFold(dbType, "DATE") {
			return val.Format("2006-01-02")
		}
		return val
	default:
		return val
	}
}

// ListDatasets implements Introspector. Datasets are Postgres schemas; the
// system schemas are hidden.
func (w *Warehouse) ListDatasets(ctx context.Context) ([]string, error) {
	var names []string
	err := w.Select(ctx, &names, `
		SELECT schema_name FROM information_schema.schemata
		WHERE schema_name NOT IN ('information_schema', 'pg_catalog', 'pg_toast', 'public')
		  AND schema_name NOT LIKE 'pg_temp%' AND schema_name NOT LIKE 'pg_toast_temp%'
		ORDER BY schema_name`)
	return names, err
}

// ListTables implements Introspector
func (w *Warehouse) ListTables(ctx context.Context, dataset string) ([]TableInfo, error) {
	if !ValidIdentifier(dataset) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, dataset)
	}
	var tables []TableInfo
	err := w.Select(ctx, &tables, `
		SELECT table_name, table_type FROM information_schema.tables
		WHERE table_schema = ? ORDER BY table_name`, dataset)
	return tables, err
}

// DescribeTable implements Introspector
func (w *Warehouse) DescribeTable(ctx context.Context, dataset, table string) ([]ColumnInfo, error) {
	if !ValidIdentifier(dataset) || !ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q.%q", ErrInvalidIdentifier, dataset, table)
	}
	var cols []ColumnInfo
	err := w.Select(ctx, &cols, `
		SELECT column_name, data_type, is_nullable FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position`, dataset, table)
	return cols, err
}
