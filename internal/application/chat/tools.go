package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/persistence"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
)

// Row caps of the SQL tools
const (
	runSQLRowCap      = 365
	directQueryRowCap = 100
)

// Querier runs model-authored SQL
type Querier interface {
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)
}

// Catalog lists datasets, tables and columns
type Catalog interface {
	ListDatasets(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, dataset string) ([]persistence.TableInfo, error)
	DescribeTable(ctx context.Context, dataset, table string) ([]persistence.ColumnInfo, error)
}

// Tool is one function the model may call. Call never fails: errors are
// reported to the model as {error: true, message}.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	call        func(ctx context.Context, input json.RawMessage) (any, error)
}

// Definition is the llms form of the tool
func (t Tool) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		},
	}
}

// ToolError is the result returned to the model when a tool fails
type ToolError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Call runs the tool
func (t Tool) Call(ctx context.Context, input json.RawMessage) any {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	ctx, span := telemetry.StartSpan(ctx, "chat", "tool", telemetry.ToolAttr(t.Name))
	out, err := t.call(ctx, input)
	telemetry.EndSpan(span, err)
	if err != nil {
		return ToolError{Error: true, Message: err.Error()}
	}
	return out
}

// Toolset is the fixed set of analyst tools bound to one dataset
type Toolset struct {
	tools  []Tool
	byName map[string]Tool
}

// Definitions returns the llms tool definitions
func (ts *Toolset) Definitions() []llms.Tool {
	out := make([]llms.Tool, 0, len(ts.tools))
	for _, t := range ts.tools {
		out = append(out, t.Definition())
	}
	return out
}

// Names lists the tools in registration order
func (ts *Toolset) Names() []string {
	out := make([]string, 0, len(ts.tools))
	for _, t := range ts.tools {
		out = append(out, t.Name)
	}
	return out
}

// Call dispatches to the named tool
func (ts *Toolset) Call(ctx context.Context, name string, input json.RawMessage) any {
	t, ok := ts.byName[name]
	if !ok {
		return ToolError{Error: true, Message: "Unknown tool: " + name}
	}
	return t.Call(ctx, input)
}

// NewToolset binds the tools to a warehouse and a default dataset
func NewToolset(q Querier, catalog Catalog, dataset string, logger *zap.Logger) *Toolset {
	tb := toolBinder{q: q, catalog: catalog, dataset: dataset, logger: logger}
	ts := &Toolset{byName: map[string]Tool{}}
	for _, t := range []Tool{
		tb.runSQL(),
		tb.queryWarehouseDirect(),
		tb.getTableSchema(),
		tb.listDatasets(),
		tb.listTables(),
		tb.describeTable(),
		composeReport(logger),
	} {
		ts.tools = append(ts.tools, t)
		ts.byName[t.Name] = t
	}
	return ts
}

type toolBinder struct {
	q       Querier
	catalog Catalog
	dataset string
	logger  *zap.Logger
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// ErrDestructiveSQL is returned for statements that drop, delete or truncate
var ErrDestructiveSQL = errors.New("Potentially destructive SQL operations are not allowed")

var destructiveSQL = []string{"drop table", "delete from", "truncate table"}

func checkSQL(query string) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("Invalid SQL query provided")
	}
	lower := strings.ToLower(query)
	for _, s := range destructiveSQL {
		if strings.Contains(lower, s) {
			return ErrDestructiveSQL
		}
	}
	return nil
}

type queryInput struct {
	Query string `json:"query"`
}

// SQLResult is the result of the SQL tools
type SQLResult struct {
	Success      bool             `json:"success,omitempty"`
	Results      []map[string]any `json:"results"`
	Count        *int             `json:"count,omitempty"`
	LimitApplied *bool            `json:"limitApplied,omitempty"`
	Message      string           `json:"message,omitempty"`
}

func (tb toolBinder) sql(ctx context.Context, tool string, input json.RawMessage, limit int) (*SQLResult, error) {
	var in queryInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if err := checkSQL(in.Query); err != nil {
		return nil, err
	}
	rows, err := tb.q.Query(ctx, in.Query)
	if err != nil {
		tb.logger.Warn("Tool query failed", zap.String("tool", tool), zap.Error(err))
		return nil, err
	}
	tb.logger.Debug("Tool query", zap.String("tool", tool), zap.Int("rows", len(rows)))
	if len(rows) == 0 {
		return &SQLResult{Results: []map[string]any{}, Message: "Query executed successfully but returned no data"}, nil
	}
	count := len(rows)
	limited := count > limit
	if limited {
		rows = rows[:limit]
	}
	return &SQLResult{Results: rows, Count: &count, LimitApplied: &limited}, nil
}

func (tb toolBinder) runSQL() Tool {
	return Tool{
		Name:        "runSQL",
		Description: "Execute SQL in the analytics warehouse and return the result as JSON rows",
		Parameters:  object(map[string]any{"query": str("The SQL query to run")}, "query"),
		call: func(ctx context.Context, input json.RawMessage) (any, error) {
			return tb.sql(ctx, "runSQL", input, runSQLRowCap)
		},
	}
}

func (tb toolBinder) queryWarehouseDirect() Tool {
	return Tool{
		Name:        "queryWarehouseDirect",
		Description: "Execute a SQL query directly against the warehouse (use qualified table names like dataset.table)",
		Parameters:  object(map[string]any{"query": str("SQL query with qualified table names")}, "query"),
		call: func(ctx context.Context, input json.RawMessage) (any, error) {
			res, err := tb.sql(ctx, "queryWarehouseDirect", input, directQueryRowCap)
			if err != nil {
				return nil, err
			}
			res.Success = true
			if res.Count == nil {
				zero := 0
				res.Count = &zero
			}
			return res, nil
		},
	}
}

func (tb toolBinder) getTableSchema() Tool {
	return Tool{
		Name:        "getTableSchema",
		Description: "Get the column names and types for a specific table to help write accurate queries",
		Parameters: object(map[string]any{
			"tableName":   str("Table name (without dataset prefix) to get schema for"),
			"datasetName": str("Dataset name (defaults to the client dataset)"),
		}, "tableName"),
		call: func(ctx context.Context, input json.RawMessage) (any, error) {
			var in struct {
				TableName   string `json:"tableName"`
				DatasetName string `json:"datasetName"`
			}
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, fmt.Errorf("invalid input: %w", err)
			}
			if in.DatasetName == "" {
				in.DatasetName = tb.dataset
			}
			cols, err := tb.catalog.DescribeTable(ctx, in.DatasetName, in.TableName)
			if err != nil {
				return nil, err
			}
			if len(cols) == 0 {
				return nil, fmt.Errorf("No schema found for table %s in dataset %s. Table may not exist.", in.TableName, in.DatasetName)
			}
			return map[string]any{
				"success":     true,
				"tableName":   in.TableName,
				"datasetName": in.DatasetName,
				"columns":     cols,
				"message":     fmt.Sprintf("Found %d columns in table %s", len(cols), in.TableName),
			}, nil
		},
	}
}

func (tb toolBinder) listDatasets() Tool {
	return Tool{
		Name:        "listDatasets",
		Description: "List available datasets in the warehouse",
		Parameters:  object(map[string]any{}),
		call: func(ctx context.Context, _ json.RawMessage) (any, error) {
			names, err := tb.catalog.ListDatasets(ctx)
			if err != nil {
				return nil, err
			}
			datasets := make([]map[string]string, 0, len(names))
			for _, n := range names {
				datasets = append(datasets, map[string]string{"id": n})
			}
			return map[string]any{"success": true, "datasets": datasets}, nil
		},
	}
}

func (tb toolBinder) listTables() Tool {
	return Tool{
		Name:        "listTables",
		Description: "List tables in a specific dataset",
		Parameters:  object(map[string]any{"datasetId": str("Dataset ID to list tables from")}, "datasetId"),
		call: func(ctx context.Context, input json.RawMessage) (any, error) {
			var in struct {
				DatasetID string `json:"datasetId"`
			}
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, fmt.Errorf("invalid input: %w", err)
			}
			tables, err := tb.catalog.ListTables(ctx, in.DatasetID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"success": true, "datasetId": in.DatasetID, "tables": tables}, nil
		},
	}
}

func (tb toolBinder) describeTable() Tool {
	return Tool{
		Name:        "describeTable",
		Description: "Get schema information for a specific table",
		Parameters: object(map[string]any{
			"datasetId": str("Dataset ID containing the table"),
			"tableId":   str("Table ID to describe"),
		}, "datasetId", "tableId"),
		call: func(ctx context.Context, input json.RawMessage) (any, error) {
			var in struct {
				DatasetID string `json:"datasetId"`
				TableID   string `json:"tableId"`
			}
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, fmt.Errorf("invalid input: %w", err)
			}
			cols, err := tb.catalog.DescribeTable(ctx, in.DatasetID, in.TableID)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"success":   true,
				"datasetId": in.DatasetID,
				"tableId":   in.TableID,
				"schema":    cols,
			}, nil
		},
	}
}

// ComposedReport is the composeReport result rendered by the chat UI
type ComposedReport struct {
	Component string  `json:"component"`
	Props     *Report `json:"props"`
	Message   string  `json:"message"`
}

func composeReport(logger *zap.Logger) Tool {
	return Tool{
		Name:        "composeReport",
		Description: "Compose a structured report with multiple sections, columns, and visual blocks including charts, tables, KPIs, and text",
		Parameters:  reportSchema,
		call: func(_ context.Context, input json.RawMessage) (any, error) {
			var r Report
			if err := json.Unmarshal(input, &r); err != nil {
				return nil, fmt.Errorf("invalid report: %w", err)
			}
			if err := r.Validate(); err != nil {
				return nil, err
			}
			r.Normalize()

			title := r.Title
			if title == "" {
				title = "report"
			}
			logger.Info("Report composed",
				zap.String("title", title),
				zap.Int("sections", len(r.Sections)),
				zap.Int("blocks", r.BlockCount()))
			return ComposedReport{
				Component: "Report",
				Props:     &r,
				Message:   fmt.Sprintf("Created %s with %d section(s) and %d block(s)", title, len(r.Sections), r.BlockCount()),
			}, nil
		},
	}
}

var cellValue = map[string]any{"type": []string{"string", "number", "null"}}

var reportSchema = object(map[string]any{
	"title":    map[string]any{"type": "string"},
	"subtitle": map[string]any{"type": "string"},
	"footer":   map[string]any{"type": "string"},
	"sections": map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": object(map[string]any{
			"columns": map[string]any{"type": "integer", "minimum": 1, "maximum": 4, "default": 1},
			"blocks": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": object(map[string]any{
					"kind":    map[string]any{"type": "string", "enum": []string{"text", "table", "kpi", "chart", "image", "divider"}},
					"variant": map[string]any{"type": "string", "enum": []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "small"}},
					"content": str("Markdown text of a text block"),
					"title":   map[string]any{"type": "string"},
					"columns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"rows": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "object", "additionalProperties": cellValue},
					},
					"value":  map[string]any{"type": []string{"string", "number"}},
					"change": str("Change indicator, e.g. +12%"),
					"trend":  map[string]any{"type": "string", "enum": []string{"up", "down", "neutral"}},
					"chart": object(map[string]any{
						"mode": map[string]any{"type": "string", "enum": []string{"basic", "vega"}},
						"type": map[string]any{"type": "string", "enum": []string{"line", "bar", "area", "pie"}},
						"x":    str("x-axis key"),
						"y":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"rows": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
						"spec": map[string]any{"type": "object", "description": "Vega-Lite JSON spec"},
					}, "mode"),
					"alt":     map[string]any{"type": "string"},
					"url":     map[string]any{"type": "string"},
					"caption": map[string]any{"type": "string"},
					"style":   map[string]any{"type": "string", "enum": []string{"line", "space"}},
				}, "kind"),
			},
		}, "blocks"),
	},
}, "sections")
