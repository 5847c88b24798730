package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/persistence"
)

func newTools(q *MockQuerier, c *MockCatalog) *Toolset {
	return NewToolset(q, c, "jumbomax_analytics", zap.NewNop())
}

func TestToolset_Names(t *testing.T) {
	ts := newTools(new(MockQuerier), new(MockCatalog))
	assert.Equal(t, []string{
		"runSQL", "queryWarehouseDirect", "getTableSchema", "listDatasets", "listTables", "describeTable", "composeReport",
	}, ts.Names())

	defs := ts.Definitions()
	require.Len(t, defs, 7)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "runSQL", defs[0].Function.Name)
}

func TestRunSQL_RejectsDestructiveStatements(t *testing.T) {
	queries := []string{
		"DROP TABLE jumbomax_analytics.daily_performance",
		"delete from jumbomax_analytics.daily_performance where 1=1",
		"Truncate Table x",
		"   ",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			querier := new(MockQuerier)
			input, _ := json.Marshal(map[string]string{"query": q})

			out := newTools(querier, new(MockCatalog)).Call(context.Background(), "runSQL", input)

			te, ok := out.(ToolError)
			require.True(t, ok, "got %T", out)
			assert.True(t, te.Error)
			querier.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
		})
	}
}

func TestRunSQL_CapsRows(t *testing.T) {
	querier := new(MockQuerier)
	querier.On("Query", mock.Anything, "SELECT 1").Return(rowsOf(400), nil)

	out := newTools(querier, new(MockCatalog)).Call(context.Background(), "runSQL", json.RawMessage(`{"query":"SELECT 1"}`))

	res, ok := out.(*SQLResult)
	require.True(t, ok, "got %T", out)
	assert.Len(t, res.Results, 365)
	assert.Equal(t, 400, *res.Count)
	assert.True(t, *res.LimitApplied)
}

func TestRunSQL_EmptyAndFailing(t *testing.T) {
	querier := new(MockQuerier)
	querier.On("Query", mock.Anything, "SELECT none").Return([]map[string]any{}, nil)
	querier.On("Query", mock.Anything, "SELECT broken").Return(nil, errors.New("syntax error at end of input"))
	ts := newTools(querier, new(MockCatalog))

	out := ts.Call(context.Background(), "runSQL", json.RawMessage(`{"query":"SELECT none"}`))
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[],"message":"Query executed successfully but returned no data"}`, string(b))

	out = ts.Call(context.Background(), "runSQL", json.RawMessage(`{"query":"SELECT broken"}`))
	assert.Equal(t, ToolError{Error: true, Message: "syntax error at end of input"}, out)
}

func TestQueryWarehouseDirect_CapsAtHundred(t *testing.T) {
	querier := new(MockQuerier)
	querier.On("Query", mock.Anything, "SELECT *").Return(rowsOf(150), nil)

	out := newTools(querier, new(MockCatalog)).Call(context.Background(), "queryWarehouseDirect", json.RawMessage(`{"query":"SELECT *"}`))

	res := out.(*SQLResult)
	assert.True(t, res.Success)
	assert.Len(t, res.Results, 100)
	assert.True(t, *res.LimitApplied)
}

func TestGetTableSchema(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("DescribeTable", mock.Anything, "jumbomax_analytics", "daily_performance").
		Return([]persistence.ColumnInfo{{Name: "date", DataType: "date", Nullable: "NO"}}, nil)
	catalog.On("DescribeTable", mock.Anything, "hb_analytics", "missing").Return([]persistence.ColumnInfo{}, nil)
	ts := newTools(new(MockQuerier), catalog)

	out := ts.Call(context.Background(), "getTableSchema", json.RawMessage(`{"tableName":"daily_performance"}`))
	res := out.(map[string]any)
	assert.Equal(t, "jumbomax_analytics", res["datasetName"])
	assert.Equal(t, "Found 1 columns in table daily_performance", res["message"])

	out = ts.Call(context.Background(), "getTableSchema", json.RawMessage(`{"tableName":"missing","datasetName":"hb_analytics"}`))
	te := out.(ToolError)
	assert.Contains(t, te.Message, "No schema found for table missing")
}

func TestCatalogTools(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListDatasets", mock.Anything).Return([]string{"hb_analytics", "jumbomax_analytics"}, nil)
	catalog.On("ListTables", mock.Anything, "hb_analytics").
		Return([]persistence.TableInfo{{Name: "daily_performance", Type: "BASE TABLE"}}, nil)
	catalog.On("DescribeTable", mock.Anything, "bad name", "x").
		Return(nil, persistence.ErrInvalidIdentifier)
	ts := newTools(new(MockQuerier), catalog)

	out := ts.Call(context.Background(), "listDatasets", nil)
	b, _ := json.Marshal(out)
	assert.JSONEq(t, `{"success":true,"datasets":[{"id":"hb_analytics"},{"id":"jumbomax_analytics"}]}`, string(b))

	out = ts.Call(context.Background(), "listTables", json.RawMessage(`{"datasetId":"hb_analytics"}`))
	b, _ = json.Marshal(out)
	assert.JSONEq(t, `{"success":true,"datasetId":"hb_analytics","tables":[{"table_name":"daily_performance","table_type":"BASE TABLE"}]}`, string(b))

	out = ts.Call(context.Background(), "describeTable", json.RawMessage(`{"datasetId":"bad name","tableId":"x"}`))
	assert.Equal(t, ToolError{Error: true, Message: "invalid identifier"}, out)
}

func TestComposeReport(t *testing.T) {
	ts := newTools(new(MockQuerier), new(MockCatalog))

	input := json.RawMessage(`{
		"title": "September Review",
		"sections": [
			{"blocks": [{"kind": "text", "content": "## Summary"}, {"kind": "kpi", "title": "Revenue", "value": "$100K", "trend": "up"}]},
			{"columns": 2, "blocks": [
				{"kind": "table", "columns": ["Month", "Revenue"]},
				{"kind": "chart", "chart": {"mode": "basic", "type": "line", "x": "date", "y": ["revenue"], "rows": []}},
				{"kind": "divider"}
			]}
		]
	}`)
	out := ts.Call(context.Background(), "composeReport", input)

	res, ok := out.(ComposedReport)
	require.True(t, ok, "got %#v", out)
	assert.Equal(t, "Report", res.Component)
	assert.Equal(t, "Created September Review with 2 section(s) and 5 block(s)", res.Message)
	assert.Equal(t, 1, res.Props.Sections[0].Columns)
	assert.Equal(t, "p", res.Props.Sections[0].Blocks[0].Variant)
	assert.Equal(t, "line", res.Props.Sections[1].Blocks[2].Style)
	assert.NotNil(t, res.Props.Sections[1].Blocks[0].Rows)
}

func TestComposeReport_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no sections", `{"title":"x","sections":[]}`, "Report must contain at least one section"},
		{"empty section", `{"sections":[{"blocks":[]}]}`, "Blocks"},
		{"too many columns", `{"sections":[{"columns":5,"blocks":[{"kind":"divider"}]}]}`, "Columns failed max"},
		{"unknown kind", `{"sections":[{"blocks":[{"kind":"video"}]}]}`, "Kind failed oneof"},
		{"table without columns", `{"sections":[{"blocks":[{"kind":"table"}]}]}`, "Columns failed required"},
		{"kpi without value", `{"sections":[{"blocks":[{"kind":"kpi","title":"ROAS"}]}]}`, "Value failed required"},
		{"basic chart without y", `{"sections":[{"blocks":[{"kind":"chart","chart":{"mode":"basic","type":"bar","x":"d"}}]}]}`, "Y failed min"},
		{"image without url", `{"sections":[{"blocks":[{"kind":"image","alt":"logo"}]}]}`, "URL failed required"},
		{"bad trend", `{"sections":[{"blocks":[{"kind":"kpi","title":"a","value":1,"trend":"sideways"}]}]}`, "Trend failed oneof"},
		{"not json", `{"sections":`, "invalid report"},
	}
	ts := newTools(new(MockQuerier), new(MockCatalog))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ts.Call(context.Background(), "composeReport", json.RawMessage(tt.input))
			te, ok := out.(ToolError)
			require.True(t, ok, "got %#v", out)
			assert.Contains(t, te.Message, tt.want)
		})
	}
}

func TestToolset_UnknownTool(t *testing.T) {
	out := newTools(new(MockQuerier), new(MockCatalog)).Call(context.Background(), "weatherTool", nil)
	assert.Equal(t, ToolError{Error: true, Message: "Unknown tool: weatherTool"}, out)
}
