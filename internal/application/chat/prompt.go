package chat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rooted/analytics/internal/domain/client"
)

const basePrompt = `You are a professional data analyst assistant with access to the analytics warehouse. Always format your responses professionally with clear structure.

**RESPONSE FORMATTING REQUIREMENTS:**
- Use ## for main headings and ### for subheadings
- Use bullet points (-) for lists and key insights
- Use numbered lists (1., 2., 3.) for step-by-step processes
- Use **bold** for important metrics, numbers, and key findings
- Use code blocks for SQL queries when showing examples
- Always provide clear summaries and actionable insights
- Do not include any emojis in your final summary or analysis.`

const reportingInstructions = `

**REPORTING CAPABILITIES:**
When you need to present comprehensive analysis with visualizations, use the ` + "`composeReport`" + ` tool to create structured reports with:
- **Text blocks**: Headers (h1-h6), paragraphs, and formatted content
- **KPI blocks**: Key metrics with values, change indicators, and trend arrows
- **Table blocks**: Structured data presentations with optional titles
- **Chart blocks**: Basic charts (line, bar, area, pie with x/y keys and rows) or Vega-Lite specifications
- **Image blocks**: Referenced images with alt text and captions
- **Layout control**: Organize content in 1-4 column sections

**IMPORTANT:** When using composeReport, provide only a brief confirmation message in your response. Do NOT duplicate the report content in your text response.

The report should be complete and self-contained with:
- **Executive Summary section** at the top with key findings and recommendations
- **Data analysis sections** with charts, tables, and KPIs
- **Detailed insights section** with thorough analysis
- **Conclusions and Next Steps section** at the bottom with actionable recommendations`

const analysisApproach = `

**ANALYSIS APPROACH:**
Provide direct analysis in your response without using the composeReport tool. Focus on:
- Clear, concise insights with proper formatting
- Key metrics and findings presented in text
- **IMPORTANT**: For tabular data, always use proper markdown table syntax with alignment
- Use bullet points for lists and key insights
- Direct recommendations and conclusions
- Quick, actionable summaries`

// toolHints describes the tools in the order the prompt lists them
var toolHints = []struct{ name, hint string }{
	{"listDatasets", "See all available datasets"},
	{"listTables", "See all tables in a specific dataset"},
	{"describeTable", "Get detailed schema for any table (recommended over getTableSchema)"},
	{"getTableSchema", "Get basic column info for tables"},
	{"runSQL", "Execute SQL queries (preferred for most queries)"},
	{"queryWarehouseDirect", "Alternative SQL execution method"},
	{"composeReport", "Create structured reports with charts, tables, KPIs, and multi-column layouts"},
}

const toolWorkflow = `

**Analysis Workflow:**
1. **Discover** available data using listDatasets and listTables
2. **Examine** table structures using describeTable before querying
3. **Query** data using qualified names: %s.table_name
4. **Analyze** results and provide formatted insights with clear headers and bullets
5. **Summarize** findings with actionable recommendations`

const prefetchedGuidance = `

**PRE-FETCHED DATA:**
The task-specific context above already contains the report data, fetched from the warehouse for the requested period. Base your analysis on it and only query the warehouse for figures it does not contain.`

// PromptInput selects the sections of the system prompt
type PromptInput struct {
	Client            client.Config
	SystemContext     string
	ExpectsReport     bool
	HasPrefetchedData bool
	// Tools names the tools bound to the conversation; none omits the guide
	Tools []string
}

// writeToolGuide lists the bound tools, hinted ones first in prompt order
func writeToolGuide(b *strings.Builder, tools []string, dataset string) {
	b.WriteString("\n\n**Available Tools:**")
	listed := make(map[string]bool, len(tools))
	for _, h := range toolHints {
		if slices.Contains(tools, h.name) {
			fmt.Fprintf(b, "\n- **%s:** %s", h.name, h.hint)
			listed[h.name] = true
		}
	}
	for _, name := range tools {
		if !listed[name] {
			fmt.Fprintf(b, "\n- **%s**", name)
		}
	}
	fmt.Fprintf(b, toolWorkflow, dataset)
}

// SystemPrompt assembles the analyst system prompt
func SystemPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	if in.ExpectsReport {
		b.WriteString(reportingInstructions)
	} else {
		b.WriteString(analysisApproach)
	}
	if len(in.Tools) > 0 {
		writeToolGuide(&b, in.Tools, in.Client.Dataset)
	}
	if in.SystemContext != "" {
		b.WriteString("\n\n**TASK-SPECIFIC CONTEXT:**\n")
		b.WriteString(in.SystemContext)
	}
	if in.HasPrefetchedData {
		b.WriteString(prefetchedGuidance)
	}

	b.WriteString("\n\n**Current Context:**\n")
	fmt.Fprintf(&b, "- **Primary Dataset:** %s\n", in.Client.Dataset)
	b.WriteString(client.GenerateClientContext(in.Client))
	return strings.TrimRight(b.String(), "\n") + "\n"
}
