package markdown

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/report"
)

// Options carries per-request rendering settings
type Options struct {
	// Symbol is the client's currency symbol; "$" when empty
	Symbol  string
	Context businesscontext.Matched
}

func (o Options) symbol() string {
	if o.Symbol == "" {
		return "$"
	}
	return o.Symbol
}

// Formatter renders one report type
type Formatter interface {
	Format(data report.Data, opts Options) string
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc func(data report.Data, opts Options) string

func (f FormatterFunc) Format(data report.Data, opts Options) string { return f(data, opts) }

// Registry maps report types to formatters. It is immutable once built.
type Registry struct {
	formatters map[string]Formatter
	fallback   Formatter
}

// NewRegistry returns the registry with the built-in formatters. The HB and
// JumboMax monthly reports share the platform-detail template.
func NewRegistry() *Registry {
	return &Registry{
		formatters: map[string]Formatter{
			report.TypeMonthlyPerformance:         MonthlyTemplate{},
			report.TypeHBMonthlyPerformance:       PlatformDetailTemplate,
			report.TypeJumboMaxMonthlyPerformance: PlatformDetailTemplate,
		},
		fallback: FormatterFunc(JSON),
	}
}

// Format renders data with the formatter registered for reportType, falling
// back to indented JSON
func (r *Registry) Format(reportType string, data report.Data, opts Options) string {
	if f, ok := r.formatters[reportType]; ok {
		return f.Format(data, opts)
	}
	return r.fallback.Format(data, opts)
}

// Has reports whether reportType has a dedicated formatter
func (r *Registry) Has(reportType string) bool {
	_, ok := r.formatters[reportType]
	return ok
}

// JSON renders data as indented JSON followed by the business context section
func JSON(data report.Data, opts Options) string {
	var b strings.Builder
	if data == nil {
		b.WriteString("## No data\n")
		b.WriteString(NoDataText)
		b.WriteString("\n")
	} else {
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			raw = []byte(fmt.Sprintf("%q", err.Error()))
		}
		b.WriteString("```json\n")
		b.Write(raw)
		b.WriteString("\n```\n")
	}
	if !opts.Context.IsEmpty() {
		doc := New("")
		contextSection(doc, opts.Context)
		b.WriteString("\n")
		b.WriteString(doc.Render())
	}
	return b.String()
}

// FormatContext renders matched business context as a standalone section.
// Empty input yields an empty string.
func FormatContext(m businesscontext.Matched) string {
	if m.IsEmpty() {
		return ""
	}
	doc := New("")
	contextSection(doc, m)
	return doc.Render()
}

func contextSection(doc *Document, m businesscontext.Matched) {
	if m.IsEmpty() {
		return
	}
	s := doc.Section("BUSINESS CONTEXT")
	s.Para("Use these qualitative notes to explain anomalies in the numbers above. Do not invent context that is not listed.")

	if len(m.AlwaysOn) > 0 {
		s.Sub("Standing Context").Bullets(contextItems(m.AlwaysOn)...)
	}
	if len(m.Direct) > 0 {
		s.Sub("Events During This Period").Bullets(contextItems(m.Direct)...)
	}
	if len(m.Comparison) > 0 {
		s.Sub("Events Affecting Year-over-Year Comparison").
			Para("These happened during the same period last year and may distort YoY deltas.").
			Bullets(contextItems(m.Comparison)...)
	}
}

func contextItems(entries []businesscontext.Entry) []string {
	sorted := append([]businesscontext.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartDate.Before(sorted[j].StartDate) })

	items := make([]string, 0, len(sorted))
	for _, e := range sorted {
		dates := e.StartDate.Format(period.DateLayout)
		if e.EndDate != nil && !e.EndDate.Equal(e.StartDate) {
			dates += " to " + e.EndDate.Format(period.DateLayout)
		}
		item := fmt.Sprintf("**%s** (%s, %s, %s)", e.Title, e.Category, e.Magnitude, dates)
		if e.Description != "" {
			item += ": " + e.Description
		}
		items = append(items, item)
	}
	return items
}
