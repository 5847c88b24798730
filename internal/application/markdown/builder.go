// Package markdown compacts report data into markdown documents sized for an
// LLM prompt. Documents are built as sections of paragraphs, bullets and
// tables, and rendered in one pass.
package markdown

import (
	"strings"
)

// NoDataText is rendered by sections and documents that have nothing to show
const NoDataText = "_No data available for this report._"

type block interface {
	render(b *strings.Builder)
}

type paragraph string

func (p paragraph) render(b *strings.Builder) {
	b.WriteString(string(p))
	b.WriteString("\n\n")
}

type bulletList []string

func (l bulletList) render(b *strings.Builder) {
	for _, item := range l {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// Table is a markdown table; cells are escaped on render
type Table struct {
	headers []string
	rows    [][]string
}

// Row appends a row; missing cells are padded, extra cells dropped
func (t *Table) Row(cells ...string) *Table {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return t
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) render(b *strings.Builder) {
	writeRow(b, t.headers)
	b.WriteString("|")
	for range t.headers {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, r := range t.rows {
		writeRow(b, r)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// Section is a heading followed by blocks
type Section struct {
	heading string
	level   int
	blocks  []block
	subs    []*Section
}

// Para appends a paragraph
func (s *Section) Para(text string) *Section {
	s.blocks = append(s.blocks, paragraph(text))
	return s
}

// Bullets appends a bullet list
func (s *Section) Bullets(items ...string) *Section {
	if len(items) > 0 {
		s.blocks = append(s.blocks, bulletList(items))
	}
	return s
}

// KV appends "- key: value" bullets from alternating key/value pairs
func (s *Section) KV(pairs ...string) *Section {
	items := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, pairs[i]+": "+pairs[i+1])
	}
	return s.Bullets(items...)
}

// Table appends a table with the given headers
func (s *Section) Table(headers ...string) *Table {
	t := &Table{headers: headers}
	s.blocks = append(s.blocks, t)
	return t
}

// Sub appends a sub-section one level deeper
func (s *Section) Sub(heading string) *Section {
	sub := &Section{heading: heading, level: s.level + 1}
	s.subs = append(s.subs, sub)
	return sub
}

// HasContent reports whether anything beyond the heading would render
func (s *Section) HasContent() bool {
	for _, bl := range s.blocks {
		if t, ok := bl.(*Table); ok && t.Len() == 0 {
			continue
		}
		return true
	}
	for _, sub := range s.subs {
		if sub.HasContent() {
			return true
		}
	}
	return false
}

func (s *Section) render(b *strings.Builder) {
	b.WriteString(strings.Repeat("#", s.level))
	b.WriteString(" ")
	b.WriteString(s.heading)
	b.WriteString("\n")
	if !s.HasContent() {
		b.WriteString(NoDataText)
		b.WriteString("\n\n")
		return
	}
	for _, bl := range s.blocks {
		bl.render(b)
	}
	for _, sub := range s.subs {
		if sub.HasContent() {
			sub.render(b)
		}
	}
}

// Document is an ordered list of sections under an optional title
type Document struct {
	title    string
	preamble []string
	sections []*Section
}

// New returns a document with a level-1 title
func New(title string) *Document {
	return &Document{title: title}
}

// Prepend inserts raw lines above the title
func (d *Document) Prepend(lines ...string) *Document {
	d.preamble = append(append([]string{}, lines...), d.preamble...)
	return d
}

// Section appends a level-2 section
func (d *Document) Section(heading string) *Section {
	s := &Section{heading: heading, level: 2}
	d.sections = append(d.sections, s)
	return s
}

// HasContent reports whether any section has content
func (d *Document) HasContent() bool {
	for _, s := range d.sections {
		if s.HasContent() {
			return true
		}
	}
	return false
}

// Render produces the markdown. Sections without content are skipped; a
// document with no content renders a single "No data" section.
func (d *Document) Render() string {
	var b strings.Builder
	if len(d.preamble) > 0 {
		b.WriteString(strings.Join(d.preamble, "\n"))
		b.WriteString("\n\n")
	}
	if d.title != "" {
		b.WriteString("# ")
		b.WriteString(d.title)
		b.WriteString("\n\n")
	}
	if !d.HasContent() {
		b.WriteString("## No data\n")
		b.WriteString(NoDataText)
		b.WriteString("\n")
		return b.String()
	}
	for _, s := range d.sections {
		if s.HasContent() {
			s.render(&b)
		}
	}
	return b.String()
}
