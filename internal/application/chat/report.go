package chat

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Report is the structured report produced by composeReport
type Report struct {
	Title    string    `json:"title,omitempty"`
	Subtitle string    `json:"subtitle,omitempty"`
	Sections []Section `json:"sections" validate:"required,min=1,dive"`
	Footer   string    `json:"footer,omitempty"`
}

// Section lays blocks out in 1 to 4 columns
type Section struct {
	Columns int     `json:"columns" validate:"min=0,max=4"`
	Blocks  []Block `json:"blocks" validate:"required,min=1,dive"`
}

// Block is one report element; Kind selects which fields apply
type Block struct {
	Kind string `json:"kind" validate:"required,oneof=text table kpi chart image divider"`

	// text
	Variant string `json:"variant,omitempty" validate:"omitempty,oneof=h1 h2 h3 h4 h5 h6 p small"`
	Content string `json:"content,omitempty"`

	// table, kpi, chart
	Title string `json:"title,omitempty"`

	// table
	Columns []string         `json:"columns,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`

	// kpi
	Value  any    `json:"value,omitempty"`
	Change string `json:"change,omitempty"`
	Trend  string `json:"trend,omitempty" validate:"omitempty,oneof=up down neutral"`

	// chart
	Chart *Chart `json:"chart,omitempty"`

	// image
	Alt     string `json:"alt,omitempty"`
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`

	// divider
	Style string `json:"style,omitempty" validate:"omitempty,oneof=line space"`
}

// Chart is a basic chart (type, x, y, rows) or a Vega-Lite spec
type Chart struct {
	Mode string           `json:"mode" validate:"required,oneof=basic vega"`
	Type string           `json:"type,omitempty" validate:"omitempty,oneof=line bar area pie"`
	X    string           `json:"x,omitempty"`
	Y    []string         `json:"y,omitempty"`
	Rows []map[string]any `json:"rows,omitempty"`
	Spec any              `json:"spec,omitempty"`
}

var (
	reportValidator     *validator.Validate
	reportValidatorOnce sync.Once
)

func validate() *validator.Validate {
	reportValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterStructValidation(validateBlock, Block{})
		v.RegisterStructValidation(validateChart, Chart{})
		reportValidator = v
	})
	return reportValidator
}

func validateBlock(sl validator.StructLevel) {
	b := sl.Current().Interface().(Block)
	switch b.Kind {
	case "table":
		if len(b.Columns) == 0 {
			sl.ReportError(b.Columns, "Columns", "Columns", "required", "")
		}
	case "kpi":
		if b.Title == "" {
			sl.ReportError(b.Title, "Title", "Title", "required", "")
		}
		if b.Value == nil {
			sl.ReportError(b.Value, "Value", "Value", "required", "")
		}
	case "chart":
		if b.Chart == nil {
			sl.ReportError(b.Chart, "Chart", "Chart", "required", "")
		}
	case "image":
		if b.Alt == "" {
			sl.ReportError(b.Alt, "Alt", "Alt", "required", "")
		}
		if b.URL == "" {
			sl.ReportError(b.URL, "URL", "URL", "required", "")
		}
	}
}

func validateChart(sl validator.StructLevel) {
	c := sl.Current().Interface().(Chart)
	if c.Mode != "basic" {
		return
	}
	if c.Type == "" {
		sl.ReportError(c.Type, "Type", "Type", "required", "")
	}
	if c.X == "" {
		sl.ReportError(c.X, "X", "X", "required", "")
	}
	if len(c.Y) == 0 {
		sl.ReportError(c.Y, "Y", "Y", "min", "1")
	}
}

// Normalize applies the schema defaults in place
func (r *Report) Normalize() {
	for i := range r.Sections {
		s := &r.Sections[i]
		if s.Columns == 0 {
			s.Columns = 1
		}
		for j := range s.Blocks {
			b := &s.Blocks[j]
			switch b.Kind {
			case "text":
				if b.Variant == "" {
					b.Variant = "p"
				}
			case "table":
				if b.Rows == nil {
					b.Rows = []map[string]any{}
				}
			case "divider":
				if b.Style == "" {
					b.Style = "line"
				}
			}
		}
	}
}

// Validate checks the report against its schema
func (r *Report) Validate() error {
	if len(r.Sections) == 0 {
		return errors.New("Report must contain at least one section")
	}
	err := validate().Struct(r)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.TrimPrefix(fe.Namespace(), "Report."), fe.Tag()))
	}
	return fmt.Errorf("invalid report: %s", strings.Join(msgs, "; "))
}

// BlockCount is the total number of blocks across sections
func (r *Report) BlockCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Blocks)
	}
	return n
}
