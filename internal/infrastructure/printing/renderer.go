// Package printing renders report HTML to PDF through headless Chrome.
package printing

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// Render failures. Errors returned by a renderer wrap one of these.
var (
	ErrEmptyDocument = errors.New("pdf: HTML content is empty")
	ErrRenderTimeout = errors.New("pdf: rendering timed out")
	ErrRenderFailed  = errors.New("pdf: rendering failed")
)

// PaperSize in millimetres
type PaperSize struct {
	Name          string
	Width, Height float64
}

// PaperA4 is the page size of exported reports
var PaperA4 = PaperSize{Name: "A4", Width: 210, Height: 297}

// Margins in millimetres
type Margins struct {
	Top, Right, Bottom, Left float64
}

// PageNumberFooter is a Chrome footer template printing "n / total"
const PageNumberFooter = `<div style="font-size:9px;width:100%;text-align:center;color:#666;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// RenderRequest is one HTML document to print
type RenderRequest struct {
	HTML      string
	Title     string
	PaperSize PaperSize // A4 when zero
	Landscape bool
	Margins   Margins
	// HeaderHTML and FooterHTML are Chrome print templates; setting either
	// prints both
	HeaderHTML string
	FooterHTML string
	Timeout    time.Duration // renderer default when zero
}

// RenderResult is the printed document
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// pageObject matches page dictionaries but not the /Pages tree nodes
var pageObject = regexp.MustCompile(`/Type\s*/Page\b`)

// countPages estimates the page count of a PDF; at least 1
func countPages(pdf []byte) int {
	return max(len(pageObject.FindAllIndex(pdf, -1)), 1)
}
