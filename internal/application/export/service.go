// Package export renders reports as PDFs and Google Docs.
package export

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/application/dashboard"
	"github.com/rooted/analytics/internal/application/markdown"
	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/infrastructure/gdrive"
	"github.com/rooted/analytics/internal/infrastructure/printing"
	"github.com/rooted/analytics/internal/infrastructure/storage"
	"github.com/rooted/analytics/internal/infrastructure/telemetry"
)

// ErrGoogleDocExport wraps Drive and conversion failures
var ErrGoogleDocExport = shared.NewDomainError("GOOGLE_DOC_EXPORT_FAILED", "Failed to export to Google Docs")

// pdfMargins match the @page rule of the print styles
var pdfMargins = printing.Margins{Top: 15, Right: 12, Bottom: 15, Left: 12}

// Service exports reports
type Service struct {
	renderer      printing.PDFRenderer
	archive       storage.Archive
	archivePrefix string
	uploader      gdrive.Uploader
	clients       *client.Registry
	md            goldmark.Markdown
	metrics       Metrics
	now           func() time.Time
	logger        *zap.Logger
}

// Metrics records finished exports
type Metrics interface {
	Exported(ctx context.Context, kind string, err error)
}

// Option configures a Service
type Option func(*Service)

// WithArchive copies every exported PDF to the archive under prefix
func WithArchive(a storage.Archive, prefix string) Option {
	return func(s *Service) {
		s.archive = a
		s.archivePrefix = prefix
	}
}

// WithMetrics reports every export attempt to m
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an export service. renderer and uploader may be nil
// when PDF rendering or Google Drive are not configured.
func NewService(renderer printing.PDFRenderer, uploader gdrive.Uploader, clients *client.Registry, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		renderer: renderer,
		uploader: uploader,
		clients:  clients,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PDFRequest is the body of POST /api/reports/export-pdf
type PDFRequest struct {
	HTMLContent string `json:"htmlContent"`
	ClientID    string `json:"clientId"`
	ReportType  string `json:"reportType"`
	Title       string `json:"title"`
}

// PDF is a rendered report
type PDF struct {
	Data     []byte
	Filename string
	Pages    int
	// ArchivedAt is the archive location, empty when archiving is off or failed
	ArchivedAt string
}

// PDFFilename is report-<client>-<unix ms>.pdf
func PDFFilename(clientID string, at time.Time) string {
	if clientID == "" {
		clientID = "report"
	}
	return fmt.Sprintf("report-%s-%d.pdf", clientID, at.UnixMilli())
}

// ExportPDF renders the HTML with the print styles
func (s *Service) ExportPDF(ctx context.Context, req PDFRequest) (_ *PDF, err error) {
	ctx, span := telemetry.StartSpan(ctx, "export", "pdf", telemetry.ExportKindAttr("pdf"), telemetry.ClientAttr(req.ClientID))
	defer func() {
		telemetry.EndSpan(span, err)
		s.observe(ctx, "pdf", err)
	}()
	if strings.TrimSpace(req.HTMLContent) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("No HTML content provided")
	}
	if s.renderer == nil {
		return nil, shared.ErrUnavailable.WithDetails("PDF renderer not configured")
	}

	title := req.Title
	if title == "" {
		title = "Report - " + req.ClientID
	}
	s.logger.Info("Generating PDF", zap.String("client_id", req.ClientID), zap.String("report_type", req.ReportType))

	res, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:       PrintDocument(title, req.HTMLContent),
		Title:      title,
		PaperSize:  printing.PaperA4,
		Margins:    pdfMargins,
		FooterHTML: printing.PageNumberFooter,
	})
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	now := s.now()
	out := &PDF{Data: res.PDFData, Filename: PDFFilename(req.ClientID, now), Pages: res.PageCount}
	if s.archive != nil {
		key := storage.ReportKey(s.archivePrefix, req.ClientID, out.Filename, now)
		loc, err := s.archive.Put(ctx, key, res.PDFData, "application/pdf")
		if err != nil {
			s.logger.Warn("Failed to archive PDF", zap.String("key", key), zap.Error(err))
		} else {
			out.ArchivedAt = loc
		}
	}
	return out, nil
}

// GoogleDocRequest is the body of POST /api/reports/export-google-doc
type GoogleDocRequest struct {
	ClientID      string         `json:"clientId"`
	Period        string         `json:"period"`
	DashboardData dashboard.KPIs `json:"dashboardData"`
}

// GoogleDoc is the uploaded document
type GoogleDoc struct {
	Success     bool   `json:"success"`
	DocID       string `json:"docId"`
	WebViewLink string `json:"webViewLink"`
	FileName    string `json:"fileName"`
	Message     string `json:"message"`
}

// ExportGoogleDoc writes the dashboard summary to the reports folder as a
// Google Doc
func (s *Service) ExportGoogleDoc(ctx context.Context, req GoogleDocRequest) (_ *GoogleDoc, err error) {
	ctx, span := telemetry.StartSpan(ctx, "export", "google_doc", telemetry.ExportKindAttr("google_doc"), telemetry.ClientAttr(req.ClientID))
	defer func() {
		telemetry.EndSpan(span, err)
		s.observe(ctx, "google_doc", err)
	}()
	if req.ClientID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Client ID is required")
	}
	if s.uploader == nil {
		return nil, shared.ErrUnavailable.WithDetails(gdrive.ErrNotConfigured.Error())
	}
	now := s.now()

	md := DashboardMarkdown(req.ClientID, req.Period, req.DashboardData, s.symbol(req.ClientID), now)
	var body bytes.Buffer
	if err := s.md.Convert([]byte(md), &body); err != nil {
		return nil, ErrGoogleDocExport.WithDetails(err.Error())
	}
	page := "<html><head><meta charset=\"UTF-8\"></head><body>" + body.String() + "</body></html>"

	name := fmt.Sprintf("%s - Performance Report - %s - %s",
		strings.ToUpper(req.ClientID), period.Label(req.Period), now.Format("1/2/2006"))
	file, err := s.uploader.UploadDocument(ctx, gdrive.Document{
		Name:        name,
		Content:     []byte(page),
		ContentType: gdrive.MimeHTML,
	})
	if err != nil {
		s.logger.Error("Google Docs export failed", zap.String("client_id", req.ClientID), zap.Error(err))
		return nil, ErrGoogleDocExport.WithDetails(err.Error())
	}
	s.logger.Info("Exported Google Doc", zap.String("client_id", req.ClientID), zap.String("doc_id", file.ID))

	return &GoogleDoc{
		Success:     true,
		DocID:       file.ID,
		WebViewLink: file.WebViewLink,
		FileName:    name,
		Message:     "Report successfully exported to Google Docs and shared with organization",
	}, nil
}

func (s *Service) observe(ctx context.Context, kind string, err error) {
	if s.metrics != nil {
		s.metrics.Exported(ctx, kind, err)
	}
}

func (s *Service) symbol(clientID string) string {
	if s.clients != nil {
		if cfg, err := s.clients.Get(clientID); err == nil {
			return cfg.Symbol()
		}
	}
	return "$"
}

func wholeMoney(v float64, symbol string) string {
	r := math.Round(v)
	return markdown.Money(&r, symbol)
}

func growth(v float64) string { return markdown.SignedPct(&v) }

func roas(v float64) string { return markdown.Multiple(&v) }

// DashboardMarkdown renders the dashboard KPIs of one period as a report
func DashboardMarkdown(clientID, token string, k dashboard.KPIs, symbol string, now time.Time) string {
	key := period.Key(token)
	money := func(v float64) string { return wholeMoney(v, symbol) }

	doc := markdown.New("")
	summary := doc.Section("Executive Summary")
	table := summary.Table("Metric", "Value", "YoY Growth")
	add := func(label string, m *dashboard.Metric, format func(float64) string) {
		if m == nil {
			return
		}
		if pv, ok := m.PeriodData[key]; ok {
			table.Row(label, format(pv.Value), growth(pv.Trend))
		}
	}
	add("Total Revenue", &k.TotalRevenue, money)
	add("Blended ROAS", &k.BlendedROAS, roas)
	add("Paid Media Spend", &k.PaidMediaSpend, money)
	add("Email Revenue", k.EmailPerformance, money)

	platforms := doc.Section("Platform Performance")
	platform := func(heading string, spend, revenue, ratio dashboard.Metric) {
		sp, ok1 := spend.PeriodData[key]
		rv, ok2 := revenue.PeriodData[key]
		ro, ok3 := ratio.PeriodData[key]
		if !ok1 || !ok2 || !ok3 {
			return
		}
		platforms.Sub(heading).Bullets(
			fmt.Sprintf("Spend: %s (%s YoY)", money(sp.Value), growth(sp.Trend)),
			fmt.Sprintf("Revenue: %s (%s YoY)", money(rv.Value), growth(rv.Trend)),
			fmt.Sprintf("ROAS: %s (%s YoY)", roas(ro.Value), growth(ro.Trend)),
		)
	}
	platform("Google Ads", k.GoogleSpend, k.GoogleRevenue, k.GoogleROAS)
	platform("Meta (Facebook & Instagram)", k.MetaSpend, k.MetaRevenue, k.MetaROAS)

	var b strings.Builder
	b.WriteString("# Performance Report\n\n")
	fmt.Fprintf(&b, "**%s • %s**\n\n", strings.ToUpper(clientID), period.Label(token))
	fmt.Fprintf(&b, "Generated on %s\n\n", now.Format("Monday, January 2, 2006"))
	b.WriteString(doc.Render())
	b.WriteString("\n---\n\n_Generated with AI Analytics Dashboard • Rooted Solutions_\n")
	return b.String()
}
