// Package extraction turns uploaded documents into business context entries
// using the document-reading model.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/infrastructure/llm"
)

const (
	maxTokens         = 4096
	maxTitle          = 200
	maxDescription    = 2000
	defaultConfidence = 0.5
)

// ErrExtractionFailed wraps model and parse failures
var ErrExtractionFailed = shared.NewDomainError("EXTRACTION_FAILED", "Failed to extract context from document")

// Entry is one validated extraction
type Entry struct {
	Category              string                    `json:"category"`
	Title                 string                    `json:"title"`
	Description           string                    `json:"description"`
	EventDate             *string                   `json:"event_date"`
	StartDate             *string                   `json:"start_date"`
	EndDate               *string                   `json:"end_date"`
	Magnitude             businesscontext.Magnitude `json:"magnitude"`
	ComparisonSignificant bool                      `json:"comparison_significant"`
	Confidence            float64                   `json:"confidence"`
	Source                string                    `json:"source"`
	SourceDocument        string                    `json:"source_document"`
}

// Request is one uploaded file
type Request struct {
	ClientID  string
	Filename  string
	MediaType string
	Data      []byte
	// Save stores the entries as business context in addition to returning them
	Save bool
}

// Result is the response of POST /api/context/extract
type Result struct {
	Success        bool    `json:"success"`
	Entries        []Entry `json:"entries"`
	Filename       string  `json:"filename"`
	TotalExtracted int     `json:"totalExtracted"`
	Saved          *int    `json:"saved,omitempty"`
}

// Store persists extracted entries
type Store interface {
	CreateExtracted(ctx context.Context, entries []businesscontext.Entry) int
}

// Service extracts business context from documents
type Service struct {
	reader  llm.DocumentReader
	store   Store
	metrics Metrics
	logger  *zap.Logger
}

// Metrics records document model calls
type Metrics interface {
	LLMRequest(ctx context.Context, operation string, d time.Duration, err error)
}

// Option configures a Service
type Option func(*Service)

// WithMetrics reports model calls to m
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates an extraction service. reader may be nil when no API
// key is configured.
func NewService(reader llm.DocumentReader, store Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{reader: reader, store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MediaType normalizes an upload content type
func MediaType(contentType string) string {
	mt := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if mt == "image/jpg" {
		return "image/jpeg"
	}
	return mt
}

// Extract sends the document to the model and validates what comes back
func (s *Service) Extract(ctx context.Context, req Request) (*Result, error) {
	if len(req.Data) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("No file provided")
	}
	if req.ClientID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Client ID is required")
	}
	mediaType := MediaType(req.MediaType)
	if !llm.SupportedMediaType(mediaType) {
		return nil, shared.ErrInvalidInput.WithMessage("Unsupported file type").WithDetails(req.MediaType)
	}
	if s.reader == nil {
		return nil, shared.ErrUnavailable.WithDetails("document model not configured")
	}

	s.logger.Info("Extracting context",
		zap.String("client_id", req.ClientID),
		zap.String("filename", req.Filename),
		zap.Int("size", len(req.Data)),
		zap.String("media_type", mediaType))

	start := time.Now()
	text, err := s.reader.ReadDocument(ctx, llm.DocumentRequest{
		MediaType: mediaType,
		Data:      req.Data,
		Prompt:    extractionPrompt,
		MaxTokens: maxTokens,
	})
	if s.metrics != nil {
		s.metrics.LLMRequest(ctx, "extract", time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("Document extraction failed", zap.String("filename", req.Filename), zap.Error(err))
		return nil, ErrExtractionFailed.WithDetails(err.Error())
	}

	entries, err := Parse(text, req.Filename)
	if err != nil {
		s.logger.Error("Failed to parse extraction results", zap.String("response", text), zap.Error(err))
		return nil, ErrExtractionFailed.WithDetails("Failed to parse extraction results")
	}
	s.logger.Info("Extracted context", zap.String("filename", req.Filename), zap.Int("entries", len(entries)))

	res := &Result{Success: true, Entries: entries, Filename: req.Filename, TotalExtracted: len(entries)}
	if req.Save && s.store != nil {
		saved := s.store.CreateExtracted(ctx, ToDomain(req.ClientID, entries))
		res.Saved = &saved
	}
	return res, nil
}

// stripFences removes a surrounding ```json or ``` code fence
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```json") {
		t = t[len("```json"):]
	} else if strings.HasPrefix(t, "```") {
		t = t[3:]
	}
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// Parse decodes the model answer and keeps the entries that carry a
// category, a title and a date
func Parse(text, filename string) ([]Entry, error) {
	var raw []map[string]any
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(raw))
	for _, r := range raw {
		category := stringField(r, "category")
		title := stringField(r, "title")
		eventDate := optionalString(r, "event_date")
		startDate := optionalString(r, "start_date")
		if category == "" || title == "" || (eventDate == nil && startDate == nil) {
			continue
		}
		if !categories[category] {
			category = businesscontext.CategoryOther
		}

		magnitude := businesscontext.MagnitudeModerate
		switch m := businesscontext.Magnitude(stringField(r, "magnitude")); m {
		case businesscontext.MagnitudeMajor, businesscontext.MagnitudeModerate, businesscontext.MagnitudeMinor:
			magnitude = m
		}

		significant, _ := r["comparison_significant"].(bool)
		confidence := defaultConfidence
		if c, ok := r["confidence"].(float64); ok {
			confidence = min(1, max(0, c))
		}

		out = append(out, Entry{
			Category:              category,
			Title:                 truncate(title, maxTitle),
			Description:           truncate(stringField(r, "description"), maxDescription),
			EventDate:             eventDate,
			StartDate:             startDate,
			EndDate:               optionalString(r, "end_date"),
			Magnitude:             magnitude,
			ComparisonSignificant: significant,
			Confidence:            confidence,
			Source:                businesscontext.SourceDocument,
			SourceDocument:        filename,
		})
	}
	return out, nil
}

func stringField(r map[string]any, key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil, bool:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func optionalString(r map[string]any, key string) *string {
	if s := stringField(r, key); s != "" {
		return &s
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ToDomain converts extractions into storable entries. Entries with a
// start_date become strategic context, single-day ones events. Unparseable
// dates are dropped.
func ToDomain(clientID string, entries []Entry) []businesscontext.Entry {
	out := make([]businesscontext.Entry, 0, len(entries))
	for _, e := range entries {
		kind := businesscontext.KindEvent
		dateStr := e.EventDate
		if dateStr == nil {
			kind = businesscontext.KindStrategic
			dateStr = e.StartDate
		}
		start, err := time.Parse(time.DateOnly, *dateStr)
		if err != nil {
			continue
		}
		var end *time.Time
		if e.EndDate != nil {
			if t, err := time.Parse(time.DateOnly, *e.EndDate); err == nil {
				end = &t
			}
		}
		significant := e.ComparisonSignificant
		entry, err := businesscontext.NewEntry(clientID, kind, e.Category, e.Title, e.Description, start, end, e.Magnitude, &significant)
		if err != nil {
			continue
		}
		entry.Source = businesscontext.SourceDocument
		entry.SourceDocument = e.SourceDocument
		entry.Confidence = e.Confidence
		entry.CreatedBy = "document-extraction"
		out = append(out, *entry)
	}
	return out
}
