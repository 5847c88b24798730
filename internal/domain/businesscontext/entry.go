// Package businesscontext models qualitative, dated annotations (promotions,
// launches, site issues, strategy notes) and decides which of them are
// relevant to a reporting window.
package businesscontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rooted/analytics/internal/domain/shared"
)

// Kind distinguishes long-running strategic notes from dated events
type Kind string

const (
	KindStrategic Kind = "strategic"
	KindEvent     Kind = "event"
)

// ParseKind validates a kind string
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindStrategic, KindEvent:
		return Kind(s), nil
	}
	return "", shared.ErrInvalidInput.WithMessage(`Invalid type. Must be "strategic" or "event"`)
}

// Magnitude of an event's expected impact
type Magnitude string

const (
	MagnitudeMajor    Magnitude = "major"
	MagnitudeModerate Magnitude = "moderate"
	MagnitudeMinor    Magnitude = "minor"
)

// ParseMagnitude returns the magnitude or moderate when the value is not recognised
func ParseMagnitude(s string) Magnitude {
	switch m := Magnitude(strings.ToLower(strings.TrimSpace(s))); m {
	case MagnitudeMajor, MagnitudeModerate, MagnitudeMinor:
		return m
	}
	return MagnitudeModerate
}

// Source of an entry
const (
	SourceManual   = "manual"
	SourceDocument = "document"
)

// Entry is one business context annotation
type Entry struct {
	ID                    uuid.UUID  `json:"id"`
	ClientID              string     `json:"client_id"`
	Kind                  Kind       `json:"type"`
	Category              string     `json:"category"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               *time.Time `json:"end_date,omitempty"`
	Magnitude             Magnitude  `json:"magnitude"`
	ComparisonSignificant bool       `json:"comparison_significant"`
	AlwaysOn              bool       `json:"always_on"`
	Source                string     `json:"source"`
	SourceDocument        string     `json:"source_document,omitempty"`
	Confidence            float64    `json:"confidence"`
	CreatedBy             string     `json:"created_by"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// NewEntry builds an entry and applies category defaults.
// comparisonSignificant nil means "use the category default".
func NewEntry(clientID string, kind Kind, category, title, description string, start time.Time, end *time.Time, magnitude Magnitude, comparisonSignificant *bool) (*Entry, error) {
	if clientID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Client ID is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Title is required")
	}
	if start.IsZero() {
		return nil, shared.ErrInvalidInput.WithMessage("Start date is required")
	}
	if end != nil && end.Before(start) {
		return nil, shared.ErrInvalidInput.WithMessage("End date must be on or after start date")
	}
	if magnitude == "" {
		magnitude = MagnitudeModerate
	}
	if _, ok := Categories[category]; !ok {
		category = CategoryOther
	}

	sig := DefaultComparisonSignificant(category, magnitude)
	if comparisonSignificant != nil {
		sig = *comparisonSignificant
	}

	// point events without an explicit end fade out after the category tail
	if cfg := CategoryFor(category); cfg.Type == TypePoint && end == nil {
		tail := start.AddDate(0, 0, cfg.TailDays)
		end = &tail
	}

	now := time.Now().UTC()
	return &Entry{
		ID:                    uuid.New(),
		ClientID:              clientID,
		Kind:                  kind,
		Category:              category,
		Title:                 title,
		Description:           description,
		StartDate:             start,
		EndDate:               end,
		Magnitude:             magnitude,
		ComparisonSignificant: sig,
		AlwaysOn:              IsAlwaysIncluded(category),
		Source:                SourceManual,
		Confidence:            1,
		CreatedBy:             "system",
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// EffectiveEnd applies category tail/buffer days. A nil result means open-ended.
func (e Entry) EffectiveEnd() *time.Time {
	cfg := CategoryFor(e.Category)
	switch cfg.Type {
	case TypePoint:
		if e.EndDate != nil {
			return e.EndDate
		}
		end := e.StartDate.AddDate(0, 0, cfg.TailDays)
		return &end
	case TypeBounded:
		base := e.StartDate
		if e.EndDate != nil {
			base = *e.EndDate
		}
		end := base.AddDate(0, 0, cfg.BufferDays)
		return &end
	default:
		return e.EndDate
	}
}

// Repository persists context entries
type Repository interface {
	ListByClient(ctx context.Context, clientID string) ([]Entry, error)
	Create(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, kind Kind, id uuid.UUID) error
}
