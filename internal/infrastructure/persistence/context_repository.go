package persistence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/shared"
)

// ContextColumns are shared by both business context tables
type ContextColumns struct {
	ClientID              string    `gorm:"column:client_id;type:varchar(64);not null;index"`
	Magnitude             string    `gorm:"column:magnitude;type:varchar(16);not null;default:moderate"`
	ComparisonSignificant bool      `gorm:"column:comparison_significant;not null;default:false"`
	AlwaysOn              bool      `gorm:"column:always_on;not null;default:false"`
	Source                string    `gorm:"column:source;type:varchar(16);not null;default:manual"`
	SourceDocument        *string   `gorm:"column:source_document;type:varchar(255)"`
	Confidence            float64   `gorm:"column:confidence;not null;default:1"`
	CreatedBy             string    `gorm:"column:created_by;type:varchar(255);not null;default:system"`
	CreatedAt             time.Time `gorm:"column:created_at;not null"`
	UpdatedAt             time.Time `gorm:"column:updated_at;not null"`
}

// StrategicContextModel maps business_context.strategic_context
type StrategicContextModel struct {
	ContextID          uuid.UUID  `gorm:"column:context_id;type:uuid;primaryKey"`
	ContextCategory    string     `gorm:"column:context_category;type:varchar(64);not null"`
	StartDate          time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate            *time.Time `gorm:"column:end_date;type:date"`
	ContextTitle       string     `gorm:"column:context_title;type:varchar(200);not null"`
	ContextDescription string     `gorm:"column:context_description;type:text;not null;default:''"`
	ContextColumns     `gorm:"embedded"`
}

// TableName returns the schema-qualified table name
func (StrategicContextModel) TableName() string { return "business_context.strategic_context" }

// BusinessEventModel maps business_context.business_events
type BusinessEventModel struct {
	EventID          uuid.UUID  `gorm:"column:event_id;type:uuid;primaryKey"`
	EventCategory    string     `gorm:"column:event_category;type:varchar(64);not null"`
	EventDate        time.Time  `gorm:"column:event_date;type:date;not null"`
	ImpactEndDate    *time.Time `gorm:"column:impact_end_date;type:date"`
	EventTitle       string     `gorm:"column:event_title;type:varchar(200);not null"`
	EventDescription string     `gorm:"column:event_description;type:text;not null;default:''"`
	ContextColumns   `gorm:"embedded"`
}

// TableName returns the schema-qualified table name
func (BusinessEventModel) TableName() string { return "business_context.business_events" }

func columnsFrom(e *businesscontext.Entry) ContextColumns {
	c := ContextColumns{
		ClientID:              e.ClientID,
		Magnitude:             string(e.Magnitude),
		ComparisonSignificant: e.ComparisonSignificant,
		AlwaysOn:              e.AlwaysOn,
		Source:                e.Source,
		Confidence:            e.Confidence,
		CreatedBy:             e.CreatedBy,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
	if e.SourceDocument != "" {
		doc := e.SourceDocument
		c.SourceDocument = &doc
	}
	return c
}

func (c ContextColumns) apply(e *businesscontext.Entry) {
	e.ClientID = c.ClientID
	e.Magnitude = businesscontext.ParseMagnitude(c.Magnitude)
	e.ComparisonSignificant = c.ComparisonSignificant
	e.AlwaysOn = c.AlwaysOn
	e.Source = c.Source
	if c.SourceDocument != nil {
		e.SourceDocument = *c.SourceDocument
	}
	e.Confidence = c.Confidence
	e.CreatedBy = c.CreatedBy
	e.CreatedAt = c.CreatedAt
	e.UpdatedAt = c.UpdatedAt
}

// ToDomain converts the model to an entry
func (m *StrategicContextModel) ToDomain() businesscontext.Entry {
	e := businesscontext.Entry{
		ID:          m.ContextID,
		Kind:        businesscontext.KindStrategic,
		Category:    m.ContextCategory,
		Title:       m.ContextTitle,
		Description: m.ContextDescription,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
	}
	m.ContextColumns.apply(&e)
	return e
}

// ToDomain converts the model to an entry
func (m *BusinessEventModel) ToDomain() businesscontext.Entry {
	e := businesscontext.Entry{
		ID:          m.EventID,
		Kind:        businesscontext.KindEvent,
		Category:    m.EventCategory,
		Title:       m.EventTitle,
		Description: m.EventDescription,
		StartDate:   m.EventDate,
		EndDate:     m.ImpactEndDate,
	}
	m.ContextColumns.apply(&e)
	return e
}

// GormContextRepository implements businesscontext.Repository
type GormContextRepository struct {
	db *gorm.DB
}

// NewGormContextRepository creates the repository
func NewGormContextRepository(db *gorm.DB) *GormContextRepository {
	return &GormContextRepository{db: db}
}

// ListByClient returns strategic and event entries of a client, newest first
func (r *GormContextRepository) ListByClient(ctx context.Context, clientID string) ([]businesscontext.Entry, error) {
	var strategic []StrategicContextModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Find(&strategic).Error; err != nil {
		return nil, fmt.Errorf("list strategic context: %w", err)
	}
	var events []BusinessEventModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list business events: %w", err)
	}

	entries := make([]businesscontext.Entry, 0, len(strategic)+len(events))
	for i := range strategic {
		entries = append(entries, strategic[i].ToDomain())
	}
	for i := range events {
		entries = append(entries, events[i].ToDomain())
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].StartDate.After(entries[j].StartDate) })
	return entries, nil
}

// Create inserts the entry into the table of its kind
func (r *GormContextRepository) Create(ctx context.Context, e *businesscontext.Entry) error {
	var model any
	switch e.Kind {
	case businesscontext.KindStrategic:
		model = &StrategicContextModel{
			ContextID:          e.ID,
			ContextCategory:    e.Category,
			StartDate:          e.StartDate,
			EndDate:            e.EndDate,
			ContextTitle:       e.Title,
			ContextDescription: e.Description,
			ContextColumns:     columnsFrom(e),
		}
	case businesscontext.KindEvent:
		model = &BusinessEventModel{
			EventID:          e.ID,
			EventCategory:    e.Category,
			EventDate:        e.StartDate,
			ImpactEndDate:    e.EndDate,
			EventTitle:       e.Title,
			EventDescription: e.Description,
			ContextColumns:   columnsFrom(e),
		}
	default:
		_, err := businesscontext.ParseKind(string(e.Kind))
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create %s: %w", e.Kind, err)
	}
	return nil
}

// Delete removes one entry; shared.ErrNotFound when nothing matched
func (r *GormContextRepository) Delete(ctx context.Context, kind businesscontext.Kind, id uuid.UUID) error {
	var res *gorm.DB
	switch kind {
	case businesscontext.KindStrategic:
		res = r.db.WithContext(ctx).Where("context_id = ?", id).Delete(&StrategicContextModel{})
	case businesscontext.KindEvent:
		res = r.db.WithContext(ctx).Where("event_id = ?", id).Delete(&BusinessEventModel{})
	default:
		_, err := businesscontext.ParseKind(string(kind))
		return err
	}
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("Context entry not found")
	}
	return nil
}
