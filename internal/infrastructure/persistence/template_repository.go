package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/domain/template"
)

// ReportTemplateModel maps admin_configs.report_templates
type ReportTemplateModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ClientID    string    `gorm:"column:client_id;type:varchar(64);not null;index"`
	TemplateID  string    `gorm:"column:template_id;type:varchar(128);not null"`
	Title       string    `gorm:"column:title;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text;not null;default:''"`
	Category    string    `gorm:"column:category;type:varchar(64);not null;default:performance"`
	Prompt      string    `gorm:"column:prompt;type:text;not null"`
	Period      *string   `gorm:"column:period;type:varchar(32)"`
	DataFetcher *string   `gorm:"column:data_fetcher;type:varchar(128)"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
	CreatedBy   string    `gorm:"column:created_by;type:varchar(255)"`
	ModifiedBy  string    `gorm:"column:modified_by;type:varchar(255)"`
}

// TableName returns the schema-qualified table name
func (ReportTemplateModel) TableName() string { return "admin_configs.report_templates" }

// ToDomain converts the model and applies read defaults
func (m *ReportTemplateModel) ToDomain() template.Template {
	t := template.Template{
		ID:          m.ID,
		ClientID:    m.ClientID,
		TemplateID:  m.TemplateID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Prompt:      m.Prompt,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CreatedBy:   m.CreatedBy,
		ModifiedBy:  m.ModifiedBy,
	}
	if m.Period != nil {
		t.Period = *m.Period
	}
	if m.DataFetcher != nil {
		t.DataFetcher = *m.DataFetcher
	}
	t.ApplyDefaults()
	return t
}

func templateModelFrom(t *template.Template) *ReportTemplateModel {
	m := &ReportTemplateModel{
		ID:          t.ID,
		ClientID:    t.ClientID,
		TemplateID:  t.TemplateID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Prompt:      t.Prompt,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CreatedBy:   t.CreatedBy,
		ModifiedBy:  t.ModifiedBy,
	}
	if t.Period != "" {
		m.Period = &t.Period
	}
	if t.DataFetcher != "" {
		m.DataFetcher = &t.DataFetcher
	}
	return m
}

// GormTemplateRepository implements template.Repository
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates the repository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// List returns templates ordered by client and title
func (r *GormTemplateRepository) List(ctx context.Context, f template.Filter) ([]template.Template, error) {
	q := r.db.WithContext(ctx).Model(&ReportTemplateModel{})
	if f.ClientID != "" {
		q = q.Where("client_id = ? OR client_id = ?", f.ClientID, template.AllClients)
	}
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	var models []ReportTemplateModel
	if err := q.Order("client_id, title").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	out := make([]template.Template, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToDomain())
	}
	return out, nil
}

// Create inserts a template
func (r *GormTemplateRepository) Create(ctx context.Context, t *template.Template) error {
	if err := r.db.WithContext(ctx).Create(templateModelFrom(t)).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *GormTemplateRepository) scoped(ctx context.Context, key template.Key) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).Model(&ReportTemplateModel{})
	switch {
	case key.ID != nil:
		return q.Where("id = ?", *key.ID), nil
	case key.TemplateID != "":
		return q.Where("template_id = ?", key.TemplateID), nil
	}
	return nil, shared.ErrInvalidInput.WithMessage("Either id or template_id is required")
}

// Update changes the provided fields and bumps updated_at
func (r *GormTemplateRepository) Update(ctx context.Context, key template.Key, u template.Update) error {
	q, err := r.scoped(ctx, key)
	if err != nil {
		return err
	}

	changes := map[string]any{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		changes["title"] = *u.Title
	}
	if u.Description != nil {
		changes["description"] = *u.Description
	}
	if u.Category != nil {
		changes["category"] = *u.Category
	}
	if u.Prompt != nil {
		changes["prompt"] = *u.Prompt
	}
	if u.Period != nil {
		changes["period"] = *u.Period
	}
	if u.DataFetcher != nil {
		changes["data_fetcher"] = *u.DataFetcher
	}
	if u.IsActive != nil {
		changes["is_active"] = *u.IsActive
	}
	if u.ModifiedBy != "" {
		changes["modified_by"] = u.ModifiedBy
	}

	res := q.Updates(changes)
	if res.Error != nil {
		return fmt.Errorf("update template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("Template not found")
	}
	return nil
}

// Delete hard-deletes or deactivates matching templates
func (r *GormTemplateRepository) Delete(ctx context.Context, key template.Key, hard bool) error {
	q, err := r.scoped(ctx, key)
	if err != nil {
		return err
	}

	var res *gorm.DB
	if hard {
		res = q.Delete(&ReportTemplateModel{})
	} else {
		res = q.Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	}
	if res.Error != nil {
		return fmt.Errorf("delete template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("Template not found")
	}
	return nil
}
