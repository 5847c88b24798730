// Package template holds report templates: named prompts bound to a data
// fetcher and a default period, owned by one client or by "all".
package template

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rooted/analytics/internal/domain/shared"
)

// AllClients is the client_id of templates shared by every client
const AllClients = "all"

const (
	DefaultCategory = "performance"
	DefaultPeriod   = "30d"
)

// Template is one row of admin_configs.report_templates
type Template struct {
	ID          uuid.UUID `json:"id"`
	ClientID    string    `json:"client_id"`
	TemplateID  string    `json:"template_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Prompt      string    `json:"prompt"`
	Period      string    `json:"period"`
	DataFetcher string    `json:"data_fetcher"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   string    `json:"created_by"`
	ModifiedBy  string    `json:"modified_by"`
}

// ApplyDefaults fills period and data fetcher when they are unset
func (t *Template) ApplyDefaults() {
	if t.Period == "" {
		t.Period = DefaultPeriod
	}
	if t.DataFetcher == "" {
		t.DataFetcher = t.TemplateID
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
}

// New validates the required fields and returns an active template
func New(clientID, templateID, title, description, category, prompt, createdBy string) (*Template, error) {
	if clientID == "" || templateID == "" || title == "" || prompt == "" {
		return nil, shared.ErrInvalidInput.WithMessage("client_id, template_id, title, and prompt are required")
	}
	if createdBy == "" {
		createdBy = "unknown"
	}
	now := time.Now().UTC()
	t := &Template{
		ID:          uuid.New(),
		ClientID:    clientID,
		TemplateID:  templateID,
		Title:       title,
		Description: description,
		Category:    category,
		Prompt:      prompt,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
		ModifiedBy:  createdBy,
	}
	t.ApplyDefaults()
	return t, nil
}

// Key selects a template by primary key or by template_id
type Key struct {
	ID         *uuid.UUID
	TemplateID string
}

// Valid reports whether the key names a template
func (k Key) Valid() bool { return k.ID != nil || k.TemplateID != "" }

// Update holds the fields to change; nil fields are left untouched
type Update struct {
	Title       *string
	Description *string
	Category    *string
	Prompt      *string
	Period      *string
	DataFetcher *string
	IsActive    *bool
	ModifiedBy  string
}

// Filter selects templates for listing
type Filter struct {
	// ClientID, when set, limits to the client's templates plus shared ones
	ClientID        string
	IncludeInactive bool
}

// Repository persists templates
type Repository interface {
	List(ctx context.Context, f Filter) ([]Template, error)
	Create(ctx context.Context, t *Template) error
	// Update returns shared.ErrNotFound when no row matched
	Update(ctx context.Context, key Key, u Update) error
	// Delete removes the template, or deactivates it when hard is false
	Delete(ctx context.Context, key Key, hard bool) error
}
