// Package template manages report templates
package template

import (
	"context"

	"github.com/google/uuid"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/domain/template"
	"go.uber.org/zap"
)

// CreateRequest is the body of POST /api/reports/templates
type CreateRequest struct {
	ClientID    string `json:"client_id"`
	TemplateID  string `json:"template_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Prompt      string `json:"prompt"`
	Period      string `json:"period"`
	DataFetcher string `json:"data_fetcher"`
	CreatedBy   string `json:"created_by"`
}

// UpdateRequest is the body of PUT /api/reports/templates. Absent fields are
// left unchanged.
type UpdateRequest struct {
	ID          string  `json:"id"`
	TemplateID  string  `json:"template_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Prompt      *string `json:"prompt"`
	Period      *string `json:"period"`
	DataFetcher *string `json:"data_fetcher"`
	IsActive    *bool   `json:"is_active"`
	ModifiedBy  string  `json:"modified_by"`
}

// ListResponse is the body of GET /api/reports/templates
type ListResponse struct {
	Success   bool                `json:"success"`
	Templates []template.Template `json:"templates"`
	Count     int                 `json:"count"`
}

var errKeyRequired = shared.ErrInvalidInput.WithMessage("Either id or template_id is required")

// Service handles report template operations
type Service struct {
	repo   template.Repository
	logger *zap.Logger
}

// NewService creates a new template service
func NewService(repo template.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the client's templates plus the shared ones. An empty client
// lists every template.
func (s *Service) List(ctx context.Context, clientID string, includeInactive bool) (*ListResponse, error) {
	templates, err := s.repo.List(ctx, template.Filter{ClientID: clientID, IncludeInactive: includeInactive})
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []template.Template{}
	}
	return &ListResponse{Success: true, Templates: templates, Count: len(templates)}, nil
}

// Create stores a new active template
func (s *Service) Create(ctx context.Context, req CreateRequest) (*template.Template, error) {
	t, err := template.New(req.ClientID, req.TemplateID, req.Title, req.Description, req.Category, req.Prompt, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	t.Period = req.Period
	t.DataFetcher = req.DataFetcher
	t.ApplyDefaults()

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Created report template", zap.String("client_id", t.ClientID), zap.String("template_id", t.TemplateID))
	return t, nil
}

// Update changes the fields present in req
func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	key, err := keyFrom(req.ID, req.TemplateID)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, key, template.Update{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Prompt:      req.Prompt,
		Period:      req.Period,
		DataFetcher: req.DataFetcher,
		IsActive:    req.IsActive,
		ModifiedBy:  req.ModifiedBy,
	})
}

// Delete removes the template when hard is set and deactivates it otherwise.
// It returns the message reported to the caller.
func (s *Service) Delete(ctx context.Context, id, templateID string, hard bool) (string, error) {
	key, err := keyFrom(id, templateID)
	if err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, key, hard); err != nil {
		return "", err
	}
	s.logger.Info("Deleted report template", zap.String("id", id), zap.String("template_id", templateID), zap.Bool("hard", hard))
	if hard {
		return "Template permanently deleted", nil
	}
	return "Template deactivated", nil
}

func keyFrom(id, templateID string) (template.Key, error) {
	if id == "" && templateID == "" {
		return template.Key{}, errKeyRequired
	}
	if id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return template.Key{}, shared.ErrInvalidInput.WithMessage("Invalid template id")
		}
		return template.Key{ID: &parsed}, nil
	}
	return template.Key{TemplateID: templateID}, nil
}
