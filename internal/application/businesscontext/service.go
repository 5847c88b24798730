// Package businesscontext manages context entries and matches them against
// report windows.
package businesscontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rooted/analytics/internal/application/businesscontext/dto"
	"github.com/rooted/analytics/internal/application/markdown"
	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles business context operations
type Service struct {
	repo   businesscontext.Repository
	logger *zap.Logger
}

// NewService creates a new business context service
func NewService(repo businesscontext.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns every entry of a client, newest first
func (s *Service) List(ctx context.Context, clientID string) (*dto.ListResponse, error) {
	if clientID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Client ID is required")
	}
	entries, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Fetched business context", zap.String("client_id", clientID), zap.Int("count", len(entries)))

	items := make([]dto.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToItem(e))
	}
	return &dto.ListResponse{Success: true, ClientID: clientID, Items: items, Count: len(items)}, nil
}

// Create validates and stores a manually entered entry
func (s *Service) Create(ctx context.Context, req dto.CreateRequest) (*businesscontext.Entry, error) {
	if req.Type == "" || req.ClientID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Type and clientId are required")
	}
	kind, err := businesscontext.ParseKind(req.Type)
	if err != nil {
		return nil, err
	}

	category, title, description, startStr, endStr := req.Fields(kind)
	start, err := parseDate(startStr)
	if err != nil || start == nil {
		return nil, shared.ErrInvalidInput.WithMessage("Start date is required (format: YYYY-MM-DD)")
	}
	end, err := parseDate(endStr)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid end date. Use YYYY-MM-DD")
	}

	entry, err := businesscontext.NewEntry(req.ClientID, kind, category, title, description, *start, end,
		businesscontext.ParseMagnitude(req.Magnitude), req.ComparisonSignificant)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != "" {
		entry.CreatedBy = req.CreatedBy
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("Created business context",
		zap.String("client_id", entry.ClientID),
		zap.String("type", string(kind)),
		zap.String("category", entry.Category))
	return entry, nil
}

// CreateExtracted stores entries extracted from a document. Entries that fail
// to save are logged and skipped.
func (s *Service) CreateExtracted(ctx context.Context, entries []businesscontext.Entry) int {
	saved := 0
	for i := range entries {
		if err := s.repo.Create(ctx, &entries[i]); err != nil {
			s.logger.Warn("Failed to save extracted context", zap.String("title", entries[i].Title), zap.Error(err))
			continue
		}
		saved++
	}
	return saved
}

// Delete removes an entry
func (s *Service) Delete(ctx context.Context, kindStr, idStr string) error {
	if kindStr == "" || idStr == "" {
		return shared.ErrInvalidInput.WithMessage("Type and ID are required")
	}
	kind, err := businesscontext.ParseKind(kindStr)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return shared.ErrInvalidInput.WithMessage("Invalid ID")
	}
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.logger.Info("Deleted business context", zap.String("type", kindStr), zap.String("id", idStr))
	return nil
}

// Matched returns the client's entries relevant to the window. A repository
// failure yields an empty match so reports still render.
func (s *Service) Matched(ctx context.Context, clientID string, r period.Range) businesscontext.Matched {
	entries, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		s.logger.Warn("Failed to load business context", zap.String("client_id", clientID), zap.Error(err))
		return businesscontext.Filter(nil, r.Start, r.End)
	}
	return businesscontext.FilterRange(entries, r)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(period.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatForPrompt renders matched context as a markdown section for LLM prompts
func FormatForPrompt(m businesscontext.Matched) string {
	return markdown.FormatContext(m)
}
