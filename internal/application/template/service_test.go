package template

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/domain/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTemplateRepository is a mock implementation of template.Repository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) List(ctx context.Context, f template.Filter) ([]template.Template, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]template.Template), args.Error(1)
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *template.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) Update(ctx context.Context, key template.Key, u template.Update) error {
	return m.Called(ctx, key, u).Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, key template.Key, hard bool) error {
	return m.Called(ctx, key, hard).Error(0)
}

func TestService_List(t *testing.T) {
	repo := new(MockTemplateRepository)
	repo.On("List", mock.Anything, template.Filter{ClientID: "hb"}).Return(nil, nil)

	resp, err := NewService(repo, zap.NewNop()).List(context.Background(), "hb", false)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Templates)
	assert.Zero(t, resp.Count)
}

func TestService_Create(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*template.Template")).Return(nil)

		tpl, err := NewService(repo, zap.NewNop()).Create(context.Background(), CreateRequest{
			ClientID: "jumbomax", TemplateID: "monthly-performance", Title: "Monthly", Prompt: "Write it",
		})
		require.NoError(t, err)
		assert.Equal(t, "30d", tpl.Period)
		assert.Equal(t, "monthly-performance", tpl.DataFetcher)
		assert.Equal(t, "performance", tpl.Category)
		assert.True(t, tpl.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("requires fields", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		_, err := NewService(repo, zap.NewNop()).Create(context.Background(), CreateRequest{ClientID: "jumbomax"})
		require.Error(t, err)
		assert.Equal(t, "client_id, template_id, title, and prompt are required", err.Error())
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	title := "New title"
	repo := new(MockTemplateRepository)
	repo.On("Update", mock.Anything, template.Key{TemplateID: "weekly-executive"}, mock.MatchedBy(func(u template.Update) bool {
		return u.Title != nil && *u.Title == title && u.Prompt == nil
	})).Return(nil)
	svc := NewService(repo, zap.NewNop())

	require.NoError(t, svc.Update(context.Background(), UpdateRequest{TemplateID: "weekly-executive", Title: &title}))
	repo.AssertExpectations(t)

	err := svc.Update(context.Background(), UpdateRequest{Title: &title})
	assert.Equal(t, "Either id or template_id is required", err.Error())
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		id      string
		tplID   string
		hard    bool
		wantMsg string
		wantErr error
	}{
		{name: "soft by template id", tplID: "weekly-executive", wantMsg: "Template deactivated"},
		{name: "hard by id", id: id.String(), hard: true, wantMsg: "Template permanently deleted"},
		{name: "no key", wantErr: shared.ErrInvalidInput},
		{name: "bad uuid", id: "nope", wantErr: shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTemplateRepository)
			repo.On("Delete", mock.Anything, mock.Anything, tt.hard).Return(nil)

			msg, err := NewService(repo, zap.NewNop()).Delete(context.Background(), tt.id, tt.tplID, tt.hard)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
