package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apptemplate "github.com/rooted/analytics/internal/application/template"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/domain/template"
)

const templatesRoute = "/api/reports/templates"

func TestTemplateHandler_List(t *testing.T) {
	svc := new(MockTemplateService)
	svc.On("List", mock.Anything, "jumbomax", true).
		Return(&apptemplate.ListResponse{Success: true, Templates: []template.Template{{TemplateID: "weekly"}}, Count: 1}, nil)
	svc.On("List", mock.Anything, "", false).Return(nil, errors.New("db down"))
	h := NewTemplateHandler(svc)

	w := serve(http.MethodGet, templatesRoute, templatesRoute+"?includeInactive=true", h.List, nil, clientHeader("jumbomax"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"template_id":"weekly"`)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = serve(http.MethodGet, templatesRoute, templatesRoute, h.List, nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch templates", decodeError(t, w).Error)
	svc.AssertExpectations(t)
}

func TestTemplateHandler_Create(t *testing.T) {
	svc := new(MockTemplateService)
	created := &template.Template{ID: uuid.New(), TemplateID: "weekly", Title: "Weekly"}
	svc.On("Create", mock.Anything, apptemplate.CreateRequest{TemplateID: "weekly", Title: "Weekly", Prompt: "p"}).Return(created, nil)
	svc.On("Create", mock.Anything, apptemplate.CreateRequest{Title: "No key"}).
		Return(nil, shared.ErrInvalidInput.WithMessage("template_id, title and prompt are required"))
	h := NewTemplateHandler(svc)

	w := serve(http.MethodPost, templatesRoute, templatesRoute, h.Create, jsonBody(`{"template_id":"weekly","title":"Weekly","prompt":"p"}`), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Template created successfully"`)
	assert.Contains(t, w.Body.String(), `"template_id":"weekly"`)

	w = serve(http.MethodPost, templatesRoute, templatesRoute, h.Create, jsonBody(`{"title":"No key"}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "template_id, title and prompt are required", decodeError(t, w).Error)

	w = serve(http.MethodPost, templatesRoute, templatesRoute, h.Create, jsonBody(`{not json`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, w).Error)
	svc.AssertExpectations(t)
}

func TestTemplateHandler_Update(t *testing.T) {
	svc := new(MockTemplateService)
	svc.On("Update", mock.Anything, mock.MatchedBy(func(req apptemplate.UpdateRequest) bool {
		return req.TemplateID == "weekly" && req.IsActive != nil && !*req.IsActive
	})).Return(nil)
	svc.On("Update", mock.Anything, mock.MatchedBy(func(req apptemplate.UpdateRequest) bool {
		return req.TemplateID == "missing"
	})).Return(shared.ErrNotFound.WithMessage("Template not found"))
	h := NewTemplateHandler(svc)

	w := serve(http.MethodPut, templatesRoute, templatesRoute, h.Update, jsonBody(`{"template_id":"weekly","is_active":false}`), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Template updated successfully"}`, w.Body.String())

	w = serve(http.MethodPut, templatesRoute, templatesRoute, h.Update, jsonBody(`{"template_id":"missing"}`), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestTemplateHandler_Delete(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		id           string
		templateID   string
		hard         bool
		msg          string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name: "soft delete", target: templatesRoute + "?template_id=weekly", templateID: "weekly",
			msg: "Template deactivated", expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"message":"Template deactivated"}`,
		},
		{
			name: "hard delete", target: templatesRoute + "?id=abc&hard=true", id: "abc", hard: true,
			msg: "Template permanently deleted", expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"message":"Template permanently deleted"}`,
		},
		{
			name: "missing key", target: templatesRoute,
			err:          shared.ErrInvalidInput.WithMessage("Either id or template_id is required"),
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Either id or template_id is required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTemplateService)
			svc.On("Delete", mock.Anything, tt.id, tt.templateID, tt.hard).Return(tt.msg, tt.err)

			w := serve(http.MethodDelete, templatesRoute, tt.target, NewTemplateHandler(svc).Delete, nil, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
