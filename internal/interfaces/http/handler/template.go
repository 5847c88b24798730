package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	apptemplate "github.com/rooted/analytics/internal/application/template"
	"github.com/rooted/analytics/internal/domain/template"
	"github.com/rooted/analytics/internal/interfaces/http/dto"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
)

// TemplateService manages report templates
type TemplateService interface {
	List(ctx context.Context, clientID string, includeInactive bool) (*apptemplate.ListResponse, error)
	Create(ctx context.Context, req apptemplate.CreateRequest) (*template.Template, error)
	Update(ctx context.Context, req apptemplate.UpdateRequest) error
	Delete(ctx context.Context, id, templateID string, hard bool) (string, error)
}

// TemplateHandler serves /api/reports/templates
type TemplateHandler struct {
	BaseHandler
	svc TemplateService
}

// NewTemplateHandler creates a TemplateHandler
func NewTemplateHandler(svc TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// TemplateCreated is the body of a successful POST
type TemplateCreated struct {
	dto.SuccessMessage
	Template *template.Template `json:"template"`
}

// List handles GET /api/reports/templates. With x-client-id only that
// client's templates and the shared ones are listed.
func (h *TemplateHandler) List(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))
	resp, err := h.svc.List(c.Request.Context(), clientID(c, ""), includeInactive)
	if err != nil {
		h.HandleError(c, err, "Failed to fetch templates")
		return
	}
	h.Success(c, resp)
}

// Create handles POST /api/reports/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req apptemplate.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err, "Failed to create template")
		return
	}
	h.Success(c, TemplateCreated{
		SuccessMessage: dto.SuccessMessage{Success: true, Message: "Template created successfully"},
		Template:       t,
	})
}

// Update handles PUT /api/reports/templates
func (h *TemplateHandler) Update(c *gin.Context) {
	var req apptemplate.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if err := h.svc.Update(c.Request.Context(), req); err != nil {
		h.HandleError(c, err, "Failed to update template")
		return
	}
	h.Success(c, dto.SuccessMessage{Success: true, Message: "Template updated successfully"})
}

// Delete handles DELETE /api/reports/templates?id|template_id&hard=true
func (h *TemplateHandler) Delete(c *gin.Context) {
	hard, _ := strconv.ParseBool(c.Query("hard"))
	msg, err := h.svc.Delete(c.Request.Context(), c.Query("id"), c.Query("template_id"), hard)
	if err != nil {
		h.HandleError(c, err, "Failed to delete template")
		return
	}
	h.Success(c, dto.SuccessMessage{Success: true, Message: msg})
}
