package handler

import (
	"context"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	bcdto "github.com/rooted/analytics/internal/application/businesscontext/dto"
	"github.com/rooted/analytics/internal/application/extraction"
	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
)

// ContextService manages business context entries
type ContextService interface {
	List(ctx context.Context, clientID string) (*bcdto.ListResponse, error)
	Create(ctx context.Context, req bcdto.CreateRequest) (*businesscontext.Entry, error)
	Delete(ctx context.Context, kind, id string) error
}

// Extractor turns an uploaded document into context entries
type Extractor interface {
	Extract(ctx context.Context, req extraction.Request) (*extraction.Result, error)
}

// ContextHandler serves /api/context
type ContextHandler struct {
	BaseHandler
	svc       ContextService
	extractor Extractor
}

// NewContextHandler creates a ContextHandler
func NewContextHandler(svc ContextService, extractor Extractor) *ContextHandler {
	return &ContextHandler{svc: svc, extractor: extractor}
}

// ContextCreated is the body of a successful POST /api/context
type ContextCreated struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Entry   bcdto.Item `json:"entry"`
}

// ContextDeleted is the body of a successful DELETE /api/context
type ContextDeleted struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// List handles GET /api/context?clientId
func (h *ContextHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("clientId"))
	if err != nil {
		h.HandleError(c, err, "Failed to fetch context data")
		return
	}
	h.Success(c, resp)
}

// Create handles POST /api/context
func (h *ContextHandler) Create(c *gin.Context) {
	var req bcdto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	entry, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err, "Failed to create context data")
		return
	}
	h.Success(c, ContextCreated{
		Success: true,
		Message: string(entry.Kind) + " created successfully",
		Entry:   bcdto.ToItem(*entry),
	})
}

// Delete handles DELETE /api/context?type&id
func (h *ContextHandler) Delete(c *gin.Context) {
	kind := c.Query("type")
	if err := h.svc.Delete(c.Request.Context(), kind, c.Query("id")); err != nil {
		h.HandleError(c, err, "Failed to delete context data")
		return
	}
	h.Success(c, ContextDeleted{Success: true, Message: kind + " deleted successfully"})
}

// Extract handles POST /api/context/extract, a multipart upload with file,
// clientId and an optional save flag
func (h *ContextHandler) Extract(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		if middleware.AbortIfTooLarge(c, err) {
			return
		}
		h.BadRequest(c, "No file provided")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err, "Failed to extract context from document")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.HandleError(c, err, "Failed to extract context from document")
		return
	}

	save, _ := strconv.ParseBool(c.PostForm("save"))
	res, err := h.extractor.Extract(c.Request.Context(), extraction.Request{
		ClientID:  c.PostForm("clientId"),
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
		Save:      save,
	})
	if err != nil {
		h.HandleError(c, err, "Failed to extract context from document")
		return
	}
	h.Success(c, res)
}
