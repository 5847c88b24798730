package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rooted/analytics/internal/application/export"
	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
)

// ExportService renders PDFs and Google Docs
type ExportService interface {
	ExportPDF(ctx context.Context, req export.PDFRequest) (*export.PDF, error)
	ExportGoogleDoc(ctx context.Context, req export.GoogleDocRequest) (*export.GoogleDoc, error)
}

// ExportHandler serves /api/reports/export-*
type ExportHandler struct {
	BaseHandler
	svc ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(svc ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// exportFailure is the 400 body of the PDF route
type exportFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ExportPDF handles POST /api/reports/export-pdf
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	var req export.PDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	pdf, err := h.svc.ExportPDF(c.Request.Context(), req)
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && errors.Is(err, shared.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, exportFailure{Error: de.Message})
			return
		}
		h.HandleError(c, err, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.Filename))
	c.Header("Content-Length", strconv.Itoa(len(pdf.Data)))
	c.Data(http.StatusOK, "application/pdf", pdf.Data)
}

// ExportGoogleDoc handles POST /api/reports/export-google-doc
func (h *ExportHandler) ExportGoogleDoc(c *gin.Context) {
	var req export.GoogleDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	doc, err := h.svc.ExportGoogleDoc(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err, "Failed to export to Google Docs")
		return
	}
	h.Success(c, doc)
}
