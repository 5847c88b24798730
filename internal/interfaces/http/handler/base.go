package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/interfaces/http/dto"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
)

// errClientHeaderRequired is the body for routes that need x-client-id
const errClientHeaderRequired = "x-client-id header is required"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID returns the id assigned by the RequestID middleware, or the
// raw header when the middleware did not run
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// clientID returns the x-client-id header, or def when it is absent
func clientID(c *gin.Context, def string) string {
	if id := c.GetHeader(logger.ClientIDHeader); id != "" {
		return id
	}
	return def
}

// Success sends data as a 200 JSON body
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends data as a 201 JSON body
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// RawJSON sends an already encoded JSON body
func (h *BaseHandler) RawJSON(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// BadRequest sends a 400 with an optional details string
func (h *BaseHandler) BadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(message, details...))
}

// RequireClientID returns the x-client-id header. When it is missing the
// request is answered with 400 and ok is false.
func (h *BaseHandler) RequireClientID(c *gin.Context) (id string, ok bool) {
	id = c.GetHeader(logger.ClientIDHeader)
	if id == "" {
		h.BadRequest(c, errClientHeaderRequired)
		return "", false
	}
	return id, true
}

// HandleError maps err onto the {error, details} body. fallback is the
// route's message for server-side failures, which are also logged.
func (h *BaseHandler) HandleError(c *gin.Context, err error, fallback string) {
	if err == nil {
		return
	}
	status, body := dto.FromError(err, fallback)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error(body.Error,
			zap.String("request_id", getRequestID(c)),
			zap.Error(err))
	}
	c.JSON(status, body)
}
