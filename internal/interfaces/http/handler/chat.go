package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/application/chat"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/interfaces/http/middleware"
)

// ChatService starts a streamed agent run
type ChatService interface {
	Stream(ctx context.Context, clientID string, req chat.Request) (<-chan chat.Event, error)
}

// ChatHandler serves POST /api/chat
type ChatHandler struct {
	BaseHandler
	svc       ChatService
	messageID func() string
}

// NewChatHandler creates a ChatHandler
func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc, messageID: func() string { return "msg_" + uuid.NewString() }}
}

// Chat handles POST /api/chat. The x-client-id header is checked before
// anything else so a request without it never reaches the warehouse or the
// model. The reply is streamed as a UI message stream; the agent loop is
// cancelled with the request context when the client goes away.
func (h *ChatHandler) Chat(c *gin.Context) {
	id, ok := h.RequireClientID(c)
	if !ok {
		return
	}
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	events, err := h.svc.Stream(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err, "Failed to process chat request")
		return
	}

	chat.SetUIStreamHeaders(c.Writer.Header())
	c.Status(http.StatusOK)
	w := chat.NewUIStreamWriter(c.Writer, c.Writer.Flush, h.messageID())
	if err := w.Pipe(events); err != nil {
		logger.GetGinLogger(c).Warn("Chat stream interrupted", zap.Error(err))
	}
}
