package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"prezz/internal/dto"
	"prezz/internal/service"
	"prezz/pkg/response"
)

// ChatHandler class chat
type ChatHandler struct {
	chatSvc service.ChatService
}

// NewChatHandler creates a ChatHandler
func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// List
// GET /api/v1/chat/messages
func (h *ChatHandler) List(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	msgs, err := h.chatSvc.List(c.Request.Context(), sess)
	if err != nil {
		h.handleChatError(c, err)
		return
	}

	response.OK(c, gin.H{"list": msgs})
}

// Send
// POST /api/v1/chat/messages
func (h *ChatHandler) Send(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 24001, "invalid message payload")
		return
	}

	msg, err := h.chatSvc.Send(c.Request.Context(), sess, &req)
	if err != nil {
		h.handleChatError(c, err)
		return
	}

	response.Created(c, msg)
}

func (h *ChatHandler) handleChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChatDisabled):
		response.Error(c, http.StatusServiceUnavailable, 24002, "class chat is not configured")
	case errors.Is(err, service.ErrEmptyMessage):
		response.BadRequest(c, 24003, "message or media_url is required")
	default:
		handleCommonError(c, err)
	}
}
