// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/plotari/chat-service/internal/api/dto"
	"github.com/plotari/chat-service/internal/api/middleware"
	"github.com/plotari/chat-service/internal/api/sse"
	"github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/services/chat"
)

// ChatHandler handles chat endpoints.
type ChatHandler struct {
	chatService chat.Service
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService chat.Service) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Chat handles POST /chat
// @Summary Process a chat message
// @Description Processes a user message through intent classification, property search, and response composition
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.chatService.ProcessMessage(ctx, &chat.Request{
		Message:   req.Message,
		UserID:    req.UserID,
		SessionID: req.Session(),
		Context:   req.Context,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewChatResponse(result))
}

// ChatStream handles POST /chat/message
// @Summary Process a chat message over SSE
// @Description Processes a user message and streams start, response, and end events
// @Tags Chat
// @Accept json
// @Produce text/event-stream
// @Param request body dto.ChatRequest true "Chat message"
// @Success 200 {object} sse.Event
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/chat/message [post]
func (h *ChatHandler) ChatStream(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	writer, err := sse.NewWriter(c.Writer)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("streaming not supported", err))
		return
	}

	sessionID := req.Session()
	if err := writer.WriteStart(req.UserID, sessionID); err != nil {
		log.Warn().Err(err).Msg("failed to write start event")
		return
	}

	result, err := h.chatService.ProcessMessage(ctx, &chat.Request{
		Message:   req.Message,
		UserID:    req.UserID,
		SessionID: sessionID,
		Context:   req.Context,
	})
	if err != nil {
		message := "failed to process message"
		if domainErr, ok := errors.GetDomainError(err); ok {
			message = domainErr.Message
		} else {
			log.Error().Err(err).Msg("chat stream failed")
		}
		_ = writer.WriteError(message, req.UserID, sessionID)
		return
	}

	// The session id may have been generated server-side.
	sessionID = result.Metadata.SessionID
	if err := writer.WriteResponse(dto.NewChatResponse(result), req.UserID, sessionID); err != nil {
		log.Warn().Err(err).Msg("failed to write response event")
		return
	}
	_ = writer.WriteEnd(req.UserID, sessionID)
}
