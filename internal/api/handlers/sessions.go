package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plotari/chat-service/internal/api/dto"
	"github.com/plotari/chat-service/internal/api/middleware"
	"github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/services/session"
)

const defaultHistoryLimit = 10

// SessionsHandler handles conversation session endpoints.
type SessionsHandler struct {
	sessions session.Service
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(sessions session.Service) *SessionsHandler {
	return &SessionsHandler{
		sessions: sessions,
	}
}

// History handles GET /conversation/{userId}/{sessionId}/history
// @Summary Get conversation history
// @Description Retrieves the most recent messages of a conversation session
// @Tags Sessions
// @Produce json
// @Param userId path string true "User ID"
// @Param sessionId path string true "Session ID"
// @Param limit query int false "Maximum number of messages" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.HistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/conversation/{userId}/{sessionId}/history [get]
func (h *SessionsHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")
	sessionID := c.Param("sessionId")

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			middleware.HandleError(c, errors.NewValidationError("invalid limit", "limit must be an integer between 1 and 100"))
			return
		}
		limit = parsed
	}

	messages, err := h.sessions.History(ctx, userID, sessionID, limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		UserID:    userID,
		SessionID: sessionID,
		Messages:  messages,
		Count:     len(messages),
	})
}

// Clear handles DELETE /conversation/{userId}/{sessionId}
// @Summary Clear a conversation session
// @Description Removes the session from the cache and deactivates the stored conversation
// @Tags Sessions
// @Produce json
// @Param userId path string true "User ID"
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.ClearSessionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/conversation/{userId}/{sessionId} [delete]
func (h *SessionsHandler) Clear(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")
	sessionID := c.Param("sessionId")

	cleared, err := h.sessions.Clear(ctx, userID, sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClearSessionResponse{Cleared: cleared})
}

// ListUserConversations handles GET /user/{userId}/conversations
// @Summary List a user's conversations
// @Description Lists active conversation sessions for a user, most recent first
// @Tags Sessions
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.SessionListResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/user/{userId}/conversations [get]
func (h *SessionsHandler) ListUserConversations(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	conversations, err := h.sessions.ListSessions(ctx, userID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionListResponse{
		UserID:        userID,
		Conversations: conversations,
		Count:         len(conversations),
	})
}

// UserStats handles GET /user/{userId}/stats
// @Summary Get a user's conversation statistics
// @Tags Sessions
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.StatsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/user/{userId}/stats [get]
func (h *SessionsHandler) UserStats(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	stats, err := h.sessions.Stats(ctx, userID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{Stats: stats})
}

// GlobalStats handles GET /conversations/stats
// @Summary Get service-wide conversation statistics
// @Tags Sessions
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/conversations/stats [get]
func (h *SessionsHandler) GlobalStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.sessions.Stats(ctx, "")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{Stats: stats})
}

// CacheInfo handles GET /cache/info
// @Summary Describe the in-memory session cache
// @Tags Sessions
// @Produce json
// @Success 200 {object} dto.CacheInfoResponse
// @Router /api/v1/cache/info [get]
func (h *SessionsHandler) CacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CacheInfoResponse{Cache: h.sessions.CacheStats()})
}
