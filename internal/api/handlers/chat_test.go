// Package handlers_test provides unit tests for the API handlers.
package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plotari/chat-service/internal/api/dto"
	"github.com/plotari/chat-service/internal/api/handlers"
	"github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/services/chat"
	"github.com/plotari/chat-service/tests/mocks"
	"github.com/plotari/chat-service/tests/testutils"
)

func chatResult() *chat.Response {
	return &chat.Response{
		Message:    "I found 3 condos.",
		Properties: testutils.NewTestProperties(3),
		Metadata: chat.Metadata{
			SearchIntent:         testutils.NewTestIntent(),
			TotalPropertiesFound: 3,
			UserID:               testutils.TestUserID,
			SessionID:            testutils.TestSessionID,
			ConversationLength:   2,
		},
	}
}

func TestChatHandler_Chat_Success(t *testing.T) {
	// Arrange
	mockChat := &mocks.MockChatService{}
	mockChat.On("ProcessMessage", mock.Anything, mock.MatchedBy(func(req *chat.Request) bool {
		return req.Message == "show me condos" && req.UserID == testutils.TestUserID &&
			req.SessionID == testutils.TestSessionID
	})).Return(chatResult(), nil)

	handler := handlers.NewChatHandler(mockChat)
	router := testutils.SetupTestRouter()
	router.POST("/chat", handler.Chat)

	// Act
	w := testutils.PerformRequest(router, "POST", "/chat", dto.ChatRequest{
		Message:   "show me condos",
		UserID:    testutils.TestUserID,
		SessionID: testutils.TestSessionID,
	}, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)

	var response dto.ChatResponse
	testutils.ParseJSONResponse(t, w, &response)
	assert.Equal(t, "I found 3 condos.", response.Message)
	assert.Len(t, response.Properties, 3)
	assert.Equal(t, testutils.TestSessionID, response.Metadata.SessionID)
	mockChat.AssertExpectations(t)
}

func TestChatHandler_Chat_CamelCaseSessionID(t *testing.T) {
	// Arrange
	mockChat := &mocks.MockChatService{}
	mockChat.On("ProcessMessage", mock.Anything, mock.MatchedBy(func(req *chat.Request) bool {
		return req.SessionID == testutils.TestSessionID
	})).Return(chatResult(), nil)

	handler := handlers.NewChatHandler(mockChat)
	router := testutils.SetupTestRouter()
	router.POST("/chat", handler.Chat)

	// Act
	w := testutils.PerformRequest(router, "POST", "/chat", map[string]any{
		"message":   "show me condos",
		"user_id":   testutils.TestUserID,
		"sessionId": testutils.TestSessionID,
	}, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)
	mockChat.AssertExpectations(t)
}

func TestChatHandler_Chat_InvalidBody(t *testing.T) {
	// Arrange
	mockChat := &mocks.MockChatService{}
	handler := handlers.NewChatHandler(mockChat)
	router := testutils.SetupTestRouter()
	router.POST("/chat", handler.Chat)

	// Act: missing the required message field.
	w := testutils.PerformRequest(router, "POST", "/chat", map[string]any{
		"user_id": testutils.TestUserID,
	}, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusBadRequest, w)
	mockChat.AssertNotCalled(t, "ProcessMessage", mock.Anything, mock.Anything)
}

func TestChatHandler_Chat_DomainErrorPassedThrough(t *testing.T) {
	// Arrange
	mockChat := &mocks.MockChatService{}
	mockChat.On("ProcessMessage", mock.Anything, mock.Anything).
		Return(nil, errors.NewBadRequestError("Please provide a valid message.", ""))

	handler := handlers.NewChatHandler(mockChat)
	router := testutils.SetupTestRouter()
	router.POST("/chat", handler.Chat)

	// Act
	w := testutils.PerformRequest(router, "POST", "/chat", dto.ChatRequest{
		Message: "   ",
		UserID:  testutils.TestUserID,
	}, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusBadRequest, w)
	assert.Contains(t, w.Body.String(), "Please provide a valid message.")
}

func TestChatHandler_ChatStream_EventSequence(t *testing.T) {
	// Arrange
	mockChat := &mocks.MockChatService{}
	mockChat.On("ProcessMessage", mock.Anything, mock.Anything).Return(chatResult(), nil)

	handler := handlers.NewChatHandler(mockChat)
	router := testutils.SetupTestRouter()
	router.POST("/chat/message", handler.ChatStream)

	// Act
	w := testutils.PerformRequest(router, "POST", "/chat/message", dto.ChatRequest{
		Message:   "show me condos",
		UserID:    testutils.TestUserID,
		SessionID: testutils.TestSessionID,
	}, nil)

	// Assert
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := strings.Split(strings.TrimSpace(w.Body.String()), "\n\n")
	require.Len(t, events, 3)
	assert.Contains(t, events[0], `"type":"start"`)
	assert.Contains(t, events[1], `"type":"response"`)
	assert.Contains(t, events[1], "I found 3 condos.")
	assert.Contains(t, events[2], `"type":"end"`)
	for _, event := range events {
		assert.True(t, strings.HasPrefix(event, "data: "))
		assert.Contains(t, event, testutils.TestSessionID)
	}
}

func TestChatHandler_ChatStream_ErrorEvent(t *testing.T) {
	// Arrange
	mockChat := &mocks.MockChatService{}
	mockChat.On("ProcessMessage", mock.Anything, mock.Anything).
		Return(nil, errors.NewTimeoutError("search dispatch"))

	handler := handlers.NewChatHandler(mockChat)
	router := testutils.SetupTestRouter()
	router.POST("/chat/message", handler.ChatStream)

	// Act
	w := testutils.PerformRequest(router, "POST", "/chat/message", dto.ChatRequest{
		Message:   "show me condos",
		UserID:    testutils.TestUserID,
		SessionID: testutils.TestSessionID,
	}, nil)

	// Assert: the stream opens normally and closes with a single error event.
	events := strings.Split(strings.TrimSpace(w.Body.String()), "\n\n")
	require.Len(t, events, 2)
	assert.Contains(t, events[0], `"type":"start"`)
	assert.Contains(t, events[1], `"type":"error"`)
	assert.NotContains(t, w.Body.String(), `"type":"end"`)
}
