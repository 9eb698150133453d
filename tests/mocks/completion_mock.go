package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/plotari/chat-service/internal/core/completion"
	"github.com/plotari/chat-service/internal/domain/models"
)

// MockCompletionService is a mock implementation of completion.Service.
type MockCompletionService struct {
	mock.Mock
}

// ExtractIntent classifies a message into a search intent.
func (m *MockCompletionService) ExtractIntent(ctx context.Context, message string, sessionContext *models.SessionContext) (*models.SearchIntent, error) {
	args := m.Called(ctx, message, sessionContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchIntent), args.Error(1)
}

// GenerateReply produces a conversational reply.
func (m *MockCompletionService) GenerateReply(ctx context.Context, messages []completion.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// GenerateSummary produces a conversation title.
func (m *MockCompletionService) GenerateSummary(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

// EmbedQuery returns an embedding vector for a query.
func (m *MockCompletionService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}
