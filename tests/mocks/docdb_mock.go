package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/plotari/chat-service/internal/core/docdb"
	"github.com/plotari/chat-service/internal/domain/models"
)

// MockConversationsCollection is a mock implementation of
// docdb.ConversationsCollection.
type MockConversationsCollection struct {
	mock.Mock
}

// Get retrieves the active conversation for a user/session pair.
func (m *MockConversationsCollection) Get(ctx context.Context, userID, sessionID string) (*models.ConversationRecord, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationRecord), args.Error(1)
}

// Create inserts a new conversation record.
func (m *MockConversationsCollection) Create(ctx context.Context, record *models.ConversationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Update replaces the session payload of an existing record.
func (m *MockConversationsCollection) Update(ctx context.Context, record *models.ConversationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Deactivate marks the active record for a user/session pair inactive.
func (m *MockConversationsCollection) Deactivate(ctx context.Context, userID, sessionID string) (bool, error) {
	args := m.Called(ctx, userID, sessionID)
	return args.Bool(0), args.Error(1)
}

// ListByUser lists active conversations for a user.
func (m *MockConversationsCollection) ListByUser(ctx context.Context, opts *docdb.ListConversationsOptions) ([]*models.ConversationRecord, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ConversationRecord), args.Error(1)
}

// CleanupExpired deactivates expired records.
func (m *MockConversationsCollection) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Stats aggregates conversation metrics.
func (m *MockConversationsCollection) Stats(ctx context.Context, userID string) (*models.ConversationStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationStats), args.Error(1)
}

// EnsureIndexes creates collection indexes.
func (m *MockConversationsCollection) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
}

// Conversations returns the typed conversations collection.
func (m *MockDocDBClient) Conversations() docdb.ConversationsCollection {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(docdb.ConversationsCollection)
}

// Ping verifies the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
