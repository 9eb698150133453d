package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/plotari/chat-service/internal/domain/models"
	"github.com/plotari/chat-service/internal/services/chat"
	"github.com/plotari/chat-service/internal/services/dispatch"
	"github.com/plotari/chat-service/internal/services/enrichment"
	"github.com/plotari/chat-service/internal/services/session"
)

// MockClassifier is a mock implementation of intent.Classifier.
type MockClassifier struct {
	mock.Mock
}

// Classify classifies a message.
func (m *MockClassifier) Classify(ctx context.Context, message string, sessionContext *models.SessionContext) *models.SearchIntent {
	args := m.Called(ctx, message, sessionContext)
	return args.Get(0).(*models.SearchIntent)
}

// MockDispatcher is a mock implementation of dispatch.Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

// Dispatch routes an intent to the search backend.
func (m *MockDispatcher) Dispatch(ctx context.Context, intent *models.SearchIntent, queryEmbedding []float32) *dispatch.Result {
	args := m.Called(ctx, intent, queryEmbedding)
	return args.Get(0).(*dispatch.Result)
}

// MockComposer is a mock implementation of compose.Composer.
type MockComposer struct {
	mock.Mock
}

// Compose builds the assistant reply.
func (m *MockComposer) Compose(ctx context.Context, message string, properties []models.Property, pois []models.POI, intent *models.SearchIntent, session *models.ConversationSession) string {
	args := m.Called(ctx, message, properties, pois, intent, session)
	return args.String(0)
}

// MockChatService is a mock implementation of chat.Service.
type MockChatService struct {
	mock.Mock
}

// ProcessMessage runs one chat turn.
func (m *MockChatService) ProcessMessage(ctx context.Context, req *chat.Request) (*chat.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Response), args.Error(1)
}

// MockSessionService is a mock implementation of session.Service.
type MockSessionService struct {
	mock.Mock
}

// Get retrieves a session.
func (m *MockSessionService) Get(ctx context.Context, userID, sessionID string) (*models.ConversationSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationSession), args.Error(1)
}

// GetOrCreate retrieves a session or starts an empty one.
func (m *MockSessionService) GetOrCreate(ctx context.Context, userID, sessionID string) (*models.ConversationSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationSession), args.Error(1)
}

// Save writes the session to both tiers.
func (m *MockSessionService) Save(ctx context.Context, sess *models.ConversationSession, summary string) error {
	args := m.Called(ctx, sess, summary)
	return args.Error(0)
}

// Clear removes a session from both tiers.
func (m *MockSessionService) Clear(ctx context.Context, userID, sessionID string) (bool, error) {
	args := m.Called(ctx, userID, sessionID)
	return args.Bool(0), args.Error(1)
}

// History returns the most recent messages of a session.
func (m *MockSessionService) History(ctx context.Context, userID, sessionID string, limit int) ([]models.Message, error) {
	args := m.Called(ctx, userID, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// ListSessions lists a user's conversations.
func (m *MockSessionService) ListSessions(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationSummary), args.Error(1)
}

// Stats aggregates conversation metrics.
func (m *MockSessionService) Stats(ctx context.Context, userID string) (*models.ConversationStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationStats), args.Error(1)
}

// CacheStats describes the volatile tier.
func (m *MockSessionService) CacheStats() session.CacheStats {
	args := m.Called()
	return args.Get(0).(session.CacheStats)
}

// LockSession serializes access to one session.
func (m *MockSessionService) LockSession(userID, sessionID string) func() {
	m.Called(userID, sessionID)
	return func() {}
}

// Maintain runs one maintenance pass.
func (m *MockSessionService) Maintain(ctx context.Context) session.MaintenanceResult {
	args := m.Called(ctx)
	return args.Get(0).(session.MaintenanceResult)
}

// MockPOIProvider is a mock implementation of enrichment.POIProvider.
type MockPOIProvider struct {
	mock.Mock
}

// SearchPOIs fetches POIs around a point.
func (m *MockPOIProvider) SearchPOIs(ctx context.Context, lat, lon float64, radiusM int, category string) ([]models.POI, error) {
	args := m.Called(ctx, lat, lon, radiusM, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.POI), args.Error(1)
}

// MockEnrichmentService is a mock implementation of enrichment.Service.
type MockEnrichmentService struct {
	mock.Mock
}

// Enrich runs one enrichment pass synchronously.
func (m *MockEnrichmentService) Enrich(ctx context.Context, req *enrichment.Request) (*enrichment.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrichment.Report), args.Error(1)
}

// Enqueue schedules a background enrichment run.
func (m *MockEnrichmentService) Enqueue(req *enrichment.Request) bool {
	args := m.Called(req)
	return args.Bool(0)
}

// QueueSize reports the number of queued runs.
func (m *MockEnrichmentService) QueueSize() int {
	args := m.Called()
	return args.Int(0)
}

// Stop drains the queue and stops the workers.
func (m *MockEnrichmentService) Stop() {
	m.Called()
}
