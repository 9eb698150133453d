package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/domain/models"
	"github.com/plotari/chat-service/internal/services/session"
	"github.com/plotari/chat-service/tests/mocks"
)

func newServiceWithMock(t *testing.T, conversations *mocks.MockConversationsCollection, capacity int) session.Service {
	t.Helper()
	svc, err := session.NewService(&session.Config{
		Conversations: conversations,
		Capacity:      capacity,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_NilConfig(t *testing.T) {
	// Act
	svc, err := session.NewService(nil)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "config is required")
}

func TestNewService_NilConversations(t *testing.T) {
	// Act
	svc, err := session.NewService(&session.Config{})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "conversations collection is required")
}

func TestGet_VolatileMiss_ReadsThroughDurable(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	record := &models.ConversationRecord{
		ID:        "conv-1",
		UserID:    "user-1",
		SessionID: "session-1",
		Session:   *models.NewConversationSession("user-1", "session-1"),
	}
	mockConversations.On("Get", mock.Anything, "user-1", "session-1").Return(record, nil).Once()

	svc := newServiceWithMock(t, mockConversations, 10)

	// Act
	first, err := svc.Get(context.Background(), "user-1", "session-1")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "user-1", "session-1")
	require.NoError(t, err)

	// Assert
	require.NotNil(t, first)
	assert.Equal(t, "conv-1", first.BackingID)
	// Second read is served from the volatile tier.
	assert.Same(t, first, second)
	mockConversations.AssertExpectations(t)
}

func TestGet_DurableFailure_DegradesToMiss(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Get", mock.Anything, "user-1", "session-1").
		Return(nil, errors.New("connection refused"))

	svc := newServiceWithMock(t, mockConversations, 10)

	// Act
	result, err := svc.Get(context.Background(), "user-1", "session-1")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSave_FirstWriteCreates_SecondUpdates(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Create", mock.Anything, mock.MatchedBy(func(r *models.ConversationRecord) bool {
		return r.UserID == "user-1" && r.Summary == "first message"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.ConversationRecord).ID = "conv-1"
	}).Return(nil).Once()
	mockConversations.On("Update", mock.Anything, mock.MatchedBy(func(r *models.ConversationRecord) bool {
		return r.ID == "conv-1"
	})).Return(nil).Once()

	svc := newServiceWithMock(t, mockConversations, 10)
	sess := models.NewConversationSession("user-1", "session-1")
	sess.AddUserMessage("hello")

	// Act
	err := svc.Save(context.Background(), sess, "first message")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", sess.BackingID)

	sess.AddUserMessage("more")
	err = svc.Save(context.Background(), sess, "")

	// Assert
	require.NoError(t, err)
	mockConversations.AssertExpectations(t)
}

func TestSave_DurableFailure_KeepsVolatileCopy(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("write concern error"))

	svc := newServiceWithMock(t, mockConversations, 10)
	sess := models.NewConversationSession("user-1", "session-1")
	sess.AddUserMessage("hello")

	// Act
	err := svc.Save(context.Background(), sess, "")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, sess.BackingID)

	// The session is still readable from the volatile tier.
	cached, err := svc.Get(context.Background(), "user-1", "session-1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Len(t, cached.Messages, 1)
}

func TestClear_Idempotent(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockConversations.On("Deactivate", mock.Anything, "user-1", "session-1").
		Return(true, nil).Once()
	mockConversations.On("Deactivate", mock.Anything, "user-1", "session-1").
		Return(false, nil).Once()

	svc := newServiceWithMock(t, mockConversations, 10)
	sess := models.NewConversationSession("user-1", "session-1")
	require.NoError(t, svc.Save(context.Background(), sess, ""))

	// Act
	first, err := svc.Clear(context.Background(), "user-1", "session-1")
	require.NoError(t, err)
	second, err := svc.Clear(context.Background(), "user-1", "session-1")
	require.NoError(t, err)

	// Assert
	assert.True(t, first)
	assert.False(t, second)
}

func TestHistory_MissingSession_ReturnsNotFound(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Get", mock.Anything, "user-1", "missing").Return(nil, nil)

	svc := newServiceWithMock(t, mockConversations, 10)

	// Act
	messages, err := svc.History(context.Background(), "user-1", "missing", 10)

	// Assert
	assert.Nil(t, messages)
	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestHistory_LimitsToMostRecent(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newServiceWithMock(t, mockConversations, 10)
	sess := models.NewConversationSession("user-1", "session-1")
	for i := 0; i < 5; i++ {
		sess.AddUserMessage(fmt.Sprintf("message %d", i))
	}
	require.NoError(t, svc.Save(context.Background(), sess, ""))

	// Act
	messages, err := svc.History(context.Background(), "user-1", "session-1", 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "message 3", messages[0].Content)
	assert.Equal(t, "message 4", messages[1].Content)
}

func TestHistory_ConcurrentWithChatTurns(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockConversations.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockConversations.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := newServiceWithMock(t, mockConversations, 10)
	ctx := context.Background()

	var wg sync.WaitGroup

	// Act: one goroutine appends turns under the session lock while
	// another reads the history, as a chat turn and the history
	// endpoint do for the same session.
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			unlock := svc.LockSession("user-1", "session-1")
			sess, err := svc.GetOrCreate(ctx, "user-1", "session-1")
			if assert.NoError(t, err) {
				sess.AddUserMessage(fmt.Sprintf("message %d", i))
				assert.NoError(t, svc.Save(ctx, sess, ""))
			}
			unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			messages, err := svc.History(ctx, "user-1", "session-1", 10)
			if err != nil {
				// The session may not exist yet on the first reads.
				continue
			}
			for _, msg := range messages {
				assert.Equal(t, models.RoleUser, msg.Role)
			}
		}
	}()
	wg.Wait()

	// Assert
	messages, err := svc.History(ctx, "user-1", "session-1", 0)
	require.NoError(t, err)
	assert.Len(t, messages, 50)
}

func TestVolatileTier_EvictsOldestWhenFull(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("Create", mock.Anything, mock.Anything).Return(nil)
	// Evicted entries read through to the durable tier and miss.
	mockConversations.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	svc := newServiceWithMock(t, mockConversations, 2)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, models.NewConversationSession("user-1", "a"), ""))
	require.NoError(t, svc.Save(ctx, models.NewConversationSession("user-1", "b"), ""))

	// Touch "a" so "b" becomes the oldest.
	_, err := svc.Get(ctx, "user-1", "a")
	require.NoError(t, err)

	// Act
	require.NoError(t, svc.Save(ctx, models.NewConversationSession("user-1", "c"), ""))

	// Assert
	stats := svc.CacheStats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 2, stats.Capacity)

	b, err := svc.Get(ctx, "user-1", "b")
	require.NoError(t, err)
	assert.Nil(t, b, "least recently touched entry should have been evicted")

	a, err := svc.Get(ctx, "user-1", "a")
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestMaintain_ReportsBothTiers(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	mockConversations.On("CleanupExpired", mock.Anything).Return(int64(3), nil)

	svc := newServiceWithMock(t, mockConversations, 10)

	// Act
	result := svc.Maintain(context.Background())

	// Assert
	assert.Equal(t, int64(3), result.DurableDeactivated)
	assert.Equal(t, 0, result.VolatileEvicted)
}

func TestLockSession_SerializesSameSession(t *testing.T) {
	// Arrange
	mockConversations := &mocks.MockConversationsCollection{}
	svc := newServiceWithMock(t, mockConversations, 10)

	counter := 0
	done := make(chan struct{})

	// Act
	for i := 0; i < 10; i++ {
		go func() {
			unlock := svc.LockSession("user-1", "session-1")
			counter++
			unlock()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	// Assert
	assert.Equal(t, 10, counter)
}
