// Package docdb provides the conversations collection interface.
package docdb

import (
	"context"

	"github.com/plotari/chat-service/internal/domain/models"
)

// ListConversationsOptions contains options for listing conversations.
type ListConversationsOptions struct {
	UserID string
	Limit  int64
}

// ConversationsCollection is the durable tier of the session cache. Records
// carry an expires_at / is_active pair: expiry deactivates a record instead
// of deleting it, so analytics can still see it.
type ConversationsCollection interface {
	// Get retrieves the active conversation for a user/session pair.
	// Returns nil when no active record exists.
	Get(ctx context.Context, userID, sessionID string) (*models.ConversationRecord, error)

	// Create inserts a new conversation record.
	Create(ctx context.Context, record *models.ConversationRecord) error

	// Update replaces the session payload of an existing record.
	Update(ctx context.Context, record *models.ConversationRecord) error

	// Deactivate marks the active record for a user/session pair inactive.
	// Returns true when a record was deactivated.
	Deactivate(ctx context.Context, userID, sessionID string) (bool, error)

	// ListByUser lists active conversations for a user, most recent first.
	ListByUser(ctx context.Context, opts *ListConversationsOptions) ([]*models.ConversationRecord, error)

	// CleanupExpired deactivates active records whose expires_at has passed.
	// Returns the number of records deactivated. Safe to run concurrently
	// with reads and writes.
	CleanupExpired(ctx context.Context) (int64, error)

	// Stats aggregates conversation metrics. An empty userID aggregates
	// across all users.
	Stats(ctx context.Context, userID string) (*models.ConversationStats, error)

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}
