// Package mongodb provides the conversations collection implementation.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plotari/chat-service/internal/core/docdb"
	"github.com/plotari/chat-service/internal/domain/models"
)

// ConversationsCollectionName is the name of the conversations collection.
const ConversationsCollectionName = "conversations"

// DefaultRecordTTL is how long a conversation record stays active without
// being refreshed by a new turn.
const DefaultRecordTTL = 24 * time.Hour

// ConversationsCollection implements docdb.ConversationsCollection for MongoDB.
type ConversationsCollection struct {
	collection *mongo.Collection
	recordTTL  time.Duration
}

// NewConversationsCollection creates a new conversations collection wrapper.
func NewConversationsCollection(db *mongo.Database) *ConversationsCollection {
	return &ConversationsCollection{
		collection: db.Collection(ConversationsCollectionName),
		recordTTL:  DefaultRecordTTL,
	}
}

// Get retrieves the active conversation for a user/session pair.
func (c *ConversationsCollection) Get(ctx context.Context, userID, sessionID string) (*models.ConversationRecord, error) {
	filter := bson.M{
		"userId":    userID,
		"sessionId": sessionID,
		"isActive":  true,
	}

	var record models.ConversationRecord
	err := c.collection.FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s/%s: %w", userID, sessionID, err)
	}
	return &record, nil
}

// Create inserts a new conversation record. The record id and lifecycle
// fields are set here; the caller only provides identity and payload.
func (c *ConversationsCollection) Create(ctx context.Context, record *models.ConversationRecord) error {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = now
	record.LastActivity = now
	record.ExpiresAt = now.Add(c.recordTTL)
	record.IsActive = true
	record.MessageCount = len(record.Session.Messages)

	if _, err := c.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to create conversation %s/%s: %w", record.UserID, record.SessionID, err)
	}
	return nil
}

// Update replaces the session payload of the active record and refreshes
// its activity window.
func (c *ConversationsCollection) Update(ctx context.Context, record *models.ConversationRecord) error {
	now := time.Now().UTC()
	record.LastActivity = now
	record.ExpiresAt = now.Add(c.recordTTL)
	record.MessageCount = len(record.Session.Messages)

	filter := bson.M{
		"userId":    record.UserID,
		"sessionId": record.SessionID,
		"isActive":  true,
	}
	update := bson.M{"$set": bson.M{
		"session":      record.Session,
		"messageCount": record.MessageCount,
		"lastActivity": record.LastActivity,
		"expiresAt":    record.ExpiresAt,
	}}
	if record.Summary != "" {
		update["$set"].(bson.M)["summary"] = record.Summary
	}

	result, err := c.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update conversation %s/%s: %w", record.UserID, record.SessionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("conversation %s/%s has no active record", record.UserID, record.SessionID)
	}
	return nil
}

// Deactivate marks the active record for a user/session pair inactive.
func (c *ConversationsCollection) Deactivate(ctx context.Context, userID, sessionID string) (bool, error) {
	filter := bson.M{
		"userId":    userID,
		"sessionId": sessionID,
		"isActive":  true,
	}
	update := bson.M{"$set": bson.M{"isActive": false}}

	result, err := c.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate conversation %s/%s: %w", userID, sessionID, err)
	}
	return result.ModifiedCount > 0, nil
}

// ListByUser lists active conversations for a user, most recent first.
func (c *ConversationsCollection) ListByUser(ctx context.Context, opts *docdb.ListConversationsOptions) ([]*models.ConversationRecord, error) {
	if opts == nil || opts.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	findOpts := options.Find().SetSort(bson.M{"lastActivity": -1})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := c.collection.Find(ctx, bson.M{"userId": opts.UserID, "isActive": true}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations for %s: %w", opts.UserID, err)
	}
	defer cursor.Close(ctx)

	var records []*models.ConversationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode conversations for %s: %w", opts.UserID, err)
	}
	return records, nil
}

// CleanupExpired deactivates active records whose expires_at has passed.
// The pass only flips isActive on already-expired timestamps, so it is
// idempotent and safe to run concurrently with reads and writes.
func (c *ConversationsCollection) CleanupExpired(ctx context.Context) (int64, error) {
	filter := bson.M{
		"isActive":  true,
		"expiresAt": bson.M{"$lt": time.Now().UTC()},
	}
	update := bson.M{"$set": bson.M{"isActive": false}}

	result, err := c.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired conversations: %w", err)
	}
	return result.ModifiedCount, nil
}

// Stats aggregates conversation metrics. An empty userID aggregates across
// all users.
func (c *ConversationsCollection) Stats(ctx context.Context, userID string) (*models.ConversationStats, error) {
	filter := bson.M{"isActive": true}
	if userID != "" {
		filter["userId"] = userID
	}

	cursor, err := c.collection.Find(ctx, filter, options.Find().
		SetProjection(bson.M{"messageCount": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := &models.ConversationStats{}
	for cursor.Next(ctx) {
		var doc struct {
			MessageCount int `bson:"messageCount"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode conversation stats: %w", err)
		}
		stats.TotalConversations++
		stats.TotalMessages += doc.MessageCount
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("conversation stats cursor failed: %w", err)
	}

	stats.ActiveSessions = stats.TotalConversations
	if stats.TotalConversations > 0 {
		stats.AvgMessagesPerConversation = float64(stats.TotalMessages) / float64(stats.TotalConversations)
	}
	return stats, nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *ConversationsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "sessionId", Value: 1},
				{Key: "isActive", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "lastActivity", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "expiresAt", Value: 1},
				{Key: "isActive", Value: 1},
			},
		},
	}

	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create conversation indexes: %w", err)
	}
	return nil
}
