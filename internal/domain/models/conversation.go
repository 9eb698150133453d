// Package models contains domain models for the Plotari Chat Service.
package models

import "time"

// MessageRole represents the sender of a conversation message.
type MessageRole string

const (
	// RoleUser represents a message from the user.
	RoleUser MessageRole = "user"
	// RoleAssistant represents a message from the assistant.
	RoleAssistant MessageRole = "assistant"
)

// Message is a single turn in a conversation. Messages are immutable once
// appended; the session holds them as an append-only sequence.
type Message struct {
	Role       MessageRole   `json:"role" bson:"role"`
	Content    string        `json:"content" bson:"content"`
	Timestamp  time.Time     `json:"timestamp" bson:"timestamp"`
	Intent     *SearchIntent `json:"searchIntent,omitempty" bson:"searchIntent,omitempty"`
	Properties []Property    `json:"properties,omitempty" bson:"properties,omitempty"`
	POIs       []POI         `json:"pois,omitempty" bson:"pois,omitempty"`
}

// MaxContextProperties bounds how many property refs the context keeps.
const MaxContextProperties = 3

// UserPreferences holds search preferences accumulated over a conversation.
// Fields are optional; merging never clears a previously learned value.
type UserPreferences struct {
	PreferredCity *string  `json:"preferredCity,omitempty" bson:"preferredCity,omitempty"`
	PropertyType  *string  `json:"propertyType,omitempty" bson:"propertyType,omitempty"`
	MinBedrooms   *int     `json:"minBedrooms,omitempty" bson:"minBedrooms,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty" bson:"maxPrice,omitempty"`
}

// SessionContext carries the conversational state that informs classification
// and response generation. It is mutated only through Merge and ApplySignals
// so the precedence rules live in one place.
type SessionContext struct {
	LastSearchIntent  *SearchIntent   `json:"lastSearchIntent,omitempty" bson:"lastSearchIntent,omitempty"`
	LastProperties    []PropertyRef   `json:"lastProperties,omitempty" bson:"lastProperties,omitempty"`
	Preferences       UserPreferences `json:"userPreferences" bson:"userPreferences"`
	CurrentLocation   *string         `json:"currentLocation,omitempty" bson:"currentLocation,omitempty"`
	CurrentPropertyID *string         `json:"currentPropertyId,omitempty" bson:"currentPropertyId,omitempty"`
}

// Merge folds the signals of a completed turn into the context. The merge is
// additive: new signals overwrite their own fields and everything else is
// left untouched.
func (c *SessionContext) Merge(intent *SearchIntent, properties []Property) {
	if intent != nil {
		c.LastSearchIntent = intent

		if city, ok := intent.Filters["city"].(string); ok && city != "" {
			c.Preferences.PreferredCity = &city
		}
		if beds, ok := asInt(intent.Filters["min_bedrooms"]); ok {
			c.Preferences.MinBedrooms = &beds
		}
		if price, ok := asFloat(intent.Filters["max_price"]); ok {
			c.Preferences.MaxPrice = &price
		}
		if pt, ok := intent.Filters["property_type"].(string); ok && pt != "" {
			c.Preferences.PropertyType = &pt
		}
		if intent.PropertyID != "" {
			id := intent.PropertyID
			c.CurrentPropertyID = &id
		}
	}

	if len(properties) > 0 {
		refs := make([]PropertyRef, 0, MaxContextProperties)
		for i := range properties {
			if i == MaxContextProperties {
				break
			}
			refs = append(refs, properties[i].Ref())
		}
		c.LastProperties = refs
	}
}

// ApplySignals folds caller-provided request context (propertyId, city,
// location) into the session context before classification.
func (c *SessionContext) ApplySignals(signals map[string]any) {
	if signals == nil {
		return
	}
	if id, ok := signals["propertyId"].(string); ok && id != "" {
		c.CurrentPropertyID = &id
	}
	if city, ok := signals["city"].(string); ok && city != "" {
		c.Preferences.PreferredCity = &city
	}
	if loc, ok := signals["location"].(string); ok && loc != "" {
		c.CurrentLocation = &loc
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// ConversationSession is an active conversation. Identity is
// (UserID, SessionID); BackingID is set once the durable record exists.
type ConversationSession struct {
	UserID       string         `json:"userId" bson:"userId"`
	SessionID    string         `json:"sessionId" bson:"sessionId"`
	BackingID    string         `json:"backingId,omitempty" bson:"backingId,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt"`
	LastActivity time.Time      `json:"lastActivity" bson:"lastActivity"`
	Messages     []Message      `json:"messages" bson:"messages"`
	Context      SessionContext `json:"context" bson:"context"`
}

// NewConversationSession creates an empty session for a user/session pair.
func NewConversationSession(userID, sessionID string) *ConversationSession {
	now := time.Now().UTC()
	return &ConversationSession{
		UserID:       userID,
		SessionID:    sessionID,
		CreatedAt:    now,
		LastActivity: now,
		Messages:     []Message{},
	}
}

// AddUserMessage appends a user turn.
func (s *ConversationSession) AddUserMessage(content string) {
	now := time.Now().UTC()
	s.Messages = append(s.Messages, Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: now,
	})
	s.LastActivity = now
}

// AddAssistantMessage appends an assistant turn with its attached results.
func (s *ConversationSession) AddAssistantMessage(content string, intent *SearchIntent, properties []Property, pois []POI) {
	now := time.Now().UTC()
	s.Messages = append(s.Messages, Message{
		Role:       RoleAssistant,
		Content:    content,
		Timestamp:  now,
		Intent:     intent,
		Properties: properties,
		POIs:       pois,
	})
	s.LastActivity = now
}

// LastTurns returns up to n most recent messages, oldest first.
func (s *ConversationSession) LastTurns(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// ConversationRecord is the durable representation of a session.
type ConversationRecord struct {
	ID           string              `json:"id" bson:"_id"`
	UserID       string              `json:"userId" bson:"userId"`
	SessionID    string              `json:"sessionId" bson:"sessionId"`
	Session      ConversationSession `json:"session" bson:"session"`
	Summary      string              `json:"summary,omitempty" bson:"summary,omitempty"`
	MessageCount int                 `json:"messageCount" bson:"messageCount"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	LastActivity time.Time           `json:"lastActivity" bson:"lastActivity"`
	ExpiresAt    time.Time           `json:"expiresAt" bson:"expiresAt"`
	IsActive     bool                `json:"isActive" bson:"isActive"`
}

// ConversationSummary is the listing entry returned when enumerating a
// user's conversations.
type ConversationSummary struct {
	SessionID    string    `json:"sessionId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	MessageCount int       `json:"messageCount"`
	Summary      string    `json:"summary"`
}

// ConversationStats aggregates conversation metrics, either service-wide or
// for a single user.
type ConversationStats struct {
	TotalConversations         int     `json:"totalConversations"`
	TotalMessages              int     `json:"totalMessages"`
	ActiveSessions             int     `json:"activeSessions"`
	AvgMessagesPerConversation float64 `json:"avgMessagesPerConversation"`
}
