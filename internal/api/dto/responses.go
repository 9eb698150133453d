// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/plotari/chat-service/internal/domain/models"
	"github.com/plotari/chat-service/internal/services/chat"
	"github.com/plotari/chat-service/internal/services/session"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// ChatResponse represents a chat turn output.
type ChatResponse struct {
	Message    string            `json:"message"`
	Properties []models.Property `json:"properties_found,omitempty"`
	POIs       []models.POI      `json:"pois_found,omitempty"`
	Metadata   chat.Metadata     `json:"metadata"`
}

// NewChatResponse converts the service result.
func NewChatResponse(result *chat.Response) *ChatResponse {
	return &ChatResponse{
		Message:    result.Message,
		Properties: result.Properties,
		POIs:       result.POIs,
		Metadata:   result.Metadata,
	}
}

// HistoryResponse represents a conversation history.
type HistoryResponse struct {
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id"`
	Messages  []models.Message `json:"messages"`
	Count     int              `json:"count"`
}

// ClearSessionResponse reports whether a clear removed anything.
type ClearSessionResponse struct {
	Cleared bool `json:"cleared"`
}

// SessionListResponse represents a user's conversations.
type SessionListResponse struct {
	UserID        string                       `json:"user_id"`
	Conversations []models.ConversationSummary `json:"conversations"`
	Count         int                          `json:"count"`
}

// StatsResponse represents conversation statistics.
type StatsResponse struct {
	Stats *models.ConversationStats `json:"stats"`
}

// CacheInfoResponse describes the volatile session cache.
type CacheInfoResponse struct {
	Cache session.CacheStats `json:"cache"`
}

// SearchResponse represents a direct property search result.
type SearchResponse struct {
	Properties []models.Property `json:"properties"`
	Count      int               `json:"count"`
}

// PropertyDetailResponse represents a property detail lookup.
type PropertyDetailResponse struct {
	Property models.Property   `json:"property"`
	Similar  []models.Property `json:"similar_properties,omitempty"`
}

// POISearchResponse represents a POI lookup around a property.
type POISearchResponse struct {
	PropertyID string       `json:"property_id"`
	POIs       []models.POI `json:"pois"`
	Count      int          `json:"count"`
}

// CompareResponse represents a property comparison.
type CompareResponse struct {
	Comparison *models.PropertyComparison `json:"comparison"`
}

// EnrichmentQueuedResponse acknowledges a background enrichment run.
type EnrichmentQueuedResponse struct {
	Queued    bool `json:"queued"`
	QueueSize int  `json:"queue_size"`
}
