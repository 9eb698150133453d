// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ChatRequest represents the request body for a chat turn.
type ChatRequest struct {
	Message   string `json:"message" binding:"required,min=1,max=5000"`
	UserID    string `json:"user_id" binding:"required"`
	SessionID string `json:"session_id"`
	// SessionIDAlias accepts the camelCase key some clients send.
	SessionIDAlias string         `json:"sessionId"`
	Context        map[string]any `json:"context"`
}

// Session returns the session id, honoring either key.
func (r *ChatRequest) Session() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.SessionIDAlias
}

// PropertySearchRequest represents a direct property search.
type PropertySearchRequest struct {
	Query        string   `json:"query"`
	Limit        int      `json:"limit"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Neighborhood string   `json:"neighborhood"`
	PropertyType string   `json:"property_type"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	MinBedrooms  *int     `json:"min_bedrooms"`
	MaxBedrooms  *int     `json:"max_bedrooms"`
	MinBathrooms *int     `json:"min_bathrooms"`
	MaxBathrooms *int     `json:"max_bathrooms"`
}

// CompareRequest represents a direct property comparison.
type CompareRequest struct {
	PropertyIDs []string `json:"property_ids" binding:"required,min=2,max=5"`
}

// EnrichmentRequest represents a POI enrichment run request.
type EnrichmentRequest struct {
	City       string   `json:"city"`
	Radius     int      `json:"radius"`
	Categories []string `json:"categories"`
	Limit      int      `json:"limit"`
	// Async schedules the run in the background instead of waiting.
	Async bool `json:"async"`
}
