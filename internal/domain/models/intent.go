// Package models contains domain models for the Plotari Chat Service.
package models

import "strings"

// IntentType identifies what the user wants from a chat turn.
type IntentType string

const (
	// IntentPropertySearch is a filtered or free-text property search.
	IntentPropertySearch IntentType = "property_search"
	// IntentPropertyDetail is a lookup of a single property.
	IntentPropertyDetail IntentType = "property_detail"
	// IntentPOISearch is a nearby-amenity lookup around a known property.
	IntentPOISearch IntentType = "poi_search"
	// IntentPropertyCompare is a side-by-side comparison of properties.
	IntentPropertyCompare IntentType = "property_compare"
	// IntentGeneralConversation is small talk with no search component.
	IntentGeneralConversation IntentType = "general_conversation"
)

// SearchMode modifies how a property search is executed.
type SearchMode string

// SearchModeNearPOIs turns a property search into a composite search that
// fans out over POIs of a category and collects properties around each.
const SearchModeNearPOIs SearchMode = "near_pois"

// MaxCompareProperties caps how many properties a comparison may carry.
const MaxCompareProperties = 5

// SearchIntent is the classified purpose of a user utterance. Type selects
// the variant; the variant-specific fields are only set for their variant.
type SearchIntent struct {
	Type        IntentType     `json:"type" bson:"type"`
	Query       string         `json:"query" bson:"query"`
	Filters     map[string]any `json:"filters" bson:"filters"`
	PropertyID  string         `json:"property_id,omitempty" bson:"property_id,omitempty"`
	PropertyIDs []string       `json:"property_ids,omitempty" bson:"property_ids,omitempty"`
	Category    string         `json:"category,omitempty" bson:"category,omitempty"`
	Radius      int            `json:"radius,omitempty" bson:"radius,omitempty"`
	SearchMode  SearchMode     `json:"search_mode,omitempty" bson:"search_mode,omitempty"`
}

// DefaultSearchIntent is the hard default the classifier falls back to when
// every extraction path fails: a plain property search over the raw message.
func DefaultSearchIntent(message string) *SearchIntent {
	return &SearchIntent{
		Type:    IntentPropertySearch,
		Query:   message,
		Filters: map[string]any{},
	}
}

// Valid reports whether the intent has the shape every consumer relies on:
// a known type, a non-empty query, and a non-nil filters map.
func (i *SearchIntent) Valid() bool {
	if i == nil {
		return false
	}
	switch i.Type {
	case IntentPropertySearch, IntentPropertyDetail, IntentPOISearch,
		IntentPropertyCompare, IntentGeneralConversation:
	default:
		return false
	}
	if strings.TrimSpace(i.Query) == "" {
		return false
	}
	return i.Filters != nil
}

// IsSearch reports whether the intent triggers a backend search (everything
// except small talk). Search intents are the ones written to the search log.
func (i *SearchIntent) IsSearch() bool {
	return i != nil && i.Type != IntentGeneralConversation
}
