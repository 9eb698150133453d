// Package testutils provides test utilities and helpers.
package testutils

import (
	"github.com/plotari/chat-service/internal/domain/models"
)

// Test constants
const (
	TestUserID     = "user-test-123"
	TestSessionID  = "session-test-456"
	TestPropertyID = "18562768"
)

// NewTestProperty creates a test property with default values.
func NewTestProperty() models.Property {
	price := 750000.0
	bedrooms := 3.0
	bathrooms := 2.0
	livingArea := 1450.0
	return models.Property{
		ZPID:         TestPropertyID,
		Address:      "123 Ocean Ave",
		City:         "San Diego",
		State:        "CA",
		Zipcode:      "92101",
		Price:        &price,
		Bedrooms:     &bedrooms,
		Bathrooms:    &bathrooms,
		LivingArea:   &livingArea,
		PropertyType: "condo",
		Geo:          models.GeoCoordinate{Latitude: 32.7157, Longitude: -117.1611},
	}
}

// NewTestProperties creates a slice of test properties with distinct ids.
func NewTestProperties(count int) []models.Property {
	properties := make([]models.Property, count)
	for i := 0; i < count; i++ {
		p := NewTestProperty()
		p.ZPID = TestPropertyID + "-" + string(rune('0'+i))
		properties[i] = p
	}
	return properties
}

// NewTestPOI creates a test POI with default values.
func NewTestPOI() models.POI {
	rating := 4.2
	return models.POI{
		Name:     "Roosevelt Elementary",
		Category: models.POICategorySchool,
		Rating:   &rating,
		Source:   "osm",
		Geo:      models.GeoCoordinate{Latitude: 32.72, Longitude: -117.15},
	}
}

// NewTestSession creates a test conversation session with one exchanged turn.
func NewTestSession() *models.ConversationSession {
	session := models.NewConversationSession(TestUserID, TestSessionID)
	session.AddUserMessage("show me condos in san diego")
	session.AddAssistantMessage("I found 3 condos.", NewTestIntent(), NewTestProperties(3), nil)
	return session
}

// NewTestIntent creates a plain property search intent.
func NewTestIntent() *models.SearchIntent {
	return &models.SearchIntent{
		Type:    models.IntentPropertySearch,
		Query:   "condos in san diego",
		Filters: map[string]any{"city": "San Diego"},
	}
}
