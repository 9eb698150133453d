package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotari/chat-service/internal/domain/models"
)

func TestNewService_RequiresAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"nil config", nil},
		{"empty key", &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			svc, err := NewService(tt.config)

			// Assert
			assert.Nil(t, svc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "openai api key is required")
		})
	}
}

func TestNormalizeIntent_LiftsVariantKeys(t *testing.T) {
	// Arrange
	wire := &intentWire{
		Type:  "poi_search",
		Query: "schools near this condo",
		Filters: map[string]any{
			"property_id":  "18562768",
			"poi_category": "school",
			"poi_radius":   float64(800),
			"search_mode":  "near_pois",
			"city":         "San Diego",
		},
	}

	// Act
	intent := normalizeIntent(wire, "schools near this condo")

	// Assert
	assert.Equal(t, models.IntentPOISearch, intent.Type)
	assert.Equal(t, "18562768", intent.PropertyID)
	assert.Equal(t, models.POICategorySchool, intent.Category)
	assert.Equal(t, 800, intent.Radius)
	assert.Equal(t, models.SearchModeNearPOIs, intent.SearchMode)
	// Lifted keys leave filters; plain keys stay.
	assert.Equal(t, map[string]any{"city": "San Diego"}, intent.Filters)
}

func TestNormalizeIntent_DropsNullishFilterValues(t *testing.T) {
	// Arrange
	wire := &intentWire{
		Type:  "property_search",
		Query: "condos",
		Filters: map[string]any{
			"city":          nil,
			"state":         "",
			"property_type": "null",
			"min_bedrooms":  float64(2),
		},
	}

	// Act
	intent := normalizeIntent(wire, "condos")

	// Assert
	assert.Equal(t, map[string]any{"min_bedrooms": float64(2)}, intent.Filters)
}

func TestNormalizeIntent_PropertyIDList(t *testing.T) {
	// Arrange
	wire := &intentWire{
		Type: "property_compare",
		Filters: map[string]any{
			"property_ids": []any{"11111111", "", "22222222", float64(3)},
		},
	}

	// Act
	intent := normalizeIntent(wire, "compare these")

	// Assert: empty and non-string entries are dropped.
	assert.Equal(t, []string{"11111111", "22222222"}, intent.PropertyIDs)
	// The wire query was empty, so the original message backfills it.
	assert.Equal(t, "compare these", intent.Query)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json", `{"type":"property_search"}`, `{"type":"property_search"}`},
		{"json fence", "```json\n{\"type\":\"property_search\"}\n```", `{"type":"property_search"}`},
		{"bare fence", "```\n{}\n```", "{}"},
		{"surrounding whitespace", "  \n{}\n  ", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
