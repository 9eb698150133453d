// Package search defines the property search backend interface.
package search

import (
	"context"

	"github.com/plotari/chat-service/internal/domain/models"
)

// PropertyQuery describes a property search. Filter fields are optional;
// zero values mean "not set" except Limit, which callers must provide.
type PropertyQuery struct {
	Query        string
	Limit        int
	City         string
	State        string
	Neighborhood string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MaxBedrooms  *int
	MinBathrooms *int
	MaxBathrooms *int

	// Geo-radius search. All three must be set together.
	Latitude  *float64
	Longitude *float64
	RadiusM   *int

	// Embedding of the free-text query. When set, results are ranked by
	// vector similarity instead of text rank.
	Embedding []float32
}

// LogEntry is one recorded search, kept for analytics.
type LogEntry struct {
	UserID      string
	SessionID   string
	Query       string
	Intent      *models.SearchIntent
	ResultCount int
	ResultZPIDs []string
	DurationMs  int64
}

// Analytics records search activity. Implementations must be safe for
// concurrent use; callers treat failures as best-effort.
type Analytics interface {
	LogSearch(ctx context.Context, entry *LogEntry) error
}

// POIQuery describes a point-of-interest search around a property.
type POIQuery struct {
	PropertyID string
	Category   string
	RadiusM    int
	Limit      int
}

// Backend is the external engine that ranks and returns properties and
// points of interest. Consumed as a black box; all methods carry a context
// so callers can enforce timeouts.
type Backend interface {
	// SearchProperties runs a filtered or free-text property search.
	SearchProperties(ctx context.Context, q PropertyQuery) ([]models.Property, error)

	// GetPropertyDetail fetches a single property together with similar
	// listings. Returns nil when the property does not exist.
	GetPropertyDetail(ctx context.Context, propertyID string) (*models.PropertyDetail, error)

	// SearchPOIs returns points of interest around a property.
	SearchPOIs(ctx context.Context, q POIQuery) ([]models.POI, error)

	// CompareProperties fetches all requested properties and builds a
	// comparison. Fails when any requested id is missing.
	CompareProperties(ctx context.Context, propertyIDs []string) (*models.PropertyComparison, error)

	// GetPOIsByCategory lists POIs of a category, independent of any
	// reference property.
	GetPOIsByCategory(ctx context.Context, category string, limit int) ([]models.POI, error)

	// SavePOIs upserts enrichment-provided POIs. Returns how many rows
	// were written.
	SavePOIs(ctx context.Context, pois []models.POI) (int, error)

	// Ping verifies the backend connection.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
