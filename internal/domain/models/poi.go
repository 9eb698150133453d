// Package models contains domain models for the Plotari Chat Service.
package models

import "fmt"

// POI represents a point of interest near a property.
type POI struct {
	Name     string        `json:"name" bson:"name"`
	Category string        `json:"category" bson:"category"`
	Rating   *float64      `json:"rating,omitempty" bson:"rating,omitempty"`
	Source   string        `json:"source,omitempty" bson:"source,omitempty"`
	Geo      GeoCoordinate `json:"geo" bson:"geo"`
}

// DedupKey identifies a POI for enrichment-side deduplication.
// Enrichment dedupes by location and name; the dispatcher's near-POIs
// search dedupes properties by zpid instead. The two granularities are
// intentionally distinct.
func (p POI) DedupKey() string {
	return fmt.Sprintf("%.6f:%.6f:%s", p.Geo.Latitude, p.Geo.Longitude, p.Name)
}

// POICategory constants recognized by the rule-based classifier.
const (
	POICategorySchool     = "school"
	POICategoryRestaurant = "restaurant"
	POICategoryHealthcare = "healthcare"
	POICategoryShopping   = "shopping"
	POICategoryPark       = "park"
)

// DefaultPOIRadius is the search radius in meters used when the user does
// not specify one.
const DefaultPOIRadius = 1500
