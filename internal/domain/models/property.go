// Package models contains domain models for the Plotari Chat Service.
package models

// GeoCoordinate represents a geographic location.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Valid reports whether the coordinate is inside the WGS84 bounds.
func (g GeoCoordinate) Valid() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180 &&
		(g.Latitude != 0 || g.Longitude != 0)
}

// Property represents a real estate listing.
type Property struct {
	ZPID         string        `json:"zpid" bson:"zpid"`
	Address      string        `json:"address" bson:"address"`
	City         string        `json:"city" bson:"city"`
	State        string        `json:"state" bson:"state"`
	Zipcode      string        `json:"zipcode" bson:"zipcode"`
	Price        *float64      `json:"price,omitempty" bson:"price,omitempty"`
	Bedrooms     *float64      `json:"bedrooms,omitempty" bson:"bedrooms,omitempty"`
	Bathrooms    *float64      `json:"bathrooms,omitempty" bson:"bathrooms,omitempty"`
	LivingArea   *float64      `json:"livingArea,omitempty" bson:"livingArea,omitempty"`
	YearBuilt    *int          `json:"yearBuilt,omitempty" bson:"yearBuilt,omitempty"`
	LotSize      *float64      `json:"lotSize,omitempty" bson:"lotSize,omitempty"`
	Description  string        `json:"description,omitempty" bson:"description,omitempty"`
	Features     []string      `json:"features,omitempty" bson:"features,omitempty"`
	Neighborhood string        `json:"neighborhood,omitempty" bson:"neighborhood,omitempty"`
	PropertyType string        `json:"propertyType,omitempty" bson:"propertyType,omitempty"`
	Geo          GeoCoordinate `json:"geo" bson:"geo"`
}

// Ref returns the light reference kept in session context.
func (p *Property) Ref() PropertyRef {
	return PropertyRef{
		ZPID:    p.ZPID,
		Address: p.Address,
		City:    p.City,
		Price:   p.Price,
	}
}

// PropertyRef is a light reference to a property, kept in session context
// instead of the full listing.
type PropertyRef struct {
	ZPID    string   `json:"zpid" bson:"zpid"`
	Address string   `json:"address" bson:"address"`
	City    string   `json:"city" bson:"city"`
	Price   *float64 `json:"price,omitempty" bson:"price,omitempty"`
}

// PropertyDetail is a property together with backend-provided similar listings.
type PropertyDetail struct {
	Property Property   `json:"property"`
	Similar  []Property `json:"similarProperties,omitempty"`
}

// PropertyComparison is the result of comparing multiple properties.
type PropertyComparison struct {
	Properties []Property          `json:"properties"`
	Table      map[string][]any    `json:"comparisonTable,omitempty"`
	ProsCons   map[string]ProsCons `json:"prosCons,omitempty"`
}

// ProsCons lists the advantages and disadvantages of a single property
// within a comparison.
type ProsCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}
