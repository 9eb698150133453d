// Package enrichment fills the POI store from an external map provider:
// properties are read from the search backend, POIs are fetched around each
// property, deduplicated, and written back.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/plotari/chat-service/internal/domain/models"
)

// POIProvider fetches points of interest around a coordinate.
type POIProvider interface {
	SearchPOIs(ctx context.Context, lat, lon float64, radiusM int, category string) ([]models.POI, error)
}

// DefaultOverpassURL is the public Overpass API endpoint.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// amenityByCategory maps POI categories to OSM amenity values.
var amenityByCategory = map[string]string{
	models.POICategorySchool:     "school",
	models.POICategoryRestaurant: "restaurant",
	models.POICategoryHealthcare: "hospital",
	models.POICategoryShopping:   "marketplace",
	models.POICategoryPark:       "park",
}

// categoryByAmenity is the reverse mapping used when converting results.
var categoryByAmenity = map[string]string{
	"school":      models.POICategorySchool,
	"restaurant":  models.POICategoryRestaurant,
	"hospital":    models.POICategoryHealthcare,
	"clinic":      models.POICategoryHealthcare,
	"marketplace": models.POICategoryShopping,
	"park":        models.POICategoryPark,
}

// OSMProvider implements POIProvider against the Overpass API.
type OSMProvider struct {
	endpoint   string
	httpClient *http.Client
}

// OSMConfig holds the configuration for the OSM provider.
type OSMConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// NewOSMProvider creates a new Overpass-backed POI provider.
func NewOSMProvider(cfg *OSMConfig) *OSMProvider {
	endpoint := DefaultOverpassURL
	timeout := 30 * time.Second
	if cfg != nil {
		if cfg.Endpoint != "" {
			endpoint = cfg.Endpoint
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	return &OSMProvider{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SearchPOIs runs an around-radius Overpass query for the category's
// amenity type.
func (p *OSMProvider) SearchPOIs(ctx context.Context, lat, lon float64, radiusM int, category string) ([]models.POI, error) {
	amenityFilter := ""
	if amenity, ok := amenityByCategory[category]; ok {
		amenityFilter = fmt.Sprintf("=%q", amenity)
	}

	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"%s](around:%d,%f,%f);
  way["amenity"%s](around:%d,%f,%f);
);
out center;`, amenityFilter, radiusM, lat, lon, amenityFilter, radiusM, lat, lon)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	return convertElements(parsed.Elements, category), nil
}

func convertElements(elements []overpassElement, defaultCategory string) []models.POI {
	pois := make([]models.POI, 0, len(elements))
	for _, element := range elements {
		name := element.Tags["name"]
		if name == "" {
			continue
		}

		lat, lon := element.Lat, element.Lon
		if element.Center != nil {
			lat, lon = element.Center.Lat, element.Center.Lon
		}
		geo := models.GeoCoordinate{Latitude: lat, Longitude: lon}
		if !geo.Valid() {
			continue
		}

		category := defaultCategory
		if mapped, ok := categoryByAmenity[element.Tags["amenity"]]; ok {
			category = mapped
		}

		var rating *float64
		if raw, ok := element.Tags["rating"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				rating = &parsed
			}
		}

		pois = append(pois, models.POI{
			Name:     name,
			Category: category,
			Rating:   rating,
			Source:   "osm",
			Geo:      geo,
		})
	}
	return pois
}
