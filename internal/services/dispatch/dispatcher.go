// Package dispatch routes a classified intent to the search backend. Pure
// routing: the dispatcher performs no completion calls and converts every
// backend failure into an empty result for that branch.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plotari/chat-service/internal/core/cache"
	"github.com/plotari/chat-service/internal/core/search"
	"github.com/plotari/chat-service/internal/domain/models"
)

const (
	// SearchLimit caps plain property searches and POI lookups.
	SearchLimit = 10

	// MaxPOIFanout caps how many POIs the near-POIs composite search
	// fans out over.
	MaxPOIFanout = 50

	// PropertiesPerPOI caps the geo-radius search around each POI.
	PropertiesPerPOI = 5

	// NearPOIsResultCap caps the deduplicated near-POIs result list.
	NearPOIsResultCap = 10

	// poiCacheTTL bounds how long a POI category list is served from cache.
	poiCacheTTL = time.Hour
)

// Result is what a dispatched intent produced. Branches that fail or do not
// apply leave their fields empty.
type Result struct {
	Properties []models.Property
	POIs       []models.POI
	Detail     *models.PropertyDetail
	Comparison *models.PropertyComparison
}

// Dispatcher routes a classified intent to a search operation.
type Dispatcher interface {
	// Dispatch executes the search branch for the intent. queryEmbedding
	// is optional; when present it ranks plain property searches by
	// semantic similarity. Dispatch never fails: a backend error degrades
	// to an empty result.
	Dispatch(ctx context.Context, intent *models.SearchIntent, queryEmbedding []float32) *Result
}

// Config holds the configuration for the dispatcher.
type Config struct {
	Backend search.Backend

	// POICache is an optional read-through cache for POI category lists.
	POICache cache.Client
}

type dispatcher struct {
	backend  search.Backend
	poiCache cache.Client
}

// NewDispatcher creates a new search dispatcher.
func NewDispatcher(cfg *Config) (Dispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("search backend is required")
	}

	return &dispatcher{
		backend:  cfg.Backend,
		poiCache: cfg.POICache,
	}, nil
}

func (d *dispatcher) Dispatch(ctx context.Context, intent *models.SearchIntent, queryEmbedding []float32) *Result {
	if intent == nil {
		return &Result{}
	}

	switch intent.Type {
	case models.IntentPropertySearch:
		if intent.SearchMode == models.SearchModeNearPOIs {
			return d.searchNearPOIs(ctx, intent)
		}
		return d.searchProperties(ctx, intent, queryEmbedding)
	case models.IntentPropertyDetail:
		return d.propertyDetail(ctx, intent)
	case models.IntentPOISearch:
		return d.searchPOIs(ctx, intent)
	case models.IntentPropertyCompare:
		return d.compareProperties(ctx, intent)
	default:
		// general_conversation and anything unknown: nothing to search.
		return &Result{}
	}
}

func (d *dispatcher) searchProperties(ctx context.Context, intent *models.SearchIntent, queryEmbedding []float32) *Result {
	query := buildPropertyQuery(intent)
	query.Limit = SearchLimit
	query.Embedding = queryEmbedding

	properties, err := d.backend.SearchProperties(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("query", intent.Query).Msg("property search failed")
		return &Result{}
	}
	return &Result{Properties: properties}
}

// searchNearPOIs runs the composite search: fetch POIs of the category,
// then collect properties around each. Properties are deduplicated by zpid,
// first seen wins, and the final list is capped.
func (d *dispatcher) searchNearPOIs(ctx context.Context, intent *models.SearchIntent) *Result {
	pois, err := d.poisByCategory(ctx, intent.Category, MaxPOIFanout)
	if err != nil {
		log.Error().Err(err).Str("category", intent.Category).Msg("poi category lookup failed")
		return &Result{}
	}

	radius := intent.Radius
	if radius <= 0 {
		radius = models.DefaultPOIRadius
	}

	seen := make(map[string]struct{})
	var collected []models.Property
	for _, poi := range pois {
		if len(collected) >= NearPOIsResultCap {
			break
		}
		if !poi.Geo.Valid() {
			continue
		}

		lat, lon := poi.Geo.Latitude, poi.Geo.Longitude
		properties, err := d.backend.SearchProperties(ctx, search.PropertyQuery{
			Query:     intent.Query,
			Limit:     PropertiesPerPOI,
			Latitude:  &lat,
			Longitude: &lon,
			RadiusM:   &radius,
		})
		if err != nil {
			log.Warn().Err(err).Str("poi", poi.Name).Msg("geo-radius search failed, skipping poi")
			continue
		}

		for _, property := range properties {
			if _, ok := seen[property.ZPID]; ok {
				continue
			}
			seen[property.ZPID] = struct{}{}
			collected = append(collected, property)
			if len(collected) >= NearPOIsResultCap {
				break
			}
		}
	}

	return &Result{Properties: collected}
}

func (d *dispatcher) propertyDetail(ctx context.Context, intent *models.SearchIntent) *Result {
	if intent.PropertyID == "" {
		return &Result{}
	}

	detail, err := d.backend.GetPropertyDetail(ctx, intent.PropertyID)
	if err != nil {
		log.Error().Err(err).Str("propertyId", intent.PropertyID).Msg("property detail lookup failed")
		return &Result{}
	}
	if detail == nil {
		return &Result{}
	}

	properties := append([]models.Property{detail.Property}, detail.Similar...)
	return &Result{Properties: properties, Detail: detail}
}

func (d *dispatcher) searchPOIs(ctx context.Context, intent *models.SearchIntent) *Result {
	if intent.PropertyID == "" {
		return &Result{}
	}

	radius := intent.Radius
	if radius <= 0 {
		radius = models.DefaultPOIRadius
	}

	pois, err := d.backend.SearchPOIs(ctx, search.POIQuery{
		PropertyID: intent.PropertyID,
		Category:   intent.Category,
		RadiusM:    radius,
		Limit:      SearchLimit,
	})
	if err != nil {
		log.Error().Err(err).Str("propertyId", intent.PropertyID).Msg("poi search failed")
		return &Result{}
	}
	return &Result{POIs: pois}
}

func (d *dispatcher) compareProperties(ctx context.Context, intent *models.SearchIntent) *Result {
	ids := intent.PropertyIDs
	if len(ids) > models.MaxCompareProperties {
		ids = ids[:models.MaxCompareProperties]
	}
	if len(ids) < 2 {
		log.Warn().Int("ids", len(ids)).Msg("comparison needs at least two property ids")
		return &Result{}
	}

	comparison, err := d.backend.CompareProperties(ctx, ids)
	if err != nil {
		log.Error().Err(err).Strs("propertyIds", ids).Msg("property comparison failed")
		return &Result{}
	}
	return &Result{Properties: comparison.Properties, Comparison: comparison}
}

// poisByCategory reads the category list through the POI cache when one is
// configured. Cache failures fall through to the backend.
func (d *dispatcher) poisByCategory(ctx context.Context, category string, limit int) ([]models.POI, error) {
	key := fmt.Sprintf("pois:category:%s:%d", category, limit)

	if d.poiCache != nil {
		var cached []models.POI
		found, err := cache.GetJSON(ctx, d.poiCache, key, &cached)
		if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("poi cache read failed")
		} else if found {
			return cached, nil
		}
	}

	pois, err := d.backend.GetPOIsByCategory(ctx, category, limit)
	if err != nil {
		return nil, err
	}

	if d.poiCache != nil {
		if err := cache.SetJSON(ctx, d.poiCache, key, pois, poiCacheTTL); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("poi cache write failed")
		}
	}
	return pois, nil
}

// buildPropertyQuery converts intent filters into a backend query, dropping
// empty string values.
func buildPropertyQuery(intent *models.SearchIntent) search.PropertyQuery {
	query := search.PropertyQuery{Query: intent.Query}

	for key, value := range intent.Filters {
		switch key {
		case "city":
			query.City = stringFilter(value)
		case "state":
			query.State = stringFilter(value)
		case "neighborhood":
			query.Neighborhood = stringFilter(value)
		case "property_type":
			query.PropertyType = stringFilter(value)
		case "min_price":
			query.MinPrice = floatFilter(value)
		case "max_price":
			query.MaxPrice = floatFilter(value)
		case "min_bedrooms":
			query.MinBedrooms = intFilter(value)
		case "max_bedrooms":
			query.MaxBedrooms = intFilter(value)
		case "min_bathrooms":
			query.MinBathrooms = intFilter(value)
		case "max_bathrooms":
			query.MaxBathrooms = intFilter(value)
		}
	}
	return query
}

func stringFilter(value any) string {
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}

func floatFilter(value any) *float64 {
	switch n := value.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}

func intFilter(value any) *int {
	switch n := value.(type) {
	case int:
		return &n
	case float64:
		i := int(n)
		return &i
	}
	return nil
}
