package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plotari/chat-service/internal/core/search"
	rediscache "github.com/plotari/chat-service/internal/infrastructure/cache/redis"
	"github.com/plotari/chat-service/internal/domain/models"
	"github.com/plotari/chat-service/internal/services/dispatch"
	intentsvc "github.com/plotari/chat-service/internal/services/intent"
	"github.com/plotari/chat-service/tests/mocks"
)

func newDispatcher(t *testing.T, backend *mocks.MockBackend) dispatch.Dispatcher {
	t.Helper()
	d, err := dispatch.NewDispatcher(&dispatch.Config{Backend: backend})
	require.NoError(t, err)
	return d
}

func property(zpid string) models.Property {
	return models.Property{ZPID: zpid, Address: zpid + " Main St", City: "San Diego"}
}

func TestNewDispatcher_NilBackend(t *testing.T) {
	// Act
	d, err := dispatch.NewDispatcher(&dispatch.Config{})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, d)
	assert.Contains(t, err.Error(), "search backend is required")
}

func TestDispatch_NilIntent_EmptyResult(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), nil, nil)

	// Assert
	assert.Empty(t, result.Properties)
	assert.Empty(t, result.POIs)
	assert.Nil(t, result.Detail)
	assert.Nil(t, result.Comparison)
}

func TestDispatch_GeneralConversation_NoBackendCalls(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:    models.IntentGeneralConversation,
		Query:   "hello",
		Filters: map[string]any{},
	}, nil)

	// Assert
	assert.Empty(t, result.Properties)
	backend.AssertNotCalled(t, "SearchProperties", mock.Anything, mock.Anything)
}

func TestDispatch_PropertySearch_CleansFilters(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	backend.On("SearchProperties", mock.Anything, mock.MatchedBy(func(q search.PropertyQuery) bool {
		return q.City == "San Diego" &&
			q.MinBedrooms != nil && *q.MinBedrooms == 3 &&
			q.MaxPrice != nil && *q.MaxPrice == 500000 &&
			q.State == "" &&
			q.Limit == dispatch.SearchLimit
	})).Return([]models.Property{property("1")}, nil)

	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:  models.IntentPropertySearch,
		Query: "3 bedroom in San Diego",
		Filters: map[string]any{
			"city":         "San Diego",
			"min_bedrooms": float64(3), // JSON numbers arrive as float64
			"max_price":    float64(500000),
			"state":        "",
			"unknown_key":  "ignored",
		},
	}, nil)

	// Assert
	require.Len(t, result.Properties, 1)
	backend.AssertExpectations(t)
}

func TestDispatch_PropertySearch_PassesEmbedding(t *testing.T) {
	// Arrange
	embedding := []float32{0.1, 0.2, 0.3}
	backend := &mocks.MockBackend{}
	backend.On("SearchProperties", mock.Anything, mock.MatchedBy(func(q search.PropertyQuery) bool {
		return len(q.Embedding) == 3
	})).Return([]models.Property{}, nil)

	d := newDispatcher(t, backend)

	// Act
	d.Dispatch(context.Background(), &models.SearchIntent{
		Type:    models.IntentPropertySearch,
		Query:   "cozy condo",
		Filters: map[string]any{},
	}, embedding)

	// Assert
	backend.AssertExpectations(t)
}

func TestDispatch_BackendFailure_EmptyResult(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	backend.On("SearchProperties", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:    models.IntentPropertySearch,
		Query:   "anything",
		Filters: map[string]any{},
	}, nil)

	// Assert
	assert.Empty(t, result.Properties)
}

func TestDispatch_NearPOIs_DedupesAndCaps(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}

	pois := make([]models.POI, 4)
	for i := range pois {
		pois[i] = models.POI{
			Name:     fmt.Sprintf("School %d", i),
			Category: models.POICategorySchool,
			Geo:      models.GeoCoordinate{Latitude: 32.7 + float64(i), Longitude: -117.1},
		}
	}
	backend.On("GetPOIsByCategory", mock.Anything, models.POICategorySchool, dispatch.MaxPOIFanout).
		Return(pois, nil)

	block := func(ids ...string) []models.Property {
		out := make([]models.Property, len(ids))
		for i, id := range ids {
			out[i] = property(id)
		}
		return out
	}
	forLat := func(lat float64) any {
		return mock.MatchedBy(func(q search.PropertyQuery) bool {
			return q.Latitude != nil && *q.Latitude == lat
		})
	}
	// The first two POIs return the same block; the rest are new.
	backend.On("SearchProperties", mock.Anything, forLat(32.7)).Return(block("1", "2", "3", "4", "5"), nil)
	backend.On("SearchProperties", mock.Anything, forLat(33.7)).Return(block("1", "2", "3", "4", "5"), nil)
	backend.On("SearchProperties", mock.Anything, forLat(34.7)).Return(block("6", "7", "8", "9", "10"), nil)
	backend.On("SearchProperties", mock.Anything, forLat(35.7)).Return(block("11", "12", "13", "14", "15"), nil)

	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:       models.IntentPropertySearch,
		Query:      "home near school",
		Filters:    map[string]any{},
		Category:   models.POICategorySchool,
		SearchMode: models.SearchModeNearPOIs,
	}, nil)

	// Assert
	require.Len(t, result.Properties, dispatch.NearPOIsResultCap)
	seen := map[string]bool{}
	for _, p := range result.Properties {
		assert.False(t, seen[p.ZPID], "zpid %s appears twice", p.ZPID)
		seen[p.ZPID] = true
	}
	// The cap was reached before the last POI was queried.
	backend.AssertNotCalled(t, "SearchProperties", mock.Anything, forLat(35.7))
}

func TestDispatch_NearPOIs_SkipsInvalidGeoAndFailedPOIs(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	pois := []models.POI{
		{Name: "No Geo", Category: models.POICategoryPark},
		{Name: "Broken", Category: models.POICategoryPark, Geo: models.GeoCoordinate{Latitude: 1, Longitude: 1}},
		{Name: "Good", Category: models.POICategoryPark, Geo: models.GeoCoordinate{Latitude: 2, Longitude: 2}},
	}
	backend.On("GetPOIsByCategory", mock.Anything, models.POICategoryPark, dispatch.MaxPOIFanout).
		Return(pois, nil)
	backend.On("SearchProperties", mock.Anything, mock.MatchedBy(func(q search.PropertyQuery) bool {
		return q.Latitude != nil && *q.Latitude == 1
	})).Return(nil, errors.New("timeout"))
	backend.On("SearchProperties", mock.Anything, mock.MatchedBy(func(q search.PropertyQuery) bool {
		return q.Latitude != nil && *q.Latitude == 2
	})).Return([]models.Property{property("9")}, nil)

	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:       models.IntentPropertySearch,
		Query:      "near a park",
		Filters:    map[string]any{},
		Category:   models.POICategoryPark,
		SearchMode: models.SearchModeNearPOIs,
	}, nil)

	// Assert
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "9", result.Properties[0].ZPID)
}

func TestDispatch_Detail_PrependsPropertyToSimilar(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	detail := &models.PropertyDetail{
		Property: property("main"),
		Similar:  []models.Property{property("s1"), property("s2")},
	}
	backend.On("GetPropertyDetail", mock.Anything, "main").Return(detail, nil)

	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:       models.IntentPropertyDetail,
		Query:      "details for main",
		Filters:    map[string]any{},
		PropertyID: "main",
	}, nil)

	// Assert
	require.Len(t, result.Properties, 3)
	assert.Equal(t, "main", result.Properties[0].ZPID)
	assert.Equal(t, detail, result.Detail)
}

func TestDispatch_Detail_MissingID_EmptyResult(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:    models.IntentPropertyDetail,
		Query:   "details please",
		Filters: map[string]any{},
	}, nil)

	// Assert
	assert.Empty(t, result.Properties)
	backend.AssertNotCalled(t, "GetPropertyDetail", mock.Anything, mock.Anything)
}

func TestDispatch_POISearch_DefaultsRadius(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	backend.On("SearchPOIs", mock.Anything, search.POIQuery{
		PropertyID: "18562768",
		Category:   models.POICategoryRestaurant,
		RadiusM:    models.DefaultPOIRadius,
		Limit:      dispatch.SearchLimit,
	}).Return([]models.POI{{Name: "Taco Stand"}}, nil)

	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:       models.IntentPOISearch,
		Query:      "restaurants nearby",
		Filters:    map[string]any{},
		PropertyID: "18562768",
		Category:   models.POICategoryRestaurant,
	}, nil)

	// Assert
	require.Len(t, result.POIs, 1)
	backend.AssertExpectations(t)
}

func TestDispatch_Compare_RequiresTwoIDs(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:        models.IntentPropertyCompare,
		Query:       "compare 18562768",
		Filters:     map[string]any{},
		PropertyIDs: []string{"18562768"},
	}, nil)

	// Assert
	assert.Nil(t, result.Comparison)
	backend.AssertNotCalled(t, "CompareProperties", mock.Anything, mock.Anything)
}

func TestDispatch_Compare_CapsIDs(t *testing.T) {
	// Arrange
	backend := &mocks.MockBackend{}
	comparison := &models.PropertyComparison{Properties: []models.Property{property("1"), property("2")}}
	backend.On("CompareProperties", mock.Anything, []string{"1", "2", "3", "4", "5"}).
		Return(comparison, nil)

	d := newDispatcher(t, backend)

	// Act
	result := d.Dispatch(context.Background(), &models.SearchIntent{
		Type:        models.IntentPropertyCompare,
		Query:       "compare them all",
		Filters:     map[string]any{},
		PropertyIDs: []string{"1", "2", "3", "4", "5", "6", "7"},
	}, nil)

	// Assert
	assert.Equal(t, comparison, result.Comparison)
	backend.AssertExpectations(t)
}

func TestDispatch_NearPOIs_ServesCategoryListFromCache(t *testing.T) {
	// Arrange
	server := miniredis.RunT(t)
	cacheClient, err := rediscache.NewClient(rediscache.Config{
		Host: server.Host(),
		Port: server.Port(),
	})
	require.NoError(t, err)
	defer cacheClient.Close()

	backend := &mocks.MockBackend{}
	pois := []models.POI{{
		Name:     "Balboa Park",
		Category: models.POICategoryPark,
		Geo:      models.GeoCoordinate{Latitude: 32.73, Longitude: -117.14},
	}}
	backend.On("GetPOIsByCategory", mock.Anything, models.POICategoryPark, dispatch.MaxPOIFanout).
		Return(pois, nil).Once()
	backend.On("SearchProperties", mock.Anything, mock.Anything).
		Return([]models.Property{property("1")}, nil)

	d, err := dispatch.NewDispatcher(&dispatch.Config{Backend: backend, POICache: cacheClient})
	require.NoError(t, err)

	intent := &models.SearchIntent{
		Type:       models.IntentPropertySearch,
		Query:      "near a park",
		Filters:    map[string]any{},
		Category:   models.POICategoryPark,
		SearchMode: models.SearchModeNearPOIs,
	}

	// Act
	first := d.Dispatch(context.Background(), intent, nil)
	second := d.Dispatch(context.Background(), intent, nil)

	// Assert
	assert.Len(t, first.Properties, 1)
	assert.Len(t, second.Properties, 1)
	// The category list was fetched from the backend exactly once.
	backend.AssertExpectations(t)
}

func TestClassifyThenDispatch_ExtractedFiltersReachBackend(t *testing.T) {
	// Arrange: the completion service extracts a filtered search from the
	// utterance; the backend must receive those filters on the query.
	completionService := &mocks.MockCompletionService{}
	completionService.On("ExtractIntent", mock.Anything, "Show me 2 bedroom apartments in Crescent City", mock.Anything).
		Return(&models.SearchIntent{
			Type:  models.IntentPropertySearch,
			Query: "2 bedroom apartments in Crescent City",
			Filters: map[string]any{
				"city":         "Crescent City",
				"min_bedrooms": float64(2),
			},
		}, nil)

	classifier, err := intentsvc.NewClassifier(&intentsvc.Config{CompletionService: completionService})
	require.NoError(t, err)

	backend := &mocks.MockBackend{}
	backend.On("SearchProperties", mock.Anything, mock.MatchedBy(func(q search.PropertyQuery) bool {
		return q.City == "Crescent City" &&
			q.MinBedrooms != nil && *q.MinBedrooms == 2 &&
			q.Limit == dispatch.SearchLimit
	})).Return([]models.Property{property("7001")}, nil)
	d := newDispatcher(t, backend)

	// Act
	classified := classifier.Classify(context.Background(), "Show me 2 bedroom apartments in Crescent City", &models.SessionContext{})
	result := d.Dispatch(context.Background(), classified, nil)

	// Assert
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "7001", result.Properties[0].ZPID)
	backend.AssertExpectations(t)
	completionService.AssertExpectations(t)
}
