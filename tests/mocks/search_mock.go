// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/plotari/chat-service/internal/core/search"
	"github.com/plotari/chat-service/internal/domain/models"
)

// MockBackend is a mock implementation of search.Backend and
// search.Analytics.
type MockBackend struct {
	mock.Mock
}

// SearchProperties runs a property search.
func (m *MockBackend) SearchProperties(ctx context.Context, q search.PropertyQuery) ([]models.Property, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

// GetPropertyDetail fetches a property with similar listings.
func (m *MockBackend) GetPropertyDetail(ctx context.Context, propertyID string) (*models.PropertyDetail, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyDetail), args.Error(1)
}

// SearchPOIs returns POIs around a property.
func (m *MockBackend) SearchPOIs(ctx context.Context, q search.POIQuery) ([]models.POI, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.POI), args.Error(1)
}

// CompareProperties builds a comparison.
func (m *MockBackend) CompareProperties(ctx context.Context, propertyIDs []string) (*models.PropertyComparison, error) {
	args := m.Called(ctx, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyComparison), args.Error(1)
}

// GetPOIsByCategory lists POIs of a category.
func (m *MockBackend) GetPOIsByCategory(ctx context.Context, category string, limit int) ([]models.POI, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.POI), args.Error(1)
}

// SavePOIs upserts POIs.
func (m *MockBackend) SavePOIs(ctx context.Context, pois []models.POI) (int, error) {
	args := m.Called(ctx, pois)
	return args.Int(0), args.Error(1)
}

// Ping verifies the backend connection.
func (m *MockBackend) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close releases backend resources.
func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

// LogSearch records a search.
func (m *MockBackend) LogSearch(ctx context.Context, entry *search.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
