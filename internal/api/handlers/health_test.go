package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/plotari/chat-service/internal/api/dto"
	"github.com/plotari/chat-service/internal/api/handlers"
	"github.com/plotari/chat-service/tests/mocks"
	"github.com/plotari/chat-service/tests/testutils"
)

func healthRouter(cacheClient *mocks.MockCacheClient, docDBClient *mocks.MockDocDBClient, backend *mocks.MockBackend) *gin.Engine {
	handler := handlers.NewHealthHandler(cacheClient, docDBClient, backend)
	router := testutils.SetupTestRouter()
	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)
	router.GET("/live", handler.Live)
	return router
}

func TestHealthHandler_Health_AllHealthy(t *testing.T) {
	// Arrange
	mockCache := &mocks.MockCacheClient{}
	mockDocDB := &mocks.MockDocDBClient{}
	mockBackend := &mocks.MockBackend{}
	mockCache.On("Ping", mock.Anything).Return(nil)
	mockDocDB.On("Ping", mock.Anything).Return(nil)
	mockBackend.On("Ping", mock.Anything).Return(nil)

	router := healthRouter(mockCache, mockDocDB, mockBackend)

	// Act
	w := testutils.PerformRequest(router, "GET", "/health", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)

	var response dto.HealthResponse
	testutils.ParseJSONResponse(t, w, &response)
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "healthy", response.Components["cache"])
	assert.Equal(t, "healthy", response.Components["docdb"])
	assert.Equal(t, "healthy", response.Components["search"])
}

func TestHealthHandler_Health_CacheUnhealthy(t *testing.T) {
	// Arrange
	mockCache := &mocks.MockCacheClient{}
	mockDocDB := &mocks.MockDocDBClient{}
	mockBackend := &mocks.MockBackend{}
	mockCache.On("Ping", mock.Anything).Return(assert.AnError)
	mockDocDB.On("Ping", mock.Anything).Return(nil)
	mockBackend.On("Ping", mock.Anything).Return(nil)

	router := healthRouter(mockCache, mockDocDB, mockBackend)

	// Act
	w := testutils.PerformRequest(router, "GET", "/health", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusServiceUnavailable, w)

	var response dto.HealthResponse
	testutils.ParseJSONResponse(t, w, &response)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "unhealthy", response.Components["cache"])
	assert.Equal(t, "healthy", response.Components["docdb"])
}

func TestHealthHandler_Ready_Ready(t *testing.T) {
	// Arrange
	mockCache := &mocks.MockCacheClient{}
	mockDocDB := &mocks.MockDocDBClient{}
	mockBackend := &mocks.MockBackend{}
	mockDocDB.On("Ping", mock.Anything).Return(nil)
	mockBackend.On("Ping", mock.Anything).Return(nil)

	router := healthRouter(mockCache, mockDocDB, mockBackend)

	// Act
	w := testutils.PerformRequest(router, "GET", "/ready", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)
	// Readiness does not depend on the cache.
	mockCache.AssertNotCalled(t, "Ping", mock.Anything)
}

func TestHealthHandler_Ready_SearchDown(t *testing.T) {
	// Arrange
	mockCache := &mocks.MockCacheClient{}
	mockDocDB := &mocks.MockDocDBClient{}
	mockBackend := &mocks.MockBackend{}
	mockDocDB.On("Ping", mock.Anything).Return(nil)
	mockBackend.On("Ping", mock.Anything).Return(assert.AnError)

	router := healthRouter(mockCache, mockDocDB, mockBackend)

	// Act
	w := testutils.PerformRequest(router, "GET", "/ready", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusServiceUnavailable, w)
	assert.Contains(t, w.Body.String(), "search unavailable")
}

func TestHealthHandler_Live(t *testing.T) {
	// Arrange
	router := healthRouter(&mocks.MockCacheClient{}, &mocks.MockDocDBClient{}, &mocks.MockBackend{})

	// Act
	w := testutils.PerformRequest(router, "GET", "/live", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Contains(t, w.Body.String(), "alive")
}
