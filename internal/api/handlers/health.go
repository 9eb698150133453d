package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plotari/chat-service/internal/api/dto"
	"github.com/plotari/chat-service/internal/core/cache"
	"github.com/plotari/chat-service/internal/core/docdb"
	"github.com/plotari/chat-service/internal/core/search"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	cacheClient   cache.Client
	docDBClient   docdb.Client
	searchBackend search.Backend
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cacheClient cache.Client, docDBClient docdb.Client, searchBackend search.Backend) *HealthHandler {
	return &HealthHandler{
		cacheClient:   cacheClient,
		docDBClient:   docDBClient,
		searchBackend: searchBackend,
	}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	components := make(map[string]string)
	healthy := true

	// Check cache
	if err := h.cacheClient.Ping(ctx); err != nil {
		components["cache"] = "unhealthy"
		healthy = false
	} else {
		components["cache"] = "healthy"
	}

	// Check document database
	if err := h.docDBClient.Ping(ctx); err != nil {
		components["docdb"] = "unhealthy"
		healthy = false
	} else {
		components["docdb"] = "healthy"
	}

	// Check search backend
	if err := h.searchBackend.Ping(ctx); err != nil {
		components["search"] = "unhealthy"
		healthy = false
	} else {
		components["search"] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.docDBClient.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "docdb unavailable",
		})
		return
	}

	if err := h.searchBackend.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "search unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
