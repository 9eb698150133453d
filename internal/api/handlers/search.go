package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plotari/chat-service/internal/api/dto"
	"github.com/plotari/chat-service/internal/api/middleware"
	"github.com/plotari/chat-service/internal/core/search"
	"github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/domain/models"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	defaultPOILimit    = 10
)

// SearchHandler handles direct property search endpoints.
type SearchHandler struct {
	backend search.Backend
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(backend search.Backend) *SearchHandler {
	return &SearchHandler{
		backend: backend,
	}
}

// Search handles POST /search
// @Summary Search properties
// @Description Runs a filtered or free-text property search against the search backend
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.PropertySearchRequest true "Search filters"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PropertySearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	properties, err := h.backend.SearchProperties(ctx, search.PropertyQuery{
		Query:        req.Query,
		Limit:        limit,
		City:         req.City,
		State:        req.State,
		Neighborhood: req.Neighborhood,
		PropertyType: req.PropertyType,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MinBedrooms:  req.MinBedrooms,
		MaxBedrooms:  req.MaxBedrooms,
		MinBathrooms: req.MinBathrooms,
		MaxBathrooms: req.MaxBathrooms,
	})
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("property search failed", err))
		return
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		Properties: properties,
		Count:      len(properties),
	})
}

// PropertyDetail handles GET /property/{propertyId}
// @Summary Get property detail
// @Description Fetches a property together with similar listings
// @Tags Search
// @Produce json
// @Param propertyId path string true "Property ID"
// @Success 200 {object} dto.PropertyDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/property/{propertyId} [get]
func (h *SearchHandler) PropertyDetail(c *gin.Context) {
	ctx := c.Request.Context()
	propertyID := c.Param("propertyId")

	detail, err := h.backend.GetPropertyDetail(ctx, propertyID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("property lookup failed", err))
		return
	}
	if detail == nil {
		middleware.HandleError(c, errors.NewNotFoundError("property", propertyID))
		return
	}

	c.JSON(http.StatusOK, dto.PropertyDetailResponse{
		Property: detail.Property,
		Similar:  detail.Similar,
	})
}

// PropertyPOIs handles GET /property/{propertyId}/pois
// @Summary Get POIs near a property
// @Description Lists points of interest around a property, closest first
// @Tags Search
// @Produce json
// @Param propertyId path string true "Property ID"
// @Param category query string false "POI category" Enums(school, restaurant, healthcare, shopping, park)
// @Param radius query int false "Search radius in meters" default(1500)
// @Success 200 {object} dto.POISearchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/property/{propertyId}/pois [get]
func (h *SearchHandler) PropertyPOIs(c *gin.Context) {
	ctx := c.Request.Context()
	propertyID := c.Param("propertyId")

	radius := models.DefaultPOIRadius
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.HandleError(c, errors.NewValidationError("invalid radius", "radius must be a positive integer"))
			return
		}
		radius = parsed
	}

	pois, err := h.backend.SearchPOIs(ctx, search.POIQuery{
		PropertyID: propertyID,
		Category:   c.Query("category"),
		RadiusM:    radius,
		Limit:      defaultPOILimit,
	})
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("poi search failed", err))
		return
	}

	c.JSON(http.StatusOK, dto.POISearchResponse{
		PropertyID: propertyID,
		POIs:       pois,
		Count:      len(pois),
	})
}

// Compare handles POST /compare
// @Summary Compare properties
// @Description Fetches the requested properties and builds a side-by-side comparison
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.CompareRequest true "Property IDs to compare"
// @Success 200 {object} dto.CompareResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/compare [post]
func (h *SearchHandler) Compare(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	comparison, err := h.backend.CompareProperties(ctx, req.PropertyIDs)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("comparison failed", err))
		return
	}

	c.JSON(http.StatusOK, dto.CompareResponse{Comparison: comparison})
}
