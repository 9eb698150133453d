package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plotari/chat-service/internal/api/dto"
	"github.com/plotari/chat-service/internal/api/middleware"
	"github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/services/enrichment"
)

// EnrichmentHandler handles POI enrichment endpoints.
type EnrichmentHandler struct {
	enrichment enrichment.Service
}

// NewEnrichmentHandler creates a new EnrichmentHandler.
func NewEnrichmentHandler(service enrichment.Service) *EnrichmentHandler {
	return &EnrichmentHandler{
		enrichment: service,
	}
}

// Run handles POST /enrichment/run
// @Summary Run POI enrichment
// @Description Fetches points of interest around stored properties and saves them. Set async to queue the run in the background.
// @Tags Enrichment
// @Accept json
// @Produce json
// @Param request body dto.EnrichmentRequest true "Enrichment parameters"
// @Success 200 {object} enrichment.Report
// @Success 202 {object} dto.EnrichmentQueuedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/enrichment/run [post]
func (h *EnrichmentHandler) Run(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.EnrichmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	job := &enrichment.Request{
		City:       req.City,
		RadiusM:    req.Radius,
		Categories: req.Categories,
		Limit:      req.Limit,
	}

	if req.Async {
		if !h.enrichment.Enqueue(job) {
			middleware.HandleError(c, errors.NewServiceUnavailableError("enrichment queue", nil))
			return
		}
		c.JSON(http.StatusAccepted, dto.EnrichmentQueuedResponse{
			Queued:    true,
			QueueSize: h.enrichment.QueueSize(),
		})
		return
	}

	report, err := h.enrichment.Enrich(ctx, job)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("enrichment run failed", err))
		return
	}

	c.JSON(http.StatusOK, report)
}
