package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"url-event-pipeline/internal/models"
	"url-event-pipeline/internal/services"
)

// EnrichHandler exposes the record enricher over HTTP
type EnrichHandler struct {
	enrichmentService services.EnrichmentService
}

// NewEnrichHandler creates a new enrich handler
func NewEnrichHandler(enrichmentService services.EnrichmentService) *EnrichHandler {
	return &EnrichHandler{
		enrichmentService: enrichmentService,
	}
}

// @Summary Enrich a raw event
// @Description Run a raw event through the enrichment rules and return the enriched event
// @Tags enrichment
// @Accept json
// @Produce json
// @Param event body object true "Raw event"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Router /enrich [post]
func (h *EnrichHandler) Enrich(c *gin.Context) {
	var raw models.Event
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}
	if raw == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: "event must be a JSON object",
		})
		return
	}

	c.JSON(http.StatusOK, h.enrichmentService.Enrich(raw))
}
