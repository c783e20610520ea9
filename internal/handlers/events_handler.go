package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"url-event-pipeline/internal/adapters/stream"
)

const defaultEventsLimit = 50

// RecordLister lists records held by a local publisher sink
type RecordLister interface {
	List(ctx context.Context, limit int) ([]stream.StoredRecord, error)
}

// StoredEvent is a published event as returned by the events endpoint
type StoredEvent struct {
	ID           int64           `json:"id"`
	PartitionKey string          `json:"partition_key"`
	CreatedAt    string          `json:"created_at"`
	Event        json.RawMessage `json:"event"`
}

// EventsHandler serves recently published events from the local sink
type EventsHandler struct {
	lister RecordLister
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(lister RecordLister) *EventsHandler {
	return &EventsHandler{lister: lister}
}

// @Summary List published events
// @Description List the most recent events written to the local SQLite sink
// @Tags events
// @Produce json
// @Param limit query int false "Maximum number of events" default(50)
// @Success 200 {array} StoredEvent
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [get]
func (h *EventsHandler) ListEvents(c *gin.Context) {
	limit := defaultEventsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid limit",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	records, err := h.lister.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list events",
			Message: err.Error(),
		})
		return
	}

	out := make([]StoredEvent, 0, len(records))
	for _, r := range records {
		out = append(out, StoredEvent{
			ID:           r.ID,
			PartitionKey: r.PartitionKey,
			CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
			Event:        json.RawMessage(r.Data),
		})
	}

	c.JSON(http.StatusOK, out)
}
