package handlers

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/models"
	"url-event-pipeline/internal/services"
	"url-event-pipeline/pkg/lambda"
)

// transparentGIF is a 1x1 transparent GIF, base64 encoded
const transparentGIF = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

//go:embed assets/tracker.js
var trackerScript []byte

// CollectResponse is returned by the collection endpoints
type CollectResponse struct {
	Status       string                 `json:"status"`
	EventID      string                 `json:"event_id"`
	Timestamp    string                 `json:"timestamp"`
	StreamResult *services.StreamResult `json:"stream_result"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// DirectResponse is returned for invocations without an HTTP envelope
type DirectResponse struct {
	StatusCode int                `json:"statusCode"`
	Body       DirectResponseBody `json:"body"`
}

// DirectResponseBody is the body of a DirectResponse
type DirectResponseBody struct {
	Message      string                 `json:"message"`
	EventID      string                 `json:"event_id"`
	StreamResult *services.StreamResult `json:"stream_result"`
}

// CollectorHandler serves the event collection endpoints
type CollectorHandler struct {
	collector   services.CollectorService
	serviceName string
	now         func() time.Time
}

// NewCollectorHandler creates a new collector handler
func NewCollectorHandler(collector services.CollectorService, serviceName string) *CollectorHandler {
	return &CollectorHandler{
		collector:   collector,
		serviceName: serviceName,
		now:         time.Now,
	}
}

// HandleHealth reports service liveness
func (h *CollectorHandler) HandleHealth(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return jsonResponse(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: models.FormatTimestamp(h.now()),
		Service:   h.serviceName,
	}, nil), nil
}

// HandleCollect collects an event from a JSON body (POST) or the query
// string (GET). Query parameters override body fields.
func (h *CollectorHandler) HandleCollect(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var payload models.Event

	switch req.Method {
	case http.MethodPost:
		payload = models.Event{}
		if len(req.Body) > 0 {
			if err := json.Unmarshal(req.Body, &payload); err != nil {
				return errorResponse(http.StatusBadRequest, "Invalid request body", err.Error()), nil
			}
			if payload == nil {
				payload = models.Event{}
			}
		}
		for k, v := range req.QueryParams {
			payload[k] = v
		}
	case http.MethodGet:
		payload = queryPayload(req.QueryParams)
	default:
		return methodNotAllowed(), nil
	}

	ev, result := h.collector.Collect(ctx, payload, req.Headers)

	logrus.WithFields(logrus.Fields{
		"event_id":   ev.String(models.FieldEventID),
		"event_type": ev.String(models.FieldEventType),
		"published":  result.Success,
	}).Info("Event collected")

	return jsonResponse(http.StatusOK, CollectResponse{
		Status:       "success",
		EventID:      ev.String(models.FieldEventID),
		Timestamp:    ev.String(models.FieldTimestamp),
		StreamResult: result,
	}, map[string]string{
		"Access-Control-Allow-Methods": corsAllowMethods,
		"Access-Control-Allow-Headers": corsAllowHeaders,
	}), nil
}

// HandlePixel collects an event from the query string and answers with a
// transparent GIF
func (h *CollectorHandler) HandlePixel(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	ev, result := h.collector.Collect(ctx, queryPayload(req.QueryParams), req.Headers)

	logrus.WithFields(logrus.Fields{
		"event_id":  ev.String(models.FieldEventID),
		"published": result.Success,
	}).Info("Pixel event collected")

	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "image/gif",
			"Cache-Control":               "no-cache, no-store, must-revalidate",
			"Pragma":                      "no-cache",
			"Expires":                     "0",
			"Access-Control-Allow-Origin": "*",
		},
		Body:            []byte(transparentGIF),
		IsBase64Encoded: true,
	}, nil
}

// HandleScript serves the browser tracking script
func (h *CollectorHandler) HandleScript(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/javascript",
			"Cache-Control":               "public, max-age=3600",
			"Access-Control-Allow-Origin": "*",
		},
		Body: trackerScript,
	}, nil
}

// HandleDirect collects an event invoked without an HTTP envelope. The
// invocation payload is the tracking payload itself.
func (h *CollectorHandler) HandleDirect(ctx context.Context, payload models.Event) *DirectResponse {
	ev, result := h.collector.Collect(ctx, payload, nil)

	return &DirectResponse{
		StatusCode: http.StatusOK,
		Body: DirectResponseBody{
			Message:      "Event processed successfully",
			EventID:      ev.String(models.FieldEventID),
			StreamResult: result,
		},
	}
}

func queryPayload(params map[string]string) models.Event {
	payload := make(models.Event, len(params))
	for k, v := range params {
		payload[k] = v
	}
	return payload
}

// recoverResponse converts a handler panic into a 500 response
func recoverResponse(resp **lambda.Response) {
	if r := recover(); r != nil {
		logrus.WithField("panic", fmt.Sprint(r)).Error("Collector request failed")
		*resp = internalError(fmt.Errorf("%v", r))
	}
}
