package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/adapters/stream"
	"url-event-pipeline/internal/models"
)

// collectorService implements the CollectorService interface
type collectorService struct {
	publisher stream.Publisher
	now       func() time.Time
	newID     func() string
}

// NewCollectorService creates a new collector service instance
func NewCollectorService(publisher stream.Publisher) CollectorService {
	return &collectorService{
		publisher: publisher,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// PrepareEvent builds the collected event from a tracking payload and the
// request headers. A fresh event id is always generated.
func (s *collectorService) PrepareEvent(payload models.Event, headers map[string]string) models.Event {
	if payload == nil {
		payload = models.Event{}
	}

	timestamp := models.FormatTimestamp(s.now())
	userAgent := header(headers, "User-Agent")

	ev := models.Event{
		models.FieldEventID:    s.newID(),
		models.FieldTimestamp:  timestamp,
		models.FieldURL:        valueOr(payload, models.FieldURL, ""),
		models.FieldUserID:     valueOr(payload, models.FieldUserID, ""),
		models.FieldSessionID:  valueOr(payload, models.FieldSessionID, ""),
		models.FieldEventType:  valueOr(payload, models.FieldEventType, models.EventTypePageView),
		models.FieldPageTitle:  valueOr(payload, "title", valueOr(payload, models.FieldPageTitle, "")),
		models.FieldReferrer:   valueOr(payload, models.FieldReferrer, ""),
		models.FieldUserAgent:  userAgent,
		models.FieldIPAddress:  header(headers, "X-Forwarded-For"),
		"country":              header(headers, "CloudFront-Viewer-Country"),
		"device_type":          detectDeviceType(userAgent),
		"browser":              detectBrowser(userAgent),
		"os":                   detectOS(userAgent),
		"screen_resolution":    valueOr(payload, "screen_resolution", ""),
		"viewport_size":        valueOr(payload, "viewport_size", ""),
		"timezone":             valueOr(payload, "timezone", ""),
		"language":             valueOr(payload, "language", ""),
		"custom_data":          payload.CustomFields(),
		"processing_timestamp": timestamp,
	}
	for _, f := range models.UTMFields {
		ev[f] = valueOr(payload, f, "")
	}

	if raw := ev.String(models.FieldURL); raw != "" {
		if u, err := url.Parse(raw); err == nil {
			ev["domain"] = u.Host
			ev["path"] = u.Path
			ev["query_string"] = u.RawQuery

			if u.RawQuery != "" && !ev.Has(models.FieldUTMSource) {
				query := u.Query()
				for _, f := range models.UTMFields {
					if v := firstNonBlank(query[f]); v != "" {
						ev[f] = v
					}
				}
			}
		}
	}

	return ev
}

// Publish writes the event to the stream. Failures are logged and reported
// in the result.
func (s *collectorService) Publish(ctx context.Context, event models.Event) *StreamResult {
	logger := logrus.WithField("event_id", event.String(models.FieldEventID))

	data, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Error("Failed to encode event")
		return &StreamResult{Success: false, Error: err.Error()}
	}

	result, err := s.publisher.Publish(ctx, &stream.Record{
		Data:         data,
		PartitionKey: event.PartitionKey(),
	})
	if err != nil {
		logger.WithError(err).Error("Failed to publish event")
		return &StreamResult{Success: false, Error: err.Error()}
	}

	logger.WithFields(logrus.Fields{
		"shard_id":        result.ShardID,
		"sequence_number": result.SequenceNumber,
	}).Info("Event published")

	return &StreamResult{
		Success:        true,
		ShardID:        result.ShardID,
		SequenceNumber: result.SequenceNumber,
	}
}

// Collect prepares and publishes one event
func (s *collectorService) Collect(ctx context.Context, payload models.Event, headers map[string]string) (models.Event, *StreamResult) {
	ev := s.PrepareEvent(payload, headers)
	return ev, s.Publish(ctx, ev)
}

// header looks up a header case-insensitively
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// valueOr returns the payload value for key when present, keeping its type
func valueOr(payload models.Event, key string, fallback any) any {
	if v, ok := payload[key]; ok && v != nil {
		return v
	}
	return fallback
}

func firstNonBlank(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func detectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return "tablet"
	default:
		return "desktop"
	}
}

func detectBrowser(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, name := range []string{"chrome", "firefox", "safari", "edge", "opera"} {
		if strings.Contains(ua, name) {
			return name
		}
	}
	return "unknown"
}

func detectOS(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "windows"):
		return "windows"
	case strings.Contains(ua, "mac"):
		return "macos"
	case strings.Contains(ua, "linux"):
		return "linux"
	case strings.Contains(ua, "android"):
		return "android"
	case strings.Contains(ua, "ios"):
		return "ios"
	default:
		return "unknown"
	}
}
