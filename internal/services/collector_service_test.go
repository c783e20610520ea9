package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"url-event-pipeline/internal/adapters/stream"
	"url-event-pipeline/internal/models"
)

func newTestCollector(publisher stream.Publisher) *collectorService {
	return &collectorService{
		publisher: publisher,
		now:       func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		newID:     func() string { return "11111111-2222-4333-8444-555555555555" },
	}
}

func TestPrepareEvent_Fields(t *testing.T) {
	svc := newTestCollector(stream.NewMockPublisher())

	payload := models.Event{
		"url":               "https://www.shop.example.com/product/42?utm_source=news&utm_medium=email",
		"user_id":           "user_1",
		"session_id":        "sess_1",
		"title":             "Blue Widget",
		"page_title":        "ignored",
		"referrer":          "https://google.com",
		"screen_resolution": "1920x1080",
		"custom_color":      "blue",
		"custom_size":       float64(42),
	}
	headers := map[string]string{
		"user-agent":                "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1",
		"x-forwarded-for":           "203.0.113.7, 10.0.0.1",
		"CloudFront-Viewer-Country": "NZ",
	}

	ev := svc.PrepareEvent(payload, headers)

	assert.Equal(t, "11111111-2222-4333-8444-555555555555", ev["event_id"])
	assert.Equal(t, "2024-05-01T12:00:00.000000Z", ev["timestamp"])
	assert.Equal(t, ev["timestamp"], ev["processing_timestamp"])
	assert.Equal(t, "page_view", ev["event_type"])
	assert.Equal(t, "Blue Widget", ev["page_title"])
	assert.Equal(t, "203.0.113.7, 10.0.0.1", ev["ip_address"])
	assert.Equal(t, "NZ", ev["country"])
	assert.Equal(t, "mobile", ev["device_type"])
	assert.Equal(t, "safari", ev["browser"])
	assert.Equal(t, "macos", ev["os"])
	assert.Equal(t, "1920x1080", ev["screen_resolution"])
	assert.Equal(t, "", ev["viewport_size"])
	assert.Equal(t, map[string]any{"custom_color": "blue", "custom_size": float64(42)}, ev["custom_data"])

	assert.Equal(t, "www.shop.example.com", ev["domain"])
	assert.Equal(t, "/product/42", ev["path"])
	assert.Equal(t, "utm_source=news&utm_medium=email", ev["query_string"])
	assert.Equal(t, "news", ev["utm_source"])
	assert.Equal(t, "email", ev["utm_medium"])
	assert.Equal(t, "", ev["utm_campaign"])
}

func TestPrepareEvent_SuppliedUTMWins(t *testing.T) {
	svc := newTestCollector(stream.NewMockPublisher())

	ev := svc.PrepareEvent(models.Event{
		"url":        "https://example.com/?utm_source=query&utm_campaign=spring",
		"utm_source": "payload",
	}, nil)

	assert.Equal(t, "payload", ev["utm_source"])
	assert.Equal(t, "", ev["utm_campaign"])
}

func TestPrepareEvent_EmptyPayload(t *testing.T) {
	ev := newTestCollector(stream.NewMockPublisher()).PrepareEvent(nil, nil)

	assert.Equal(t, "", ev["url"])
	assert.Equal(t, "page_view", ev["event_type"])
	assert.Equal(t, "desktop", ev["device_type"])
	assert.Equal(t, "unknown", ev["browser"])
	assert.Equal(t, "unknown", ev["os"])
	assert.NotContains(t, ev, "domain")
	assert.Empty(t, ev["custom_data"])
}

func TestCollect_PublishesWithPartitionKey(t *testing.T) {
	tests := []struct {
		name    string
		payload models.Event
		wantKey string
	}{
		{"user id", models.Event{"user_id": "user_9"}, "user_9"},
		{"empty user id falls back to event id", models.Event{"user_id": ""}, "11111111-2222-4333-8444-555555555555"},
		{"numeric user id", models.Event{"url": "https://example.com/", "user_id": float64(12345)}, "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := stream.NewMockPublisher()
			svc := newTestCollector(mock)

			ev, result := svc.Collect(context.Background(), tt.payload, nil)
			require.True(t, result.Success)
			assert.NotEmpty(t, result.SequenceNumber)
			assert.Equal(t, "shardId-000000000000", result.ShardID)

			records := mock.Records()
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantKey, records[0].PartitionKey)

			var published map[string]any
			require.NoError(t, json.Unmarshal(records[0].Data, &published))
			assert.Equal(t, ev["event_id"], published["event_id"])
		})
	}
}

func TestCollect_PublishFailureIsReported(t *testing.T) {
	mock := stream.NewMockPublisher()
	mock.FailNext(stream.NewPublishError("PutRecord", "url-events", stream.ErrStreamNotFound, false))

	_, result := newTestCollector(mock).Collect(context.Background(), models.Event{"url": "https://example.com"}, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "stream not found")
	assert.Empty(t, result.SequenceNumber)
}

func TestHeaderLookup(t *testing.T) {
	headers := map[string]string{"USER-AGENT": "upper", "X-Forwarded-For": "exact"}

	assert.Equal(t, "upper", header(headers, "User-Agent"))
	assert.Equal(t, "exact", header(headers, "X-Forwarded-For"))
	assert.Equal(t, "", header(headers, "Referer"))
	assert.Equal(t, "", header(nil, "User-Agent"))
}
