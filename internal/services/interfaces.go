package services

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"

	"url-event-pipeline/internal/models"
)

// EnrichmentService turns raw events into warehouse-ready enriched events
type EnrichmentService interface {
	// Enrich never fails; on total failure the input is returned unchanged
	Enrich(raw models.Event) models.Event

	// TransformBatch enriches a Firehose transformation batch. The response
	// carries one record per input record, in input order.
	TransformBatch(ctx context.Context, event FirehoseEvent) events.KinesisFirehoseResponse
}

// CollectorService normalizes tracking payloads and publishes them to the stream
type CollectorService interface {
	PrepareEvent(payload models.Event, headers map[string]string) models.Event
	Publish(ctx context.Context, event models.Event) *StreamResult
	Collect(ctx context.Context, payload models.Event, headers map[string]string) (models.Event, *StreamResult)
}

// StreamService processes records delivered by a Kinesis stream trigger
type StreamService interface {
	ProcessRecords(ctx context.Context, event events.KinesisEvent) events.KinesisEventResponse
}

// ReplicationService handles change-data-capture notifications
type ReplicationService interface {
	HandleEvent(ctx context.Context, payload json.RawMessage) (*ReplicationResult, error)
}

// StreamResult reports the outcome of publishing one event. It is embedded
// in collector responses; publish failures are reported here, not returned.
type StreamResult struct {
	Success        bool   `json:"success"`
	ShardID        string `json:"shard_id,omitempty"`
	SequenceNumber string `json:"sequence_number,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ProcessedRecord is the output of the stream processor for one record.
// Timestamp is the record's own timestamp value, nil when it has none.
type ProcessedRecord struct {
	Processed bool           `json:"processed"`
	Timestamp any            `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// ReplicationResult is the Lambda-style response of the CDC transformer
type ReplicationResult struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}
