package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/enrichment"
	"url-event-pipeline/internal/models"
)

// Enricher enriches a single raw event
type Enricher interface {
	Enrich(raw models.Event) models.Event
}

var _ Enricher = (*enrichment.Enricher)(nil)

// enrichmentService implements the EnrichmentService interface
type enrichmentService struct {
	enricher Enricher
	strict   bool
}

// NewEnrichmentService creates a new enrichment service instance
func NewEnrichmentService(enricher Enricher, strict bool) EnrichmentService {
	return &enrichmentService{
		enricher: enricher,
		strict:   strict,
	}
}

// Enrich delegates to the enricher
func (s *enrichmentService) Enrich(raw models.Event) models.Event {
	return s.enricher.Enrich(raw)
}

// TransformBatch enriches every record of a Firehose batch. Records with
// invalid base64 or JSON are marked ProcessingFailed individually unless strict mode is on,
// in which case the whole batch fails.
func (s *enrichmentService) TransformBatch(ctx context.Context, event FirehoseEvent) (response events.KinesisFirehoseResponse) {
	logger := logrus.WithFields(logrus.Fields{
		"invocation_id": event.InvocationID,
		"record_count":  len(event.Records),
	})
	logger.Info("Processing Firehose batch")

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", fmt.Sprint(r)).Error("Batch transformation failed")
			response = failBatch(event)
		}
	}()

	response.Records = make([]events.KinesisFirehoseResponseRecord, 0, len(event.Records))
	failed := 0

	for _, record := range event.Records {
		data, err := s.transformRecord(record)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"record_id": record.RecordID,
				"error":     err.Error(),
			}).Warn("Failed to transform record")

			if s.strict {
				return failBatch(event)
			}

			failed++
			response.Records = append(response.Records, events.KinesisFirehoseResponseRecord{
				RecordID: record.RecordID,
				Result:   events.KinesisFirehoseTransformedStateProcessingFailed,
			})
			continue
		}

		response.Records = append(response.Records, events.KinesisFirehoseResponseRecord{
			RecordID: record.RecordID,
			Result:   events.KinesisFirehoseTransformedStateOk,
			Data:     data,
		})
	}

	logger.WithField("failed_count", failed).Info("Firehose batch processed")
	return response
}

func (s *enrichmentService) transformRecord(record FirehoseRecord) ([]byte, error) {
	data, err := record.decode()
	if err != nil {
		return nil, err
	}

	var raw models.Event
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("record is not a JSON object")
	}

	out, err := json.Marshal(s.enricher.Enrich(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to encode enriched record: %w", err)
	}
	return out, nil
}

// failBatch marks every record of the batch ProcessingFailed with no payload
func failBatch(event FirehoseEvent) events.KinesisFirehoseResponse {
	records := make([]events.KinesisFirehoseResponseRecord, 0, len(event.Records))
	for _, record := range event.Records {
		records = append(records, events.KinesisFirehoseResponseRecord{
			RecordID: record.RecordID,
			Result:   events.KinesisFirehoseTransformedStateProcessingFailed,
		})
	}
	return events.KinesisFirehoseResponse{Records: records}
}
