package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/models"
)

// streamService implements the StreamService interface
type streamService struct{}

// NewStreamService creates a new stream processor service
func NewStreamService() StreamService {
	return &streamService{}
}

// ProcessRecords decodes and logs each stream record. Records that cannot be
// decoded are reported as batch item failures so only they are retried.
func (s *streamService) ProcessRecords(ctx context.Context, event events.KinesisEvent) events.KinesisEventResponse {
	var response events.KinesisEventResponse

	for _, record := range event.Records {
		logger := logrus.WithFields(logrus.Fields{
			"event_id":        record.EventID,
			"sequence_number": record.Kinesis.SequenceNumber,
			"partition_key":   record.Kinesis.PartitionKey,
		})

		processed, err := s.processRecord(record.Kinesis.Data)
		if err != nil {
			logger.WithError(err).Warn("Failed to process stream record")
			response.BatchItemFailures = append(response.BatchItemFailures, events.KinesisBatchItemFailure{
				ItemIdentifier: record.Kinesis.SequenceNumber,
			})
			continue
		}

		logger.WithField("record", processed).Info("Processed stream record")
	}

	logrus.WithFields(logrus.Fields{
		"record_count":  len(event.Records),
		"failure_count": len(response.BatchItemFailures),
	}).Info("Stream batch processed")

	return response
}

func (s *streamService) processRecord(data []byte) (*ProcessedRecord, error) {
	var payload models.Event
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode record data: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("record data is not a JSON object")
	}

	return &ProcessedRecord{
		Processed: true,
		Timestamp: payload[models.FieldTimestamp],
		Data:      payload,
	}, nil
}
