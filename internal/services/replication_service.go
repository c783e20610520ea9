package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// dmsEventSource is the EventBridge source of DMS notifications
const dmsEventSource = "aws.dms"

// DMS replication task states with dedicated handling
const (
	ReplicationStateRunning = "running"
	ReplicationStateStopped = "stopped"
	ReplicationStateFailed  = "failed"
)

type replicationDetail struct {
	State string `json:"state"`
}

// replicationService implements the ReplicationService interface
type replicationService struct{}

// NewReplicationService creates a new CDC transformer service
func NewReplicationService() ReplicationService {
	return &replicationService{}
}

// HandleEvent logs DMS replication state changes. Any other payload is
// treated as a direct transformation request.
func (s *replicationService) HandleEvent(ctx context.Context, payload json.RawMessage) (*ReplicationResult, error) {
	var envelope struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode replication event: %w", err)
	}

	if envelope.Source != dmsEventSource {
		logrus.Info("Transformation request processed")
		return &ReplicationResult{StatusCode: http.StatusOK, Body: "Transformation completed"}, nil
	}

	var event events.CloudWatchEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode DMS event: %w", err)
	}

	var detail replicationDetail
	if len(event.Detail) > 0 {
		if err := json.Unmarshal(event.Detail, &detail); err != nil {
			return nil, fmt.Errorf("failed to decode DMS event detail: %w", err)
		}
	}

	logger := logrus.WithFields(logrus.Fields{
		"detail_type": event.DetailType,
		"state":       detail.State,
		"resources":   event.Resources,
	})

	switch detail.State {
	case ReplicationStateRunning:
		logger.Info("DMS replication task is running")
	case ReplicationStateStopped:
		logger.Info("DMS replication task stopped")
	case ReplicationStateFailed:
		logger.Error("DMS replication task failed")
	default:
		logger.Info("DMS replication task state changed")
	}

	return &ReplicationResult{
		StatusCode: http.StatusOK,
		Body:       "Processed DMS event: " + detail.State,
	}, nil
}
