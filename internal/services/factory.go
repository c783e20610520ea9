package services

import (
	"fmt"

	"url-event-pipeline/internal/adapters/stream"
	"url-event-pipeline/internal/enrichment"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	EnrichmentService  EnrichmentService
	CollectorService   CollectorService
	StreamService      StreamService
	ReplicationService ReplicationService

	publisher stream.Publisher
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	// StrictBatch fails a whole Firehose batch when one record is undecodable
	StrictBatch bool
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(enricher *enrichment.Enricher, publisher stream.Publisher, config *ServiceConfig) (*ServiceContainer, error) {
	if enricher == nil {
		return nil, fmt.Errorf("enricher cannot be nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}

	if config == nil {
		config = &ServiceConfig{}
	}

	return &ServiceContainer{
		EnrichmentService:  NewEnrichmentService(enricher, config.StrictBatch),
		CollectorService:   NewCollectorService(publisher),
		StreamService:      NewStreamService(),
		ReplicationService: NewReplicationService(),
		publisher:          publisher,
	}, nil
}

// Close releases the publisher
func (sc *ServiceContainer) Close() error {
	if sc.publisher != nil {
		return sc.publisher.Close()
	}
	return nil
}
