package server

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/adapters/stream"
	"url-event-pipeline/internal/config"
	"url-event-pipeline/internal/enrichment"
	"url-event-pipeline/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Enricher           *enrichment.Enricher
	Publisher          stream.Publisher
	EnrichmentService  services.EnrichmentService
	CollectorService   services.CollectorService
	StreamService      services.StreamService
	ReplicationService services.ReplicationService

	// Sink is set when events are published to the local SQLite sink
	Sink *stream.SQLitePublisher

	services *services.ServiceContainer
}

// NewContainer creates the container, building the publisher selected by
// the configuration
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publisher, err := stream.NewFactory(retryConfig(cfg)).Create(ctx, &stream.Config{
		Type:       cfg.Publisher.Type,
		StreamName: cfg.Publisher.StreamName,
		Region:     cfg.Publisher.Region,
		SQLitePath: cfg.Publisher.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	container, err := NewContainerWithPublisher(cfg, publisher)
	if err != nil {
		publisher.Close()
		return nil, err
	}

	return container, nil
}

// NewContainerWithPublisher creates the container around an existing publisher
func NewContainerWithPublisher(cfg *config.Config, publisher stream.Publisher) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	enricher := enrichment.NewEnricher(
		enrichment.WithLogger(logrus.WithField("service", cfg.ServiceName)),
	)

	serviceContainer, err := services.NewServiceContainer(enricher, publisher, &services.ServiceConfig{
		StrictBatch: cfg.Batch.Strict,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"deployment_mode": config.GetDeploymentMode(),
		"publisher_type":  cfg.Publisher.Type,
		"stream_name":     cfg.Publisher.StreamName,
		"strict_batch":    cfg.Batch.Strict,
	}).Info("Container initialized")

	return &Container{
		Config:             cfg,
		Enricher:           enricher,
		Publisher:          publisher,
		EnrichmentService:  serviceContainer.EnrichmentService,
		CollectorService:   serviceContainer.CollectorService,
		StreamService:      serviceContainer.StreamService,
		ReplicationService: serviceContainer.ReplicationService,
		Sink:               sinkOf(publisher),
		services:           serviceContainer,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.services != nil {
		if err := c.services.Close(); err != nil {
			return fmt.Errorf("failed to close services: %w", err)
		}
	}
	return nil
}

func retryConfig(cfg *config.Config) *stream.RetryConfig {
	rc := stream.DefaultRetryConfig()
	if cfg.Publisher.MaxAttempts > 0 {
		rc.MaxAttempts = cfg.Publisher.MaxAttempts
	}
	return rc
}

func sinkOf(publisher stream.Publisher) *stream.SQLitePublisher {
	if r, ok := publisher.(*stream.RetryablePublisher); ok {
		publisher = r.Unwrap()
	}
	sink, _ := publisher.(*stream.SQLitePublisher)
	return sink
}
