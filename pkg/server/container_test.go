package server

import (
	"context"
	"path/filepath"
	"testing"

	"url-event-pipeline/internal/adapters/stream"
	"url-event-pipeline/internal/config"
	"url-event-pipeline/internal/models"
)

func testConfig(publisherType string) *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8080",
		LogLevel:    "info",
		ServiceName: "event-collector",
		Publisher: config.PublisherConfig{
			Type:        publisherType,
			StreamName:  "url-events",
			Region:      "us-east-1",
			MaxAttempts: 2,
		},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig("mock"))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.EnrichmentService == nil {
		t.Error("EnrichmentService is nil")
	}
	if container.CollectorService == nil {
		t.Error("CollectorService is nil")
	}
	if container.StreamService == nil {
		t.Error("StreamService is nil")
	}
	if container.ReplicationService == nil {
		t.Error("ReplicationService is nil")
	}
	if container.Sink != nil {
		t.Error("Expected no sink for the mock publisher")
	}
	if _, ok := container.Publisher.(*stream.RetryablePublisher); !ok {
		t.Errorf("Expected retrying publisher, got %T", container.Publisher)
	}

	if err := container.Close(); err != nil {
		t.Errorf("Failed to close container: %v", err)
	}
}

func TestNewContainer_SQLiteSink(t *testing.T) {
	cfg := testConfig("sqlite")
	cfg.Publisher.SQLitePath = filepath.Join(t.TempDir(), "events.db")

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	if container.Sink == nil {
		t.Fatal("Expected SQLite sink to be exposed")
	}

	ctx := context.Background()
	_, result := container.CollectorService.Collect(ctx, models.Event{"user_id": "user_1"}, nil)
	if !result.Success {
		t.Fatalf("Expected publish to succeed, got %s", result.Error)
	}

	records, err := container.Sink.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 || records[0].PartitionKey != "user_1" {
		t.Errorf("Unexpected sink contents %+v", records)
	}
}

func TestNewContainer_Errors(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Error("Expected error for nil config")
	}
	if _, err := NewContainer(testConfig("kafka")); err == nil {
		t.Error("Expected error for unsupported publisher")
	}
}
