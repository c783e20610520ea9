package stream

import (
	"context"
	"fmt"
	"strings"
)

// PublisherType represents the type of publisher implementation
type PublisherType string

const (
	PublisherTypeKinesis PublisherType = "kinesis"
	PublisherTypeSQLite  PublisherType = "sqlite"
	PublisherTypeMock    PublisherType = "mock"
)

// Factory creates Publisher instances based on configuration
type Factory struct {
	retryConfig *RetryConfig
}

// NewFactory creates a new publisher factory
func NewFactory(retryConfig *RetryConfig) *Factory {
	return &Factory{
		retryConfig: retryConfig,
	}
}

// Create creates a Publisher instance based on the provided configuration
func (f *Factory) Create(ctx context.Context, config *Config) (Publisher, error) {
	if config == nil {
		return nil, fmt.Errorf("publisher config is required")
	}

	publisherType := PublisherType(strings.ToLower(config.Type))

	var publisher Publisher
	var err error

	switch publisherType {
	case PublisherTypeKinesis:
		publisher, err = NewKinesisPublisherFromConfig(ctx, config)
	case PublisherTypeSQLite:
		publisher, err = NewSQLitePublisher(config.SQLitePath)
	case PublisherTypeMock:
		publisher = NewMockPublisher()
	default:
		return nil, fmt.Errorf("unsupported publisher type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s publisher: %w", config.Type, err)
	}

	if f.retryConfig != nil {
		publisher = NewRetryablePublisher(publisher, f.retryConfig)
	}

	return publisher, nil
}
