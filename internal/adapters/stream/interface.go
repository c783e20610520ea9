package stream

import (
	"context"
	"time"
)

// Record is a single payload destined for the event stream
type Record struct {
	Data         []byte `json:"data"`
	PartitionKey string `json:"partition_key"`
}

// PublishResult describes where the transport placed a record
type PublishResult struct {
	ShardID        string    `json:"shard_id"`
	SequenceNumber string    `json:"sequence_number"`
	PublishedAt    time.Time `json:"published_at"`
}

// Publisher provides an abstraction over the streaming transport.
// Implementations exist for Kinesis, a local SQLite sink and an in-memory mock.
type Publisher interface {
	// Publish writes one record to the stream. Records sharing a partition
	// key are delivered in order.
	Publish(ctx context.Context, record *Record) (*PublishResult, error)

	// Close releases any resources held by the publisher
	Close() error
}

// Config represents configuration for publisher implementations
type Config struct {
	Type       string `json:"type" yaml:"type"`               // "kinesis", "sqlite" or "mock"
	StreamName string `json:"stream_name" yaml:"stream_name"` // Kinesis stream name
	Region     string `json:"region" yaml:"region"`           // AWS region
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"` // For the local sink
}

func validateRecord(op string, record *Record) error {
	if record == nil || len(record.Data) == 0 {
		return NewPublishError(op, "", ErrInvalidRecord, false)
	}
	if record.PartitionKey == "" {
		return NewPublishError(op, "", ErrMissingPartitionKey, false)
	}
	return nil
}
