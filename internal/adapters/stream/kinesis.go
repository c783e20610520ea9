package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"
)

// KinesisAPI is the subset of the Kinesis client used by KinesisPublisher
type KinesisAPI interface {
	PutRecord(ctx context.Context, params *kinesis.PutRecordInput, optFns ...func(*kinesis.Options)) (*kinesis.PutRecordOutput, error)
}

// KinesisPublisher publishes records to a Kinesis data stream
type KinesisPublisher struct {
	client     KinesisAPI
	streamName string
}

// NewKinesisPublisher creates a publisher for streamName using client
func NewKinesisPublisher(client KinesisAPI, streamName string) (*KinesisPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("kinesis client is required")
	}
	if streamName == "" {
		return nil, fmt.Errorf("stream name is required")
	}

	return &KinesisPublisher{
		client:     client,
		streamName: streamName,
	}, nil
}

// NewKinesisPublisherFromConfig loads the default AWS credential chain and
// creates a publisher for the configured stream.
func NewKinesisPublisherFromConfig(ctx context.Context, config *Config) (*KinesisPublisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewKinesisPublisher(kinesis.NewFromConfig(awsCfg), config.StreamName)
}

// Publish implements Publisher.Publish
func (k *KinesisPublisher) Publish(ctx context.Context, record *Record) (*PublishResult, error) {
	if err := validateRecord("PutRecord", record); err != nil {
		return nil, err
	}

	out, err := k.client.PutRecord(ctx, &kinesis.PutRecordInput{
		StreamName:   aws.String(k.streamName),
		Data:         record.Data,
		PartitionKey: aws.String(record.PartitionKey),
	})
	if err != nil {
		return nil, k.classify(err)
	}

	return &PublishResult{
		ShardID:        aws.ToString(out.ShardId),
		SequenceNumber: aws.ToString(out.SequenceNumber),
		PublishedAt:    time.Now().UTC(),
	}, nil
}

// Close implements Publisher.Close. The SDK client holds no resources.
func (k *KinesisPublisher) Close() error {
	return nil
}

// classify maps SDK errors onto the package error taxonomy
func (k *KinesisPublisher) classify(err error) error {
	var throughput *types.ProvisionedThroughputExceededException
	var notFound *types.ResourceNotFoundException
	var netErr net.Error

	switch {
	case errors.As(err, &throughput):
		return NewPublishError("PutRecord", k.streamName, fmt.Errorf("%w: %v", ErrThrottled, err), true)
	case errors.As(err, &notFound):
		return NewPublishError("PutRecord", k.streamName, fmt.Errorf("%w: %v", ErrStreamNotFound, err), false)
	case errors.Is(err, context.DeadlineExceeded):
		return NewPublishError("PutRecord", k.streamName, fmt.Errorf("%w: %v", ErrTimeout, err), true)
	case errors.As(err, &netErr):
		return NewPublishError("PutRecord", k.streamName, fmt.Errorf("%w: %v", ErrNetworkError, err), true)
	default:
		return NewPublishError("PutRecord", k.streamName, err, false)
	}
}
