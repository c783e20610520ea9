package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKinesis struct {
	input *kinesis.PutRecordInput
	err   error
}

func (f *fakeKinesis) PutRecord(ctx context.Context, params *kinesis.PutRecordInput, optFns ...func(*kinesis.Options)) (*kinesis.PutRecordOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &kinesis.PutRecordOutput{
		ShardId:        aws.String("shardId-000000000001"),
		SequenceNumber: aws.String("49590338271490256608559692538361571095921575989136588898"),
	}, nil
}

func TestKinesisPublisher_Publish(t *testing.T) {
	client := &fakeKinesis{}
	publisher, err := NewKinesisPublisher(client, "url-events")
	require.NoError(t, err)

	result, err := publisher.Publish(context.Background(), &Record{Data: []byte(`{"event_id":"e1"}`), PartitionKey: "user_1"})
	require.NoError(t, err)

	assert.Equal(t, "shardId-000000000001", result.ShardID)
	assert.Equal(t, "49590338271490256608559692538361571095921575989136588898", result.SequenceNumber)
	assert.Equal(t, "url-events", aws.ToString(client.input.StreamName))
	assert.Equal(t, "user_1", aws.ToString(client.input.PartitionKey))
	assert.JSONEq(t, `{"event_id":"e1"}`, string(client.input.Data))
}

func TestKinesisPublisher_Validation(t *testing.T) {
	_, err := NewKinesisPublisher(nil, "url-events")
	assert.Error(t, err)

	_, err = NewKinesisPublisher(&fakeKinesis{}, "")
	assert.Error(t, err)

	publisher, err := NewKinesisPublisher(&fakeKinesis{}, "url-events")
	require.NoError(t, err)

	_, err = publisher.Publish(context.Background(), &Record{Data: []byte(`{}`)})
	assert.ErrorIs(t, err, ErrMissingPartitionKey)

	_, err = publisher.Publish(context.Background(), &Record{PartitionKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestKinesisPublisher_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		sentinel  error
		retryable bool
	}{
		{"throttled", &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")}, ErrThrottled, true},
		{"missing stream", &types.ResourceNotFoundException{Message: aws.String("no stream")}, ErrStreamNotFound, false},
		{"deadline", context.DeadlineExceeded, ErrTimeout, true},
		{"other", errors.New("access denied"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := NewKinesisPublisher(&fakeKinesis{err: tt.err}, "url-events")
			require.NoError(t, err)

			_, err = publisher.Publish(context.Background(), &Record{Data: []byte(`{}`), PartitionKey: "k"})
			require.Error(t, err)

			var publishErr *PublishError
			require.ErrorAs(t, err, &publishErr)
			assert.Equal(t, "url-events", publishErr.Stream)
			assert.Equal(t, tt.retryable, IsRetryable(err))
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}
