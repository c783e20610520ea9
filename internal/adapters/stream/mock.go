package stream

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockPublisher is an in-memory implementation of Publisher for testing
type MockPublisher struct {
	mu       sync.RWMutex
	records  []Record
	failures []error
	sequence int
	closed   bool
}

// NewMockPublisher creates a new MockPublisher instance
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// FailNext queues errors to be returned by the next Publish calls, in order
func (m *MockPublisher) FailNext(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, errs...)
}

// Publish implements Publisher.Publish
func (m *MockPublisher) Publish(ctx context.Context, record *Record) (*PublishResult, error) {
	if err := validateRecord("Publish", record); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, NewPublishError("Publish", "mock", ErrPublisherClosed, false)
	}

	if len(m.failures) > 0 {
		err := m.failures[0]
		m.failures = m.failures[1:]
		return nil, err
	}

	m.sequence++
	m.records = append(m.records, Record{
		Data:         append([]byte(nil), record.Data...),
		PartitionKey: record.PartitionKey,
	})

	return &PublishResult{
		ShardID:        "shardId-000000000000",
		SequenceNumber: fmt.Sprintf("%056d", m.sequence),
		PublishedAt:    time.Now().UTC(),
	}, nil
}

// Records returns a copy of every record published so far
func (m *MockPublisher) Records() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Reset clears all published records and queued failures
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	m.failures = nil
	m.sequence = 0
}

// Close implements Publisher.Close
func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
