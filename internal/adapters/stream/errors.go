package stream

import (
	"errors"
	"fmt"
)

// Common publisher error types
var (
	ErrInvalidRecord       = errors.New("invalid record")
	ErrMissingPartitionKey = errors.New("partition key is required")
	ErrStreamNotFound      = errors.New("stream not found")
	ErrThrottled           = errors.New("provisioned throughput exceeded")
	ErrStreamUnavailable   = errors.New("stream service unavailable")
	ErrNetworkError        = errors.New("network error")
	ErrTimeout             = errors.New("operation timeout")
	ErrPublisherClosed     = errors.New("publisher closed")
)

// PublishError represents a publish failure with additional context
type PublishError struct {
	Op        string // Operation that failed (e.g., "PutRecord")
	Stream    string // Stream involved in the operation
	Err       error  // Underlying error
	Retryable bool   // Whether the operation can be retried
}

func (e *PublishError) Error() string {
	if e.Stream != "" {
		return fmt.Sprintf("stream %s operation failed for '%s': %v", e.Op, e.Stream, e.Err)
	}
	return fmt.Sprintf("stream %s operation failed: %v", e.Op, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error indicates a retryable condition
func (e *PublishError) IsRetryable() bool {
	return e.Retryable
}

// NewPublishError creates a new PublishError
func NewPublishError(op, stream string, err error, retryable bool) *PublishError {
	return &PublishError{
		Op:        op,
		Stream:    stream,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable returns true if the error indicates a retryable condition
func IsRetryable(err error) bool {
	var publishErr *PublishError
	if errors.As(err, &publishErr) {
		return publishErr.IsRetryable()
	}

	return errors.Is(err, ErrThrottled) ||
		errors.Is(err, ErrStreamUnavailable) ||
		errors.Is(err, ErrNetworkError) ||
		errors.Is(err, ErrTimeout)
}
