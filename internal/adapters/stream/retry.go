package stream

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig configures retry behavior for publish operations
type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" yaml:"max_attempts"`
	InitialDelay  time.Duration `json:"initial_delay" yaml:"initial_delay"`
	MaxDelay      time.Duration `json:"max_delay" yaml:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor" yaml:"backoff_factor"`
	JitterEnabled bool          `json:"jitter_enabled" yaml:"jitter_enabled"`
}

// DefaultRetryConfig returns the retry policy used for collector publishes.
// The delays are short because a client is waiting on the response.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func(ctx context.Context) error

// WithRetry executes op until it succeeds, returns a non-retryable error,
// or the attempts are exhausted.
func WithRetry(ctx context.Context, config *RetryConfig, op RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt >= config.MaxAttempts || !IsRetryable(err) {
			break
		}

		delay := config.calculateDelay(attempt)
		logrus.WithFields(logrus.Fields{
			"attempt":  attempt,
			"delay_ms": delay.Milliseconds(),
			"error":    err.Error(),
		}).Debug("Retrying publish")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// calculateDelay returns initial_delay * backoff_factor^(attempt-1), capped
// at MaxDelay, plus up to 10% jitter.
func (c *RetryConfig) calculateDelay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1))

	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.JitterEnabled {
		delay += rand.Float64() * 0.1 * delay
	}

	return time.Duration(delay)
}

// RetryablePublisher wraps a Publisher implementation with retry logic
type RetryablePublisher struct {
	publisher Publisher
	config    *RetryConfig
}

// NewRetryablePublisher creates a new RetryablePublisher
func NewRetryablePublisher(publisher Publisher, config *RetryConfig) *RetryablePublisher {
	if config == nil {
		config = DefaultRetryConfig()
	}

	return &RetryablePublisher{
		publisher: publisher,
		config:    config,
	}
}

// Publish implements Publisher.Publish with retry logic
func (r *RetryablePublisher) Publish(ctx context.Context, record *Record) (*PublishResult, error) {
	var result *PublishResult
	err := WithRetry(ctx, r.config, func(ctx context.Context) error {
		res, err := r.publisher.Publish(ctx, record)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	return result, err
}

// Close implements Publisher.Close
func (r *RetryablePublisher) Close() error {
	return r.publisher.Close()
}

// Unwrap returns the wrapped publisher
func (r *RetryablePublisher) Unwrap() Publisher {
	return r.publisher
}
