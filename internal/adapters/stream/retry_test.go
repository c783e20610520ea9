package stream

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 3 {
		t.Errorf("Expected MaxAttempts=3, got %d", config.MaxAttempts)
	}

	if config.InitialDelay != 50*time.Millisecond {
		t.Errorf("Expected InitialDelay=50ms, got %v", config.InitialDelay)
	}

	if config.BackoffFactor != 2.0 {
		t.Errorf("Expected BackoffFactor=2.0, got %f", config.BackoffFactor)
	}
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	fast := &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		BackoffFactor: 2.0,
	}

	t.Run("SuccessOnFirstAttempt", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return nil
		})
		if err != nil {
			t.Fatalf("WithRetry failed: %v", err)
		}
		if attempts != 1 {
			t.Errorf("Expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("RetriesThrottling", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return NewPublishError("PutRecord", "events", ErrThrottled, true)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithRetry failed: %v", err)
		}
		if attempts != 3 {
			t.Errorf("Expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("FailAfterMaxAttempts", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return ErrNetworkError
		})
		if !errors.Is(err, ErrNetworkError) {
			t.Fatalf("Expected network error, got %v", err)
		}
		if attempts != 3 {
			t.Errorf("Expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("NonRetryableError", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return NewPublishError("PutRecord", "events", ErrStreamNotFound, false)
		})
		if err == nil {
			t.Fatal("WithRetry should have failed")
		}
		if attempts != 1 {
			t.Errorf("Expected 1 attempt, got %d", attempts)
		}
		if IsRetryable(err) {
			t.Error("Error should not be retryable")
		}
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		attempts := 0
		err := WithRetry(cancelled, fast, func(ctx context.Context) error {
			attempts++
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}
		if attempts != 0 {
			t.Errorf("Expected 0 attempts, got %d", attempts)
		}
	})
}

func TestCalculateDelay(t *testing.T) {
	config := &RetryConfig{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{4, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := config.calculateDelay(tt.attempt); got != tt.want {
			t.Errorf("calculateDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryablePublisher(t *testing.T) {
	mock := NewMockPublisher()
	mock.FailNext(NewPublishError("Publish", "mock", ErrStreamUnavailable, true))

	publisher := NewRetryablePublisher(mock, &RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, BackoffFactor: 1})

	result, err := publisher.Publish(context.Background(), &Record{Data: []byte(`{}`), PartitionKey: "user-1"})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if result.SequenceNumber == "" {
		t.Error("Expected a sequence number")
	}
	if got := len(mock.Records()); got != 1 {
		t.Errorf("Expected 1 stored record, got %d", got)
	}
}
