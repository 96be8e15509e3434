package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fastRetryConfig avoids real backoff sleeps in tests.
func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		Jitter:        false,
		RetryableErrors: []ErrorCode{
			ErrCodeConnection,
			ErrCodeTimeout,
			ErrCodeTransaction,
			ErrCodeBusy,
		},
	}
}

func TestWithRetrySucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetryRetriesRetryableErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		if calls < 3 {
			return NewRepositoryError("op", errors.New("database is locked"), ErrCodeBusy)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	calls := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return NewRepositoryError("op", errors.New("no such row"), ErrCodeNotFound)
	})
	if !IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Non-retryable errors must not be retried, got %d calls", calls)
	}
}

func TestWithRetryDoesNotRetryPlainErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	plain := errors.New("database is locked")
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return plain
	})
	if !errors.Is(err, plain) {
		t.Fatalf("Expected the plain error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Unclassified errors must not be retried, got %d calls", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	busy := NewRepositoryError("op", errors.New("database is locked"), ErrCodeBusy)
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return busy
	})
	if err == nil {
		t.Fatal("Expected failure after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	if !errors.Is(err, busy) {
		t.Errorf("Final error should wrap the last failure, got %v", err)
	}
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	config := fastRetryConfig()
	config.InitialDelay = time.Hour // force the wait path

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- WithRetryContext(ctx, config, func() error {
			calls++
			return NewRepositoryError("op", errors.New("busy"), ErrCodeBusy)
		}, "cancel_test")
	}()

	// Let the first attempt fail, then cancel during the backoff sleep.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Retry did not observe cancellation")
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 attempt before cancellation, got %d", calls)
	}
}

func TestBackoffDelayCapsAtMax(t *testing.T) {
	t.Parallel()

	config := &RetryConfig{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		BackoffFactor: 10.0,
		Jitter:        false,
	}

	if d := backoffDelay(0, config); d != 100*time.Millisecond {
		t.Errorf("Attempt 0: expected 100ms, got %v", d)
	}
	if d := backoffDelay(3, config); d != 300*time.Millisecond {
		t.Errorf("Attempt 3: expected cap at 300ms, got %v", d)
	}
}

func TestWithRetryNilConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	err := WithRetry(context.Background(), nil, func() error { return nil })
	if err != nil {
		t.Fatalf("Expected success with nil config, got %v", err)
	}
}
