package errors

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// RetryLogger is the minimal logging interface retry helpers need.
type RetryLogger interface {
	Printf(format string, v ...interface{})
}

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts     int           // Maximum number of attempts
	InitialDelay    time.Duration // Initial delay between retries
	MaxDelay        time.Duration // Maximum delay between retries
	BackoffFactor   float64       // Exponential backoff factor
	Jitter          bool          // Whether to add jitter to delays
	RetryableErrors []ErrorCode   // Error codes eligible for retry
}

var retryLogger RetryLogger

// SetRetryLogger sets the package-level logger for retry operations.
func SetRetryLogger(logger RetryLogger) {
	retryLogger = logger
}

func logRetry(format string, v ...interface{}) {
	if retryLogger != nil {
		retryLogger.Printf(format, v...)
	}
}

// DefaultRetryConfig returns a retry configuration with sensible defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		RetryableErrors: []ErrorCode{
			ErrCodeConnection,
			ErrCodeTimeout,
			ErrCodeTransaction,
			ErrCodeBusy,
		},
	}
}

// RetryableOperation is an operation that can be re-executed safely.
type RetryableOperation func() error

func withRetryImpl(ctx context.Context, config *RetryConfig, operation RetryableOperation, name string) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 0 && name != "" {
				logRetry("Operation '%s' succeeded after %d attempts", name, attempt+1)
			}
			return nil
		}

		lastErr = err

		if !shouldRetry(err, config) {
			if name != "" {
				logRetry("Operation '%s' failed with non-retryable error: %v", name, err)
			}
			return err
		}

		// No sleep after the final attempt.
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := backoffDelay(attempt, config)
		logRetry("Operation '%s' failed (attempt %d/%d), retrying in %v: %v",
			name, attempt+1, config.MaxAttempts, delay, err)

		select {
		case <-ctx.Done():
			if name != "" {
				return fmt.Errorf("operation '%s' cancelled during retry: %w", name, ctx.Err())
			}
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if name != "" {
		return fmt.Errorf("operation '%s' failed after %d attempts: %w", name, config.MaxAttempts, lastErr)
	}
	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

// WithRetry executes an operation with retry logic.
func WithRetry(ctx context.Context, config *RetryConfig, operation RetryableOperation) error {
	return withRetryImpl(ctx, config, operation, "")
}

// WithRetryContext executes a named operation with retry logic; the name
// shows up in retry log lines.
func WithRetryContext(ctx context.Context, config *RetryConfig, operation RetryableOperation, name string) error {
	return withRetryImpl(ctx, config, operation, name)
}

// shouldRetry only retries classified repository errors whose code is in the
// configured retryable set.
func shouldRetry(err error, config *RetryConfig) bool {
	var repoErr *RepositoryError
	if !errors.As(err, &repoErr) {
		return false
	}
	if !repoErr.IsRetryable() {
		return false
	}
	return slices.Contains(config.RetryableErrors, repoErr.Code)
}

// backoffDelay computes the delay before the next attempt.
func backoffDelay(attempt int, config *RetryConfig) time.Duration {
	multiplier := 1.0
	for range attempt {
		multiplier *= config.BackoffFactor
	}

	delay := time.Duration(float64(config.InitialDelay) * multiplier)

	// Up to 25% jitter, applied before the max-delay cap.
	if config.Jitter && delay > 0 {
		jitterAmount := time.Duration(float64(delay) * 0.25)
		if jitterAmount > 0 {
			delay += time.Duration(time.Now().UnixNano() % int64(jitterAmount))
		}
	}

	return min(delay, config.MaxDelay)
}
