package quicklang

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns the retry policy used by the CLI and server.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn with exponential backoff while it fails with a
// retryable error.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff(cfg, attempt)):
			}
		}
	}

	return zero, lastErr
}

func backoff(cfg RetryConfig, attempt int) time.Duration {
	delay := cfg.BaseDelay * time.Duration(1<<attempt)
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// IsRetryable reports whether err is a *ProviderError marked retryable.
// Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// RetryableEngine wraps an AIEngine with retry logic.
type RetryableEngine struct {
	engine AIEngine
	config RetryConfig
}

// NewRetryableEngine creates an engine that retries retryable failures.
func NewRetryableEngine(engine AIEngine, cfg RetryConfig) *RetryableEngine {
	return &RetryableEngine{
		engine: engine,
		config: cfg,
	}
}

// Translate implements AIEngine with retry logic.
func (e *RetryableEngine) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	return WithRetry(ctx, e.config, func() (string, error) {
		return e.engine.Translate(ctx, req)
	})
}

// GenerateExercise implements AIEngine with retry logic.
func (e *RetryableEngine) GenerateExercise(ctx context.Context, req ExerciseRequest) (string, error) {
	return WithRetry(ctx, e.config, func() (string, error) {
		return e.engine.GenerateExercise(ctx, req)
	})
}

// ValidateKey forwards to the wrapped engine when it supports key checks.
func (e *RetryableEngine) ValidateKey(ctx context.Context) error {
	if v, ok := e.engine.(KeyValidator); ok {
		return v.ValidateKey(ctx)
	}
	return nil
}
