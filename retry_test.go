package quicklang

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastRetry = RetryConfig{
	MaxRetries: 3,
	BaseDelay:  10 * time.Millisecond,
	MaxDelay:   100 * time.Millisecond,
}

func TestWithRetry_Success(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry, func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %q", result)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetry_RetryableError(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry, func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", &ProviderError{Message: "rate limited", Retryable: true}
		}
		return "success", nil
	})

	if err != nil {
		t.Fatalf("Expected no error after retries, got: %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %q", result)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetry, func() (string, error) {
		callCount++
		return "", &ProviderError{Message: "invalid API key", Retryable: false}
	})

	if err == nil {
		t.Fatal("Expected error for non-retryable error")
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call for non-retryable error, got %d", callCount)
	}
}

func TestWithRetry_MaxRetriesExceeded(t *testing.T) {
	cfg := fastRetry
	cfg.MaxRetries = 2

	callCount := 0
	_, err := WithRetry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})

	if err == nil {
		t.Fatal("Expected error after max retries")
	}
	// Initial attempt + 2 retries
	if callCount != 3 {
		t.Errorf("Expected 3 calls (1 + 2 retries), got %d", callCount)
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 300 * time.Millisecond},
		{5, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := backoff(cfg, tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable provider error", &ProviderError{Retryable: true}, true},
		{"non-retryable provider error", &ProviderError{Retryable: false}, false},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"retryable wrapping cancel", &ProviderError{Retryable: true, Cause: context.Canceled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 2 {
		t.Errorf("Expected MaxRetries 2, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay != 500*time.Millisecond {
		t.Errorf("Expected BaseDelay 500ms, got %v", cfg.BaseDelay)
	}
	if cfg.MaxDelay != 10*time.Second {
		t.Errorf("Expected MaxDelay 10s, got %v", cfg.MaxDelay)
	}
}

func TestRetryableEngine(t *testing.T) {
	attempts := 0
	inner := &fakeEngine{}
	inner.translate = func(ctx context.Context, req TranslationRequest) (string, error) {
		attempts++
		if attempts <= 2 {
			return "", &ProviderError{Message: "temporary failure", Retryable: true}
		}
		return "Hola", nil
	}

	e := NewRetryableEngine(inner, fastRetry)

	got, err := e.Translate(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if got != "Hola" {
		t.Errorf("Unexpected result: %q", got)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 calls, got %d", attempts)
	}
}

func TestRetryableEngine_Exercise(t *testing.T) {
	attempts := 0
	inner := &fakeEngine{}
	inner.exercise = func(ctx context.Context, req ExerciseRequest) (string, error) {
		attempts++
		if attempts == 1 {
			return "", &ProviderError{Message: "overloaded", Retryable: true}
		}
		return "1. ...", nil
	}

	e := NewRetryableEngine(inner, fastRetry)
	if _, err := e.GenerateExercise(context.Background(), ExerciseRequest{Grammar: GrammarPast}); err != nil {
		t.Fatalf("GenerateExercise failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 calls, got %d", attempts)
	}
}

func TestRetryableEngine_ForwardsKeyValidation(t *testing.T) {
	denied := errors.New("denied")
	e := NewRetryableEngine(&fakeEngine{validateErr: denied}, fastRetry)
	if err := e.ValidateKey(context.Background()); !errors.Is(err, denied) {
		t.Errorf("ValidateKey = %v, want %v", err, denied)
	}
}
