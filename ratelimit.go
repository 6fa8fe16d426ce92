package quicklang

import (
	"context"
	"sync"
	"time"
)

// RateLimiter controls the rate of engine calls using a token bucket.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a rate limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens:     burst,
		maxTokens:  burst,
		refillRate: rpm / 60.0,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.TryAcquire() {
			return nil
		}

		r.mu.Lock()
		need := (1 - r.tokens) / r.refillRate
		r.mu.Unlock()
		wait := time.Duration(need * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// TryAcquire takes a token without blocking. It reports whether one was
// available.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// refill must be called with the lock held.
func (r *RateLimiter) refill() {
	now := r.now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.lastRefill = now

	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedEngine wraps an AIEngine with rate limiting.
type RateLimitedEngine struct {
	engine  AIEngine
	limiter *RateLimiter
}

// NewRateLimitedEngine creates a rate-limited engine with its own limiter.
func NewRateLimitedEngine(engine AIEngine, cfg RateLimitConfig) *RateLimitedEngine {
	return &RateLimitedEngine{
		engine:  engine,
		limiter: NewRateLimiter(cfg),
	}
}

// Translate implements AIEngine with rate limiting.
func (e *RateLimitedEngine) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	if err := e.wait(ctx, req.Engine); err != nil {
		return "", err
	}
	return e.engine.Translate(ctx, req)
}

// GenerateExercise implements AIEngine with rate limiting.
func (e *RateLimitedEngine) GenerateExercise(ctx context.Context, req ExerciseRequest) (string, error) {
	if err := e.wait(ctx, req.Engine); err != nil {
		return "", err
	}
	return e.engine.GenerateExercise(ctx, req)
}

// ValidateKey forwards to the wrapped engine without consuming a token.
func (e *RateLimitedEngine) ValidateKey(ctx context.Context) error {
	if v, ok := e.engine.(KeyValidator); ok {
		return v.ValidateKey(ctx)
	}
	return nil
}

// Limiter returns the underlying rate limiter for inspection.
func (e *RateLimitedEngine) Limiter() *RateLimiter {
	return e.limiter
}

func (e *RateLimitedEngine) wait(ctx context.Context, kind Engine) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return &ProviderError{
			Message: "rate limit wait cancelled",
			Engine:  kind,
			Cause:   err,
		}
	}
	return nil
}
