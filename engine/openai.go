package engine

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/quicklang"
	"github.com/sashabaranov/go-openai"
)

// OpenAIEngine implements AIEngine on the chat completions API. It also
// serves DeepSeek, which exposes an OpenAI-compatible endpoint.
type OpenAIEngine struct {
	client      *openai.Client
	kind        quicklang.Engine
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for OpenAI-compatible engines.
type OpenAIConfig struct {
	APIKey      string
	Model       string       // Model to use (default: "gpt-4o-mini")
	Temperature float32      // Temperature for generation (default: 0.3)
	BaseURL     string       // Custom base URL (optional)
	HTTPClient  *http.Client // Optional
}

// NewOpenAIEngine creates an OpenAI engine.
func NewOpenAIEngine(cfg OpenAIConfig) *OpenAIEngine {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	return newChatEngine(quicklang.EngineOpenAI, cfg)
}

// NewDeepSeekEngine creates a DeepSeek engine.
func NewDeepSeekEngine(cfg OpenAIConfig) *OpenAIEngine {
	if cfg.Model == "" {
		cfg.Model = DefaultDeepSeekModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultDeepSeekBaseURL
	}
	return newChatEngine(quicklang.EngineDeepSeek, cfg)
}

func newChatEngine(kind quicklang.Engine, cfg OpenAIConfig) *OpenAIEngine {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &OpenAIEngine{
		client:      openai.NewClientWithConfig(config),
		kind:        kind,
		model:       cfg.Model,
		temperature: temperature,
	}
}

// Kind returns the engine identifier (openai or deepseek).
func (e *OpenAIEngine) Kind() quicklang.Engine {
	return e.kind
}

// Translate sends one translation request.
func (e *OpenAIEngine) Translate(ctx context.Context, req quicklang.TranslationRequest) (string, error) {
	return e.complete(ctx, TranslationPrompt(req))
}

// GenerateExercise sends one exercise request.
func (e *OpenAIEngine) GenerateExercise(ctx context.Context, req quicklang.ExerciseRequest) (string, error) {
	return e.complete(ctx, ExercisePrompt(req))
}

// ValidateKey lists models, the cheapest authenticated call.
func (e *OpenAIEngine) ValidateKey(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return e.wrap("key validation failed", err)
	}
	return nil
}

func (e *OpenAIEngine) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: e.temperature,
	})
	if err != nil {
		return "", e.wrap("API call failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", &quicklang.ProviderError{
			Message:   "empty response",
			Engine:    e.kind,
			Retryable: true,
		}
	}

	text := CleanResponse(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &quicklang.ProviderError{
			Message:   "empty response",
			Engine:    e.kind,
			Retryable: true,
		}
	}
	return text, nil
}

func (e *OpenAIEngine) wrap(msg string, err error) error {
	return &quicklang.ProviderError{
		Message:   msg,
		Engine:    e.kind,
		Cause:     err,
		Retryable: isRetryableError(err),
	}
}

// isRetryableError classifies API failures. Status codes are used when the
// client exposes them, message patterns otherwise.
func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"503",
		"502",
		"429",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

var _ AIEngine = (*OpenAIEngine)(nil)
var _ quicklang.KeyValidator = (*OpenAIEngine)(nil)
