package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/quicklang"
	"google.golang.org/genai"
)

// GeminiEngine implements AIEngine using the Gemini API.
type GeminiEngine struct {
	client      *genai.Client
	model       string
	temperature float32
}

// GeminiConfig holds configuration for the Gemini engine.
type GeminiConfig struct {
	APIKey      string
	Model       string  // Model to use (default: "gemini-2.0-flash")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
	HTTPClient  *http.Client
}

// NewGeminiEngine creates a Gemini engine.
func NewGeminiEngine(ctx context.Context, cfg GeminiConfig) (*GeminiEngine, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &GeminiEngine{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// Translate sends one translation request.
func (e *GeminiEngine) Translate(ctx context.Context, req quicklang.TranslationRequest) (string, error) {
	return e.generate(ctx, TranslationPrompt(req))
}

// GenerateExercise sends one exercise request.
func (e *GeminiEngine) GenerateExercise(ctx context.Context, req quicklang.ExerciseRequest) (string, error) {
	return e.generate(ctx, ExercisePrompt(req))
}

// ValidateKey fetches the configured model's metadata.
func (e *GeminiEngine) ValidateKey(ctx context.Context) error {
	if _, err := e.client.Models.Get(ctx, e.model, nil); err != nil {
		return &quicklang.ProviderError{
			Message:   "key validation failed",
			Engine:    quicklang.EngineGemini,
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}
	return nil
}

func (e *GeminiEngine) generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(e.temperature),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), config)
	if err != nil {
		return "", &quicklang.ProviderError{
			Message:   "API call failed",
			Engine:    quicklang.EngineGemini,
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	text := CleanResponse(extractText(resp))
	if text == "" {
		return "", &quicklang.ProviderError{
			Message:   "empty response",
			Engine:    quicklang.EngineGemini,
			Retryable: true,
		}
	}
	return text, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}

var _ AIEngine = (*GeminiEngine)(nil)
var _ quicklang.KeyValidator = (*GeminiEngine)(nil)
