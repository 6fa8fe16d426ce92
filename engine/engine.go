// Package engine implements the AI backends a quicklang session dispatches to.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ZaguanLabs/quicklang"
)

// AIEngine is an alias to the main package interface for convenience.
type AIEngine = quicklang.AIEngine

// Default models and endpoints.
const (
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultDeepSeekModel   = "deepseek-chat"
	DefaultDeepSeekBaseURL = "https://api.deepseek.com"
	DefaultTemperature     = 0.3
	DefaultTimeout         = 60 * time.Second
)

// Config holds the settings shared by every engine the factory builds.
type Config struct {
	OpenAIModel     string
	OpenAIBaseURL   string // Custom base URL (optional)
	GeminiModel     string
	GeminiBaseURL   string // Custom base URL (optional)
	DeepSeekModel   string
	DeepSeekBaseURL string
	Temperature     float32
	Timeout         time.Duration

	// Simulate replaces every engine with a SimulatedEngine.
	Simulate       bool
	SimulatedDelay time.Duration

	HTTPClient *http.Client // Optional; built from Timeout when nil
}

func (c Config) withDefaults() Config {
	if c.OpenAIModel == "" {
		c.OpenAIModel = DefaultOpenAIModel
	}
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
	if c.DeepSeekModel == "" {
		c.DeepSeekModel = DefaultDeepSeekModel
	}
	if c.DeepSeekBaseURL == "" {
		c.DeepSeekBaseURL = DefaultDeepSeekBaseURL
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}
	if _, ok := client.Transport.(*userAgentTransport); !ok {
		wrapped := *client
		wrapped.Transport = &userAgentTransport{base: client.Transport}
		client = &wrapped
	}
	c.HTTPClient = client
	return c
}

// userAgentTransport identifies quicklang on every outgoing request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	ua := quicklang.UserAgent()
	if existing := req.Header.Get("User-Agent"); existing != "" {
		ua += " " + existing
	}
	req.Header.Set("User-Agent", ua)
	return base.RoundTrip(req)
}

// New builds the engine of the given kind bound to apiKey.
func New(kind quicklang.Engine, apiKey string, cfg Config) (AIEngine, error) {
	cfg = cfg.withDefaults()

	if cfg.Simulate {
		return NewSimulatedEngine(SimulatedConfig{Delay: cfg.SimulatedDelay}), nil
	}

	switch kind {
	case quicklang.EngineOpenAI:
		return NewOpenAIEngine(OpenAIConfig{
			APIKey:      apiKey,
			Model:       cfg.OpenAIModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.Temperature,
			HTTPClient:  cfg.HTTPClient,
		}), nil
	case quicklang.EngineDeepSeek:
		return NewDeepSeekEngine(OpenAIConfig{
			APIKey:      apiKey,
			Model:       cfg.DeepSeekModel,
			BaseURL:     cfg.DeepSeekBaseURL,
			Temperature: cfg.Temperature,
			HTTPClient:  cfg.HTTPClient,
		}), nil
	case quicklang.EngineGemini:
		return NewGeminiEngine(context.Background(), GeminiConfig{
			APIKey:      apiKey,
			Model:       cfg.GeminiModel,
			BaseURL:     cfg.GeminiBaseURL,
			Temperature: cfg.Temperature,
			HTTPClient:  cfg.HTTPClient,
		})
	default:
		return nil, fmt.Errorf("unknown engine %q", kind)
	}
}

// NewFactory returns a quicklang.EngineFactory building engines with cfg.
func NewFactory(cfg Config) quicklang.EngineFactory {
	return func(kind quicklang.Engine, apiKey string) (quicklang.AIEngine, error) {
		return New(kind, apiKey, cfg)
	}
}
