// Package config loads quicklang settings from a file, QUICKLANG_* environment
// variables and defaults, in that order of precedence (environment first).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZaguanLabs/quicklang"
	"github.com/ZaguanLabs/quicklang/engine"
	"github.com/ZaguanLabs/quicklang/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. QUICKLANG_LOG_LEVEL.
const EnvPrefix = "QUICKLANG"

// Config is the complete quicklang configuration.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Session   SessionConfig   `mapstructure:"session"`
	Retry     RetryConfig     `mapstructure:"retry"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// EngineConfig selects models and endpoints for the AI engines.
type EngineConfig struct {
	OpenAIModel     string        `mapstructure:"openai_model"`
	OpenAIBaseURL   string        `mapstructure:"openai_base_url"`
	GeminiModel     string        `mapstructure:"gemini_model"`
	GeminiBaseURL   string        `mapstructure:"gemini_base_url"`
	DeepSeekModel   string        `mapstructure:"deepseek_model"`
	DeepSeekBaseURL string        `mapstructure:"deepseek_base_url"`
	Temperature     float32       `mapstructure:"temperature"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Simulate        bool          `mapstructure:"simulate"`
	SimulatedDelay  time.Duration `mapstructure:"simulated_delay"`
}

// SessionConfig controls session state. TTL bounds both the stored
// fingerprints and how long an idle web session is kept; 0 keeps both
// indefinitely.
type SessionConfig struct {
	LongTextThreshold int           `mapstructure:"long_text_threshold"`
	TTL               time.Duration `mapstructure:"ttl"`
	RedisURL          string        `mapstructure:"redis_url"` // Empty means in-memory state
	KeyPrefix         string        `mapstructure:"key_prefix"`
}

// RetryConfig configures retries of retryable provider errors.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay"`
}

// RateLimitConfig limits dispatches per session.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"` // 0 disables rate limiting
	BurstSize         int `mapstructure:"burst_size"`
}

// ServerConfig configures the web interface.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	IdentityHeader  string        `mapstructure:"identity_header"`
	RequireIdentity bool          `mapstructure:"require_identity"`
	CookieName      string        `mapstructure:"cookie_name"`
	SecureCookie    bool          `mapstructure:"secure_cookie"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.openai_model", engine.DefaultOpenAIModel)
	v.SetDefault("engine.openai_base_url", "")
	v.SetDefault("engine.gemini_model", engine.DefaultGeminiModel)
	v.SetDefault("engine.gemini_base_url", "")
	v.SetDefault("engine.deepseek_model", engine.DefaultDeepSeekModel)
	v.SetDefault("engine.deepseek_base_url", engine.DefaultDeepSeekBaseURL)
	v.SetDefault("engine.temperature", engine.DefaultTemperature)
	v.SetDefault("engine.timeout", engine.DefaultTimeout)
	v.SetDefault("engine.simulate", false)
	v.SetDefault("engine.simulated_delay", 2*time.Second)

	v.SetDefault("session.long_text_threshold", quicklang.DefaultLongTextThreshold)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.redis_url", "")
	v.SetDefault("session.key_prefix", "quicklang:session:")

	retry := quicklang.DefaultRetryConfig()
	v.SetDefault("retry.max_retries", retry.MaxRetries)
	v.SetDefault("retry.base_delay", retry.BaseDelay)
	v.SetDefault("retry.max_delay", retry.MaxDelay)

	v.SetDefault("ratelimit.requests_per_minute", 0)
	v.SetDefault("ratelimit.burst_size", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.identity_header", "X-Forwarded-User")
	v.SetDefault("server.require_identity", false)
	v.SetDefault("server.cookie_name", "quicklang_session")
	v.SetDefault("server.secure_cookie", false)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Load reads the configuration. When path is empty, quicklang.{yaml,json,toml}
// is looked up in the working directory and is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("quicklang")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	if c.Session.LongTextThreshold <= 0 {
		return fmt.Errorf("session.long_text_threshold must be positive, got %d", c.Session.LongTextThreshold)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must not be negative, got %s", c.Session.TTL)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", c.Retry.MaxRetries)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("ratelimit.requests_per_minute must not be negative, got %d", c.RateLimit.RequestsPerMinute)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// EngineSettings converts the engine section for engine.NewFactory.
func (c *Config) EngineSettings() engine.Config {
	return engine.Config{
		OpenAIModel:     c.Engine.OpenAIModel,
		OpenAIBaseURL:   c.Engine.OpenAIBaseURL,
		GeminiModel:     c.Engine.GeminiModel,
		GeminiBaseURL:   c.Engine.GeminiBaseURL,
		DeepSeekModel:   c.Engine.DeepSeekModel,
		DeepSeekBaseURL: c.Engine.DeepSeekBaseURL,
		Temperature:     c.Engine.Temperature,
		Timeout:         c.Engine.Timeout,
		Simulate:        c.Engine.Simulate,
		SimulatedDelay:  c.Engine.SimulatedDelay,
	}
}

// SessionOptions returns the session options implied by the configuration.
func (c *Config) SessionOptions() []quicklang.SessionOption {
	opts := []quicklang.SessionOption{
		quicklang.WithLongTextThreshold(c.Session.LongTextThreshold),
	}
	if c.Retry.MaxRetries > 0 {
		opts = append(opts, quicklang.WithRetryPolicy(quicklang.RetryConfig{
			MaxRetries: c.Retry.MaxRetries,
			BaseDelay:  c.Retry.BaseDelay,
			MaxDelay:   c.Retry.MaxDelay,
		}))
	}
	if c.RateLimit.RequestsPerMinute > 0 {
		opts = append(opts, quicklang.WithRateLimit(quicklang.RateLimitConfig{
			RequestsPerMinute: c.RateLimit.RequestsPerMinute,
			BurstSize:         c.RateLimit.BurstSize,
		}))
	}
	return opts
}
