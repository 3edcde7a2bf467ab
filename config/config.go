// Package config loads process configuration from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/provider"
)

// Cache backends.
const (
	CacheBackendLRU    = "lru"
	CacheBackendBadger = "badger"
)

// Keyword extractors.
const (
	KeywordExtractorStopwords = "stopwords"
	KeywordExtractorLLM       = "llm"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the application
type Config struct {
	Google      GoogleConfig
	Bing        BingConfig
	X           XConfig
	Performance PerformanceConfig
	Cache       CacheConfig
	AI          AIConfig
}

// GoogleConfig holds Google Custom Search configuration
type GoogleConfig struct {
	APIKey  string
	CSEID   string
	BaseURL string
}

// BingConfig holds Bing Web Search configuration
type BingConfig struct {
	APIKey  string
	BaseURL string
}

// XConfig holds X API configuration
type XConfig struct {
	BearerToken string
	BaseURL     string
}

// PerformanceConfig holds fan-out and worker tuning
type PerformanceConfig struct {
	PerProviderTimeout      time.Duration
	WorkerPoolSize          int // 0 selects workpool.DefaultSize
	EnableCircuitBreaker    bool
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
	RetryMaxAttempts        int // 1 disables retries
	RetryBaseDelay          time.Duration
	RateLimitPerSecond      float64 // 0 disables rate limiting
	RateLimitBurst          int
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Backend    string
	TTL        time.Duration
	MaxEntries int
}

// AIConfig holds the model server configuration
type AIConfig struct {
	Host             string
	Token            string
	KeywordModel     string
	KeywordExtractor string
}

// Load reads envFiles (or .env when none are given) and then the environment.
// A missing default .env is ignored; a missing explicit file is an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// Load .env file (ignore error if file doesn't exist)
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	config := &Config{
		Google: GoogleConfig{
			APIKey:  getEnv("GOOGLE_API_KEY", ""),
			CSEID:   getEnv("GOOGLE_CSE_ID", ""),
			BaseURL: getEnv("GOOGLE_API_BASE_URL", provider.GoogleBaseURL),
		},
		Bing: BingConfig{
			APIKey:  getEnv("BING_API_KEY", ""),
			BaseURL: getEnv("BING_API_BASE_URL", provider.BingBaseURL),
		},
		X: XConfig{
			BearerToken: getEnv("X_API_KEY", ""),
			BaseURL:     getEnv("X_API_BASE_URL", provider.XBaseURL),
		},
		Performance: PerformanceConfig{
			PerProviderTimeout:      getDurationEnv("PER_PROVIDER_TIMEOUT_MS", 5000) * time.Millisecond,
			WorkerPoolSize:          getIntEnv("WORKER_POOL_SIZE", 0),
			EnableCircuitBreaker:    getBoolEnv("ENABLE_CIRCUIT_BREAKER", true),
			CircuitBreakerThreshold: getIntEnv("CIRCUIT_BREAKER_THRESHOLD", 5),
			CircuitBreakerTimeout:   getDurationEnv("CIRCUIT_BREAKER_TIMEOUT_SEC", 30) * time.Second,
			RetryMaxAttempts:        getIntEnv("PROVIDER_RETRY_ATTEMPTS", 1),
			RetryBaseDelay:          getDurationEnv("PROVIDER_RETRY_DELAY_MS", 200) * time.Millisecond,
			RateLimitPerSecond:      getFloatEnv("PROVIDER_RATE_LIMIT_RPS", 0),
			RateLimitBurst:          getIntEnv("PROVIDER_RATE_LIMIT_BURST", 1),
		},
		Cache: CacheConfig{
			Backend:    getEnv("CACHE_BACKEND", CacheBackendLRU),
			TTL:        getDurationEnv("CACHE_TTL_SEC", 600) * time.Second,
			MaxEntries: getIntEnv("CACHE_MAX_ENTRIES", 100),
		},
		AI: AIConfig{
			Host:             getEnv("AI_HOST", "http://localhost:11434/v1"),
			Token:            getEnv("AI_TOKEN", "none"),
			KeywordModel:     getEnv("KEYWORD_MODEL", "qwen2.5:3b"),
			KeywordExtractor: getEnv("KEYWORD_EXTRACTOR", KeywordExtractorStopwords),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks ranges and enumerations. Missing provider credentials only
// produce warnings; the provider is then skipped at search time.
func (c *Config) Validate() error {
	logger := slog.Default().With("component", "config")

	if c.Google.APIKey == "" || c.Google.CSEID == "" {
		logger.Warn("GOOGLE_API_KEY or GOOGLE_CSE_ID not set; Google disabled")
	}
	if c.Bing.APIKey == "" {
		logger.Warn("BING_API_KEY not set; Bing disabled")
	}
	if c.X.BearerToken == "" {
		logger.Warn("X_API_KEY not set; X disabled")
	}

	if c.Performance.PerProviderTimeout <= 0 {
		return fmt.Errorf("%w: PER_PROVIDER_TIMEOUT_MS must be positive", ErrInvalidConfig)
	}
	if c.Performance.WorkerPoolSize < 0 {
		return fmt.Errorf("%w: WORKER_POOL_SIZE must not be negative", ErrInvalidConfig)
	}
	if c.Performance.EnableCircuitBreaker && c.Performance.CircuitBreakerThreshold < 1 {
		return fmt.Errorf("%w: CIRCUIT_BREAKER_THRESHOLD must be positive", ErrInvalidConfig)
	}
	if c.Performance.RetryMaxAttempts < 1 {
		return fmt.Errorf("%w: PROVIDER_RETRY_ATTEMPTS must be positive", ErrInvalidConfig)
	}
	if c.Performance.RateLimitPerSecond < 0 {
		return fmt.Errorf("%w: PROVIDER_RATE_LIMIT_RPS must not be negative", ErrInvalidConfig)
	}
	if c.Cache.Backend != CacheBackendLRU && c.Cache.Backend != CacheBackendBadger {
		return fmt.Errorf("%w: CACHE_BACKEND must be %q or %q, got %q", ErrInvalidConfig, CacheBackendLRU, CacheBackendBadger, c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL_SEC must be positive", ErrInvalidConfig)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("%w: CACHE_MAX_ENTRIES must be positive", ErrInvalidConfig)
	}
	if c.AI.KeywordExtractor != KeywordExtractorStopwords && c.AI.KeywordExtractor != KeywordExtractorLLM {
		return fmt.Errorf("%w: KEYWORD_EXTRACTOR must be %q or %q, got %q", ErrInvalidConfig, KeywordExtractorStopwords, KeywordExtractorLLM, c.AI.KeywordExtractor)
	}

	return nil
}

// ModelConfig converts the AI settings into an ai.Config.
func (c *Config) ModelConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.AI.Host),
		ai.WithToken(c.AI.Token),
		ai.WithKeywordModel(c.AI.KeywordModel),
	)
}

// Helper functions to get environment variables with defaults

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer value, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean value, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getFloatEnv(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		slog.Warn("invalid float value, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid duration value, using default", "key", key, "value", valueStr, "default", defaultValue)
		return time.Duration(defaultValue)
	}

	return time.Duration(value)
}
