package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/polysearch/provider"
)

var envKeys = []string{
	"GOOGLE_API_KEY", "GOOGLE_CSE_ID", "GOOGLE_API_BASE_URL",
	"BING_API_KEY", "BING_API_BASE_URL",
	"X_API_KEY", "X_API_BASE_URL",
	"PER_PROVIDER_TIMEOUT_MS", "WORKER_POOL_SIZE",
	"ENABLE_CIRCUIT_BREAKER", "CIRCUIT_BREAKER_THRESHOLD", "CIRCUIT_BREAKER_TIMEOUT_SEC",
	"PROVIDER_RETRY_ATTEMPTS", "PROVIDER_RETRY_DELAY_MS",
	"PROVIDER_RATE_LIMIT_RPS", "PROVIDER_RATE_LIMIT_BURST",
	"CACHE_BACKEND", "CACHE_TTL_SEC", "CACHE_MAX_ENTRIES",
	"AI_HOST", "AI_TOKEN", "KEYWORD_MODEL", "KEYWORD_EXTRACTOR",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeEnvFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "# nothing set\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, provider.GoogleBaseURL, cfg.Google.BaseURL)
	assert.Equal(t, provider.BingBaseURL, cfg.Bing.BaseURL)
	assert.Equal(t, provider.XBaseURL, cfg.X.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Performance.PerProviderTimeout)
	assert.Equal(t, 0, cfg.Performance.WorkerPoolSize)
	assert.True(t, cfg.Performance.EnableCircuitBreaker)
	assert.Equal(t, 5, cfg.Performance.CircuitBreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.Performance.CircuitBreakerTimeout)
	assert.Equal(t, 1, cfg.Performance.RetryMaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Performance.RetryBaseDelay)
	assert.Zero(t, cfg.Performance.RateLimitPerSecond)
	assert.Equal(t, 1, cfg.Performance.RateLimitBurst)
	assert.Equal(t, CacheBackendLRU, cfg.Cache.Backend)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.Host)
	assert.Equal(t, KeywordExtractorStopwords, cfg.AI.KeywordExtractor)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `GOOGLE_API_KEY=gkey
GOOGLE_CSE_ID=cse
BING_API_KEY=bkey
PER_PROVIDER_TIMEOUT_MS=250
CACHE_BACKEND=badger
CACHE_TTL_SEC=60
CACHE_MAX_ENTRIES=5
KEYWORD_EXTRACTOR=llm
WORKER_POOL_SIZE=3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gkey", cfg.Google.APIKey)
	assert.Equal(t, "cse", cfg.Google.CSEID)
	assert.Equal(t, "bkey", cfg.Bing.APIKey)
	assert.Empty(t, cfg.X.BearerToken)
	assert.Equal(t, 250*time.Millisecond, cfg.Performance.PerProviderTimeout)
	assert.Equal(t, CacheBackendBadger, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Cache.MaxEntries)
	assert.Equal(t, KeywordExtractorLLM, cfg.AI.KeywordExtractor)
	assert.Equal(t, 3, cfg.Performance.WorkerPoolSize)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesUseDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_MAX_ENTRIES", "many")
	t.Setenv("ENABLE_CIRCUIT_BREAKER", "maybe")

	cfg, err := Load(writeEnvFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.True(t, cfg.Performance.EnableCircuitBreaker)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown cache backend", map[string]string{"CACHE_BACKEND": "redis"}},
		{"zero ttl", map[string]string{"CACHE_TTL_SEC": "0"}},
		{"zero max entries", map[string]string{"CACHE_MAX_ENTRIES": "0"}},
		{"negative pool size", map[string]string{"WORKER_POOL_SIZE": "-1"}},
		{"zero timeout", map[string]string{"PER_PROVIDER_TIMEOUT_MS": "0"}},
		{"unknown extractor", map[string]string{"KEYWORD_EXTRACTOR": "magic"}},
		{"zero retry attempts", map[string]string{"PROVIDER_RETRY_ATTEMPTS": "0"}},
		{"negative rate limit", map[string]string{"PROVIDER_RATE_LIMIT_RPS": "-2.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeEnvFile(t, ""))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestModelConfig(t *testing.T) {
	cfg := &Config{AI: AIConfig{Host: "http://models:8000", Token: "t", KeywordModel: "kw"}}
	mc := cfg.ModelConfig()
	require.NoError(t, mc.Validate())
	assert.Equal(t, "http://models:8000/v1", mc.Host)
	assert.Equal(t, "kw", mc.KeywordModel)
}
