package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/config"
	"github.com/davidbz/atelier/internal/domain"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		os.Clearenv()

		cfg, err := config.Load()
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, "info", cfg.Log.Level)
		require.Equal(t, config.CacheBackendMemory, cfg.Cache.Backend)
		require.Equal(t, time.Hour, cfg.Cache.TTL)
		require.Equal(t, time.Second, cfg.Orchestrator.BackoffBase)
		require.Equal(t, int64(8), cfg.Orchestrator.ProviderMaxConcurrency)
		require.Equal(t, int64(4), cfg.Orchestrator.BatchMaxConcurrency)
		require.Equal(t, 50, cfg.Orchestrator.MaxBatchSize)
		require.Zero(t, cfg.Orchestrator.GenerationTimeout)
		require.True(t, cfg.RateLimit.Enabled)
		require.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
		require.Equal(t, "mock", cfg.Provider.Name)
		require.Equal(t, "data/atelier.db", cfg.History.Path)
		require.Equal(t, "dall-e-3", cfg.OpenAI.ImageModel)
		require.Equal(t, "gpt-4o-mini", cfg.Suggest.Model)
		require.Equal(t, "FIBO", cfg.Bria.ModelVersion)
		require.Equal(t, time.Second, cfg.Mock.Latency)
		require.Empty(t, cfg.OpenAI.APIKey)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("CACHE_TTL", "30m")
		t.Setenv("REDIS_URL", "redis://cache:6379/2")
		t.Setenv("RETRY_BACKOFF_BASE", "250ms")
		t.Setenv("PROVIDER_MAX_CONCURRENCY", "2")
		t.Setenv("GENERATION_TIMEOUT", "90s")
		t.Setenv("IMAGE_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

		cfg, err := config.Load()
		require.NoError(t, err)

		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, config.CacheBackendRedis, cfg.Cache.Backend)
		require.Equal(t, 30*time.Minute, cfg.Cache.TTL)
		require.Equal(t, "redis://cache:6379/2", cfg.Cache.RedisURL)
		require.Equal(t, 250*time.Millisecond, cfg.Orchestrator.BackoffBase)
		require.Equal(t, int64(2), cfg.Orchestrator.ProviderMaxConcurrency)
		require.Equal(t, 90*time.Second, cfg.Orchestrator.GenerationTimeout)
		require.Equal(t, "openai", cfg.Provider.Name)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, "sk-test-key", cfg.Suggest.APIKey)
		require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)

		policy := cfg.Orchestrator.RetryPolicy()
		require.Equal(t, 250*time.Millisecond, policy.BaseDelay)
		require.Equal(t, 30*time.Second, policy.MaxDelay)
	})

	invalid := map[string][2]string{
		"unknown cache backend":  {"CACHE_BACKEND", "memcached"},
		"unknown provider":       {"IMAGE_PROVIDER", "stable-diffusion"},
		"zero concurrency":       {"PROVIDER_MAX_CONCURRENCY", "0"},
		"zero batch size":        {"MAX_BATCH_SIZE", "0"},
		"negative timeout":       {"GENERATION_TIMEOUT", "-1s"},
		"non-positive cache ttl": {"CACHE_TTL", "0s"},
	}
	for name, kv := range invalid {
		t.Run("should reject "+name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestLoadScoringPolicy(t *testing.T) {
	t.Run("should return defaults without a file", func(t *testing.T) {
		policy, err := config.LoadScoringPolicy("")
		require.NoError(t, err)
		require.Equal(t, domain.DefaultScoringPolicy(), policy)
	})

	t.Run("should overlay file values on defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scoring.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base: 0.4\noutput_bonus: 0.3\n"), 0o600))

		policy, err := config.LoadScoringPolicy(path)
		require.NoError(t, err)
		require.InDelta(t, 0.4, policy.Base, 0.0001)
		require.InDelta(t, 0.3, policy.OutputBonus, 0.0001)
		require.InDelta(t, 0.05, policy.PerParameter, 0.0001)
		require.InDelta(t, 0.3, policy.ParameterCap, 0.0001)
	})

	t.Run("should reject negative weights", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scoring.yaml")
		require.NoError(t, os.WriteFile(path, []byte("per_parameter: -0.1\n"), 0o600))

		_, err := config.LoadScoringPolicy(path)
		require.Error(t, err)
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		_, err := config.LoadScoringPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
